package info

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/bgrewell/boot-kit/pkg/consts"
	"github.com/fatih/color"
)

// RegionInfo describes one byte range a probe read from the image.
type RegionInfo struct {
	Structure string `json:"structure" yaml:"structure"`
	Detail    string `json:"detail" yaml:"detail"`
	Offset    int64  `json:"offset" yaml:"offset"`
	Length    int64  `json:"length" yaml:"length"`
	Verified  bool   `json:"verified" yaml:"verified"`
}

// NewDiskLayout returns an empty layout.
func NewDiskLayout() *DiskLayout {
	return &DiskLayout{
		Regions: make([]*RegionInfo, 0),
	}
}

// DiskLayout is the map of regions inspected during detection.
type DiskLayout struct {
	ImageSize int64         `json:"image_size" yaml:"image_size"`
	Regions   []*RegionInfo `json:"regions" yaml:"regions"`
}

// AddRegion appends a region only if it doesn't already exist and keeps the list sorted by offset. Regions that
// start at the same offset keep the order they were added in.
func (l *DiskLayout) AddRegion(structure string, detail string, offset int64, length int64, verified bool) {
	for _, region := range l.Regions {
		if region.Structure == structure && region.Offset == offset && region.Length == length {
			region.Detail = detail
			region.Verified = verified
			return
		}
	}

	l.Regions = append(l.Regions, &RegionInfo{
		Structure: structure,
		Detail:    detail,
		Offset:    offset,
		Length:    length,
		Verified:  verified,
	})

	slices.SortStableFunc(l.Regions, func(a, b *RegionInfo) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})
}

// Verified returns the first region whose structure verified, or nil.
func (l *DiskLayout) Verified() *RegionInfo {
	for _, region := range l.Regions {
		if region.Verified {
			return region
		}
	}
	return nil
}

// PrettyJSON returns a pretty-printed JSON representation of the layout.
func (l *DiskLayout) PrettyJSON() string {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON: %v", err)
	}
	return string(data)
}

// Print writes the probed regions in the order they occur in the image.
// - `useColor` controls whether colored output is used.
// - `useHexOffset` prints offsets in hexadecimal if true.
func (l *DiskLayout) Print(w io.Writer, useColor bool, useHexOffset bool) error {
	colorMap := map[string]func(a ...interface{}) string{
		consts.MBR_NAME:  color.New(color.FgBlue, color.Bold).SprintFunc(),
		consts.NTFS_NAME: color.New(color.FgYellow, color.Bold).SprintFunc(),
		consts.FAT_NAME:  color.New(color.FgCyan, color.Bold).SprintFunc(),
		consts.EXT_NAME:  color.New(color.FgMagenta, color.Bold).SprintFunc(),
	}
	plain := func(a ...interface{}) string { return fmt.Sprint(a...) }

	headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
	offsetColor := color.New(color.FgGreen).SprintFunc()
	lengthColor := color.New(color.FgGreen).SprintFunc()
	verifiedColor := color.New(color.FgHiGreen).SprintFunc()
	rejectedColor := color.New(color.FgRed).SprintFunc()

	if !useColor {
		for key := range colorMap {
			colorMap[key] = plain
		}
		headerColor = plain
		offsetColor = plain
		lengthColor = plain
		verifiedColor = plain
		rejectedColor = plain
	}

	if _, err := fmt.Fprintln(w, headerColor("=== Disk Layout ===")); err != nil {
		return err
	}

	offsetWidth := 14
	structureWidth := 20
	lengthWidth := 12

	if useHexOffset {
		offsetWidth = 18
	}

	for _, region := range l.Regions {
		offsetStr := fmt.Sprintf("Offset: %*d", offsetWidth-8, region.Offset)
		if useHexOffset {
			offsetStr = fmt.Sprintf("Offset: %#*x", offsetWidth-8, region.Offset)
		}

		colorize, ok := colorMap[region.Structure]
		if !ok {
			colorize = plain
		}

		verifiedStr := rejectedColor("false")
		if region.Verified {
			verifiedStr = verifiedColor("true")
		}

		_, err := fmt.Fprintf(w, "[%s] [%s] [%s] %s (Verified: %s)\n",
			offsetColor(offsetStr),
			colorize(fmt.Sprintf("%-*s", structureWidth, region.Structure)),
			lengthColor(fmt.Sprintf("%*s", lengthWidth, formatSize(region.Length))),
			region.Detail,
			verifiedStr,
		)
		if err != nil {
			return err
		}
	}

	if l.ImageSize > 0 {
		if _, err := fmt.Fprintf(w, "Image Size: %s\n", formatSize(l.ImageSize)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, headerColor("==================="))
	return err
}

// formatSize converts a size in bytes to a human-readable format.
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%8.2f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%8.2f MB", float64(size)/float64(MB))
	case size >= KB*10:
		return fmt.Sprintf("%8.2f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%8d B ", size)
	}
}
