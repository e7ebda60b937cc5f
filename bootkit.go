package bootkit

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bgrewell/boot-kit/pkg/detect"
	"github.com/bgrewell/boot-kit/pkg/info"
	"github.com/bgrewell/boot-kit/pkg/option"
	"github.com/bgrewell/boot-kit/pkg/source"
)

// Open inspects the disk image at location and returns the boot structure found at its start. The file is only
// read and is closed before Open returns.
//
// When no structure verifies the error is detect.ErrUnsupported and the returned Image still carries the layout
// of the regions that were probed.
func Open(location string, opts ...option.OpenOption) (*Image, error) {
	o := option.Apply(opts...)
	logger := o.Logger.WithName("bootkit").WithValues("image", location)

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", location)
	}
	logger.Debug("Opened image", "size", stat.Size())

	img, err := inspect(source.New(f), opts...)
	if img != nil {
		img.Location = location
		img.Size = stat.Size()
		img.layout.ImageSize = stat.Size()
	}
	if err != nil {
		return img, err
	}
	logger.Info("Detected boot structure", "structure", img.Record.Format.Name())
	return img, nil
}

// Inspect runs detection over an already opened image.
func Inspect(reader io.ReadSeeker, opts ...option.OpenOption) (*Image, error) {
	return inspect(source.New(reader), opts...)
}

func inspect(src *source.Source, opts ...option.OpenOption) (*Image, error) {
	d := detect.New(opts...)
	rec, err := d.Detect(src)
	if err != nil && !errors.Is(err, detect.ErrUnsupported) {
		return nil, err
	}
	return &Image{Record: rec, layout: d.Layout()}, err
}

// Image is the result of inspecting a disk image.
type Image struct {
	Location string
	Size     int64
	Record   detect.Record
	layout   *info.DiskLayout
}

// Format returns the detected structure, FORMAT_UNKNOWN if none verified.
func (i *Image) Format() detect.Format {
	return i.Record.Format
}

// Layout returns the regions probed during detection.
func (i *Image) Layout() *info.DiskLayout {
	return i.layout
}

// Render writes the field listing of the detected structure.
func (i *Image) Render(w io.Writer) error {
	return i.Record.Render(w)
}

func (i *Image) String() string {
	return fmt.Sprintf("%s (%d bytes): %s", i.Location, i.Size, i.Record.Format.Name())
}
