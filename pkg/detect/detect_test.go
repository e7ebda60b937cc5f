package detect

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	imgtest "github.com/bgrewell/boot-kit/internal/testing"
	"github.com/bgrewell/boot-kit/pkg/consts"
	"github.com/bgrewell/boot-kit/pkg/encoding"
	"github.com/bgrewell/boot-kit/pkg/logging"
	"github.com/bgrewell/boot-kit/pkg/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mbrImage() imgtest.Image {
	return imgtest.NewImage().
		WithMBRSignature().
		WithPartition(0, imgtest.PartitionEntryLayout{
			Status:      0x80,
			Type:        0x83,
			LBAStart:    0x00000800,
			SectorCount: 0x00100000,
		})
}

func ntfsImage() imgtest.Image {
	return imgtest.NewImage().WithOEM("NTFS    ").Put(11, []byte{0x00, 0x02})
}

func fatImage() imgtest.Image {
	large := encoding.MarshalUint32LE(0x00100000)
	return imgtest.NewImage().WithOEM("MSDOS5.0").Put(32, large[:])
}

func extImage() imgtest.Image {
	return imgtest.NewImage().WithExtSignature().Put(consts.EXT_SUPERBLOCK_OFFSET, []byte{0x00, 0x01, 0x00, 0x00})
}

func render(t *testing.T, rec Record) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, rec.Render(&out))
	return out.String()
}

func TestDetectScenarios(t *testing.T) {
	tests := []struct {
		name   string
		image  imgtest.Image
		format Format
		header string
		lines  []string
	}{
		{
			name:   "mbr",
			image:  mbrImage(),
			format: FORMAT_MBR,
			header: "Printing boot Structure Master Boot Record!",
			lines:  []string{"bootable: true", "partition_type: 83", "lba: 2048", "size: 1048576"},
		},
		{
			name:   "ntfs",
			image:  ntfsImage(),
			format: FORMAT_NTFS,
			header: "Printing boot Structure NTFS Boot Record!",
			lines:  []string{"Bytes Per Sector: 512"},
		},
		{
			name:   "fat",
			image:  fatImage(),
			format: FORMAT_FAT,
			header: "Printing boot Structure FAT Boot Record!",
			lines:  []string{"Sector Count (large): 1048576"},
		},
		{
			name:   "ext",
			image:  extImage(),
			format: FORMAT_EXT,
			header: "Printing boot Structure EXT Super Block!",
			lines:  []string{"Inode Count: 256", "Signature: 61267"},
		},
		{
			name:   "mbr wins over ext",
			image:  extImage().WithMBRSignature(),
			format: FORMAT_MBR,
			header: "Printing boot Structure Master Boot Record!",
		},
		{
			name:   "mbr wins over ntfs",
			image:  ntfsImage().WithMBRSignature(),
			format: FORMAT_MBR,
			header: "Printing boot Structure Master Boot Record!",
		},
		{
			name:   "ntfs wins over fat",
			image:  ntfsImage().Put(32, []byte{0x00, 0x00, 0x10, 0x00}),
			format: FORMAT_NTFS,
			header: "Printing boot Structure NTFS Boot Record!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Detect(tt.image.Source())
			require.NoError(t, err)
			require.Equal(t, tt.format, rec.Format)
			require.True(t, rec.Verify())

			text := render(t, rec)
			require.True(t, strings.HasPrefix(text, tt.header+"\n"), text)
			for _, line := range tt.lines {
				assert.Contains(t, text, line+"\n")
			}
		})
	}
}

func TestDetectUnsupported(t *testing.T) {
	rec, err := Detect(imgtest.NewImage().Source())
	require.ErrorIs(t, err, ErrUnsupported)
	require.Equal(t, consts.UNSUPPORTED_MESSAGE, err.Error())
	require.Equal(t, FORMAT_UNKNOWN, rec.Format)
}

func TestDetectTruncated(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		structure string
		offset    string
	}{
		{"inside the first sector", 500, consts.MBR_NAME, "offset 446"},
		{"before the superblock", 1000, consts.EXT_NAME, "offset 1024"},
		{"inside the superblock", 1100, consts.EXT_NAME, "offset 1024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Detect(imgtest.NewImageSize(tt.size).Source())
			require.Error(t, err)
			require.False(t, errors.Is(err, ErrUnsupported))
			require.Contains(t, err.Error(), tt.structure)
			require.Contains(t, err.Error(), tt.offset)
		})
	}

	t.Run("a verified mbr still needs a full read", func(t *testing.T) {
		_, err := Detect(mbrImage()[:511].Source())
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("a verified mbr needs nothing past the first sector", func(t *testing.T) {
		rec, err := Detect(mbrImage()[:consts.SECTOR_SIZE].Source())
		require.NoError(t, err)
		require.Equal(t, FORMAT_MBR, rec.Format)
	})
}

func TestRenderIdempotent(t *testing.T) {
	for _, img := range []imgtest.Image{mbrImage(), ntfsImage(), fatImage(), extImage()} {
		rec, err := Detect(img.Source())
		require.NoError(t, err)
		require.Equal(t, render(t, rec), render(t, rec))

		again, err := Detect(img.Source())
		require.NoError(t, err)
		require.Equal(t, render(t, rec), render(t, again))
	}
}

func TestRecordRenderUnknown(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, Record{}.Render(&out))
	require.Error(t, Record{Format: FORMAT_MBR}.Render(&out))
	require.False(t, Record{}.Verify())
	require.Empty(t, out.String())
}

func TestProbeProgress(t *testing.T) {
	type call struct {
		name     string
		offset   int64
		verified bool
		current  int
		total    int
	}
	var calls []call
	d := New(option.WithProbeProgress(func(name string, offset int64, verified bool, current, total int) {
		calls = append(calls, call{name, offset, verified, current, total})
	}))

	_, err := d.Detect(extImage().Source())
	require.NoError(t, err)
	require.Equal(t, []call{
		{consts.MBR_NAME, 446, false, 1, 4},
		{consts.NTFS_NAME, 0, false, 2, 4},
		{consts.FAT_NAME, 0, false, 3, 4},
		{consts.EXT_NAME, 1024, true, 4, 4},
	}, calls)

	calls = nil
	_, err = d.Detect(mbrImage().Source())
	require.NoError(t, err)
	require.Equal(t, []call{{consts.MBR_NAME, 446, true, 1, 4}}, calls)
}

func TestLayout(t *testing.T) {
	d := New()
	_, err := d.Detect(fatImage().Source())
	require.NoError(t, err)

	l := d.Layout()
	require.Len(t, l.Regions, 3)
	require.Equal(t, consts.NTFS_NAME, l.Regions[0].Structure)
	require.Equal(t, consts.FAT_NAME, l.Regions[1].Structure)
	require.Equal(t, consts.MBR_NAME, l.Regions[2].Structure)
	require.Equal(t, consts.FAT_NAME, l.Verified().Structure)

	_, err = d.Detect(imgtest.NewImage().Source())
	require.ErrorIs(t, err, ErrUnsupported)
	require.Len(t, d.Layout().Regions, 4)
	require.Nil(t, d.Layout().Verified())
}

func TestExtendedHeadersOption(t *testing.T) {
	rec, err := Detect(fatImage().Source())
	require.NoError(t, err)
	require.NotNil(t, rec.FAT.FAT32)

	rec, err = Detect(fatImage().Source(), option.WithExtendedHeaders(false))
	require.NoError(t, err)
	require.Nil(t, rec.FAT.FAT32)
	require.Nil(t, rec.FAT.FAT16)
}

func TestDetectLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.NewSimpleLogger(&buf, logging.LEVEL_DEBUG, false))

	_, err := Detect(ntfsImage().Source(), option.WithLogger(logger))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "[DEBUG] [detect] Structure did not verify\n")
	assert.Contains(t, out, "[DEBUG] [detect] Structure verified\n")
	assert.Contains(t, out, "  structure: "+consts.NTFS_NAME+"\n")
	assert.NotContains(t, out, "[TRACE]")
}

func TestFormat(t *testing.T) {
	require.Equal(t, "FORMAT_EXT", FORMAT_EXT.String())
	require.Equal(t, consts.MBR_NAME, FORMAT_MBR.Name())
	text, err := FORMAT_NTFS.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "ntfs", string(text))
}

func TestGroundTruth(t *testing.T) {
	entries, err := imgtest.LoadGroundTruth("testdata/ground_truth.json")
	require.NoError(t, err)

	images := map[string]imgtest.Image{
		"mbr":  mbrImage(),
		"ntfs": ntfsImage(),
		"fat":  fatImage(),
		"ext":  extImage(),
	}
	require.Len(t, entries, len(images))

	for _, entry := range entries {
		t.Run(entry.Name, func(t *testing.T) {
			img, ok := images[entry.Name]
			require.True(t, ok, "no fixture for %s", entry.Name)

			d := New()
			rec, err := d.Detect(img.Source())
			require.NoError(t, err)
			require.NoError(t, imgtest.Validate(render(t, rec), entry))

			verified, rejected := imgtest.GetRegionCounts(d.Layout())
			require.Equal(t, 1, verified)
			require.Equal(t, int(rec.Format)-1, rejected)
		})
	}
}
