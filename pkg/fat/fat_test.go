package fat

import (
	"bytes"
	"strings"
	"testing"

	imgtest "github.com/bgrewell/boot-kit/internal/testing"
	"github.com/bgrewell/boot-kit/pkg/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msdosImage() imgtest.Image {
	large := encoding.MarshalUint32LE(0x00100000)
	return imgtest.NewImage().WithOEM("MSDOS5.0").Put(32, large[:])
}

func TestParse(t *testing.T) {
	b, err := Parse(msdosImage().Source(), 0, false, nil)
	require.NoError(t, err)
	require.True(t, b.Verify())
	require.Equal(t, "MSDOS5.0", b.OEM)
	require.Equal(t, uint16(0), b.SectorCountSmall)
	require.Equal(t, uint32(1048576), b.SectorCountLarge)
	require.Nil(t, b.FAT16)
	require.Nil(t, b.FAT32)
}

func TestParseLayout(t *testing.T) {
	layout := imgtest.FATBootSectorLayout{
		Jump:              [3]uint8{0xEB, 0x3C, 0x90},
		OEM:               imgtest.Bytes8("mkfs.fat"),
		BytesPerSector:    512,
		SectorsPerCluster: 4,
		ReservedSectors:   0x0120,
		TableCount:        2,
		DirectoryEntries:  512,
		SectorCountSmall:  20480,
		MediaType:         0xF8,
		SectorsPerFAT:     20,
		SectorsPerTrack:   32,
		Heads:             0x0102,
		HiddenSectors:     63,
	}
	b, err := Parse(imgtest.NewImage().PutStruct(0, &layout).Source(), 0, false, nil)
	require.NoError(t, err)
	require.Equal(t, &BootSector{
		OEM:               "mkfs.fat",
		BytesPerSector:    512,
		SectorsPerCluster: 4,
		ReservedSectors:   0x0120,
		TableCount:        2,
		DirectoryEntries:  512,
		SectorCountSmall:  20480,
		MediaType:         0xF8,
		SectorsPerFAT:     20,
		SectorsPerTrack:   32,
		Heads:             0x0102,
		HiddenSectors:     63,
	}, b)
	require.True(t, b.Verify())
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name  string
		small uint16
		large uint32
		want  bool
	}{
		{"both zero", 0, 0, false},
		{"small only", 2880, 0, true},
		{"large only", 0, 1048576, true},
		{"both set", 2880, 1048576, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &BootSector{SectorCountSmall: tt.small, SectorCountLarge: tt.large}
			require.Equal(t, tt.want, b.Verify())
		})
	}
}

func TestParseExtended(t *testing.T) {
	t.Run("fat16", func(t *testing.T) {
		bpb := imgtest.FATBootSectorLayout{OEM: imgtest.Bytes8("MSDOS5.0"), SectorCountSmall: 2880, SectorsPerFAT: 9}
		ext := imgtest.FAT16ExtendedLayout{
			DriveNumber: 0x80,
			NTFlags:     0,
			Signature:   0x29,
			VolumeID:    0xCAFEBABE,
			VolumeLabel: imgtest.Bytes11("NO NAME    "),
			SystemID:    imgtest.Bytes8("FAT12   "),
		}
		img := imgtest.NewImage().PutStruct(0, &bpb).PutStruct(36, &ext)

		b, err := Parse(img.Source(), 0, true, nil)
		require.NoError(t, err)
		require.Nil(t, b.FAT32)
		require.Equal(t, &Extended16{
			DriveNumber: 0x80,
			Signature:   0x29,
			VolumeID:    0xCAFEBABE,
			VolumeLabel: "NO NAME    ",
			SystemID:    "FAT12   ",
		}, b.FAT16)
	})

	t.Run("fat32", func(t *testing.T) {
		bpb := imgtest.FATBootSectorLayout{OEM: imgtest.Bytes8("mkfs.fat"), SectorCountLarge: 1048576}
		ext := imgtest.FAT32ExtendedLayout{
			SectorsPerFAT:    1021,
			Flags:            0,
			Version:          0,
			RootCluster:      2,
			FSInfoSector:     1,
			BackupBootSector: 6,
			DriveNumber:      0x80,
			Signature:        0x29,
			VolumeID:         0x12345678,
			VolumeLabel:      imgtest.Bytes11("BOOT       "),
			SystemID:         imgtest.Bytes8("FAT32   "),
		}
		img := imgtest.NewImage().PutStruct(0, &bpb).PutStruct(36, &ext)

		b, err := Parse(img.Source(), 0, true, nil)
		require.NoError(t, err)
		require.True(t, b.Verify())
		require.Nil(t, b.FAT16)
		require.Equal(t, &Extended32{
			SectorsPerFAT:    1021,
			RootCluster:      2,
			FSInfoSector:     1,
			BackupBootSector: 6,
			DriveNumber:      0x80,
			Signature:        0x29,
			VolumeID:         0x12345678,
			VolumeLabel:      "BOOT       ",
			SystemID:         "FAT32   ",
		}, b.FAT32)
	})

	t.Run("missing extended record is not an error", func(t *testing.T) {
		b, err := Parse(imgtest.NewImageSize(40).Source(), 0, true, nil)
		require.NoError(t, err)
		require.Nil(t, b.FAT16)
		require.Nil(t, b.FAT32)
	})
}

func TestParseShortRead(t *testing.T) {
	_, err := Parse(imgtest.NewImageSize(20).Source(), 0, false, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "fat")
	require.Contains(t, err.Error(), "offset 0")
}

func TestRender(t *testing.T) {
	t.Run("bpb only", func(t *testing.T) {
		b, err := Parse(msdosImage().Source(), 0, false, nil)
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, b.Render(&out))
		text := out.String()
		require.True(t, strings.HasPrefix(text, "Printing boot Structure FAT Boot Record!\n"))
		assert.Contains(t, text, "OEM: \"MSDOS5.0\"\n")
		assert.Contains(t, text, "Sector Count (large): 1048576\n")
		assert.NotContains(t, text, "Extended Boot Record")
	})

	t.Run("fat32 extension", func(t *testing.T) {
		b, err := Parse(msdosImage().Source(), 0, true, nil)
		require.NoError(t, err)
		require.NotNil(t, b.FAT32)

		var out bytes.Buffer
		require.NoError(t, b.Render(&out))
		text := out.String()
		assert.Contains(t, text, "Sector Count (large): 1048576\nFAT32 Extended Boot Record!\n")
		assert.Contains(t, text, "Root Cluster: 0\n")
	})
}
