package info

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bgrewell/boot-kit/pkg/consts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probedLayout() *DiskLayout {
	l := NewDiskLayout()
	l.AddRegion(consts.MBR_NAME, "partition table", 446, 66, false)
	l.AddRegion(consts.NTFS_NAME, "boot sector", 0, 80, false)
	l.AddRegion(consts.FAT_NAME, "BIOS parameter block", 0, 36, false)
	l.AddRegion(consts.EXT_NAME, "superblock", 1024, 84, true)
	return l
}

func TestAddRegion(t *testing.T) {
	t.Run("sorted by offset keeping probe order on ties", func(t *testing.T) {
		l := probedLayout()
		require.Len(t, l.Regions, 4)
		names := make([]string, 0, len(l.Regions))
		for _, r := range l.Regions {
			names = append(names, r.Structure)
		}
		require.Equal(t, []string{consts.NTFS_NAME, consts.FAT_NAME, consts.MBR_NAME, consts.EXT_NAME}, names)
	})

	t.Run("duplicates update in place", func(t *testing.T) {
		l := probedLayout()
		l.AddRegion(consts.MBR_NAME, "partition table", 446, 66, true)
		require.Len(t, l.Regions, 4)
		require.True(t, l.Regions[2].Verified)
	})
}

func TestVerified(t *testing.T) {
	l := probedLayout()
	require.NotNil(t, l.Verified())
	require.Equal(t, consts.EXT_NAME, l.Verified().Structure)

	require.Nil(t, NewDiskLayout().Verified())
}

func TestPrettyJSON(t *testing.T) {
	l := probedLayout()
	l.ImageSize = 1108

	var decoded DiskLayout
	require.NoError(t, json.Unmarshal([]byte(l.PrettyJSON()), &decoded))
	require.Equal(t, int64(1108), decoded.ImageSize)
	require.Len(t, decoded.Regions, 4)
	require.Equal(t, int64(1024), decoded.Regions[3].Offset)
}

func TestPrint(t *testing.T) {
	t.Run("decimal offsets", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, probedLayout().Print(&out, false, false))
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 6)
		assert.Equal(t, "=== Disk Layout ===", lines[0])
		assert.Contains(t, lines[3], "Offset:    446")
		assert.Contains(t, lines[3], "(Verified: false)")
		assert.Contains(t, lines[4], consts.EXT_NAME)
		assert.Contains(t, lines[4], "84 B")
		assert.Contains(t, lines[4], "(Verified: true)")
	})

	t.Run("hex offsets", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, probedLayout().Print(&out, false, true))
		assert.Contains(t, out.String(), "0x400")
		assert.Contains(t, out.String(), "0x1be")
	})
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "      84 B ", formatSize(84))
	assert.Equal(t, "   10.00 KB", formatSize(10*1024))
	assert.Equal(t, "    1.50 MB", formatSize(3*512*1024))
	assert.Equal(t, "    2.00 GB", formatSize(2*1024*1024*1024))
}
