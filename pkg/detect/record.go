package detect

import (
	"errors"
	"fmt"
	"io"

	"github.com/bgrewell/boot-kit/pkg/consts"
	"github.com/bgrewell/boot-kit/pkg/ext"
	"github.com/bgrewell/boot-kit/pkg/fat"
	"github.com/bgrewell/boot-kit/pkg/mbr"
	"github.com/bgrewell/boot-kit/pkg/ntfs"
)

// ErrUnsupported is returned when every probe read its header but none verified.
var ErrUnsupported = errors.New(consts.UNSUPPORTED_MESSAGE)

// Format identifies which boot structure a Record holds.
type Format int

const (
	FORMAT_UNKNOWN Format = iota
	FORMAT_MBR
	FORMAT_NTFS
	FORMAT_FAT
	FORMAT_EXT
)

func (f Format) String() string {
	switch f {
	case FORMAT_MBR:
		return "FORMAT_MBR"
	case FORMAT_NTFS:
		return "FORMAT_NTFS"
	case FORMAT_FAT:
		return "FORMAT_FAT"
	case FORMAT_EXT:
		return "FORMAT_EXT"
	default:
		return "FORMAT_UNKNOWN"
	}
}

// Name returns the display name of the structure.
func (f Format) Name() string {
	switch f {
	case FORMAT_MBR:
		return consts.MBR_NAME
	case FORMAT_NTFS:
		return consts.NTFS_NAME
	case FORMAT_FAT:
		return consts.FAT_NAME
	case FORMAT_EXT:
		return consts.EXT_NAME
	default:
		return "Unknown"
	}
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case FORMAT_MBR:
		return []byte("mbr"), nil
	case FORMAT_NTFS:
		return []byte("ntfs"), nil
	case FORMAT_FAT:
		return []byte("fat"), nil
	case FORMAT_EXT:
		return []byte("ext"), nil
	default:
		return []byte("unknown"), nil
	}
}

// Record is the outcome of a successful detection. Format says which of the pointers is set; exactly one is.
type Record struct {
	Format Format                `json:"format" yaml:"format"`
	MBR    *mbr.MasterBootRecord `json:"mbr,omitempty" yaml:"mbr,omitempty"`
	NTFS   *ntfs.BootSector      `json:"ntfs,omitempty" yaml:"ntfs,omitempty"`
	FAT    *fat.BootSector       `json:"fat,omitempty" yaml:"fat,omitempty"`
	Ext    *ext.Superblock       `json:"ext,omitempty" yaml:"ext,omitempty"`
}

// Verify re-runs the signature check of the held record.
func (r Record) Verify() bool {
	switch {
	case r.Format == FORMAT_MBR && r.MBR != nil:
		return r.MBR.Verify()
	case r.Format == FORMAT_NTFS && r.NTFS != nil:
		return r.NTFS.Verify()
	case r.Format == FORMAT_FAT && r.FAT != nil:
		return r.FAT.Verify()
	case r.Format == FORMAT_EXT && r.Ext != nil:
		return r.Ext.Verify()
	default:
		return false
	}
}

// Render writes the human-readable listing of the held record.
func (r Record) Render(w io.Writer) error {
	switch {
	case r.Format == FORMAT_MBR && r.MBR != nil:
		return r.MBR.Render(w)
	case r.Format == FORMAT_NTFS && r.NTFS != nil:
		return r.NTFS.Render(w)
	case r.Format == FORMAT_FAT && r.FAT != nil:
		return r.FAT.Render(w)
	case r.Format == FORMAT_EXT && r.Ext != nil:
		return r.Ext.Render(w)
	default:
		return fmt.Errorf("cannot render record of format %s", r.Format)
	}
}
