package ext

import (
	"fmt"
	"io"

	"github.com/bgrewell/boot-kit/pkg/consts"
	"github.com/bgrewell/boot-kit/pkg/encoding"
	"github.com/bgrewell/boot-kit/pkg/logging"
	"github.com/bgrewell/boot-kit/pkg/source"
	"github.com/google/uuid"
)

const dynamicSize = consts.EXT_DYNAMIC_SUPERBLOCK_SIZE - consts.EXT_SUPERBLOCK_SIZE

// Superblock holds the revision 0 fields of an ext2/3/4 superblock.
type Superblock struct {
	InodeCount        uint32 `json:"inode_count" yaml:"inode_count"`
	BlockCount        uint32 `json:"block_count" yaml:"block_count"`
	SuperuserBlocks   uint32 `json:"superuser_blocks" yaml:"superuser_blocks"`
	UnallocatedBlocks uint32 `json:"unallocated_blocks" yaml:"unallocated_blocks"`
	// Allocated blocks as named by this tool. The ext2 reference documents this word as the free inode count.
	AllocatedBlocks    uint32 `json:"allocated_blocks" yaml:"allocated_blocks"`
	SuperblockLocation uint32 `json:"superblock_location" yaml:"superblock_location"`
	// Block size is 1024 << LogBlockSize.
	LogBlockSize      uint32 `json:"log2_block_size" yaml:"log2_block_size"`
	LogFragmentSize   uint32 `json:"log2_fragment_size" yaml:"log2_fragment_size"`
	BlocksPerGroup    uint32 `json:"blocks_per_group" yaml:"blocks_per_group"`
	FragmentsPerGroup uint32 `json:"fragments_per_group" yaml:"fragments_per_group"`
	InodesPerGroup    uint32 `json:"inodes_per_group" yaml:"inodes_per_group"`
	// POSIX timestamps.
	LastMountTime      uint32 `json:"last_mount_time" yaml:"last_mount_time"`
	LastWrittenTime    uint32 `json:"last_written_time" yaml:"last_written_time"`
	MountCount         uint16 `json:"mount_count" yaml:"mount_count"`
	MountLimit         uint16 `json:"mount_limit" yaml:"mount_limit"`
	Signature          uint16 `json:"signature" yaml:"signature"`
	State              uint16 `json:"state" yaml:"state"`
	StateResponse      uint16 `json:"state_response" yaml:"state_response"`
	MinorVersion       uint16 `json:"minor_version" yaml:"minor_version"`
	LastCheck          uint32 `json:"last_check" yaml:"last_check"`
	ForceCheckInterval uint32 `json:"force_check_interval" yaml:"force_check_interval"`
	OSID               uint32 `json:"os_id" yaml:"os_id"`
	MajorVersion       uint32 `json:"major_version" yaml:"major_version"`
	UserID             uint16 `json:"user_id" yaml:"user_id"`
	GroupID            uint16 `json:"group_id" yaml:"group_id"`

	// Dynamic revision fields, set when MajorVersion >= 1 and the bytes could be read.
	Dynamic *Dynamic `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
}

// Dynamic holds superblock bytes 84..236, present from major revision 1 on.
type Dynamic struct {
	FirstInode        uint32    `json:"first_inode" yaml:"first_inode"`
	InodeSize         uint16    `json:"inode_size" yaml:"inode_size"`
	BlockGroup        uint16    `json:"block_group" yaml:"block_group"`
	FeatureCompat     uint32    `json:"feature_compat" yaml:"feature_compat"`
	FeatureIncompat   uint32    `json:"feature_incompat" yaml:"feature_incompat"`
	FeatureROCompat   uint32    `json:"feature_ro_compat" yaml:"feature_ro_compat"`
	FilesystemID      uuid.UUID `json:"filesystem_id" yaml:"filesystem_id"`
	VolumeName        string    `json:"volume_name" yaml:"volume_name"`
	LastMountPath     string    `json:"last_mount_path" yaml:"last_mount_path"`
	CompressionBitmap uint32    `json:"compression_bitmap" yaml:"compression_bitmap"`
	PreallocBlocks    uint8     `json:"prealloc_blocks" yaml:"prealloc_blocks"`
	PreallocDirBlocks uint8     `json:"prealloc_dir_blocks" yaml:"prealloc_dir_blocks"`
	ReservedGDTBlocks uint16    `json:"reserved_gdt_blocks" yaml:"reserved_gdt_blocks"`
	JournalID         uuid.UUID `json:"journal_id" yaml:"journal_id"`
	JournalInode      uint32    `json:"journal_inode" yaml:"journal_inode"`
	JournalDevice     uint32    `json:"journal_device" yaml:"journal_device"`
	OrphanHead        uint32    `json:"orphan_head" yaml:"orphan_head"`
}

// Parse reads the superblock at start, normally 1024. With extended set, the dynamic revision fields are read
// as well on revision 1 and later superblocks. They are best effort: a short image leaves Dynamic unset.
func Parse(src *source.Source, start int64, extended bool, logger *logging.Logger) (*Superblock, error) {
	buf, err := src.ReadAt(start, consts.EXT_SUPERBLOCK_SIZE)
	if err != nil {
		return nil, fmt.Errorf("ext: %w", err)
	}
	s := Unmarshal([consts.EXT_SUPERBLOCK_SIZE]byte(buf))
	logger.Trace("EXT superblock", "signature", fmt.Sprintf("%#04x", s.Signature), "inodes", s.InodeCount,
		"blocks", s.BlockCount, "revision", s.MajorVersion)

	if !extended || s.MajorVersion < consts.EXT_DYNAMIC_REVISION {
		return s, nil
	}
	rest, err := src.ReadExact(dynamicSize)
	if err != nil {
		logger.Debug("EXT dynamic superblock fields unavailable", "error", err.Error())
		return s, nil
	}
	s.Dynamic = UnmarshalDynamic([dynamicSize]byte(rest))
	return s, nil
}

// Unmarshal decodes the 84 byte revision 0 superblock.
func Unmarshal(data [consts.EXT_SUPERBLOCK_SIZE]byte) *Superblock {
	return &Superblock{
		InodeCount:         encoding.Uint32LE([4]byte(data[0:4])),
		BlockCount:         encoding.Uint32LE([4]byte(data[4:8])),
		SuperuserBlocks:    encoding.Uint32LE([4]byte(data[8:12])),
		UnallocatedBlocks:  encoding.Uint32LE([4]byte(data[12:16])),
		AllocatedBlocks:    encoding.Uint32LE([4]byte(data[16:20])),
		SuperblockLocation: encoding.Uint32LE([4]byte(data[20:24])),
		LogBlockSize:       encoding.Uint32LE([4]byte(data[24:28])),
		LogFragmentSize:    encoding.Uint32LE([4]byte(data[28:32])),
		BlocksPerGroup:     encoding.Uint32LE([4]byte(data[32:36])),
		FragmentsPerGroup:  encoding.Uint32LE([4]byte(data[36:40])),
		InodesPerGroup:     encoding.Uint32LE([4]byte(data[40:44])),
		LastMountTime:      encoding.Uint32LE([4]byte(data[44:48])),
		LastWrittenTime:    encoding.Uint32LE([4]byte(data[48:52])),
		MountCount:         encoding.Uint16LE([2]byte(data[52:54])),
		MountLimit:         encoding.Uint16LE([2]byte(data[54:56])),
		Signature:          encoding.Uint16LE([2]byte(data[56:58])),
		State:              encoding.Uint16LE([2]byte(data[58:60])),
		StateResponse:      encoding.Uint16LE([2]byte(data[60:62])),
		MinorVersion:       encoding.Uint16LE([2]byte(data[62:64])),
		LastCheck:          encoding.Uint32LE([4]byte(data[64:68])),
		ForceCheckInterval: encoding.Uint32LE([4]byte(data[68:72])),
		OSID:               encoding.Uint32LE([4]byte(data[72:76])),
		MajorVersion:       encoding.Uint32LE([4]byte(data[76:80])),
		UserID:             encoding.Uint16LE([2]byte(data[80:82])),
		GroupID:            encoding.Uint16LE([2]byte(data[82:84])),
	}
}

// UnmarshalDynamic decodes superblock bytes 84..236. Offsets below are relative to byte 84.
func UnmarshalDynamic(data [dynamicSize]byte) *Dynamic {
	return &Dynamic{
		FirstInode:        encoding.Uint32LE([4]byte(data[0:4])),
		InodeSize:         encoding.Uint16LE([2]byte(data[4:6])),
		BlockGroup:        encoding.Uint16LE([2]byte(data[6:8])),
		FeatureCompat:     encoding.Uint32LE([4]byte(data[8:12])),
		FeatureIncompat:   encoding.Uint32LE([4]byte(data[12:16])),
		FeatureROCompat:   encoding.Uint32LE([4]byte(data[16:20])),
		FilesystemID:      uuid.UUID(data[20:36]),
		VolumeName:        encoding.TrimNUL(data[36:52]),
		LastMountPath:     encoding.TrimNUL(data[52:116]),
		CompressionBitmap: encoding.Uint32LE([4]byte(data[116:120])),
		PreallocBlocks:    data[120],
		PreallocDirBlocks: data[121],
		ReservedGDTBlocks: encoding.Uint16LE([2]byte(data[122:124])),
		JournalID:         uuid.UUID(data[124:140]),
		JournalInode:      encoding.Uint32LE([4]byte(data[140:144])),
		JournalDevice:     encoding.Uint32LE([4]byte(data[144:148])),
		OrphanHead:        encoding.Uint32LE([4]byte(data[148:152])),
	}
}

// Verify reports whether the superblock carries the ext magic number.
func (s *Superblock) Verify() bool {
	return s.Signature == consts.EXT_SIGNATURE
}

// BlockSize returns the filesystem block size in bytes.
func (s *Superblock) BlockSize() uint64 {
	return 1024 << uint64(s.LogBlockSize)
}

// Render writes the superblock fields, followed by the dynamic revision fields when present.
func (s *Superblock) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Printing boot Structure %s!\n"+
			"Inode Count: %d\n"+
			"Block Count: %d\n"+
			"SuperUser Blocks: %d\n"+
			"Unallocated Blocks: %d\n"+
			"Allocated Blocks: %d\n"+
			"Superblock Location: %d\n"+
			"Block Size (log b2): %d\n"+
			"Fragment Size (log b2): %d\n"+
			"Blocks Per Group: %d\n"+
			"Fragments Per Group: %d\n"+
			"Inodes per Group: %d\n"+
			"Last Mount Time: %d\n"+
			"Last Written Time: %d\n"+
			"Mount Count Check: %d\n"+
			"Mount Limit Check: %d\n"+
			"Signature: %d\n"+
			"State: %d\n"+
			"State Response: %d\n"+
			"Minor Version: %d\n"+
			"Last Check: %d\n"+
			"Force Check: %d\n"+
			"OS ID: %d\n"+
			"Major Version: %d\n"+
			"User ID: %d\n"+
			"Group ID: %d\n",
		consts.EXT_NAME,
		s.InodeCount,
		s.BlockCount,
		s.SuperuserBlocks,
		s.UnallocatedBlocks,
		s.AllocatedBlocks,
		s.SuperblockLocation,
		s.LogBlockSize,
		s.LogFragmentSize,
		s.BlocksPerGroup,
		s.FragmentsPerGroup,
		s.InodesPerGroup,
		s.LastMountTime,
		s.LastWrittenTime,
		s.MountCount,
		s.MountLimit,
		s.Signature,
		s.State,
		s.StateResponse,
		s.MinorVersion,
		s.LastCheck,
		s.ForceCheckInterval,
		s.OSID,
		s.MajorVersion,
		s.UserID,
		s.GroupID,
	)
	if err != nil || s.Dynamic == nil {
		return err
	}

	d := s.Dynamic
	_, err = fmt.Fprintf(w,
		"Dynamic Revision Fields!\n"+
			"First Inode: %d\n"+
			"Inode Size: %d\n"+
			"Block Group: %d\n"+
			"Compatible Features: %d\n"+
			"Incompatible Features: %d\n"+
			"Read-Only Compatible Features: %d\n"+
			"Filesystem ID: %s\n"+
			"Volume Name: %q\n"+
			"Last Mount Path: %q\n"+
			"Compression Bitmap: %d\n"+
			"Preallocated Blocks: %d\n"+
			"Preallocated Directory Blocks: %d\n"+
			"Reserved GDT Blocks: %d\n"+
			"Journal ID: %s\n"+
			"Journal Inode: %d\n"+
			"Journal Device: %d\n"+
			"Orphan List Head: %d\n",
		d.FirstInode,
		d.InodeSize,
		d.BlockGroup,
		d.FeatureCompat,
		d.FeatureIncompat,
		d.FeatureROCompat,
		d.FilesystemID,
		d.VolumeName,
		d.LastMountPath,
		d.CompressionBitmap,
		d.PreallocBlocks,
		d.PreallocDirBlocks,
		d.ReservedGDTBlocks,
		d.JournalID,
		d.JournalInode,
		d.JournalDevice,
		d.OrphanHead,
	)
	return err
}
