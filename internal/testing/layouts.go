package testing

// The layouts below describe the on-disk structures field by field in disk order. Tests pack them with struc and
// compare what the offset based decoders read back, so a wrong offset in either place shows up as a mismatch.

type PartitionEntryLayout struct {
	Status      uint8
	CHSStart    [3]uint8
	Type        uint8
	CHSEnd      [3]uint8
	LBAStart    uint32
	SectorCount uint32
}

type NTFSBootSectorLayout struct {
	Jump                [3]uint8
	OEM                 [8]uint8
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectors     uint16
	TableCount          uint8
	RootEntryCount      uint16
	SectorCountSmall    uint16
	MediaType           uint8
	SectorsPerTable     uint16
	SectorsPerTrack     uint16
	HeadCount           uint16
	HiddenSectors       uint32
	SectorCountLarge    uint32
	Reserved            uint32
	SectorCountXLarge   uint64
	MasterTableCluster1 uint64
	MasterTableCluster2 uint64
	ClustersPerRecord   uint8
	Reserved2           [3]uint8
	Serial              uint64
	Checksum            uint32
}

type FATBootSectorLayout struct {
	Jump              [3]uint8
	OEM               [8]uint8
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	TableCount        uint8
	DirectoryEntries  uint16
	SectorCountSmall  uint16
	MediaType         uint8
	SectorsPerFAT     uint16
	SectorsPerTrack   uint16
	Heads             uint16
	HiddenSectors     uint32
	SectorCountLarge  uint32
}

// FAT16ExtendedLayout follows the BPB at offset 36 on FAT12 and FAT16 volumes.
type FAT16ExtendedLayout struct {
	DriveNumber uint8
	NTFlags     uint8
	Signature   uint8
	VolumeID    uint32
	VolumeLabel [11]uint8
	SystemID    [8]uint8
}

// FAT32ExtendedLayout follows the BPB at offset 36 on FAT32 volumes.
type FAT32ExtendedLayout struct {
	SectorsPerFAT    uint32
	Flags            uint16
	Version          uint16
	RootCluster      uint32
	FSInfoSector     uint16
	BackupBootSector uint16
	Reserved         [12]uint8
	DriveNumber      uint8
	NTFlags          uint8
	Signature        uint8
	VolumeID         uint32
	VolumeLabel      [11]uint8
	SystemID         [8]uint8
}

type ExtSuperblockLayout struct {
	InodeCount         uint32
	BlockCount         uint32
	SuperuserBlocks    uint32
	UnallocatedBlocks  uint32
	AllocatedBlocks    uint32
	SuperblockLocation uint32
	LogBlockSize       uint32
	LogFragmentSize    uint32
	BlocksPerGroup     uint32
	FragmentsPerGroup  uint32
	InodesPerGroup     uint32
	LastMountTime      uint32
	LastWrittenTime    uint32
	MountCount         uint16
	MountLimit         uint16
	Signature          uint16
	State              uint16
	StateResponse      uint16
	MinorVersion       uint16
	LastCheck          uint32
	ForceCheckInterval uint32
	OSID               uint32
	MajorVersion       uint32
	UserID             uint16
	GroupID            uint16
}

// ExtDynamicLayout follows the revision 0 fields at superblock offset 84.
type ExtDynamicLayout struct {
	FirstInode        uint32
	InodeSize         uint16
	BlockGroup        uint16
	FeatureCompat     uint32
	FeatureIncompat   uint32
	FeatureROCompat   uint32
	FilesystemID      [16]uint8
	VolumeName        [16]uint8
	LastMountPath     [64]uint8
	CompressionBitmap uint32
	PreallocBlocks    uint8
	PreallocDirBlocks uint8
	ReservedGDTBlocks uint16
	JournalID         [16]uint8
	JournalInode      uint32
	JournalDevice     uint32
	OrphanHead        uint32
}

// Bytes8 returns s as a fixed-size, zero padded array. The other BytesN helpers do the same for their width.
func Bytes8(s string) (b [8]uint8) {
	copy(b[:], s)
	return b
}

func Bytes11(s string) (b [11]uint8) {
	copy(b[:], s)
	return b
}

func Bytes16(s string) (b [16]uint8) {
	copy(b[:], s)
	return b
}

func Bytes64(s string) (b [64]uint8) {
	copy(b[:], s)
	return b
}
