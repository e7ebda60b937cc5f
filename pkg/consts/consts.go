package consts

const (
	// Size of a legacy (512 byte) boot sector. The MBR signature occupies its last two bytes.
	SECTOR_SIZE = 512

	// Start of the primary partition table within the MBR sector.
	MBR_PARTITION_TABLE_OFFSET = 446

	// Size of a single primary partition entry.
	MBR_PARTITION_ENTRY_SIZE = 16

	// Number of primary partition entries in the MBR.
	MBR_PARTITION_COUNT = 4

	// Boot signature location within the MBR sector.
	MBR_SIGNATURE_OFFSET = SECTOR_SIZE - 2

	// Boot signature 0x55 0xAA read as a little-endian value.
	MBR_SIGNATURE = 0xAA55

	// Bytes read by the MBR decoder: four entries plus the trailing signature.
	MBR_TABLE_SIZE = MBR_PARTITION_ENTRY_SIZE*MBR_PARTITION_COUNT + 2

	// OEM identifier location shared by the NTFS and FAT boot sectors.
	OEM_OFFSET = 3
	OEM_SIZE   = 8

	// NTFS OEM identifier. Four letters followed by four spaces.
	NTFS_OEM_ID = "NTFS    "

	// Size of the decoded NTFS boot sector header.
	NTFS_HEADER_SIZE = 80

	// Size of the FAT BIOS Parameter Block shared by every FAT variant.
	FAT_BPB_SIZE = 36

	// Size of the BPB plus the largest (FAT32) extended boot record.
	FAT_EXTENDED_BPB_SIZE = 90

	// Absolute location of the ext superblock.
	EXT_SUPERBLOCK_OFFSET = 1024

	// Size of the revision 0 superblock fields.
	EXT_SUPERBLOCK_SIZE = 84

	// Size of the superblock including the dynamic revision fields.
	EXT_DYNAMIC_SUPERBLOCK_SIZE = 236

	// Signature offset within the superblock.
	EXT_SIGNATURE_OFFSET = 56

	// ext2/3/4 magic number.
	EXT_SIGNATURE = 0xEF53

	// First major revision carrying the dynamic superblock fields.
	EXT_DYNAMIC_REVISION = 1

	// Display names of the supported structures.
	MBR_NAME  = "Master Boot Record"
	NTFS_NAME = "NTFS Boot Record"
	FAT_NAME  = "FAT Boot Record"
	EXT_NAME  = "EXT Super Block"

	// Message reported when no decoder verifies.
	UNSUPPORTED_MESSAGE = "Could not find a working structure for this disk! Either this file is not a disk or is a disk type not supported!"
)
