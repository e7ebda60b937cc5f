package fat

import (
	"fmt"
	"io"

	"github.com/bgrewell/boot-kit/pkg/consts"
	"github.com/bgrewell/boot-kit/pkg/encoding"
	"github.com/bgrewell/boot-kit/pkg/logging"
	"github.com/bgrewell/boot-kit/pkg/source"
)

// BootSector is the BIOS Parameter Block shared by FAT12, FAT16 and FAT32.
type BootSector struct {
	OEM               string `json:"oem" yaml:"oem"`
	BytesPerSector    uint16 `json:"bytes_per_sector" yaml:"bytes_per_sector"`
	SectorsPerCluster uint8  `json:"sectors_per_cluster" yaml:"sectors_per_cluster"`
	ReservedSectors   uint16 `json:"reserved_sectors" yaml:"reserved_sectors"`
	TableCount        uint8  `json:"table_count" yaml:"table_count"`
	DirectoryEntries  uint16 `json:"directory_entries" yaml:"directory_entries"`
	SectorCountSmall  uint16 `json:"sector_count_small" yaml:"sector_count_small"`
	MediaType         uint8  `json:"media_type" yaml:"media_type"`
	SectorsPerFAT     uint16 `json:"sectors_per_fat" yaml:"sectors_per_fat"`
	SectorsPerTrack   uint16 `json:"sectors_per_track" yaml:"sectors_per_track"`
	Heads             uint16 `json:"heads" yaml:"heads"`
	HiddenSectors     uint32 `json:"hidden_sectors" yaml:"hidden_sectors"`
	SectorCountLarge  uint32 `json:"sector_count_large" yaml:"sector_count_large"`

	// Extended boot record. At most one is set, and only when extended headers were requested and present.
	FAT16 *Extended16 `json:"fat16,omitempty" yaml:"fat16,omitempty"`
	FAT32 *Extended32 `json:"fat32,omitempty" yaml:"fat32,omitempty"`
}

// Extended16 is the extended boot record of FAT12 and FAT16 volumes, found at offset 36.
type Extended16 struct {
	DriveNumber uint8  `json:"drive_number" yaml:"drive_number"`
	NTFlags     uint8  `json:"nt_flags" yaml:"nt_flags"`
	Signature   uint8  `json:"signature" yaml:"signature"`
	VolumeID    uint32 `json:"volume_id" yaml:"volume_id"`
	VolumeLabel string `json:"volume_label" yaml:"volume_label"`
	SystemID    string `json:"system_id" yaml:"system_id"`
}

// Extended32 is the extended boot record of FAT32 volumes, found at offset 36.
type Extended32 struct {
	SectorsPerFAT    uint32 `json:"sectors_per_fat" yaml:"sectors_per_fat"`
	Flags            uint16 `json:"flags" yaml:"flags"`
	Version          uint16 `json:"version" yaml:"version"`
	RootCluster      uint32 `json:"root_cluster" yaml:"root_cluster"`
	FSInfoSector     uint16 `json:"fsinfo_sector" yaml:"fsinfo_sector"`
	BackupBootSector uint16 `json:"backup_boot_sector" yaml:"backup_boot_sector"`
	DriveNumber      uint8  `json:"drive_number" yaml:"drive_number"`
	NTFlags          uint8  `json:"nt_flags" yaml:"nt_flags"`
	Signature        uint8  `json:"signature" yaml:"signature"`
	VolumeID         uint32 `json:"volume_id" yaml:"volume_id"`
	VolumeLabel      string `json:"volume_label" yaml:"volume_label"`
	SystemID         string `json:"system_id" yaml:"system_id"`
}

// Parse reads the BPB at start. With extended set the extended boot record is decoded too when the image is
// long enough to hold it; its absence is not an error because verification only needs the BPB.
func Parse(src *source.Source, start int64, extended bool, logger *logging.Logger) (*BootSector, error) {
	buf, err := src.ReadAt(start, consts.FAT_BPB_SIZE)
	if err != nil {
		return nil, fmt.Errorf("fat: %w", err)
	}
	b := Unmarshal([consts.FAT_BPB_SIZE]byte(buf))
	logger.Trace("FAT boot sector", "oem", b.OEM, "sector_count_small", b.SectorCountSmall,
		"sector_count_large", b.SectorCountLarge, "sectors_per_fat", b.SectorsPerFAT)

	if !extended {
		return b, nil
	}
	rest, err := src.ReadExact(consts.FAT_EXTENDED_BPB_SIZE - consts.FAT_BPB_SIZE)
	if err != nil {
		logger.Debug("FAT extended boot record unavailable", "error", err.Error())
		return b, nil
	}
	b.UnmarshalExtended([consts.FAT_EXTENDED_BPB_SIZE - consts.FAT_BPB_SIZE]byte(rest))
	return b, nil
}

// Unmarshal decodes the 36 byte BPB.
func Unmarshal(data [consts.FAT_BPB_SIZE]byte) *BootSector {
	return &BootSector{
		OEM:               encoding.ASCII(data[3:11]),
		BytesPerSector:    encoding.Uint16LE([2]byte(data[11:13])),
		SectorsPerCluster: data[13],
		ReservedSectors:   encoding.Uint16LE([2]byte(data[14:16])),
		TableCount:        data[16],
		DirectoryEntries:  encoding.Uint16LE([2]byte(data[17:19])),
		SectorCountSmall:  encoding.Uint16LE([2]byte(data[19:21])),
		MediaType:         data[21],
		SectorsPerFAT:     encoding.Uint16LE([2]byte(data[22:24])),
		SectorsPerTrack:   encoding.Uint16LE([2]byte(data[24:26])),
		Heads:             encoding.Uint16LE([2]byte(data[26:28])),
		HiddenSectors:     encoding.Uint32LE([4]byte(data[28:32])),
		SectorCountLarge:  encoding.Uint32LE([4]byte(data[32:36])),
	}
}

// UnmarshalExtended decodes the 54 bytes that follow the BPB. A non-zero 16-bit FAT size means FAT12/16,
// otherwise the FAT32 layout applies.
func (b *BootSector) UnmarshalExtended(data [consts.FAT_EXTENDED_BPB_SIZE - consts.FAT_BPB_SIZE]byte) {
	if b.SectorsPerFAT != 0 {
		b.FAT16 = &Extended16{
			DriveNumber: data[0],
			NTFlags:     data[1],
			Signature:   data[2],
			VolumeID:    encoding.Uint32LE([4]byte(data[3:7])),
			VolumeLabel: encoding.ASCII(data[7:18]),
			SystemID:    encoding.ASCII(data[18:26]),
		}
		b.FAT32 = nil
		return
	}
	b.FAT32 = &Extended32{
		SectorsPerFAT:    encoding.Uint32LE([4]byte(data[0:4])),
		Flags:            encoding.Uint16LE([2]byte(data[4:6])),
		Version:          encoding.Uint16LE([2]byte(data[6:8])),
		RootCluster:      encoding.Uint32LE([4]byte(data[8:12])),
		FSInfoSector:     encoding.Uint16LE([2]byte(data[12:14])),
		BackupBootSector: encoding.Uint16LE([2]byte(data[14:16])),
		DriveNumber:      data[28],
		NTFlags:          data[29],
		Signature:        data[30],
		VolumeID:         encoding.Uint32LE([4]byte(data[31:35])),
		VolumeLabel:      encoding.ASCII(data[35:46]),
		SystemID:         encoding.ASCII(data[46:54]),
	}
	b.FAT16 = nil
}

// Verify reports whether exactly one of the two sector counts is zero.
func (b *BootSector) Verify() bool {
	return (b.SectorCountSmall == 0) != (b.SectorCountLarge == 0)
}

// Render writes the BPB fields, followed by the extended boot record when one was decoded.
func (b *BootSector) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Printing boot Structure %s!\n"+
			"OEM: %q\n"+
			"Bytes Per Sector: %d\n"+
			"Sectors Per Cluster: %d\n"+
			"Reserved Sectors: %d\n"+
			"Table Count: %d\n"+
			"Root Entry Count: %d\n"+
			"Sector Count (small): %d\n"+
			"Media Type: %d\n"+
			"Sectors Per Table: %d\n"+
			"Sectors per Track: %d\n"+
			"Head Count: %d\n"+
			"Hidden Sectors: %d\n"+
			"Sector Count (large): %d\n",
		consts.FAT_NAME,
		b.OEM,
		b.BytesPerSector,
		b.SectorsPerCluster,
		b.ReservedSectors,
		b.TableCount,
		b.DirectoryEntries,
		b.SectorCountSmall,
		b.MediaType,
		b.SectorsPerFAT,
		b.SectorsPerTrack,
		b.Heads,
		b.HiddenSectors,
		b.SectorCountLarge,
	)
	if err != nil {
		return err
	}

	switch {
	case b.FAT16 != nil:
		e := b.FAT16
		_, err = fmt.Fprintf(w,
			"FAT12/16 Extended Boot Record!\n"+
				"Drive Number: %d\n"+
				"NT Flags: %d\n"+
				"Signature: %d\n"+
				"Volume ID: %d\n"+
				"Volume Label: %q\n"+
				"System ID: %q\n",
			e.DriveNumber, e.NTFlags, e.Signature, e.VolumeID, e.VolumeLabel, e.SystemID)
	case b.FAT32 != nil:
		e := b.FAT32
		_, err = fmt.Fprintf(w,
			"FAT32 Extended Boot Record!\n"+
				"Sectors Per FAT: %d\n"+
				"Flags: %d\n"+
				"Version: %d\n"+
				"Root Cluster: %d\n"+
				"FSInfo Sector: %d\n"+
				"Backup Boot Sector: %d\n"+
				"Drive Number: %d\n"+
				"NT Flags: %d\n"+
				"Signature: %d\n"+
				"Volume ID: %d\n"+
				"Volume Label: %q\n"+
				"System ID: %q\n",
			e.SectorsPerFAT, e.Flags, e.Version, e.RootCluster, e.FSInfoSector, e.BackupBootSector,
			e.DriveNumber, e.NTFlags, e.Signature, e.VolumeID, e.VolumeLabel, e.SystemID)
	}
	return err
}
