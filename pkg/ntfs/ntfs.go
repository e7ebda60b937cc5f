package ntfs

import (
	"fmt"
	"io"

	"github.com/bgrewell/boot-kit/pkg/consts"
	"github.com/bgrewell/boot-kit/pkg/encoding"
	"github.com/bgrewell/boot-kit/pkg/logging"
	"github.com/bgrewell/boot-kit/pkg/source"
)

// BootSector holds the first 80 bytes of an NTFS boot sector. The jump instruction at 0..3 is not kept.
type BootSector struct {
	// OEM identifier, "NTFS    " on a valid volume.
	OEM                 string  `json:"oem" yaml:"oem"`
	BytesPerSector      uint16  `json:"bytes_per_sector" yaml:"bytes_per_sector"`
	SectorsPerCluster   uint8   `json:"sectors_per_cluster" yaml:"sectors_per_cluster"`
	ReservedSectors     uint16  `json:"reserved_sectors" yaml:"reserved_sectors"`
	TableCount          uint8   `json:"table_count" yaml:"table_count"`
	RootEntryCount      uint16  `json:"root_entry_count" yaml:"root_entry_count"`
	SectorCountSmall    uint16  `json:"sector_count_small" yaml:"sector_count_small"`
	MediaType           uint8   `json:"media_type" yaml:"media_type"`
	SectorsPerTable     uint16  `json:"sectors_per_table" yaml:"sectors_per_table"`
	SectorsPerTrack     uint16  `json:"sectors_per_track" yaml:"sectors_per_track"`
	HeadCount           uint16  `json:"head_count" yaml:"head_count"`
	HiddenSectors       uint32  `json:"hidden_sectors" yaml:"hidden_sectors"`
	SectorCountLarge    uint32  `json:"sector_count_large" yaml:"sector_count_large"`
	Reserved            uint32  `json:"reserved" yaml:"reserved"`
	SectorCountXLarge   uint64  `json:"sector_count_xlarge" yaml:"sector_count_xlarge"`
	MasterTableCluster1 uint64  `json:"master_table_cluster_1" yaml:"master_table_cluster_1"`
	MasterTableCluster2 uint64  `json:"master_table_cluster_2" yaml:"master_table_cluster_2"`
	ClustersPerRecord   uint8   `json:"clusters_per_record" yaml:"clusters_per_record"`
	Reserved2           [3]byte `json:"reserved_2" yaml:"reserved_2"`
	Serial              uint64  `json:"serial" yaml:"serial"`
	Checksum            uint32  `json:"checksum" yaml:"checksum"`
}

// Parse reads the boot sector header at start.
func Parse(src *source.Source, start int64, logger *logging.Logger) (*BootSector, error) {
	buf, err := src.ReadAt(start, consts.NTFS_HEADER_SIZE)
	if err != nil {
		return nil, fmt.Errorf("ntfs: %w", err)
	}
	b := Unmarshal([consts.NTFS_HEADER_SIZE]byte(buf))
	logger.Trace("NTFS boot sector", "oem", b.OEM, "bytes_per_sector", b.BytesPerSector,
		"sector_count_xlarge", b.SectorCountXLarge, "serial", b.Serial)
	return b, nil
}

// Unmarshal decodes an 80 byte NTFS boot sector header.
func Unmarshal(data [consts.NTFS_HEADER_SIZE]byte) *BootSector {
	return &BootSector{
		OEM:                 encoding.ASCII(data[3:11]),
		BytesPerSector:      encoding.Uint16LE([2]byte(data[11:13])),
		SectorsPerCluster:   data[13],
		ReservedSectors:     encoding.Uint16LE([2]byte(data[14:16])),
		TableCount:          data[16],
		RootEntryCount:      encoding.Uint16LE([2]byte(data[17:19])),
		SectorCountSmall:    encoding.Uint16LE([2]byte(data[19:21])),
		MediaType:           data[21],
		SectorsPerTable:     encoding.Uint16LE([2]byte(data[22:24])),
		SectorsPerTrack:     encoding.Uint16LE([2]byte(data[24:26])),
		HeadCount:           encoding.Uint16LE([2]byte(data[26:28])),
		HiddenSectors:       encoding.Uint32LE([4]byte(data[28:32])),
		SectorCountLarge:    encoding.Uint32LE([4]byte(data[32:36])),
		Reserved:            encoding.Uint32LE([4]byte(data[36:40])),
		SectorCountXLarge:   encoding.Uint64LE([8]byte(data[40:48])),
		MasterTableCluster1: encoding.Uint64LE([8]byte(data[48:56])),
		MasterTableCluster2: encoding.Uint64LE([8]byte(data[56:64])),
		ClustersPerRecord:   data[64],
		Reserved2:           [3]byte(data[65:68]),
		Serial:              encoding.Uint64LE([8]byte(data[68:76])),
		Checksum:            encoding.Uint32LE([4]byte(data[76:80])),
	}
}

// Verify reports whether the OEM identifier is exactly "NTFS    ", compared position by position.
func (b *BootSector) Verify() bool {
	if len(b.OEM) != len(consts.NTFS_OEM_ID) {
		return false
	}
	for i := 0; i < len(consts.NTFS_OEM_ID); i++ {
		if b.OEM[i] != consts.NTFS_OEM_ID[i] {
			return false
		}
	}
	return true
}

// Render writes the boot sector fields under the NTFS header, one per line.
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
			"Sector Count (large): %d\n"+
			"Reserved: %d\n"+
			"Sector Count (x-large): %d\n"+
			"Master Table Cluster 1: %d\n"+
			"Master Table Cluster 2: %d\n"+
			"Clusters Per Record: %d\n"+
			"Reserved (2): %d %d %d\n"+
			"Serial: %d\n"+
			"Checksum: %d\n",
		consts.NTFS_NAME,
		b.OEM,
		b.BytesPerSector,
		b.SectorsPerCluster,
		b.ReservedSectors,
		b.TableCount,
		b.RootEntryCount,
		b.SectorCountSmall,
		b.MediaType,
		b.SectorsPerTable,
		b.SectorsPerTrack,
		b.HeadCount,
		b.HiddenSectors,
		b.SectorCountLarge,
		b.Reserved,
		b.SectorCountXLarge,
		b.MasterTableCluster1,
		b.MasterTableCluster2,
		b.ClustersPerRecord,
		b.Reserved2[0], b.Reserved2[1], b.Reserved2[2],
		b.Serial,
		b.Checksum,
	)
	return err
}
