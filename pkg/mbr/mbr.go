package mbr

import (
	"fmt"
	"io"

	"github.com/bgrewell/boot-kit/pkg/consts"
	"github.com/bgrewell/boot-kit/pkg/encoding"
	"github.com/bgrewell/boot-kit/pkg/logging"
	"github.com/bgrewell/boot-kit/pkg/source"
)

var ordinals = [consts.MBR_PARTITION_COUNT]string{"First", "Second", "Third", "Fourth"}

// PartitionEntry is one of the four 16 byte primary partition entries of the MBR.
type PartitionEntry struct {
	// Bootable is true when the status byte is 0x80.
	Bootable bool `json:"bootable" yaml:"bootable"`
	// CHS address of the first sector.
	//  | 24-bit, little-endian
	CHSStart uint32 `json:"chs_start" yaml:"chs_start"`
	// Partition type (system id), e.g. 0x83 Linux, 0x07 NTFS/exFAT, 0x0C FAT32 LBA.
	PartitionType uint8 `json:"partition_type" yaml:"partition_type"`
	// CHS address of the last sector.
	//  | 24-bit, little-endian
	CHSEnd uint32 `json:"chs_end" yaml:"chs_end"`
	// LBA of the first sector.
	LBAStart uint32 `json:"lba" yaml:"lba"`
	// Number of sectors in the partition.
	SectorCount uint32 `json:"size" yaml:"size"`
}

// UnmarshalPartitionEntry decodes a 16 byte partition entry.
func UnmarshalPartitionEntry(data [consts.MBR_PARTITION_ENTRY_SIZE]byte) PartitionEntry {
	return PartitionEntry{
		Bootable:      data[0] == 0x80,
		CHSStart:      encoding.Uint24LE([3]byte(data[1:4])),
		PartitionType: data[4],
		CHSEnd:        encoding.Uint24LE([3]byte(data[5:8])),
		LBAStart:      encoding.Uint32LE([4]byte(data[8:12])),
		SectorCount:   encoding.Uint32LE([4]byte(data[12:16])),
	}
}

// Render writes the entry fields, one per line.
func (p *PartitionEntry) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"bootable: %t\n"+
			"chs_start: %d\n"+
			"partition_type: %X\n"+
			"chs_end: %d\n"+
			"lba: %d\n"+
			"size: %d\n",
		p.Bootable, p.CHSStart, p.PartitionType, p.CHSEnd, p.LBAStart, p.SectorCount)
	return err
}

// MasterBootRecord holds the partition table and boot signature of a legacy MBR.
type MasterBootRecord struct {
	Partitions [consts.MBR_PARTITION_COUNT]PartitionEntry `json:"partitions" yaml:"partitions"`
	// Boot signature, 0xAA55 when the sector ends in 0x55 0xAA.
	Signature uint16 `json:"signature" yaml:"signature"`
}

// Parse decodes the MBR whose partition table starts at start. The four entries are read from start, start+16,
// start+32 and start+48 and the signature from start+64, so passing 446 reads the signature at offset 510 of the
// sector.
func Parse(src *source.Source, start int64, logger *logging.Logger) (*MasterBootRecord, error) {
	buf, err := src.ReadAt(start, consts.MBR_TABLE_SIZE)
	if err != nil {
		return nil, fmt.Errorf("mbr: %w", err)
	}
	return Unmarshal([consts.MBR_TABLE_SIZE]byte(buf), logger), nil
}

// Unmarshal decodes the partition table and signature from the 66 bytes that start at the partition table.
func Unmarshal(data [consts.MBR_TABLE_SIZE]byte, logger *logging.Logger) *MasterBootRecord {
	m := &MasterBootRecord{}
	for i := range m.Partitions {
		off := i * consts.MBR_PARTITION_ENTRY_SIZE
		m.Partitions[i] = UnmarshalPartitionEntry([consts.MBR_PARTITION_ENTRY_SIZE]byte(data[off : off+consts.MBR_PARTITION_ENTRY_SIZE]))
		logger.Trace("Partition entry", "index", i, "bootable", m.Partitions[i].Bootable,
			"type", fmt.Sprintf("%#02x", m.Partitions[i].PartitionType), "lba", m.Partitions[i].LBAStart,
			"size", m.Partitions[i].SectorCount)
	}
	sigOff := consts.MBR_SIGNATURE_OFFSET - consts.MBR_PARTITION_TABLE_OFFSET
	m.Signature = encoding.Uint16LESpan(data[sigOff:consts.MBR_TABLE_SIZE])
	logger.Trace("MBR signature", "signature", fmt.Sprintf("%#04x", m.Signature))
	return m
}

// Verify reports whether the boot signature is present.
func (m *MasterBootRecord) Verify() bool {
	return m.Signature == consts.MBR_SIGNATURE
}

// Render writes the MBR followed by each partition entry, each preceded by its ordinal.
func (m *MasterBootRecord) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Printing boot Structure %s!\n", consts.MBR_NAME); err != nil {
		return err
	}
	for i := range m.Partitions {
		if _, err := fmt.Fprintf(w, "%s Partition!\n", ordinals[i]); err != nil {
			return err
		}
		if err := m.Partitions[i].Render(w); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "signature: %d\n", m.Signature)
	return err
}
