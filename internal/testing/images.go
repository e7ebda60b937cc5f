package testing

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	stdtesting "testing"

	"github.com/bgrewell/boot-kit/pkg/consts"
	"github.com/bgrewell/boot-kit/pkg/source"
	"github.com/lunixbochs/struc"
)

// IMAGE_SIZE is the smallest image every probe can read: the ext superblock ends at 1024 + 84.
const IMAGE_SIZE = consts.EXT_SUPERBLOCK_OFFSET + consts.EXT_SUPERBLOCK_SIZE

// Image is a raw image under construction. All builder methods modify the image in place and return it so calls
// can be chained.
type Image []byte

// NewImage returns an all-zero image of IMAGE_SIZE bytes.
func NewImage() Image {
	return make(Image, IMAGE_SIZE)
}

// NewImageSize returns an all-zero image of size bytes.
func NewImageSize(size int) Image {
	return make(Image, size)
}

// Put copies data to offset.
func (i Image) Put(offset int, data []byte) Image {
	copy(i[offset:], data)
	return i
}

// PutStruct packs v little-endian at offset.
func (i Image) PutStruct(offset int, v interface{}) Image {
	return i.Put(offset, Pack(v))
}

// WithMBRSignature writes 0x55 0xAA at the end of the first sector.
func (i Image) WithMBRSignature() Image {
	return i.Put(consts.MBR_SIGNATURE_OFFSET, []byte{0x55, 0xAA})
}

// WithPartition writes a partition entry into slot 0..3 of the MBR partition table.
func (i Image) WithPartition(slot int, entry PartitionEntryLayout) Image {
	return i.PutStruct(consts.MBR_PARTITION_TABLE_OFFSET+slot*consts.MBR_PARTITION_ENTRY_SIZE, &entry)
}

// WithOEM writes the 8 byte OEM identifier shared by NTFS and FAT boot sectors.
func (i Image) WithOEM(oem string) Image {
	field := make([]byte, consts.OEM_SIZE)
	copy(field, oem)
	return i.Put(consts.OEM_OFFSET, field)
}

// WithExtSignature writes 0x53 0xEF at the superblock signature offset.
func (i Image) WithExtSignature() Image {
	return i.Put(consts.EXT_SUPERBLOCK_OFFSET+consts.EXT_SIGNATURE_OFFSET, []byte{0x53, 0xEF})
}

// Reader returns a fresh reader over a copy of the image.
func (i Image) Reader() *bytes.Reader {
	return bytes.NewReader(append([]byte(nil), i...))
}

// Source returns a byte source over a copy of the image.
func (i Image) Source() *source.Source {
	return source.New(i.Reader())
}

// WriteFile stores the image in a temporary directory owned by t and returns its path.
func (i Image) WriteFile(t stdtesting.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := os.WriteFile(path, i, 0o600); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

// Pack encodes v little-endian using its struct layout. v must be a pointer to a struct.
func Pack(v interface{}) []byte {
	var buf bytes.Buffer
	if err := struc.PackWithOrder(&buf, v, binary.LittleEndian); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
