package encoding

import (
	"encoding/binary"
	"fmt"
)

// The array decoders make the width a compile-time property of the call. Converting a slice with [4]byte(buf[8:12])
// only panics when the slice is too short; a longer slice is silently cut to its first N bytes. Callers holding a
// slice of unknown length use the ...Span variants, which reject any span that is not exactly N bytes.

func checkWidth(b []byte, n int) {
	if len(b) != n {
		panic(fmt.Sprintf("expected %d bytes, got %d", n, len(b)))
	}
}

// Uint16LE decodes a little-endian 16-bit value.
func Uint16LE(b [2]byte) uint16 {
	return binary.LittleEndian.Uint16(b[:])
}

// Uint24LE decodes a little-endian 24-bit value, as used by the CHS addresses of a partition entry.
func Uint24LE(b [3]byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// Uint32LE decodes a little-endian 32-bit value.
func Uint32LE(b [4]byte) uint32 {
	return binary.LittleEndian.Uint32(b[:])
}

// Uint64LE decodes a little-endian 64-bit value.
func Uint64LE(b [8]byte) uint64 {
	return binary.LittleEndian.Uint64(b[:])
}

// Uint16BE decodes a big-endian 16-bit value.
func Uint16BE(b [2]byte) uint16 {
	return binary.BigEndian.Uint16(b[:])
}

// Uint32BE decodes a big-endian 32-bit value.
func Uint32BE(b [4]byte) uint32 {
	return binary.BigEndian.Uint32(b[:])
}

// Uint64BE decodes a big-endian 64-bit value.
func Uint64BE(b [8]byte) uint64 {
	return binary.BigEndian.Uint64(b[:])
}

// Uint16LESpan decodes a little-endian 16-bit value from a span of exactly 2 bytes.
func Uint16LESpan(b []byte) uint16 {
	checkWidth(b, 2)
	return Uint16LE([2]byte(b))
}

// Uint24LESpan decodes a little-endian 24-bit value from a span of exactly 3 bytes.
func Uint24LESpan(b []byte) uint32 {
	checkWidth(b, 3)
	return Uint24LE([3]byte(b))
}

// Uint32LESpan decodes a little-endian 32-bit value from a span of exactly 4 bytes.
func Uint32LESpan(b []byte) uint32 {
	checkWidth(b, 4)
	return Uint32LE([4]byte(b))
}

// Uint64LESpan decodes a little-endian 64-bit value from a span of exactly 8 bytes.
func Uint64LESpan(b []byte) uint64 {
	checkWidth(b, 8)
	return Uint64LE([8]byte(b))
}

// Uint16BESpan decodes a big-endian 16-bit value from a span of exactly 2 bytes.
func Uint16BESpan(b []byte) uint16 {
	checkWidth(b, 2)
	return Uint16BE([2]byte(b))
}

// Uint32BESpan decodes a big-endian 32-bit value from a span of exactly 4 bytes.
func Uint32BESpan(b []byte) uint32 {
	checkWidth(b, 4)
	return Uint32BE([4]byte(b))
}

// Uint64BESpan decodes a big-endian 64-bit value from a span of exactly 8 bytes.
func Uint64BESpan(b []byte) uint64 {
	checkWidth(b, 8)
	return Uint64BE([8]byte(b))
}

// MarshalUint16LE encodes a 16-bit value in little-endian order.
func MarshalUint16LE(val uint16) [2]byte {
	var data [2]byte
	binary.LittleEndian.PutUint16(data[:], val)
	return data
}

// MarshalUint24LE encodes the low 24 bits of val in little-endian order.
func MarshalUint24LE(val uint32) [3]byte {
	return [3]byte{byte(val), byte(val >> 8), byte(val >> 16)}
}

// MarshalUint32LE encodes a 32-bit value in little-endian order.
func MarshalUint32LE(val uint32) [4]byte {
	var data [4]byte
	binary.LittleEndian.PutUint32(data[:], val)
	return data
}

// MarshalUint64LE encodes a 64-bit value in little-endian order.
func MarshalUint64LE(val uint64) [8]byte {
	var data [8]byte
	binary.LittleEndian.PutUint64(data[:], val)
	return data
}

// MarshalUint16BE encodes a 16-bit value in big-endian order.
func MarshalUint16BE(val uint16) [2]byte {
	var data [2]byte
	binary.BigEndian.PutUint16(data[:], val)
	return data
}

// MarshalUint32BE encodes a 32-bit value in big-endian order.
func MarshalUint32BE(val uint32) [4]byte {
	var data [4]byte
	binary.BigEndian.PutUint32(data[:], val)
	return data
}

// MarshalUint64BE encodes a 64-bit value in big-endian order.
func MarshalUint64BE(val uint64) [8]byte {
	var data [8]byte
	binary.BigEndian.PutUint64(data[:], val)
	return data
}

// ASCII copies an identifier field byte-for-byte into a string. No transcoding or trimming is done.
func ASCII(b []byte) string {
	return string(b)
}

// TrimNUL returns the bytes of a NUL padded field up to the first NUL.
func TrimNUL(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
