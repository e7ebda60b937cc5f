package source

import (
	"errors"
	"fmt"
	"io"
)

// Source is a seekable, random-access view over an opened image. Every decoder reads through it so short reads
// are reported the same way regardless of which header is being parsed.
//
// A Source is not safe for concurrent use.
type Source struct {
	reader io.ReadSeeker
	offset int64
}

// New wraps reader. The logical cursor starts at offset zero regardless of where reader is positioned.
func New(reader io.ReadSeeker) *Source {
	return &Source{reader: reader}
}

// Offset returns the position of the logical cursor.
func (s *Source) Offset() int64 {
	return s.offset
}

// SeekTo positions the cursor at the absolute offset.
func (s *Source) SeekTo(offset int64) error {
	if offset < 0 {
		return fmt.Errorf("invalid seek to negative offset %d", offset)
	}
	pos, err := s.reader.Seek(offset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("failed to seek to offset %d: %w", offset, err)
	}
	if pos != offset {
		return fmt.Errorf("seek to offset %d landed at %d", offset, pos)
	}
	s.offset = pos
	return nil
}

// ReadExact reads exactly n bytes from the cursor. Anything less is an error wrapping io.ErrUnexpectedEOF, since
// every header has a fixed size and a partial one cannot be decoded.
func (s *Source) ReadExact(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid read length %d", n)
	}
	start := s.offset
	buf := make([]byte, n)
	read, err := io.ReadFull(s.reader, buf)
	s.offset += int64(read)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("short read at offset %d: got %d of %d bytes: %w", start, read, n, err)
	}
	return buf, nil
}

// ReadAt seeks to offset and reads exactly n bytes.
func (s *Source) ReadAt(offset int64, n int) ([]byte, error) {
	if err := s.SeekTo(offset); err != nil {
		return nil, err
	}
	return s.ReadExact(n)
}
