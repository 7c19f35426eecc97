package pngmeta

import (
	"encoding/binary"
	"fmt"

	"innkeeper/internal/parseerr"
)

// Signature is the 8-byte PNG file signature.
const Signature = "\x89PNG\r\n\x1a\n"

const (
	chunkHeaderSize = 8 // length + type
	chunkCRCSize    = 4
	// PNG restricts chunk lengths to 2^31-1.
	maxChunkLength = 1<<31 - 1
)

// Chunk is one chunk of a PNG stream. Data aliases the scanned buffer.
type Chunk struct {
	Type   string
	Length uint32
	Offset int
	Data   []byte
}

// Scanner walks the chunks of an in-memory PNG without validating CRCs.
// It stops after IEND or at the end of the buffer, whichever comes first.
type Scanner struct {
	data  []byte
	pos   int
	chunk Chunk
	err   error
	done  bool
}

// NewScanner checks the PNG signature and positions the scanner on the first
// chunk.
func NewScanner(data []byte) (*Scanner, error) {
	if len(data) < len(Signature) || string(data[:len(Signature)]) != Signature {
		return nil, parseerr.New(parseerr.KindMalformedContainer, "missing PNG signature")
	}
	return &Scanner{data: data, pos: len(Signature)}, nil
}

// Next advances to the next chunk. It returns false at the end of the stream
// or on error; check Err afterwards.
func (s *Scanner) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	remaining := len(s.data) - s.pos
	if remaining == 0 {
		s.done = true
		return false
	}
	if remaining < chunkHeaderSize+chunkCRCSize {
		s.err = malformed("truncated chunk header at offset %d", s.pos)
		return false
	}

	length := binary.BigEndian.Uint32(s.data[s.pos : s.pos+4])
	chunkType := string(s.data[s.pos+4 : s.pos+8])
	if length > maxChunkLength {
		s.err = malformed("chunk %q at offset %d declares invalid length %d", chunkType, s.pos, length)
		return false
	}
	// Checked in uint64 so a length near the 32-bit limit cannot wrap.
	if uint64(length)+chunkHeaderSize+chunkCRCSize > uint64(remaining) {
		s.err = malformed("chunk %q at offset %d declares %d bytes but only %d remain", chunkType, s.pos, length, remaining-chunkHeaderSize-chunkCRCSize)
		return false
	}

	start := s.pos + chunkHeaderSize
	end := start + int(length)
	s.chunk = Chunk{
		Type:   chunkType,
		Length: length,
		Offset: s.pos,
		Data:   s.data[start:end:end],
	}
	s.pos = end + chunkCRCSize
	if chunkType == "IEND" {
		s.done = true
	}
	return true
}

// Chunk returns the chunk most recently produced by Next.
func (s *Scanner) Chunk() Chunk {
	return s.chunk
}

// Err returns the first structural error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

// ListChunks returns every chunk header in stream order.
func ListChunks(data []byte) ([]Chunk, error) {
	s, err := NewScanner(data)
	if err != nil {
		return nil, err
	}
	var chunks []Chunk
	for s.Next() {
		chunks = append(chunks, s.Chunk())
	}
	if err := s.Err(); err != nil {
		return chunks, err
	}
	return chunks, nil
}

func malformed(format string, args ...any) *parseerr.Error {
	return parseerr.New(parseerr.KindMalformedContainer, fmt.Sprintf(format, args...))
}
