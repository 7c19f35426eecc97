package pngmeta

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/charmap"

	"innkeeper/internal/parseerr"
)

// Text chunk types.
const (
	TypeText           = "tEXt"
	TypeCompressedText = "zTXt"
	TypeInternational  = "iTXt"
)

// DefaultMaxTextBytes bounds the inflated size of a compressed text chunk.
const DefaultMaxTextBytes = 16 << 20

const maxKeywordLength = 79

var errInflateLimit = errors.New("inflated text exceeds limit")

// RawChunk is a decoded textual metadata chunk.
type RawChunk struct {
	Keyword string
	Text    []byte
	Type    string
}

// TextOptions tunes text chunk decoding.
type TextOptions struct {
	// MaxTextBytes caps inflated zTXt/iTXt payloads. Zero uses
	// DefaultMaxTextBytes.
	MaxTextBytes int64
}

func (o TextOptions) maxText() int64 {
	if o.MaxTextBytes <= 0 {
		return DefaultMaxTextBytes
	}
	return o.MaxTextBytes
}

// IsText reports whether the chunk type carries textual metadata.
func IsText(chunkType string) bool {
	switch chunkType {
	case TypeText, TypeCompressedText, TypeInternational:
		return true
	default:
		return false
	}
}

// Keyword returns the keyword of a text chunk without decoding its payload.
func (c Chunk) Keyword() (string, bool) {
	if !IsText(c.Type) {
		return "", false
	}
	keyword, _, err := splitKeyword(c)
	if err != nil {
		return "", false
	}
	return keyword, true
}

// TextChunks lazily yields every text chunk in data, decoding each one as it
// is reached. Non-text chunks are skipped by length. Iteration stops at the
// first error, which is yielded with a zero RawChunk.
func TextChunks(data []byte, opts TextOptions) iter.Seq2[RawChunk, error] {
	return func(yield func(RawChunk, error) bool) {
		s, err := NewScanner(data)
		if err != nil {
			yield(RawChunk{}, err)
			return
		}
		for s.Next() {
			c := s.Chunk()
			if !IsText(c.Type) {
				continue
			}
			raw, err := DecodeText(c, opts)
			if err != nil {
				yield(RawChunk{}, err)
				return
			}
			if !yield(raw, nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield(RawChunk{}, err)
		}
	}
}

// DecodeText decodes a tEXt, zTXt or iTXt chunk into its keyword and UTF-8
// text.
func DecodeText(c Chunk, opts TextOptions) (RawChunk, error) {
	keyword, body, err := splitKeyword(c)
	if err != nil {
		return RawChunk{}, err
	}
	raw := RawChunk{Keyword: keyword, Type: c.Type}

	switch c.Type {
	case TypeText:
		raw.Text, err = latin1(body)
	case TypeCompressedText:
		raw.Text, err = decodeCompressedText(keyword, body, opts.maxText())
	case TypeInternational:
		raw.Text, err = decodeInternationalText(keyword, body, opts.maxText())
	default:
		return RawChunk{}, malformed("chunk %q is not a text chunk", c.Type)
	}
	if err != nil {
		return RawChunk{}, err
	}
	return raw, nil
}

func splitKeyword(c Chunk) (string, []byte, error) {
	idx := bytes.IndexByte(c.Data, 0)
	if idx < 0 {
		return "", nil, malformed("%s chunk at offset %d has no keyword separator", c.Type, c.Offset)
	}
	if idx == 0 || idx > maxKeywordLength {
		return "", nil, malformed("%s chunk at offset %d has invalid keyword length %d", c.Type, c.Offset, idx)
	}
	keyword, err := latin1(c.Data[:idx])
	if err != nil {
		return "", nil, err
	}
	return string(keyword), c.Data[idx+1:], nil
}

func decodeCompressedText(keyword string, body []byte, limit int64) ([]byte, error) {
	if len(body) == 0 {
		return nil, malformed("zTXt chunk %q has no compression method", keyword)
	}
	if body[0] != 0 {
		return nil, malformed("zTXt chunk %q uses unknown compression method %d", keyword, body[0])
	}
	inflated, err := inflate(body[1:], limit)
	if err != nil {
		return nil, parseerr.Wrap(parseerr.KindMalformedContainer, fmt.Sprintf("inflate zTXt chunk %q", keyword), err)
	}
	return latin1(inflated)
}

// iTXt layout after the keyword: compression flag, compression method,
// language tag\0, translated keyword\0, text.
func decodeInternationalText(keyword string, body []byte, limit int64) ([]byte, error) {
	if len(body) < 2 {
		return nil, malformed("iTXt chunk %q is truncated", keyword)
	}
	compressed, method := body[0], body[1]
	rest := body[2:]
	for _, part := range []string{"language tag", "translated keyword"} {
		idx := bytes.IndexByte(rest, 0)
		if idx < 0 {
			return nil, malformed("iTXt chunk %q has no %s terminator", keyword, part)
		}
		rest = rest[idx+1:]
	}
	switch compressed {
	case 0:
		return bytes.Clone(rest), nil
	case 1:
		if method != 0 {
			return nil, malformed("iTXt chunk %q uses unknown compression method %d", keyword, method)
		}
		inflated, err := inflate(rest, limit)
		if err != nil {
			return nil, parseerr.Wrap(parseerr.KindMalformedContainer, fmt.Sprintf("inflate iTXt chunk %q", keyword), err)
		}
		return inflated, nil
	default:
		return nil, malformed("iTXt chunk %q has invalid compression flag %d", keyword, compressed)
	}
}

func inflate(src []byte, limit int64) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", errInflateLimit, limit)
	}
	return out, nil
}

// tEXt and zTXt are ISO 8859-1. ASCII, which covers base64 payloads, is
// returned as a copy without transcoding.
func latin1(b []byte) ([]byte, error) {
	if isASCII(b) {
		return bytes.Clone(b), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return nil, parseerr.Wrap(parseerr.KindMalformedContainer, "decode latin-1 text", err)
	}
	return out, nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
