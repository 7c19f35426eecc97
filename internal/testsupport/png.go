package testsupport

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// Chunk is a PNG chunk to be serialised by PNG.
type Chunk struct {
	Type string
	Data []byte
}

// PNG assembles a minimal PNG: signature, a 1x1 IHDR, the given chunks and
// IEND. CRCs are computed so the output is a well-formed file.
func PNG(chunks ...Chunk) []byte {
	var buf bytes.Buffer
	buf.WriteString(pngSignature)

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 1)
	binary.BigEndian.PutUint32(ihdr[4:8], 1)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA
	writeChunk(&buf, Chunk{Type: "IHDR", Data: ihdr})

	for _, c := range chunks {
		writeChunk(&buf, c)
	}
	writeChunk(&buf, Chunk{Type: "IEND"})
	return buf.Bytes()
}

// RawPNG returns the signature followed by the supplied bytes verbatim, for
// building deliberately broken streams.
func RawPNG(body ...[]byte) []byte {
	out := []byte(pngSignature)
	for _, b := range body {
		out = append(out, b...)
	}
	return out
}

// ChunkBytes serialises a single chunk with its CRC.
func ChunkBytes(c Chunk) []byte {
	var buf bytes.Buffer
	writeChunk(&buf, c)
	return buf.Bytes()
}

func writeChunk(buf *bytes.Buffer, c Chunk) {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(c.Data)))
	buf.Write(length[:])

	crc := crc32.NewIEEE()
	crc.Write([]byte(c.Type))
	crc.Write(c.Data)
	buf.WriteString(c.Type)
	buf.Write(c.Data)

	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	buf.Write(sum[:])
}

// TextChunk builds a tEXt chunk.
func TextChunk(keyword, text string) Chunk {
	data := append([]byte(keyword), 0)
	data = append(data, text...)
	return Chunk{Type: "tEXt", Data: data}
}

// CompressedTextChunk builds a zTXt chunk with a zlib-deflated payload.
func CompressedTextChunk(t testing.TB, keyword, text string) Chunk {
	t.Helper()
	data := append([]byte(keyword), 0, 0)
	data = append(data, Deflate(t, []byte(text))...)
	return Chunk{Type: "zTXt", Data: data}
}

// InternationalTextChunk builds an iTXt chunk, optionally compressed.
func InternationalTextChunk(t testing.TB, keyword, text string, compress bool) Chunk {
	t.Helper()
	data := append([]byte(keyword), 0)
	if compress {
		data = append(data, 1, 0)
	} else {
		data = append(data, 0, 0)
	}
	data = append(data, "en"...)
	data = append(data, 0)
	data = append(data, 0) // empty translated keyword
	if compress {
		data = append(data, Deflate(t, []byte(text))...)
	} else {
		data = append(data, text...)
	}
	return Chunk{Type: "iTXt", Data: data}
}

// Deflate zlib-compresses b.
func Deflate(t testing.TB, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close deflate writer: %v", err)
	}
	return buf.Bytes()
}

// EncodeCard base64-encodes a JSON document the way card editors do.
func EncodeCard(json string) string {
	return base64.StdEncoding.EncodeToString([]byte(json))
}

// CardPNG builds a PNG holding json under the "chara" keyword.
func CardPNG(json string) []byte {
	return PNG(TextChunk("chara", EncodeCard(json)))
}

// WriteBytes writes data under dir and returns the full path.
func WriteBytes(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
