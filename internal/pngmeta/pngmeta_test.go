package pngmeta_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"innkeeper/internal/parseerr"
	"innkeeper/internal/pngmeta"
	"innkeeper/internal/testsupport"
)

func TestScannerWalksChunksInOrder(t *testing.T) {
	data := testsupport.PNG(
		testsupport.TextChunk("Comment", "hello"),
		testsupport.Chunk{Type: "IDAT", Data: []byte{1, 2, 3}},
	)
	chunks, err := pngmeta.ListChunks(data)
	if err != nil {
		t.Fatalf("ListChunks: %v", err)
	}
	var types []string
	for _, c := range chunks {
		types = append(types, c.Type)
	}
	if got := strings.Join(types, ","); got != "IHDR,tEXt,IDAT,IEND" {
		t.Fatalf("unexpected chunk order %s", got)
	}
	if chunks[2].Length != 3 {
		t.Fatalf("unexpected IDAT length %d", chunks[2].Length)
	}
	if chunks[0].Offset != len(pngmeta.Signature) {
		t.Fatalf("unexpected IHDR offset %d", chunks[0].Offset)
	}
}

func TestScannerStopsAtIEND(t *testing.T) {
	data := testsupport.PNG()
	data = append(data, []byte("trailing garbage that is not a chunk")...)
	chunks, err := pngmeta.ListChunks(data)
	if err != nil {
		t.Fatalf("expected trailing bytes after IEND to be ignored, got %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected IHDR and IEND, got %d chunks", len(chunks))
	}
}

func TestScannerRejectsMissingSignature(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("GIF89a"), []byte("\x89PNG\r\n\x1a\x00more")} {
		_, err := pngmeta.NewScanner(data)
		if !errors.Is(err, parseerr.ErrMalformedContainer) {
			t.Fatalf("expected malformed container for %q, got %v", data, err)
		}
	}
}

func TestScannerRejectsOverlongLength(t *testing.T) {
	header := make([]byte, 8)
	binary.BigEndian.PutUint32(header[0:4], 0xFFFFFFF0)
	copy(header[4:], "tEXt")
	data := testsupport.RawPNG(header, []byte("chara\x00abc"), []byte{0, 0, 0, 0})

	_, err := pngmeta.ListChunks(data)
	if !errors.Is(err, parseerr.ErrMalformedContainer) {
		t.Fatalf("expected malformed container, got %v", err)
	}

	header = make([]byte, 8)
	binary.BigEndian.PutUint32(header[0:4], 64)
	copy(header[4:], "tEXt")
	data = testsupport.RawPNG(header, []byte("chara\x00abc"), []byte{0, 0, 0, 0})
	if _, err := pngmeta.FindText(data, nil, pngmeta.TextOptions{}); !errors.Is(err, parseerr.ErrMalformedContainer) {
		t.Fatalf("expected malformed container from FindText, got %v", err)
	}
}

func TestScannerRejectsTruncatedHeader(t *testing.T) {
	data := testsupport.RawPNG(testsupport.ChunkBytes(testsupport.TextChunk("a", "b")), []byte{0, 0, 0})
	_, err := pngmeta.ListChunks(data)
	if !errors.Is(err, parseerr.ErrMalformedContainer) {
		t.Fatalf("expected malformed container, got %v", err)
	}
}

func TestScannerIsRestartable(t *testing.T) {
	data := testsupport.PNG(
		testsupport.TextChunk("one", "1"),
		testsupport.TextChunk("two", "2"),
	)
	collect := func() []string {
		var out []string
		for raw, err := range pngmeta.TextChunks(data, pngmeta.TextOptions{}) {
			if err != nil {
				t.Fatalf("TextChunks: %v", err)
			}
			out = append(out, raw.Keyword+"="+string(raw.Text))
		}
		return out
	}
	first, second := collect(), collect()
	if strings.Join(first, ";") != "one=1;two=2" || strings.Join(first, ";") != strings.Join(second, ";") {
		t.Fatalf("unexpected sequences %v / %v", first, second)
	}
}

func TestTextChunksDecodeAllTextTypes(t *testing.T) {
	data := testsupport.PNG(
		testsupport.TextChunk("plain", "abc"),
		testsupport.CompressedTextChunk(t, "zipped", "def"),
		testsupport.InternationalTextChunk(t, "intl", "ghi", false),
		testsupport.InternationalTextChunk(t, "intlz", "jkl", true),
		testsupport.Chunk{Type: "IDAT", Data: []byte{0}},
	)
	want := map[string]string{"plain": "abc", "zipped": "def", "intl": "ghi", "intlz": "jkl"}
	seen := 0
	for raw, err := range pngmeta.TextChunks(data, pngmeta.TextOptions{}) {
		if err != nil {
			t.Fatalf("TextChunks: %v", err)
		}
		if want[raw.Keyword] != string(raw.Text) {
			t.Fatalf("keyword %s: got %q want %q", raw.Keyword, raw.Text, want[raw.Keyword])
		}
		seen++
	}
	if seen != len(want) {
		t.Fatalf("expected %d text chunks, got %d", len(want), seen)
	}
}

func TestTextChunkLatin1IsTranscoded(t *testing.T) {
	data := testsupport.PNG(testsupport.Chunk{Type: "tEXt", Data: []byte("Comment\x00caf\xe9")})
	raw, err := pngmeta.FindText(data, []string{"Comment"}, pngmeta.TextOptions{})
	if err != nil {
		t.Fatalf("FindText: %v", err)
	}
	if string(raw.Text) != "café" {
		t.Fatalf("unexpected text %q", raw.Text)
	}
}

func TestFindTextFirstOccurrenceWins(t *testing.T) {
	data := testsupport.PNG(
		testsupport.TextChunk("Comment", "noise"),
		testsupport.TextChunk("chara", "first"),
		testsupport.TextChunk("chara", "second"),
	)
	raw, err := pngmeta.FindText(data, nil, pngmeta.TextOptions{})
	if err != nil {
		t.Fatalf("FindText: %v", err)
	}
	if string(raw.Text) != "first" {
		t.Fatalf("expected first chara chunk, got %q", raw.Text)
	}
	if raw.Type != pngmeta.TypeText {
		t.Fatalf("unexpected chunk type %q", raw.Type)
	}
}

func TestFindTextKeywordPriority(t *testing.T) {
	data := testsupport.PNG(
		testsupport.TextChunk("chara", "v2"),
		testsupport.TextChunk("ccv3", "v3"),
	)
	raw, err := pngmeta.FindText(data, []string{"ccv3", "chara"}, pngmeta.TextOptions{})
	if err != nil {
		t.Fatalf("FindText: %v", err)
	}
	if string(raw.Text) != "v3" {
		t.Fatalf("expected higher priority keyword, got %q", raw.Text)
	}

	raw, err = pngmeta.FindText(testsupport.PNG(testsupport.TextChunk("chara", "v2")), []string{"ccv3", "chara"}, pngmeta.TextOptions{})
	if err != nil {
		t.Fatalf("FindText fallback: %v", err)
	}
	if string(raw.Text) != "v2" {
		t.Fatalf("expected fallback keyword, got %q", raw.Text)
	}
}

func TestFindTextNoMetadata(t *testing.T) {
	data := testsupport.PNG(testsupport.TextChunk("Comment", "hello"))
	_, err := pngmeta.FindText(data, nil, pngmeta.TextOptions{})
	if !errors.Is(err, parseerr.ErrNoEmbeddedMetadata) {
		t.Fatalf("expected no embedded metadata, got %v", err)
	}
}

func TestFindTextSkipsDamagedUnrelatedChunks(t *testing.T) {
	data := testsupport.PNG(
		testsupport.Chunk{Type: "zTXt", Data: []byte("no separator here")},
		testsupport.TextChunk("chara", "ok"),
	)
	raw, err := pngmeta.FindText(data, nil, pngmeta.TextOptions{})
	if err != nil {
		t.Fatalf("FindText: %v", err)
	}
	if string(raw.Text) != "ok" {
		t.Fatalf("unexpected text %q", raw.Text)
	}
}

func TestSelectTextMatchesFindText(t *testing.T) {
	data := testsupport.PNG(
		testsupport.Chunk{Type: "tEXt", Data: []byte("no separator")},
		testsupport.TextChunk("chara", "v2-first"),
		testsupport.TextChunk("ccv3", "v3"),
		testsupport.TextChunk("chara", "v2-second"),
	)
	chunks, err := pngmeta.ListChunks(data)
	if err != nil {
		t.Fatalf("ListChunks: %v", err)
	}
	cases := []struct {
		keywords []string
		want     string
	}{
		{nil, "v2-first"},
		{[]string{"ccv3", "chara"}, "v3"},
		{[]string{"chara", "ccv3"}, "v2-first"},
	}
	for _, tc := range cases {
		idx := pngmeta.SelectText(chunks, tc.keywords)
		if idx < 0 {
			t.Fatalf("keywords %v: nothing selected", tc.keywords)
		}
		raw, err := pngmeta.FindText(data, tc.keywords, pngmeta.TextOptions{})
		if err != nil {
			t.Fatalf("FindText %v: %v", tc.keywords, err)
		}
		if string(raw.Text) != tc.want || !bytes.HasSuffix(chunks[idx].Data, raw.Text) {
			t.Fatalf("keywords %v: FindText %q, SelectText chunk %d", tc.keywords, raw.Text, idx)
		}
	}
	if idx := pngmeta.SelectText(chunks, []string{"missing"}); idx != -1 {
		t.Fatalf("expected -1 for absent keyword, got %d", idx)
	}
}

func TestCompressedTextLimit(t *testing.T) {
	big := strings.Repeat("A", 4096)
	data := testsupport.PNG(testsupport.CompressedTextChunk(t, "chara", big))

	if _, err := pngmeta.FindText(data, nil, pngmeta.TextOptions{MaxTextBytes: 1024}); !errors.Is(err, parseerr.ErrMalformedContainer) {
		t.Fatalf("expected inflate limit to be enforced, got %v", err)
	}
	raw, err := pngmeta.FindText(data, nil, pngmeta.TextOptions{MaxTextBytes: 4096})
	if err != nil {
		t.Fatalf("FindText at exact limit: %v", err)
	}
	if len(raw.Text) != len(big) {
		t.Fatalf("unexpected inflated size %d", len(raw.Text))
	}
}

func TestCompressedTextRejectsUnknownMethod(t *testing.T) {
	data := testsupport.PNG(testsupport.Chunk{Type: "zTXt", Data: []byte("chara\x00\x05junk")})
	if _, err := pngmeta.FindText(data, nil, pngmeta.TextOptions{}); !errors.Is(err, parseerr.ErrMalformedContainer) {
		t.Fatalf("expected malformed container, got %v", err)
	}
}

func TestChunkKeyword(t *testing.T) {
	chunks, err := pngmeta.ListChunks(testsupport.PNG(testsupport.TextChunk("chara", "x")))
	if err != nil {
		t.Fatalf("ListChunks: %v", err)
	}
	if _, ok := chunks[0].Keyword(); ok {
		t.Fatal("IHDR should not report a keyword")
	}
	if kw, ok := chunks[1].Keyword(); !ok || kw != "chara" {
		t.Fatalf("unexpected keyword %q (ok=%v)", kw, ok)
	}
}
