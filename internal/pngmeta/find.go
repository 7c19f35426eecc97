package pngmeta

import (
	"fmt"
	"slices"
	"strings"

	"innkeeper/internal/parseerr"
)

// DefaultKeyword is the text chunk keyword character cards are stored under.
const DefaultKeyword = "chara"

// FindText locates the metadata chunk for the first keyword in priority
// order that is present, taking the first occurrence of that keyword. The
// whole container is walked so structural damage anywhere is reported, but
// only the selected chunk is decoded.
func FindText(data []byte, keywords []string, opts TextOptions) (RawChunk, error) {
	if len(keywords) == 0 {
		keywords = []string{DefaultKeyword}
	}
	chunks, err := ListChunks(data)
	if err != nil {
		return RawChunk{}, err
	}
	idx := SelectText(chunks, keywords)
	if idx < 0 {
		return RawChunk{}, parseerr.New(parseerr.KindNoEmbeddedMetadata, fmt.Sprintf("no text chunk with keyword %s", strings.Join(keywords, " or ")))
	}
	return DecodeText(chunks[idx], opts)
}

// SelectText returns the index of the chunk FindText would decode, or -1.
// An empty keyword list means DefaultKeyword.
func SelectText(chunks []Chunk, keywords []string) int {
	if len(keywords) == 0 {
		keywords = []string{DefaultKeyword}
	}
	selected, best := -1, -1
	for i, c := range chunks {
		// Unrelated text chunks with a damaged header cannot carry the
		// keyword, so they are skipped rather than failing the scan.
		keyword, ok := c.Keyword()
		if !ok {
			continue
		}
		priority := slices.Index(keywords, keyword)
		if priority < 0 {
			continue
		}
		if best < 0 || priority < best {
			best, selected = priority, i
		}
	}
	return selected
}
