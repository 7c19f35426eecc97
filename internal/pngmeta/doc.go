// Package pngmeta reads textual metadata chunks out of PNG containers.
//
// Scanner walks the chunk stream of an in-memory PNG (length, type, payload,
// CRC) and bounds-checks every declared length against the remaining buffer
// before slicing, so crafted lengths surface as MalformedContainer instead of
// panics or oversized allocations. CRCs are not verified.
//
// TextChunks and FindText decode tEXt, zTXt and iTXt chunks. FindText
// implements the card selection rule: keywords are tried in priority order
// and the first occurrence of a keyword wins. SelectText exposes that rule
// over an already listed chunk slice.
package pngmeta
