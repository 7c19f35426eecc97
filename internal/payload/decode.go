package payload

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"innkeeper/internal/parseerr"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode turns a metadata chunk's text into JSON. The text must be standard
// base64, padded or not; ASCII whitespace is ignored.
func Decode(text []byte) (json.RawMessage, error) {
	compact := stripSpace(text)
	if len(compact) == 0 {
		return nil, parseerr.New(parseerr.KindInvalidEncoding, "empty payload")
	}

	enc := base64.StdEncoding
	if len(compact)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	decoded := make([]byte, enc.DecodedLen(len(compact)))
	n, err := enc.Decode(decoded, compact)
	if err != nil {
		return nil, parseerr.Wrap(parseerr.KindInvalidEncoding, "", err)
	}
	return DecodeJSON(decoded[:n])
}

// DecodeJSON checks that raw is UTF-8 encoded JSON and returns a private copy
// with any leading byte order mark removed.
func DecodeJSON(raw []byte) (json.RawMessage, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return nil, parseerr.New(parseerr.KindInvalidJSON, "payload is not valid UTF-8")
	}
	if !gjson.ValidBytes(raw) {
		return nil, parseerr.New(parseerr.KindInvalidJSON, "payload is not valid JSON")
	}
	return json.RawMessage(bytes.Clone(raw)), nil
}

func stripSpace(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			continue
		}
		out = append(out, c)
	}
	return out
}
