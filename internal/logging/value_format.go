package logging

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"
	"unicode/utf8"
)

// maxFoundLength caps the raw JSON echoed under the found key. Card fields
// such as a description can be arbitrarily long.
const maxFoundLength = 96

// cardValue rewrites values of the card failure keys before either handler
// renders them. Paths use forward slashes, found snippets are clipped, and
// empty field/found values are dropped (ok is false).
func cardValue(key string, v slog.Value) (slog.Value, bool) {
	v = v.Resolve()
	if v.Kind() != slog.KindString {
		return v, true
	}
	s := v.String()
	switch key {
	case FieldPath:
		return slog.StringValue(filepath.ToSlash(s)), true
	case FieldFound:
		if s == "" {
			return v, false
		}
		return slog.StringValue(clip(s, maxFoundLength)), true
	case FieldField:
		return v, s != ""
	default:
		return v, true
	}
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func attrString(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return formatValue(v)
	}
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuotes(s) {
			return strconv.Quote(s)
		}
		return s
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			msg := err.Error()
			if needsQuotes(msg) {
				return strconv.Quote(msg)
			}
			return msg
		}
		s := fmt.Sprint(v.Any())
		if needsQuotes(s) {
			return strconv.Quote(s)
		}
		return s
	default:
		s := v.String()
		if needsQuotes(s) {
			return strconv.Quote(s)
		}
		return s
	}
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return false
}
