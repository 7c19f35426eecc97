package main

import (
	"context"
	"errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"innkeeper/internal/cardspec"
	"innkeeper/internal/extract"
	"innkeeper/internal/parseerr"
)

// cardResult is the per-file shape shared by parse, validate and scan output.
type cardResult struct {
	Path      string        `json:"path"`
	Size      int64         `json:"size,omitempty"`
	Card      *extract.Card `json:"card,omitempty"`
	ErrorKind string        `json:"error_kind,omitempty"`
	Field     string        `json:"field,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func newCardResult(path string, card *extract.Card, err error) cardResult {
	result := cardResult{Path: path, Card: card}
	if err == nil {
		return result
	}
	result.Error = errorMessage(err)
	var pe *parseerr.Error
	if errors.As(err, &pe) {
		result.ErrorKind = string(pe.Kind)
		if pe.Field != "" {
			result.Field = pe.FieldPath()
		}
	}
	return result
}

// errorMessage renders err without the path prefix, for output that already
// shows the path in its own column.
func errorMessage(err error) string {
	var pe *parseerr.Error
	if errors.As(err, &pe) {
		return pe.WithPath("").Error()
	}
	return err.Error()
}

func generationLabel(gen cardspec.Generation) string {
	return cases.Title(language.English).String(gen.String())
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
