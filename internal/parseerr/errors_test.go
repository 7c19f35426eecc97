package parseerr_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"innkeeper/internal/parseerr"
)

func TestSentinelsMatchByKind(t *testing.T) {
	err := parseerr.MissingField("data", "name", "")
	if !errors.Is(err, parseerr.ErrMissingRequiredField) {
		t.Fatalf("expected missing field sentinel to match, got %v", err)
	}
	if errors.Is(err, parseerr.ErrNotAnObject) {
		t.Fatal("unexpected match against a different kind")
	}

	wrapped := fmt.Errorf("import: %w", err.WithPath("/cards/ada.png"))
	if !errors.Is(wrapped, parseerr.ErrMissingRequiredField) {
		t.Fatalf("expected sentinel to match through wrapping, got %v", wrapped)
	}
	kind, ok := parseerr.KindOf(wrapped)
	if !ok || kind != parseerr.KindMissingRequiredField {
		t.Fatalf("unexpected kind %q (ok=%v)", kind, ok)
	}
}

func TestErrorMessageCarriesDiagnostics(t *testing.T) {
	tests := []struct {
		name      string
		err       *parseerr.Error
		fragments []string
	}{
		{
			name:      "unknown spec",
			err:       parseerr.UnknownSpec(`"chara_card_v9"`),
			fragments: []string{"unknown card spec", `"chara_card_v9"`},
		},
		{
			name:      "missing field with location",
			err:       parseerr.MissingField("data", "description", "expected string"),
			fragments: []string{`"data.description"`, "expected string"},
		},
		{
			name:      "path prefix",
			err:       parseerr.New(parseerr.KindNoEmbeddedMetadata, "").WithPath("/tmp/x.png"),
			fragments: []string{"/tmp/x.png: ", "no embedded card metadata"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.err.Error()
			for _, fragment := range tc.fragments {
				if !strings.Contains(msg, fragment) {
					t.Fatalf("expected %q in %q", fragment, msg)
				}
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := parseerr.Wrap(parseerr.KindMalformedContainer, "inflate zTXt", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable, got %v", err)
	}
	if !errors.Is(err, parseerr.ErrMalformedContainer) {
		t.Fatalf("expected kind sentinel to match, got %v", err)
	}
}

func TestWithPathDoesNotMutateOriginal(t *testing.T) {
	base := parseerr.New(parseerr.KindInvalidJSON, "")
	withPath := base.WithPath("card.json")
	if base.Path != "" {
		t.Fatalf("original mutated: %q", base.Path)
	}
	if withPath.Path != "card.json" {
		t.Fatalf("unexpected path %q", withPath.Path)
	}
}
