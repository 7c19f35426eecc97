package parseerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a card could not be parsed.
type Kind string

const (
	KindUnreadable           Kind = "unreadable"
	KindMalformedContainer   Kind = "malformed_container"
	KindNoEmbeddedMetadata   Kind = "no_embedded_metadata"
	KindInvalidEncoding      Kind = "invalid_encoding"
	KindInvalidJSON          Kind = "invalid_json"
	KindNotAnObject          Kind = "not_an_object"
	KindUnknownSpecTag       Kind = "unknown_spec_tag"
	KindMissingDataEnvelope  Kind = "missing_data_envelope"
	KindMissingRequiredField Kind = "missing_required_field"
	KindNoRecognizedFields   Kind = "no_recognized_fields"
)

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrUnreadable           = &Error{Kind: KindUnreadable}
	ErrMalformedContainer   = &Error{Kind: KindMalformedContainer}
	ErrNoEmbeddedMetadata   = &Error{Kind: KindNoEmbeddedMetadata}
	ErrInvalidEncoding      = &Error{Kind: KindInvalidEncoding}
	ErrInvalidJSON          = &Error{Kind: KindInvalidJSON}
	ErrNotAnObject          = &Error{Kind: KindNotAnObject}
	ErrUnknownSpecTag       = &Error{Kind: KindUnknownSpecTag}
	ErrMissingDataEnvelope  = &Error{Kind: KindMissingDataEnvelope}
	ErrMissingRequiredField = &Error{Kind: KindMissingRequiredField}
	ErrNoRecognizedFields   = &Error{Kind: KindNoRecognizedFields}
)

// Error is the failure returned by every pipeline stage. Diagnostic fields
// are populated according to Kind:
//   - UnknownSpecTag: Found holds the raw JSON text of the spec value.
//   - MissingRequiredField: Field holds the key, Location the enclosing
//     object ("data" for enveloped cards, empty for legacy).
//
// Path is attached by the orchestrator when the card came from a file.
type Error struct {
	Kind     Kind
	Path     string
	Field    string
	Location string
	Found    string
	Detail   string
	Err      error
}

// New builds an error of the given kind with a free-form detail message.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: strings.TrimSpace(detail)}
}

// Wrap builds an error of the given kind around a cause.
func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: strings.TrimSpace(detail), Err: err}
}

// MissingField reports a required key that is absent or has the wrong type.
func MissingField(location, field, detail string) *Error {
	return &Error{Kind: KindMissingRequiredField, Location: location, Field: field, Detail: detail}
}

// UnknownSpec reports an unrecognised spec discriminator.
func UnknownSpec(found string) *Error {
	return &Error{Kind: KindUnknownSpecTag, Found: found}
}

// WithPath returns a copy of e carrying the originating file path.
func (e *Error) WithPath(path string) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Path = path
	return &clone
}

// FieldPath joins Location and Field, e.g. "data.name".
func (e *Error) FieldPath() string {
	if e.Location == "" {
		return e.Field
	}
	return e.Location + "." + e.Field
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Message())
	switch e.Kind {
	case KindUnknownSpecTag:
		fmt.Fprintf(&b, " (found %s)", e.Found)
	case KindMissingRequiredField:
		fmt.Fprintf(&b, " %q", e.FieldPath())
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind, which lets the exported
// sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// Message is the human-readable summary for a kind.
func (k Kind) Message() string {
	switch k {
	case KindUnreadable:
		return "card file could not be read"
	case KindMalformedContainer:
		return "malformed PNG container"
	case KindNoEmbeddedMetadata:
		return "no embedded card metadata"
	case KindInvalidEncoding:
		return "card payload is not valid base64"
	case KindInvalidJSON:
		return "card payload is not valid UTF-8 JSON"
	case KindNotAnObject:
		return "card JSON is not an object"
	case KindUnknownSpecTag:
		return "unknown card spec"
	case KindMissingDataEnvelope:
		return "card is missing its data object"
	case KindMissingRequiredField:
		return "missing or invalid required field"
	case KindNoRecognizedFields:
		return "no recognised card fields"
	default:
		return "card parse failure"
	}
}
