package cardparser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"innkeeper/internal/cardspec"
	"innkeeper/internal/config"
	"innkeeper/internal/extract"
	"innkeeper/internal/fileutil"
	"innkeeper/internal/logging"
	"innkeeper/internal/parseerr"
	"innkeeper/internal/payload"
	"innkeeper/internal/pngmeta"
)

const (
	// DefaultMaxContainerBytes bounds how much of a card file is read.
	DefaultMaxContainerBytes int64 = 64 << 20
	// DefaultMaxTextBytes bounds inflated zTXt/iTXt payloads.
	DefaultMaxTextBytes int64 = pngmeta.DefaultMaxTextBytes

	eventParseFailed = "card_parse_failed"
)

// Options tunes a Parser. Zero values fall back to the defaults.
type Options struct {
	MaxContainerBytes int64
	MaxTextBytes      int64
	// Keywords lists text chunk keywords in priority order.
	Keywords []string
}

// DefaultOptions returns the limits and keyword list used by Parse and
// ParseJSON.
func DefaultOptions() Options {
	return Options{
		MaxContainerBytes: DefaultMaxContainerBytes,
		MaxTextBytes:      DefaultMaxTextBytes,
		Keywords:          []string{pngmeta.DefaultKeyword},
	}
}

// OptionsFromConfig maps the [parser] config section onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	return Options{
		MaxContainerBytes: cfg.MaxContainerBytes(),
		MaxTextBytes:      cfg.MaxTextBytes(),
		Keywords:          append([]string(nil), cfg.Parser.Keywords...),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxContainerBytes <= 0 {
		o.MaxContainerBytes = def.MaxContainerBytes
	}
	if o.MaxTextBytes <= 0 {
		o.MaxTextBytes = def.MaxTextBytes
	}
	if len(o.Keywords) == 0 {
		o.Keywords = def.Keywords
	} else {
		o.Keywords = append([]string(nil), o.Keywords...)
	}
	return o
}

// Parser runs the card pipeline. It holds only immutable options and is safe
// for concurrent use.
type Parser struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Parser. A nil logger discards diagnostics.
func New(opts Options, logger *slog.Logger) *Parser {
	return &Parser{
		opts:   opts.withDefaults(),
		logger: logging.NewComponentLogger(logger, "cardparser"),
	}
}

// Options returns the effective options.
func (p *Parser) Options() Options {
	opts := p.opts
	opts.Keywords = append([]string(nil), p.opts.Keywords...)
	return opts
}

// Parse reads the PNG at path and extracts the embedded card. Failures are
// *parseerr.Error values carrying Path, except context cancellation which is
// returned as ctx.Err().
func (p *Parser) Parse(ctx context.Context, path string) (extract.Card, error) {
	if err := ctx.Err(); err != nil {
		return extract.Card{}, err
	}
	data, err := p.read(path)
	if err != nil {
		return extract.Card{}, p.fail(ctx, path, err)
	}
	card, err := p.parseContainer(data)
	if err != nil {
		return extract.Card{}, p.fail(ctx, path, err)
	}
	p.succeed(ctx, path, card)
	return card, nil
}

// ParseBytes extracts the card from PNG bytes already in memory.
func (p *Parser) ParseBytes(ctx context.Context, data []byte) (extract.Card, error) {
	if err := ctx.Err(); err != nil {
		return extract.Card{}, err
	}
	if int64(len(data)) > p.opts.MaxContainerBytes {
		err := parseerr.Wrap(parseerr.KindUnreadable, fmt.Sprintf("%d bytes exceeds limit of %d", len(data), p.opts.MaxContainerBytes), fileutil.ErrTooLarge)
		return extract.Card{}, p.fail(ctx, "", err)
	}
	card, err := p.parseContainer(data)
	if err != nil {
		return extract.Card{}, p.fail(ctx, "", err)
	}
	return card, nil
}

// ParseJSON validates and extracts a card from raw JSON bytes.
func (p *Parser) ParseJSON(ctx context.Context, raw json.RawMessage) (extract.Card, error) {
	if err := ctx.Err(); err != nil {
		return extract.Card{}, err
	}
	card, err := parseDocument(raw)
	if err != nil {
		return extract.Card{}, p.fail(ctx, "", err)
	}
	return card, nil
}

// ParseFile parses path as a standalone JSON card when it has a .json
// extension and as a PNG otherwise.
func (p *Parser) ParseFile(ctx context.Context, path string) (extract.Card, error) {
	if !fileutil.HasExtension(path, ".json") {
		return p.Parse(ctx, path)
	}
	if err := ctx.Err(); err != nil {
		return extract.Card{}, err
	}
	data, err := p.read(path)
	if err != nil {
		return extract.Card{}, p.fail(ctx, path, err)
	}
	raw, err := payload.DecodeJSON(data)
	if err != nil {
		return extract.Card{}, p.fail(ctx, path, err)
	}
	card, err := parseDocument(raw)
	if err != nil {
		return extract.Card{}, p.fail(ctx, path, err)
	}
	p.succeed(ctx, path, card)
	return card, nil
}

func (p *Parser) read(path string) ([]byte, error) {
	data, err := fileutil.ReadFileLimited(path, p.opts.MaxContainerBytes)
	if err != nil {
		return nil, parseerr.Wrap(parseerr.KindUnreadable, "read card file", err)
	}
	return data, nil
}

func (p *Parser) parseContainer(data []byte) (extract.Card, error) {
	chunk, err := pngmeta.FindText(data, p.opts.Keywords, pngmeta.TextOptions{MaxTextBytes: p.opts.MaxTextBytes})
	if err != nil {
		return extract.Card{}, err
	}
	raw, err := payload.Decode(chunk.Text)
	if err != nil {
		return extract.Card{}, err
	}
	return parseDocument(raw)
}

func parseDocument(raw json.RawMessage) (extract.Card, error) {
	gen, err := cardspec.Validate(raw)
	if err != nil {
		return extract.Card{}, err
	}
	return extract.Extract(raw, gen), nil
}

func (p *Parser) succeed(ctx context.Context, path string, card extract.Card) {
	logger := logging.WithContext(ctx, p.logger)
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	logger.Debug("card parsed",
		logging.String(logging.FieldPath, path),
		logging.String("generation", card.SpecVersion.String()),
		logging.String("name", card.Name),
	)
}

// fail attaches path to the error and reports it at WARN.
func (p *Parser) fail(ctx context.Context, path string, err error) error {
	var pe *parseerr.Error
	if !errors.As(err, &pe) {
		pe = parseerr.Wrap(parseerr.KindUnreadable, "", err)
	}
	if path != "" {
		pe = pe.WithPath(path)
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldErrorKind, string(pe.Kind)),
		logging.String(logging.FieldErrorHint, errorHint(pe.Kind)),
		logging.String(logging.FieldImpact, "card was not imported"),
		logging.Error(pe),
	}
	if path != "" {
		attrs = append(attrs, logging.String(logging.FieldPath, path))
	}
	if pe.Field != "" {
		attrs = append(attrs, logging.String(logging.FieldField, pe.FieldPath()))
	}
	if pe.Found != "" {
		attrs = append(attrs, logging.String(logging.FieldFound, pe.Found))
	}
	logging.WarnWithContext(logging.WithContext(ctx, p.logger), "card parse failed", eventParseFailed, attrs...)
	return pe
}

func errorHint(kind parseerr.Kind) string {
	switch kind {
	case parseerr.KindUnreadable:
		return "check the file exists, is readable and is within parser.max_container_mib"
	case parseerr.KindMalformedContainer:
		return "file is not a valid PNG or is truncated; re-export the card"
	case parseerr.KindNoEmbeddedMetadata:
		return "image has no card data; check parser.keywords or use the JSON export"
	case parseerr.KindInvalidEncoding:
		return "card text is not valid base64 UTF-8; re-export the card"
	case parseerr.KindInvalidJSON, parseerr.KindNotAnObject:
		return "card payload is not a JSON object; re-export the card"
	case parseerr.KindUnknownSpecTag:
		return "card uses an unsupported spec tag"
	case parseerr.KindMissingDataEnvelope, parseerr.KindMissingRequiredField, parseerr.KindNoRecognizedFields:
		return "card JSON is incomplete; fill in the reported field"
	default:
		return "check logs for details"
	}
}

var defaultParser = New(DefaultOptions(), nil)

// Parse extracts the card from the PNG at path using default options.
func Parse(ctx context.Context, path string) (extract.Card, error) {
	return defaultParser.Parse(ctx, path)
}

// ParseJSON validates and extracts a card from raw JSON using default options.
func ParseJSON(ctx context.Context, raw json.RawMessage) (extract.Card, error) {
	return defaultParser.ParseJSON(ctx, raw)
}
