package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"innkeeper/internal/cardparser"
	"innkeeper/internal/cardspec"
	"innkeeper/internal/config"
	"innkeeper/internal/extract"
	"innkeeper/internal/fileutil"
	"innkeeper/internal/logging"
	"innkeeper/internal/parseerr"
)

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 4

// Options controls which files a scan picks up and how many are parsed at
// once.
type Options struct {
	Workers      int
	Extensions   []string
	FollowHidden bool
}

// OptionsFromConfig maps the [library] config section onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{
		Workers:      cfg.Library.Workers,
		Extensions:   append([]string(nil), cfg.Library.Extensions...),
		FollowHidden: cfg.Library.FollowHidden,
	}
}

// Result is the outcome for one file. Exactly one of Card and Err is set.
type Result struct {
	Path string
	Size int64
	Card *extract.Card
	Err  error
}

// OK reports whether the file parsed.
func (r Result) OK() bool { return r.Err == nil }

// Summary aggregates a scan. Results follow walk order.
type Summary struct {
	Root          string
	CorrelationID string
	Results       []Result
	Parsed        int
	Failed        int
	ByGeneration  map[cardspec.Generation]int
	ByErrorKind   map[parseerr.Kind]int
	Duration      time.Duration
}

// Scanner parses every card under a directory tree.
type Scanner struct {
	parser *cardparser.Parser
	opts   Options
	logger *slog.Logger
}

// NewScanner builds a Scanner around parser. A nil parser uses default
// parser options.
func NewScanner(parser *cardparser.Parser, opts Options, logger *slog.Logger) *Scanner {
	if parser == nil {
		parser = cardparser.New(cardparser.DefaultOptions(), logger)
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".png", ".json"}
	}
	return &Scanner{
		parser: parser,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "library"),
	}
}

type candidate struct {
	path string
	size int64
	err  error
}

// Scan walks root and parses every matching file. Per-file failures land in
// the Summary; only a missing root or context cancellation returns an error.
func (s *Scanner) Scan(ctx context.Context, root string) (*Summary, error) {
	start := time.Now()
	if _, ok := logging.CorrelationIDFromContext(ctx); !ok {
		ctx = logging.WithCorrelationID(ctx, uuid.NewString())
	}
	correlationID, _ := logging.CorrelationIDFromContext(ctx)
	logger := logging.WithContext(ctx, s.logger)

	candidates, err := s.collect(ctx, root)
	if err != nil {
		return nil, err
	}
	logger.Info("library scan started",
		logging.String("root", root),
		logging.Int("files", len(candidates)),
		logging.Int("workers", s.opts.Workers),
	)

	results := make([]Result, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Result{Path: c.path, Size: c.size}
			if c.err != nil {
				results[i].Err = c.err
				return nil
			}
			card, err := s.parser.ParseFile(gctx, c.path)
			if err != nil {
				if isCancellation(err) {
					return err
				}
				results[i].Err = err
				return nil
			}
			results[i].Card = &card
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{
		Root:          root,
		CorrelationID: correlationID,
		Results:       results,
		ByGeneration:  make(map[cardspec.Generation]int),
		ByErrorKind:   make(map[parseerr.Kind]int),
	}
	for _, r := range results {
		if r.OK() {
			summary.Parsed++
			summary.ByGeneration[r.Card.SpecVersion]++
			continue
		}
		summary.Failed++
		if kind, ok := parseerr.KindOf(r.Err); ok {
			summary.ByErrorKind[kind]++
		}
	}
	summary.Duration = time.Since(start)

	attrs := []logging.Attr{
		logging.String("root", root),
		logging.Int("parsed", summary.Parsed),
		logging.Int("failed", summary.Failed),
		logging.String("duration", summary.Duration.Round(time.Millisecond).String()),
	}
	if summary.Failed > 0 {
		logging.WarnWithContext(logger, "library scan finished with failures", "library_scan_partial",
			append(attrs,
				logging.String(logging.FieldErrorHint, "run innkeeper validate on the failed files"),
				logging.String(logging.FieldImpact, "failed cards were skipped"),
			)...,
		)
	} else {
		logger.Info("library scan finished", logging.Args(attrs...)...)
	}
	return summary, nil
}

// collect walks root in lexical order. Unreadable directories become
// failed candidates rather than aborting the walk.
func (s *Scanner) collect(ctx context.Context, root string) ([]candidate, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("library root: %w", err)
	}
	if !info.IsDir() {
		return []candidate{{path: root, size: info.Size()}}, nil
	}

	var out []candidate
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			out = append(out, candidate{path: path, err: parseerr.Wrap(parseerr.KindUnreadable, "walk library", walkErr).WithPath(path)})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path != root && !s.opts.FollowHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !fileutil.HasExtension(path, s.opts.Extensions...) {
			return nil
		}
		var size int64
		if fi, err := d.Info(); err == nil {
			size = fi.Size()
		}
		out = append(out, candidate{path: path, size: size})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
