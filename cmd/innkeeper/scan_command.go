package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"innkeeper/internal/library"
)

type scanReport struct {
	Root          string       `json:"root"`
	CorrelationID string       `json:"correlation_id"`
	Parsed        int          `json:"parsed"`
	Failed        int          `json:"failed"`
	DurationMS    int64        `json:"duration_ms"`
	Files         []cardResult `json:"files"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Parse every card under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			parser, err := ctx.parser()
			if err != nil {
				return err
			}

			opts := library.OptionsFromConfig(cfg)
			if cmd.Flags().Changed("workers") {
				if workers <= 0 {
					return fmt.Errorf("--workers must be positive, got %d", workers)
				}
				opts.Workers = workers
			}

			root := args[0]
			summary, err := library.NewScanner(parser, opts, logger).Scan(runContext(cmd), root)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, newScanReport(summary))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderScanTable(summary))
			fmt.Fprintf(out, "Scanned %s files in %s\n", humanize.Comma(int64(len(summary.Results))), summary.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parse this many files concurrently (overrides library.workers)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newScanReport(summary *library.Summary) scanReport {
	report := scanReport{
		Root:          summary.Root,
		CorrelationID: summary.CorrelationID,
		Parsed:        summary.Parsed,
		Failed:        summary.Failed,
		DurationMS:    summary.Duration.Milliseconds(),
		Files:         make([]cardResult, 0, len(summary.Results)),
	}
	for _, r := range summary.Results {
		result := newCardResult(r.Path, r.Card, r.Err)
		result.Size = r.Size
		report.Files = append(report.Files, result)
	}
	return report
}

func renderScanTable(summary *library.Summary) string {
	rows := make([][]string, 0, len(summary.Results))
	var total uint64
	for _, r := range summary.Results {
		name := r.Path
		if rel, err := filepath.Rel(summary.Root, r.Path); err == nil && rel != "." {
			name = rel
		}
		total += uint64(max(r.Size, 0))

		generation, cardName, status := "", "", "ok"
		if r.OK() {
			generation = generationLabel(r.Card.SpecVersion)
			cardName = r.Card.Name
		} else {
			status = errorMessage(r.Err)
		}
		rows = append(rows, []string{name, humanize.IBytes(uint64(max(r.Size, 0))), generation, cardName, status})
	}
	return renderTable(tableSpec{
		headers:  []string{"File", "Size", "Generation", "Name", "Status"},
		rows:     rows,
		aligns:   []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
		footer:   []string{"Total", humanize.IBytes(total), "", fmt.Sprintf("%d parsed", summary.Parsed), fmt.Sprintf("%d failed", summary.Failed)},
		maxWidth: []int{48, 0, 0, 32, 64},
	})
}
