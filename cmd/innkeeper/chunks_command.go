package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"innkeeper/internal/fileutil"
	"innkeeper/internal/parseerr"
	"innkeeper/internal/pngmeta"
)

type chunkView struct {
	Index     int    `json:"index"`
	Type      string `json:"type"`
	Offset    int    `json:"offset"`
	Length    uint32 `json:"length"`
	Keyword   string `json:"keyword,omitempty"`
	TextBytes int    `json:"text_bytes,omitempty"`
	Selected  bool   `json:"selected,omitempty"`
	Error     string `json:"error,omitempty"`
}

func newChunksCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "chunks <png>",
		Short: "List the chunks of a PNG and mark the one holding card data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := args[0]
			data, err := fileutil.ReadFileLimited(path, cfg.MaxContainerBytes())
			if err != nil {
				return parseerr.Wrap(parseerr.KindUnreadable, "read card file", err).WithPath(path)
			}

			chunks, walkErr := pngmeta.ListChunks(data)
			if walkErr != nil && len(chunks) == 0 {
				return walkErr
			}
			views := describeChunks(chunks, cfg.Parser.Keywords, pngmeta.TextOptions{MaxTextBytes: cfg.MaxTextBytes()})

			if jsonOutput {
				if err := writeJSON(cmd, views); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), renderChunkTable(views))
			}
			if walkErr != nil {
				return fmt.Errorf("%s: %w", path, walkErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

// describeChunks decodes text chunks for their payload size and marks the
// chunk the parser would select for keywords.
func describeChunks(chunks []pngmeta.Chunk, keywords []string, opts pngmeta.TextOptions) []chunkView {
	views := make([]chunkView, 0, len(chunks))
	for i, c := range chunks {
		view := chunkView{Index: i, Type: c.Type, Offset: c.Offset, Length: c.Length}
		if pngmeta.IsText(c.Type) {
			raw, err := pngmeta.DecodeText(c, opts)
			if err != nil {
				view.Error = errorMessage(err)
				if keyword, ok := c.Keyword(); ok {
					view.Keyword = keyword
				}
			} else {
				view.Keyword = raw.Keyword
				view.TextBytes = len(raw.Text)
			}
		}
		views = append(views, view)
	}
	if selected := pngmeta.SelectText(chunks, keywords); selected >= 0 {
		views[selected].Selected = true
	}
	return views
}

func renderChunkTable(views []chunkView) string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		marker := ""
		if v.Selected {
			marker = "*"
		}
		text := ""
		switch {
		case v.Error != "":
			text = v.Error
		case v.TextBytes > 0:
			text = humanize.IBytes(uint64(v.TextBytes))
		}
		rows = append(rows, []string{
			strconv.Itoa(v.Index),
			v.Type,
			strconv.Itoa(v.Offset),
			humanize.IBytes(uint64(v.Length)),
			v.Keyword,
			text,
			marker,
		})
	}
	return renderTable(tableSpec{
		headers:  []string{"#", "Type", "Offset", "Length", "Keyword", "Text", "Card"},
		rows:     rows,
		aligns:   []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
		maxWidth: []int{0, 0, 0, 0, 24, 48, 0},
	})
}
