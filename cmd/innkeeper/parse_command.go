package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse cards and print the normalized record",
		Long: "Parse PNG or JSON character cards and print the normalized record.\n" +
			"A single file prints its record; several files print a list with one entry per file.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(formatFlag)
			if err != nil {
				return err
			}
			parser, err := ctx.parser()
			if err != nil {
				return err
			}
			runCtx := runContext(cmd)

			if len(args) == 1 {
				card, err := parser.ParseFile(runCtx, args[0])
				if err != nil {
					return err
				}
				return writeOutput(cmd, format, card)
			}

			results := make([]cardResult, 0, len(args))
			failed := 0
			for _, path := range args {
				card, err := parser.ParseFile(runCtx, path)
				if err != nil {
					if isCancellation(err) {
						return err
					}
					failed++
					results = append(results, newCardResult(path, nil, err))
					continue
				}
				results = append(results, newCardResult(path, &card, nil))
			}
			if err := writeOutput(cmd, format, results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d cards failed to parse", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(formatJSON), "Output format (json or yaml)")
	return cmd
}
