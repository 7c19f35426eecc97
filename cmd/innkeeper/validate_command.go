package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Report the schema generation of each card, or why it is invalid",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := ctx.parser()
			if err != nil {
				return err
			}
			runCtx := runContext(cmd)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			failed, legacy := 0, 0
			for _, path := range args {
				card, err := parser.ParseFile(runCtx, path)
				if isCancellation(err) {
					return err
				}
				status, message := classifyCard(card, err)
				switch status {
				case statusInvalid:
					failed++
				case statusLegacy:
					legacy++
				}
				fmt.Fprintln(out, renderStatusLine(path, status, message, colorize))
			}

			if len(args) > 1 {
				status := statusValid
				if failed > 0 {
					status = statusInvalid
				}
				summary := fmt.Sprintf("%d valid, %d invalid", len(args)-failed, failed)
				if legacy > 0 {
					summary += fmt.Sprintf(" (%d legacy)", legacy)
				}
				fmt.Fprintln(out, renderStatusLine("Summary", status, summary, colorize))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d cards failed validation", failed, len(args))
			}
			return nil
		},
	}
}
