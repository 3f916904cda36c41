package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/courtside/highlights"
	"github.com/RyanBlaney/courtside/report"
)

var errNoCatalog = errors.New("no catalog configured; set catalog.path or COURTSIDE_CATALOG__PATH")

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded detection runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(cmd); err != nil {
				return err
			}
			store, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			if store == nil {
				return errNoCatalog
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.ID,
					r.Kind,
					r.Source,
					r.CreatedAt.Local().Format(time.DateTime),
					strconv.Itoa(r.Highlights),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.RenderTable(
				[]string{"ID", "Kind", "Source", "Created", "Highlights"},
				rows,
				[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum runs to list (0 for all)")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the highlights of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(cmd); err != nil {
				return err
			}
			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			store, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			if store == nil {
				return errNoCatalog
			}
			defer store.Close()

			detail, err := store.RunHighlights(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == report.FormatText {
				fmt.Fprintf(out, "Run %s (%s) from %s at %s\n", detail.Run.ID, detail.Run.Kind,
					detail.Run.Source, detail.Run.CreatedAt.Local().Format(time.DateTime))
			}
			if detail.Plays != nil {
				return report.WriteHighlights(out, format, detail.Plays)
			}

			sel := highlights.Selection{Highlights: make([]highlights.SelectedHighlight, 0, len(detail.Audio))}
			if detail.Run.ThresholdDB != nil {
				sel.Threshold = *detail.Run.ThresholdDB
			}
			clips := make([]string, 0, len(detail.Audio))
			for _, h := range detail.Audio {
				sel.Highlights = append(sel.Highlights, h.SelectedHighlight)
				clips = append(clips, h.Clip)
			}
			sel.Candidates = make([]highlights.PeakCandidate, detail.Run.Candidates)
			sel.Whistles = make([]highlights.PeakCandidate, detail.Run.Whistles)
			return report.WriteAudio(out, format, sel, clips)
		},
	}
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json, csv or table")
	return cmd
}
