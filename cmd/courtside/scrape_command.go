package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/courtside/logging"
	"github.com/RyanBlaney/courtside/report"
)

func newScrapeCommand(ctx *commandContext) *cobra.Command {
	var (
		gameID     string
		formatFlag string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Export a game's play-by-play feed as JSON or CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			if format != report.FormatJSON && format != report.FormatCSV {
				return fmt.Errorf("scrape supports json or csv, got %q", format)
			}

			events, err := loadEvents(cmd.Context(), cfg, playsOptions{gameID: gameID})
			if err != nil {
				return err
			}

			if outputFile == "" {
				outputFile = fmt.Sprintf("pbp_%s.%s", gameID, format)
			}
			w, closeFn, err := openOutput(cmd, outputFile)
			if err != nil {
				return err
			}
			if err := report.WriteEvents(w, format, events); err != nil {
				_ = closeFn()
				return err
			}
			if err := closeFn(); err != nil {
				return err
			}

			logging.Info("Saved play-by-play", logging.Fields{"events": len(events), "output": outputFile})
			return nil
		},
	}

	cmd.Flags().StringVarP(&gameID, "game-id", "g", "", "basketball.bg game id")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or csv")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "Output path (default pbp_<game-id>.<format>, - for stdout)")
	_ = cmd.MarkFlagRequired("game-id")

	return cmd
}
