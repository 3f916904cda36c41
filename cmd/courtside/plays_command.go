package main

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/courtside/catalog"
	"github.com/RyanBlaney/courtside/report"
)

func newPlaysCommand(ctx *commandContext) *cobra.Command {
	var (
		opts       playsOptions
		formatFlag string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "plays",
		Short: "Flag lead changes, clutch plays, buzzer-beaters and runs in a play-by-play feed",
		Example: `  courtside plays --game-id 123456
  courtside plays --file pbp_123456.json --format csv --output-file highlights.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			hl, err := runPlays(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}

			source := opts.gameID
			if source == "" {
				source = opts.file
			}
			ctx.withCatalog(func(store *catalog.Store) error {
				_, err := store.SavePlayRun(cmd.Context(), source, hl)
				return err
			})

			w, closeFn, err := openOutput(cmd, outputFile)
			if err != nil {
				return err
			}
			if err := report.WriteHighlights(w, format, hl); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVarP(&opts.gameID, "game-id", "g", "", "basketball.bg game id to scrape")
	cmd.Flags().StringVar(&opts.file, "file", "", "Play-by-play JSON written by `courtside scrape`")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json, csv or table")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "Write highlights here instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("game-id", "file")
	cmd.MarkFlagsOneRequired("game-id", "file")

	return cmd
}
