package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/courtside/catalog"
	"github.com/RyanBlaney/courtside/plays"
	"github.com/RyanBlaney/courtside/report"
)

// newGameCommand runs the audio and play-by-play pipelines side by side.
func newGameCommand(ctx *commandContext) *cobra.Command {
	var (
		audio      audioOptions
		pbp        playsOptions
		formatFlag string
	)

	cmd := &cobra.Command{
		Use:   "game",
		Short: "Run audio and play-by-play detection for one game together",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			var (
				wg       sync.WaitGroup
				audioRes audioResult
				playsRes []plays.Highlight
				audioErr error
				playsErr error
			)
			wg.Add(2)
			go func() {
				defer wg.Done()
				audioRes, audioErr = runAudio(cmd.Context(), cfg, audio)
			}()
			go func() {
				defer wg.Done()
				playsRes, playsErr = runPlays(cmd.Context(), cfg, pbp)
			}()
			wg.Wait()

			if err := errors.Join(audioErr, playsErr); err != nil {
				return err
			}

			ctx.withCatalog(func(store *catalog.Store) error {
				if _, err := store.SaveAudioRun(cmd.Context(), audioRes.source, audioRes.selection, audioRes.clips); err != nil {
					return err
				}
				source := pbp.gameID
				if source == "" {
					source = pbp.file
				}
				_, err := store.SavePlayRun(cmd.Context(), source, playsRes)
				return err
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "== Audio highlights ==")
			if err := report.WriteAudio(out, format, audioRes.selection, audioRes.clips); err != nil {
				return err
			}
			fmt.Fprintln(out, "== Play-by-play highlights ==")
			return report.WriteHighlights(out, format, playsRes)
		},
	}

	cmd.Flags().StringVar(&audio.url, "url", "", "Video URL to download with yt-dlp")
	cmd.Flags().StringVar(&audio.file, "file", "", "Local video or WAV file")
	cmd.Flags().BoolVar(&audio.noClips, "no-clips", false, "Only report peaks, do not cut clips")
	cmd.Flags().StringVarP(&pbp.gameID, "game-id", "g", "", "basketball.bg game id to scrape")
	cmd.Flags().StringVar(&pbp.file, "events", "", "Play-by-play JSON written by `courtside scrape`")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json, csv or table")
	cmd.MarkFlagsOneRequired("url", "file")
	cmd.MarkFlagsOneRequired("game-id", "events")

	return cmd
}
