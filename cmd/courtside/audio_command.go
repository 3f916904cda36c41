package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/courtside/catalog"
	"github.com/RyanBlaney/courtside/report"
)

func newAudioCommand(ctx *commandContext) *cobra.Command {
	var (
		opts       audioOptions
		numHL      int
		preBuffer  float64
		postBuffer float64
		outputDir  string
		compile    bool
		formatFlag string
	)

	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Detect crowd-noise highlights in a broadcast and cut clips",
		Example: `  courtside audio --url https://www.youtube.com/watch?v=... --num-highlights 5
  courtside audio --file game.mp4 --no-clips --format table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			if opts.url != "" && opts.file != "" {
				return fmt.Errorf("--url and --file are mutually exclusive")
			}

			flags := cmd.Flags()
			if flags.Changed("num-highlights") {
				cfg.Audio.TopN = numHL
			}
			if flags.Changed("pre-buffer") {
				cfg.Clips.PreBufferSeconds = preBuffer
			}
			if flags.Changed("post-buffer") {
				cfg.Clips.PostBufferSeconds = postBuffer
			}
			if flags.Changed("output") {
				cfg.Clips.OutputDir = outputDir
			}
			if flags.Changed("compile") {
				cfg.Clips.Compile = compile
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			res, err := runAudio(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}

			ctx.withCatalog(func(store *catalog.Store) error {
				_, err := store.SaveAudioRun(cmd.Context(), res.source, res.selection, res.clips)
				return err
			})

			if err := report.WriteAudio(cmd.OutOrStdout(), format, res.selection, res.clips); err != nil {
				return err
			}
			if res.compiled != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Compilation: %s\n", res.compiled)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Video URL to download with yt-dlp")
	cmd.Flags().StringVar(&opts.file, "file", "", "Local video or WAV file")
	cmd.Flags().IntVarP(&numHL, "num-highlights", "n", 10, "Number of highlights to keep")
	cmd.Flags().Float64Var(&preBuffer, "pre-buffer", 5, "Seconds to include before each peak")
	cmd.Flags().Float64Var(&postBuffer, "post-buffer", 5, "Seconds to include after each peak")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "highlights", "Directory for downloads and clips")
	cmd.Flags().BoolVar(&compile, "compile", false, "Join clips into a single compilation video")
	cmd.Flags().BoolVar(&opts.noClips, "no-clips", false, "Only report peaks, do not cut clips")
	cmd.Flags().StringVar(&opts.features, "features", "", "Write the per-frame feature track as CSV to this path")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json, csv or table")

	return cmd
}
