package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipper/internal/batch"
	"clipper/internal/cut"
	"clipper/internal/quality"
	"clipper/internal/services"
	"clipper/internal/timerange"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var logFormatFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	var clipsFlag string
	var outDirFlag string
	var reencodeFlag bool
	var qualityFlag string
	var heightFlag int
	var formatFlag string
	var jobsFlag int
	var keepSourceFlag bool
	var noCacheFlag bool

	rootCmd := &cobra.Command{
		Use:   "clipper <url> [start end]",
		Short: "Cut bounded clips from online videos",
		Long: `Clipper downloads a video once and cuts one or more bounded clips
from it, either by lossless stream copy or by re-encoding.`,
		Args:          cobra.RangeArgs(1, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			clips, err := resolveClips(args, clipsFlag)
			if err != nil {
				return err
			}
			qualityReq, err := resolveQuality(ctx, qualityFlag, heightFlag)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req := batch.Request{
				URL:        strings.TrimSpace(args[0]),
				Clips:      clips,
				Strategy:   cut.Select(reencodeFlag || cfg.Run.Reencode),
				Quality:    qualityReq,
				OutDir:     firstNonEmpty(outDirFlag, cfg.Output.Dir),
				Format:     firstNonEmpty(formatFlag, cfg.Output.Format),
				Jobs:       jobsOrDefault(jobsFlag, cfg.Run.Jobs),
				KeepSource: keepSourceFlag || cfg.Output.KeepSource,
			}
			return runClip(cmd, ctx, req, noCacheFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (console, json)")

	rootCmd.Flags().StringVar(&clipsFlag, "clips", "", "Comma-separated clip ranges in seconds, e.g. 10-30,120-150")
	rootCmd.Flags().StringVarP(&outDirFlag, "outdir", "o", "", "Output directory for clips")
	rootCmd.Flags().BoolVar(&reencodeFlag, "reencode", false, "Re-encode clips instead of stream copying")
	rootCmd.Flags().StringVarP(&qualityFlag, "quality", "q", "", "Named quality tier, e.g. 1080p")
	rootCmd.Flags().IntVar(&heightFlag, "height", 0, "Exact source height in pixels")
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output container format, e.g. mp4")
	rootCmd.Flags().IntVarP(&jobsFlag, "jobs", "j", 0, "Parallel cut jobs")
	rootCmd.Flags().BoolVar(&keepSourceFlag, "keep-source", false, "Keep the downloaded source after the run")
	rootCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "Skip the probe result cache")

	rootCmd.AddCommand(newFormatsCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// resolveClips accepts either a --clips list or a positional start/end pair,
// never both. Parsing is collect-all so every bad entry is reported at once.
func resolveClips(args []string, clipsFlag string) ([]timerange.ClipRange, error) {
	clipsFlag = strings.TrimSpace(clipsFlag)
	positional := len(args) == 3

	switch {
	case positional && clipsFlag != "":
		return nil, services.Wrap(services.ErrValidation, "cli", "parse arguments",
			"provide either positional start/end or --clips, not both", nil)
	case positional:
		clip, err := timerange.ParsePair(args[1], args[2])
		if err != nil {
			return nil, err
		}
		return []timerange.ClipRange{clip}, nil
	case clipsFlag != "":
		return timerange.ParseList(clipsFlag)
	case len(args) == 2:
		return nil, services.Wrap(services.ErrValidation, "cli", "parse arguments",
			"start given without end; provide both, e.g. clipper <url> 10 30", nil)
	default:
		return nil, services.Wrap(services.ErrValidation, "cli", "parse arguments",
			"no clip ranges; provide start and end, or --clips", nil)
	}
}

func resolveQuality(ctx *commandContext, tierFlag string, heightFlag int) (quality.Request, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return quality.Request{}, err
	}
	tier := strings.TrimSpace(tierFlag)
	height := heightFlag
	if tier == "" && height == 0 {
		tier = cfg.Quality.Tier
		height = cfg.Quality.Height
	}
	req, err := quality.ParseRequest(tier, height)
	if err != nil {
		return quality.Request{}, services.Wrap(services.ErrValidation, "cli", "parse quality", err.Error(), nil)
	}
	return req, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func jobsOrDefault(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if configValue > 0 {
		return configValue
	}
	return 1
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the clipper version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return nil
		},
	}
}
