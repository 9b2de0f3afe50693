package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"clipper/internal/deps"
	"clipper/internal/logging"
	"clipper/internal/services"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	var noCacheFlag bool

	cmd := &cobra.Command{
		Use:   "formats <url>",
		Short: "List the source heights available for clipping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(args[0])
			if url == "" {
				return services.Wrap(services.ErrValidation, "cli", "parse arguments", "video URL required", nil)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := deps.Verify(deps.Required(cfg.Tools.YtDlp, cfg.Tools.FFmpeg)); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			cache, err := ctx.openCache(cfg, noCacheFlag, logger)
			if err != nil {
				return err
			}
			if cache != nil {
				defer func() {
					if closeErr := cache.Close(); closeErr != nil {
						logger.Warn("failed to close probe cache", logging.Error(closeErr))
					}
				}()
			}

			acquirer, err := ctx.newAcquirer(cfg, cache, logger)
			if err != nil {
				return err
			}

			avail, err := acquirer.Availability(cmd.Context(), url)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			heights := unionDescending(avail.FastCopy, avail.All)
			if len(heights) == 0 {
				fmt.Fprintln(out, "No video formats reported for this URL.")
				return nil
			}

			fastCopy := toSet(avail.FastCopy)
			rows := make([][]string, 0, len(heights))
			for _, h := range heights {
				rows = append(rows, []string{
					fmt.Sprintf("%dp", h),
					yesNo(fastCopy[h]),
					yesNo(true),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Height", "Fast Copy", "Reencode"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintln(out, "Fast copy requires an H.264 MP4 stream at the chosen height.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "Skip the probe result cache")
	return cmd
}

func unionDescending(sets ...[]int) []int {
	seen := map[int]struct{}{}
	var out []int
	for _, set := range sets {
		for _, h := range set {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func toSet(values []int) map[int]bool {
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
