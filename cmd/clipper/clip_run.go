package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"clipper/internal/batch"
	"clipper/internal/deps"
	"clipper/internal/logging"
	"clipper/internal/services"
)

func runClip(cmd *cobra.Command, ctx *commandContext, req batch.Request, noCache bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	// Missing binaries fail here, before any network work, so they read as a
	// setup problem rather than a mid-run tool failure.
	if err := deps.Verify(deps.Required(cfg.Tools.YtDlp, cfg.Tools.FFmpeg)); err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	cutter, err := ctx.newFFmpegClient(cfg)
	if err != nil {
		return err
	}

	cache, err := ctx.openCache(cfg, noCache, logger)
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

	coordinator := batch.NewCoordinator(acquirerAdapter{acquirer}, cutter, batch.WithLogger(logger))
	result, err := coordinator.Run(cmd.Context(), req)
	if err != nil {
		if services.IsRunAborting(err) {
			logger.Error("run aborted before cutting", logging.Error(err))
		}
		return err
	}

	printResults(cmd, result)
	if failed := result.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d clips failed", failed, len(result.Results))
	}
	return nil
}

func printResults(cmd *cobra.Command, result batch.BatchResult) {
	out := cmd.OutOrStdout()
	title := cases.Title(language.Und)

	headers := []string{"#", "Range", "Status", "Output"}
	rows := make([][]string, 0, len(result.Results))
	for _, res := range result.Results {
		detail := res.Job.OutputPath
		if res.State == batch.JobFailed && res.Err != nil {
			detail = res.Err.Error()
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", res.Job.Index),
			res.Job.Range.String(),
			title.String(string(res.State)),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
	fmt.Fprintf(out, "%d clips succeeded, %d failed\n", result.Succeeded(), result.Failed())
}
