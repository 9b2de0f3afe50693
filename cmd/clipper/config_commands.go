package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"clipper/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			written, err := config.CreateSample(target)
			if err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config path: %s\n\n", ctx.configPath)
			} else {
				fmt.Fprintln(out, "Config path: (defaults, no file found)")
				fmt.Fprintln(out)
			}

			rows := [][]string{
				{"output.dir", cfg.Output.Dir},
				{"output.format", cfg.Output.Format},
				{"output.keep_source", yesNo(cfg.Output.KeepSource)},
				{"quality.tier", valueOrDash(cfg.Quality.Tier)},
				{"quality.height", intOrDash(cfg.Quality.Height)},
				{"run.jobs", fmt.Sprintf("%d", cfg.Run.Jobs)},
				{"run.reencode", yesNo(cfg.Run.Reencode)},
				{"run.cut_timeout", fmt.Sprintf("%ds", cfg.Run.CutTimeout)},
				{"run.probe_timeout", fmt.Sprintf("%ds", cfg.Run.ProbeTimeout)},
				{"run.download_timeout", fmt.Sprintf("%ds", cfg.Run.DownloadTimeout)},
				{"cache.enabled", yesNo(cfg.Cache.Enabled)},
				{"cache.path", cfg.Cache.Path},
				{"cache.ttl_hours", fmt.Sprintf("%d", cfg.Cache.TTLHours)},
				{"tools.ytdlp", cfg.Tools.YtDlp},
				{"tools.ffmpeg", cfg.Tools.FFmpeg},
				{"log_level", cfg.LogLevel},
				{"log_format", cfg.LogFormat},
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func intOrDash(value int) string {
	if value <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", value)
}
