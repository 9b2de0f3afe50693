package main

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"log/slog"

	"clipper/internal/batch"
	"clipper/internal/config"
	"clipper/internal/cut"
	"clipper/internal/logging"
	"clipper/internal/probecache"
	"clipper/internal/quality"
	"clipper/internal/services/ffmpeg"
	"clipper/internal/services/ytdlp"
	"clipper/internal/source"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.LogLevel = strings.TrimSpace(*c.logLevelFlag)
		}
		if c.logFormatFlag != nil && strings.TrimSpace(*c.logFormatFlag) != "" {
			cfg.LogFormat = strings.TrimSpace(*c.logFormatFlag)
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			Writer: os.Stderr,
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) newYtdlpClient(cfg *config.Config) (*ytdlp.Client, error) {
	return ytdlp.New(cfg.Tools.YtDlp, cfg.Run.ProbeTimeout, cfg.Run.DownloadTimeout)
}

func (c *commandContext) newFFmpegClient(cfg *config.Config) (*ffmpeg.Client, error) {
	return ffmpeg.New(cfg.Tools.FFmpeg, cfg.Run.CutTimeout)
}

// openCache returns the probe cache when enabled, or nil when disabled.
// Callers must Close a non-nil cache.
func (c *commandContext) openCache(cfg *config.Config, disabled bool, logger *slog.Logger) (*probecache.Cache, error) {
	if disabled || !cfg.Cache.Enabled {
		return nil, nil
	}
	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	return probecache.Open(cfg.Cache.Path, ttl, logger)
}

func (c *commandContext) newAcquirer(cfg *config.Config, cache *probecache.Cache, logger *slog.Logger) (*source.Acquirer, error) {
	client, err := c.newYtdlpClient(cfg)
	if err != nil {
		return nil, err
	}
	opts := []source.Option{source.WithLogger(logger)}
	if cache != nil {
		opts = append(opts, source.WithCache(cache))
	}
	return source.NewAcquirer(client, client, opts...), nil
}

// acquirerAdapter bridges the concrete acquirer to the coordinator's
// interface, which deals in handles rather than the concrete type.
type acquirerAdapter struct {
	*source.Acquirer
}

func (a acquirerAdapter) Acquire(ctx context.Context, url string, resolved quality.Resolved, strategy cut.Strategy, workdir string, keep bool) (batch.SourceHandle, error) {
	handle, err := a.Acquirer.Acquire(ctx, url, resolved, strategy, workdir, keep)
	if err != nil {
		return nil, err
	}
	return handle, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
