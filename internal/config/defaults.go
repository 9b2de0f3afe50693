package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath      = "~/.config/clipper/config.toml"
	defaultOutputDir       = "./clips"
	defaultOutputFormat    = "mp4"
	defaultJobs            = 1
	defaultCutTimeout      = 600
	defaultProbeTimeout    = 60
	defaultDownloadTimeout = 1800
	defaultCacheTTLHours   = 24
	defaultYtDlpBinary     = "yt-dlp"
	defaultFFmpegBinary    = "ffmpeg"
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Output: Output{
			Dir:    defaultOutputDir,
			Format: defaultOutputFormat,
		},
		Run: Run{
			Jobs:            defaultJobs,
			CutTimeout:      defaultCutTimeout,
			ProbeTimeout:    defaultProbeTimeout,
			DownloadTimeout: defaultDownloadTimeout,
		},
		Cache: Cache{
			Enabled:  true,
			Path:     defaultCachePath(),
			TTLHours: defaultCacheTTLHours,
		},
		Tools: Tools{
			YtDlp:  defaultYtDlpBinary,
			FFmpeg: defaultFFmpegBinary,
		},
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	}
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "clipper", "probecache.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/clipper/probecache.db"
	}
	return filepath.Join(home, ".cache", "clipper", "probecache.db")
}
