package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRun(); err != nil {
		return err
	}
	if err := c.validateQuality(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRun() error {
	if c.Run.Jobs < 1 {
		return errors.New("run.jobs must be at least 1")
	}
	if c.Run.CutTimeout < 0 {
		return errors.New("run.cut_timeout must be non-negative")
	}
	if c.Run.ProbeTimeout < 0 {
		return errors.New("run.probe_timeout must be non-negative")
	}
	if c.Run.DownloadTimeout < 0 {
		return errors.New("run.download_timeout must be non-negative")
	}
	return nil
}

func (c *Config) validateQuality() error {
	if c.Quality.Height < 0 {
		return errors.New("quality.height must be a positive integer")
	}
	if c.Quality.Tier != "" && c.Quality.Height > 0 {
		return errors.New("quality.tier and quality.height are mutually exclusive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.LogFormat {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
}
