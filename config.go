package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/thiefmaster/actuatorpanel/comm"
)

type logConfig struct {
	File       string
	Level      string
	MaxSizeMB  int `yaml:"maxSizeMB"`
	MaxBackups int `yaml:"maxBackups"`
	MaxAgeDays int `yaml:"maxAgeDays"`
}

type remoteConfig struct {
	Enabled bool
	Listen  string
}

type appConfig struct {
	Port       string
	Baud       int
	PacingMs   int    `yaml:"pacingMs"`
	FineStep   uint32 `yaml:"fineStep"`
	CoarseStep uint32 `yaml:"coarseStep"`
	Log        logConfig
	Remote     remoteConfig
}

func defaultConfig() appConfig {
	return appConfig{
		Baud:       9600,
		PacingMs:   int(comm.MinPacing / time.Millisecond),
		FineStep:   1000,
		CoarseStep: 5000,
		Log: logConfig{
			File:       "actuatorpanel.log",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Remote: remoteConfig{Listen: "127.0.0.1:8765"},
	}
}

func (c *appConfig) load(path string) error {
	logrus.Infof("loading config file: %s", path)
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not open config file: %w", err)
	}
	if err = yaml.UnmarshalStrict(yamlFile, c); err != nil {
		return fmt.Errorf("could not parse config file: %w", err)
	}
	return nil
}

// applyOverrides lets the PANEL_PORT environment variable and then the
// first positional argument replace the configured port.
func (c *appConfig) applyOverrides(args []string) {
	if env := os.Getenv("PANEL_PORT"); env != "" {
		c.Port = env
	}
	if len(args) > 0 && args[0] != "" {
		c.Port = args[0]
	}
}

func (c *appConfig) validate() error {
	if c.Port == "" {
		return fmt.Errorf("supply path argument. Example: /dev/ttyACM0")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.FineStep == 0 || c.CoarseStep == 0 {
		return fmt.Errorf("speed steps must be positive")
	}
	if c.Remote.Enabled && c.Remote.Listen == "" {
		return fmt.Errorf("remote panel enabled without a listen address")
	}
	return nil
}

func (c *appConfig) pacing() time.Duration {
	d := time.Duration(c.PacingMs) * time.Millisecond
	if d < comm.MinPacing {
		return comm.MinPacing
	}
	return d
}
