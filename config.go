package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"elemerge/internal/merge"
)

const configFileName = ".elemerge.yaml"

type Config struct {
	Endpoint       string        `yaml:"endpoint"`
	SaveDirectory  string        `yaml:"save_directory"`
	LogFile        string        `yaml:"log_file"`
	MaxInFlight    int           `yaml:"max_in_flight"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CellWidth      float64       `yaml:"cell_width"`
	CellHeight     float64       `yaml:"cell_height"`
	SidebarWidth   int           `yaml:"sidebar_width"`
	HelpStyle      string        `yaml:"help_style"`
}

func defaultConfig() *Config {
	return &Config{
		Endpoint:     merge.DefaultEndpoint,
		MaxInFlight:  4,
		CellWidth:    8,
		CellHeight:   16,
		SidebarWidth: 28,
		HelpStyle:    "dark",
	}
}

// loadConfig reads path, or ~/.elemerge.yaml when path is empty. A
// missing file is not an error; the defaults are used.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			config.applyEnvOverrides()
			config.normalize()
			return config, nil
		}
		path = filepath.Join(homeDir, configFileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	config.applyEnvOverrides()
	config.normalize()
	return config, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ELEMERGE_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("ELEMERGE_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("ELEMERGE_SAVE_DIR"); v != "" {
		c.SaveDirectory = v
	}
}

func (c *Config) normalize() {
	d := defaultConfig()
	if strings.TrimSpace(c.Endpoint) == "" {
		c.Endpoint = d.Endpoint
	}
	if c.MaxInFlight < 0 {
		c.MaxInFlight = 0
	}
	if c.RequestTimeout < 0 {
		c.RequestTimeout = 0
	}
	if c.CellWidth <= 0 {
		c.CellWidth = d.CellWidth
	}
	if c.CellHeight <= 0 {
		c.CellHeight = d.CellHeight
	}
	if c.SidebarWidth < minSidebarWidth {
		c.SidebarWidth = minSidebarWidth
	}
	if c.HelpStyle == "" {
		c.HelpStyle = d.HelpStyle
	}
	c.SaveDirectory = expandPath(c.SaveDirectory)
	c.LogFile = expandPath(c.LogFile)
}

func expandPath(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
