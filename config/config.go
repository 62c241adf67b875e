// Package config loads plyconv settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/seqsense/plyloader/pcd"
)

const maxFileSize = 1 << 20

// Config holds the plyconv settings.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Export ExportConfig `yaml:"export"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// ExportConfig controls PCD export.
type ExportConfig struct {
	Format    string  `yaml:"format"`     // binary or binary_compressed
	VoxelSize float32 `yaml:"voxel_size"` // 0 disables downsampling
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Export: ExportConfig{
			Format: "binary",
		},
	}
}

// Load reads a YAML file. Omitted fields keep their defaults.
func Load(path string) (*Config, error) {
	clean := filepath.Clean(path)
	if ext := filepath.Ext(clean); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}
	st, err := os.Stat(clean)
	if err != nil {
		return nil, err
	}
	if st.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", st.Size(), maxFileSize)
	}
	b, err := os.ReadFile(clean)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes YAML settings. Unknown keys are rejected.
func Parse(b []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if _, err := c.Export.PCDFormat(); err != nil {
		return err
	}
	if c.Export.VoxelSize < 0 {
		return fmt.Errorf("voxel_size must not be negative, got %f", c.Export.VoxelSize)
	}
	return nil
}

// SlogLevel parses Level.
func (c *LogConfig) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return l, nil
}

// NewLogger returns a logger writing to w as configured.
func (c *LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	l, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: l}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// PCDFormat parses Format.
func (c *ExportConfig) PCDFormat() (pcd.Format, error) {
	return pcd.ParseFormat(c.Format)
}
