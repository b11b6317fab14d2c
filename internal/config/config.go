// Package config loads the YAML run configuration and builds the logger.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/rfielding/petrispace/statespace"
)

// File is the on-disk run configuration.
type File struct {
	Model string `yaml:"model"`
	// Processes overrides the model's default process count when positive.
	Processes int     `yaml:"processes,omitempty"`
	Explore   Explore `yaml:"explore"`
	Export    Export  `yaml:"export"`
	Log       Log     `yaml:"log"`
}

// Explore holds the exploration bounds. Zero means unbounded.
type Explore struct {
	ProgressInterval int           `yaml:"progress_interval"`
	MaxStates        int           `yaml:"max_states"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxHeapBytes     uint64        `yaml:"max_heap_bytes"`
}

// Export names the artifacts to write. Empty paths are skipped.
type Export struct {
	Dot     string `yaml:"dot"`
	Mermaid string `yaml:"mermaid"`
	TLA     string `yaml:"tla"`
	Report  string `yaml:"report"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		Model: "relay",
		Explore: Explore{
			ProgressInterval: statespace.DefaultProgressInterval,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over Default. Unknown keys are an error.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (File, error) {
	f := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, err
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate reports the first invalid field.
func (f File) Validate() error {
	if f.Model == "" {
		return errors.New("model is required")
	}
	if f.Processes < 0 {
		return fmt.Errorf("processes must not be negative, got %d", f.Processes)
	}
	if _, err := zapcore.ParseLevel(f.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return f.StateSpace(1).Validate()
}

// StateSpace returns the engine configuration for the given process count.
func (f File) StateSpace(processes int) statespace.Config {
	if f.Processes > 0 {
		processes = f.Processes
	}
	return statespace.Config{
		Processes:        processes,
		ProgressInterval: f.Explore.ProgressInterval,
		MaxStates:        f.Explore.MaxStates,
		Timeout:          f.Explore.Timeout,
		MaxHeapBytes:     f.Explore.MaxHeapBytes,
	}
}

// Logger builds the zap logger described by the Log section.
func (f File) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(f.Log.Level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if f.Log.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
