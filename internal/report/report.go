// Package report writes the YAML summary of one exploration run.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rfielding/petrispace/statespace"
)

type Report struct {
	RunID      string                      `yaml:"run_id"`
	Model      string                      `yaml:"model"`
	Processes  int                         `yaml:"processes"`
	Complete   bool                        `yaml:"complete"`
	Error      string                      `yaml:"error,omitempty"`
	States     int                         `yaml:"states"`
	Pending    int                         `yaml:"pending"`
	Duration   string                      `yaml:"duration"`
	Metrics    map[string]float64          `yaml:"metrics"`
	Properties []statespace.PropertyResult `yaml:"properties,omitempty"`
}

// New summarizes a run of c. err is what Generate returned.
func New(model string, c *statespace.Core, err error, elapsed time.Duration) *Report {
	r := &Report{
		RunID:     uuid.NewString(),
		Model:     model,
		Processes: c.Config().Processes,
		Complete:  err == nil,
		States:    c.Len(),
		Pending:   c.Pending(),
		Duration:  elapsed.Round(time.Millisecond).String(),
		Metrics:   c.Metrics().Snapshot(),
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Encode writes r as YAML.
func (r *Report) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// Write saves r at path, creating parent directories.
func (r *Report) Write(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Read loads a report written by Write.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &r, nil
}
