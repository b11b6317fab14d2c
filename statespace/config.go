package statespace

import (
	"fmt"
	"time"
)

// DefaultProgressInterval is the number of processed states between two
// progress log lines.
const DefaultProgressInterval = 1000

// Config holds everything a run needs besides the net definition.
// The zero value of every bound means unbounded.
type Config struct {
	// Processes is the fixed number of processes in the system.
	Processes int `yaml:"processes"`
	// ProgressInterval is how many processed states pass between
	// progress reports. 0 selects DefaultProgressInterval.
	ProgressInterval int `yaml:"progress_interval,omitempty"`
	// MaxStates stops the search once more canonical states exist.
	MaxStates int `yaml:"max_states,omitempty"`
	// Timeout stops the search once exploration has run this long.
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// MaxHeapBytes stops the search once the Go heap grows past it.
	// The heap is sampled at every progress report.
	MaxHeapBytes uint64 `yaml:"max_heap_bytes,omitempty"`
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Processes < 1 {
		return fmt.Errorf("processes must be at least 1, got %d", c.Processes)
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress_interval must not be negative, got %d", c.ProgressInterval)
	}
	if c.MaxStates < 0 {
		return fmt.Errorf("max_states must not be negative, got %d", c.MaxStates)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

func (c Config) progressInterval() int {
	if c.ProgressInterval == 0 {
		return DefaultProgressInterval
	}
	return c.ProgressInterval
}
