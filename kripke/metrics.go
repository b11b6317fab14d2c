package kripke

import (
	"fmt"
	"sort"
	"strings"
)

// Metric represents an observability counter
type Metric struct {
	Name        string
	Type        string
	Value       float64
	Unit        string
	Description string
}

// MetricsCollector tracks observability metrics
type MetricsCollector struct {
	metrics map[string]*Metric
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metric),
	}
}

// Counter returns the counter called name, creating it on first use.
func (mc *MetricsCollector) Counter(name, desc, unit string) *Metric {
	if m, exists := mc.metrics[name]; exists {
		return m
	}
	m := &Metric{
		Name:        name,
		Type:        "counter",
		Unit:        unit,
		Description: desc,
	}
	mc.metrics[name] = m
	return m
}

func (m *Metric) Inc() {
	m.Value++
}

func (m *Metric) Add(delta float64) {
	m.Value += delta
}

// Value returns the current value of name, or 0 if it was never created.
func (mc *MetricsCollector) Value(name string) float64 {
	if m, ok := mc.metrics[name]; ok {
		return m.Value
	}
	return 0
}

// Snapshot copies every metric value keyed by name.
func (mc *MetricsCollector) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(mc.metrics))
	for name, m := range mc.metrics {
		out[name] = m.Value
	}
	return out
}

func (mc *MetricsCollector) names() []string {
	names := make([]string, 0, len(mc.metrics))
	for name := range mc.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateMetricsTable generates markdown table of metrics
func (mc *MetricsCollector) GenerateMetricsTable() string {
	var sb strings.Builder
	sb.WriteString("| Metric | Type | Value | Unit | Description |\n")
	sb.WriteString("|--------|------|-------|------|-------------|\n")

	for _, name := range mc.names() {
		m := mc.metrics[name]
		sb.WriteString(fmt.Sprintf("| %s | %s | %.0f | %s | %s |\n",
			m.Name, m.Type, m.Value, m.Unit, m.Description))
	}

	return sb.String()
}
