// Package metrics keeps in-memory timing counters for the render and
// transition paths. Counters are summarized in the debug log on exit.
// Collection is enabled by default and can be disabled with
// MANYWAYS_METRICS=0.
//
//	defer metrics.Timer(metrics.Render)()
package metrics

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("MANYWAYS_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric tracks timing statistics for a named operation.
type TimingMetric struct {
	name    string
	count   atomic.Int64
	totalNs atomic.Int64
	maxNs   atomic.Int64
}

var (
	// Render times one full view render.
	Render = &TimingMetric{name: "render"}
	// Transition times one action or toggle.
	Transition = &TimingMetric{name: "transition"}
)

var all = []*TimingMetric{Render, Transition}

// Record records a single measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.totalNs.Add(ns)
	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Timer starts a measurement and returns the function that records it.
func Timer(m *TimingMetric) func() {
	if !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// Stats is a point-in-time copy of a TimingMetric.
type Stats struct {
	Name  string
	Count int64
	Avg   time.Duration
	Max   time.Duration
}

// Snapshot returns the current statistics.
func (m *TimingMetric) Snapshot() Stats {
	s := Stats{
		Name:  m.name,
		Count: m.count.Load(),
		Max:   time.Duration(m.maxNs.Load()),
	}
	if s.Count > 0 {
		s.Avg = time.Duration(m.totalNs.Load() / s.Count)
	}
	return s
}

// Reset zeroes the metric.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
}

// ResetAll zeroes every metric.
func ResetAll() {
	for _, m := range all {
		m.Reset()
	}
}

// Summary renders one line per metric that has samples.
func Summary() string {
	var b strings.Builder
	for _, m := range all {
		s := m.Snapshot()
		if s.Count == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: n=%d avg=%v max=%v\n", s.Name, s.Count, s.Avg, s.Max)
	}
	return b.String()
}
