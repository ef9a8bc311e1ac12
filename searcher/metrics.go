package searcher

import (
	"sync/atomic"
	"time"
)

type MoveMetrics struct {
	StartTime  time.Time
	Duration   time.Duration
	Goroutines int
	Nodes      int64
	Leaves     int64
}

type MetricsCollector interface {
	Start(goroutines int)
	AddNode()
	AddLeaf()
	Complete() MoveMetrics
}

type metricsCollector struct {
	startTime  time.Time
	goroutines int
	nodes      atomic.Int64
	leaves     atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start(goroutines int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
}

func (m *metricsCollector) AddNode() {
	m.nodes.Add(1)
}

func (m *metricsCollector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *metricsCollector) Complete() MoveMetrics {
	return MoveMetrics{
		StartTime:  m.startTime,
		Duration:   time.Since(m.startTime),
		Goroutines: m.goroutines,
		Nodes:      m.nodes.Load(),
		Leaves:     m.leaves.Load(),
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start(goroutines int)  {}
func (m *noMetricsCollector) AddNode()              {}
func (m *noMetricsCollector) AddLeaf()              {}
func (m *noMetricsCollector) Complete() MoveMetrics { return MoveMetrics{} }
