package metrics

import (
	"sync/atomic"
	"time"
)

// AgentConfig describes one searcher setup taking part in an experiment.
type AgentConfig struct {
	ID          int
	Goroutines  int
	Duration    time.Duration
	Episodes    int
	RewardScale float64
}

type SearchMetric struct {
	Goroutines int
	Duration   time.Duration
	Episodes   int
	Nodes      int // Nodes expanded across all trees
	Visits     int // Merged root visits
}

type MoveMetric struct {
	Step   int
	Player int // Player index
	Round  int
	Move   string
	Mean   float64 // Mean reward of the chosen move
	SearchMetric
}

type GameMetric struct {
	Players    int
	Scores     []int
	Winner     int  // Player index
	Beat       bool // Single player only: the score to beat was passed
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start(goroutines int)
	AddEpisode()
	AddNode()
	SetVisits(visits int)
	Complete() SearchMetric
}

type collector struct {
	goroutines int
	startTime  time.Time
	episodes   atomic.Int32
	nodes      atomic.Int32
	visits     atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.episodes.Store(0)
	m.nodes.Store(0)
	m.visits.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) SetVisits(visits int) {
	m.visits.Store(int32(visits))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines: m.goroutines,
		Duration:   time.Since(m.startTime),
		Episodes:   int(m.episodes.Load()),
		Nodes:      int(m.nodes.Load()),
		Visits:     int(m.visits.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines int)   {}
func (m *dummyCollector) AddEpisode()            {}
func (m *dummyCollector) AddNode()               {}
func (m *dummyCollector) SetVisits(visits int)   {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
