package metrics

import (
	"math"
	"sync/atomic"
	"time"
)

// SearchMetric describes one move search.
type SearchMetric struct {
	Algorithm string
	Depth     int
	Duration  time.Duration
	Nodes     int // Nodes generated
	Visits    int // Nodes entered by the search
	Cutoffs   int // Children skipped by pruning
	Score     float64
	Fallback  bool
}

type MoveMetric struct {
	Step   int
	Player int // Side ID
	Move   int // Divisor
	Number int // Number after the move
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	StartNumber    int
	Winner         string // "" on a draw
	ScoreFirst     int
	ScoreSecond    int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Fallbacks      int
}

type Collector interface {
	Start(algorithm string, depth int)
	AddNodes(n int)
	AddVisits(n int)
	AddCutoffs(n int)
	SetScore(score float64)
	MarkFallback()
	Complete() SearchMetric
}

type collector struct {
	algorithm string
	depth     int
	startTime time.Time
	nodes     atomic.Int32
	visits    atomic.Int32
	cutoffs   atomic.Int32
	score     atomic.Uint64
	fallback  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(algorithm string, depth int) {
	m.startTime = time.Now()
	m.algorithm = algorithm
	m.depth = depth
	m.nodes.Store(0)
	m.visits.Store(0)
	m.cutoffs.Store(0)
	m.score.Store(0)
	m.fallback.Store(false)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int32(n))
}

func (m *collector) AddVisits(n int) {
	m.visits.Add(int32(n))
}

func (m *collector) AddCutoffs(n int) {
	m.cutoffs.Add(int32(n))
}

func (m *collector) SetScore(score float64) {
	m.score.Store(math.Float64bits(score))
}

func (m *collector) MarkFallback() {
	m.fallback.Store(true)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Algorithm: m.algorithm,
		Depth:     m.depth,
		Duration:  time.Since(m.startTime),
		Nodes:     int(m.nodes.Load()),
		Visits:    int(m.visits.Load()),
		Cutoffs:   int(m.cutoffs.Load()),
		Score:     math.Float64frombits(m.score.Load()),
		Fallback:  m.fallback.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(algorithm string, depth int) {}
func (m *dummyCollector) AddNodes(n int)                    {}
func (m *dummyCollector) AddVisits(n int)                   {}
func (m *dummyCollector) AddCutoffs(n int)                  {}
func (m *dummyCollector) SetScore(score float64)            {}
func (m *dummyCollector) MarkFallback()                     {}
func (m *dummyCollector) Complete() SearchMetric            { return SearchMetric{} }
