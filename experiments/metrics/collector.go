package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines  int
	Duration    time.Duration
	MaxDepth    int     // Depth budget
	Depth       int     // Deepest completed iteration
	Score       float64 // Root score at Depth
	Nodes       int     // Decision nodes visited
	ChanceNodes int     // Move-sets with more than one outcome
	Cutoffs     int
}

type MoveMetric struct {
	Step   int
	Player string
	Units  int // Mover's units before the move
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // Empty on a draw or when the turn limit is hit
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Rejected       int // Agent move-sets replaced by a generated one
}

type Collector interface {
	Start(goroutines, maxDepth int)
	AddNode()
	AddChanceNode()
	AddCutoff()
	CompleteDepth(depth int, score float64)
	Complete() SearchMetric
}

type collector struct {
	goroutines  int
	maxDepth    int
	startTime   time.Time
	nodes       atomic.Int64
	chanceNodes atomic.Int64
	cutoffs     atomic.Int64

	mu    sync.Mutex
	depth int
	score float64
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new search.
func (m *collector) Start(goroutines, maxDepth int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.maxDepth = maxDepth
	m.nodes.Store(0)
	m.chanceNodes.Store(0)
	m.cutoffs.Store(0)

	m.mu.Lock()
	m.depth, m.score = 0, 0
	m.mu.Unlock()
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddChanceNode() {
	m.chanceNodes.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) CompleteDepth(depth int, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depth, m.score = depth, score
}

func (m *collector) Complete() SearchMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	return SearchMetric{
		Goroutines:  m.goroutines,
		Duration:    time.Since(m.startTime),
		MaxDepth:    m.maxDepth,
		Depth:       m.depth,
		Score:       m.score,
		Nodes:       int(m.nodes.Load()),
		ChanceNodes: int(m.chanceNodes.Load()),
		Cutoffs:     int(m.cutoffs.Load()),
	}
}

type dummyCollector struct {
	mu    sync.Mutex
	depth int
	score float64
}

// NewDummyCollector counts nothing but still reports the completed depth and score.
func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, maxDepth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depth, m.score = 0, 0
}
func (m *dummyCollector) AddNode()       {}
func (m *dummyCollector) AddChanceNode() {}
func (m *dummyCollector) AddCutoff()     {}

func (m *dummyCollector) CompleteDepth(depth int, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depth, m.score = depth, score
}

func (m *dummyCollector) Complete() SearchMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	return SearchMetric{Depth: m.depth, Score: m.score}
}
