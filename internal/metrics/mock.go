package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a Metrics implementation that counts calls for assertions.
type Mock struct {
	mu sync.Mutex

	ScoresSubmitted    int
	ScoresRejected     int
	ScoresDeleted      int
	RecomputeRuns      int
	RecomputeFailures  int
	RecomputeDurations []float64
	StartupTime        float64
}

// NewMock creates a new Mock.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncScoresSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoresSubmitted++
}

func (m *Mock) IncScoresRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoresRejected++
}

func (m *Mock) AddScoresDeleted(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoresDeleted += count
}

func (m *Mock) IncRecomputeRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecomputeRuns++
}

func (m *Mock) IncRecomputeFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecomputeFailures++
}

func (m *Mock) ObserveRecomputeDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecomputeDurations = append(m.RecomputeDurations, seconds)
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTime = seconds
}
