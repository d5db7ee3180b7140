package scheduler

import (
	"context"
	"sync"
	"time"
)

// MockScheduler is a mock implementation of Scheduler for testing.
// It is safe for concurrent use.
type MockScheduler struct {
	mu sync.Mutex

	// ScheduleFunc is an optional spy executed on every call.
	ScheduleFunc func(ctx context.Context, categoryID int64, delay time.Duration) error

	// ScheduleCalls records the arguments of every Schedule call.
	ScheduleCalls []ScheduleCall
}

// ScheduleCall holds the arguments for a call to Schedule.
type ScheduleCall struct {
	CategoryID int64
	Delay      time.Duration
}

// NewMock creates a new MockScheduler.
func NewMock() *MockScheduler {
	return &MockScheduler{}
}

func (m *MockScheduler) Schedule(ctx context.Context, categoryID int64, delay time.Duration) error {
	m.mu.Lock()
	m.ScheduleCalls = append(m.ScheduleCalls, ScheduleCall{CategoryID: categoryID, Delay: delay})
	fn := m.ScheduleFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, categoryID, delay)
	}
	return nil
}

// Reset clears all call records.
func (m *MockScheduler) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScheduleCalls = nil
}

// CategoryIDs returns the distinct category ids scheduled so far, in call order.
func (m *MockScheduler) CategoryIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[int64]bool)
	var ids []int64
	for _, call := range m.ScheduleCalls {
		if !seen[call.CategoryID] {
			seen[call.CategoryID] = true
			ids = append(ids, call.CategoryID)
		}
	}
	return ids
}
