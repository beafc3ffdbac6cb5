package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                    sync.Mutex
	setsRecorded          int
	overridesApplied      int
	matchesCompleted      int
	scoreRequestDurations []float64
	slackNotifSent        int
	slackNotifFailed      int
	startupTime           float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		scoreRequestDurations: make([]float64, 0),
	}
}

func (m *Mock) IncSetsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setsRecorded++
}

func (m *Mock) IncOverridesApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overridesApplied++
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) ObserveScoreRequestDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scoreRequestDurations = append(m.scoreRequestDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Counts returns the recorded counter values for assertions.
func (m *Mock) Counts() (setsRecorded, overridesApplied, matchesCompleted int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setsRecorded, m.overridesApplied, m.matchesCompleted
}

// SlackNotifSent returns the number of successful Slack sends recorded.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of failed Slack sends recorded.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
