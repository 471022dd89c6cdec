package telemetry

import (
	"context"
	"fmt"
	"sync"
)

// MockClient records events in memory for tests.
type MockClient struct {
	mu          sync.Mutex
	impressions []ImpressionEvent
	clicks      []ClickEvent
	completions []CompletionEvent
	analytics   []AnalyticsEvent
	err         error
	hold        chan struct{}
	nextID      int
}

// NewMockClient creates an empty mock telemetry client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) RecordImpression(_ context.Context, ev ImpressionEvent) (string, error) {
	m.mu.Lock()
	hold := m.hold
	m.mu.Unlock()
	if hold != nil {
		<-hold
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.impressions = append(m.impressions, ev)
	if m.err != nil {
		return "", m.err
	}
	m.nextID++
	return fmt.Sprintf("imp-%d", m.nextID), nil
}

func (m *MockClient) RecordClick(_ context.Context, ev ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = append(m.clicks, ev)
	return m.err
}

func (m *MockClient) RecordCompletion(_ context.Context, ev CompletionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions = append(m.completions, ev)
	return m.err
}

func (m *MockClient) RecordAnalytics(_ context.Context, ev AnalyticsEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analytics = append(m.analytics, ev)
	return m.err
}

// Test helpers

// SetError makes every call fail with err.
func (m *MockClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// HoldImpressions blocks impression calls until the returned func is called.
func (m *MockClient) HoldImpressions() (release func()) {
	ch := make(chan struct{})
	m.mu.Lock()
	m.hold = ch
	m.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			m.hold = nil
			m.mu.Unlock()
			close(ch)
		})
	}
}

func (m *MockClient) Impressions() []ImpressionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ImpressionEvent(nil), m.impressions...)
}

func (m *MockClient) Clicks() []ClickEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ClickEvent(nil), m.clicks...)
}

func (m *MockClient) Completions() []CompletionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CompletionEvent(nil), m.completions...)
}

func (m *MockClient) Analytics() []AnalyticsEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AnalyticsEvent(nil), m.analytics...)
}

// Actions returns the analytics actions in arrival order. Concurrent
// sends may arrive in any order.
func (m *MockClient) Actions() []Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Action, len(m.analytics))
	for i, ev := range m.analytics {
		out[i] = ev.Action
	}
	return out
}

// Verify MockClient implements Client at compile time.
var _ Client = (*MockClient)(nil)
