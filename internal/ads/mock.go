package ads

import (
	"context"
	"sync"
)

// FetchCall records one MockInventory request.
type FetchCall struct {
	Kind      Kind
	Placement Placement
}

// MockInventory is a test double for Inventory.
type MockInventory struct {
	mu        sync.Mutex
	creatives map[Kind]*Creative
	err       error
	calls     []FetchCall
}

// NewMockInventory creates an inventory with no creatives.
func NewMockInventory() *MockInventory {
	return &MockInventory{creatives: make(map[Kind]*Creative)}
}

func (m *MockInventory) FetchCreative(_ context.Context, kind Kind, placement Placement) (*Creative, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, FetchCall{Kind: kind, Placement: placement})
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.creatives[kind]
	if !ok || c == nil {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// Test helpers

// SetCreative makes every fetch of kind return a copy of c.
func (m *MockInventory) SetCreative(kind Kind, c *Creative) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creatives[kind] = c
}

func (m *MockInventory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockInventory) Calls() []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchCall(nil), m.calls...)
}

// CallCount returns the number of fetches for kind.
func (m *MockInventory) CallCount(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Verify MockInventory implements Inventory at compile time.
var _ Inventory = (*MockInventory)(nil)
