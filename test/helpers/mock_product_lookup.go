package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/warelog/handheld-go/internal/domain/catalog"
)

// MockProductLookup is a test double for the ProductLookup interface
type MockProductLookup struct {
	mu       sync.RWMutex
	products map[string]*catalog.Product // article -> product

	// Error injection
	shouldError bool
	errorMsg    string

	// Lookup gating, see HoldLookups
	gateStarted chan struct{}
	gateRelease chan struct{}

	// Call tracking
	LookupCount int
}

// NewMockProductLookup creates a new mock product lookup
func NewMockProductLookup() *MockProductLookup {
	return &MockProductLookup{
		products: make(map[string]*catalog.Product),
	}
}

// AddProduct adds a product to the catalog
func (m *MockProductLookup) AddProduct(p *catalog.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.Article] = p
}

// SetError makes every subsequent lookup fail with the given message
func (m *MockProductLookup) SetError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldError = true
	m.errorMsg = msg
}

// HoldLookups makes each subsequent lookup announce itself on started and
// then block until release is closed, letting a test keep a resolution in
// flight while it drives other events.
func (m *MockProductLookup) HoldLookups() (started <-chan struct{}, release chan<- struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gateStarted = make(chan struct{}, 8)
	m.gateRelease = make(chan struct{})
	return m.gateStarted, m.gateRelease
}

// FindByBarcode finds a product by barcode or article number
func (m *MockProductLookup) FindByBarcode(ctx context.Context, code string) (*catalog.Product, error) {
	m.mu.Lock()
	m.LookupCount++
	shouldError, errorMsg := m.shouldError, m.errorMsg
	var found *catalog.Product
	for _, p := range m.products {
		if p.HasBarcode(code) || p.Article == code {
			found = p
			break
		}
	}
	started, release := m.gateStarted, m.gateRelease
	m.mu.Unlock()

	m.waitGate(started, release)

	if shouldError {
		return nil, fmt.Errorf("%s", errorMsg)
	}
	return found, nil
}

// FindByArticle finds a product by article number
func (m *MockProductLookup) FindByArticle(ctx context.Context, article string) (*catalog.Product, error) {
	m.mu.Lock()
	m.LookupCount++
	shouldError, errorMsg := m.shouldError, m.errorMsg
	found := m.products[article]
	started, release := m.gateStarted, m.gateRelease
	m.mu.Unlock()

	m.waitGate(started, release)

	if shouldError {
		return nil, fmt.Errorf("%s", errorMsg)
	}
	return found, nil
}

func (m *MockProductLookup) waitGate(started, release chan struct{}) {
	if started == nil {
		return
	}
	started <- struct{}{}
	<-release
}
