package helpers

import (
	"context"
	"fmt"
	"sync"

	appwizard "github.com/warelog/handheld-go/internal/application/wizard"
	"github.com/warelog/handheld-go/internal/domain/task"
	"github.com/warelog/handheld-go/internal/domain/wizard"
)

// MockRemoteSubmitter is a test double for the RemoteSubmitter port
type MockRemoteSubmitter struct {
	mu sync.Mutex

	// Snapshot returned on success; nil means echo nothing back
	Snapshot *task.Task

	// FailWith is returned verbatim as the submission error
	FailWith string

	SubmitCount   int
	LastEndpoint  string
	SubmittedFact *task.FactRecord
}

// NewMockRemoteSubmitter creates a new mock submitter
func NewMockRemoteSubmitter() *MockRemoteSubmitter {
	return &MockRemoteSubmitter{}
}

// Submit records the call and returns the configured snapshot or failure
func (m *MockRemoteSubmitter) Submit(ctx context.Context, endpoint string, record *task.FactRecord) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SubmitCount++
	m.LastEndpoint = endpoint
	m.SubmittedFact = record

	if m.FailWith != "" {
		return nil, fmt.Errorf("%s", m.FailWith)
	}
	return m.Snapshot, nil
}

// MockCommandClient is a test double for the CommandClient port
type MockCommandClient struct {
	mu sync.Mutex

	// Response returned on every Execute call
	Response *appwizard.CommandResponse

	// FailWith makes Execute return an error instead
	FailWith string

	ExecuteCount int
	LastRequest  appwizard.CommandRequest
}

// NewMockCommandClient creates a new mock command client
func NewMockCommandClient() *MockCommandClient {
	return &MockCommandClient{}
}

// Execute records the call and returns the configured response
func (m *MockCommandClient) Execute(ctx context.Context, endpoint string, req appwizard.CommandRequest) (*appwizard.CommandResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExecuteCount++
	m.LastRequest = req

	if m.FailWith != "" {
		return nil, fmt.Errorf("%s", m.FailWith)
	}
	if m.Response != nil {
		return m.Response, nil
	}
	return &appwizard.CommandResponse{Success: true, NextAction: appwizard.DirectiveNone}, nil
}

// MockTemplateRepository is a test double for the TemplateRepository port
type MockTemplateRepository struct {
	mu        sync.RWMutex
	templates map[string]*wizard.ActionTemplate
}

// NewMockTemplateRepository creates a new mock template repository
func NewMockTemplateRepository() *MockTemplateRepository {
	return &MockTemplateRepository{
		templates: make(map[string]*wizard.ActionTemplate),
	}
}

// AddTemplate registers a template under its code
func (m *MockTemplateRepository) AddTemplate(t *wizard.ActionTemplate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.Code] = t
}

// FindByCode retrieves a template by code
func (m *MockTemplateRepository) FindByCode(ctx context.Context, code string) (*wizard.ActionTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.templates[code]
	if !ok {
		return nil, fmt.Errorf("action template not found: %s", code)
	}
	return t, nil
}
