package incident

import "sync"

// WorkflowState tracks intake progress on a conversation context. The full
// transition set is owned by the intake workflow; this service only writes
// StateReportReady and StateAlertSent, and treats unknown members as opaque.
type WorkflowState string

const (
	StateGreeting          WorkflowState = "GREETING"
	StateCollectingDetails WorkflowState = "COLLECTING_DETAILS"
	StateReportReady       WorkflowState = "REPORT_READY"
	StateAlertSent         WorkflowState = "ALERT_SENT"
)

// Type classifies the reported incident.
type Type string

const (
	TypeHuman     Type = "HUMAN"
	TypeFacility  Type = "FACILITY"
	TypeEmergency Type = "EMERGENCY"
)

// Context carries the shared per-session intake state. It is created by the
// intake workflow before any intermediary session exists; intermediary
// services only read and mutate it.
type Context struct {
	SessionID       string            `json:"sessionId"`
	InitialMessage  string            `json:"initialMessage"`
	IncidentType    Type              `json:"incidentType"`
	CollectedFields map[string]string `json:"collectedFields"`
	ImageURL        string            `json:"imageUrl,omitempty"`
	WorkflowState   WorkflowState     `json:"workflowState"`
}

// Field returns a collected field value, or "" when absent.
func (c *Context) Field(name string) string {
	if c == nil || c.CollectedFields == nil {
		return ""
	}
	return c.CollectedFields[name]
}

// UpdateField records a collected field value.
func (c *Context) UpdateField(name, value string) {
	if c.CollectedFields == nil {
		c.CollectedFields = make(map[string]string)
	}
	c.CollectedFields[name] = value
}

// ContextStore exposes conversation context persistence for services.
type ContextStore interface {
	GetContext(sessionID string) (*Context, bool)
	UpdateContext(ctx *Context)
}

// MemoryContextStore implements ContextStore with a mutex-guarded map,
// suitable for a single-instance deployment.
type MemoryContextStore struct {
	mu       sync.RWMutex
	contexts map[string]*Context
}

// NewMemoryContextStore returns an empty context store.
func NewMemoryContextStore() *MemoryContextStore {
	return &MemoryContextStore{contexts: make(map[string]*Context)}
}

// GetContext looks up a context by session identifier.
func (s *MemoryContextStore) GetContext(sessionID string) (*Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.contexts[sessionID]
	return ctx, ok
}

// UpdateContext stores or replaces a context keyed by its session identifier.
func (s *MemoryContextStore) UpdateContext(ctx *Context) {
	if ctx == nil || ctx.SessionID == "" {
		return
	}
	s.mu.Lock()
	s.contexts[ctx.SessionID] = ctx
	s.mu.Unlock()
}
