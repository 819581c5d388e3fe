package intermediary

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/PetarSt98/SmartAllies/internal/model/conversation"
	"github.com/PetarSt98/SmartAllies/internal/model/incident"
	"github.com/PetarSt98/SmartAllies/internal/service/report"
)

var (
	// ErrSessionNotFound means no conversation context exists for the
	// session identifier; connecting never creates one.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoActiveSession means a message arrived for a closed or unknown
	// intermediary session.
	ErrNoActiveSession = errors.New("no active session found")
)

// Reasoner is the slice of the reasoning service this package consumes.
type Reasoner interface {
	Generate(ctx context.Context, system string, history []*schema.Message, query string) (string, error)
}

// ReportSubmitter files the incident ticket at finalization. Submission is
// not idempotent: every call yields a fresh report identifier.
type ReportSubmitter interface {
	Submit(ctx context.Context, req report.SubmitRequest) (incident.Report, error)
}

// ConnectResult is returned when a reporter is connected to an intermediary.
type ConnectResult struct {
	Connected         bool   `json:"connected"`
	IntermediaryName  string `json:"intermediaryName"`
	IntermediaryImage string `json:"intermediaryImage"`
	Message           string `json:"message"`
}

// ChatResult is returned for every turn. When SessionEnded is true, Message
// is the closing utterance and TicketID carries the created report.
type ChatResult struct {
	Message           string `json:"message"`
	IntermediaryName  string `json:"intermediaryName"`
	IntermediaryImage string `json:"intermediaryImage"`
	SessionEnded      bool   `json:"sessionEnded"`
	TicketID          string `json:"ticketId,omitempty"`
}

// sessionEntry couples one session with its transcript. Its mutex serializes
// every history-mutating operation for the session, including the reasoning
// calls of a turn, so conclusion checks and finalization are atomic per
// session while unrelated sessions proceed in parallel.
type sessionEntry struct {
	mu      sync.Mutex
	session conversation.Session
	history []conversation.Turn
}

// Service owns intermediary session lifecycle for one profile: creation,
// turn dispatch, conclusion and finalization into a ticket.
type Service struct {
	profile  Profile
	contexts incident.ContextStore
	reports  ReportSubmitter
	reasoner Reasoner

	// pick selects a roster index; injectable so tests can pin personas.
	pick func(n int) int

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewService builds a session manager for the given profile.
func NewService(profile Profile, contexts incident.ContextStore, reports ReportSubmitter, reasoner Reasoner) *Service {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Service{
		profile:  profile,
		contexts: contexts,
		reports:  reports,
		reasoner: reasoner,
		pick:     rng.Intn,
		sessions: make(map[string]*sessionEntry),
	}
}

// Profile exposes the configured intermediary profile.
func (s *Service) Profile() Profile {
	return s.profile
}

// Connect assigns a random persona and opens a fresh session for the
// identifier, replacing any prior session under the same key. It requires an
// existing conversation context and never creates one.
func (s *Service) Connect(ctx context.Context, sessionID string) (ConnectResult, error) {
	ictx, ok := s.contexts.GetContext(sessionID)
	if !ok {
		return ConnectResult{}, ErrSessionNotFound
	}

	persona := s.profile.Roster[s.pick(len(s.profile.Roster))]

	sess := conversation.Session{
		SessionID:         sessionID,
		IntermediaryName:  persona.Name,
		IntermediaryImage: persona.Image,
		IntermediaryID:    uuid.NewString(),
		Active:            true,
		StartedAt:         time.Now().UTC(),
	}
	if s.profile.Kind == KindSamaritan {
		sess.EmergencyLocation = ictx.Field("location")
	}

	entry := &sessionEntry{
		session: sess,
		history: make([]conversation.Turn, 0, 16),
	}

	s.mu.Lock()
	s.sessions[sessionID] = entry
	s.mu.Unlock()

	log.Printf("[%s] connected session=%s to %s", s.profile.Kind, sessionID, persona.Name)

	return ConnectResult{
		Connected:         true,
		IntermediaryName:  persona.Name,
		IntermediaryImage: persona.Image,
		Message:           s.profile.Greeting(persona.Name, ictx),
	}, nil
}

// SendMessage runs one conversational turn: append the reporter's text,
// generate the intermediary reply, evaluate conclusion, and finalize when
// the conversation has reached its natural end.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string) (ChatResult, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return ChatResult{}, ErrNoActiveSession
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.session.Active {
		return ChatResult{}, ErrNoActiveSession
	}

	ictx, ok := s.contexts.GetContext(sessionID)
	if !ok {
		return ChatResult{}, ErrNoActiveSession
	}

	entry.history = append(entry.history, conversation.Turn{Role: conversation.RoleReporter, Content: text})

	reply, err := s.generateReply(ctx, ictx, &entry.session, entry.history, text)
	if err != nil {
		// No safe fallback utterance exists for the turn itself; the error
		// propagates and the caller may retry the turn.
		return ChatResult{}, fmt.Errorf("failed to generate reply for session %s: %w", sessionID, err)
	}
	entry.history = append(entry.history, conversation.Turn{Role: conversation.RoleIntermediary, Content: reply})

	if s.detectConclusion(ctx, sessionID, entry.history, reply) {
		return s.finalize(ctx, ictx, entry)
	}

	return ChatResult{
		Message:           reply,
		IntermediaryName:  entry.session.IntermediaryName,
		IntermediaryImage: entry.session.IntermediaryImage,
		SessionEnded:      false,
	}, nil
}

// finalize files the ticket and closes the session. The caller holds the
// entry lock and has verified the active flag, so this runs at most once per
// session: the session goes inactive in the same step the ticket id lands,
// leaving no window with one but not the other.
func (s *Service) finalize(ctx context.Context, ictx *incident.Context, entry *sessionEntry) (ChatResult, error) {
	rep, err := s.reports.Submit(ctx, report.SubmitRequest{
		SessionID:   entry.session.SessionID,
		SubmittedBy: s.profile.SubmitterLabel,
		Anonymous:   true,
	})
	if err != nil {
		// Session stays active; a later turn re-evaluates conclusion and
		// retries submission.
		return ChatResult{}, fmt.Errorf("failed to submit report for session %s: %w", entry.session.SessionID, err)
	}

	now := time.Now().UTC()
	entry.session.Active = false
	entry.session.EndedAt = &now
	entry.session.TicketID = rep.ReportID

	ictx.WorkflowState = s.profile.TerminalState
	ictx.UpdateField("ticketId", rep.ReportID)
	s.contexts.UpdateContext(ictx)

	log.Printf("[%s] session=%s concluded, ticket=%s", s.profile.Kind, entry.session.SessionID, rep.ReportID)

	return ChatResult{
		Message:           s.profile.ClosingMessage(rep.ReportID, entry.session.EmergencyLocation),
		IntermediaryName:  entry.session.IntermediaryName,
		IntermediaryImage: entry.session.IntermediaryImage,
		SessionEnded:      true,
		TicketID:          rep.ReportID,
	}, nil
}

// GetSession returns a copy of the session for the identifier, closed
// sessions included. It has no side effects.
func (s *Service) GetSession(sessionID string) (conversation.Session, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return conversation.Session{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session, true
}

// Transcript returns a copy of the session's turns for audit surfaces.
func (s *Service) Transcript(sessionID string) ([]conversation.Turn, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	copied := make([]conversation.Turn, len(entry.history))
	copy(copied, entry.history)
	return copied, true
}
