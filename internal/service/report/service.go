package report

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PetarSt98/SmartAllies/internal/model/incident"
)

var (
	ErrContextNotFound = errors.New("session context not found")
	ErrReportNotFound  = errors.New("report not found")
)

// SubmitRequest carries the finalization parameters for a new report.
type SubmitRequest struct {
	SessionID   string `json:"sessionId"`
	SubmittedBy string `json:"submittedBy"`
	Anonymous   bool   `json:"anonymous"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Service persists incident reports in memory. Every Submit call mints a
// fresh, globally unique report identifier.
type Service struct {
	contexts incident.ContextStore

	mu      sync.RWMutex
	reports map[string]*incident.Report
}

// NewService builds a report store reading snapshot data from the shared
// context store at submission time.
func NewService(contexts incident.ContextStore) *Service {
	return &Service{
		contexts: contexts,
		reports:  make(map[string]*incident.Report),
	}
}

// Submit creates a report from the session's conversation context.
func (s *Service) Submit(_ context.Context, req SubmitRequest) (incident.Report, error) {
	ictx, ok := s.contexts.GetContext(req.SessionID)
	if !ok {
		return incident.Report{}, ErrContextNotFound
	}

	submittedBy := req.SubmittedBy
	if req.Anonymous {
		submittedBy = "Anonymous"
	}

	details := make(map[string]string, len(ictx.CollectedFields))
	for k, v := range ictx.CollectedFields {
		details[k] = v
	}

	now := time.Now().UTC()
	rep := &incident.Report{
		ReportID:     uuid.NewString(),
		SessionID:    req.SessionID,
		IncidentType: ictx.IncidentType,
		Status:       incident.StatusSubmitted,
		Description:  ictx.InitialMessage,
		Details:      details,
		ImageURL:     ictx.ImageURL,
		Location:     ictx.Field("where"),
		SubmittedBy:  submittedBy,
		Anonymous:    req.Anonymous,
		SubmittedAt:  now,
		LastUpdated:  now,
	}

	s.mu.Lock()
	s.reports[rep.ReportID] = rep
	s.mu.Unlock()

	log.Printf("[report] submitted report=%s for session=%s", rep.ReportID, req.SessionID)
	return *rep, nil
}

// Get retrieves a report by identifier.
func (s *Service) Get(reportID string) (incident.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rep, ok := s.reports[reportID]
	if !ok {
		return incident.Report{}, false
	}
	return *rep, true
}

// UpdateStatus transitions a report and stamps the update time.
func (s *Service) UpdateStatus(reportID string, status incident.ReportStatus) (incident.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rep, ok := s.reports[reportID]
	if !ok {
		return incident.Report{}, ErrReportNotFound
	}

	rep.Status = status
	rep.LastUpdated = time.Now().UTC()
	return *rep, nil
}

// List returns all reports, newest first.
func (s *Service) List() []incident.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]incident.Report, 0, len(s.reports))
	for _, rep := range s.reports {
		out = append(out, *rep)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}
