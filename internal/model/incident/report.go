package incident

import "time"

// ReportStatus follows the ticket through review.
type ReportStatus string

const (
	StatusSubmitted  ReportStatus = "SUBMITTED"
	StatusInReview   ReportStatus = "IN_REVIEW"
	StatusInProgress ReportStatus = "IN_PROGRESS"
	StatusResolved   ReportStatus = "RESOLVED"
	StatusClosed     ReportStatus = "CLOSED"
)

// Report is the persisted ticket created when an intermediary session ends.
type Report struct {
	ReportID     string            `json:"reportId"`
	SessionID    string            `json:"sessionId"`
	IncidentType Type              `json:"incidentType"`
	Status       ReportStatus      `json:"status"`
	Description  string            `json:"description"`
	Details      map[string]string `json:"details"`
	ImageURL     string            `json:"imageUrl,omitempty"`
	Location     string            `json:"location,omitempty"`
	SubmittedBy  string            `json:"submittedBy"`
	Anonymous    bool              `json:"anonymous"`
	SubmittedAt  time.Time         `json:"submittedAt"`
	LastUpdated  time.Time         `json:"lastUpdated"`
}
