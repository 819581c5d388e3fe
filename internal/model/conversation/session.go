package conversation

import "time"

// Session captures one live intermediary conversation for a session
// identifier. Closed sessions stay queryable; they are never deleted.
type Session struct {
	SessionID         string     `json:"sessionId"`
	IntermediaryName  string     `json:"intermediaryName"`
	IntermediaryImage string     `json:"intermediaryImage"`
	IntermediaryID    string     `json:"intermediaryId"`
	Active            bool       `json:"active"`
	StartedAt         time.Time  `json:"startedAt"`
	EndedAt           *time.Time `json:"endedAt,omitempty"`
	TicketID          string     `json:"ticketId,omitempty"`
	EmergencyLocation string     `json:"emergencyLocation,omitempty"`
}
