package intermediary

import (
	"strings"

	"github.com/PetarSt98/SmartAllies/internal/model/conversation"
	"github.com/PetarSt98/SmartAllies/internal/model/incident"
)

// Kind selects the intermediary specialization.
type Kind string

const (
	KindHR        Kind = "hr"
	KindSamaritan Kind = "samaritan"
)

// Persona is one roster entry the reporter can be connected to.
type Persona struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Profile parameterizes the session manager per intermediary kind: roster,
// transcript labels, conclusion rubric, fallback threshold and the terminal
// workflow state written at finalization. Both specializations share one
// Service implementation driven by their Profile.
type Profile struct {
	Kind   Kind
	Roster []Persona

	// Labels used when serializing turns into prompts.
	ReporterLabel string
	AgentLabel    string
	// Markers indicating the model started impersonating the reporting
	// party; replies are truncated at the first occurrence.
	ReplyMarkers []string

	SubmitterLabel string
	TerminalState  incident.WorkflowState

	// ConclusionKey is the boolean field name expected in the detector's
	// JSON verdict.
	ConclusionKey string
	// DetectionFloor is the minimum history length before the detector runs.
	DetectionFloor int
	// DetectionWindow bounds how many trailing turns go into the prompt.
	DetectionWindow int
	// FallbackThreshold is the history length at which the deterministic
	// fallback concludes the session when the detector is unavailable.
	FallbackThreshold int
}

// HRProfile configures the human-resources intermediary.
func HRProfile() Profile {
	return Profile{
		Kind: KindHR,
		Roster: []Persona{
			{Name: "Sarah Mitchell", Image: "https://i.pravatar.cc/150?img=1"},
			{Name: "Michael Chen", Image: "https://i.pravatar.cc/150?img=12"},
			{Name: "Emily Rodriguez", Image: "https://i.pravatar.cc/150?img=5"},
			{Name: "David Kim", Image: "https://i.pravatar.cc/150?img=8"},
		},
		ReporterLabel:     "User",
		AgentLabel:        "HR",
		ReplyMarkers:      []string{"User:", "\nUser"},
		SubmitterLabel:    "Anonymous Employee",
		TerminalState:     incident.StateReportReady,
		ConclusionKey:     "concluded",
		DetectionFloor:    4,
		DetectionWindow:   8,
		FallbackThreshold: 12,
	}
}

// SamaritanProfile configures the emergency-response intermediary. The
// fallback threshold is higher: an emergency dialogue should not end on a
// turn count alone without more exchanges behind it.
func SamaritanProfile() Profile {
	return Profile{
		Kind: KindSamaritan,
		Roster: []Persona{
			{Name: "James Anderson", Image: "https://i.pravatar.cc/150?img=15"},
			{Name: "Lisa Thompson", Image: "https://i.pravatar.cc/150?img=9"},
			{Name: "Robert Martinez", Image: "https://i.pravatar.cc/150?img=13"},
			{Name: "Anna Williams", Image: "https://i.pravatar.cc/150?img=20"},
		},
		ReporterLabel:     "Reporter",
		AgentLabel:        "Samaritan",
		ReplyMarkers:      []string{"Reporter:", "User:"},
		SubmitterLabel:    "Emergency Response System",
		TerminalState:     incident.StateAlertSent,
		ConclusionKey:     "resolved",
		DetectionFloor:    1,
		DetectionWindow:   10,
		FallbackThreshold: 16,
	}
}

// formatTranscript renders turns as labelled lines for prompt embedding.
func (p Profile) formatTranscript(history []conversation.Turn) string {
	var b strings.Builder
	for i, turn := range history {
		label := p.ReporterLabel
		if turn.Role == conversation.RoleIntermediary {
			label = p.AgentLabel
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		if i < len(history)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// transcriptWindow renders only the trailing DetectionWindow turns.
func (p Profile) transcriptWindow(history []conversation.Turn) string {
	start := len(history) - p.DetectionWindow
	if start < 0 {
		start = 0
	}
	return p.formatTranscript(history[start:])
}

func lastReporterMessage(history []conversation.Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == conversation.RoleReporter {
			return strings.ToLower(strings.TrimSpace(history[i].Content))
		}
	}
	return ""
}
