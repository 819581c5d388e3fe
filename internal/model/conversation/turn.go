package conversation

// Role identifies the speaker of a turn.
type Role string

const (
	// RoleReporter is the employee reporting the incident.
	RoleReporter Role = "reporter"
	// RoleIntermediary is the HR partner or samaritan persona.
	RoleIntermediary Role = "intermediary"
)

// Turn is a single utterance in a session transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
