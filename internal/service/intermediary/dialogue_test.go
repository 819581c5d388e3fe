package intermediary

import (
	"testing"

	"github.com/PetarSt98/SmartAllies/internal/model/conversation"
)

func TestSanitizeReply(t *testing.T) {
	hrMarkers := HRProfile().ReplyMarkers

	cases := []struct {
		name    string
		reply   string
		markers []string
		want    string
	}{
		{
			name:    "no marker",
			reply:   "  Thank you for sharing that.  ",
			markers: hrMarkers,
			want:    "Thank you for sharing that.",
		},
		{
			name:    "truncates fabricated user turn",
			reply:   "I understand. User: and then he shouted",
			markers: hrMarkers,
			want:    "I understand.",
		},
		{
			name:    "newline marker wins when earlier",
			reply:   "Noted.\nUser said more things User: again",
			markers: hrMarkers,
			want:    "Noted.",
		},
		{
			name:    "marker at start leaves nothing",
			reply:   "User: I am fine",
			markers: hrMarkers,
			want:    "",
		},
		{
			name:    "samaritan reporter marker",
			reply:   "Stay calm, help is coming. Reporter: ok",
			markers: SamaritanProfile().ReplyMarkers,
			want:    "Stay calm, help is coming.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeReply(tc.reply, tc.markers); got != tc.want {
				t.Fatalf("sanitizeReply(%q) = %q, want %q", tc.reply, got, tc.want)
			}
		})
	}
}

func TestFormatTranscript(t *testing.T) {
	history := []conversation.Turn{
		{Role: conversation.RoleReporter, Content: "something happened"},
		{Role: conversation.RoleIntermediary, Content: "tell me more"},
	}

	got := HRProfile().formatTranscript(history)
	want := "User: something happened\nHR: tell me more"
	if got != want {
		t.Fatalf("formatTranscript = %q, want %q", got, want)
	}
}

func TestTranscriptWindowBoundsHistory(t *testing.T) {
	profile := HRProfile()
	history := make([]conversation.Turn, 0, 12)
	for i := 0; i < 6; i++ {
		history = append(history,
			conversation.Turn{Role: conversation.RoleReporter, Content: "detail"},
			conversation.Turn{Role: conversation.RoleIntermediary, Content: "noted"},
		)
	}

	// Twelve turns, window of eight: only the trailing eight lines survive.
	got := profile.transcriptWindow(history)
	lines := 1
	for _, r := range got {
		if r == '\n' {
			lines++
		}
	}
	if lines != profile.DetectionWindow {
		t.Fatalf("expected %d lines, got %d:\n%s", profile.DetectionWindow, lines, got)
	}
}

func TestLastReporterMessage(t *testing.T) {
	history := []conversation.Turn{
		{Role: conversation.RoleReporter, Content: "First Thing"},
		{Role: conversation.RoleIntermediary, Content: "go on"},
		{Role: conversation.RoleReporter, Content: "  That's Everything  "},
		{Role: conversation.RoleIntermediary, Content: "thanks"},
	}

	if got := lastReporterMessage(history); got != "that's everything" {
		t.Fatalf("lastReporterMessage = %q", got)
	}
	if got := lastReporterMessage(nil); got != "" {
		t.Fatalf("expected empty for no history, got %q", got)
	}
}
