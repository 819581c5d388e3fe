package intermediary

import (
	"context"
	"strings"

	"github.com/PetarSt98/SmartAllies/internal/model/conversation"
	"github.com/PetarSt98/SmartAllies/internal/model/incident"
)

// generateReply produces the next intermediary utterance. The prior
// transcript (excluding the just-appended reporter turn) is serialized into
// the system framing; the latest reporter text is the user turn.
func (s *Service) generateReply(ctx context.Context, ictx *incident.Context, sess *conversation.Session, history []conversation.Turn, userMessage string) (string, error) {
	system := s.profile.SystemPrompt(sess, ictx, s.profile.formatTranscript(history))

	raw, err := s.reasoner.Generate(ctx, system, nil, userMessage)
	if err != nil {
		return "", err
	}

	return sanitizeReply(raw, s.profile.ReplyMarkers), nil
}

// sanitizeReply truncates at the first marker showing the model began
// fabricating the reporting party's turn. Without this cut, hallucinated
// dialogue leaks into the user-visible transcript.
func sanitizeReply(reply string, markers []string) string {
	cut := -1
	for _, marker := range markers {
		if idx := strings.Index(reply, marker); idx != -1 && (cut == -1 || idx < cut) {
			cut = idx
		}
	}
	if cut != -1 {
		reply = reply[:cut]
	}
	return strings.TrimSpace(reply)
}
