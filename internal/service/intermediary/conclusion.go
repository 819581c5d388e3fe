package intermediary

import (
	"context"
	"log"

	"github.com/PetarSt98/SmartAllies/internal/model/conversation"
	"github.com/PetarSt98/SmartAllies/internal/service/reasoning"
)

// detectConclusion decides whether the intermediary's objective has been met
// for this session. The verdict comes from the reasoning service as strict
// JSON; if the call fails or the output cannot be parsed even after repair,
// a turn-count fallback applies so no session runs unbounded. The fallback
// never raises.
func (s *Service) detectConclusion(ctx context.Context, sessionID string, history []conversation.Turn, latestReply string) bool {
	if len(history) < s.profile.DetectionFloor {
		return false
	}

	prompt := s.profile.DetectionPrompt(
		s.profile.transcriptWindow(history),
		lastReporterMessage(history),
		latestReply,
	)

	raw, err := s.reasoner.Generate(ctx, prompt, nil, "Analyze the conversation and respond with the JSON object.")
	if err != nil {
		log.Printf("[%s] conclusion detection unavailable for session=%s, using turn-count fallback: %v", s.profile.Kind, sessionID, err)
		return len(history) >= s.profile.FallbackThreshold
	}

	var result map[string]any
	if err := reasoning.ExtractJSON(raw, &result); err != nil {
		log.Printf("[%s] conclusion verdict unparseable for session=%s, using turn-count fallback: %v", s.profile.Kind, sessionID, err)
		return len(history) >= s.profile.FallbackThreshold
	}

	verdict, ok := result[s.profile.ConclusionKey].(bool)
	if !ok {
		log.Printf("[%s] conclusion verdict missing %q for session=%s, using turn-count fallback", s.profile.Kind, s.profile.ConclusionKey, sessionID)
		return len(history) >= s.profile.FallbackThreshold
	}

	reason, _ := result["reasoning"].(string)
	log.Printf("[%s] conclusion for session=%s: %t - %s", s.profile.Kind, sessionID, verdict, reason)
	return verdict
}
