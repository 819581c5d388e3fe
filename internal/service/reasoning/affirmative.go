package reasoning

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Short confirmations gate irreversible report submission, so the model's
// verdict is only trusted above this confidence in either direction.
const affirmativeConfidenceGate = 0.85

const affirmativeSystemPrompt = `You are a classifier that decides whether a short user reply is AFFIRMATIVE or NOT.

- AFFIRMATIVE means the user confirms, agrees, or wants to proceed
  (e.g. "yes", "yes, that works", "proceed", "I agree", "correct", "that's fine", "go ahead").
- NOT AFFIRMATIVE means the user disagrees, rejects, corrects, or wants a change
  (e.g. "no", "not really", "that's wrong", "I don't agree", "let's change it", "no, pick another").

You must also estimate your confidence in your classification between 0 and 1.

Respond ONLY with a JSON object in this exact format:
{
  "affirmative": true | false,
  "confidence": 0.0 - 1.0
}

Be conservative: if you are not clearly sure it is affirmative,
set "affirmative" to false and lower confidence.`

type affirmativePayload struct {
	Affirmative *bool   `json:"affirmative"`
	Confidence  float64 `json:"confidence"`
}

// IsAffirmative decides whether a free-text reply is a yes-style
// confirmation. Blank input is false without a model call. Low confidence,
// transport failure, or malformed output all defer to the keyword heuristic.
func (s *Service) IsAffirmative(ctx context.Context, reply string) bool {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return false
	}

	raw, err := s.Generate(ctx, affirmativeSystemPrompt, nil, fmt.Sprintf("User reply: %q", trimmed))
	if err != nil {
		log.Printf("[reasoning] affirmative classifier unavailable, using heuristic: %v", err)
		return affirmativeHeuristic(strings.ToLower(trimmed))
	}

	var payload affirmativePayload
	if err := ExtractJSON(raw, &payload); err != nil || payload.Affirmative == nil {
		log.Printf("[reasoning] affirmative classifier output unusable, using heuristic: %v", err)
		return affirmativeHeuristic(strings.ToLower(trimmed))
	}

	if payload.Confidence >= affirmativeConfidenceGate {
		return *payload.Affirmative
	}
	return affirmativeHeuristic(strings.ToLower(trimmed))
}

var positiveKeywords = []string{
	"yes", "yeah", "yep", "sure", "correct", "right", "agree",
	"proceed", "go ahead", "confirm", "confirmed", "alright",
	"ok", "okay", "fine", "sounds good", "that's fine", "i would like to proceed",
	"let's go", "looks good", "all good",
}

var negativeKeywords = []string{
	"no", "nope", "nah", "not really", "don't agree", "do not agree",
	"wrong", "change", "another", "different", "disagree", "stop",
	"cancel", "that's not", "isn't correct", "is not correct",
}

// affirmativeHeuristic is the deterministic last line of defense. Negative
// keywords win over positive ones; no match means not affirmative.
func affirmativeHeuristic(replyLower string) bool {
	for _, neg := range negativeKeywords {
		if strings.Contains(replyLower, neg) {
			return false
		}
	}
	for _, pos := range positiveKeywords {
		if strings.Contains(replyLower, pos) {
			return true
		}
	}
	return false
}
