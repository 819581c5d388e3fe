package reasoning

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ExtractJSON locates the outermost JSON object in raw model output and
// unmarshals it into v, tolerating commentary the model may emit around the
// object. If strict parsing fails, one repair pass runs before giving up
// with ErrMalformedOutput.
func ExtractJSON(raw string, v any) error {
	trimmed := strings.TrimSpace(raw)

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("%w: no json object in output", ErrMalformedOutput)
	}
	span := trimmed[start : end+1]

	if err := json.Unmarshal([]byte(span), v); err == nil {
		return nil
	}

	if err := json.Unmarshal([]byte(RepairJSON(span)), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

var (
	// Two quoted properties split across lines with the comma dropped.
	missingCommaPattern = regexp.MustCompile(`"(\s*\n\s*)"`)
	// A bare null value running straight into the next property.
	bareNullPattern = regexp.MustCompile(`\bnull(\s*\n\s*)"`)
)

// RepairJSON applies the known malformations the model produces in object
// output. It is a pure text transform; parsing is retried by the caller.
func RepairJSON(s string) string {
	s = missingCommaPattern.ReplaceAllString(s, `",$1"`)
	s = bareNullPattern.ReplaceAllString(s, `null,$1"`)
	return s
}
