package reasoning_test

import (
	"errors"
	"testing"

	"github.com/PetarSt98/SmartAllies/internal/service/reasoning"
)

func TestExtractJSONWithSurroundingCommentary(t *testing.T) {
	raw := "Sure! Here is my analysis:\n{\"concluded\": true, \"reasoning\": \"user said thanks\"}\nLet me know if you need more."

	var result struct {
		Concluded bool   `json:"concluded"`
		Reasoning string `json:"reasoning"`
	}
	if err := reasoning.ExtractJSON(raw, &result); err != nil {
		t.Fatalf("ExtractJSON err: %v", err)
	}
	if !result.Concluded {
		t.Fatal("expected concluded=true")
	}
	if result.Reasoning != "user said thanks" {
		t.Fatalf("unexpected reasoning: %q", result.Reasoning)
	}
}

func TestExtractJSONRepairsMissingComma(t *testing.T) {
	broken := "{\n  \"affirmative\": \"yes\"\n  \"confidence\": \"high\"\n}"
	fixed := "{\n  \"affirmative\": \"yes\",\n  \"confidence\": \"high\"\n}"

	var fromBroken, fromFixed map[string]any
	if err := reasoning.ExtractJSON(broken, &fromBroken); err != nil {
		t.Fatalf("ExtractJSON on broken input err: %v", err)
	}
	if err := reasoning.ExtractJSON(fixed, &fromFixed); err != nil {
		t.Fatalf("ExtractJSON on fixed input err: %v", err)
	}

	if len(fromBroken) != len(fromFixed) {
		t.Fatalf("repaired value diverges: %v vs %v", fromBroken, fromFixed)
	}
	for k, v := range fromFixed {
		if fromBroken[k] != v {
			t.Fatalf("repaired value diverges at %q: %v vs %v", k, fromBroken[k], v)
		}
	}
}

func TestExtractJSONRepairsBareNull(t *testing.T) {
	broken := "{\n  \"what\": null\n  \"where\": \"kitchen\"\n}"

	var result map[string]any
	if err := reasoning.ExtractJSON(broken, &result); err != nil {
		t.Fatalf("ExtractJSON err: %v", err)
	}
	if result["what"] != nil {
		t.Fatalf("expected null what, got %v", result["what"])
	}
	if result["where"] != "kitchen" {
		t.Fatalf("unexpected where: %v", result["where"])
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	var result map[string]any
	err := reasoning.ExtractJSON("the conversation should continue", &result)
	if !errors.Is(err, reasoning.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestExtractJSONUnrepairable(t *testing.T) {
	var result map[string]any
	err := reasoning.ExtractJSON("{\"concluded\": maybe}", &result)
	if !errors.Is(err, reasoning.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestRepairJSONLeavesValidInputAlone(t *testing.T) {
	valid := "{\"a\": \"x\", \"b\": \"y\"}"
	if got := reasoning.RepairJSON(valid); got != valid {
		t.Fatalf("valid JSON was rewritten: %q", got)
	}
}
