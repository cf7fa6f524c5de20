package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/fdg312/meal-hub/internal/planner"
)

var (
	jsonCodeBlockRe = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	jsonLikeRe      = regexp.MustCompile(`(?s)(\{.*\})`)
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)([A-Za-z0-9_]+)(\s*:\s*)`)
)

// ExtractPlanJSON pulls a plan out of raw LLM output. Models rarely return
// clean JSON, so parsing is attempted in stages: the whole text, a ```json
// code block, the widest brace-delimited block, and finally that block with
// unquoted object keys repaired.
func ExtractPlanJSON(text string) (*planner.Plan, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("cannot extract JSON from empty text")
	}

	if plan, err := parsePlan(text); err == nil {
		return plan, nil
	}

	if m := jsonCodeBlockRe.FindStringSubmatch(text); m != nil {
		if plan, err := parsePlan(m[1]); err == nil {
			return plan, nil
		}
	}

	if m := jsonLikeRe.FindStringSubmatch(text); m != nil {
		if plan, err := parsePlan(m[1]); err == nil {
			return plan, nil
		}
		fixed := unquotedKeyRe.ReplaceAllString(m[1], `$1"$2"$3`)
		if plan, err := parsePlan(fixed); err == nil {
			return plan, nil
		}
	}

	return nil, fmt.Errorf("could not extract valid JSON from model output")
}

func parsePlan(text string) (*planner.Plan, error) {
	var plan planner.Plan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
