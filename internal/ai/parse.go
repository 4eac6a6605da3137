package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// todoRanking is one entry of the model's prioritization response. The
// model keys rankings by todo title, not id, despite the field name.
type todoRanking struct {
	ID         string `json:"id"`
	AIPriority int    `json:"aiPriority"`
	AIReason   string `json:"aiReason"`
}

// parseRankings extracts the JSON array from a model response. Models
// wrap JSON in markdown fences or surround it with prose often enough
// that plain unmarshaling is not sufficient.
func parseRankings(content string) ([]todoRanking, error) {
	var rankings []todoRanking
	if err := json.Unmarshal([]byte(content), &rankings); err == nil {
		return rankings, nil
	}

	text := strings.TrimSpace(content)
	if block, ok := fencedBlock(text); ok {
		text = block
	}
	if start := strings.Index(text, "["); start >= 0 {
		if end := strings.LastIndex(text, "]"); end > start {
			text = text[start : end+1]
		}
	}

	if err := json.Unmarshal([]byte(text), &rankings); err != nil {
		return nil, fmt.Errorf("parse rankings: %w", err)
	}
	return rankings, nil
}

// fencedBlock returns the contents of the first ``` fenced block,
// skipping the info string on the opening fence.
func fencedBlock(s string) (string, bool) {
	start := strings.Index(s, "```")
	if start < 0 {
		return "", false
	}
	rest := s[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}
