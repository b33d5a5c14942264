package interpret

import (
	"encoding/json"
	"fmt"
)

// Field aliases accepted across validator versions, newest spelling first.
// All schema tolerance lives here; the engine reads only the normalized Report.
var (
	successAliases = []string{"success", "valid"}
	scoringAliases = []string{"scoringResult", "scoring"}
	scoreAliases   = []string{"total", "score"}
)

// Report is the normalized validator result.
type Report struct {
	Success  bool
	Errors   []string
	Warnings []string
	Scoring  *Scoring
}

// Scoring holds the validator's score block when scoring was requested.
type Scoring struct {
	Compliance      Dimension
	Trust           Dimension
	Availability    *Dimension
	ProductionReady bool
}

// Dimension is a single 0-100 score with its letter rating.
type Dimension struct {
	Value  float64
	Rating string
}

// parseDocument decodes stdout into a JSON object. Non-object documents are
// rejected the same way as unparseable ones.
func parseDocument(stdout string) (map[string]any, error) {
	var doc any
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		return nil, err
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("validator output is %T, not an object", doc)
	}
	return obj, nil
}

// normalize resolves field aliases and coerces loosely-typed fields.
func normalize(doc map[string]any) Report {
	rep := Report{
		Success:  boolField(doc, successAliases),
		Errors:   findingMessages(doc["errors"]),
		Warnings: findingMessages(doc["warnings"]),
	}

	for _, key := range scoringAliases {
		if block, ok := doc[key].(map[string]any); ok {
			rep.Scoring = normalizeScoring(block)
			break
		}
	}
	return rep
}

func normalizeScoring(block map[string]any) *Scoring {
	s := &Scoring{}
	if d, ok := dimension(block["compliance"]); ok {
		s.Compliance = d
	}
	if d, ok := dimension(block["trust"]); ok {
		s.Trust = d
	}
	if d, ok := dimension(block["availability"]); ok {
		s.Availability = &d
	}
	if b, ok := block["productionReady"].(bool); ok {
		s.ProductionReady = b
	}
	return s
}

// boolField returns the first alias carrying a recognized boolean, tolerating
// the value arriving as a JSON string. An alias of unrecognized shape is
// skipped so a legacy spelling can still decide.
func boolField(doc map[string]any, aliases []string) bool {
	for _, key := range aliases {
		switch v := doc[key].(type) {
		case bool:
			return v
		case string:
			return v == "true"
		}
	}
	return false
}

// findingMessages coerces a findings field to a list of messages: a missing
// field is empty, a single value becomes a one-element list, a bare string
// entry is its own message, and anything unrecognized is rendered verbatim
// rather than dropped.
func findingMessages(raw any) []string {
	if raw == nil {
		return nil
	}
	entries, ok := raw.([]any)
	if !ok {
		entries = []any{raw}
	}
	msgs := make([]string, 0, len(entries))
	for _, entry := range entries {
		msgs = append(msgs, findingMessage(entry))
	}
	return msgs
}

func findingMessage(entry any) string {
	switch v := entry.(type) {
	case string:
		return v
	case map[string]any:
		if m, ok := v["message"].(string); ok {
			return m
		}
	}
	return fmt.Sprintf("%v", entry)
}

// dimension reads a score dimension, resolving the numeric field name across
// schema versions. A null or non-object dimension counts as absent.
func dimension(raw any) (Dimension, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Dimension{}, false
	}
	d := Dimension{}
	for _, key := range scoreAliases {
		if n, ok := m[key].(float64); ok {
			d.Value = n
			break
		}
	}
	if r, ok := m["rating"].(string); ok {
		d.Rating = r
	}
	return d, true
}
