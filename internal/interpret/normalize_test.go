package interpret

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, doc string) map[string]any {
	t.Helper()
	m, err := parseDocument(doc)
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}
	return m
}

func TestSuccessAliasResolution(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want bool
	}{
		{"modern", `{"success": true}`, true},
		{"legacy", `{"valid": true}`, true},
		{"modern wins over legacy", `{"success": false, "valid": true}`, false},
		{"string spelling", `{"success": "true"}`, true},
		{"absent", `{}`, false},
		{"unexpected shape", `{"success": 1}`, false},
		{"legacy rescues unrecognized shape", `{"success": 1, "valid": true}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := normalize(mustParse(t, tc.doc))
			if rep.Success != tc.want {
				t.Errorf("Success = %t, want %t", rep.Success, tc.want)
			}
		})
	}
}

func TestFindingCoercion(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want []string
	}{
		{"missing", `{}`, nil},
		{"objects", `{"errors": [{"message":"a"},{"message":"b"}]}`, []string{"a", "b"}},
		{"bare strings", `{"errors": ["a", "b"]}`, []string{"a", "b"}},
		{"single non-array", `{"errors": {"message":"only"}}`, []string{"only"}},
		{"single bare string", `{"errors": "only"}`, []string{"only"}},
		{"object without message", `{"errors": [{"code": 7}]}`, []string{"map[code:7]"}},
		{"extra fields ignored", `{"errors": [{"message":"a","severity":"high"}]}`, []string{"a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := normalize(mustParse(t, tc.doc))
			if diff := cmp.Diff(tc.want, rep.Errors); diff != "" {
				t.Errorf("Errors mismatch:\n%s", diff)
			}
		})
	}
}

func TestScoringBlockAliases(t *testing.T) {
	modern := normalize(mustParse(t, `{"scoringResult": {"compliance": {"total": 90}}}`))
	if modern.Scoring == nil || modern.Scoring.Compliance.Value != 90 {
		t.Fatalf("scoringResult block not resolved: %+v", modern.Scoring)
	}

	legacy := normalize(mustParse(t, `{"scoring": {"compliance": {"score": 80}}}`))
	if legacy.Scoring == nil || legacy.Scoring.Compliance.Value != 80 {
		t.Fatalf("scoring block not resolved: %+v", legacy.Scoring)
	}
}

func TestScoreFieldPrefersNewerName(t *testing.T) {
	d, ok := dimension(map[string]any{"total": float64(90), "score": float64(10), "rating": "A"})
	if !ok {
		t.Fatal("dimension reported absent")
	}
	if d.Value != 90 {
		t.Errorf("Value = %v, want 90 (total preferred over score)", d.Value)
	}
	if d.Rating != "A" {
		t.Errorf("Rating = %q, want A", d.Rating)
	}
}

func TestDimensionAbsentForNull(t *testing.T) {
	if _, ok := dimension(nil); ok {
		t.Error("nil dimension reported present")
	}
	if _, ok := dimension("90"); ok {
		t.Error("non-object dimension reported present")
	}
}

func TestParseDocumentRejectsNonObjects(t *testing.T) {
	for _, doc := range []string{"not json", `"a string"`, `42`, `[{}]`, ``} {
		if _, err := parseDocument(doc); err == nil {
			t.Errorf("parseDocument(%q) succeeded, want error", doc)
		}
	}
}
