package audit

import (
	"testing"
	"time"
)

func TestRecordAndFind(t *testing.T) {
	logger, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	entry := Entry{
		ID:            "run-1",
		Timestamp:     time.Now().UTC(),
		AgentCard:     "./agent-card.json",
		ValidatorArgs: []string{"validate", "./agent-card.json", "--json"},
		ExitCode:      1,
		Result:        "failed",
		ErrorCount:    2,
		Outcome:       "failed",
		FailReason:    "Validation failed with 2 error(s)",
	}
	if err := logger.Record(entry); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := logger.Record(Entry{ID: "run-2", Result: "passed", Outcome: "passed"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := logger.Find("run-1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.Result != "failed" || got.ErrorCount != 2 || got.FailReason != entry.FailReason {
		t.Errorf("Find returned %+v", got)
	}

	if _, err := logger.Find("missing"); err == nil {
		t.Error("expected error for unknown id")
	}
}
