package runner

import (
	"os"
	"strings"
	"testing"

	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/audit"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/config"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/interpret"
)

type fakeHost struct {
	outputs interpret.OutputSet
	lines   interpret.LogPlan
	failed  []string
}

func (f *fakeHost) Input(string) string { return "" }

func (f *fakeHost) PublishOutputs(outputs interpret.OutputSet) error {
	f.outputs = outputs
	return nil
}

func (f *fakeHost) Log(level interpret.Severity, text string) {
	f.lines = append(f.lines, interpret.LogLine{Level: level, Text: text})
}

func (f *fakeHost) SetFailed(msg string) {
	f.failed = append(f.failed, msg)
}

func auditContents(t *testing.T, logger *audit.Logger) string {
	t.Helper()
	data, err := os.ReadFile(logger.Path())
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	return string(data)
}

func TestExecuteInfrastructureFailure(t *testing.T) {
	logger, err := audit.New(t.TempDir())
	if err != nil {
		t.Fatalf("audit.New: %v", err)
	}
	cfg := config.Config{
		AgentCard: "./agent-card.json",
		Validator: config.Validator{Binary: "definitely-not-a-real-binary"},
	}
	h := &fakeHost{}

	code, err := execute(cfg, h, logger)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if len(h.failed) != 1 || !strings.Contains(h.failed[0], "not found on PATH") {
		t.Errorf("failure reason = %v, want the underlying message", h.failed)
	}
	if h.outputs != nil {
		t.Errorf("outputs published without a validation attempt: %v", h.outputs)
	}
	if log := auditContents(t, logger); !strings.Contains(log, `"outcome":"infrastructure-failure"`) {
		t.Errorf("audit log missing infrastructure-failure outcome: %s", log)
	}
}

func TestExecuteInterpretsUnparseableOutput(t *testing.T) {
	logger, err := audit.New(t.TempDir())
	if err != nil {
		t.Fatalf("audit.New: %v", err)
	}
	// echo runs fine but prints the argument list, not JSON, so the run must
	// reach the decision engine and fail there rather than as infrastructure.
	cfg := config.Config{
		AgentCard: "./agent-card.json",
		Validator: config.Validator{Binary: "echo"},
	}
	h := &fakeHost{}

	code, err := execute(cfg, h, logger)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if len(h.failed) != 1 || h.failed[0] != "Failed to parse validation output" {
		t.Errorf("failure reason = %v", h.failed)
	}
	if log := auditContents(t, logger); !strings.Contains(log, `"outcome":"failed"`) {
		t.Errorf("audit log missing failed outcome: %s", log)
	}
}
