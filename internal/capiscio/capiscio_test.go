package capiscio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/config"
)

func TestArgsMinimal(t *testing.T) {
	cfg := config.Config{AgentCard: "./agent-card.json"}
	want := []string{"validate", "./agent-card.json", "--json"}
	if diff := cmp.Diff(want, Args(cfg)); diff != "" {
		t.Errorf("args mismatch:\n%s", diff)
	}
}

func TestArgsAllToggles(t *testing.T) {
	cfg := config.Config{
		AgentCard:     "https://agent.example.com/.well-known/agent.json",
		Strict:        true,
		TestLive:      true,
		SkipSignature: true,
		Timeout:       "5000",
	}
	want := []string{
		"validate", "https://agent.example.com/.well-known/agent.json", "--json",
		"--strict", "--test-live", "--skip-signature", "--timeout", "5000",
	}
	if diff := cmp.Diff(want, Args(cfg)); diff != "" {
		t.Errorf("args mismatch:\n%s", diff)
	}
}

func TestRunCapturesStdout(t *testing.T) {
	cfg := config.Config{AgentCard: "card.json", Validator: config.Validator{Binary: "echo"}}
	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}
	if !strings.Contains(res.Stdout, "validate card.json --json") {
		t.Errorf("Stdout = %q", res.Stdout)
	}
}

func TestRunNonzeroExitIsNotAnError(t *testing.T) {
	cfg := config.Config{AgentCard: "card.json", Validator: config.Validator{Binary: "false"}}
	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("nonzero exit should not error: %v", err)
	}
	if res.ExitCode == 0 {
		t.Error("expected nonzero exit code")
	}
}

func TestRunKilledByDeadline(t *testing.T) {
	// Same shape as the npm launcher: a shell wrapper whose child outlives it
	// and keeps the output pipes open.
	script := filepath.Join(t.TempDir(), "hang")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nsleep 10\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cfg := config.Config{AgentCard: "card.json", Validator: config.Validator{Binary: script}}
	start := time.Now()
	_, err := Run(ctx, cfg)
	if err == nil {
		t.Fatal("expected an error when the deadline kills the validator")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %v, want timeout attribution", err)
	}
	if elapsed := time.Since(start); elapsed > 8*time.Second {
		t.Errorf("Run blocked for %v after the deadline", elapsed)
	}
}

func TestRunMissingBinary(t *testing.T) {
	cfg := config.Config{AgentCard: "card.json", Validator: config.Validator{Binary: "definitely-not-a-real-binary"}}
	if _, err := Run(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestEnsureInstalledFindsExisting(t *testing.T) {
	cfg := config.Config{Validator: config.Validator{Binary: "echo"}}
	if err := EnsureInstalled(context.Background(), cfg); err != nil {
		t.Fatalf("EnsureInstalled: %v", err)
	}
}

func TestEnsureInstalledWithoutAutoInstall(t *testing.T) {
	cfg := config.Config{Validator: config.Validator{Binary: "definitely-not-a-real-binary"}}
	err := EnsureInstalled(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "not found on PATH") {
		t.Errorf("err = %v", err)
	}
}
