// Package capiscio invokes the external capiscio agent-card validator and
// captures its raw result. It never interprets the output; that is the
// decision engine's job.
package capiscio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/config"
)

// RawResult is the captured outcome of one validator invocation.
// Stdout is expected to be a single JSON document but is not guaranteed to be.
type RawResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Args builds the validator argument list for the given config.
func Args(cfg config.Config) []string {
	args := []string{"validate", cfg.AgentCard, "--json"}
	if cfg.Strict {
		args = append(args, "--strict")
	}
	if cfg.TestLive {
		args = append(args, "--test-live")
	}
	if cfg.SkipSignature {
		args = append(args, "--skip-signature")
	}
	if cfg.Timeout != "" {
		args = append(args, "--timeout", cfg.Timeout)
	}
	return args
}

// Run executes the validator and captures stdout, stderr, and the exit code.
// A nonzero exit is not an error: the validator exits nonzero on validation
// failure while still printing its JSON report. An error is returned only
// when the process could not run at all or was killed by the deadline.
func Run(ctx context.Context, cfg config.Config) (RawResult, error) {
	cmd := exec.CommandContext(ctx, cfg.Validator.Binary, Args(cfg)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// The npm-installed validator is a shell launcher; after a kill its
	// children can keep the output pipes open, and without a wait delay
	// Wait would block until they exit.
	cmd.WaitDelay = 2 * time.Second

	err := cmd.Run()
	res := RawResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if err != nil {
		// A deadline kill also surfaces as *exec.ExitError, so the context
		// must be consulted first or the kill would be read as a result.
		if ctx.Err() != nil {
			return res, fmt.Errorf("validator timed out: %w", ctx.Err())
		}
		if ee, ok := err.(*exec.ExitError); ok {
			res.ExitCode = ee.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("run validator: %w", err)
	}
	return res, nil
}

// EnsureInstalled checks that the validator binary is on PATH, running the
// configured install command once if it is not.
func EnsureInstalled(ctx context.Context, cfg config.Config) error {
	if _, err := exec.LookPath(cfg.Validator.Binary); err == nil {
		return nil
	}
	if !cfg.Validator.AutoInstallEnabled() || len(cfg.Validator.InstallCommand) == 0 {
		return fmt.Errorf("validator %q not found on PATH", cfg.Validator.Binary)
	}

	install := exec.CommandContext(ctx, cfg.Validator.InstallCommand[0], cfg.Validator.InstallCommand[1:]...)
	var out bytes.Buffer
	install.Stdout = &out
	install.Stderr = &out
	if err := install.Run(); err != nil {
		return fmt.Errorf("install validator: %w: %s", err, out.String())
	}

	if _, err := exec.LookPath(cfg.Validator.Binary); err != nil {
		return fmt.Errorf("validator %q still not found after install", cfg.Validator.Binary)
	}
	return nil
}
