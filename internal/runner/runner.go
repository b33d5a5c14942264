// Package runner orchestrates one adapter run: load config, provision and
// invoke the validator, interpret its result, and publish through the host.
package runner

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/audit"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/capiscio"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/config"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/contextinfo"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/host"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/interpret"
)

// RunOptions carries command-line overrides. Boolean toggles only tighten:
// a flag left false never clears a value enabled by config or CI input.
type RunOptions struct {
	ConfigPath     string
	AgentCard      string
	Strict         bool
	TestLive       bool
	SkipSignature  bool
	Timeout        string
	FailOnWarnings bool
}

// Run executes the full adapter flow and returns the process exit code.
func Run(opts RunOptions) (int, error) {
	ctx, err := contextinfo.Detect()
	if err != nil {
		return 1, err
	}

	cfg, err := loadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return 1, err
	}

	h := host.Detect()
	cfg.ApplyInputs(h.Input)
	applyFlags(&cfg, opts)

	logger, err := audit.New(ctx.RepoRoot)
	if err != nil {
		return 1, err
	}

	return execute(cfg, h, logger)
}

// execute runs the provisioned flow against an explicit host and audit log
// and returns the process exit code.
func execute(cfg config.Config, h host.Host, logger *audit.Logger) (int, error) {
	entry := audit.Entry{
		ID:            uuid.New().String(),
		Timestamp:     time.Now().UTC(),
		AgentCard:     cfg.AgentCard,
		ValidatorArgs: capiscio.Args(cfg),
	}

	raw, err := invoke(cfg)
	if err != nil {
		// Infrastructure failure: no validation was attempted, so there is
		// nothing to interpret.
		h.Log(interpret.SeverityError, err.Error())
		h.SetFailed(err.Error())
		entry.Outcome = "infrastructure-failure"
		entry.Error = err.Error()
		logger.Record(entry)
		return 1, nil
	}

	outputs, plan, outcome := interpret.Interpret(raw, cfg)

	for _, line := range plan {
		h.Log(line.Level, line.Text)
	}
	if err := h.PublishOutputs(outputs); err != nil {
		return 1, err
	}

	entry.ExitCode = raw.ExitCode
	entry.Result, _ = outputs.Get("result")
	entry.ErrorCount = countOutput(outputs, "error-count")
	entry.WarningCount = countOutput(outputs, "warning-count")

	if !outcome.Success {
		h.SetFailed(outcome.Message)
		entry.Outcome = "failed"
		entry.FailReason = outcome.Message
		logger.Record(entry)
		return 1, nil
	}

	entry.Outcome = "passed"
	logger.Record(entry)
	return 0, nil
}

// loadConfig resolves the config path, defaulting to validate-a2a.yaml at the
// repo root when present.
func loadConfig(ctx contextinfo.Info, path string) (config.Config, error) {
	if path == "" {
		candidate := filepath.Join(ctx.RepoRoot, "validate-a2a.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	return config.Load(path)
}

func applyFlags(cfg *config.Config, opts RunOptions) {
	if opts.AgentCard != "" {
		cfg.AgentCard = opts.AgentCard
	}
	if opts.Timeout != "" {
		cfg.Timeout = opts.Timeout
	}
	cfg.Strict = cfg.Strict || opts.Strict
	cfg.TestLive = cfg.TestLive || opts.TestLive
	cfg.SkipSignature = cfg.SkipSignature || opts.SkipSignature
	cfg.FailOnWarnings = cfg.FailOnWarnings || opts.FailOnWarnings
}

// invoke provisions the validator and runs it, applying the supervisory
// timeout when one is configured.
func invoke(cfg config.Config) (capiscio.RawResult, error) {
	runCtx := context.Background()
	if d, err := cfg.SupervisoryTimeout(); err != nil {
		return capiscio.RawResult{}, err
	} else if d > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, d)
		defer cancel()
	}

	if err := capiscio.EnsureInstalled(runCtx, cfg); err != nil {
		return capiscio.RawResult{}, err
	}
	return capiscio.Run(runCtx, cfg)
}

func countOutput(outputs interpret.OutputSet, name string) int {
	v, _ := outputs.Get(name)
	n, _ := strconv.Atoi(v)
	return n
}
