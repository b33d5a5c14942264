package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/audit"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/capiscio"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/config"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/contextinfo"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/host"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/interpret"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/runner"
)

var (
	flagConfigPath     string
	flagAgentCard      string
	flagStrict         bool
	flagTestLive       bool
	flagSkipSignature  bool
	flagTimeout        string
	flagFailOnWarnings bool
)

func main() {
	root := newRootCmd()
	root.SilenceUsage = true
	root.SilenceErrors = false
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-a2a",
		Short: "CI adapter for the capiscio agent-card validator",
		Long:  "validate-a2a runs the capiscio validator against an A2A agent card and turns its JSON report into CI outputs, annotations, and a pass/fail status.",
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to validate-a2a.yaml (defaults to repo root if present)")

	cmd.AddCommand(runCmd())
	cmd.AddCommand(interpretCmd())
	cmd.AddCommand(initCmd())
	cmd.AddCommand(configCmd())
	cmd.AddCommand(decisionCmd())
	cmd.AddCommand(doctorCmd())

	return cmd
}

func addValidationFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagAgentCard, "agent-card", "", "path or URL of the agent card to validate")
	c.Flags().BoolVar(&flagStrict, "strict", false, "enable the validator's strict mode")
	c.Flags().BoolVar(&flagTestLive, "test-live", false, "probe the live agent endpoint")
	c.Flags().BoolVar(&flagSkipSignature, "skip-signature", false, "skip card signature verification")
	c.Flags().StringVar(&flagTimeout, "timeout", "", "validator timeout in milliseconds")
	c.Flags().BoolVar(&flagFailOnWarnings, "fail-on-warnings", false, "fail the job when warnings are present")
}

func runOptions() runner.RunOptions {
	return runner.RunOptions{
		ConfigPath:     flagConfigPath,
		AgentCard:      flagAgentCard,
		Strict:         flagStrict,
		TestLive:       flagTestLive,
		SkipSignature:  flagSkipSignature,
		Timeout:        flagTimeout,
		FailOnWarnings: flagFailOnWarnings,
	}
}

func runCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Validate an agent card and publish the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode, err := runner.Run(runOptions())
			if err != nil {
				return err
			}
			os.Exit(exitCode)
			return nil
		},
	}
	addValidationFlags(c)
	return c
}

func interpretCmd() *cobra.Command {
	var flagExitCode int
	c := &cobra.Command{
		Use:   "interpret [file]",
		Short: "Interpret a captured validator JSON report without running anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readDocument(args)
			if err != nil {
				return err
			}

			cfg, err := loadEffectiveConfig()
			if err != nil {
				return err
			}

			h := host.Detect()
			raw := capiscio.RawResult{ExitCode: flagExitCode, Stdout: string(data)}
			outputs, plan, outcome := interpret.Interpret(raw, cfg)
			for _, line := range plan {
				h.Log(line.Level, line.Text)
			}
			if err := h.PublishOutputs(outputs); err != nil {
				return err
			}
			if !outcome.Success {
				h.SetFailed(outcome.Message)
				os.Exit(1)
			}
			return nil
		},
	}
	addValidationFlags(c)
	c.Flags().IntVar(&flagExitCode, "exit-code", 0, "exit code observed from the validator")
	return c
}

func readDocument(args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}

func loadEffectiveConfig() (config.Config, error) {
	ctx, _ := contextinfo.Detect()
	path := flagConfigPath
	if path == "" {
		candidate := filepath.Join(ctx.RepoRoot, "validate-a2a.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyInputs(host.Detect().Input)
	if flagAgentCard != "" {
		cfg.AgentCard = flagAgentCard
	}
	if flagTimeout != "" {
		cfg.Timeout = flagTimeout
	}
	cfg.Strict = cfg.Strict || flagStrict
	cfg.TestLive = cfg.TestLive || flagTestLive
	cfg.SkipSignature = cfg.SkipSignature || flagSkipSignature
	cfg.FailOnWarnings = cfg.FailOnWarnings || flagFailOnWarnings
	return cfg, nil
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a default validate-a2a.yaml in the repo root",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := contextinfo.Detect()
			if err != nil {
				return err
			}
			target := filepath.Join(ctx.RepoRoot, "validate-a2a.yaml")
			if _, err := os.Stat(target); err == nil {
				return fmt.Errorf("validate-a2a.yaml already exists at %s", target)
			}
			if err := os.WriteFile(target, []byte(config.DefaultYAML()), 0o644); err != nil {
				return err
			}
			fmt.Println("Created", target)
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	c := &cobra.Command{Use: "config", Short: "Inspect configuration"}
	c.AddCommand(configExplainCmd())
	return c
}

func configExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEffectiveConfig()
			if err != nil {
				return err
			}
			yamlStr, err := cfg.ToYAML()
			if err != nil {
				return err
			}
			fmt.Print(yamlStr)
			return nil
		},
	}
}

func decisionCmd() *cobra.Command {
	c := &cobra.Command{Use: "decision", Short: "Inspect prior validation runs"}
	c.AddCommand(decisionExplainCmd())
	return c
}

func decisionExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <audit-id>",
		Short: "Explain a prior validation run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _ := contextinfo.Detect()
			logger, err := audit.New(ctx.RepoRoot)
			if err != nil {
				return err
			}
			e, err := logger.Find(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Agent card: %s\n", e.AgentCard)
			fmt.Printf("Validator: %s\n", strings.Join(e.ValidatorArgs, " "))
			fmt.Printf("Result: %s (exit=%d, %d errors, %d warnings)\n", e.Result, e.ExitCode, e.ErrorCount, e.WarningCount)
			fmt.Printf("Outcome: %s\n", e.Outcome)
			if e.FailReason != "" {
				fmt.Printf("Reason: %s\n", e.FailReason)
			}
			if e.Error != "" {
				fmt.Printf("Error: %s\n", e.Error)
			}
			return nil
		},
	}
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate environment readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := contextinfo.Detect()
			if err != nil {
				return err
			}
			fmt.Println("validate-a2a doctor")
			fmt.Println("cwd:", ctx.Cwd)
			if ctx.InRepo {
				fmt.Println("repo root:", ctx.RepoRoot)
				fmt.Printf("git status: %d changed, %d untracked\n", ctx.Git.Changed, ctx.Git.Untracked)
			} else {
				fmt.Println("repo root: none (using cwd)")
			}
			if ctx.OnCI {
				fmt.Println("environment: GitHub Actions")
			} else {
				fmt.Println("environment: local console")
			}

			cfg, err := loadEffectiveConfig()
			if err != nil {
				return err
			}
			if flagConfigPath == "" {
				fmt.Println("config: using embedded default unless validate-a2a.yaml present")
			} else {
				fmt.Println("config:", flagConfigPath)
			}
			if path, err := exec.LookPath(cfg.Validator.Binary); err == nil {
				fmt.Println("validator:", path)
			} else {
				fmt.Printf("validator: %s not found on PATH (auto_install=%t)\n", cfg.Validator.Binary, cfg.Validator.AutoInstallEnabled())
			}
			return nil
		},
	}
}
