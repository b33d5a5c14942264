package host

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/interpret"
)

// Actions implements Host against the GitHub Actions runner: INPUT_* env
// vars, the GITHUB_OUTPUT file protocol, and workflow command log syntax.
type Actions struct {
	stdout     io.Writer
	outputPath string
	env        func(string) string
}

// NewActions builds a host bound to the real process environment.
func NewActions() *Actions {
	return &Actions{
		stdout:     os.Stdout,
		outputPath: os.Getenv("GITHUB_OUTPUT"),
		env:        os.Getenv,
	}
}

// Input reads INPUT_<NAME>: the runner uppercases the input name and
// replaces spaces with underscores, keeping dashes.
func (a *Actions) Input(name string) string {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	return strings.TrimSpace(a.env(key))
}

// PublishOutputs writes every output through the GITHUB_OUTPUT protocol.
func (a *Actions) PublishOutputs(outputs interpret.OutputSet) error {
	for _, o := range outputs {
		if err := a.setOutput(o.Name, o.Value); err != nil {
			return err
		}
	}
	return nil
}

// setOutput appends to the GITHUB_OUTPUT file, using a random heredoc
// delimiter for multiline values. Without GITHUB_OUTPUT it falls back to the
// legacy set-output workflow command.
func (a *Actions) setOutput(name, value string) error {
	if a.outputPath == "" {
		fmt.Fprintf(a.stdout, "::set-output name=%s::%s\n", name, escapeData(value))
		return nil
	}

	f, err := os.OpenFile(a.outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open GITHUB_OUTPUT: %w", err)
	}
	defer f.Close()

	if strings.ContainsAny(value, "\r\n") {
		delim := "ghadelimiter_" + uuid.New().String()
		_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delim, value, delim)
	} else {
		_, err = fmt.Fprintf(f, "%s=%s\n", name, value)
	}
	if err != nil {
		return fmt.Errorf("write GITHUB_OUTPUT: %w", err)
	}
	return nil
}

// Log renders info lines plainly and warnings/errors as workflow commands so
// the runner annotates them.
func (a *Actions) Log(level interpret.Severity, text string) {
	switch level {
	case interpret.SeverityWarning:
		fmt.Fprintf(a.stdout, "::warning::%s\n", escapeData(text))
	case interpret.SeverityError:
		fmt.Fprintf(a.stdout, "::error::%s\n", escapeData(text))
	default:
		fmt.Fprintln(a.stdout, text)
	}
}

// SetFailed surfaces the failure reason as an error annotation; the caller
// is responsible for the nonzero exit.
func (a *Actions) SetFailed(msg string) {
	fmt.Fprintf(a.stdout, "::error::%s\n", escapeData(msg))
}

// escapeData applies workflow command data escaping.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
