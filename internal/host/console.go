package host

import (
	"io"
	"os"
	"strings"

	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/interpret"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/ui"
)

// Console implements Host for local, non-CI runs: inputs come from the same
// INPUT_* convention so captured CI environments replay unchanged, outputs
// render as a table, and log lines get colored severity prefixes.
type Console struct {
	stdout io.Writer
	stderr io.Writer
	env    func(string) string
}

// NewConsole builds a host bound to the real terminal.
func NewConsole() *Console {
	return &Console{stdout: os.Stdout, stderr: os.Stderr, env: os.Getenv}
}

func (c *Console) Input(name string) string {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	return strings.TrimSpace(c.env(key))
}

func (c *Console) PublishOutputs(outputs interpret.OutputSet) error {
	ui.RenderOutputs(c.stdout, outputs)
	return nil
}

func (c *Console) Log(level interpret.Severity, text string) {
	ui.Line(c.stdout, level, text)
}

func (c *Console) SetFailed(msg string) {
	ui.Failure(c.stderr, msg)
}
