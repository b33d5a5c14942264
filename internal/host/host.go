// Package host abstracts the CI platform surface: reading input parameters,
// publishing named outputs, rendering log lines, and reporting the job's
// failure reason.
package host

import (
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/contextinfo"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/interpret"
)

// Host is the capability surface the adapter runs against.
type Host interface {
	// Input returns the raw value of a named input parameter, or "" when unset.
	Input(name string) string
	// PublishOutputs makes the engine's outputs available to downstream steps.
	PublishOutputs(outputs interpret.OutputSet) error
	// Log renders one diagnostic line at the given severity.
	Log(level interpret.Severity, text string)
	// SetFailed reports the job's failure reason.
	SetFailed(msg string)
}

// Detect selects the GitHub Actions host when running under Actions and the
// console host otherwise.
func Detect() Host {
	if contextinfo.OnActions() {
		return NewActions()
	}
	return NewConsole()
}
