// Package interpret turns a captured validator invocation into CI outputs,
// log lines, and the job's final outcome. It is pure: no I/O, no clock, no
// shared state, so two identical inputs produce byte-identical results.
package interpret

import (
	"fmt"
	"math"
	"strconv"

	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/capiscio"
	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/config"
)

// Severity classifies a planned log line.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// LogLine is one planned diagnostic line.
type LogLine struct {
	Level Severity
	Text  string
}

// LogPlan is the ordered diagnostic output of one interpretation.
type LogPlan []LogLine

// Output is one named CI output value.
type Output struct {
	Name  string
	Value string
}

// OutputSet holds the published outputs in emission order.
type OutputSet []Output

// Get returns the value for name.
func (s OutputSet) Get(name string) (string, bool) {
	for _, o := range s {
		if o.Name == name {
			return o.Value, true
		}
	}
	return "", false
}

// Outcome is the job's final state. Message is empty on success and carries
// the single attributed failure reason otherwise.
type Outcome struct {
	Success bool
	Message string
}

// Sentinels for scoring-derived outputs.
const (
	scoreUnavailable = "N/A"        // validator produced no scoring block
	scoreNotTested   = "not-tested" // scoring present, live testing not requested
)

// Interpret derives outputs, a log plan, and the job outcome from one raw
// validator result. Unparseable stdout is a defined failure outcome, not an
// error: every path returns a complete triple.
func Interpret(raw capiscio.RawResult, cfg config.Config) (OutputSet, LogPlan, Outcome) {
	doc, err := parseDocument(raw.Stdout)
	if err != nil {
		return interpretMalformed(raw)
	}
	rep := normalize(doc)

	errorCount := len(rep.Errors)
	warningCount := len(rep.Warnings)

	outputs := deriveOutputs(rep, errorCount, warningCount)
	plan := derivePlan(rep, cfg, errorCount, warningCount)
	outcome := deriveOutcome(rep, cfg, errorCount, warningCount)
	return outputs, plan, outcome
}

func interpretMalformed(raw capiscio.RawResult) (OutputSet, LogPlan, Outcome) {
	plan := LogPlan{{SeverityError, "Validator output was not valid JSON"}}
	if raw.Stdout != "" {
		plan = append(plan, LogLine{SeverityError, "stdout: " + raw.Stdout})
	}
	if raw.Stderr != "" {
		plan = append(plan, LogLine{SeverityError, "stderr: " + raw.Stderr})
	}

	msg := "Failed to parse validation output"
	if raw.ExitCode != 0 {
		msg = fmt.Sprintf("%s (validator exit code %d)", msg, raw.ExitCode)
	}
	return nil, plan, Outcome{Success: false, Message: msg}
}

func deriveOutputs(rep Report, errorCount, warningCount int) OutputSet {
	result := "failed"
	if rep.Success {
		result = "passed"
	}

	compliance, trust, availability := scoreUnavailable, scoreUnavailable, scoreUnavailable
	productionReady := false
	if rep.Scoring != nil {
		compliance = formatScore(rep.Scoring.Compliance.Value)
		trust = formatScore(rep.Scoring.Trust.Value)
		availability = scoreNotTested
		if rep.Scoring.Availability != nil {
			availability = formatScore(rep.Scoring.Availability.Value)
		}
		productionReady = rep.Scoring.ProductionReady
	}

	return OutputSet{
		{"result", result},
		{"error-count", strconv.Itoa(errorCount)},
		{"warning-count", strconv.Itoa(warningCount)},
		{"compliance-score", compliance},
		{"trust-score", trust},
		{"availability-score", availability},
		{"production-ready", strconv.FormatBool(productionReady)},
	}
}

func derivePlan(rep Report, cfg config.Config, errorCount, warningCount int) LogPlan {
	plan := LogPlan{{SeverityInfo, "Validating agent card: " + cfg.AgentCard}}

	if s := rep.Scoring; s != nil {
		plan = append(plan,
			LogLine{SeverityInfo, dimensionLine("Compliance", s.Compliance)},
			LogLine{SeverityInfo, dimensionLine("Trust", s.Trust)},
		)
		if s.Availability != nil {
			plan = append(plan, LogLine{SeverityInfo, dimensionLine("Availability", *s.Availability)})
		} else {
			plan = append(plan, LogLine{SeverityInfo, "Availability: not tested"})
		}
		plan = append(plan, LogLine{SeverityInfo, fmt.Sprintf("Production ready: %t", s.ProductionReady)})
	}

	if errorCount > 0 {
		plan = append(plan, LogLine{SeverityError, fmt.Sprintf("Found %d error(s):", errorCount)})
		for _, msg := range rep.Errors {
			plan = append(plan, LogLine{SeverityError, "- " + msg})
		}
	}
	if warningCount > 0 {
		plan = append(plan, LogLine{SeverityWarning, fmt.Sprintf("Found %d warning(s):", warningCount)})
		for _, msg := range rep.Warnings {
			plan = append(plan, LogLine{SeverityWarning, "- " + msg})
		}
	}

	if rep.Success {
		plan = append(plan, LogLine{SeverityInfo, "Validation passed"})
	} else {
		plan = append(plan, LogLine{SeverityInfo, "Validation failed"})
	}
	return plan
}

// deriveOutcome applies the decision ladder: a semantic failure always fails
// the job; the fail-on-warnings policy fails an otherwise passing run with a
// distinct reason.
func deriveOutcome(rep Report, cfg config.Config, errorCount, warningCount int) Outcome {
	if !rep.Success {
		return Outcome{Success: false, Message: fmt.Sprintf("Validation failed with %d error(s)", errorCount)}
	}
	if cfg.FailOnWarnings && warningCount > 0 {
		return Outcome{Success: false, Message: fmt.Sprintf("Validation produced %d warning(s) and fail-on-warnings is enabled", warningCount)}
	}
	return Outcome{Success: true}
}

func dimensionLine(name string, d Dimension) string {
	line := fmt.Sprintf("%s: %s/100", name, formatScore(d.Value))
	if d.Rating != "" {
		line += fmt.Sprintf(" (%s)", d.Rating)
	}
	return line
}

// formatScore renders a score rounded to the nearest integer; CI outputs are
// plain decimal strings.
func formatScore(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}
