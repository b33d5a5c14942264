package ui

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/actions-marketplace-validations/capiscio-validate-a2a/internal/interpret"
)

// Line prints one log line with a colored severity prefix.
func Line(w io.Writer, level interpret.Severity, msg string) {
	switch level {
	case interpret.SeverityWarning:
		fmt.Fprintln(w, text.FgYellow.Sprint("warning:"), msg)
	case interpret.SeverityError:
		fmt.Fprintln(w, text.FgRed.Sprint("error:"), msg)
	default:
		fmt.Fprintln(w, msg)
	}
}

// RenderOutputs prints the published outputs as a two-column table.
func RenderOutputs(w io.Writer, outputs interpret.OutputSet) {
	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.AppendHeader(table.Row{"Output", "Value"})
	for _, o := range outputs {
		writer.AppendRow(table.Row{o.Name, colorValue(o.Name, o.Value)})
	}
	writer.Render()
}

func colorValue(name, value string) string {
	switch {
	case name == "result" && value == "passed":
		return text.FgGreen.Sprint(value)
	case name == "result" && value == "failed":
		return text.FgRed.Sprint(value)
	case name == "production-ready" && value == "true":
		return text.FgGreen.Sprint(value)
	}
	return value
}

// Failure prints the job's failure reason.
func Failure(w io.Writer, msg string) {
	fmt.Fprintln(w, text.FgRed.Sprint("FAILED:"), msg)
}
