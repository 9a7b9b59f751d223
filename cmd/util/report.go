package util

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/owenrumney/go-sarif/sarif"
)

// Rule ids of the diagnostics report.
const (
	RuleSkippedTrial    = "CARVEBENCH001"
	RuleInvokeFailed    = "CARVEBENCH002"
	RuleUnreadableImage = "CARVEBENCH003"
	diagnosticsToolName = "carvebench"
	diagnosticsToolInfo = ""
)

// Diagnostics collects everything the harness skipped into a SARIF run.
// A nil *Diagnostics discards results.
type Diagnostics struct {
	run   *sarif.Run
	count int
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{run: sarif.NewRun(diagnosticsToolName, diagnosticsToolInfo)}
}

// Add records a result for ruleID against the file at uri.
func (d *Diagnostics) Add(ruleID, uri, message string) {
	if d == nil {
		return
	}
	d.count++
	d.run.AddResult(ruleID).
		WithLocation(sarif.NewLocationWithPhysicalLocation(sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().
				WithUri(uri)))).
		WithMessage(sarif.NewMessage().WithText(message))
}

// Count is the number of results recorded.
func (d *Diagnostics) Count() int {
	if d == nil {
		return 0
	}
	return d.count
}

// Write writes the SARIF 2.1.0 report.
func (d *Diagnostics) Write(w io.Writer) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("creating SARIF report: %w", err)
	}
	report.AddRun(d.run)
	buffer := bytes.NewBufferString("")
	if err := report.Write(buffer); err != nil {
		return fmt.Errorf("writing SARIF report: %w", err)
	}
	_, err = w.Write(buffer.Bytes())
	return err
}

// WriteFile writes the report to path.
func (d *Diagnostics) WriteFile(path string) error {
	create, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating SARIF file: %w", err)
	}
	defer create.Close()
	if err := d.Write(create); err != nil {
		return err
	}
	return create.Close()
}
