// Package export renders sync results for the terminal or for other tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/agentsync/internal/logging"
	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/sync"
	"github.com/klauern/agentsync/internal/ui"
)

// Format represents the output format for a sync report.
type Format string

const (
	// FormatTable renders a colored, human-readable report.
	FormatTable Format = "table"
	// FormatJSON renders the results as JSON.
	FormatJSON Format = "json"
	// FormatYAML renders the results as YAML.
	FormatYAML Format = "yaml"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// AllFormats returns all supported formats.
func AllFormats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML}
}

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if !format.IsValid() {
		names := make([]string, 0, len(AllFormats()))
		for _, f := range AllFormats() {
			names = append(names, f.String())
		}
		return "", fmt.Errorf("unsupported format %q (valid: %s)", s, strings.Join(names, ", "))
	}
	return format, nil
}

// Options configures report rendering.
type Options struct {
	// Format specifies the output format.
	Format Format
	// DryRun labels the report as a preview.
	DryRun bool
	// Verbose lists unchanged files in table output.
	Verbose bool
}

// DefaultOptions returns the default report options.
func DefaultOptions() Options {
	return Options{Format: FormatTable}
}

// Exporter writes sync reports.
type Exporter struct {
	opts Options
}

// New creates a new Exporter with the given options.
func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Export writes results to w in the configured format.
func (e *Exporter) Export(results []sync.Result, w io.Writer) error {
	logging.Debug("rendering report",
		slog.String("format", string(e.opts.Format)),
		logging.Count(len(results)),
	)

	if results == nil {
		results = []sync.Result{}
	}

	var err error
	switch e.opts.Format {
	case FormatJSON:
		err = e.exportJSON(results, w)
	case FormatYAML:
		err = e.exportYAML(results, w)
	case FormatTable, "":
		err = e.exportTable(results, w)
	default:
		err = fmt.Errorf("unsupported format: %s", e.opts.Format)
	}

	if err != nil {
		logging.Error("report failed",
			slog.String("format", string(e.opts.Format)),
			logging.Err(err),
		)
	}
	return err
}

func (e *Exporter) exportJSON(results []sync.Result, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func (e *Exporter) exportYAML(results []sync.Result, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(results); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}

func (e *Exporter) exportTable(results []sync.Result, w io.Writer) error {
	var sb strings.Builder

	if e.opts.DryRun {
		sb.WriteString(ui.Warning("Dry run - no changes made"))
		sb.WriteString("\n\n")
	}

	if len(results) == 0 {
		sb.WriteString("No targets to sync\n")
	}

	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(ui.Heading(r.Tool))
		sb.WriteString("\n")

		for _, c := range r.Changes {
			if c.Action == model.ActionUnchanged && !e.opts.Verbose {
				continue
			}
			sb.WriteString("  ")
			sb.WriteString(ui.Change(c.Action, c.Path))
			sb.WriteString("\n")
		}
		for _, warning := range r.Validation.Warnings {
			sb.WriteString("  ")
			sb.WriteString(ui.StatusWarning(warning.String()))
			sb.WriteString("\n")
		}
		if len(r.Validation.Skipped) > 0 {
			sb.WriteString("  ")
			sb.WriteString(ui.StatusSkipped("not supported: " + strings.Join(r.Validation.Skipped, ", ")))
			sb.WriteString("\n")
		}

		sb.WriteString("  ")
		sb.WriteString(ui.StatusSuccess(summaryLine(r)))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func summaryLine(r sync.Result) string {
	if !r.HasChanges() {
		return ui.Dim("up to date")
	}
	return fmt.Sprintf("%d created, %d updated, %d deleted, %d unchanged",
		len(r.Created()), len(r.Updated()), len(r.Deleted()), len(r.Unchanged()))
}
