// Package printer handles output formatting and display
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/bethropolis/filekit/internal/walker"
	"github.com/fatih/color"
)

// Printer handles output formatting and writing to the configured output destination
type Printer struct {
	output         io.Writer
	count          atomic.Int64
	useColors      bool
	jsonOutput     bool
	jsonStarted    bool
	markdownOutput bool
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output:    os.Stdout,
		useColors: true,
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithJSON enables JSON output mode
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// WithMarkdown enables Markdown output mode
func (p *Printer) WithMarkdown(enabled bool) *Printer {
	p.markdownOutput = enabled
	return p
}

// JSONEntry is an entry in JSON output
type JSONEntry struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	PhysicalPath string `json:"physical_path"`
	Kind         string `json:"kind"`
	Type         int    `json:"type"`
}

// PrintEntry outputs one listing entry
func (p *Printer) PrintEntry(entry walker.Entry) {
	p.count.Add(1)

	switch {
	case p.jsonOutput:
		p.writeJSON(JSONEntry{
			Name:         entry.Name,
			Path:         entry.Path,
			PhysicalPath: entry.PhysicalPath,
			Kind:         entry.Kind.String(),
			Type:         int(entry.Kind),
		})
	case p.markdownOutput:
		fmt.Fprintf(p.output, "- `%s` (%s)\n", entry.Path, entry.Kind)
	default:
		fmt.Fprintln(p.output, p.paint(entry))
	}
}

// PrintEntries outputs every entry in order
func (p *Printer) PrintEntries(entries []walker.Entry) {
	for _, entry := range entries {
		p.PrintEntry(entry)
	}
}

// PrintLine outputs a plain value, such as a gitignore rule
func (p *Printer) PrintLine(line string) {
	p.count.Add(1)

	switch {
	case p.jsonOutput:
		p.writeJSON(line)
	case p.markdownOutput:
		fmt.Fprintf(p.output, "- `%s`\n", line)
	default:
		fmt.Fprintln(p.output, line)
	}
}

func (p *Printer) writeJSON(v any) {
	if !p.jsonStarted {
		fmt.Fprint(p.output, "[\n")
		p.jsonStarted = true
	} else {
		fmt.Fprint(p.output, ",\n")
	}

	jsonData, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Fprintf(p.output, "  %s", jsonData)
}

func (p *Printer) paint(entry walker.Entry) string {
	if !p.useColors {
		return entry.Path
	}
	switch entry.Kind {
	case walker.KindDirectory:
		return color.New(color.FgBlue, color.Bold).Sprint(entry.Path)
	case walker.KindSymlink:
		return color.CyanString(entry.Path)
	case walker.KindFile:
		return entry.Path
	default:
		return color.YellowString(entry.Path)
	}
}

// Finalize completes any pending operations (like closing JSON array)
func (p *Printer) Finalize() {
	if !p.jsonOutput {
		return
	}
	if !p.jsonStarted {
		fmt.Fprint(p.output, "[]\n")
		return
	}
	fmt.Fprint(p.output, "\n]\n")
}

// GetCount returns the number of items printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}
