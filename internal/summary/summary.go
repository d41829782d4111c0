// Package summary handles display of run results and statistics
package summary

import (
	"fmt"
	"io"
	"time"

	"github.com/bethropolis/filekit/internal/copier"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
}

// DisplayResults shows the end results of a listing
func DisplayResults(
	logger Logger,
	count int64,
	duration time.Duration,
	quiet bool,
) {
	if !quiet {
		logger.Info("Found %d entries.", count)
		logger.Info("Listing complete in %v.", duration.Round(time.Millisecond))
	}
}

// DisplayCopy reports what a copy materialized
func DisplayCopy(
	logger Logger,
	report copier.Report,
	duration time.Duration,
	output io.Writer,
	quiet bool,
) {
	if quiet {
		return
	}
	logger.Info("Copied %s -> %s in %v.", report.Source, report.Dest, duration.Round(time.Millisecond))
	if report.Accelerated {
		fmt.Fprintf(output, "Copied tree %s -> %s\n", report.Source, report.Dest)
		return
	}
	fmt.Fprintf(output, "%-6s %d\n", "Files", report.Files)
	fmt.Fprintf(output, "%-6s %d\n", "Dirs", report.Dirs)
	fmt.Fprintf(output, "%-6s %d\n", "Links", report.Links)
}
