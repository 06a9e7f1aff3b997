package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/nao1215/enumdir/internal/model"
)

// SimpleWriter outputs human-readable text for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds per status code counts to summaries.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteSummary outputs the scan summary.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "ENUMDIR SUMMARY")
	fmt.Fprintf(&sb, "Target:     %s\n", summary.Target)
	fmt.Fprintf(&sb, "Mode:       %s\n", summary.Mode)
	fmt.Fprintf(&sb, "Method:     %s\n", summary.Method)
	fmt.Fprintf(&sb, "Output:     %s\n", summary.Output)
	fmt.Fprintf(&sb, "Started:    %s\n", formatTime(summary.StartedAt))
	fmt.Fprintf(&sb, "Elapsed:    %s\n", summary.Elapsed().Round(time.Millisecond))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Requests:   %d\n", summary.Requests)
	fmt.Fprintf(&sb, "Found:      %d\n", summary.Found)
	fmt.Fprintf(&sb, "Not found:  %d\n", summary.NotFound)
	fmt.Fprintf(&sb, "Filtered:   %d\n", summary.Filtered)
	fmt.Fprintf(&sb, "Failed:     %d\n", summary.Failed)

	if w.verbose && len(summary.StatusCounts) > 0 {
		sb.WriteString("\nStatus codes:\n")
		for _, code := range summary.StatusCodes() {
			fmt.Fprintf(&sb, "  %d  %d\n", code, summary.StatusCounts[code])
		}
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// WriteRuns outputs the runs as a table.
func (w *SimpleWriter) WriteRuns(runs []model.Run) (int, error) {
	if len(runs) == 0 {
		return io.WriteString(w.output, "No runs recorded.\n")
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			formatTime(run.StartedAt),
			run.Target,
			run.Mode,
			run.Method,
			strconv.FormatInt(run.Found, 10) + "/" + strconv.FormatInt(run.Requests, 10),
			runStatus(run),
		})
	}

	var sb strings.Builder
	if err := renderTable(&sb, []string{"ID", "Started", "Target", "Mode", "Method", "Found", "Status"}, rows); err != nil {
		return 0, err
	}
	return io.WriteString(w.output, sb.String())
}

// WriteFindings outputs a run header followed by its findings.
func (w *SimpleWriter) WriteFindings(run *model.Run, findings []model.Finding) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "ENUMDIR RUN")
	fmt.Fprintf(&sb, "ID:         %s\n", run.ID)
	fmt.Fprintf(&sb, "Target:     %s\n", run.Target)
	fmt.Fprintf(&sb, "Mode:       %s\n", run.Mode)
	fmt.Fprintf(&sb, "Method:     %s\n", run.Method)
	fmt.Fprintf(&sb, "Started:    %s\n", formatTime(run.StartedAt))
	fmt.Fprintf(&sb, "Finished:   %s\n", formatTime(run.FinishedAt))
	fmt.Fprintf(&sb, "Requests:   %d\n", run.Requests)
	fmt.Fprintf(&sb, "Found:      %d\n", run.Found)
	sb.WriteString("\n")

	if len(findings) == 0 {
		sb.WriteString("No findings.\n")
		return io.WriteString(w.output, sb.String())
	}

	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{strconv.Itoa(int(f.StatusCode)), f.URL, f.Title})
	}
	if err := renderTable(&sb, []string{"Status", "URL", "Title"}, rows); err != nil {
		return 0, err
	}
	return io.WriteString(w.output, sb.String())
}

func writeBanner(sb *strings.Builder, title string) {
	line := strings.Repeat("=", 70)
	sb.WriteString("\n")
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", (70-len(title))/2))
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(line)
	sb.WriteString("\n\n")
}

func renderTable(out io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(out)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	table.Header(cells...)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to build table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func runStatus(run model.Run) string {
	if run.Finished() {
		return "complete"
	}
	return "interrupted"
}
