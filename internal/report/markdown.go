package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/enumdir/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteSummary outputs the scan summary with a status code chart.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("enumdir Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + summary.Target + "`"},
			{"Mode", summary.Mode},
			{"Method", summary.Method},
			{"Output", "`" + summary.Output + "`"},
			{"Started", formatTime(summary.StartedAt)},
			{"Elapsed", summary.Elapsed().Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")

	md.H2("Results")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Result", "Count"},
		Rows: [][]string{
			{"Found", formatCount(summary.Found)},
			{"Not found", formatCount(summary.NotFound)},
			{"Filtered", formatCount(summary.Filtered)},
			{"Failed", formatCount(summary.Failed)},
			{"**Requests**", "**" + formatCount(summary.Requests) + "**"},
		},
	})
	md.PlainText("")

	if len(summary.StatusCounts) > 0 {
		w.writeStatusCodes(md, summary)
	}
	w.writeAlert(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeStatusCodes(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Status Codes")
	md.PlainText("")

	codes := summary.StatusCodes()
	rows := make([][]string, 0, len(codes))
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Status Code Distribution"),
		piechart.WithShowData(true),
	)
	for _, code := range codes {
		n := summary.StatusCounts[code]
		rows = append(rows, []string{strconv.Itoa(int(code)), formatCount(n)})
		chart.LabelAndIntValue(strconv.Itoa(int(code)), uint64(n)) //nolint:gosec // counts are never negative
	}

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.Failed > 0:
		md.Warningf("%d candidate(s) failed after all retries. The target may be rate limiting or unreachable.", summary.Failed)
	case summary.Found > 0:
		md.Notef("%d path(s) found. See `%s` for the full list.", summary.Found, summary.Output)
	default:
		md.Tip("No paths found.")
	}
	md.PlainText("")
}

// WriteRuns outputs the run history as a table.
func (w *MarkdownWriter) WriteRuns(runs []model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Scan History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		md.PlainText("")
	} else {
		rows := make([][]string, 0, len(runs))
		for _, run := range runs {
			rows = append(rows, []string{
				"`" + run.ID + "`",
				formatTime(run.StartedAt),
				escapeCell(run.Target),
				run.Mode,
				run.Method,
				formatCount(run.Found) + "/" + formatCount(run.Requests),
				runStatus(run),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"ID", "Started", "Target", "Mode", "Method", "Found", "Status"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteFindings outputs one run and its findings.
func (w *MarkdownWriter) WriteFindings(run *model.Run, findings []model.Finding) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Run " + run.ID)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + run.Target + "`"},
			{"Mode", run.Mode},
			{"Method", run.Method},
			{"Started", formatTime(run.StartedAt)},
			{"Finished", formatTime(run.FinishedAt)},
			{"Requests", formatCount(run.Requests)},
			{"Found", formatCount(run.Found)},
		},
	})
	md.PlainText("")

	md.H2("Findings")
	md.PlainText("")
	if len(findings) == 0 {
		md.PlainText("No findings.")
		md.PlainText("")
	} else {
		rows := make([][]string, 0, len(findings))
		for _, f := range findings {
			title := f.Title
			if title == "" {
				title = "-"
			}
			rows = append(rows, []string{
				strconv.Itoa(int(f.StatusCode)),
				escapeCell(f.URL),
				escapeCell(truncateString(title, 60)),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Status", "URL", "Title"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [enumdir](https://github.com/nao1215/enumdir)*")
}

func formatCount(n int64) string {
	return strconv.FormatInt(n, 10)
}

// escapeCell keeps pipes from splitting a table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// truncateString truncates s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
