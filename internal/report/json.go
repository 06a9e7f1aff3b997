package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/enumdir/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string

	// version is copied into every document when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the enumdir version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the document written by JSONWriter. Only the fields that
// belong to the requested view are set.
type JSONReport struct {
	Version  string          `json:"version,omitempty"`
	Summary  *model.Summary  `json:"summary,omitempty"`
	Run      *model.Run      `json:"run,omitempty"`
	Runs     []model.Run     `json:"runs,omitempty"`
	Findings []model.Finding `json:"findings,omitempty"`
}

// WriteSummary outputs the scan summary.
func (w *JSONWriter) WriteSummary(summary *model.Summary) (int, error) {
	return w.writeJSON(JSONReport{Version: w.version, Summary: summary})
}

// WriteRuns outputs the runs. An empty history is written as an empty list.
func (w *JSONWriter) WriteRuns(runs []model.Run) (int, error) {
	if runs == nil {
		runs = []model.Run{}
	}
	return w.writeJSON(struct {
		Version string      `json:"version,omitempty"`
		Runs    []model.Run `json:"runs"`
	}{Version: w.version, Runs: runs})
}

// WriteFindings outputs a run with its findings.
func (w *JSONWriter) WriteFindings(run *model.Run, findings []model.Finding) (int, error) {
	if findings == nil {
		findings = []model.Finding{}
	}
	return w.writeJSON(struct {
		Version  string          `json:"version,omitempty"`
		Run      *model.Run      `json:"run"`
		Findings []model.Finding `json:"findings"`
	}{Version: w.version, Run: run, Findings: findings})
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
