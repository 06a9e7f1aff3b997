// Package report renders scan summaries and the run history.
//
// Three formats are available: plain text for the terminal, JSON for other
// tools and Markdown for sharing. Every format implements Writer, so the CLI
// picks one and writes to stdout or a report file.
package report
