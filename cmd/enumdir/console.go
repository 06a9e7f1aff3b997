package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/nao1215/enumdir/internal/model"
)

var (
	successColor  = color.New(color.FgGreen)
	redirectColor = color.New(color.FgCyan)
	deniedColor   = color.New(color.FgYellow)
	errorColor    = color.New(color.FgRed)
	infoColor     = color.New(color.FgWhite, color.Bold)
)

// console echoes written results and drives the optional progress bar.
// It is called from the sink goroutine only.
type console struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// newConsole returns a console writing found lines to out. When progress is
// set a bar is drawn on errOut; total -1 draws a spinner.
func newConsole(out, errOut io.Writer, total int64, progress bool) *console {
	c := &console{out: out}
	if progress {
		c.bar = progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(errOut),
			progressbar.OptionSetDescription("scanning"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("req"),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	return c
}

// observe is the sink observer.
func (c *console) observe(r model.Result, written bool) {
	if written {
		if c.bar != nil {
			_ = c.bar.Clear()
		}
		statusColor(r.StatusCode).Fprintln(c.out, r.Line())
	}
	if c.bar != nil {
		_ = c.bar.Add(1)
	}
}

func (c *console) finish() {
	if c.bar != nil {
		_ = c.bar.Finish()
	}
}

// statusColor picks the line color for a status code class.
func statusColor(code uint16) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return successColor
	case code >= 300 && code < 400:
		return redirectColor
	case code == 401 || code == 403:
		return deniedColor
	case code >= 500:
		return errorColor
	default:
		return infoColor
	}
}

// printHeader writes the scan banner.
func printHeader(w io.Writer, target, mode, method string, workers int, total int64) {
	infoColor.Fprintf(w, "enumdir %s\n", getVersion())
	fmt.Fprintf(w, "  target:  %s\n", target)
	fmt.Fprintf(w, "  mode:    %s\n", mode)
	fmt.Fprintf(w, "  method:  %s\n", method)
	fmt.Fprintf(w, "  workers: %d\n", workers)
	if total >= 0 {
		fmt.Fprintf(w, "  paths:   %d\n", total)
	}
	fmt.Fprintln(w)
}
