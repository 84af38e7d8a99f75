// Package display writes rendered answers and admin lists to a terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/soundprediction/go-askagent/pkg/types"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorBold  = "\033[1m"
)

// Printer formats views for a terminal.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// View writes an answer block or an error line.
func (p *Printer) View(view types.RenderedView) error {
	if view.IsError() {
		return p.Error(view.Error)
	}

	var b strings.Builder
	b.WriteString(p.bold("Answer:"))
	b.WriteString("\n")
	b.WriteString(view.Answer)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", p.bold("Context used:"), view.Context)
	fmt.Fprintf(&b, "%s %s\n", p.bold("Similarity:"), view.Score)

	_, err := io.WriteString(p.w, b.String())
	return err
}

// Error writes msg in the error style.
func (p *Printer) Error(msg string) error {
	line := "Error: " + msg
	if p.color {
		line = colorRed + line + colorReset
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// Questions writes the pending list, one question per line.
func (p *Printer) Questions(questions []types.UnansweredQuestion) error {
	if len(questions) == 0 {
		_, err := fmt.Fprintln(p.w, "No pending questions!")
		return err
	}

	var b strings.Builder
	for _, q := range questions {
		fmt.Fprintf(&b, "%s %s\n", p.bold(fmt.Sprintf("[%d]", q.ID)), q.Text)
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Line writes a plain message.
func (p *Printer) Line(format string, args ...any) error {
	_, err := fmt.Fprintf(p.w, format+"\n", args...)
	return err
}

func (p *Printer) bold(s string) string {
	if !p.color {
		return s
	}
	return colorBold + s + colorReset
}

// Prompt writes s without a trailing newline.
func (p *Printer) Prompt(s string) error {
	_, err := io.WriteString(p.w, s)
	return err
}
