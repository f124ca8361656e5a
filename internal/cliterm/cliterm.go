// Package cliterm renders diagnostics and status lines for the sig CLI,
// detecting color support with mattn/go-isatty and styling output with
// lipgloss the way the teacher gates its own terminal output.
package cliterm

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/sigtools/sig/internal/sigerrors"
)

// Semantic colors, kept few and fixed rather than a full palette since the
// CLI only ever needs to distinguish success/warning/error/muted.
var (
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#6C7A89")
)

// Styles are the pre-built lipgloss styles used to render diagnostic
// severities and status lines.
var Styles = struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
}{
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(ColorError),
	Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	Bold:    lipgloss.NewStyle().Bold(true),
}

// SupportsColor reports whether w is a real terminal and the NO_COLOR
// convention (https://no-color.org/) hasn't opted out, mirroring the
// teacher's own isatty + NO_COLOR gate.
func SupportsColor(w *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
}

// Printer writes diagnostics and status lines to Out, styling them only
// when Color is true.
type Printer struct {
	Out   io.Writer
	Color bool
}

// New builds a Printer targeting out, auto-detecting color support when out
// is an *os.File.
func New(out io.Writer) *Printer {
	p := &Printer{Out: out}
	if f, ok := out.(*os.File); ok {
		p.Color = SupportsColor(f)
	}
	return p
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.Color {
		return text
	}
	return s.Render(text)
}

// Diagnostic writes one diagnostic, styled red, in "file:line:col: [code]
// message" form.
func (p *Printer) Diagnostic(d *sigerrors.Diagnostic) {
	fmt.Fprintln(p.Out, p.style(Styles.Error, d.Error()))
}

// Diagnostics writes every diagnostic in the bag, then a summary line.
func (p *Printer) Diagnostics(bag *sigerrors.Bag) {
	for _, d := range bag.All() {
		p.Diagnostic(d)
	}
	if bag.Empty() {
		fmt.Fprintln(p.Out, p.style(Styles.Success, "no diagnostics"))
		return
	}
	count := humanize.Comma(int64(len(bag.All())))
	fmt.Fprintln(p.Out, p.style(Styles.Muted, fmt.Sprintf("%s diagnostic(s)", count)))
}

// Success writes a styled success line.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.Out, p.style(Styles.Success, msg))
}

// Warning writes a styled warning line.
func (p *Printer) Warning(msg string) {
	fmt.Fprintln(p.Out, p.style(Styles.Warning, msg))
}
