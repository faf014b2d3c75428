// Package ui renders the human-readable progress trace for modflow
// commands: section banners and the per-step success/warning/error markers
// the rest of the pipeline uses.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerWidth = 60

var (
	colorPass = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorInfo = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}

	passStyle   = lipgloss.NewStyle().Foreground(colorPass)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
	failStyle   = lipgloss.NewStyle().Foreground(colorFail)
	infoStyle   = lipgloss.NewStyle().Foreground(colorInfo)
	bannerStyle = lipgloss.NewStyle().Bold(true)
)

// Printer writes the progress trace to a single destination. The zero value
// is not usable; construct with New.
type Printer struct {
	out io.Writer
}

// New creates a printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Banner prints a major section banner framed with '='.
func (p *Printer) Banner(title string) {
	p.banner(title, "=")
}

// Section prints a minor section banner framed with '─'.
func (p *Printer) Section(title string) {
	p.banner(title, "─")
}

func (p *Printer) banner(title, char string) {
	line := strings.Repeat(char, bannerWidth)
	fmt.Fprintf(p.out, "\n%s\n%s\n%s\n", line, bannerStyle.Render("  "+title), line)
}

// Success prints a per-step success marker.
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "  %s %s\n", passStyle.Render("✅"), fmt.Sprintf(format, args...))
}

// Warning prints a non-fatal problem marker.
func (p *Printer) Warning(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "  %s  %s\n", warnStyle.Render("⚠️"), fmt.Sprintf(format, args...))
}

// Error prints a fatal problem marker.
func (p *Printer) Error(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "  %s %s\n", failStyle.Render("❌"), fmt.Sprintf(format, args...))
}

// Info prints an informational marker.
func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "  %s  %s\n", infoStyle.Render("ℹ️"), fmt.Sprintf(format, args...))
}

// Printf prints unadorned text.
func (p *Printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}
