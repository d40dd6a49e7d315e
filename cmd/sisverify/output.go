package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/meigma/sisverify"
)

type printer struct {
	w      io.Writer
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	bold   *color.Color
	faint  *color.Color
}

func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:      w,
		green:  color.New(color.FgGreen, color.Bold),
		red:    color.New(color.FgRed, color.Bold),
		yellow: color.New(color.FgYellow),
		bold:   color.New(color.Bold),
		faint:  color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{p.green, p.red, p.yellow, p.bold, p.faint} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) heading(format string, args ...any) {
	p.bold.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) ok(format string, args ...any) {
	p.green.Fprint(p.w, "✓ ")
	p.line(format, args...)
}

func (p *printer) fail(format string, args ...any) {
	p.red.Fprint(p.w, "✗ ")
	p.line(format, args...)
}

func (p *printer) field(name, value string) {
	p.faint.Fprintf(p.w, "  %-16s", name)
	fmt.Fprintln(p.w, value)
}

// status renders a verification status as a fixed-width, colored tag.
func (p *printer) status(s sisverify.Status) string {
	tag := fmt.Sprintf("%-14s", s.String())
	switch s {
	case sisverify.StatusMatch:
		return p.green.Sprint(tag)
	case sisverify.StatusMismatch, sisverify.StatusError:
		return p.red.Sprint(tag)
	case sisverify.StatusUnavailable, sisverify.StatusNoTransaction:
		return p.yellow.Sprint(tag)
	default:
		return p.faint.Sprint(tag)
	}
}
