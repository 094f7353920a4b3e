package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Printer renders diagnostics with the offending source line and a caret underline.
type Printer struct {
	w       io.Writer
	errorC  *color.Color
	warnC   *color.Color
	gutterC *color.Color
	caretC  *color.Color
}

// NewPrinter returns a Printer writing to w. Colors are emitted only when useColor
// is set.
func NewPrinter(w io.Writer, useColor bool) *Printer {
	p := &Printer{
		w:       w,
		errorC:  color.New(color.FgRed, color.Bold),
		warnC:   color.New(color.FgYellow, color.Bold),
		gutterC: color.New(color.FgBlue),
		caretC:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.errorC, p.warnC, p.gutterC, p.caretC} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Print writes every diagnostic of ds found in src, labelled with path.
func (p *Printer) Print(path, src string, ds []Diagnostic) error {
	lines := strings.Split(src, "\n")
	for _, d := range ds {
		if err := p.printOne(path, lines, d); err != nil {
			return err
		}
	}
	return nil
}

// Summary writes the "N errors, M warnings" trailer.
func (p *Printer) Summary(ds []Diagnostic) error {
	errs, warns := Count(ds)
	_, err := fmt.Fprintf(p.w, "%s, %s\n", plural(errs, "error"), plural(warns, "warning"))
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func (p *Printer) printOne(path string, lines []string, d Diagnostic) error {
	sevC := p.errorC
	if d.Severity == SevWarning {
		sevC = p.warnC
	}
	start, end := d.Token.Start, d.Token.End
	if _, err := fmt.Fprintf(p.w, "%s:%d:%d: %s: %s\n", path, start.Line, start.Column,
		sevC.Sprintf("%s[%s]", d.Severity, d.Code), d.Message); err != nil {
		return err
	}
	if start.Line < 1 || start.Line > len(lines) {
		return nil
	}

	line := strings.TrimRight(strings.ReplaceAll(lines[start.Line-1], "\t", " "), "\r")
	runes := []rune(line)
	from := clamp(start.Column-1, 0, len(runes))
	to := len(runes)
	if end.Line == start.Line {
		to = clamp(end.Column-1, from, len(runes))
	}
	pad := runewidth.StringWidth(string(runes[:from]))
	width := runewidth.StringWidth(string(runes[from:to]))
	if width < 1 {
		width = 1
	}

	gutter := fmt.Sprintf("%4d | ", start.Line)
	blank := strings.Repeat(" ", len(gutter)-2) + "| "
	_, err := fmt.Fprintf(p.w, "%s%s\n%s%s%s\n",
		p.gutterC.Sprint(gutter), line,
		p.gutterC.Sprint(blank), strings.Repeat(" ", pad), p.caretC.Sprint(strings.Repeat("^", width)))
	return err
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
