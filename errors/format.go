package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders diagnostics in a Rust-like layout, optionally colored.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new diagnostic formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

func forcedColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

var (
	colorError    = forcedColor(color.FgRed)
	colorErrorHi  = forcedColor(color.FgHiRed, color.Bold)
	colorWarning  = forcedColor(color.FgHiYellow, color.Bold)
	colorCode     = forcedColor(color.FgHiBlack)
	colorLocation = forcedColor(color.FgCyan)
	colorGutter   = forcedColor(color.FgHiBlack)
	colorSource   = forcedColor(color.FgWhite)
	colorCaret    = forcedColor(color.FgHiRed)
	colorHint     = forcedColor(color.FgHiYellow)
	colorNote     = forcedColor(color.FgHiBlue)
)

// FormattedError represents a diagnostic ready for display.
type FormattedError struct {
	Code        ErrorCode
	Kind        string // "lexical error", "syntax error", "warning", ...
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int
	SourceLines []SourceLineEntry
	Hint        string
	Note        string
}

// SourceLineEntry represents a line of source code with its number.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool // the line the diagnostic points at
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// Format formats a single diagnostic.
func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the diagnostic with an optional prefix like "1/5"
// shown in place of the code.
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder

	width := 2
	if err.Line >= 100 {
		width = len(fmt.Sprintf("%d", err.Line))
	}

	f.writeHeader(&b, err, prefix)
	f.writeLocation(&b, err, width)
	f.writeSource(&b, err, width)
	if err.Hint != "" {
		f.writeTrailer(&b, colorHint, "hint: ", err.Hint, width, true)
	}
	if err.Note != "" {
		f.writeTrailer(&b, colorNote, "note: ", err.Note, width, false)
	}
	return b.String()
}

func (f *Formatter) writeHeader(b *strings.Builder, err *FormattedError, prefix string) {
	label := "error"
	if err.Kind != "" {
		label = err.Kind
	}
	if label == "warning" {
		b.WriteString(f.paint(colorWarning, label))
	} else {
		b.WriteString(f.paint(colorErrorHi, label))
	}

	if err.Code != "" {
		b.WriteString(f.paint(colorCode, "["+string(err.Code)+"]"))
	} else if prefix != "" {
		b.WriteString(f.paint(colorCode, "["+prefix+"]"))
	}

	b.WriteString(f.paint(colorError, ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")
}

func (f *Formatter) writeLocation(b *strings.Builder, err *FormattedError, width int) {
	if err.Line == 0 && err.Filename == "" {
		return
	}
	loc := err.Filename
	if err.Line > 0 {
		if loc != "" {
			loc += ":"
		}
		loc += fmt.Sprintf("%d:%d", err.Line, err.Column)
	}
	b.WriteString(strings.Repeat(" ", width))
	b.WriteString(f.paint(colorLocation, "-->"))
	b.WriteString(" ")
	b.WriteString(f.paint(colorLocation, loc))
	b.WriteString("\n")
}

func (f *Formatter) writeSource(b *strings.Builder, err *FormattedError, width int) {
	if len(err.SourceLines) == 0 {
		return
	}
	padding := strings.Repeat(" ", width)
	b.WriteString(padding)
	b.WriteString(f.paint(colorGutter, " |\n"))

	for _, line := range err.SourceLines {
		b.WriteString(f.paint(colorGutter, fmt.Sprintf("%*d", width, line.Number)))
		b.WriteString(f.paint(colorGutter, " | "))
		b.WriteString(f.paint(colorSource, line.Text))
		b.WriteString("\n")

		if !line.IsMain || err.Column <= 0 {
			continue
		}
		b.WriteString(padding)
		b.WriteString(f.paint(colorGutter, " | "))
		b.WriteString(strings.Repeat(" ", err.Column-1))
		n := 1
		if err.EndColumn > err.Column {
			n = err.EndColumn - err.Column + 1
		}
		b.WriteString(f.paint(colorCaret, strings.Repeat("^", n)))
		b.WriteString("\n")
	}
}

func (f *Formatter) writeTrailer(b *strings.Builder, c *color.Color, label, text string, width int, gap bool) {
	padding := strings.Repeat(" ", width)
	if gap {
		b.WriteString(padding)
		b.WriteString(f.paint(colorGutter, " |\n"))
	}
	b.WriteString(padding)
	b.WriteString(f.paint(colorGutter, " = "))
	b.WriteString(f.paint(c, label))
	b.WriteString(text)
	b.WriteString("\n")
}

// FormatMultiple formats several diagnostics, numbering them when there is
// more than one.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return f.Format(errs[0])
	}

	var b strings.Builder
	total := len(errs)
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.FormatWithPrefix(err, fmt.Sprintf("%d/%d", i+1, total)))
	}
	b.WriteString("\n")
	b.WriteString(f.paint(colorErrorHi, fmt.Sprintf("found %d diagnostics", total)))
	b.WriteString("\n")
	return b.String()
}
