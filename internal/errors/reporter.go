package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Position is a location in model source. Line and Column are 1-based.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	LevelError   ErrorLevel = "error"
	LevelWarning ErrorLevel = "warning"
	LevelNote    ErrorLevel = "note"
	LevelHelp    ErrorLevel = "help"
)

// CompilerError represents a structured error with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Code        string       // Error code like E0001
	Message     string       // Primary error message
	Position    Position     // Location in source
	Length      int          // Length of the problematic region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string       // Help text for the error
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string   // Description of the suggestion
	Replacement string   // Suggested replacement text (optional)
	Position    Position // Position to apply the fix (optional)
	Length      int      // Length of text to replace (optional)
}

// ErrorReporter renders diagnostics against the model source they came from
type ErrorReporter struct {
	filename string
	source   string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

// Error implements the error interface so diagnostics can be returned as errors.
func (e CompilerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s[%s]: %s at %s", e.Level, e.Code, e.Message, e.Position)
	}
	return fmt.Sprintf("%s: %s at %s", e.Level, e.Message, e.Position)
}

// IsError reports whether the diagnostic blocks compilation.
func (e CompilerError) IsError() bool {
	return e.Level == LevelError
}

// FormatAll formats every diagnostic in order.
func (er *ErrorReporter) FormatAll(errs []CompilerError) string {
	var b strings.Builder
	for _, err := range errs {
		b.WriteString(er.FormatError(err))
	}
	return b.String()
}

// FormatError renders one diagnostic with the offending source line, a
// marker under the span, and any suggestions or notes:
//
//	error[E0200]: undefined identifier 'kdg'
//	   --> toggle.crn:4:27
//	    │
//	  4 │     reaction r: A -> rate kdg * A;
//	    │                           ^^^
//	    = help: did you mean 'kdeg'?
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var b strings.Builder
	levelColor := er.getLevelColor(err.Level)
	dim := color.New(color.Faint).SprintFunc()

	if err.Code != "" {
		fmt.Fprintf(&b, "%s: %s\n", levelColor(fmt.Sprintf("%s[%s]", err.Level, err.Code)), err.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", levelColor(string(err.Level)), err.Message)
	}

	width := er.getLineNumberWidth(err.Position.Line)
	gutter := strings.Repeat(" ", width)
	fmt.Fprintf(&b, "%s %s %s:%d:%d\n", gutter, dim("-->"), er.filename, err.Position.Line, err.Position.Column)

	if line, ok := er.line(err.Position.Line); ok {
		fmt.Fprintf(&b, "%s %s\n", gutter, dim("│"))
		fmt.Fprintf(&b, "%s %s %s\n", color.New(color.Bold).Sprintf("%*d", width, err.Position.Line), dim("│"), line)
		fmt.Fprintf(&b, "%s %s %s\n", gutter, dim("│"), er.createMarker(err.Position.Column, err.Length, err.Level))
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	for _, s := range err.Suggestions {
		fmt.Fprintf(&b, "%s %s %s %s\n", gutter, dim("="), cyan("help:"), s.Message)
		if s.Replacement != "" {
			fmt.Fprintf(&b, "%s %s %s\n", gutter, dim("│"), cyan(s.Replacement))
		}
	}
	blue := color.New(color.FgBlue).SprintFunc()
	for _, note := range err.Notes {
		fmt.Fprintf(&b, "%s %s %s %s\n", gutter, dim("="), blue("note:"), note)
	}
	if err.HelpText != "" {
		fmt.Fprintf(&b, "%s %s %s %s\n", gutter, dim("="), color.New(color.FgGreen).Sprint("help:"), err.HelpText)
	}

	b.WriteString("\n")
	return b.String()
}

// Summary counts diagnostics by level, e.g. "2 errors, 1 warning".
func Summary(errs []CompilerError) string {
	var nErrors, nWarnings int
	for _, err := range errs {
		switch err.Level {
		case LevelError:
			nErrors++
		case LevelWarning:
			nWarnings++
		}
	}
	return plural(nErrors, "error") + ", " + plural(nWarnings, "warning")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// line returns the 1-based source line n.
func (er *ErrorReporter) line(n int) (string, bool) {
	if n < 1 || n > len(er.lines) {
		return "", false
	}
	return er.lines[n-1], true
}

func (er *ErrorReporter) getLevelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case LevelWarning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case LevelNote:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case LevelHelp:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// createMarker underlines length characters starting at column.
func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	return strings.Repeat(" ", max(0, column-1)) + er.getLevelColor(level)(strings.Repeat("^", max(1, length)))
}

func (er *ErrorReporter) getLineNumberWidth(line int) int {
	return max(3, len(fmt.Sprint(line)))
}
