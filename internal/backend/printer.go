package backend

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Printer accumulates indented output lines.
type Printer struct {
	indent int
	step   string
	output strings.Builder
}

// NewPrinter creates a printer indenting by step per level.
func NewPrinter(step string) *Printer {
	return &Printer{step: step}
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString(p.step)
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	if format == "" {
		p.output.WriteString("\n")
		return
	}
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) String() string {
	return p.output.String()
}

// flush writes the accumulated output to w.
func (p *Printer) flush(w io.Writer) error {
	_, err := io.WriteString(w, p.output.String())
	return err
}

// formatNumber prints v the shortest way the front end reads back.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
