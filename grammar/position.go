package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"

	"crnc/internal/errors"
)

// Position converts a lexer position for diagnostics.
func Position(pos lexer.Position) errors.Position {
	return errors.Position{
		Filename: pos.Filename,
		Offset:   pos.Offset,
		Line:     pos.Line,
		Column:   pos.Column,
	}
}
