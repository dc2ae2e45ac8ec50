package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"crnc/internal/errors"
)

var (
	fileParser = participle.MustBuild[File](
		participle.Lexer(CRNLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
		participle.UseLookahead(3),
	)
	formulaParser = participle.MustBuild[Expr](
		participle.Lexer(CRNLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(3),
	)
)

// ParseFile reads and parses a .crn file.
func ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// ParseString parses .crn source. filename is used in positions only.
func ParseString(filename, source string) (*File, error) {
	return fileParser.ParseString(filename, source)
}

// ParseFormula parses a single formula such as "k1 * A / (Km + A)".
func ParseFormula(source string) (*Expr, error) {
	return formulaParser.ParseString("", source)
}

// Diagnostic converts a parse failure into a positioned syntax error.
func Diagnostic(err error) errors.CompilerError {
	pe, ok := err.(participle.Error)
	if !ok {
		return errors.SyntaxError(err.Error(), errors.Position{Line: 1, Column: 1})
	}
	pos := pe.Position()
	return errors.SyntaxError(pe.Message(), Position(pos))
}

// Format parses source and prints it back in canonical layout. Comments
// are not preserved.
func Format(filename, source string) (string, error) {
	file, err := ParseString(filename, source)
	if err != nil {
		return "", err
	}
	return file.String(), nil
}
