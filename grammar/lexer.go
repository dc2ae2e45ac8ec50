package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Keywords cannot be used as identifiers.
var Keywords = []string{
	"model", "unit", "compartment", "parameter", "species", "function",
	"reaction", "rule", "event", "constraint", "init",
	"in", "modifiers", "rate", "when", "delay", "priority",
	"assign", "algebraic", "const", "keep", "boundary", "amount",
	"conc", "concentration", "units", "dims", "outside", "fast", "reversible",
	"persistent",
}

var CRNLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{Name: "Comment", Pattern: `(?:#|//)[^\n]*`, Action: nil},

		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`, Action: nil},

		// Numbers: 2, 0.5, .5, 1e-9
		{Name: "Number", Pattern: `(?:\d+\.\d*|\.\d+|\d+)(?:[eE][-+]?\d+)?`, Action: nil},

		// Keywords before identifiers
		{Name: "Keyword", Pattern: `(?:model|unit|compartment|parameter|species|function|reaction|rule|event|constraint|init|in|modifiers|rate|when|delay|priority|assign|algebraic|const|keep|boundary|amount|concentration|conc|units|dims|outside|fast|reversible|persistent)\b`, Action: nil},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Action: nil},

		// Reaction arrows must come before operators
		{Name: "Arrow", Pattern: `<->|->`, Action: nil},

		{Name: "Operator", Pattern: `\|\||&&|==|!=|<=|>=|<<|>>|[-+*/^<>=!&|]`, Action: nil},

		{Name: "Punctuation", Pattern: `[{}(),;:]`, Action: nil},

		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})
