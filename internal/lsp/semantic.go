package lsp

import (
	"github.com/alecthomas/participle/v2/lexer"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"crnc/grammar"
	"crnc/internal/kinetic"
)

// SemanticToken represents a single LSP semantic token entry.
// Line and StartChar are 0-based; TokenType indexes SemanticTokenTypes and
// TokenModifiers is a bitmask over SemanticTokenModifiers.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

// declaringKeywords maps a keyword to the token type of the name it declares.
var declaringKeywords = map[string]string{
	"model":       "namespace",
	"unit":        "type",
	"compartment": "namespace",
	"parameter":   "parameter",
	"species":     "variable",
	"function":    "function",
	"reaction":    "property",
	"event":       "property",
}

var symbols = grammar.CRNLexer.Symbols()

// declaration is a name introduced by the document.
type declaration struct {
	name    string
	keyword string
}

// scan is the lexed form of a document. It survives syntax errors: tokens
// up to the first unlexable character are kept.
type scan struct {
	tokens       []lexer.Token
	declarations []declaration
	kinds        map[string]string
	declares     map[int]bool
}

func scanSource(filename, source string) *scan {
	s := &scan{kinds: make(map[string]string), declares: make(map[int]bool)}

	lex, err := grammar.CRNLexer.LexString(filename, source)
	if err != nil {
		return s
	}
	for {
		tok, err := lex.Next()
		if err != nil {
			log.Debugf("lexing stopped: %s", err)
			break
		}
		if tok.EOF() {
			break
		}
		if tok.Type == symbols["Whitespace"] {
			continue
		}
		s.tokens = append(s.tokens, tok)
	}

	for i := 0; i+1 < len(s.tokens); i++ {
		keyword := s.tokens[i]
		if keyword.Type != symbols["Keyword"] {
			continue
		}
		kind, ok := declaringKeywords[keyword.Value]
		name := s.tokens[i+1]
		if !ok || name.Type != symbols["Ident"] {
			continue
		}
		s.declares[i+1] = true
		if _, seen := s.kinds[name.Value]; !seen {
			s.kinds[name.Value] = kind
			s.declarations = append(s.declarations, declaration{name: name.Value, keyword: keyword.Value})
		}
	}
	return s
}

func collectSemanticTokens(s *scan) []SemanticToken {
	var tokens []SemanticToken

	if s == nil {
		return tokens
	}

	inUnit := false
	for i, tok := range s.tokens {
		switch tok.Type {
		case symbols["Comment"]:
			tokens = append(tokens, makeToken(tok, "comment", 0))
		case symbols["String"]:
			tokens = append(tokens, makeToken(tok, "string", 0))
		case symbols["Number"]:
			tokens = append(tokens, makeToken(tok, "number", 0))
		case symbols["Operator"], symbols["Arrow"]:
			tokens = append(tokens, makeToken(tok, "operator", 0))
		case symbols["Keyword"]:
			if tok.Value == "unit" {
				inUnit = true
			}
			tokens = append(tokens, makeToken(tok, "keyword", 0))
		case symbols["Punctuation"]:
			if tok.Value == ";" {
				inUnit = false
			}
		case symbols["Ident"]:
			tokens = append(tokens, s.identToken(i, tok, inUnit))
		}
	}

	return tokens
}

func (s *scan) identToken(i int, tok lexer.Token, inUnit bool) SemanticToken {
	if kind, ok := s.kinds[tok.Value]; ok {
		mods := 0
		if s.declares[i] {
			mods |= modifier("declaration")
		}
		return makeToken(tok, kind, mods)
	}
	if inUnit {
		return makeToken(tok, "type", 0)
	}
	if _, ok := kinetic.LookupFunction(tok.Value); ok || kinetic.IsBuiltinSymbol(tok.Value) {
		return makeToken(tok, "function", modifier("defaultLibrary"))
	}
	return makeToken(tok, "variable", 0)
}

func makeToken(tok lexer.Token, tokenType string, modifiers int) SemanticToken {
	return SemanticToken{
		Line:           uint32(tok.Pos.Line - 1),
		StartChar:      uint32(tok.Pos.Column - 1),
		Length:         uint32(len(tok.Value)),
		TokenType:      indexOf(SemanticTokenTypes, tokenType),
		TokenModifiers: modifiers,
	}
}

func modifier(name string) int {
	return 1 << indexOf(SemanticTokenModifiers, name)
}

func indexOf(list []string, name string) int {
	for i, item := range list {
		if item == name {
			return i
		}
	}
	return 0
}

var completionKinds = map[string]protocol.CompletionItemKind{
	"model":       protocol.CompletionItemKindModule,
	"unit":        protocol.CompletionItemKindUnit,
	"compartment": protocol.CompletionItemKindModule,
	"parameter":   protocol.CompletionItemKindConstant,
	"species":     protocol.CompletionItemKindVariable,
	"function":    protocol.CompletionItemKindFunction,
	"reaction":    protocol.CompletionItemKindProperty,
	"event":       protocol.CompletionItemKindEvent,
}

// completionItems lists declarations in source order, then builtins and
// keywords.
func completionItems(s *scan) []protocol.CompletionItem {
	var items []protocol.CompletionItem

	add := func(label, detail string, kind protocol.CompletionItemKind) {
		items = append(items, protocol.CompletionItem{
			Label:  label,
			Kind:   &kind,
			Detail: ptrString(detail),
		})
	}

	if s != nil {
		for _, d := range s.declarations {
			add(d.name, d.keyword, completionKinds[d.keyword])
		}
	}
	for _, name := range kinetic.FunctionNames() {
		add(name, "builtin function", protocol.CompletionItemKindFunction)
	}
	for _, name := range kinetic.BuiltinSymbols() {
		add(name, "builtin symbol", protocol.CompletionItemKindConstant)
	}
	for _, keyword := range grammar.Keywords {
		add(keyword, "keyword", protocol.CompletionItemKindKeyword)
	}

	return items
}
