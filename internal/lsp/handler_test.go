package lsp_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"crnc/internal/errors"
	"crnc/internal/lsp"
)

func toggleURI(t *testing.T) string {
	t.Helper()
	absPath, err := filepath.Abs(filepath.Join("../frontend/testdata", "toggle.crn"))
	require.NoError(t, err, "Failed to get absolute path")
	return "file://" + filepath.ToSlash(absPath)
}

// recorder captures published diagnostics.
type recorder struct {
	published []*protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				r.published = append(r.published, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
}

func (r *recorder) last(t *testing.T) []protocol.Diagnostic {
	t.Helper()
	require.NotEmpty(t, r.published, "no diagnostics published")
	return r.published[len(r.published)-1].Diagnostics
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	handler := lsp.NewCRNHandler()

	ctx := &glsp.Context{}
	params := &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{
			URI: toggleURI(t),
		},
	}

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, params)
	require.NoError(t, err, "TextDocumentSemanticTokensFull returned error")
	require.NotNil(t, tokens, "Returned tokens should not be nil")
	require.NotEmpty(t, tokens.Data, "Returned token data should not be empty")

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err, "Failed to decode semantic tokens")
	require.Len(t, decoded, 151)

	assertToken(t, &decoded[0], 1, 1, 55, "comment", nil)
	assertToken(t, &decoded[1], 2, 1, 5, "keyword", nil)
	assertToken(t, &decoded[2], 2, 7, 6, "namespace", []string{"declaration"})
	assertToken(t, &decoded[3], 3, 5, 4, "keyword", nil)
	assertToken(t, &decoded[4], 3, 10, 5, "type", []string{"declaration"})
	assertToken(t, &decoded[5], 3, 16, 1, "operator", nil)
	assertToken(t, &decoded[6], 3, 18, 6, "type", nil)
	assertToken(t, &decoded[7], 3, 24, 1, "operator", nil)
	assertToken(t, &decoded[8], 3, 25, 1, "operator", nil)
	assertToken(t, &decoded[9], 3, 26, 1, "number", nil)
	assertToken(t, &decoded[11], 4, 17, 4, "namespace", []string{"declaration"})
	assertToken(t, &decoded[16], 5, 15, 5, "parameter", []string{"declaration"})
	assertToken(t, &decoded[21], 5, 38, 5, "type", nil)
	assertToken(t, &decoded[30], 7, 22, 3, "number", nil)
	assertToken(t, &decoded[35], 9, 13, 1, "variable", []string{"declaration"})
	assertToken(t, &decoded[37], 9, 18, 4, "namespace", nil)
	assertToken(t, &decoded[62], 13, 14, 7, "function", []string{"declaration"})
	assertToken(t, &decoded[63], 13, 22, 1, "variable", nil)
	assertToken(t, &decoded[74], 14, 14, 5, "property", []string{"declaration"})
	assertToken(t, &decoded[75], 14, 21, 2, "operator", nil)
	assertToken(t, &decoded[77], 14, 26, 9, "keyword", nil)
	assertToken(t, &decoded[126], 18, 17, 5, "parameter", nil)
	assertToken(t, &decoded[132], 19, 11, 6, "property", []string{"declaration"})
	assertToken(t, &decoded[134], 19, 23, 4, "function", []string{"defaultLibrary"})
	assertToken(t, &decoded[135], 19, 28, 2, "operator", nil)
	assertToken(t, &decoded[144], 20, 23, 26, "string", nil)
	assertToken(t, &decoded[150], 21, 21, 1, "number", nil)
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	handler := lsp.NewCRNHandler()
	rec := &recorder{}

	uri := "file:///tmp/broken.crn"
	err := handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  uri,
			Text: "model m {\n    parameter kfwd = 1 const;\n    species A = 1 keep;\n    reaction r: A -> rate kfw * A;\n}\n",
		},
	})
	require.NoError(t, err)

	require.Len(t, rec.published, 1)
	assert.Equal(t, uri, rec.published[0].URI)

	diags := rec.last(t)
	require.NotEmpty(t, diags)
	first := diags[0]
	assert.Equal(t, protocol.DiagnosticSeverityError, *first.Severity)
	assert.Equal(t, errors.ErrorUndefinedIdentifier, first.Code.Value)
	assert.Equal(t, uint32(3), first.Range.Start.Line)
	assert.Equal(t, uint32(3), first.Range.End.Character-first.Range.Start.Character)
	assert.Contains(t, first.Message, "undefined identifier 'kfw'")
	assert.Contains(t, first.Message, "did you mean 'kfwd'?")
}

func TestDidChangeClearsDiagnostics(t *testing.T) {
	handler := lsp.NewCRNHandler()
	rec := &recorder{}
	uri := "file:///tmp/edit.crn"

	require.NoError(t, handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "model m {\n    species A = 1 keep\n}\n"},
	}))
	diags := rec.last(t)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.ErrorSyntax, diags[0].Code.Value)

	require.NoError(t, handler.TextDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "model m {\n    species A = 1 keep;\n}\n"},
		},
	}))
	diags = rec.last(t)
	assert.NotNil(t, diags)
	assert.Empty(t, diags)
}

func TestTextDocumentCompletion(t *testing.T) {
	handler := lsp.NewCRNHandler()

	result, err := handler.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: toggleURI(t)},
		},
	})
	require.NoError(t, err)

	list, ok := result.(*protocol.CompletionList)
	require.True(t, ok)

	details := make(map[string]string)
	for _, item := range list.Items {
		if _, seen := details[item.Label]; !seen {
			details[item.Label] = *item.Detail
		}
	}
	assert.Equal(t, "model", details["toggle"])
	assert.Equal(t, "species", details["IPTG"])
	assert.Equal(t, "parameter", details["alpha"])
	assert.Equal(t, "function", details["repress"])
	assert.Equal(t, "reaction", details["degV"])
	assert.Equal(t, "unit", details["per_s"])
	assert.Equal(t, "builtin function", details["sqrt"])
	assert.Equal(t, "builtin symbol", details["time"])
	assert.Equal(t, "keyword", details["modifiers"])
	assert.Equal(t, "toggle", list.Items[0].Label)
}

func TestDidCloseForgetsDocument(t *testing.T) {
	handler := lsp.NewCRNHandler()
	rec := &recorder{}
	uri := "file:///tmp/closed.crn"

	require.NoError(t, handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "model m { species A = 1 keep; }"},
	}))
	require.NoError(t, handler.TextDocumentDidClose(rec.context(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))

	// The file does not exist on disk, so a closed document cannot be served.
	_, err := handler.TextDocumentCompletion(rec.context(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	assert.Error(t, err)
}

func TestConvertDiagnosticsSeverity(t *testing.T) {
	pos := errors.Position{Line: 2, Column: 5}
	diags := lsp.ConvertDiagnostics([]errors.CompilerError{
		errors.UnusedSpecies("X", pos),
		errors.SyntaxError("unexpected token", pos),
	})
	require.Len(t, diags, 2)

	assert.Equal(t, protocol.DiagnosticSeverityWarning, *diags[0].Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[1].Severity)
	assert.Equal(t, uint32(1), diags[1].Range.Start.Line)
	assert.Equal(t, uint32(4), diags[1].Range.Start.Character)
	assert.Equal(t, "crnc", *diags[1].Source)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1,
			Char:      char + 1,
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
