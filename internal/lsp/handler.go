package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"crnc/internal/frontend"
)

var log = commonlog.GetLogger("crnc.lsp")

// SemanticTokenTypes is the token type legend advertised to clients.
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"typeParameter",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"operator",
	"modifier",
	"comment",
	"string",
}

// SemanticTokenModifiers is the token modifier legend advertised to clients.
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"static",
	"deprecated",
	"abstract",
	"defaultLibrary",
}

// document is the analysed state of one open .crn file.
type document struct {
	content string
	scan    *scan
}

// CRNHandler implements the LSP server handlers for .crn model files.
type CRNHandler struct {
	mu        sync.RWMutex
	documents map[string]*document
}

func NewCRNHandler() *CRNHandler {
	return &CRNHandler{
		documents: make(map[string]*document),
	}
}

// Initialize advertises the server's capabilities.
func (h *CRNHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *CRNHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *CRNHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *CRNHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	log.Debugf("trace set to %s", params.Value)
	return nil
}

// TextDocumentDidOpen analyses the opened text and publishes its diagnostics.
func (h *CRNHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	sendDiagnosticNotification(ctx, params.TextDocument.URI, h.update(path, params.TextDocument.Text))
	return nil
}

func (h *CRNHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.documents, path)
	return nil
}

// TextDocumentDidChange re-analyses the document. Only full-text sync is
// advertised; an incremental change falls back to the file on disk.
func (h *CRNHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	text, ok := latestText(params.ContentChanges)
	if !ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		text = string(content)
	}
	sendDiagnosticNotification(ctx, params.TextDocument.URI, h.update(path, text))
	return nil
}

func latestText(changes []any) (string, bool) {
	if len(changes) == 0 {
		return "", false
	}
	switch change := changes[len(changes)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return change.Text, true
	case *protocol.TextDocumentContentChangeEventWhole:
		return change.Text, true
	}
	return "", false
}

// TextDocumentCompletion offers keywords, the model's declarations and the
// builtin functions and symbols.
func (h *CRNHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	doc, err := h.getOrLoad(ctx, path, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        completionItems(doc.scan),
	}, nil
}

// TextDocumentSemanticTokensFull classifies every token of the document.
func (h *CRNHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	log.Debugf("semantic tokens for %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	doc, err := h.getOrLoad(ctx, path, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	tokens := collectSemanticTokens(doc.scan)

	var data []uint32
	var prevLine, prevStart uint32

	// Delta-encode as the protocol requires.
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

// getOrLoad returns the cached document, reading it from disk when the
// client asks about a file it never opened.
func (h *CRNHandler) getOrLoad(ctx *glsp.Context, path string, rawURI protocol.DocumentUri) (*document, error) {
	h.mu.RLock()
	doc, ok := h.documents[path]
	h.mu.RUnlock()
	if ok {
		return doc, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	sendDiagnosticNotification(ctx, rawURI, h.update(path, string(content)))

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.documents[path], nil
}

// update stores content for path and returns its diagnostics.
func (h *CRNHandler) update(path, content string) []protocol.Diagnostic {
	_, diags := frontend.Load(path, content, "")

	h.mu.Lock()
	h.documents[path] = &document{content: content, scan: scanSource(path, content)}
	h.mu.Unlock()

	return ConvertDiagnostics(diags)
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// /C:/... on Windows
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}

	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
