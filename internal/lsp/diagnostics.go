package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"crnc/internal/errors"
)

// ConvertDiagnostics transforms front-end diagnostics into LSP diagnostics.
// Suggestions and notes are appended to the message. The result is never
// nil, so publishing it clears stale markers.
func ConvertDiagnostics(diags []errors.CompilerError) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(diags))

	for _, d := range diags {
		line := uint32(max(d.Position.Line-1, 0))
		start := uint32(max(d.Position.Column-1, 0))
		length := uint32(max(d.Length, 1))

		message := d.Message
		for _, s := range d.Suggestions {
			message += "\nhelp: " + s.Message
		}
		for _, note := range d.Notes {
			message += "\nnote: " + note
		}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: start},
				End:   protocol.Position{Line: line, Character: start + length},
			},
			Severity: ptrSeverity(severity(d.Level)),
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   ptrString("crnc"),
			Message:  message,
		})
	}

	return diagnostics
}

func severity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.LevelWarning:
		return protocol.DiagnosticSeverityWarning
	case errors.LevelNote:
		return protocol.DiagnosticSeverityInformation
	case errors.LevelHelp:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
