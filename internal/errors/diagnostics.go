package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with suggestions
type DiagnosticBuilder struct {
	err CompilerError
}

// NewDiagnostic creates a new error-level diagnostic builder
func NewDiagnostic(code, message string, pos Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    LevelError,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning-level diagnostic builder
func NewWarning(code, message string, pos Position) *DiagnosticBuilder {
	b := NewDiagnostic(code, message, pos)
	b.err.Level = LevelWarning
	return b
}

// WithLength sets the length of the error span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *DiagnosticBuilder) WithReplacement(message, replacement string, pos Position, length int) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

// WithNote adds a note to the error
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// SyntaxError wraps a grammar failure.
func SyntaxError(message string, pos Position) CompilerError {
	return NewDiagnostic(ErrorSyntax, message, pos).Build()
}

// UndefinedIdentifier creates an error for undeclared names with suggestions
func UndefinedIdentifier(name string, pos Position, similarNames []string) CompilerError {
	builder := NewDiagnostic(ErrorUndefinedIdentifier, fmt.Sprintf("undefined identifier '%s'", name), pos).
		WithLength(len(name))

	switch len(similarNames) {
	case 0:
		builder = builder.WithSuggestion("declare it as a species, parameter or compartment").
			WithNote("identifiers must be declared before the end of the model block")
	case 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similarNames[0]))
	default:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similarNames, "', '")))
	}

	return builder.Build()
}

// DuplicateDeclaration creates an error for duplicate declarations
func DuplicateDeclaration(name string, pos Position) CompilerError {
	return NewDiagnostic(ErrorDuplicateDeclaration, fmt.Sprintf("duplicate declaration: %s", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("rename the duplicate '%s' to a unique name", name)).
		WithNote("species, parameters, compartments and reactions share one namespace").
		Build()
}

// InvalidArguments creates an error for function call argument mismatches
func InvalidArguments(functionName string, expected, actual int, pos Position) CompilerError {
	return NewDiagnostic(ErrorInvalidArguments,
		fmt.Sprintf("function '%s' expects %d arguments, got %d", functionName, expected, actual), pos).
		WithLength(len(functionName)).
		WithSuggestion(fmt.Sprintf("provide exactly %d argument(s)", expected)).
		Build()
}

// InvalidStoichiometry creates an error for a stoichiometry that is not a number or parameter
func InvalidStoichiometry(text string, pos Position) CompilerError {
	return NewDiagnostic(ErrorInvalidStoichiometry,
		fmt.Sprintf("invalid stoichiometry '%s'", text), pos).
		WithLength(len(text)).
		WithHelp("write a number such as 2 or 0.5, or the id of a parameter").
		Build()
}

// InvalidUnit creates an error for a malformed unit definition
func InvalidUnit(kind string, pos Position, similar []string) CompilerError {
	builder := NewDiagnostic(ErrorInvalidUnit, fmt.Sprintf("unknown unit kind '%s'", kind), pos).
		WithLength(len(kind))
	if len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	}
	return builder.Build()
}

// UnusedSpecies warns about a species that nothing refers to
func UnusedSpecies(name string, pos Position) CompilerError {
	return NewWarning(WarningUnusedSpecies, fmt.Sprintf("species '%s' is never used", name), pos).
		WithLength(len(name)).
		WithSuggestion("remove it, or flag it 'keep' if it is an observable").
		Build()
}

// UnusedParameter warns about a parameter that no law reads
func UnusedParameter(name string, pos Position) CompilerError {
	return NewWarning(WarningUnusedParameter, fmt.Sprintf("parameter '%s' is never used", name), pos).
		WithLength(len(name)).
		Build()
}

// InvalidAttribute reports an attribute attached to the wrong kind of declaration
func InvalidAttribute(attr, declaration string, pos Position) CompilerError {
	return NewDiagnostic(ErrorInvalidAttribute,
		fmt.Sprintf("attribute '%s' does not apply to a %s", attr, declaration), pos).
		WithLength(len(attr)).
		Build()
}

// InvalidTarget reports an assignment to something that holds no value
func InvalidTarget(name, kind string, pos Position) CompilerError {
	return NewDiagnostic(ErrorInvalidTarget,
		fmt.Sprintf("cannot assign to %s '%s'", kind, name), pos).
		WithLength(len(name)).
		WithHelp("rules, events and init statements may only target species, parameters or compartments").
		Build()
}

// FromError converts a core error into a diagnostic at pos.
func FromError(err error, pos Position) CompilerError {
	code := ""
	var e *Error
	if As(err, &e) {
		code = e.Code()
	}
	return NewDiagnostic(code, err.Error(), pos).Build()
}

// FindSimilarNames returns candidates within edit distance 2 of target, closest first.
func FindSimilarNames(target string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}

	var matches []scored
	for _, c := range candidates {
		if c == target || len(c) <= 1 {
			continue
		}
		if d := levenshtein.Distance(target, c, nil); d <= 2 {
			matches = append(matches, scored{c, d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}
