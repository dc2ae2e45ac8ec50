package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorReporter(t *testing.T) {
	source := `model test {
    species A in cell = 10;
    reaction r1: A -> rate k1 * B;
}`

	reporter := NewErrorReporter("test.crn", source)

	err := UndefinedIdentifier("k1", Position{Line: 3, Column: 29}, []string{"k2", "ka"})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedIdentifier+"]")
	assert.Contains(t, formatted, "undefined identifier")
	assert.Contains(t, formatted, "k1")
	assert.Contains(t, formatted, "test.crn:3:29")
	assert.Contains(t, formatted, "did you mean")
	assert.Contains(t, formatted, "k2")
}

func TestUndefinedIdentifierError(t *testing.T) {
	pos := Position{Line: 1, Column: 5}

	err := UndefinedIdentifier("kdeg", pos, []string{"kdeg1"})
	assert.Equal(t, ErrorUndefinedIdentifier, err.Code)
	assert.Contains(t, err.Message, "kdeg")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'kdeg1'")

	err = UndefinedIdentifier("xyz", pos, nil)
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "declare it")
	assert.Len(t, err.Notes, 1)
}

func TestWarningFormatting(t *testing.T) {
	source := `species unused in cell = 1;`
	reporter := NewErrorReporter("test.crn", source)

	err := UnusedSpecies("unused", Position{Line: 1, Column: 9})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "warning[W0001]")
	assert.Contains(t, formatted, "never used")
	assert.Contains(t, formatted, "keep")
	assert.False(t, err.IsError())
}

func TestErrorMarkerCreation(t *testing.T) {
	reporter := NewErrorReporter("test.crn", `species variable = 1;`)

	marker := reporter.createMarker(9, 8, LevelError)

	assert.Equal(t, 8, strings.Count(marker, " "))
	assert.Equal(t, 8, strings.Count(marker, "^"))
}

func TestSummary(t *testing.T) {
	pos := Position{Line: 1, Column: 1}
	errs := []CompilerError{
		SyntaxError("a", pos),
		UnusedSpecies("A", pos),
		UnusedSpecies("B", pos),
	}
	assert.Equal(t, "1 error, 2 warnings", Summary(errs))
	assert.Equal(t, "0 errors, 0 warnings", Summary(nil))
}

func TestFormatErrorShowsSourceLine(t *testing.T) {
	source := "model m {\n    reaction r: A -> rate kdg * A;\n}"
	reporter := NewErrorReporter("m.crn", source)

	formatted := reporter.FormatError(UndefinedIdentifier("kdg", Position{Line: 2, Column: 27}, []string{"kdeg"}))
	assert.Contains(t, formatted, "  2 │     reaction r: A -> rate kdg * A;")
	assert.Contains(t, formatted, strings.Repeat(" ", 26)+"^^^")
	assert.Contains(t, formatted, "help: did you mean 'kdeg'?")
}

func TestFindSimilarNames(t *testing.T) {
	candidates := []string{"kcat", "kdeg", "Km", "kdeg2", "xyz"}

	similar := FindSimilarNames("kdg", candidates)
	assert.Equal(t, []string{"kdeg", "kdeg2"}, similar)

	assert.Empty(t, FindSimilarNames("verydifferent", candidates))
	assert.NotContains(t, FindSimilarNames("kdeg", candidates), "kdeg")
}

func TestErrorLevels(t *testing.T) {
	reporter := NewErrorReporter("test.crn", `test`)
	pos := Position{Line: 1, Column: 1}

	errorFormatted := reporter.FormatError(CompilerError{Level: LevelError, Message: "test error", Position: pos})
	warningFormatted := reporter.FormatError(CompilerError{Level: LevelWarning, Message: "test warning", Position: pos})

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}

func TestCoreErrorKinds(t *testing.T) {
	err := New(KindMathDomain, "ln", "ln of non-positive value %g", -1.0)

	assert.True(t, Is(err, MathDomain))
	assert.False(t, Is(err, UnresolvedSymbol))
	assert.Equal(t, ErrorMathDomain, err.Code())
	assert.Equal(t, "math domain error: ln of non-positive value -1", err.Error())

	wrapped := fmt.Errorf("pass failed: %w", err)
	assert.True(t, Is(wrapped, MathDomain))
	assert.Equal(t, KindMathDomain, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(stderrors.New("plain")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(KindConfig, "pipeline.yaml", cause, "cannot read pipeline")

	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, Config))
	assert.Contains(t, err.Error(), "disk full")
}

func TestFromError(t *testing.T) {
	diag := FromError(New(KindUnresolvedSymbol, "B", "species 'B' is not in the model"), Position{Line: 2, Column: 3})
	assert.Equal(t, ErrorUnresolvedSymbol, diag.Code)
	assert.True(t, diag.IsError())

	plain := FromError(stderrors.New("boom"), Position{})
	assert.Empty(t, plain.Code)
}

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, "Core", GetErrorCategory(ErrorMathDomain))
	assert.Equal(t, "Parser", GetErrorCategory(ErrorSyntax))
	assert.Equal(t, "Model", GetErrorCategory(ErrorDuplicateDeclaration))
	assert.Equal(t, "Abstraction", GetErrorCategory(ErrorUnknownPass))
	assert.Equal(t, "Configuration", GetErrorCategory(ErrorConfig))
	assert.Equal(t, "Warning", GetErrorCategory(WarningUnusedSpecies))
	assert.True(t, IsWarning(WarningUnusedParameter))
	assert.False(t, IsWarning(ErrorInvalidOp))
	assert.Equal(t, "Unknown error code", GetErrorDescription("E9999"))
}
