package errors

// Error codes for the crnc model compiler.
// These codes appear in diagnostics, CLI JSON output and LSP messages.
//
// Error code ranges:
// E0001-E0099: Core errors (IR, expression engine)
// E0100-E0199: Parser errors
// E0200-E0299: Model construction errors (front end)
// E0300-E0399: Abstraction pass errors
// E0400-E0499: Configuration errors
// W0001-W0099: Warning codes

const (
	// E0001: Resource exhaustion while allocating an IR entity
	ErrorAllocation = "E0001"

	// E0002: An entity was removed or referenced while still edge-connected
	ErrorDanglingReference = "E0002"

	// E0003: Evaluation hit an undefined operation
	ErrorMathDomain = "E0003"

	// E0004: An expression references an id missing from the IR
	ErrorUnresolvedSymbol = "E0004"

	// E0005: Malformed expression tree
	ErrorInvalidOp = "E0005"

	// E0006: An id is already taken in the model namespace
	ErrorDuplicateID = "E0006"

	// E0100: Syntax errors reported by the grammar
	ErrorSyntax = "E0100"

	// E0200: Identifier does not name a declared entity
	ErrorUndefinedIdentifier = "E0200"

	// E0201: Two declarations share the same id
	ErrorDuplicateDeclaration = "E0201"

	// E0202: User function called with the wrong number of arguments
	ErrorInvalidArguments = "E0202"

	// E0203: Stoichiometry is neither a number nor a parameter
	ErrorInvalidStoichiometry = "E0203"

	// E0204: Unknown unit kind or malformed unit definition
	ErrorInvalidUnit = "E0204"

	// E0205: Attribute does not apply to the declaration it is attached to
	ErrorInvalidAttribute = "E0205"

	// E0206: Rule, event or init target is not a species, parameter or compartment
	ErrorInvalidTarget = "E0206"

	// E0300: Pass id is not registered
	ErrorUnknownPass = "E0300"

	// E0301: Pass returned an error
	ErrorPassFailed = "E0301"

	// E0302: Fixed-point iteration exceeded its bound
	ErrorFixedPointNotReached = "E0302"

	// E0400: Invalid pipeline configuration
	ErrorConfig = "E0400"

	// W0001: Species is declared but takes part in no reaction, rule or event
	WarningUnusedSpecies = "W0001"

	// W0002: Parameter is declared but never read
	WarningUnusedParameter = "W0002"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorAllocation:
		return "Resource exhaustion while allocating a model entity"
	case ErrorDanglingReference:
		return "Entity is still connected to the reaction graph"
	case ErrorMathDomain:
		return "Expression evaluation hit an undefined operation"
	case ErrorUnresolvedSymbol:
		return "Expression references an unknown species, symbol or compartment"
	case ErrorInvalidOp:
		return "Malformed kinetic law expression"
	case ErrorDuplicateID:
		return "Identifier is already used in the model"
	case ErrorSyntax:
		return "Model source does not match the grammar"
	case ErrorUndefinedIdentifier:
		return "Identifier is used but not declared"
	case ErrorDuplicateDeclaration:
		return "Duplicate declaration found"
	case ErrorInvalidArguments:
		return "Function call has invalid arguments"
	case ErrorInvalidStoichiometry:
		return "Stoichiometry must be a number or a parameter"
	case ErrorInvalidUnit:
		return "Invalid unit definition"
	case ErrorInvalidAttribute:
		return "Attribute is not valid for this declaration"
	case ErrorInvalidTarget:
		return "Target cannot be assigned"
	case ErrorUnknownPass:
		return "Abstraction pass is not registered"
	case ErrorPassFailed:
		return "Abstraction pass failed"
	case ErrorFixedPointNotReached:
		return "Pass did not reach a fixed point within its iteration bound"
	case ErrorConfig:
		return "Invalid pipeline configuration"
	case WarningUnusedSpecies:
		return "Species is declared but never used"
	case WarningUnusedParameter:
		return "Parameter is declared but never used"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return code != "" && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code == "":
		return "Unknown"
	case code[0] == 'W':
		return "Warning"
	case code >= "E0001" && code < "E0100":
		return "Core"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0200" && code < "E0300":
		return "Model"
	case code >= "E0300" && code < "E0400":
		return "Abstraction"
	case code >= "E0400" && code < "E0500":
		return "Configuration"
	default:
		return "Unknown"
	}
}
