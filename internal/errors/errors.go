package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies errors raised by the core (IR, expression engine, passes).
type Kind int

const (
	KindUnknown Kind = iota
	KindAllocation
	KindDanglingReference
	KindMathDomain
	KindUnresolvedSymbol
	KindInvalidOp
	KindDuplicateID
	KindConfig
	KindUnknownPass
	KindPassFailed
	KindFixedPointNotReached
)

var kindNames = map[Kind]string{
	KindUnknown:              "error",
	KindAllocation:           "allocation error",
	KindDanglingReference:    "dangling reference",
	KindMathDomain:           "math domain error",
	KindUnresolvedSymbol:     "unresolved symbol",
	KindInvalidOp:            "invalid operation",
	KindDuplicateID:          "duplicate id",
	KindConfig:               "configuration error",
	KindUnknownPass:          "unknown pass",
	KindPassFailed:           "pass failed",
	KindFixedPointNotReached: "fixed point not reached",
}

var kindCodes = map[Kind]string{
	KindAllocation:           ErrorAllocation,
	KindDanglingReference:    ErrorDanglingReference,
	KindMathDomain:           ErrorMathDomain,
	KindUnresolvedSymbol:     ErrorUnresolvedSymbol,
	KindInvalidOp:            ErrorInvalidOp,
	KindDuplicateID:          ErrorDuplicateID,
	KindConfig:               ErrorConfig,
	KindUnknownPass:          ErrorUnknownPass,
	KindPassFailed:           ErrorPassFailed,
	KindFixedPointNotReached: ErrorFixedPointNotReached,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Code returns the diagnostic code for the kind.
func (k Kind) Code() string {
	return kindCodes[k]
}

// Error is the single error type returned by core operations.
// Subject names the entity involved (a species id, an operator, a pass id).
type Error struct {
	Kind    Kind
	Message string
	Subject string
	Err     error
}

// Sentinels for use with Is.
var (
	Allocation           = &Error{Kind: KindAllocation}
	DanglingReference    = &Error{Kind: KindDanglingReference}
	MathDomain           = &Error{Kind: KindMathDomain}
	UnresolvedSymbol     = &Error{Kind: KindUnresolvedSymbol}
	InvalidOp            = &Error{Kind: KindInvalidOp}
	DuplicateID          = &Error{Kind: KindDuplicateID}
	Config               = &Error{Kind: KindConfig}
	UnknownPass          = &Error{Kind: KindUnknownPass}
	PassFailed           = &Error{Kind: KindPassFailed}
	FixedPointNotReached = &Error{Kind: KindFixedPointNotReached}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Code returns the diagnostic code of the error's kind.
func (e *Error) Code() string {
	return e.Kind.Code()
}

// New creates a core error of the given kind.
func New(kind Kind, subject, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, subject string, err error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
