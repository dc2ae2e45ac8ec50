package kinetic

import (
	"fmt"
	"sort"
)

// Op identifies the operator carried by a composite law node.
type Op int

const (
	OpInvalid Op = iota

	// Arithmetic
	OpPlus
	OpMinus
	OpTimes
	OpDivide
	OpPow
	OpRoot
	OpLog

	// Relational and equality
	OpEq
	OpNeq
	OpLt
	OpLeq
	OpGt
	OpGeq

	// Logical
	OpAnd
	OpOr
	OpXor
	OpNot

	// Bitwise
	OpBitAnd
	OpBitOr
	OpShiftLeft
	OpShiftRight

	// Unary
	OpNeg
	OpAbs
	OpCeil
	OpFloor
	OpExp
	OpLn
	OpLog10
	OpSqrt
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpSinh
	OpCosh
	OpTanh
	OpFactorial

	OpDelay
	OpPiecewise
)

// Arity is the shape of node an operator may appear in.
type Arity int

const (
	ArityUnary Arity = iota + 1
	ArityBinary
	ArityDelay
	ArityVariadic
)

// form describes how an operator is written out.
type form int

const (
	formInfix form = iota
	formPrefix
	formCall
)

type opInfo struct {
	name  string
	token string
	arity Arity
	form  form
	prec  int
	// grouped operators parenthesise every operator child.
	grouped bool
}

// Precedence levels, lowest binding first.
const (
	precOr = iota + 1
	precAnd
	precEquality
	precRelational
	precBitOr
	precBitAnd
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPower
	precAtom = 100
)

var ops = map[Op]opInfo{
	OpPlus:   {name: "plus", token: "+", arity: ArityBinary, form: formInfix, prec: precAdditive},
	OpMinus:  {name: "minus", token: "-", arity: ArityBinary, form: formInfix, prec: precAdditive},
	OpTimes:  {name: "times", token: "*", arity: ArityBinary, form: formInfix, prec: precMultiplicative},
	OpDivide: {name: "divide", token: "/", arity: ArityBinary, form: formInfix, prec: precMultiplicative},
	OpPow:    {name: "pow", token: "^", arity: ArityBinary, form: formInfix, prec: precPower, grouped: true},
	OpRoot:   {name: "root", token: "root", arity: ArityBinary, form: formCall, prec: precAtom},
	OpLog:    {name: "log", token: "log", arity: ArityBinary, form: formCall, prec: precAtom},

	OpEq:  {name: "eq", token: "==", arity: ArityBinary, form: formInfix, prec: precEquality, grouped: true},
	OpNeq: {name: "neq", token: "!=", arity: ArityBinary, form: formInfix, prec: precEquality, grouped: true},
	OpLt:  {name: "lt", token: "<", arity: ArityBinary, form: formInfix, prec: precRelational, grouped: true},
	OpLeq: {name: "leq", token: "<=", arity: ArityBinary, form: formInfix, prec: precRelational, grouped: true},
	OpGt:  {name: "gt", token: ">", arity: ArityBinary, form: formInfix, prec: precRelational, grouped: true},
	OpGeq: {name: "geq", token: ">=", arity: ArityBinary, form: formInfix, prec: precRelational, grouped: true},

	OpAnd: {name: "and", token: "&&", arity: ArityBinary, form: formInfix, prec: precAnd, grouped: true},
	OpOr:  {name: "or", token: "||", arity: ArityBinary, form: formInfix, prec: precOr, grouped: true},
	OpXor: {name: "xor", token: "xor", arity: ArityBinary, form: formCall, prec: precAtom},
	OpNot: {name: "not", token: "!", arity: ArityUnary, form: formPrefix, prec: precUnary},

	OpBitAnd:     {name: "bitand", token: "&", arity: ArityBinary, form: formInfix, prec: precBitAnd, grouped: true},
	OpBitOr:      {name: "bitor", token: "|", arity: ArityBinary, form: formInfix, prec: precBitOr, grouped: true},
	OpShiftLeft:  {name: "shl", token: "<<", arity: ArityBinary, form: formInfix, prec: precShift, grouped: true},
	OpShiftRight: {name: "shr", token: ">>", arity: ArityBinary, form: formInfix, prec: precShift, grouped: true},

	OpNeg:       {name: "neg", token: "-", arity: ArityUnary, form: formPrefix, prec: precUnary},
	OpAbs:       {name: "abs", token: "abs", arity: ArityUnary, form: formCall, prec: precAtom},
	OpCeil:      {name: "ceil", token: "ceil", arity: ArityUnary, form: formCall, prec: precAtom},
	OpFloor:     {name: "floor", token: "floor", arity: ArityUnary, form: formCall, prec: precAtom},
	OpExp:       {name: "exp", token: "exp", arity: ArityUnary, form: formCall, prec: precAtom},
	OpLn:        {name: "ln", token: "ln", arity: ArityUnary, form: formCall, prec: precAtom},
	OpLog10:     {name: "log10", token: "log10", arity: ArityUnary, form: formCall, prec: precAtom},
	OpSqrt:      {name: "sqrt", token: "sqrt", arity: ArityUnary, form: formCall, prec: precAtom},
	OpSin:       {name: "sin", token: "sin", arity: ArityUnary, form: formCall, prec: precAtom},
	OpCos:       {name: "cos", token: "cos", arity: ArityUnary, form: formCall, prec: precAtom},
	OpTan:       {name: "tan", token: "tan", arity: ArityUnary, form: formCall, prec: precAtom},
	OpAsin:      {name: "asin", token: "asin", arity: ArityUnary, form: formCall, prec: precAtom},
	OpAcos:      {name: "acos", token: "acos", arity: ArityUnary, form: formCall, prec: precAtom},
	OpAtan:      {name: "atan", token: "atan", arity: ArityUnary, form: formCall, prec: precAtom},
	OpSinh:      {name: "sinh", token: "sinh", arity: ArityUnary, form: formCall, prec: precAtom},
	OpCosh:      {name: "cosh", token: "cosh", arity: ArityUnary, form: formCall, prec: precAtom},
	OpTanh:      {name: "tanh", token: "tanh", arity: ArityUnary, form: formCall, prec: precAtom},
	OpFactorial: {name: "factorial", token: "factorial", arity: ArityUnary, form: formCall, prec: precAtom},

	OpDelay:     {name: "delay", token: "delay", arity: ArityDelay, form: formCall, prec: precAtom},
	OpPiecewise: {name: "piecewise", token: "piecewise", arity: ArityVariadic, form: formCall, prec: precAtom},
}

var (
	functionOps = make(map[string]Op)
	infixOps    = make(map[string]Op)
)

func init() {
	for op, info := range ops {
		switch info.form {
		case formCall:
			functionOps[info.token] = op
		case formInfix:
			infixOps[info.token] = op
		}
	}
}

func (o Op) String() string {
	if info, ok := ops[o]; ok {
		return info.name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Token returns the operator as written in formula text.
func (o Op) Token() string {
	return ops[o].token
}

// Arity returns the node shape the operator belongs to.
func (o Op) Arity() Arity {
	return ops[o].arity
}

// IsFunction reports whether the operator prints in call form, e.g. abs(x).
func (o Op) IsFunction() bool {
	info, ok := ops[o]
	return ok && info.form == formCall
}

// IsComparison reports whether the operator yields a truth value.
func (o Op) IsComparison() bool {
	switch o {
	case OpEq, OpNeq, OpLt, OpLeq, OpGt, OpGeq, OpAnd, OpOr, OpXor, OpNot:
		return true
	}
	return false
}

// LookupFunction maps a call-form name such as "sqrt" or "root" to its operator.
func LookupFunction(name string) (Op, bool) {
	op, ok := functionOps[name]
	return op, ok
}

// LookupInfix maps an infix token such as "<=" to its operator.
func LookupInfix(token string) (Op, bool) {
	op, ok := infixOps[token]
	return op, ok
}

// Builtin function symbols.
const (
	SymbolTime         = "time"
	SymbolPi           = "pi"
	SymbolExponentialE = "exponentiale"
	SymbolAvogadro     = "avogadro"
	SymbolInf          = "inf"
	SymbolNaN          = "nan"
)

var builtinSymbols = map[string]bool{
	SymbolTime:         true,
	SymbolPi:           true,
	SymbolExponentialE: true,
	SymbolAvogadro:     true,
	SymbolInf:          true,
	SymbolNaN:          true,
}

// IsBuiltinSymbol reports whether name is a function symbol known to Evaluate.
func IsBuiltinSymbol(name string) bool {
	return builtinSymbols[name]
}

// BuiltinSymbols returns the builtin function symbol names.
func BuiltinSymbols() []string {
	return []string{SymbolTime, SymbolPi, SymbolExponentialE, SymbolAvogadro, SymbolInf, SymbolNaN}
}

// FunctionNames returns every call-form operator name.
func FunctionNames() []string {
	names := make([]string, 0, len(functionOps))
	for name := range functionOps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
