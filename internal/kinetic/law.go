package kinetic

import (
	"crnc/internal/errors"
)

// Law is a kinetic law expression node. The set of node types is closed.
type Law interface {
	isLaw()
}

type IntLiteral struct {
	Value int64
}

type RealLiteral struct {
	Value float64
}

type SpeciesRef struct {
	ID string
}

type CompartmentRef struct {
	ID string
}

type SymbolRef struct {
	ID string
}

// FunctionSymbol is a builtin constant such as time or pi.
type FunctionSymbol struct {
	Name string
}

type UnaryOp struct {
	Op    Op
	Child Law
}

type BinaryOp struct {
	Op    Op
	Left  Law
	Right Law
}

// DelayOp is delay(Left, Right): the value of Left, Right time units ago.
type DelayOp struct {
	Op         Op
	Left       Law
	Right      Law
	TimeSymbol string
}

// Piecewise holds value/condition pairs followed by an optional otherwise value.
type Piecewise struct {
	Op       Op
	Children []Law
}

func (*IntLiteral) isLaw()     {}
func (*RealLiteral) isLaw()    {}
func (*SpeciesRef) isLaw()     {}
func (*CompartmentRef) isLaw() {}
func (*SymbolRef) isLaw()      {}
func (*FunctionSymbol) isLaw() {}
func (*UnaryOp) isLaw()        {}
func (*BinaryOp) isLaw()       {}
func (*DelayOp) isLaw()        {}
func (*Piecewise) isLaw()      {}

func NewInt(v int64) *IntLiteral {
	return &IntLiteral{Value: v}
}

func NewReal(v float64) *RealLiteral {
	return &RealLiteral{Value: v}
}

func NewSpeciesRef(id string) *SpeciesRef {
	return &SpeciesRef{ID: id}
}

func NewCompartmentRef(id string) *CompartmentRef {
	return &CompartmentRef{ID: id}
}

func NewSymbolRef(id string) *SymbolRef {
	return &SymbolRef{ID: id}
}

func NewFunctionSymbol(name string) *FunctionSymbol {
	return &FunctionSymbol{Name: name}
}

// NewUnary builds a unary node. The op must be unary and child non-nil.
func NewUnary(op Op, child Law) (*UnaryOp, error) {
	if op.Arity() != ArityUnary {
		return nil, errors.New(errors.KindInvalidOp, op.String(), "operator %s is not unary", op)
	}
	if child == nil {
		return nil, errors.New(errors.KindInvalidOp, op.String(), "operator %s is missing its operand", op)
	}
	return &UnaryOp{Op: op, Child: child}, nil
}

// NewBinary builds a binary node. The op must be binary and both children non-nil.
func NewBinary(op Op, left, right Law) (*BinaryOp, error) {
	if op.Arity() != ArityBinary {
		return nil, errors.New(errors.KindInvalidOp, op.String(), "operator %s is not binary", op)
	}
	if left == nil || right == nil {
		return nil, errors.New(errors.KindInvalidOp, op.String(), "operator %s is missing an operand", op)
	}
	return &BinaryOp{Op: op, Left: left, Right: right}, nil
}

// NewDelay builds delay(expr, delay) measured against timeSymbol.
func NewDelay(expr, delay Law, timeSymbol string) (*DelayOp, error) {
	if expr == nil || delay == nil {
		return nil, errors.New(errors.KindInvalidOp, "delay", "delay is missing an operand")
	}
	if timeSymbol == "" {
		timeSymbol = SymbolTime
	}
	return &DelayOp{Op: OpDelay, Left: expr, Right: delay, TimeSymbol: timeSymbol}, nil
}

// NewPiecewise builds piecewise(v1, c1, ..., [otherwise]).
func NewPiecewise(children ...Law) (*Piecewise, error) {
	if len(children) == 0 {
		return nil, errors.New(errors.KindInvalidOp, "piecewise", "piecewise needs at least one piece")
	}
	for i, c := range children {
		if c == nil {
			return nil, errors.New(errors.KindInvalidOp, "piecewise", "piecewise child %d is missing", i)
		}
	}
	return &Piecewise{Op: OpPiecewise, Children: append([]Law(nil), children...)}, nil
}

// Must panics if err is non-nil. It is meant for laws built from literals
// known to be well formed.
func Must[T Law](law T, err error) T {
	if err != nil {
		panic(err)
	}
	return law
}

// Children returns the direct children of law in source order.
func Children(law Law) []Law {
	switch n := law.(type) {
	case *UnaryOp:
		return []Law{n.Child}
	case *BinaryOp:
		return []Law{n.Left, n.Right}
	case *DelayOp:
		return []Law{n.Left, n.Right}
	case *Piecewise:
		return n.Children
	default:
		return nil
	}
}

// IsConstant reports whether law is a numeric literal.
func IsConstant(law Law) bool {
	switch law.(type) {
	case *IntLiteral, *RealLiteral:
		return true
	}
	return false
}

// IsZero reports whether law is a literal zero.
func IsZero(law Law) bool {
	switch n := law.(type) {
	case *IntLiteral:
		return n.Value == 0
	case *RealLiteral:
		return n.Value == 0
	}
	return false
}

// Check verifies every node of law is well formed.
func Check(law Law) error {
	if law == nil {
		return errors.New(errors.KindInvalidOp, "", "expression is missing")
	}
	var err error
	Walk(law, PreOrder, func(n Law) bool {
		if err != nil {
			return false
		}
		switch n := n.(type) {
		case *UnaryOp:
			_, err = NewUnary(n.Op, n.Child)
		case *BinaryOp:
			_, err = NewBinary(n.Op, n.Left, n.Right)
		case *DelayOp:
			if n.Left == nil || n.Right == nil {
				_, err = NewDelay(n.Left, n.Right, n.TimeSymbol)
			}
		case *Piecewise:
			_, err = NewPiecewise(n.Children...)
		}
		return err == nil
	})
	return err
}
