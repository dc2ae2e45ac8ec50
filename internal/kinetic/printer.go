package kinetic

import (
	"math"
	"strconv"
	"strings"
)

type printer struct{}

// ToCanonicalString renders law as formula text with minimal parentheses.
// The output parses back to a tree with the same grouping.
func ToCanonicalString(law Law) string {
	if law == nil {
		return "<nil>"
	}
	return Dispatch[string](law, printer{})
}

// FormatReal writes a real literal so that it reads back as a real.
func FormatReal(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return SymbolInf
	case math.IsInf(v, -1):
		return "-" + SymbolInf
	case math.IsNaN(v):
		return SymbolNaN
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (p printer) VisitInt(n *IntLiteral) string {
	return strconv.FormatInt(n.Value, 10)
}

func (p printer) VisitReal(n *RealLiteral) string {
	return FormatReal(n.Value)
}

func (p printer) VisitSpecies(n *SpeciesRef) string {
	return n.ID
}

func (p printer) VisitCompartment(n *CompartmentRef) string {
	return n.ID
}

func (p printer) VisitSymbol(n *SymbolRef) string {
	return n.ID
}

func (p printer) VisitFunctionSymbol(n *FunctionSymbol) string {
	return n.Name
}

func (p printer) VisitUnary(n *UnaryOp) string {
	if n.Op.IsFunction() {
		return call(n.Op.Token(), n.Child)
	}
	child := ToCanonicalString(n.Child)
	if precedence(n.Child) < precAtom {
		child = "(" + child + ")"
	}
	return n.Op.Token() + child
}

func (p printer) VisitBinary(n *BinaryOp) string {
	if n.Op.IsFunction() {
		return call(n.Op.Token(), n.Left, n.Right)
	}
	left := ToCanonicalString(n.Left)
	right := ToCanonicalString(n.Right)
	if needsParens(n.Op, n.Left, false) {
		left = "(" + left + ")"
	}
	if needsParens(n.Op, n.Right, true) {
		right = "(" + right + ")"
	}
	return left + " " + n.Op.Token() + " " + right
}

// VisitDelay names the time symbol only when it is not the model time.
func (p printer) VisitDelay(n *DelayOp) string {
	if n.TimeSymbol != "" && n.TimeSymbol != SymbolTime {
		return call(n.Op.Token(), n.Left, n.Right, NewSymbolRef(n.TimeSymbol))
	}
	return call(n.Op.Token(), n.Left, n.Right)
}

func (p printer) VisitPiecewise(n *Piecewise) string {
	return call(n.Op.Token(), n.Children...)
}

func call(name string, args ...Law) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = ToCanonicalString(a)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// precedence returns the binding strength of law as a child. Leaves and
// call-form nodes are atoms; negative literals bind like a unary minus.
func precedence(law Law) int {
	switch n := law.(type) {
	case *IntLiteral:
		if n.Value < 0 {
			return precUnary
		}
	case *RealLiteral:
		if n.Value < 0 || math.IsInf(n.Value, -1) {
			return precUnary
		}
	case *UnaryOp:
		return ops[n.Op].prec
	case *BinaryOp:
		return ops[n.Op].prec
	}
	return precAtom
}

func needsParens(parent Op, child Law, right bool) bool {
	cp := precedence(child)
	if cp == precAtom {
		return false
	}
	info := ops[parent]
	if info.grouped {
		return true
	}
	if right && (parent == OpMinus || parent == OpDivide) {
		return true
	}
	return cp < info.prec
}
