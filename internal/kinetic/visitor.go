package kinetic

// Visitor handles one node of each law type. Implementations decide
// whether and how to recurse into children, usually by calling Dispatch.
type Visitor[T any] interface {
	VisitInt(n *IntLiteral) T
	VisitReal(n *RealLiteral) T
	VisitSpecies(n *SpeciesRef) T
	VisitCompartment(n *CompartmentRef) T
	VisitSymbol(n *SymbolRef) T
	VisitFunctionSymbol(n *FunctionSymbol) T
	VisitUnary(n *UnaryOp) T
	VisitBinary(n *BinaryOp) T
	VisitDelay(n *DelayOp) T
	VisitPiecewise(n *Piecewise) T
}

// Dispatch calls the visitor method matching law's type. A nil law
// yields the zero value of T.
func Dispatch[T any](law Law, v Visitor[T]) T {
	switch n := law.(type) {
	case *IntLiteral:
		return v.VisitInt(n)
	case *RealLiteral:
		return v.VisitReal(n)
	case *SpeciesRef:
		return v.VisitSpecies(n)
	case *CompartmentRef:
		return v.VisitCompartment(n)
	case *SymbolRef:
		return v.VisitSymbol(n)
	case *FunctionSymbol:
		return v.VisitFunctionSymbol(n)
	case *UnaryOp:
		return v.VisitUnary(n)
	case *BinaryOp:
		return v.VisitBinary(n)
	case *DelayOp:
		return v.VisitDelay(n)
	case *Piecewise:
		return v.VisitPiecewise(n)
	}
	var zero T
	return zero
}

// Order selects a traversal strategy for Walk.
type Order int

const (
	PreOrder Order = iota
	InOrder
	PostOrder
)

// Walk visits every node of law in the given order. In pre-order,
// returning false from fn skips the node's children. In-order visits
// prefix nodes before their operand and otherwise visits the first
// child, the node, then the remaining children.
func Walk(law Law, order Order, fn func(Law) bool) {
	if law == nil {
		return
	}
	children := Children(law)
	switch order {
	case PreOrder:
		if !fn(law) {
			return
		}
		for _, c := range children {
			Walk(c, order, fn)
		}
	case InOrder:
		if len(children) == 0 {
			fn(law)
			return
		}
		if u, ok := law.(*UnaryOp); ok && !u.Op.IsFunction() {
			fn(law)
			Walk(u.Child, order, fn)
			return
		}
		Walk(children[0], order, fn)
		fn(law)
		for _, c := range children[1:] {
			Walk(c, order, fn)
		}
	case PostOrder:
		for _, c := range children {
			Walk(c, order, fn)
		}
		fn(law)
	}
}

// Count returns the number of nodes in law.
func Count(law Law) int {
	n := 0
	Walk(law, PreOrder, func(Law) bool {
		n++
		return true
	})
	return n
}
