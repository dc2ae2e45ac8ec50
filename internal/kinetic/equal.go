package kinetic

import "math"

type equalVisitor struct {
	other Law
}

// StructurallyEqual reports whether a and b have the same shape, operators
// and leaves. References compare by id.
func StructurallyEqual(a, b Law) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Dispatch[bool](a, equalVisitor{other: b})
}

func (v equalVisitor) VisitInt(n *IntLiteral) bool {
	o, ok := v.other.(*IntLiteral)
	return ok && o.Value == n.Value
}

func (v equalVisitor) VisitReal(n *RealLiteral) bool {
	o, ok := v.other.(*RealLiteral)
	if !ok {
		return false
	}
	return o.Value == n.Value || (math.IsNaN(o.Value) && math.IsNaN(n.Value))
}

func (v equalVisitor) VisitSpecies(n *SpeciesRef) bool {
	o, ok := v.other.(*SpeciesRef)
	return ok && o.ID == n.ID
}

func (v equalVisitor) VisitCompartment(n *CompartmentRef) bool {
	o, ok := v.other.(*CompartmentRef)
	return ok && o.ID == n.ID
}

func (v equalVisitor) VisitSymbol(n *SymbolRef) bool {
	o, ok := v.other.(*SymbolRef)
	return ok && o.ID == n.ID
}

func (v equalVisitor) VisitFunctionSymbol(n *FunctionSymbol) bool {
	o, ok := v.other.(*FunctionSymbol)
	return ok && o.Name == n.Name
}

func (v equalVisitor) VisitUnary(n *UnaryOp) bool {
	o, ok := v.other.(*UnaryOp)
	return ok && o.Op == n.Op && StructurallyEqual(n.Child, o.Child)
}

func (v equalVisitor) VisitBinary(n *BinaryOp) bool {
	o, ok := v.other.(*BinaryOp)
	return ok && o.Op == n.Op &&
		StructurallyEqual(n.Left, o.Left) &&
		StructurallyEqual(n.Right, o.Right)
}

func (v equalVisitor) VisitDelay(n *DelayOp) bool {
	o, ok := v.other.(*DelayOp)
	return ok && o.Op == n.Op && o.TimeSymbol == n.TimeSymbol &&
		StructurallyEqual(n.Left, o.Left) &&
		StructurallyEqual(n.Right, o.Right)
}

func (v equalVisitor) VisitPiecewise(n *Piecewise) bool {
	o, ok := v.other.(*Piecewise)
	if !ok || o.Op != n.Op || len(o.Children) != len(n.Children) {
		return false
	}
	for i := range n.Children {
		if !StructurallyEqual(n.Children[i], o.Children[i]) {
			return false
		}
	}
	return true
}
