package kinetic

// rewriter rebuilds a tree bottom-up. Each rebuilt node is handed to fn
// after its children have been rewritten; fn returns the node to keep.
type rewriter struct {
	fn func(Law) Law
}

// Transform returns a new tree built by applying fn to every node of law
// in post-order. The input tree is not modified.
func Transform(law Law, fn func(Law) Law) Law {
	if law == nil {
		return nil
	}
	return Dispatch[Law](law, rewriter{fn: fn})
}

// Clone returns a deep copy of law.
func Clone(law Law) Law {
	return Transform(law, func(n Law) Law { return n })
}

func (r rewriter) VisitInt(n *IntLiteral) Law {
	return r.fn(&IntLiteral{Value: n.Value})
}

func (r rewriter) VisitReal(n *RealLiteral) Law {
	return r.fn(&RealLiteral{Value: n.Value})
}

func (r rewriter) VisitSpecies(n *SpeciesRef) Law {
	return r.fn(&SpeciesRef{ID: n.ID})
}

func (r rewriter) VisitCompartment(n *CompartmentRef) Law {
	return r.fn(&CompartmentRef{ID: n.ID})
}

func (r rewriter) VisitSymbol(n *SymbolRef) Law {
	return r.fn(&SymbolRef{ID: n.ID})
}

func (r rewriter) VisitFunctionSymbol(n *FunctionSymbol) Law {
	return r.fn(&FunctionSymbol{Name: n.Name})
}

func (r rewriter) VisitUnary(n *UnaryOp) Law {
	return r.fn(&UnaryOp{Op: n.Op, Child: Transform(n.Child, r.fn)})
}

func (r rewriter) VisitBinary(n *BinaryOp) Law {
	return r.fn(&BinaryOp{
		Op:    n.Op,
		Left:  Transform(n.Left, r.fn),
		Right: Transform(n.Right, r.fn),
	})
}

func (r rewriter) VisitDelay(n *DelayOp) Law {
	return r.fn(&DelayOp{
		Op:         n.Op,
		Left:       Transform(n.Left, r.fn),
		Right:      Transform(n.Right, r.fn),
		TimeSymbol: n.TimeSymbol,
	})
}

func (r rewriter) VisitPiecewise(n *Piecewise) Law {
	children := make([]Law, len(n.Children))
	for i, c := range n.Children {
		children[i] = Transform(c, r.fn)
	}
	return r.fn(&Piecewise{Op: n.Op, Children: children})
}

// Substitute replaces every SpeciesRef(species) in law with a fresh clone
// of replacement.
func Substitute(law Law, species string, replacement Law) Law {
	return Transform(law, func(n Law) Law {
		if ref, ok := n.(*SpeciesRef); ok && ref.ID == species {
			return Clone(replacement)
		}
		return n
	})
}

// SubstituteSymbol replaces every SymbolRef(symbol) in law with a fresh
// clone of replacement.
func SubstituteSymbol(law Law, symbol string, replacement Law) Law {
	return Transform(law, func(n Law) Law {
		if ref, ok := n.(*SymbolRef); ok && ref.ID == symbol {
			return Clone(replacement)
		}
		return n
	})
}

// SubstituteCompartment replaces every CompartmentRef(compartment) in law
// with a fresh clone of replacement.
func SubstituteCompartment(law Law, compartment string, replacement Law) Law {
	return Transform(law, func(n Law) Law {
		if ref, ok := n.(*CompartmentRef); ok && ref.ID == compartment {
			return Clone(replacement)
		}
		return n
	})
}

// SubstituteFunctionSymbol replaces every FunctionSymbol(name) in law with
// a fresh clone of replacement.
func SubstituteFunctionSymbol(law Law, name string, replacement Law) Law {
	return Transform(law, func(n Law) Law {
		if fs, ok := n.(*FunctionSymbol); ok && fs.Name == name {
			return Clone(replacement)
		}
		return n
	})
}

// RenameSpecies rewrites SpeciesRef(from) to SpeciesRef(to).
func RenameSpecies(law Law, from, to string) Law {
	return Substitute(law, from, NewSpeciesRef(to))
}
