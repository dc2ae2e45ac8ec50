package kinetic

import "sort"

// DependencySet is the support set of a law: the species, symbols and
// compartments it references.
type DependencySet struct {
	Species      map[string]bool
	Symbols      map[string]bool
	Compartments map[string]bool
}

func NewDependencySet() DependencySet {
	return DependencySet{
		Species:      make(map[string]bool),
		Symbols:      make(map[string]bool),
		Compartments: make(map[string]bool),
	}
}

// Contains reports whether id is referenced as any kind of entity.
func (d DependencySet) Contains(id string) bool {
	return d.Species[id] || d.Symbols[id] || d.Compartments[id]
}

// Len returns the number of distinct references.
func (d DependencySet) Len() int {
	return len(d.Species) + len(d.Symbols) + len(d.Compartments)
}

// Merge adds every reference of other to d.
func (d DependencySet) Merge(other DependencySet) {
	for id := range other.Species {
		d.Species[id] = true
	}
	for id := range other.Symbols {
		d.Symbols[id] = true
	}
	for id := range other.Compartments {
		d.Compartments[id] = true
	}
}

// SpeciesIDs returns the referenced species ids, sorted.
func (d DependencySet) SpeciesIDs() []string {
	return sortedKeys(d.Species)
}

// IDs returns every referenced id, sorted and deduplicated.
func (d DependencySet) IDs() []string {
	all := make(map[string]bool, d.Len())
	for _, m := range []map[string]bool{d.Species, d.Symbols, d.Compartments} {
		for id := range m {
			all[id] = true
		}
	}
	return sortedKeys(all)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type dependencyCollector struct {
	deps DependencySet
}

// Dependencies returns every species, symbol and compartment reachable
// from law. All piecewise branches are included.
func Dependencies(law Law) DependencySet {
	c := dependencyCollector{deps: NewDependencySet()}
	Dispatch[struct{}](law, c)
	return c.deps
}

func (c dependencyCollector) VisitInt(*IntLiteral) struct{}                { return struct{}{} }
func (c dependencyCollector) VisitReal(*RealLiteral) struct{}              { return struct{}{} }
func (c dependencyCollector) VisitFunctionSymbol(*FunctionSymbol) struct{} { return struct{}{} }

func (c dependencyCollector) VisitSpecies(n *SpeciesRef) struct{} {
	c.deps.Species[n.ID] = true
	return struct{}{}
}

func (c dependencyCollector) VisitCompartment(n *CompartmentRef) struct{} {
	c.deps.Compartments[n.ID] = true
	return struct{}{}
}

func (c dependencyCollector) VisitSymbol(n *SymbolRef) struct{} {
	c.deps.Symbols[n.ID] = true
	return struct{}{}
}

func (c dependencyCollector) VisitUnary(n *UnaryOp) struct{} {
	return Dispatch[struct{}](n.Child, c)
}

func (c dependencyCollector) VisitBinary(n *BinaryOp) struct{} {
	Dispatch[struct{}](n.Left, c)
	return Dispatch[struct{}](n.Right, c)
}

func (c dependencyCollector) VisitDelay(n *DelayOp) struct{} {
	Dispatch[struct{}](n.Left, c)
	return Dispatch[struct{}](n.Right, c)
}

func (c dependencyCollector) VisitPiecewise(n *Piecewise) struct{} {
	for _, child := range n.Children {
		Dispatch[struct{}](child, c)
	}
	return struct{}{}
}

// References reports whether law mentions species.
func References(law Law, species string) bool {
	found := false
	Walk(law, PreOrder, func(n Law) bool {
		if ref, ok := n.(*SpeciesRef); ok && ref.ID == species {
			found = true
		}
		return !found
	})
	return found
}
