package ir

import (
	"fmt"

	"crnc/internal/errors"
)

type EdgeKind int

const (
	ReactantEdge EdgeKind = iota
	ProductEdge
	ModifierEdge
)

func (k EdgeKind) String() string {
	switch k {
	case ReactantEdge:
		return "reactant"
	case ProductEdge:
		return "product"
	case ModifierEdge:
		return "modifier"
	}
	return fmt.Sprintf("EdgeKind(%d)", int(k))
}

// Edge links one reaction to one species.
type Edge struct {
	Kind                EdgeKind
	Reaction            *Reaction
	Species             *Species
	Stoichiometry       float64
	StoichiometrySymbol string
	Constant            bool

	ref EdgeRef
}

// Ref returns the handle the edge is stored under.
func (e *Edge) Ref() EdgeRef {
	return e.ref
}

// EdgeRef is a generational handle into the edge arena. A handle goes
// stale once its edge is removed, even if the slot is reused.
type EdgeRef struct {
	index uint32
	gen   uint32
}

func (r EdgeRef) String() string {
	return fmt.Sprintf("edge#%d.%d", r.index, r.gen)
}

// EdgeOption adjusts an edge when it is added or updated.
type EdgeOption func(*Edge)

// WithStoichiometrySymbol binds the stoichiometry to a symbol id.
func WithStoichiometrySymbol(id string) EdgeOption {
	return func(e *Edge) {
		e.StoichiometrySymbol = id
	}
}

// WithConstant sets whether the stoichiometry is constant.
func WithConstant(constant bool) EdgeOption {
	return func(e *Edge) {
		e.Constant = constant
	}
}

type edgeSlot struct {
	edge *Edge
	gen  uint32
}

type edgeArena struct {
	slots []edgeSlot
	free  []uint32
	live  int
}

func (a *edgeArena) alloc(e *Edge) EdgeRef {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, edgeSlot{gen: 1})
	}
	slot := &a.slots[idx]
	slot.edge = e
	e.ref = EdgeRef{index: idx, gen: slot.gen}
	a.live++
	return e.ref
}

func (a *edgeArena) get(ref EdgeRef) (*Edge, bool) {
	if int(ref.index) >= len(a.slots) {
		return nil, false
	}
	slot := a.slots[ref.index]
	if slot.edge == nil || slot.gen != ref.gen {
		return nil, false
	}
	return slot.edge, true
}

func (a *edgeArena) release(ref EdgeRef) bool {
	if _, ok := a.get(ref); !ok {
		return false
	}
	slot := &a.slots[ref.index]
	slot.edge = nil
	slot.gen++
	a.free = append(a.free, ref.index)
	a.live--
	return true
}

// Edge resolves a handle.
func (n *Network) Edge(ref EdgeRef) (*Edge, error) {
	e, ok := n.edges.get(ref)
	if !ok {
		return nil, errors.New(errors.KindDanglingReference, ref.String(), "edge handle %s is stale", ref)
	}
	return e, nil
}

// AddReactantEdge links species as a reactant of reaction. Adding the same
// pair again updates the existing edge as if it were new: options from
// earlier calls do not carry over.
func (n *Network) AddReactantEdge(r *Reaction, s *Species, stoichiometry float64, opts ...EdgeOption) (EdgeRef, error) {
	return n.addEdge(ReactantEdge, r, s, stoichiometry, opts)
}

// AddProductEdge links species as a product of reaction.
func (n *Network) AddProductEdge(r *Reaction, s *Species, stoichiometry float64, opts ...EdgeOption) (EdgeRef, error) {
	return n.addEdge(ProductEdge, r, s, stoichiometry, opts)
}

// AddModifierEdge links species as a modifier of reaction.
func (n *Network) AddModifierEdge(r *Reaction, s *Species, opts ...EdgeOption) (EdgeRef, error) {
	return n.addEdge(ModifierEdge, r, s, 1, opts)
}

func (n *Network) addEdge(kind EdgeKind, r *Reaction, s *Species, stoichiometry float64, opts []EdgeOption) (EdgeRef, error) {
	if err := n.owns(r, s); err != nil {
		return EdgeRef{}, err
	}

	for _, ref := range r.edges[kind] {
		e, ok := n.edges.get(ref)
		if ok && e.Species == s {
			e.Stoichiometry = stoichiometry
			e.StoichiometrySymbol = ""
			e.Constant = true
			for _, opt := range opts {
				opt(e)
			}
			n.changed = true
			return ref, nil
		}
	}

	e := &Edge{
		Kind:          kind,
		Reaction:      r,
		Species:       s,
		Stoichiometry: stoichiometry,
		Constant:      true,
	}
	for _, opt := range opts {
		opt(e)
	}
	ref := n.edges.alloc(e)
	r.edges[kind] = append(r.edges[kind], ref)
	s.incident = append(s.incident, ref)
	n.flat[kind] = append(n.flat[kind], ref)
	n.changed = true
	return ref, nil
}

// RemoveEdge detaches an edge from its reaction, its species and the
// per-kind list, then frees its slot.
func (n *Network) RemoveEdge(ref EdgeRef) error {
	e, err := n.Edge(ref)
	if err != nil {
		return err
	}
	e.Reaction.edges[e.Kind] = removeRef(e.Reaction.edges[e.Kind], ref)
	e.Species.incident = removeRef(e.Species.incident, ref)
	n.flat[e.Kind] = removeRef(n.flat[e.Kind], ref)
	n.edges.release(ref)
	n.changed = true
	return nil
}

func (n *Network) owns(r *Reaction, s *Species) error {
	if r == nil || n.reactionByID[r.ID] != r {
		return errors.New(errors.KindDanglingReference, reactionID(r), "reaction is not part of model '%s'", n.ID)
	}
	if s == nil || n.speciesByID[s.ID] != s {
		return errors.New(errors.KindDanglingReference, speciesID(s), "species is not part of model '%s'", n.ID)
	}
	return nil
}

func (n *Network) resolve(refs []EdgeRef) []*Edge {
	out := make([]*Edge, 0, len(refs))
	for _, ref := range refs {
		if e, ok := n.edges.get(ref); ok {
			out = append(out, e)
		}
	}
	return out
}

// ListReactantEdges returns reaction's reactant edges in insertion order.
func (n *Network) ListReactantEdges(r *Reaction) []*Edge {
	return n.resolve(r.edges[ReactantEdge])
}

// ListProductEdges returns reaction's product edges in insertion order.
func (n *Network) ListProductEdges(r *Reaction) []*Edge {
	return n.resolve(r.edges[ProductEdge])
}

// ListModifierEdges returns reaction's modifier edges in insertion order.
func (n *Network) ListModifierEdges(r *Reaction) []*Edge {
	return n.resolve(r.edges[ModifierEdge])
}

// ListEdges returns every edge of kind in the model, in insertion order.
func (n *Network) ListEdges(kind EdgeKind) []*Edge {
	return n.resolve(n.flat[kind])
}

// IncidentEdges returns every edge touching species, in insertion order.
func (n *Network) IncidentEdges(s *Species) []*Edge {
	return n.resolve(s.incident)
}

// EdgeCount returns the number of live edges.
func (n *Network) EdgeCount() int {
	return n.edges.live
}

func removeRef(refs []EdgeRef, ref EdgeRef) []EdgeRef {
	for i, r := range refs {
		if r == ref {
			return append(refs[:i], refs[i+1:]...)
		}
	}
	return refs
}

func reactionID(r *Reaction) string {
	if r == nil {
		return ""
	}
	return r.ID
}

func speciesID(s *Species) string {
	if s == nil {
		return ""
	}
	return s.ID
}
