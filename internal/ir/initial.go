package ir

import (
	"crnc/internal/errors"
	"crnc/internal/kinetic"
)

// initialValues resolves references to the value an entity holds at the
// start of a simulation. Entities with an initial assignment are evaluated
// on demand; the rest read their stored value.
type initialValues struct {
	net       *Network
	overrides map[string]float64
	def       float64
	visiting  map[string]bool
	err       error
}

// EvaluateInitial evaluates law against the initial state of the model.
// References to entities with initial assignments evaluate those
// assignments, recursively. A cycle of initial assignments fails with an
// unresolved symbol error.
func (n *Network) EvaluateInitial(law kinetic.Law, overrides map[string]float64, def float64) (float64, error) {
	env := &initialValues{net: n, overrides: overrides, def: def, visiting: make(map[string]bool)}
	return env.evaluate(law)
}

// InitialValue returns the initial value of a species, compartment or
// global symbol.
func (n *Network) InitialValue(id string) (float64, error) {
	return n.EvaluateInitial(kinetic.NewSymbolRef(id), nil, 0)
}

func (e *initialValues) evaluate(law kinetic.Law) (float64, error) {
	v, err := kinetic.Evaluate(law, e, e.overrides, e.def)
	if e.err != nil {
		return 0, e.err
	}
	return v, err
}

func (e *initialValues) assigned(id string, law kinetic.Law, stored float64) (float64, bool) {
	if law == nil {
		return stored, true
	}
	if e.err != nil {
		return 0, true
	}
	if e.visiting[id] {
		e.err = errors.New(errors.KindUnresolvedSymbol, id, "initial assignment of %s depends on itself", id)
		return 0, true
	}
	e.visiting[id] = true
	defer delete(e.visiting, id)

	v, err := e.evaluate(law)
	if err != nil {
		if e.err == nil {
			e.err = err
		}
		return 0, true
	}
	return v, true
}

func (e *initialValues) SpeciesValue(id string) (float64, bool) {
	s, ok := e.net.speciesByID[id]
	if !ok {
		return e.other(id)
	}
	return e.assigned(id, s.InitialAssignment, s.InitialQuantity)
}

func (e *initialValues) CompartmentValue(id string) (float64, bool) {
	c := e.net.LookupCompartment(id)
	if c == nil {
		return e.other(id)
	}
	return e.assigned(id, c.InitialAssignment, c.Size)
}

func (e *initialValues) SymbolValue(id string) (float64, bool) {
	sym := e.net.Symbols.Lookup(id)
	if sym == nil {
		return e.other(id)
	}
	return e.assigned(id, sym.InitialAssignment, sym.Current)
}

// other resolves a reference whose kind does not match the entity that
// owns id, as happens for a generic symbol reference.
func (e *initialValues) other(id string) (float64, bool) {
	if s, ok := e.net.speciesByID[id]; ok {
		return e.assigned(id, s.InitialAssignment, s.InitialQuantity)
	}
	if c := e.net.LookupCompartment(id); c != nil {
		return e.assigned(id, c.InitialAssignment, c.Size)
	}
	if sym := e.net.Symbols.Lookup(id); sym != nil {
		return e.assigned(id, sym.InitialAssignment, sym.Current)
	}
	return 0, false
}

func (e *initialValues) Time() float64 {
	return 0
}
