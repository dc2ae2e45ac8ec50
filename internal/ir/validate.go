package ir

import (
	"crnc/internal/errors"
	"crnc/internal/kinetic"
)

// Validate checks edge bookkeeping and that every law reference resolves.
// It returns the first problem found.
func (n *Network) Validate() error {
	for kind := range n.flat {
		for _, ref := range n.flat[kind] {
			e, err := n.Edge(ref)
			if err != nil {
				return err
			}
			if err := n.owns(e.Reaction, e.Species); err != nil {
				return err
			}
			if !containsRef(e.Reaction.edges[e.Kind], ref) || !containsRef(e.Species.incident, ref) {
				return errors.New(errors.KindDanglingReference, ref.String(),
					"%s edge %s -> %s is not registered on both endpoints", e.Kind, e.Reaction.ID, e.Species.ID)
			}
			if e.StoichiometrySymbol != "" && n.Symbols.Lookup(e.StoichiometrySymbol) == nil {
				return errors.New(errors.KindUnresolvedSymbol, e.StoichiometrySymbol,
					"stoichiometry of %s in %s refers to unknown symbol '%s'", e.Species.ID, e.Reaction.ID, e.StoichiometrySymbol)
			}
		}
	}

	for _, s := range n.species {
		if s.Compartment != "" && n.Managers.Compartments != nil && n.LookupCompartment(s.Compartment) == nil {
			return errors.New(errors.KindUnresolvedSymbol, s.Compartment,
				"species '%s' is in unknown compartment '%s'", s.ID, s.Compartment)
		}
	}

	for _, site := range n.LawSites() {
		if err := kinetic.Check(*site.Law); err != nil {
			return errors.Wrap(errors.KindInvalidOp, site.Owner, err, "%s", site)
		}
		if err := n.checkReferences(site); err != nil {
			return err
		}
	}
	return nil
}

func (n *Network) checkReferences(site LawSite) error {
	var err error
	kinetic.Walk(*site.Law, kinetic.PreOrder, func(law kinetic.Law) bool {
		if err != nil {
			return false
		}
		switch ref := law.(type) {
		case *kinetic.SpeciesRef:
			if n.speciesByID[ref.ID] == nil {
				err = unresolved(site, "species", ref.ID)
			}
		case *kinetic.SymbolRef:
			if site.Scope.Lookup(ref.ID) == nil {
				err = unresolved(site, "symbol", ref.ID)
			}
		case *kinetic.CompartmentRef:
			if n.LookupCompartment(ref.ID) == nil {
				err = unresolved(site, "compartment", ref.ID)
			}
		case *kinetic.FunctionSymbol:
			if !kinetic.IsBuiltinSymbol(ref.Name) {
				err = unresolved(site, "function symbol", ref.Name)
			}
		}
		return err == nil
	})
	return err
}

func unresolved(site LawSite, what, id string) error {
	return errors.New(errors.KindUnresolvedSymbol, id, "%s references unknown %s '%s'", site, what, id)
}

func containsRef(refs []EdgeRef, ref EdgeRef) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
