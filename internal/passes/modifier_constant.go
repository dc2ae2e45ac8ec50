package passes

import (
	"crnc/internal/errors"
	"crnc/internal/ir"
	"crnc/internal/kinetic"
)

const ModifierConstantPropagationID = "modifier-constant-propagation"

// ModifierConstantPropagation replaces species that are never consumed or
// produced by a constant symbol holding their initial value.
type ModifierConstantPropagation struct{}

func (p *ModifierConstantPropagation) ID() string {
	return ModifierConstantPropagationID
}

func (p *ModifierConstantPropagation) Description() string {
	return "Turns modifier-only species into constant parameters"
}

func (p *ModifierConstantPropagation) Apply(net *ir.Network) error {
	targets := net.AssignedVariables()
	algebraic := algebraicSpecies(net)

	for _, s := range net.ListSpecies() {
		if s.Keep || targets[s.ID] || algebraic[s.ID] || !modifierOnly(net, s) {
			continue
		}
		if err := p.propagate(net, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *ModifierConstantPropagation) propagate(net *ir.Network, s *ir.Species) error {
	value := s.InitialQuantity
	if s.InitialAssignment != nil {
		v, err := net.EvaluateInitial(s.InitialAssignment, nil, 0)
		if err != nil {
			return errors.Wrap(errors.KindOf(err), s.ID, err, "cannot reduce initial assignment of %s", s.ID)
		}
		value = v
	}

	sym := net.Symbols.AddRealValueSymbol(s.ID, value, true)
	sym.Units = s.SubstanceUnits
	replacement := kinetic.NewSymbolRef(sym.ID)

	for _, site := range net.LawSites() {
		if kinetic.References(*site.Law, s.ID) {
			site.Set(kinetic.Substitute(*site.Law, s.ID, replacement))
		}
	}
	net.MarkChanged()

	log.Debugf("%s: %s becomes constant %s = %g", ModifierConstantPropagationID, s.ID, sym.ID, value)
	return net.RemoveSpecies(s)
}

// modifierOnly reports whether s has no reactant or product edges.
func modifierOnly(net *ir.Network, s *ir.Species) bool {
	for _, e := range net.IncidentEdges(s) {
		if e.Kind != ir.ModifierEdge {
			return false
		}
	}
	return true
}

func algebraicSpecies(net *ir.Network) map[string]bool {
	ids := make(map[string]bool)
	for _, rule := range net.ListRules() {
		if rule.Kind == ir.AlgebraicRule && rule.Math != nil {
			for id := range kinetic.Dependencies(rule.Math).Species {
				ids[id] = true
			}
		}
	}
	return ids
}
