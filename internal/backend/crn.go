package backend

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"crnc/internal/ir"
	"crnc/internal/kinetic"
)

// WriteCRN exports net as .crn source. Reading the output back with the
// front end yields an equivalent network.
func WriteCRN(w io.Writer, net *ir.Network) error {
	p := NewPrinter("    ")
	p.writeLine("model %s {", net.ID)
	p.indent++

	for _, u := range net.ListUnitDefinitions() {
		p.writeLine("unit %s = %s;", u.ID, unitFactors(u))
	}
	for _, c := range net.ListCompartments() {
		p.writeLine("compartment %s;", join(c.ID, "= "+formatNumber(c.Size), compartmentAttrs(c)))
	}
	for _, sym := range net.Symbols.GenerateListOfSymbols() {
		p.writeLine("parameter %s;", join(sym.ID, "= "+formatNumber(sym.Value), flag(sym.Constant, "const"), units(sym.Units)))
	}
	for _, s := range net.ListSpecies() {
		p.writeLine("species %s;", join(s.ID, speciesValue(s), speciesAttrs(s)))
	}
	for _, f := range net.ListFunctionDefinitions() {
		p.writeLine("function %s(%s) = %s;", f.ID, strings.Join(f.Params, ", "), kinetic.ToCanonicalString(f.Body))
	}
	for _, r := range net.ListReactions() {
		p.writeLine("%s;", reactionLine(net, r))
	}
	for _, r := range net.ListRules() {
		if r.Kind == ir.AlgebraicRule {
			p.writeLine("rule algebraic %s;", kinetic.ToCanonicalString(r.Math))
			continue
		}
		p.writeLine("rule %s %s = %s;", r.Kind, r.Variable, kinetic.ToCanonicalString(r.Math))
	}
	for _, e := range net.ListEvents() {
		writeEvent(p, e)
	}
	for _, c := range net.ListConstraints() {
		if c.Message != "" {
			p.writeLine("constraint %s %s;", kinetic.ToCanonicalString(c.Math), strconv.Quote(c.Message))
		} else {
			p.writeLine("constraint %s;", kinetic.ToCanonicalString(c.Math))
		}
	}
	writeInits(p, net)

	p.indent--
	p.writeLine("}")
	return p.flush(w)
}

// join drops empty parts and separates the rest with spaces.
func join(parts ...string) string {
	var kept []string
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}

func flag(set bool, name string) string {
	if set {
		return name
	}
	return ""
}

func units(id string) string {
	if id == "" {
		return ""
	}
	return "units " + id
}

func unitFactors(u *ir.UnitDefinition) string {
	factors := make([]string, len(u.Units))
	for i, f := range u.Units {
		factors[i] = f.Kind
		if f.Exponent != 1 {
			factors[i] += "^" + formatNumber(f.Exponent)
		}
	}
	return strings.Join(factors, " * ")
}

func compartmentAttrs(c *ir.Compartment) string {
	dims := ""
	if c.SpatialDimensions != 3 {
		dims = fmt.Sprintf("dims %d", c.SpatialDimensions)
	}
	outside := ""
	if c.Outside != "" {
		outside = "outside " + c.Outside
	}
	return join(flag(c.Constant, "const"), dims, units(c.Units), outside)
}

func speciesValue(s *ir.Species) string {
	value := "= " + formatNumber(s.InitialQuantity)
	if s.Compartment != "" {
		return "in " + s.Compartment + " " + value
	}
	return value
}

func speciesAttrs(s *ir.Species) string {
	return join(
		flag(s.QuantityKind == ir.Concentration, "conc"),
		flag(s.Constant, "const"),
		flag(s.Boundary, "boundary"),
		flag(s.Algebraic, "algebraic"),
		flag(s.Keep, "keep"),
		units(s.SubstanceUnits),
	)
}

func reactionLine(net *ir.Network, r *ir.Reaction) string {
	head := join("reaction "+r.ID, flag(r.Fast, "fast"))
	if locals := localParams(r); locals != "" {
		head += " (" + locals + ")"
	}

	arrow := "->"
	if r.Reversible {
		arrow = "<->"
	}
	line := join(head+":", terms(net.ListReactantEdges(r)), arrow, terms(net.ListProductEdges(r)))

	if modifiers := net.ListModifierEdges(r); len(modifiers) > 0 {
		ids := make([]string, len(modifiers))
		for i, e := range modifiers {
			ids[i] = e.Species.ID
		}
		line += " modifiers " + strings.Join(ids, ", ")
	}
	if r.KineticLaw != nil {
		line += " rate " + kinetic.ToCanonicalString(r.KineticLaw)
	}
	return line
}

func localParams(r *ir.Reaction) string {
	if r.Locals == nil {
		return ""
	}
	var parts []string
	for _, sym := range r.Locals.GenerateListOfSymbols() {
		parts = append(parts, sym.ID+" = "+formatNumber(sym.Value))
	}
	return strings.Join(parts, ", ")
}

func terms(edges []*ir.Edge) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		switch {
		case e.StoichiometrySymbol != "":
			parts[i] = "(" + e.StoichiometrySymbol + ") " + e.Species.ID
		case e.Stoichiometry != 1:
			parts[i] = formatNumber(e.Stoichiometry) + " " + e.Species.ID
		default:
			parts[i] = e.Species.ID
		}
	}
	return strings.Join(parts, " + ")
}

func writeEvent(p *Printer, e *ir.Event) {
	head := "event " + e.ID + " when " + kinetic.ToCanonicalString(e.Trigger)
	if e.Delay != nil {
		head += " delay " + kinetic.ToCanonicalString(e.Delay)
	}
	if e.Priority != nil {
		head += " priority " + kinetic.ToCanonicalString(e.Priority)
	}
	if e.Persistent {
		head += " persistent"
	}
	p.writeLine("%s {", head)
	p.indent++
	for _, a := range e.Assignments {
		p.writeLine("%s = %s;", a.Variable, kinetic.ToCanonicalString(a.Math))
	}
	p.indent--
	p.writeLine("};")
}

// writeInits emits initial assignments last, so their formulas may refer
// to anything declared above.
func writeInits(p *Printer, net *ir.Network) {
	for _, c := range net.ListCompartments() {
		if c.InitialAssignment != nil {
			p.writeLine("init %s = %s;", c.ID, kinetic.ToCanonicalString(c.InitialAssignment))
		}
	}
	for _, sym := range net.Symbols.GenerateListOfSymbols() {
		if sym.InitialAssignment != nil {
			p.writeLine("init %s = %s;", sym.ID, kinetic.ToCanonicalString(sym.InitialAssignment))
		}
	}
	for _, s := range net.ListSpecies() {
		if s.InitialAssignment != nil {
			p.writeLine("init %s = %s;", s.ID, kinetic.ToCanonicalString(s.InitialAssignment))
		}
	}
}
