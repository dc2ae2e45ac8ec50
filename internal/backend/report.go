package backend

import (
	"fmt"
	"io"
	"strings"

	"crnc/internal/ir"
	"crnc/internal/kinetic"
)

// WriteReport prints a human-readable summary of net.
func WriteReport(w io.Writer, net *ir.Network) error {
	p := NewPrinter("  ")
	p.writeLine("MODEL %s", net.ID)
	p.writeLine("")

	if compartments := net.ListCompartments(); len(compartments) > 0 {
		p.writeLine("COMPARTMENTS:")
		p.indent++
		for _, c := range compartments {
			p.writeLine("%-12s size=%s dims=%d%s", c.ID, formatNumber(c.Size), c.SpatialDimensions, suffix(flag(c.Constant, "const"), bracket(c.Units)))
		}
		p.indent--
	}

	if params := net.Symbols.GenerateListOfSymbols(); len(params) > 0 {
		p.writeLine("PARAMETERS:")
		p.indent++
		for _, sym := range params {
			p.writeLine("%-12s = %s%s", sym.ID, formatNumber(sym.Value), suffix(flag(sym.Constant, "const"), bracket(sym.Units)))
		}
		p.indent--
	}

	if species := net.ListSpecies(); len(species) > 0 {
		p.writeLine("SPECIES:")
		p.indent++
		for _, s := range species {
			where := "-"
			if s.Compartment != "" {
				where = s.Compartment
			}
			p.writeLine("%-12s in %s %s=%s%s", s.ID, where, s.QuantityKind, formatNumber(s.InitialQuantity), suffix(
				flag(s.Constant, "const"),
				flag(s.Boundary, "boundary"),
				flag(s.Algebraic, "algebraic"),
				flag(s.Keep, "keep"),
			))
		}
		p.indent--
	}

	if reactions := net.ListReactions(); len(reactions) > 0 {
		p.writeLine("REACTIONS:")
		p.indent++
		for _, r := range reactions {
			arrow := "->"
			if r.Reversible {
				arrow = "<->"
			}
			p.writeLine("%s: %s", r.ID, join(terms(net.ListReactantEdges(r)), arrow, terms(net.ListProductEdges(r))))
			p.indent++
			if modifiers := net.ListModifierEdges(r); len(modifiers) > 0 {
				ids := make([]string, len(modifiers))
				for i, e := range modifiers {
					ids[i] = e.Species.ID
				}
				p.writeLine("modifiers: %s", strings.Join(ids, ", "))
			}
			if locals := localParams(r); locals != "" {
				p.writeLine("locals: %s", locals)
			}
			if r.KineticLaw != nil {
				p.writeLine("rate: %s", kinetic.ToCanonicalString(r.KineticLaw))
			}
			p.indent--
		}
		p.indent--
	}

	if rules := net.ListRules(); len(rules) > 0 {
		p.writeLine("RULES:")
		p.indent++
		for _, r := range rules {
			if r.Kind == ir.AlgebraicRule {
				p.writeLine("%s: 0 = %s", r.ID, kinetic.ToCanonicalString(r.Math))
				continue
			}
			p.writeLine("%s: %s %s = %s", r.ID, r.Kind, r.Variable, kinetic.ToCanonicalString(r.Math))
		}
		p.indent--
	}

	if events := net.ListEvents(); len(events) > 0 {
		p.writeLine("EVENTS:")
		p.indent++
		for _, e := range events {
			p.writeLine("%s: when %s", e.ID, kinetic.ToCanonicalString(e.Trigger))
			p.indent++
			for _, a := range e.Assignments {
				p.writeLine("%s := %s", a.Variable, kinetic.ToCanonicalString(a.Math))
			}
			p.indent--
		}
		p.indent--
	}

	p.writeLine("")
	p.writeLine("SUMMARY: %d species, %d reactions, %d edges, %d parameters",
		len(net.ListSpecies()), len(net.ListReactions()), net.EdgeCount(), net.Symbols.Len())
	return p.flush(w)
}

// suffix renders optional trailing markers, each preceded by a space.
func suffix(parts ...string) string {
	s := join(parts...)
	if s == "" {
		return ""
	}
	return " " + s
}

func bracket(s string) string {
	if s == "" {
		return ""
	}
	return fmt.Sprintf("[%s]", s)
}
