package frontend

import (
	"fmt"
	"strconv"

	"crnc/grammar"
	"crnc/internal/errors"
	"crnc/internal/ir"
	"crnc/internal/kinetic"
	"crnc/internal/symbols"
)

// participant is one species on one side of a reaction, after repeated
// terms have been summed.
type participant struct {
	species       *ir.Species
	stoichiometry float64
	symbol        string
	constant      bool
}

func (b *Builder) defineReaction(decl *grammar.ReactionDecl) {
	r := b.net.LookupReaction(decl.Name.Value)
	if r == nil {
		return
	}

	for _, a := range b.checkAttrs(decl.Attrs, "reaction", "reversible", "fast") {
		switch {
		case a.Reversible:
			b.net.SetReversible(r, true)
		case a.Fast:
			b.net.SetFast(r, true)
		}
	}
	if decl.Arrow == "<->" {
		b.net.SetReversible(r, true)
	}

	locals := b.defineLocals(r, decl.Locals)

	for _, p := range b.participants(decl.Reactants) {
		b.addEdge(r, ir.ReactantEdge, p)
	}
	for _, p := range b.participants(decl.Products) {
		b.addEdge(r, ir.ProductEdge, p)
	}
	for _, m := range decl.Modifiers {
		if s := b.species(m); s != nil {
			if _, err := b.net.AddModifierEdge(r, s); err != nil {
				b.addError(errors.FromError(err, grammar.Position(m.Pos)))
			}
		}
	}

	if decl.Rate == nil {
		return
	}
	resolve := func(name string) kinetic.Law {
		if locals != nil && locals.LookupLocal(name) != nil {
			return kinetic.NewSymbolRef(name)
		}
		return b.resolveGlobal(name)
	}
	candidates := func() []string {
		names := b.names()
		if locals != nil {
			for _, sym := range locals.GenerateListOfSymbols() {
				names = append(names, sym.ID)
			}
		}
		return names
	}
	law := b.lower(decl.Rate, resolve, candidates)
	if law == nil {
		return
	}
	if err := b.net.SetKineticLaw(r, law); err != nil {
		b.addError(errors.FromError(err, grammar.Position(decl.Rate.Pos)))
		return
	}
	b.addImplicitModifiers(r, law)
}

// defineLocals creates the reaction's local parameters. Their values must
// not depend on model state.
func (b *Builder) defineLocals(r *ir.Reaction, locals []*grammar.LocalParam) *symbols.Table {
	if len(locals) == 0 {
		return nil
	}
	table := b.net.LocalParameters(r)
	for _, p := range locals {
		pos := grammar.Position(p.Name.Pos)
		law := b.lowerGlobal(p.Value)
		if law == nil {
			continue
		}
		v, err := b.net.Evaluate(law, nil, 0)
		if err != nil {
			b.addError(errors.FromError(err, pos))
			continue
		}
		if kinetic.Dependencies(law).Len() > 0 {
			b.addError(errors.NewDiagnostic(errors.ErrorInvalidArguments,
				fmt.Sprintf("local parameter '%s' must be a constant", p.Name.Value), pos).
				WithLength(len(p.Name.Value)).
				WithHelp("use a number or an expression over numbers").
				Build())
			continue
		}
		if err := table.Define(&symbols.Symbol{ID: p.Name.Value, Value: v, Current: v, Constant: true}); err != nil {
			b.addError(errors.DuplicateDeclaration(p.Name.Value, pos))
		}
	}
	return table
}

func (b *Builder) species(name *grammar.PosIdent) *ir.Species {
	if kind, ok := b.kindOf(name.Value); ok && kind == declSpecies {
		return b.net.LookupSpecies(name.Value)
	}
	b.addError(errors.UndefinedIdentifier(name.Value, grammar.Position(name.Pos),
		errors.FindSimilarNames(name.Value, b.namesOf(declSpecies))))
	return nil
}

// participants resolves one side of a reaction. Repeated species are
// merged so "A + A" has stoichiometry 2.
func (b *Builder) participants(terms []*grammar.Term) []*participant {
	var list []*participant
	byID := make(map[string]*participant)

	for _, term := range terms {
		s := b.species(&term.Species)
		if s == nil {
			continue
		}
		stoich, symbol, constant, ok := b.stoichiometry(term)
		if !ok {
			continue
		}
		if p, seen := byID[s.ID]; seen {
			p.stoichiometry += stoich
			if p.symbol == "" {
				p.symbol = symbol
				p.constant = constant
			}
			continue
		}
		p := &participant{species: s, stoichiometry: stoich, symbol: symbol, constant: constant}
		byID[s.ID] = p
		list = append(list, p)
	}
	return list
}

func (b *Builder) stoichiometry(term *grammar.Term) (float64, string, bool, bool) {
	switch {
	case term.Number != nil:
		v, err := strconv.ParseFloat(*term.Number, 64)
		if err != nil || v <= 0 {
			b.addError(errors.InvalidStoichiometry(*term.Number, grammar.Position(term.Pos)))
			return 0, "", false, false
		}
		return v, "", true, true
	case term.Symbol != nil:
		sym := b.net.Symbols.LookupLocal(term.Symbol.Value)
		if sym == nil {
			b.addError(errors.InvalidStoichiometry(term.Symbol.Value, grammar.Position(term.Symbol.Pos)))
			return 0, "", false, false
		}
		return sym.Value, sym.ID, sym.Constant, true
	}
	return 1, "", true, true
}

func (b *Builder) addEdge(r *ir.Reaction, kind ir.EdgeKind, p *participant) {
	var opts []ir.EdgeOption
	if p.symbol != "" {
		opts = append(opts, ir.WithStoichiometrySymbol(p.symbol), ir.WithConstant(p.constant))
	}
	var err error
	if kind == ir.ReactantEdge {
		_, err = b.net.AddReactantEdge(r, p.species, p.stoichiometry, opts...)
	} else {
		_, err = b.net.AddProductEdge(r, p.species, p.stoichiometry, opts...)
	}
	if err != nil {
		b.addError(errors.FromError(err, errors.Position{}))
	}
}

// addImplicitModifiers connects species read by the rate law that are not
// already part of the reaction.
func (b *Builder) addImplicitModifiers(r *ir.Reaction, law kinetic.Law) {
	connected := make(map[string]bool)
	for _, kind := range []ir.EdgeKind{ir.ReactantEdge, ir.ProductEdge, ir.ModifierEdge} {
		for _, e := range b.edgesOf(r, kind) {
			connected[e.Species.ID] = true
		}
	}
	for _, id := range kinetic.Dependencies(law).SpeciesIDs() {
		if connected[id] {
			continue
		}
		if s := b.net.LookupSpecies(id); s != nil {
			if _, err := b.net.AddModifierEdge(r, s); err == nil {
				log.Debugf("reaction %s: %s added as modifier", r.ID, id)
			}
		}
	}
}

func (b *Builder) edgesOf(r *ir.Reaction, kind ir.EdgeKind) []*ir.Edge {
	switch kind {
	case ir.ReactantEdge:
		return b.net.ListReactantEdges(r)
	case ir.ProductEdge:
		return b.net.ListProductEdges(r)
	}
	return b.net.ListModifierEdges(r)
}
