package frontend

import (
	"strconv"

	"crnc/grammar"
	"crnc/internal/errors"
	"crnc/internal/ir"
	"crnc/internal/kinetic"
	"crnc/internal/symbols"
)

func (b *Builder) declareItem(item *grammar.Item) {
	switch {
	case item.Unit != nil:
		b.declareUnit(item.Unit)
	case item.Compartment != nil:
		if b.declare(item.Compartment.Name, declCompartment) {
			_ = b.set.Compartments.Add(&ir.Compartment{
				ID:                item.Compartment.Name.Value,
				Size:              1,
				SpatialDimensions: 3,
			})
		}
	case item.Parameter != nil:
		if b.declare(item.Parameter.Name, declParameter) {
			if err := b.net.Symbols.Define(&symbols.Symbol{ID: item.Parameter.Name.Value}); err != nil {
				b.addError(errors.FromError(err, grammar.Position(item.Parameter.Name.Pos)))
			}
		}
	case item.Species != nil:
		if b.declare(item.Species.Name, declSpecies) {
			if _, err := b.net.CreateSpecies(item.Species.Name.Value); err != nil {
				b.addError(errors.FromError(err, grammar.Position(item.Species.Name.Pos)))
			}
		}
	case item.Reaction != nil:
		if b.declare(item.Reaction.Name, declReaction) {
			if _, err := b.net.CreateReaction(item.Reaction.Name.Value); err != nil {
				b.addError(errors.FromError(err, grammar.Position(item.Reaction.Name.Pos)))
			}
		}
	case item.Function != nil:
		// Bodies are lowered here, in source order, so a function can only
		// call functions declared above it.
		if b.declare(item.Function.Name, declFunction) {
			b.defineFunction(item.Function)
		}
	case item.Event != nil:
		b.declare(item.Event.Name, declEvent)
	}
}

func (b *Builder) defineItem(item *grammar.Item) {
	switch {
	case item.Compartment != nil:
		b.defineCompartment(item.Compartment)
	case item.Parameter != nil:
		b.defineParameter(item.Parameter)
	case item.Species != nil:
		b.defineSpecies(item.Species)
	case item.Reaction != nil:
		b.defineReaction(item.Reaction)
	case item.Rule != nil:
		b.defineRule(item.Rule)
	case item.Event != nil:
		b.defineEvent(item.Event)
	case item.Constraint != nil:
		b.defineConstraint(item.Constraint)
	case item.Init != nil:
		b.defineInit(item.Init)
	}
}

func attrName(a *grammar.Attr) string {
	switch {
	case a.Const:
		return "const"
	case a.Keep:
		return "keep"
	case a.Boundary:
		return "boundary"
	case a.Algebraic:
		return "algebraic"
	case a.Amount:
		return "amount"
	case a.Conc:
		return "conc"
	case a.Fast:
		return "fast"
	case a.Reversible:
		return "reversible"
	case a.Persistent:
		return "persistent"
	case a.Units != nil:
		return "units"
	case a.Dims != nil:
		return "dims"
	case a.Outside != nil:
		return "outside"
	}
	return ""
}

// checkAttrs reports attributes outside allowed and returns the rest.
func (b *Builder) checkAttrs(attrs []*grammar.Attr, declaration string, allowed ...string) []*grammar.Attr {
	var valid []*grammar.Attr
	for _, a := range attrs {
		name := attrName(a)
		ok := false
		for _, want := range allowed {
			if name == want {
				ok = true
				break
			}
		}
		if !ok {
			b.addError(errors.InvalidAttribute(name, declaration, grammar.Position(a.Pos)))
			continue
		}
		valid = append(valid, a)
	}
	return valid
}

// checkUnits verifies a units attribute names a declared unit or a base kind.
func (b *Builder) checkUnits(ref *grammar.PosIdent) string {
	if b.units[ref.Value] || isBaseUnit(ref.Value) {
		return ref.Value
	}
	candidates := append(b.unitNames(), baseUnitNames()...)
	b.addError(errors.InvalidUnit(ref.Value, grammar.Position(ref.Pos), errors.FindSimilarNames(ref.Value, candidates)))
	return ""
}

func (b *Builder) defineCompartment(decl *grammar.CompartmentDecl) {
	c := b.net.LookupCompartment(decl.Name.Value)
	if c == nil {
		return
	}
	if decl.Size != nil {
		if v, law, ok := b.initialValue(decl.Size); ok {
			c.Size = v
			c.InitialAssignment = law
		}
	}
	for _, a := range b.checkAttrs(decl.Attrs, "compartment", "const", "units", "dims", "outside") {
		switch {
		case a.Const:
			c.Constant = true
		case a.Units != nil:
			c.Units = b.checkUnits(a.Units)
		case a.Dims != nil:
			dims, err := strconv.Atoi(*a.Dims)
			if err != nil || dims < 0 || dims > 3 {
				b.addError(errors.InvalidAttribute("dims "+*a.Dims, "compartment", grammar.Position(a.Pos)))
				continue
			}
			c.SpatialDimensions = dims
		case a.Outside != nil:
			if kind, ok := b.kindOf(a.Outside.Value); !ok || kind != declCompartment || a.Outside.Value == c.ID {
				b.addError(errors.UndefinedIdentifier(a.Outside.Value, grammar.Position(a.Outside.Pos),
					errors.FindSimilarNames(a.Outside.Value, b.namesOf(declCompartment))))
				continue
			}
			c.Outside = a.Outside.Value
		}
	}
}

func (b *Builder) defineParameter(decl *grammar.ParameterDecl) {
	sym := b.net.Symbols.LookupLocal(decl.Name.Value)
	if sym == nil {
		return
	}
	if decl.Value != nil {
		if v, law, ok := b.initialValue(decl.Value); ok {
			sym.Value = v
			sym.Current = v
			sym.InitialAssignment = law
		}
	}
	for _, a := range b.checkAttrs(decl.Attrs, "parameter", "const", "units") {
		switch {
		case a.Const:
			sym.Constant = true
		case a.Units != nil:
			sym.Units = b.checkUnits(a.Units)
		}
	}
}

func (b *Builder) defineSpecies(decl *grammar.SpeciesDecl) {
	s := b.net.LookupSpecies(decl.Name.Value)
	if s == nil {
		return
	}

	switch compartments := b.namesOf(declCompartment); {
	case decl.Compartment != nil:
		name := decl.Compartment.Value
		if kind, ok := b.kindOf(name); !ok || kind != declCompartment {
			b.addError(errors.UndefinedIdentifier(name, grammar.Position(decl.Compartment.Pos),
				errors.FindSimilarNames(name, compartments)))
		} else {
			b.net.SetCompartment(s, name)
		}
	case len(compartments) == 1:
		b.net.SetCompartment(s, compartments[0])
	}

	value := 0.0
	if decl.Initial != nil {
		if v, law, ok := b.initialValue(decl.Initial); ok {
			value = v
			if law != nil {
				b.net.SetInitialAssignment(s, law)
			}
		}
	}

	var flags ir.SpeciesFlags
	conc := false
	for _, a := range b.checkAttrs(decl.Attrs, "species", "const", "keep", "boundary", "algebraic", "amount", "conc", "units") {
		switch {
		case a.Const:
			flags.Constant = true
		case a.Keep:
			flags.Keep = true
		case a.Boundary:
			flags.Boundary = true
		case a.Algebraic:
			flags.Algebraic = true
		case a.Amount:
			conc = false
		case a.Conc:
			conc = true
		case a.Units != nil:
			b.net.SetSubstanceUnits(s, b.checkUnits(a.Units))
		}
	}
	b.net.SetSpeciesFlags(s, flags)
	if conc {
		b.net.SetInitialConcentration(s, value)
	} else {
		b.net.SetInitialAmount(s, value)
	}
}

func (b *Builder) defineFunction(decl *grammar.FunctionDecl) {
	params := make(map[string]bool, len(decl.Params))
	names := make([]string, 0, len(decl.Params))
	for _, p := range decl.Params {
		if params[p.Value] {
			b.addError(errors.DuplicateDeclaration(p.Value, grammar.Position(p.Pos)))
			continue
		}
		params[p.Value] = true
		names = append(names, p.Value)
	}

	// Bodies see their parameters and the builtin symbols only.
	resolve := func(name string) kinetic.Law {
		if params[name] {
			return kinetic.NewSymbolRef(name)
		}
		if kinetic.IsBuiltinSymbol(name) {
			return kinetic.NewFunctionSymbol(name)
		}
		return nil
	}
	body := b.lower(decl.Body, resolve, func() []string { return names })
	if body == nil {
		return
	}
	_ = b.set.Functions.Add(&ir.FunctionDefinition{ID: decl.Name.Value, Params: names, Body: body})
}

// target checks that name can be assigned by a rule, event or init.
func (b *Builder) target(name grammar.PosIdent) (declKind, bool) {
	pos := grammar.Position(name.Pos)
	kind, ok := b.kindOf(name.Value)
	if !ok {
		b.addError(errors.UndefinedIdentifier(name.Value, pos, errors.FindSimilarNames(name.Value, b.names())))
		return "", false
	}
	switch kind {
	case declSpecies, declParameter, declCompartment:
		return kind, true
	}
	b.addError(errors.InvalidTarget(name.Value, string(kind), pos))
	return "", false
}

func (b *Builder) defineRule(decl *grammar.RuleDecl) {
	if decl.Algebraic != nil {
		if math := b.lowerGlobal(decl.Algebraic); math != nil {
			_ = b.set.Rules.Add(&ir.Rule{Kind: ir.AlgebraicRule, Math: math})
		}
		return
	}

	kind, t := ir.AssignmentRule, decl.Assign
	if decl.Rate != nil {
		kind, t = ir.RateRule, decl.Rate
	}
	if _, ok := b.target(t.Variable); !ok {
		return
	}
	if b.set.Rules.LookupRuleFor(t.Variable.Value) != nil {
		b.addError(errors.NewDiagnostic(errors.ErrorDuplicateDeclaration,
			"'"+t.Variable.Value+"' already has a rule", grammar.Position(t.Variable.Pos)).
			WithLength(len(t.Variable.Value)).
			WithNote("a variable may be targeted by at most one assignment or rate rule").
			Build())
		return
	}
	math := b.lowerGlobal(t.Math)
	if math == nil {
		return
	}
	b.targets[t.Variable.Value] = true
	_ = b.set.Rules.Add(&ir.Rule{Kind: kind, Variable: t.Variable.Value, Math: math})
}

func (b *Builder) defineEvent(decl *grammar.EventDecl) {
	if kind, _ := b.kindOf(decl.Name.Value); kind != declEvent || b.set.Events.LookupEvent(decl.Name.Value) != nil {
		return
	}
	event := &ir.Event{
		ID:                       decl.Name.Value,
		Trigger:                  b.lowerGlobal(decl.Trigger),
		Delay:                    b.lowerGlobal(decl.Delay),
		Priority:                 b.lowerGlobal(decl.Priority),
		UseValuesFromTriggerTime: true,
	}
	for _, a := range b.checkAttrs(decl.Attrs, "event", "persistent") {
		event.Persistent = event.Persistent || a.Persistent
	}
	for _, assign := range decl.Assignments {
		if _, ok := b.target(assign.Variable); !ok {
			continue
		}
		if math := b.lowerGlobal(assign.Math); math != nil {
			b.targets[assign.Variable.Value] = true
			event.Assignments = append(event.Assignments, &ir.EventAssignment{Variable: assign.Variable.Value, Math: math})
		}
	}
	if event.Trigger == nil {
		return
	}
	_ = b.set.Events.Add(event)
}

func (b *Builder) defineConstraint(decl *grammar.ConstraintDecl) {
	math := b.lowerGlobal(decl.Math)
	if math == nil {
		return
	}
	c := &ir.Constraint{Math: math}
	if decl.Message != nil {
		c.Message = *decl.Message
	}
	_ = b.set.Constraints.Add(c)
}

func (b *Builder) defineInit(decl *grammar.InitDecl) {
	kind, ok := b.target(decl.Target)
	if !ok {
		return
	}
	if b.inits[decl.Target.Value] {
		b.addError(errors.DuplicateDeclaration("init "+decl.Target.Value, grammar.Position(decl.Target.Pos)))
		return
	}
	math := b.lowerGlobal(decl.Math)
	if math == nil {
		return
	}
	b.inits[decl.Target.Value] = true
	b.targets[decl.Target.Value] = true

	switch kind {
	case declSpecies:
		b.net.SetInitialAssignment(b.net.LookupSpecies(decl.Target.Value), math)
	case declParameter:
		b.net.Symbols.LookupLocal(decl.Target.Value).InitialAssignment = math
	case declCompartment:
		b.net.LookupCompartment(decl.Target.Value).InitialAssignment = math
	}
}
