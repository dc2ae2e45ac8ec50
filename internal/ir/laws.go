package ir

import (
	"fmt"

	"crnc/internal/kinetic"
	"crnc/internal/symbols"
)

// LawKind says where in the model a kinetic law lives.
type LawKind int

const (
	RateLaw LawKind = iota
	SpeciesInitialAssignment
	CompartmentInitialAssignment
	SymbolInitialAssignment
	RuleMath
	EventTrigger
	EventDelay
	EventPriority
	EventAssignmentMath
	ConstraintMath
)

var lawKindNames = map[LawKind]string{
	RateLaw:                      "rate law",
	SpeciesInitialAssignment:     "species initial assignment",
	CompartmentInitialAssignment: "compartment initial assignment",
	SymbolInitialAssignment:      "symbol initial assignment",
	RuleMath:                     "rule",
	EventTrigger:                 "event trigger",
	EventDelay:                   "event delay",
	EventPriority:                "event priority",
	EventAssignmentMath:          "event assignment",
	ConstraintMath:               "constraint",
}

func (k LawKind) String() string {
	if name, ok := lawKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("LawKind(%d)", int(k))
}

// LawSite is a slot holding a kinetic law. Writing through Law replaces
// the expression in place.
type LawSite struct {
	Kind  LawKind
	Owner string
	Law   *kinetic.Law

	// Scope resolves symbols for the law; reaction rate laws see their locals.
	Scope *symbols.Table

	// Rule is set for RuleMath sites.
	Rule *Rule
}

func (s LawSite) String() string {
	return fmt.Sprintf("%s of '%s'", s.Kind, s.Owner)
}

// Set replaces the law held by the site.
func (s LawSite) Set(law kinetic.Law) {
	*s.Law = law
}

// LawSites lists every non-empty law slot in the model: rate laws, initial
// assignments, rules, events and constraints, in that order.
func (n *Network) LawSites() []LawSite {
	var sites []LawSite
	add := func(kind LawKind, owner string, law *kinetic.Law, scope *symbols.Table) {
		if *law != nil {
			sites = append(sites, LawSite{Kind: kind, Owner: owner, Law: law, Scope: scope})
		}
	}

	for _, r := range n.reactions {
		scope := n.Symbols
		if r.Locals != nil {
			scope = r.Locals
		}
		add(RateLaw, r.ID, &r.KineticLaw, scope)
	}
	for _, s := range n.species {
		add(SpeciesInitialAssignment, s.ID, &s.InitialAssignment, n.Symbols)
	}
	for _, c := range n.ListCompartments() {
		add(CompartmentInitialAssignment, c.ID, &c.InitialAssignment, n.Symbols)
	}
	for _, sym := range n.Symbols.GenerateListOfSymbols() {
		add(SymbolInitialAssignment, sym.ID, &sym.InitialAssignment, n.Symbols)
	}
	for _, rule := range n.ListRules() {
		if rule.Math != nil {
			sites = append(sites, LawSite{Kind: RuleMath, Owner: rule.ID, Law: &rule.Math, Scope: n.Symbols, Rule: rule})
		}
	}
	for _, ev := range n.ListEvents() {
		add(EventTrigger, ev.ID, &ev.Trigger, n.Symbols)
		add(EventDelay, ev.ID, &ev.Delay, n.Symbols)
		add(EventPriority, ev.ID, &ev.Priority, n.Symbols)
		for _, a := range ev.Assignments {
			add(EventAssignmentMath, ev.ID, &a.Math, n.Symbols)
		}
	}
	for _, c := range n.ListConstraints() {
		add(ConstraintMath, c.ID, &c.Math, n.Symbols)
	}
	return sites
}

// AssignedVariables returns the ids written by rules and event
// assignments.
func (n *Network) AssignedVariables() map[string]bool {
	targets := make(map[string]bool)
	for _, rule := range n.ListRules() {
		if rule.Kind != AlgebraicRule && rule.Variable != "" {
			targets[rule.Variable] = true
		}
	}
	for _, ev := range n.ListEvents() {
		for _, a := range ev.Assignments {
			targets[a.Variable] = true
		}
	}
	return targets
}
