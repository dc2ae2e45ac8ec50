// Package managers holds in-memory, insertion-ordered implementations of
// the IR's auxiliary data managers.
package managers

import (
	"fmt"

	"crnc/internal/ir"
)

type Compartments struct{ s store[ir.Compartment] }

func NewCompartments() *Compartments {
	return &Compartments{s: newStore[ir.Compartment]("compartment")}
}

func (m *Compartments) Add(c *ir.Compartment) error { return m.s.add(c.ID, c) }
func (m *Compartments) Len() int                    { return m.s.len() }

func (m *Compartments) CreateListOfCompartments() []*ir.Compartment {
	return m.s.list()
}

func (m *Compartments) LookupCompartment(id string) *ir.Compartment {
	return m.s.lookup(id)
}

type Units struct{ s store[ir.UnitDefinition] }

func NewUnits() *Units {
	return &Units{s: newStore[ir.UnitDefinition]("unit definition")}
}

func (m *Units) Add(u *ir.UnitDefinition) error { return m.s.add(u.ID, u) }
func (m *Units) Len() int                       { return m.s.len() }

func (m *Units) CreateListOfUnitDefinitions() []*ir.UnitDefinition {
	return m.s.list()
}

func (m *Units) LookupUnitDefinition(id string) *ir.UnitDefinition {
	return m.s.lookup(id)
}

type Functions struct{ s store[ir.FunctionDefinition] }

func NewFunctions() *Functions {
	return &Functions{s: newStore[ir.FunctionDefinition]("function")}
}

func (m *Functions) Add(f *ir.FunctionDefinition) error { return m.s.add(f.ID, f) }
func (m *Functions) Len() int                           { return m.s.len() }

func (m *Functions) CreateListOfFunctionDefinitions() []*ir.FunctionDefinition {
	return m.s.list()
}

func (m *Functions) LookupFunctionDefinition(id string) *ir.FunctionDefinition {
	return m.s.lookup(id)
}

// Rules stores rules. Rules added without an id get "rule<N>".
type Rules struct {
	s    store[ir.Rule]
	next int
}

func NewRules() *Rules {
	return &Rules{s: newStore[ir.Rule]("rule")}
}

func (m *Rules) Add(r *ir.Rule) error {
	if r.ID == "" {
		for {
			m.next++
			id := fmt.Sprintf("rule%d", m.next)
			if m.s.lookup(id) == nil {
				r.ID = id
				break
			}
		}
	}
	return m.s.add(r.ID, r)
}

func (m *Rules) Len() int                      { return m.s.len() }
func (m *Rules) CreateListOfRules() []*ir.Rule { return m.s.list() }
func (m *Rules) LookupRule(id string) *ir.Rule { return m.s.lookup(id) }
func (m *Rules) RemoveRule(id string) bool     { return m.s.remove(id) }

// LookupRuleFor returns the assignment or rate rule targeting variable.
func (m *Rules) LookupRuleFor(variable string) *ir.Rule {
	for _, r := range m.s.list() {
		if r.Kind != ir.AlgebraicRule && r.Variable == variable {
			return r
		}
	}
	return nil
}

// Constraints stores constraints. Constraints added without an id get "constraint<N>".
type Constraints struct {
	s    store[ir.Constraint]
	next int
}

func NewConstraints() *Constraints {
	return &Constraints{s: newStore[ir.Constraint]("constraint")}
}

func (m *Constraints) Add(c *ir.Constraint) error {
	if c.ID == "" {
		m.next++
		c.ID = fmt.Sprintf("constraint%d", m.next)
	}
	return m.s.add(c.ID, c)
}

func (m *Constraints) Len() int { return m.s.len() }

func (m *Constraints) CreateListOfConstraints() []*ir.Constraint {
	return m.s.list()
}

func (m *Constraints) LookupConstraint(id string) *ir.Constraint {
	return m.s.lookup(id)
}

type Events struct{ s store[ir.Event] }

func NewEvents() *Events {
	return &Events{s: newStore[ir.Event]("event")}
}

func (m *Events) Add(e *ir.Event) error { return m.s.add(e.ID, e) }
func (m *Events) Len() int              { return m.s.len() }

func (m *Events) CreateListOfEvents() []*ir.Event {
	return m.s.list()
}

func (m *Events) LookupEvent(id string) *ir.Event {
	return m.s.lookup(id)
}

// Set bundles one manager of each kind.
type Set struct {
	Compartments *Compartments
	Units        *Units
	Functions    *Functions
	Rules        *Rules
	Constraints  *Constraints
	Events       *Events
}

// New creates an empty set of managers.
func New() *Set {
	return &Set{
		Compartments: NewCompartments(),
		Units:        NewUnits(),
		Functions:    NewFunctions(),
		Rules:        NewRules(),
		Constraints:  NewConstraints(),
		Events:       NewEvents(),
	}
}

// Managers returns the set as the IR's manager bundle.
func (s *Set) Managers() ir.Managers {
	return ir.Managers{
		Compartments: s.Compartments,
		Units:        s.Units,
		Functions:    s.Functions,
		Rules:        s.Rules,
		Constraints:  s.Constraints,
		Events:       s.Events,
	}
}

// Attach installs the set on net.
func (s *Set) Attach(net *ir.Network) {
	net.Managers = s.Managers()
}
