package ir

import "crnc/internal/kinetic"

// Compartment is a bounded volume that species live in.
type Compartment struct {
	ID                string
	Name              string
	Size              float64
	SpatialDimensions int
	Constant          bool
	Units             string
	Outside           string
	InitialAssignment kinetic.Law
}

// Unit is one factor of a unit definition: (multiplier * 10^scale * kind)^exponent.
type Unit struct {
	Kind       string
	Exponent   float64
	Scale      int
	Multiplier float64
}

type UnitDefinition struct {
	ID    string
	Name  string
	Units []Unit
}

// FunctionDefinition is a user lambda. Body refers to parameters by SymbolRef.
type FunctionDefinition struct {
	ID     string
	Params []string
	Body   kinetic.Law
}

type RuleKind int

const (
	AssignmentRule RuleKind = iota
	RateRule
	AlgebraicRule
)

func (k RuleKind) String() string {
	switch k {
	case AssignmentRule:
		return "assign"
	case RateRule:
		return "rate"
	case AlgebraicRule:
		return "algebraic"
	}
	return "unknown"
}

// Rule constrains a model variable. Algebraic rules have no Variable and
// assert Math == 0.
type Rule struct {
	ID       string
	Kind     RuleKind
	Variable string
	Math     kinetic.Law
}

type EventAssignment struct {
	Variable string
	Math     kinetic.Law
}

type Event struct {
	ID                       string
	Trigger                  kinetic.Law
	Delay                    kinetic.Law
	Priority                 kinetic.Law
	Assignments              []*EventAssignment
	UseValuesFromTriggerTime bool
	Persistent               bool
	InitialValue             bool
}

type Constraint struct {
	ID      string
	Math    kinetic.Law
	Message string
}

// Manager interfaces. Each returns snapshots in insertion order and nil
// from a lookup of an unknown id.

type CompartmentManager interface {
	CreateListOfCompartments() []*Compartment
	LookupCompartment(id string) *Compartment
}

type UnitManager interface {
	CreateListOfUnitDefinitions() []*UnitDefinition
	LookupUnitDefinition(id string) *UnitDefinition
}

type FunctionManager interface {
	CreateListOfFunctionDefinitions() []*FunctionDefinition
	LookupFunctionDefinition(id string) *FunctionDefinition
}

type RuleManager interface {
	CreateListOfRules() []*Rule
	LookupRule(id string) *Rule
	RemoveRule(id string) bool
}

type ConstraintManager interface {
	CreateListOfConstraints() []*Constraint
	LookupConstraint(id string) *Constraint
}

type EventManager interface {
	CreateListOfEvents() []*Event
	LookupEvent(id string) *Event
}

// Managers groups the collaborators holding auxiliary model data. Any of
// them may be nil, which reads as empty.
type Managers struct {
	Compartments CompartmentManager
	Units        UnitManager
	Functions    FunctionManager
	Rules        RuleManager
	Constraints  ConstraintManager
	Events       EventManager
}
