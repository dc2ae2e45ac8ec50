package ir

import (
	"crnc/internal/errors"
	"crnc/internal/kinetic"
	"crnc/internal/symbols"
)

type QuantityKind int

const (
	Amount QuantityKind = iota
	Concentration
)

func (k QuantityKind) String() string {
	if k == Concentration {
		return "conc"
	}
	return "amount"
}

type Species struct {
	ID          string
	Name        string
	Compartment string

	// InitialQuantity is an amount or a concentration depending on QuantityKind.
	InitialQuantity float64
	QuantityKind    QuantityKind

	Constant          bool
	Boundary          bool
	Algebraic         bool
	Keep              bool
	SubstanceUnits    string
	InitialAssignment kinetic.Law

	incident []EdgeRef
}

type Reaction struct {
	ID         string
	Name       string
	Reversible bool
	Fast       bool
	KineticLaw kinetic.Law

	// Locals holds reaction-scoped parameters. Its parent is the model table.
	Locals *symbols.Table

	edges [3][]EdgeRef
}

// Network is the reaction-network IR. It is not safe for concurrent use.
type Network struct {
	ID   string
	Name string

	Symbols  *symbols.Table
	Managers Managers

	species      []*Species
	speciesByID  map[string]*Species
	reactions    []*Reaction
	reactionByID map[string]*Reaction

	edges edgeArena
	flat  [3][]EdgeRef

	changed bool
}

// NewNetwork creates an empty model.
func NewNetwork(id string) *Network {
	n := &Network{
		ID:           id,
		Symbols:      symbols.NewTable(),
		speciesByID:  make(map[string]*Species),
		reactionByID: make(map[string]*Reaction),
	}
	n.Symbols.SetReserved(n.reserved)
	n.Symbols.SetShadowed(n.localParameter)
	return n
}

// localParameter reports whether any reaction binds id locally.
func (n *Network) localParameter(id string) bool {
	for _, r := range n.reactions {
		if r.Locals != nil && r.Locals.LookupLocal(id) != nil {
			return true
		}
	}
	return false
}

// reserved reports ids owned by species, reactions or compartments.
func (n *Network) reserved(id string) bool {
	if _, ok := n.speciesByID[id]; ok {
		return true
	}
	if _, ok := n.reactionByID[id]; ok {
		return true
	}
	return n.LookupCompartment(id) != nil
}

// CreateSpecies registers a species with default attributes.
func (n *Network) CreateSpecies(id string) (*Species, error) {
	if err := n.checkNewID(id); err != nil {
		return nil, err
	}
	s := &Species{ID: id, Name: id}
	n.species = append(n.species, s)
	n.speciesByID[id] = s
	n.changed = true
	return s, nil
}

// CreateReaction registers a reaction with no edges and no rate law.
func (n *Network) CreateReaction(id string) (*Reaction, error) {
	if err := n.checkNewID(id); err != nil {
		return nil, err
	}
	r := &Reaction{ID: id, Name: id}
	n.reactions = append(n.reactions, r)
	n.reactionByID[id] = r
	n.changed = true
	return r, nil
}

func (n *Network) checkNewID(id string) error {
	if id == "" {
		return errors.New(errors.KindInvalidOp, "", "entity id must not be empty")
	}
	if n.reserved(id) || n.Symbols.LookupLocal(id) != nil {
		return errors.New(errors.KindDuplicateID, id, "id '%s' is already used in model '%s'", id, n.ID)
	}
	return nil
}

// RemoveSpecies detaches every incident edge, then removes the species.
func (n *Network) RemoveSpecies(s *Species) error {
	if s == nil || n.speciesByID[s.ID] != s {
		return errors.New(errors.KindDanglingReference, speciesID(s), "species is not part of model '%s'", n.ID)
	}
	for len(s.incident) > 0 {
		if err := n.RemoveEdge(s.incident[0]); err != nil {
			return err
		}
	}
	delete(n.speciesByID, s.ID)
	n.species = removeSpecies(n.species, s)
	n.changed = true
	return nil
}

// RemoveReaction detaches every edge of the reaction, then removes it.
func (n *Network) RemoveReaction(r *Reaction) error {
	if r == nil || n.reactionByID[r.ID] != r {
		return errors.New(errors.KindDanglingReference, reactionID(r), "reaction is not part of model '%s'", n.ID)
	}
	for kind := range r.edges {
		for len(r.edges[kind]) > 0 {
			if err := n.RemoveEdge(r.edges[kind][0]); err != nil {
				return err
			}
		}
	}
	delete(n.reactionByID, r.ID)
	for i, x := range n.reactions {
		if x == r {
			n.reactions = append(n.reactions[:i], n.reactions[i+1:]...)
			break
		}
	}
	n.changed = true
	return nil
}

func removeSpecies(list []*Species, s *Species) []*Species {
	for i, x := range list {
		if x == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func (n *Network) LookupSpecies(id string) *Species {
	return n.speciesByID[id]
}

func (n *Network) LookupReaction(id string) *Reaction {
	return n.reactionByID[id]
}

// ListSpecies returns the species in insertion order.
func (n *Network) ListSpecies() []*Species {
	return append([]*Species(nil), n.species...)
}

// ListReactions returns the reactions in insertion order.
func (n *Network) ListReactions() []*Reaction {
	return append([]*Reaction(nil), n.reactions...)
}

// SetKineticLaw replaces the rate law of r.
func (n *Network) SetKineticLaw(r *Reaction, law kinetic.Law) error {
	if law != nil {
		if err := kinetic.Check(law); err != nil {
			return err
		}
	}
	r.KineticLaw = law
	n.changed = true
	return nil
}

// GetKineticLaw returns the rate law of r, or nil.
func (n *Network) GetKineticLaw(r *Reaction) kinetic.Law {
	return r.KineticLaw
}

func (n *Network) SetInitialAmount(s *Species, v float64) {
	s.InitialQuantity = v
	s.QuantityKind = Amount
	n.changed = true
}

func (n *Network) SetInitialConcentration(s *Species, v float64) {
	s.InitialQuantity = v
	s.QuantityKind = Concentration
	n.changed = true
}

func (n *Network) SetInitialAssignment(s *Species, law kinetic.Law) {
	s.InitialAssignment = law
	n.changed = true
}

func (n *Network) SetCompartment(s *Species, compartment string) {
	s.Compartment = compartment
	n.changed = true
}

// SpeciesFlags sets the boolean attributes of a species together.
type SpeciesFlags struct {
	Constant  bool
	Boundary  bool
	Algebraic bool
	Keep      bool
}

func (n *Network) SetSpeciesFlags(s *Species, f SpeciesFlags) {
	s.Constant = f.Constant
	s.Boundary = f.Boundary
	s.Algebraic = f.Algebraic
	s.Keep = f.Keep
	n.changed = true
}

func (n *Network) SetKeep(s *Species, keep bool) {
	s.Keep = keep
	n.changed = true
}

func (n *Network) SetSubstanceUnits(s *Species, units string) {
	s.SubstanceUnits = units
	n.changed = true
}

func (n *Network) SetReversible(r *Reaction, reversible bool) {
	r.Reversible = reversible
	n.changed = true
}

func (n *Network) SetFast(r *Reaction, fast bool) {
	r.Fast = fast
	n.changed = true
}

// LocalParameters returns the reaction's local table, creating it on demand.
func (n *Network) LocalParameters(r *Reaction) *symbols.Table {
	if r.Locals == nil {
		r.Locals = symbols.NewChildTable(n.Symbols)
	}
	return r.Locals
}

// IsChanged reports whether the model was mutated since the last reset.
func (n *Network) IsChanged() bool {
	return n.changed
}

// ResetChangeFlag clears the change flag.
func (n *Network) ResetChangeFlag() {
	n.changed = false
}

// MarkChanged records a mutation made outside the IR's own setters, such
// as a rewritten rule or event.
func (n *Network) MarkChanged() {
	n.changed = true
}

// SpeciesValue returns the stored initial quantity of a species.
func (n *Network) SpeciesValue(id string) (float64, bool) {
	s, ok := n.speciesByID[id]
	if !ok {
		return 0, false
	}
	return s.InitialQuantity, true
}

// CompartmentValue returns the size of a compartment.
func (n *Network) CompartmentValue(id string) (float64, bool) {
	c := n.LookupCompartment(id)
	if c == nil {
		return 0, false
	}
	return c.Size, true
}

func (n *Network) SymbolValue(id string) (float64, bool) {
	return n.Symbols.SymbolValue(id)
}

func (n *Network) Time() float64 {
	return n.Symbols.Time()
}

// Evaluate evaluates law against the model's stored values.
func (n *Network) Evaluate(law kinetic.Law, overrides map[string]float64, def float64) (float64, error) {
	return kinetic.Evaluate(law, n, overrides, def)
}

// Manager accessors. A nil manager reads as empty.

func (n *Network) LookupCompartment(id string) *Compartment {
	if n.Managers.Compartments == nil {
		return nil
	}
	return n.Managers.Compartments.LookupCompartment(id)
}

func (n *Network) ListCompartments() []*Compartment {
	if n.Managers.Compartments == nil {
		return nil
	}
	return n.Managers.Compartments.CreateListOfCompartments()
}

func (n *Network) ListUnitDefinitions() []*UnitDefinition {
	if n.Managers.Units == nil {
		return nil
	}
	return n.Managers.Units.CreateListOfUnitDefinitions()
}

func (n *Network) ListFunctionDefinitions() []*FunctionDefinition {
	if n.Managers.Functions == nil {
		return nil
	}
	return n.Managers.Functions.CreateListOfFunctionDefinitions()
}

func (n *Network) ListRules() []*Rule {
	if n.Managers.Rules == nil {
		return nil
	}
	return n.Managers.Rules.CreateListOfRules()
}

func (n *Network) ListConstraints() []*Constraint {
	if n.Managers.Constraints == nil {
		return nil
	}
	return n.Managers.Constraints.CreateListOfConstraints()
}

func (n *Network) ListEvents() []*Event {
	if n.Managers.Events == nil {
		return nil
	}
	return n.Managers.Events.CreateListOfEvents()
}

// RemoveRule drops a rule through the rule manager.
func (n *Network) RemoveRule(id string) bool {
	if n.Managers.Rules == nil || !n.Managers.Rules.RemoveRule(id) {
		return false
	}
	n.changed = true
	return true
}
