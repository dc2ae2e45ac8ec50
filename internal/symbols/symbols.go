package symbols

import (
	"fmt"

	"crnc/internal/errors"
	"crnc/internal/kinetic"
)

// Symbol is a named real value: a global parameter, a reaction-local
// parameter, or a value introduced by an abstraction pass.
type Symbol struct {
	ID        string
	Value     float64
	Current   float64
	Rate      float64
	Constant  bool
	Algebraic bool
	Units     string

	// InitialAssignment overrides Value when set. Network.EvaluateInitial
	// honors it.
	InitialAssignment kinetic.Law
}

// Table maps symbol ids to symbols in insertion order. A child table
// resolves misses through its parent.
type Table struct {
	symbols  map[string]*Symbol
	order    []*Symbol
	parent   *Table
	reserved func(id string) bool
	shadowed func(id string) bool
	time     float64
}

// NewTable creates an empty root table.
func NewTable() *Table {
	return NewChildTable(nil)
}

// NewChildTable creates a table that falls back to parent on lookup.
func NewChildTable(parent *Table) *Table {
	return &Table{
		symbols: make(map[string]*Symbol),
		parent:  parent,
	}
}

// Parent returns the enclosing table, or nil for a root table.
func (t *Table) Parent() *Table {
	return t.parent
}

// SetReserved installs a predicate for ids owned by something other than
// this table (species, compartments, reactions). Generated ids avoid them.
func (t *Table) SetReserved(fn func(id string) bool) {
	t.reserved = fn
}

// SetShadowed installs a predicate for ids that generated symbols must
// avoid because a nested scope already binds them. Declared ids may still
// use them.
func (t *Table) SetShadowed(fn func(id string) bool) {
	t.shadowed = fn
}

// Lookup finds id in this table or any ancestor.
func (t *Table) Lookup(id string) *Symbol {
	if sym, ok := t.symbols[id]; ok {
		return sym
	}
	if t.parent != nil {
		return t.parent.Lookup(id)
	}
	return nil
}

// LookupLocal finds id in this table only.
func (t *Table) LookupLocal(id string) *Symbol {
	return t.symbols[id]
}

// Define registers sym under its own id.
func (t *Table) Define(sym *Symbol) error {
	if sym == nil || sym.ID == "" {
		return errors.New(errors.KindInvalidOp, "", "symbol must have an id")
	}
	if t.taken(sym.ID) {
		return errors.New(errors.KindDuplicateID, sym.ID, "symbol '%s' already defined", sym.ID)
	}
	t.insert(sym)
	return nil
}

// AddRealValueSymbol creates a symbol bound to value. A proposed id that
// is already taken is disambiguated with a _NNN suffix.
func (t *Table) AddRealValueSymbol(proposedID string, value float64, constant bool) *Symbol {
	sym := &Symbol{
		ID:       t.uniqueID(proposedID),
		Value:    value,
		Current:  value,
		Constant: constant,
	}
	t.insert(sym)
	return sym
}

// Remove deletes id from this table. It reports whether anything was removed.
func (t *Table) Remove(id string) bool {
	sym, ok := t.symbols[id]
	if !ok {
		return false
	}
	delete(t.symbols, id)
	for i, s := range t.order {
		if s == sym {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// GenerateListOfSymbols returns this table's symbols in insertion order.
func (t *Table) GenerateListOfSymbols() []*Symbol {
	list := make([]*Symbol, len(t.order))
	copy(list, t.order)
	return list
}

// Len returns the number of symbols defined locally.
func (t *Table) Len() int {
	return len(t.order)
}

// SymbolValue returns the current value of id, searching ancestors.
func (t *Table) SymbolValue(id string) (float64, bool) {
	sym := t.Lookup(id)
	if sym == nil {
		return 0, false
	}
	return sym.Current, true
}

// Time returns the model time held by the root table.
func (t *Table) Time() float64 {
	if t.parent != nil {
		return t.parent.Time()
	}
	return t.time
}

// SetTime sets the model time on the root table.
func (t *Table) SetTime(v float64) {
	if t.parent != nil {
		t.parent.SetTime(v)
		return
	}
	t.time = v
}

func (t *Table) insert(sym *Symbol) {
	t.symbols[sym.ID] = sym
	t.order = append(t.order, sym)
}

func (t *Table) taken(id string) bool {
	if _, ok := t.symbols[id]; ok {
		return true
	}
	return t.reserved != nil && t.reserved(id)
}

func (t *Table) unavailable(id string) bool {
	return t.taken(id) || (t.shadowed != nil && t.shadowed(id))
}

func (t *Table) uniqueID(proposed string) string {
	if proposed == "" {
		proposed = "sym"
	}
	if !t.unavailable(proposed) {
		return proposed
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%03d", proposed, n)
		if !t.unavailable(candidate) {
			return candidate
		}
	}
}
