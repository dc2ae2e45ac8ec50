package passes

import (
	"sort"

	"crnc/internal/errors"
)

// Factory creates a fresh instance of a pass.
type Factory func() Pass

var registry = map[string]Factory{
	DeadEntityEliminationID:       func() Pass { return &DeadEntityElimination{} },
	ModifierConstantPropagationID: func() Pass { return &ModifierConstantPropagation{} },
	ConstantFoldingID:             func() Pass { return &ConstantFolding{} },
}

// Register adds a pass under its id, replacing any earlier registration.
func Register(id string, factory Factory) {
	registry[id] = factory
}

// Lookup creates the pass registered under id.
func Lookup(id string) (Pass, error) {
	factory, ok := registry[id]
	if !ok {
		return nil, errors.New(errors.KindUnknownPass, id, "no pass registered as '%s'", id)
	}
	return factory(), nil
}

// IDs returns the registered pass ids, sorted.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns one instance of every registered pass, sorted by id.
func All() []Pass {
	var all []Pass
	for _, id := range IDs() {
		all = append(all, registry[id]())
	}
	return all
}
