package managers

import "crnc/internal/errors"

// store keeps items by id in insertion order.
type store[T any] struct {
	kind  string
	order []string
	items map[string]*T
}

func newStore[T any](kind string) store[T] {
	return store[T]{kind: kind, items: make(map[string]*T)}
}

func (s *store[T]) add(id string, item *T) error {
	if id == "" {
		return errors.New(errors.KindInvalidOp, "", "%s must have an id", s.kind)
	}
	if _, ok := s.items[id]; ok {
		return errors.New(errors.KindDuplicateID, id, "%s '%s' already defined", s.kind, id)
	}
	s.items[id] = item
	s.order = append(s.order, id)
	return nil
}

func (s *store[T]) lookup(id string) *T {
	return s.items[id]
}

func (s *store[T]) list() []*T {
	out := make([]*T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *store[T]) remove(id string) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, x := range s.order {
		if x == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *store[T]) len() int {
	return len(s.order)
}
