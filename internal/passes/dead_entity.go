package passes

import (
	"crnc/internal/ir"
	"crnc/internal/kinetic"
)

const DeadEntityEliminationID = "dead-entity-elimination"

type color int

const (
	white color = iota
	grey
	black
)

// DeadEntityElimination removes species and reactions that cannot reach
// a keep-flagged species through the reaction graph and that no rule,
// event, constraint or initial assignment refers to.
type DeadEntityElimination struct{}

func (d *DeadEntityElimination) ID() string {
	return DeadEntityEliminationID
}

func (d *DeadEntityElimination) Description() string {
	return "Removes species and reactions unreachable from keep-flagged species"
}

// reachability holds the colouring of one run.
type reachability struct {
	net       *ir.Network
	species   map[*ir.Species]color
	reactions map[*ir.Reaction]color
}

func (d *DeadEntityElimination) Apply(net *ir.Network) error {
	m := &reachability{
		net:       net,
		species:   make(map[*ir.Species]color),
		reactions: make(map[*ir.Reaction]color),
	}

	seeded := false
	for _, s := range net.ListSpecies() {
		if s.Keep {
			m.markReachable(s)
			seeded = true
		}
	}
	if !seeded {
		log.Debugf("%s: no keep-flagged species, nothing to do", DeadEntityEliminationID)
		return nil
	}

	m.reviveExternal()

	removed := make(map[string]bool)
	for _, r := range net.ListReactions() {
		if m.reactions[r] == black {
			continue
		}
		log.Debugf("%s: removing reaction %s", DeadEntityEliminationID, r.ID)
		if err := net.RemoveReaction(r); err != nil {
			return err
		}
	}
	for _, s := range net.ListSpecies() {
		if m.species[s] == black {
			continue
		}
		log.Debugf("%s: removing species %s", DeadEntityEliminationID, s.ID)
		if err := net.RemoveSpecies(s); err != nil {
			return err
		}
		removed[s.ID] = true
	}

	if len(removed) > 0 {
		d.dropIrrelevantAlgebraicRules(net, removed)
	}
	return nil
}

// markReachable colours everything connected to s black, following
// reactant, product and modifier edges in both directions.
func (m *reachability) markReachable(s *ir.Species) {
	if m.species[s] != white {
		return
	}
	m.species[s] = grey
	work := []*ir.Species{s}

	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]

		for _, e := range m.net.IncidentEdges(cur) {
			r := e.Reaction
			if m.reactions[r] != white {
				continue
			}
			m.reactions[r] = black
			for _, kind := range []ir.EdgeKind{ir.ReactantEdge, ir.ProductEdge, ir.ModifierEdge} {
				for _, other := range m.edgesOf(r, kind) {
					if m.species[other.Species] == white {
						m.species[other.Species] = grey
						work = append(work, other.Species)
					}
				}
			}
		}
		m.species[cur] = black
	}
}

func (m *reachability) edgesOf(r *ir.Reaction, kind ir.EdgeKind) []*ir.Edge {
	switch kind {
	case ir.ReactantEdge:
		return m.net.ListReactantEdges(r)
	case ir.ProductEdge:
		return m.net.ListProductEdges(r)
	default:
		return m.net.ListModifierEdges(r)
	}
}

// reviveExternal scans laws outside the reaction graph until a full scan
// revives nothing. A species referenced from a live context is walked
// from as a new seed.
func (m *reachability) reviveExternal() {
	for {
		revived := false
		for _, id := range m.externalReferences() {
			s := m.net.LookupSpecies(id)
			if s != nil && m.species[s] == white {
				log.Debugf("%s: %s is referenced outside the reaction graph", DeadEntityEliminationID, id)
				m.markReachable(s)
				revived = true
			}
		}
		if !revived {
			return
		}
	}
}

// externalReferences returns the ids that live contexts depend on: rule
// and event targets plus the dependencies of every law whose owner is
// live. Algebraic rules are excluded; their relevance is decided after
// removal.
func (m *reachability) externalReferences() []string {
	deps := kinetic.NewDependencySet()
	for id := range m.net.AssignedVariables() {
		deps.Species[id] = true
	}

	for _, site := range m.net.LawSites() {
		switch site.Kind {
		case ir.RateLaw:
			if r := m.net.LookupReaction(site.Owner); r == nil || m.reactions[r] != black {
				continue
			}
		case ir.SpeciesInitialAssignment:
			if s := m.net.LookupSpecies(site.Owner); s == nil || m.species[s] != black {
				continue
			}
		case ir.RuleMath:
			if site.Rule.Kind == ir.AlgebraicRule {
				continue
			}
		}
		deps.Merge(kinetic.Dependencies(*site.Law))
	}
	return deps.SpeciesIDs()
}

// dropIrrelevantAlgebraicRules removes algebraic rules whose every free
// species was removed.
func (d *DeadEntityElimination) dropIrrelevantAlgebraicRules(net *ir.Network, removed map[string]bool) {
	for _, rule := range net.ListRules() {
		if rule.Kind != ir.AlgebraicRule || rule.Math == nil {
			continue
		}
		species := kinetic.Dependencies(rule.Math).SpeciesIDs()
		if len(species) == 0 {
			continue
		}
		relevant := false
		for _, id := range species {
			if !removed[id] {
				relevant = true
				break
			}
		}
		if !relevant {
			log.Debugf("%s: removing algebraic rule %s", DeadEntityEliminationID, rule.ID)
			net.RemoveRule(rule.ID)
		}
	}
}
