package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crnc/internal/errors"
	"crnc/internal/ir"
	"crnc/internal/kinetic"
	"crnc/internal/managers"
)

// fixture builds small networks for pass tests.
type fixture struct {
	t   *testing.T
	net *ir.Network
	set *managers.Set
}

func newFixture(t *testing.T) *fixture {
	net := ir.NewNetwork("test")
	set := managers.New()
	set.Attach(net)
	return &fixture{t: t, net: net, set: set}
}

func (f *fixture) species(id string, value float64) *ir.Species {
	s, err := f.net.CreateSpecies(id)
	require.NoError(f.t, err)
	f.net.SetInitialConcentration(s, value)
	return s
}

// reaction adds "reactant -> product" with mass-action law k * reactant.
func (f *fixture) reaction(id, reactant, product string) *ir.Reaction {
	r, err := f.net.CreateReaction(id)
	require.NoError(f.t, err)
	if reactant != "" {
		_, err = f.net.AddReactantEdge(r, f.net.LookupSpecies(reactant), 1)
		require.NoError(f.t, err)
		require.NoError(f.t, f.net.SetKineticLaw(r, kinetic.Must(kinetic.NewBinary(kinetic.OpTimes,
			kinetic.NewSymbolRef("k"), kinetic.NewSpeciesRef(reactant)))))
	}
	if product != "" {
		_, err = f.net.AddProductEdge(r, f.net.LookupSpecies(product), 1)
		require.NoError(f.t, err)
	}
	return r
}

func speciesIDs(net *ir.Network) []string {
	var out []string
	for _, s := range net.ListSpecies() {
		out = append(out, s.ID)
	}
	return out
}

func reactionIDs(net *ir.Network) []string {
	var out []string
	for _, r := range net.ListReactions() {
		out = append(out, r.ID)
	}
	return out
}

// keepGraph is k <- x plus an unreachable component a -> b.
func keepGraph(t *testing.T) *fixture {
	f := newFixture(t)
	f.net.Symbols.AddRealValueSymbol("k", 0.1, true)
	f.net.SetKeep(f.species("K", 1), true)
	f.species("x", 1)
	f.species("a", 1)
	f.species("b", 0)
	f.reaction("r1", "x", "K")
	f.reaction("r2", "a", "b")
	return f
}

func TestDeadEntityEliminationRemovesUnreachable(t *testing.T) {
	f := keepGraph(t)

	require.NoError(t, (&DeadEntityElimination{}).Apply(f.net))

	assert.Equal(t, []string{"K", "x"}, speciesIDs(f.net))
	assert.Equal(t, []string{"r1"}, reactionIDs(f.net))
	assert.Len(t, f.net.IncidentEdges(f.net.LookupSpecies("x")), 1)
	assert.NoError(t, f.net.Validate())
}

func TestDeadEntityEliminationKeepsRuleTarget(t *testing.T) {
	f := keepGraph(t)
	require.NoError(t, f.set.Rules.Add(&ir.Rule{Kind: ir.AssignmentRule, Variable: "a", Math: kinetic.NewReal(2)}))

	require.NoError(t, (&DeadEntityElimination{}).Apply(f.net))

	assert.Contains(t, speciesIDs(f.net), "a")
	assert.Contains(t, speciesIDs(f.net), "b", "b is reachable from a")
	assert.Contains(t, reactionIDs(f.net), "r2")
}

func TestDeadEntityEliminationKeepsEventReferences(t *testing.T) {
	f := keepGraph(t)
	require.NoError(t, f.set.Events.Add(&ir.Event{
		ID:      "e1",
		Trigger: kinetic.Must(kinetic.NewBinary(kinetic.OpGt, kinetic.NewSpeciesRef("b"), kinetic.NewInt(1))),
	}))

	require.NoError(t, (&DeadEntityElimination{}).Apply(f.net))

	assert.Equal(t, []string{"K", "x", "a", "b"}, speciesIDs(f.net))
}

func TestDeadEntityEliminationFollowsLiveInitialAssignments(t *testing.T) {
	f := keepGraph(t)
	f.net.SetInitialAssignment(f.net.LookupSpecies("x"), kinetic.NewSpeciesRef("a"))
	// A dead species' initial assignment does not keep anything alive.
	f.species("c", 0)
	f.species("d", 0)
	f.net.SetInitialAssignment(f.net.LookupSpecies("d"), kinetic.NewSpeciesRef("c"))

	require.NoError(t, (&DeadEntityElimination{}).Apply(f.net))

	assert.Equal(t, []string{"K", "x", "a", "b"}, speciesIDs(f.net))
}

func TestDeadEntityEliminationWithoutSeedsIsNoop(t *testing.T) {
	f := keepGraph(t)
	f.net.SetKeep(f.net.LookupSpecies("K"), false)
	f.net.ResetChangeFlag()

	require.NoError(t, (&DeadEntityElimination{}).Apply(f.net))

	assert.Len(t, f.net.ListSpecies(), 4)
	assert.False(t, f.net.IsChanged())
}

func TestDeadEntityEliminationDropsIrrelevantAlgebraicRules(t *testing.T) {
	f := keepGraph(t)
	dead := &ir.Rule{Kind: ir.AlgebraicRule, Math: kinetic.Must(kinetic.NewBinary(kinetic.OpMinus,
		kinetic.Must(kinetic.NewBinary(kinetic.OpPlus, kinetic.NewSpeciesRef("a"), kinetic.NewSpeciesRef("b"))),
		kinetic.NewInt(1)))}
	live := &ir.Rule{Kind: ir.AlgebraicRule, Math: kinetic.Must(kinetic.NewBinary(kinetic.OpMinus,
		kinetic.NewSpeciesRef("x"), kinetic.NewSpeciesRef("a")))}
	require.NoError(t, f.set.Rules.Add(dead))
	require.NoError(t, f.set.Rules.Add(live))

	require.NoError(t, (&DeadEntityElimination{}).Apply(f.net))

	assert.NotContains(t, speciesIDs(f.net), "a", "algebraic rules do not keep species alive")
	require.Len(t, f.net.ListRules(), 1)
	assert.Same(t, live, f.net.ListRules()[0])
}

// modifierGraph is S -> P catalysed by m, rate k * m.
func modifierGraph(t *testing.T) (*fixture, *ir.Reaction) {
	f := newFixture(t)
	f.net.Symbols.AddRealValueSymbol("k", 0.1, true)
	f.species("S", 10)
	f.species("P", 0)
	f.species("m", 5.0)
	r, err := f.net.CreateReaction("r")
	require.NoError(t, err)
	_, err = f.net.AddReactantEdge(r, f.net.LookupSpecies("S"), 1)
	require.NoError(t, err)
	_, err = f.net.AddProductEdge(r, f.net.LookupSpecies("P"), 1)
	require.NoError(t, err)
	_, err = f.net.AddModifierEdge(r, f.net.LookupSpecies("m"))
	require.NoError(t, err)
	require.NoError(t, f.net.SetKineticLaw(r, kinetic.Must(kinetic.NewBinary(kinetic.OpTimes,
		kinetic.NewSymbolRef("k"), kinetic.NewSpeciesRef("m")))))
	return f, r
}

func TestModifierConstantPropagationEndToEnd(t *testing.T) {
	f, r := modifierGraph(t)

	require.NoError(t, (&ModifierConstantPropagation{}).Apply(f.net))

	assert.Equal(t, []string{"S", "P"}, speciesIDs(f.net))
	sym := f.net.Symbols.Lookup("m_001")
	require.NotNil(t, sym)
	assert.Equal(t, 5.0, sym.Value)
	assert.True(t, sym.Constant)
	assert.Equal(t, "k * m_001", kinetic.ToCanonicalString(f.net.GetKineticLaw(r)))
	assert.Empty(t, f.net.ListModifierEdges(r))
	assert.NoError(t, f.net.Validate())
}

func TestModifierConstantPropagationSubstitutesEverywhere(t *testing.T) {
	f, _ := modifierGraph(t)
	require.NoError(t, f.set.Constraints.Add(&ir.Constraint{Math: kinetic.Must(kinetic.NewBinary(kinetic.OpGt,
		kinetic.NewSpeciesRef("m"), kinetic.NewInt(0)))}))
	require.NoError(t, f.set.Events.Add(&ir.Event{
		ID:          "e1",
		Trigger:     kinetic.Must(kinetic.NewBinary(kinetic.OpGt, kinetic.NewSpeciesRef("m"), kinetic.NewInt(1))),
		Assignments: []*ir.EventAssignment{{Variable: "S", Math: kinetic.NewSpeciesRef("m")}},
	}))
	f.net.SetInitialAssignment(f.net.LookupSpecies("P"), kinetic.NewSpeciesRef("m"))

	require.NoError(t, (&ModifierConstantPropagation{}).Apply(f.net))

	for _, site := range f.net.LawSites() {
		assert.False(t, kinetic.References(*site.Law, "m"), "%s still mentions m", site)
	}
	assert.Equal(t, "m_001 > 0", kinetic.ToCanonicalString(f.net.ListConstraints()[0].Math))
}

func TestModifierConstantPropagationSkipsIneligibleSpecies(t *testing.T) {
	f, _ := modifierGraph(t)
	require.NoError(t, f.set.Rules.Add(&ir.Rule{Kind: ir.AssignmentRule, Variable: "m", Math: kinetic.NewInt(3)}))

	require.NoError(t, (&ModifierConstantPropagation{}).Apply(f.net))
	assert.Contains(t, speciesIDs(f.net), "m")

	g, _ := modifierGraph(t)
	g.net.SetKeep(g.net.LookupSpecies("m"), true)
	require.NoError(t, (&ModifierConstantPropagation{}).Apply(g.net))
	assert.Contains(t, speciesIDs(g.net), "m")
	assert.Contains(t, speciesIDs(g.net), "S", "reactants are never propagated")
}

func TestModifierConstantPropagationUsesInitialAssignment(t *testing.T) {
	f, _ := modifierGraph(t)
	f.net.SetInitialAssignment(f.net.LookupSpecies("m"), kinetic.Must(kinetic.NewBinary(kinetic.OpTimes,
		kinetic.NewSymbolRef("k"), kinetic.NewInt(20))))

	require.NoError(t, (&ModifierConstantPropagation{}).Apply(f.net))

	assert.InDelta(t, 2.0, f.net.Symbols.Lookup("m_001").Value, 1e-12)
}

func TestModifierConstantPropagationFollowsChainedParameter(t *testing.T) {
	f, _ := modifierGraph(t)
	k2 := f.net.Symbols.AddRealValueSymbol("k2", 0, true)
	k2.InitialAssignment = kinetic.Must(kinetic.NewBinary(kinetic.OpTimes, kinetic.NewSymbolRef("k"), kinetic.NewInt(2)))
	f.net.SetInitialAssignment(f.net.LookupSpecies("m"), kinetic.Must(kinetic.NewBinary(kinetic.OpTimes,
		kinetic.NewSymbolRef("k2"), kinetic.NewInt(30))))

	require.NoError(t, (&ModifierConstantPropagation{}).Apply(f.net))

	assert.InDelta(t, 6.0, f.net.Symbols.Lookup("m_001").Value, 1e-12)
}

func TestModifierConstantPropagationFollowsChainedSpecies(t *testing.T) {
	f, _ := modifierGraph(t)
	n := f.species("n", 0)
	f.net.SetKeep(n, true)
	f.net.SetInitialAssignment(n, kinetic.Must(kinetic.NewBinary(kinetic.OpTimes, kinetic.NewSymbolRef("k"), kinetic.NewInt(50))))
	f.net.SetInitialAssignment(f.net.LookupSpecies("m"), kinetic.Must(kinetic.NewBinary(kinetic.OpTimes,
		kinetic.NewSpeciesRef("n"), kinetic.NewInt(2))))

	require.NoError(t, (&ModifierConstantPropagation{}).Apply(f.net))

	assert.InDelta(t, 10.0, f.net.Symbols.Lookup("m_001").Value, 1e-12)
}

func TestModifierConstantPropagationRejectsCyclicInitialAssignments(t *testing.T) {
	f, _ := modifierGraph(t)
	n := f.species("n", 0)
	f.net.SetKeep(n, true)
	f.net.SetInitialAssignment(n, kinetic.NewSpeciesRef("m"))
	f.net.SetInitialAssignment(f.net.LookupSpecies("m"), kinetic.NewSpeciesRef("n"))

	err := (&ModifierConstantPropagation{}).Apply(f.net)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.UnresolvedSymbol))
	assert.Contains(t, speciesIDs(f.net), "m")
}

func TestModifierConstantPropagationAbortsOnDomainError(t *testing.T) {
	f, _ := modifierGraph(t)
	f.net.SetInitialAssignment(f.net.LookupSpecies("m"), kinetic.Must(kinetic.NewUnary(kinetic.OpLn, kinetic.NewInt(0))))

	err := (&ModifierConstantPropagation{}).Apply(f.net)

	assert.True(t, errors.Is(err, errors.MathDomain))
	assert.Contains(t, speciesIDs(f.net), "m")
}

func TestConstantFolding(t *testing.T) {
	f, r := modifierGraph(t)
	law := kinetic.Must(kinetic.NewBinary(kinetic.OpTimes,
		kinetic.Must(kinetic.NewBinary(kinetic.OpPlus, kinetic.NewInt(2), kinetic.NewInt(3))),
		kinetic.Must(kinetic.NewBinary(kinetic.OpPlus, kinetic.NewSpeciesRef("m"),
			kinetic.Must(kinetic.NewBinary(kinetic.OpDivide, kinetic.NewInt(1), kinetic.NewInt(4)))))))
	require.NoError(t, f.net.SetKineticLaw(r, law))
	f.net.ResetChangeFlag()

	require.NoError(t, (&ConstantFolding{}).Apply(f.net))

	assert.Equal(t, "5 * (m + 0.25)", kinetic.ToCanonicalString(f.net.GetKineticLaw(r)))
	assert.True(t, f.net.IsChanged())

	f.net.ResetChangeFlag()
	require.NoError(t, (&ConstantFolding{}).Apply(f.net))
	assert.False(t, f.net.IsChanged())
}

func TestFoldKeepsDomainErrors(t *testing.T) {
	law := kinetic.Must(kinetic.NewBinary(kinetic.OpDivide, kinetic.NewInt(1), kinetic.NewInt(0)))
	assert.True(t, kinetic.StructurallyEqual(law, Fold(law)))

	folded := Fold(kinetic.Must(kinetic.NewBinary(kinetic.OpLt, kinetic.NewInt(1), kinetic.NewInt(2))))
	assert.True(t, kinetic.StructurallyEqual(kinetic.NewInt(1), folded))
}

type alwaysChanging struct{}

func (alwaysChanging) ID() string          { return "always-changing" }
func (alwaysChanging) Description() string { return "marks the model changed" }
func (alwaysChanging) Apply(net *ir.Network) error {
	net.MarkChanged()
	return nil
}

type failing struct{ applied *bool }

func (failing) ID() string          { return "failing" }
func (failing) Description() string { return "fails" }
func (p failing) Apply(*ir.Network) error {
	*p.applied = true
	return errors.New(errors.KindUnresolvedSymbol, "q", "boom")
}

func TestPipelineFixedPoint(t *testing.T) {
	f, _ := modifierGraph(t)
	p := NewPipeline()
	p.AddPass(&ModifierConstantPropagation{}, UntilFixedPoint(5))

	results, err := p.Run(f.net)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Iterations)
	assert.True(t, results[0].Changed)
}

func TestPipelineFixedPointLimit(t *testing.T) {
	p := NewPipeline()
	p.AddPass(alwaysChanging{}, UntilFixedPoint(3))

	results, err := p.Run(ir.NewNetwork("m"))

	assert.True(t, errors.Is(err, errors.FixedPointNotReached))
	assert.Equal(t, 3, results[0].Iterations)
}

func TestPipelineHaltsOnFirstError(t *testing.T) {
	var second bool
	p := NewPipeline()
	p.AddPass(failing{applied: new(bool)})
	p.AddPass(failing{applied: &second})

	results, err := p.Run(ir.NewNetwork("m"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.PassFailed))
	assert.True(t, errors.Is(err, errors.UnresolvedSymbol))
	assert.Len(t, results, 1)
	assert.False(t, second)
}

func TestDefaultPipeline(t *testing.T) {
	f, r := modifierGraph(t)
	f.net.SetKeep(f.net.LookupSpecies("P"), true)
	f.species("orphan", 1)
	f.reaction("r2", "orphan", "")

	_, err := NewDefaultPipeline().Run(f.net)

	require.NoError(t, err)
	assert.Equal(t, []string{"S", "P"}, speciesIDs(f.net))
	assert.Equal(t, "k * m_001", kinetic.ToCanonicalString(f.net.GetKineticLaw(r)))
}

func TestRegistry(t *testing.T) {
	pass, err := Lookup(DeadEntityEliminationID)
	require.NoError(t, err)
	assert.Equal(t, DeadEntityEliminationID, pass.ID())

	_, err = Lookup("loop-unrolling")
	assert.True(t, errors.Is(err, errors.UnknownPass))

	assert.Equal(t, []string{DeadEntityEliminationID, ConstantFoldingID, ModifierConstantPropagationID}, IDs())
	assert.Len(t, All(), 3)
}
