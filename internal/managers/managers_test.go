package managers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crnc/internal/errors"
	"crnc/internal/ir"
	"crnc/internal/kinetic"
)

func TestCompartmentsKeepInsertionOrder(t *testing.T) {
	m := NewCompartments()
	require.NoError(t, m.Add(&ir.Compartment{ID: "nucleus", Size: 0.1}))
	require.NoError(t, m.Add(&ir.Compartment{ID: "cell", Size: 1}))

	list := m.CreateListOfCompartments()
	require.Len(t, list, 2)
	assert.Equal(t, "nucleus", list[0].ID)
	assert.Equal(t, "cell", list[1].ID)
	assert.Equal(t, 1.0, m.LookupCompartment("cell").Size)
	assert.Nil(t, m.LookupCompartment("golgi"))

	err := m.Add(&ir.Compartment{ID: "cell"})
	assert.True(t, errors.Is(err, errors.DuplicateID))
}

func TestRulesGenerateIDsAndRemove(t *testing.T) {
	m := NewRules()
	assign := &ir.Rule{Kind: ir.AssignmentRule, Variable: "X", Math: kinetic.NewReal(1)}
	alg := &ir.Rule{Kind: ir.AlgebraicRule, Math: kinetic.NewSpeciesRef("A")}
	require.NoError(t, m.Add(assign))
	require.NoError(t, m.Add(alg))

	assert.Equal(t, "rule1", assign.ID)
	assert.Equal(t, "rule2", alg.ID)
	assert.Same(t, assign, m.LookupRuleFor("X"))
	assert.Nil(t, m.LookupRuleFor("A"))

	assert.True(t, m.RemoveRule("rule1"))
	assert.False(t, m.RemoveRule("rule1"))
	assert.Equal(t, 1, m.Len())
}

func TestSetAttach(t *testing.T) {
	set := New()
	require.NoError(t, set.Compartments.Add(&ir.Compartment{ID: "cell", Size: 2}))
	require.NoError(t, set.Events.Add(&ir.Event{ID: "e1", Trigger: kinetic.NewInt(1)}))
	require.NoError(t, set.Constraints.Add(&ir.Constraint{Math: kinetic.NewInt(1)}))

	net := ir.NewNetwork("m")
	set.Attach(net)

	v, ok := net.CompartmentValue("cell")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	assert.Len(t, net.ListEvents(), 1)
	assert.Equal(t, "constraint1", net.ListConstraints()[0].ID)
	assert.Empty(t, net.ListRules())
}
