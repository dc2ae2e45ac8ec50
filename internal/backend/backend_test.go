package backend

import (
	"bytes"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crnc/internal/frontend"
	"crnc/internal/ir"
	"crnc/internal/kinetic"
	"crnc/internal/passes"
)

func loadToggle(t *testing.T) *ir.Network {
	t.Helper()
	net, diags, err := frontend.LoadFile("../frontend/testdata/toggle.crn", "")
	require.NoError(t, err)
	require.Empty(t, diags)
	return net
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestWriteCRN(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCRN(&buf, loadToggle(t)))
	golden(t).Assert(t, "toggle.crn", buf.Bytes())
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, loadToggle(t)))
	golden(t).Assert(t, "toggle.report", buf.Bytes())
}

func TestWriteReportAfterDefaultPipeline(t *testing.T) {
	net := loadToggle(t)
	_, err := passes.NewDefaultPipeline().Run(net)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, net))
	golden(t).Assert(t, "toggle_optimized.report", buf.Bytes())
}

// Exported source must build into the same network.
func TestWriteCRNReadsBack(t *testing.T) {
	original := loadToggle(t)
	_, err := passes.NewDefaultPipeline().Run(original)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCRN(&buf, original))

	rebuilt, diags := frontend.Load("roundtrip.crn", buf.String(), "")
	require.NotNil(t, rebuilt, "%v", diags)
	require.False(t, frontend.HasErrors(diags), "%v", diags)

	require.Len(t, rebuilt.ListSpecies(), len(original.ListSpecies()))
	require.Len(t, rebuilt.ListReactions(), len(original.ListReactions()))
	assert.Equal(t, original.EdgeCount(), rebuilt.EdgeCount())

	for _, r := range original.ListReactions() {
		other := rebuilt.LookupReaction(r.ID)
		require.NotNil(t, other)
		assert.Equal(t, kinetic.ToCanonicalString(r.KineticLaw), kinetic.ToCanonicalString(other.KineticLaw), r.ID)
	}
	for _, s := range original.ListSpecies() {
		other := rebuilt.LookupSpecies(s.ID)
		require.NotNil(t, other)
		assert.Equal(t, s.InitialQuantity, other.InitialQuantity)
		assert.Equal(t, s.Keep, other.Keep)
	}

	var again bytes.Buffer
	require.NoError(t, WriteCRN(&again, rebuilt))
	assert.Equal(t, buf.String(), again.String())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "10", formatNumber(10))
	assert.Equal(t, "0.1", formatNumber(0.1))
	assert.Equal(t, "1e-09", formatNumber(1e-9))
	assert.Equal(t, "-inf", formatNumber(math.Inf(-1)))
	assert.Equal(t, "nan", formatNumber(math.NaN()))
}
