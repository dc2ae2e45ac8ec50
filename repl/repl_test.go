package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crnc/internal/errors"
	"crnc/internal/frontend"
)

func TestEvalFormula(t *testing.T) {
	s := NewSession(nil)

	out, err := s.Eval("2 * (3 + 4)")
	require.NoError(t, err)
	assert.Equal(t, "2 * (3 + 4) = 14", out)

	out, err = s.Eval("")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLetBindsNames(t *testing.T) {
	s := NewSession(nil)

	out, err := s.Eval("let k = 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, "k = 6", out)

	out, err = s.Eval("let Km = 4")
	require.NoError(t, err)
	assert.Equal(t, "Km = 4", out)

	out, err = s.Eval("k * 2 / (Km + 2)")
	require.NoError(t, err)
	assert.Equal(t, "k * 2 / (Km + 2) = 2", out)

	out, err = s.Eval(":bindings")
	require.NoError(t, err)
	assert.Equal(t, "Km = 4\nk = 6", out)
}

func TestUnboundNameIsReported(t *testing.T) {
	s := NewSession(nil)

	_, err := s.Eval("k * 2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.UnresolvedSymbol))
	assert.Contains(t, err.Error(), "let k")
}

func TestDomainErrorsAreReported(t *testing.T) {
	s := NewSession(nil)

	_, err := s.Eval("1 / 0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.MathDomain))

	_, err = s.Eval("sqrt(")
	require.Error(t, err)
}

func TestTimeCanBeBound(t *testing.T) {
	s := NewSession(nil)
	s.Bind("time", 12)

	out, err := s.Eval("time >= 10")
	require.NoError(t, err)
	assert.Equal(t, "time >= 10 = 1", out)
}

func TestSessionWithModel(t *testing.T) {
	net, diags, err := frontend.LoadFile("../internal/frontend/testdata/toggle.crn", "")
	require.NoError(t, err)
	require.Empty(t, diags)

	s := NewSession(net)

	out, err := s.Eval("U + V")
	require.NoError(t, err)
	assert.Equal(t, "U + V = 6", out)

	_, err = s.Eval("let U = 1")
	require.NoError(t, err)
	out, err = s.Eval("repress(U, beta)")
	require.NoError(t, err)
	assert.Equal(t, "1 / (1 + U ^ beta) = 0.5", out)

	_, err = s.Eval("alpah * 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpah")
}

func TestCompletions(t *testing.T) {
	s := NewSession(nil)
	s.Bind("kcat", 1)

	assert.Equal(t, []string{"2 * kcat"}, s.Completions("2 * kc"))
	assert.Contains(t, s.Completions("sq"), "sqrt")
	assert.Contains(t, s.Completions("l"), "let")
}
