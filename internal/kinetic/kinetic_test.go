package kinetic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crnc/internal/errors"
)

type mapEnv struct {
	species      map[string]float64
	compartments map[string]float64
	symbols      map[string]float64
	time         float64
}

func (m mapEnv) SpeciesValue(id string) (float64, bool) {
	v, ok := m.species[id]
	return v, ok
}

func (m mapEnv) CompartmentValue(id string) (float64, bool) {
	v, ok := m.compartments[id]
	return v, ok
}

func (m mapEnv) SymbolValue(id string) (float64, bool) {
	v, ok := m.symbols[id]
	return v, ok
}

func (m mapEnv) Time() float64 { return m.time }

func bin(op Op, l, r Law) Law { return Must(NewBinary(op, l, r)) }
func un(op Op, c Law) Law     { return Must(NewUnary(op, c)) }
func sp(id string) Law        { return NewSpeciesRef(id) }
func sym(id string) Law       { return NewSymbolRef(id) }

func TestStructurallyEqualDistinctAllocations(t *testing.T) {
	a := NewReal(2.0)
	b := NewReal(2.0)
	assert.NotSame(t, a, b)
	assert.True(t, StructurallyEqual(a, b))

	assert.False(t, StructurallyEqual(NewReal(2.0), NewInt(2)))
	assert.False(t, StructurallyEqual(sp("A"), sym("A")))
	assert.True(t, StructurallyEqual(
		bin(OpTimes, sym("k"), sp("A")),
		bin(OpTimes, sym("k"), sp("A")),
	))
	assert.False(t, StructurallyEqual(
		bin(OpTimes, sym("k"), sp("A")),
		bin(OpPlus, sym("k"), sp("A")),
	))
	assert.True(t, StructurallyEqual(NewReal(math.NaN()), NewReal(math.NaN())))
}

func TestConstructorsRejectMalformedNodes(t *testing.T) {
	_, err := NewBinary(OpPlus, sp("A"), nil)
	assert.True(t, errors.Is(err, errors.InvalidOp))

	_, err = NewBinary(OpNeg, sp("A"), sp("B"))
	assert.True(t, errors.Is(err, errors.InvalidOp))

	_, err = NewUnary(OpTimes, sp("A"))
	assert.True(t, errors.Is(err, errors.InvalidOp))

	_, err = NewUnary(OpSqrt, nil)
	assert.True(t, errors.Is(err, errors.InvalidOp))

	_, err = NewPiecewise()
	assert.True(t, errors.Is(err, errors.InvalidOp))

	_, err = NewDelay(sp("A"), nil, "")
	assert.True(t, errors.Is(err, errors.InvalidOp))

	d, err := NewDelay(sp("A"), NewInt(2), "")
	require.NoError(t, err)
	assert.Equal(t, SymbolTime, d.TimeSymbol)

	assert.True(t, errors.Is(Check(&BinaryOp{Op: OpPlus, Left: sp("A")}), errors.InvalidOp))
	assert.NoError(t, Check(bin(OpPlus, sp("A"), NewInt(1))))
}

func TestEvaluateResolutionOrder(t *testing.T) {
	env := mapEnv{
		species: map[string]float64{"A": 3},
		symbols: map[string]float64{"k": 0.5},
		time:    7,
	}
	law := bin(OpTimes, sym("k"), sp("A"))

	v, err := Evaluate(law, env, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = Evaluate(law, env, map[string]float64{"A": 10}, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	v, err = Evaluate(bin(OpPlus, sp("missing"), NewCompartmentRef("cell")), env, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	v, err = Evaluate(NewFunctionSymbol(SymbolTime), env, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	v, err = Evaluate(NewFunctionSymbol(SymbolPi), nil, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, math.Pi, v)
}

func TestEvaluateOperators(t *testing.T) {
	tests := []struct {
		name     string
		law      Law
		expected float64
	}{
		{"power", bin(OpPow, NewInt(2), NewInt(10)), 1024},
		{"cube root of negative", bin(OpRoot, NewInt(3), NewInt(-27)), -3},
		{"log base 2", bin(OpLog, NewInt(2), NewInt(8)), 3},
		{"comparison true", bin(OpLt, NewInt(1), NewInt(2)), 1},
		{"comparison false", bin(OpGeq, NewInt(1), NewInt(2)), 0},
		{"and", bin(OpAnd, NewInt(1), NewInt(0)), 0},
		{"or", bin(OpOr, NewInt(1), NewInt(0)), 1},
		{"xor", bin(OpXor, NewInt(1), NewInt(1)), 0},
		{"not", un(OpNot, NewInt(0)), 1},
		{"bitand", bin(OpBitAnd, NewInt(6), NewInt(3)), 2},
		{"bitor", bin(OpBitOr, NewInt(6), NewInt(3)), 7},
		{"shift", bin(OpShiftLeft, NewInt(1), NewInt(4)), 16},
		{"factorial", un(OpFactorial, NewInt(5)), 120},
		{"neg", un(OpNeg, NewReal(2.5)), -2.5},
		{"floor", un(OpFloor, NewReal(2.5)), 2},
		{"delay", Must(NewDelay(NewInt(4), NewInt(1), "")), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Evaluate(tt.law, nil, nil, 0)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, v, 1e-9)
		})
	}
}

func TestEvaluateMathDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		law  Law
	}{
		{"division by zero", bin(OpDivide, NewInt(1), NewInt(0))},
		{"ln of zero", un(OpLn, NewInt(0))},
		{"log10 of negative", un(OpLog10, NewInt(-1))},
		{"sqrt of negative", un(OpSqrt, NewInt(-4))},
		{"asin out of range", un(OpAsin, NewInt(2))},
		{"even root of negative", bin(OpRoot, NewInt(2), NewInt(-4))},
		{"zero to negative power", bin(OpPow, NewInt(0), NewInt(-1))},
		{"fractional power of negative", bin(OpPow, NewInt(-8), NewReal(0.5))},
		{"factorial of fraction", un(OpFactorial, NewReal(1.5))},
		{"nested", bin(OpPlus, NewInt(1), un(OpLn, un(OpNeg, NewInt(1))))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.law, nil, nil, 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.MathDomain), "got %v", err)
		})
	}

	_, err := Evaluate(&UnaryOp{Op: OpAbs}, nil, nil, 0)
	assert.True(t, errors.Is(err, errors.InvalidOp))
}

func TestEvaluatePiecewise(t *testing.T) {
	law := Must(NewPiecewise(
		NewInt(1), bin(OpLt, sp("x"), NewInt(0)),
		NewInt(2), bin(OpLt, sp("x"), NewInt(10)),
		NewInt(3),
	))

	for x, expected := range map[float64]float64{-5: 1, 5: 2, 50: 3} {
		v, err := Evaluate(law, nil, map[string]float64{"x": x}, 0)
		require.NoError(t, err)
		assert.Equal(t, expected, v)
	}

	noOtherwise := Must(NewPiecewise(NewInt(1), bin(OpLt, sp("x"), NewInt(0))))
	_, err := Evaluate(noOtherwise, nil, map[string]float64{"x": 1}, 0)
	assert.True(t, errors.Is(err, errors.MathDomain))
}

func TestToCanonicalString(t *testing.T) {
	a, b, c := sp("a"), sp("b"), sp("c")
	tests := []struct {
		name     string
		law      Law
		expected string
	}{
		{"literal int", NewInt(3), "3"},
		{"literal real", NewReal(2), "2.0"},
		{"literal exponent", NewReal(1e-9), "1e-09"},
		{"infinity", NewReal(math.Inf(1)), "inf"},
		{"plus chain", bin(OpPlus, bin(OpPlus, a, b), c), "a + b + c"},
		{"plus right plus", bin(OpPlus, a, bin(OpPlus, b, c)), "a + b + c"},
		{"minus right plus", bin(OpMinus, a, bin(OpPlus, b, c)), "a - (b + c)"},
		{"minus right times", bin(OpMinus, a, bin(OpTimes, b, c)), "a - (b * c)"},
		{"minus left minus", bin(OpMinus, bin(OpMinus, a, b), c), "a - b - c"},
		{"times of sum", bin(OpTimes, bin(OpPlus, a, b), c), "(a + b) * c"},
		{"times of product", bin(OpTimes, a, bin(OpTimes, b, c)), "a * b * c"},
		{"divide right product", bin(OpDivide, a, bin(OpTimes, b, c)), "a / (b * c)"},
		{"divide left product", bin(OpDivide, bin(OpTimes, a, b), c), "a * b / c"},
		{"plus of product", bin(OpPlus, bin(OpTimes, a, b), c), "a * b + c"},
		{"pow of atom", bin(OpPow, a, NewInt(2)), "a ^ 2"},
		{"pow of sum", bin(OpPow, bin(OpPlus, a, b), NewInt(2)), "(a + b) ^ 2"},
		{"pow of pow", bin(OpPow, a, bin(OpPow, b, c)), "a ^ (b ^ c)"},
		{"pow of negative literal", bin(OpPow, NewInt(-3), NewInt(2)), "(-3) ^ 2"},
		{"pow of neg", bin(OpPow, un(OpNeg, a), NewInt(2)), "(-a) ^ 2"},
		{"minus negative literal", bin(OpMinus, a, NewReal(-1.5)), "a - (-1.5)"},
		{"times neg", bin(OpTimes, a, un(OpNeg, b)), "a * -b"},
		{"neg of sum", un(OpNeg, bin(OpPlus, a, b)), "-(a + b)"},
		{"comparison of sums", bin(OpLt, bin(OpPlus, a, b), c), "(a + b) < c"},
		{"logical", bin(OpAnd, bin(OpGt, a, NewInt(0)), bin(OpOr, b, c)), "(a > 0) && (b || c)"},
		{"not", un(OpNot, bin(OpEq, a, b)), "!(a == b)"},
		{"bitwise", bin(OpBitOr, bin(OpShiftLeft, a, NewInt(1)), b), "(a << 1) | b"},
		{"sum of comparison", bin(OpPlus, a, bin(OpLt, b, c)), "a + (b < c)"},
		{"function", un(OpSqrt, bin(OpPlus, a, b)), "sqrt(a + b)"},
		{"root", bin(OpRoot, NewInt(3), a), "root(3, a)"},
		{"xor", bin(OpXor, a, b), "xor(a, b)"},
		{"function operand", bin(OpTimes, un(OpExp, a), b), "exp(a) * b"},
		{"delay", Must(NewDelay(a, NewInt(2), "")), "delay(a, 2)"},
		{"delay against model time", Must(NewDelay(a, NewInt(2), SymbolTime)), "delay(a, 2)"},
		{"delay against other clock", Must(NewDelay(a, NewInt(2), "t0")), "delay(a, 2, t0)"},
		{"piecewise", Must(NewPiecewise(a, bin(OpGt, b, NewInt(0)), c)), "piecewise(a, b > 0, c)"},
		{"symbols", bin(OpTimes, NewFunctionSymbol(SymbolPi), NewCompartmentRef("cell")), "pi * cell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToCanonicalString(tt.law))
		})
	}
}

func TestDependenciesTraversePiecewise(t *testing.T) {
	law := Must(NewPiecewise(
		sp("A"), bin(OpGt, sym("k"), NewInt(0)),
		bin(OpTimes, sp("B"), NewCompartmentRef("cell")),
	))

	deps := Dependencies(law)
	assert.Equal(t, []string{"A", "B"}, deps.SpeciesIDs())
	assert.True(t, deps.Symbols["k"])
	assert.True(t, deps.Compartments["cell"])
	assert.Equal(t, []string{"A", "B", "cell", "k"}, deps.IDs())
	assert.Equal(t, 4, deps.Len())
	assert.False(t, deps.Contains("time"))

	assert.Zero(t, Dependencies(NewFunctionSymbol(SymbolTime)).Len())
}

func TestSubstituteAbsentSpeciesIsIdentity(t *testing.T) {
	law := bin(OpTimes, sym("k"), bin(OpPlus, sp("A"), sp("B")))

	out := Substitute(law, "Z", NewReal(4))

	assert.True(t, StructurallyEqual(law, out))
}

func TestSubstituteReplacesEveryOccurrence(t *testing.T) {
	law := bin(OpPlus, bin(OpTimes, sp("A"), sp("A")), un(OpLn, sp("A")))
	replacement := bin(OpTimes, sym("k"), sp("B"))

	out := Substitute(law, "A", replacement)

	deps := Dependencies(out)
	assert.False(t, deps.Species["A"])
	assert.True(t, deps.Species["B"])
	assert.True(t, deps.Symbols["k"])
	assert.Equal(t, "k * B * k * B + ln(k * B)", ToCanonicalString(out))
	assert.True(t, References(law, "A"), "input is left untouched")

	// Each site holds its own copy.
	sum := out.(*BinaryOp)
	product := sum.Left.(*BinaryOp)
	assert.NotSame(t, product.Left, product.Right)
	assert.NotSame(t, replacement, product.Left)
}

func TestSubstituteSelfReferenceKeepsSpecies(t *testing.T) {
	out := Substitute(sp("A"), "A", bin(OpTimes, NewInt(2), sp("A")))
	assert.True(t, Dependencies(out).Species["A"])
	assert.Equal(t, "2 * A", ToCanonicalString(out))
}

func TestSubstituteVariants(t *testing.T) {
	law := bin(OpTimes, bin(OpTimes, sym("k"), NewCompartmentRef("cell")), NewFunctionSymbol(SymbolTime))

	out := SubstituteSymbol(law, "k", NewReal(0.5))
	out = SubstituteCompartment(out, "cell", NewInt(2))
	out = SubstituteFunctionSymbol(out, SymbolTime, sym("t0"))

	assert.Equal(t, "0.5 * 2 * t0", ToCanonicalString(out))
	assert.Equal(t, "B", ToCanonicalString(RenameSpecies(sp("A"), "A", "B")))
}

func TestCloneIsDeep(t *testing.T) {
	law := bin(OpPlus, sp("A"), NewInt(1)).(*BinaryOp)
	clone := Clone(law).(*BinaryOp)

	assert.True(t, StructurallyEqual(law, clone))
	clone.Left.(*SpeciesRef).ID = "B"
	assert.Equal(t, "A", law.Left.(*SpeciesRef).ID)
}

func TestWalkOrders(t *testing.T) {
	law := bin(OpTimes, bin(OpPlus, sp("a"), sp("b")), un(OpNeg, sp("c")))

	collect := func(order Order) []string {
		var out []string
		Walk(law, order, func(n Law) bool {
			switch n := n.(type) {
			case *SpeciesRef:
				out = append(out, n.ID)
			case *BinaryOp:
				out = append(out, n.Op.Token())
			case *UnaryOp:
				out = append(out, "neg")
			}
			return true
		})
		return out
	}

	assert.Equal(t, []string{"*", "+", "a", "b", "neg", "c"}, collect(PreOrder))
	assert.Equal(t, []string{"a", "+", "b", "*", "neg", "c"}, collect(InOrder))
	assert.Equal(t, []string{"a", "b", "+", "c", "neg", "*"}, collect(PostOrder))
	assert.Equal(t, 6, Count(law))
}

func TestOperatorLookup(t *testing.T) {
	op, ok := LookupFunction("sqrt")
	assert.True(t, ok)
	assert.Equal(t, OpSqrt, op)

	op, ok = LookupInfix("<=")
	assert.True(t, ok)
	assert.Equal(t, OpLeq, op)

	_, ok = LookupFunction("nosuch")
	assert.False(t, ok)

	assert.True(t, IsBuiltinSymbol("avogadro"))
	assert.Contains(t, FunctionNames(), "piecewise")
	assert.Equal(t, "times", OpTimes.String())
}
