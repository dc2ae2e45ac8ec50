package kinetic

import (
	"math"

	"crnc/internal/errors"
)

// Avogadro is the value of the avogadro function symbol.
const Avogadro = 6.02214076e23

// Env supplies the stored values of model entities. A false second result
// means the entity has no stored value.
type Env interface {
	SpeciesValue(id string) (float64, bool)
	CompartmentValue(id string) (float64, bool)
	SymbolValue(id string) (float64, bool)
	Time() float64
}

type evaluator struct {
	env       Env
	overrides map[string]float64
	def       float64
	err       error
}

// Evaluate computes the value of law. References resolve through
// overrides first, then env, then def. Undefined operations fail with a
// math domain error instead of producing NaN.
func Evaluate(law Law, env Env, overrides map[string]float64, def float64) (float64, error) {
	if law == nil {
		return 0, errors.New(errors.KindInvalidOp, "", "cannot evaluate a missing expression")
	}
	e := &evaluator{env: env, overrides: overrides, def: def}
	v := Dispatch[float64](law, e)
	if e.err != nil {
		return 0, e.err
	}
	return v, nil
}

func (e *evaluator) fail(err error) float64 {
	if e.err == nil {
		e.err = err
	}
	return 0
}

func (e *evaluator) domain(subject, format string, args ...any) float64 {
	return e.fail(errors.New(errors.KindMathDomain, subject, format, args...))
}

func (e *evaluator) eval(law Law) float64 {
	if e.err != nil {
		return 0
	}
	if law == nil {
		return e.fail(errors.New(errors.KindInvalidOp, "", "expression node is missing a child"))
	}
	return Dispatch[float64](law, e)
}

func (e *evaluator) resolve(id string, lookup func(Env, string) (float64, bool)) float64 {
	if v, ok := e.overrides[id]; ok {
		return v
	}
	if e.env != nil {
		if v, ok := lookup(e.env, id); ok {
			return v
		}
	}
	return e.def
}

func (e *evaluator) VisitInt(n *IntLiteral) float64 {
	return float64(n.Value)
}

func (e *evaluator) VisitReal(n *RealLiteral) float64 {
	return n.Value
}

func (e *evaluator) VisitSpecies(n *SpeciesRef) float64 {
	return e.resolve(n.ID, Env.SpeciesValue)
}

func (e *evaluator) VisitCompartment(n *CompartmentRef) float64 {
	return e.resolve(n.ID, Env.CompartmentValue)
}

func (e *evaluator) VisitSymbol(n *SymbolRef) float64 {
	return e.resolve(n.ID, Env.SymbolValue)
}

func (e *evaluator) VisitFunctionSymbol(n *FunctionSymbol) float64 {
	switch n.Name {
	case SymbolTime:
		if v, ok := e.overrides[SymbolTime]; ok {
			return v
		}
		if e.env != nil {
			return e.env.Time()
		}
		return 0
	case SymbolPi:
		return math.Pi
	case SymbolExponentialE:
		return math.E
	case SymbolAvogadro:
		return Avogadro
	case SymbolInf:
		return math.Inf(1)
	case SymbolNaN:
		return math.NaN()
	}
	return e.fail(errors.New(errors.KindUnresolvedSymbol, n.Name, "unknown function symbol '%s'", n.Name))
}

func (e *evaluator) VisitUnary(n *UnaryOp) float64 {
	x := e.eval(n.Child)
	if e.err != nil {
		return 0
	}
	name := n.Op.String()
	switch n.Op {
	case OpNeg:
		return -x
	case OpNot:
		return truth(x == 0)
	case OpAbs:
		return math.Abs(x)
	case OpCeil:
		return math.Ceil(x)
	case OpFloor:
		return math.Floor(x)
	case OpExp:
		return math.Exp(x)
	case OpLn:
		if x <= 0 {
			return e.domain(name, "ln of non-positive value %g", x)
		}
		return math.Log(x)
	case OpLog10:
		if x <= 0 {
			return e.domain(name, "log10 of non-positive value %g", x)
		}
		return math.Log10(x)
	case OpSqrt:
		if x < 0 {
			return e.domain(name, "sqrt of negative value %g", x)
		}
		return math.Sqrt(x)
	case OpSin:
		return math.Sin(x)
	case OpCos:
		return math.Cos(x)
	case OpTan:
		return math.Tan(x)
	case OpAsin:
		if x < -1 || x > 1 {
			return e.domain(name, "asin argument %g outside [-1, 1]", x)
		}
		return math.Asin(x)
	case OpAcos:
		if x < -1 || x > 1 {
			return e.domain(name, "acos argument %g outside [-1, 1]", x)
		}
		return math.Acos(x)
	case OpAtan:
		return math.Atan(x)
	case OpSinh:
		return math.Sinh(x)
	case OpCosh:
		return math.Cosh(x)
	case OpTanh:
		return math.Tanh(x)
	case OpFactorial:
		if x < 0 || x != math.Trunc(x) {
			return e.domain(name, "factorial of %g is undefined", x)
		}
		return math.Gamma(x + 1)
	}
	return e.fail(errors.New(errors.KindInvalidOp, name, "operator %s is not unary", n.Op))
}

func (e *evaluator) VisitBinary(n *BinaryOp) float64 {
	a := e.eval(n.Left)
	b := e.eval(n.Right)
	if e.err != nil {
		return 0
	}
	name := n.Op.String()
	switch n.Op {
	case OpPlus:
		return a + b
	case OpMinus:
		return a - b
	case OpTimes:
		return a * b
	case OpDivide:
		if b == 0 {
			return e.domain(name, "division by zero")
		}
		return a / b
	case OpPow:
		if a == 0 && b < 0 {
			return e.domain(name, "zero raised to negative power %g", b)
		}
		r := math.Pow(a, b)
		if math.IsNaN(r) && !math.IsNaN(a) && !math.IsNaN(b) {
			return e.domain(name, "%g raised to %g is not real", a, b)
		}
		return r
	case OpRoot:
		return e.root(a, b)
	case OpLog:
		if a <= 0 || a == 1 {
			return e.domain(name, "invalid logarithm base %g", a)
		}
		if b <= 0 {
			return e.domain(name, "log of non-positive value %g", b)
		}
		return math.Log(b) / math.Log(a)
	case OpEq:
		return truth(a == b)
	case OpNeq:
		return truth(a != b)
	case OpLt:
		return truth(a < b)
	case OpLeq:
		return truth(a <= b)
	case OpGt:
		return truth(a > b)
	case OpGeq:
		return truth(a >= b)
	case OpAnd:
		return truth(a != 0 && b != 0)
	case OpOr:
		return truth(a != 0 || b != 0)
	case OpXor:
		return truth((a != 0) != (b != 0))
	case OpBitAnd:
		return float64(int64(a) & int64(b))
	case OpBitOr:
		return float64(int64(a) | int64(b))
	case OpShiftLeft, OpShiftRight:
		if b < 0 {
			return e.domain(name, "negative shift count %g", b)
		}
		if n.Op == OpShiftLeft {
			return float64(int64(a) << uint64(b))
		}
		return float64(int64(a) >> uint64(b))
	}
	return e.fail(errors.New(errors.KindInvalidOp, name, "operator %s is not binary", n.Op))
}

// root computes the degree-th root of x.
func (e *evaluator) root(degree, x float64) float64 {
	if degree == 0 {
		return e.domain("root", "root of degree zero")
	}
	if x < 0 {
		odd := degree == math.Trunc(degree) && math.Mod(degree, 2) != 0
		if !odd {
			return e.domain("root", "even root of negative value %g", x)
		}
		return -math.Pow(-x, 1/degree)
	}
	return math.Pow(x, 1/degree)
}

// VisitDelay returns the current value of the delayed expression; the
// core keeps no history.
func (e *evaluator) VisitDelay(n *DelayOp) float64 {
	v := e.eval(n.Left)
	d := e.eval(n.Right)
	if e.err != nil {
		return 0
	}
	if d < 0 {
		return e.domain("delay", "negative delay %g", d)
	}
	return v
}

func (e *evaluator) VisitPiecewise(n *Piecewise) float64 {
	if len(n.Children) == 0 {
		return e.fail(errors.New(errors.KindInvalidOp, "piecewise", "piecewise has no pieces"))
	}
	i := 0
	for ; i+1 < len(n.Children); i += 2 {
		cond := e.eval(n.Children[i+1])
		if e.err != nil {
			return 0
		}
		if cond != 0 {
			return e.eval(n.Children[i])
		}
	}
	if i < len(n.Children) {
		return e.eval(n.Children[i])
	}
	return e.domain("piecewise", "no piece applies and there is no otherwise value")
}

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
