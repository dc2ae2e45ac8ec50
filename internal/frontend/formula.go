package frontend

import (
	"fmt"
	"strconv"
	"strings"

	"crnc/grammar"
	"crnc/internal/errors"
	"crnc/internal/ir"
	"crnc/internal/kinetic"
)

// Resolver maps an identifier to the law leaf it stands for, or nil when
// the name is unknown.
type Resolver func(name string) kinetic.Law

// FreeSymbols resolves builtin names to function symbols and every other
// name to a symbol reference.
func FreeSymbols(name string) kinetic.Law {
	if kinetic.IsBuiltinSymbol(name) {
		return kinetic.NewFunctionSymbol(name)
	}
	return kinetic.NewSymbolRef(name)
}

// NetworkResolver resolves names against a built network: global symbols,
// then species, then compartments, then builtins.
func NetworkResolver(net *ir.Network) Resolver {
	return func(name string) kinetic.Law {
		switch {
		case net.Symbols.LookupLocal(name) != nil:
			return kinetic.NewSymbolRef(name)
		case net.LookupSpecies(name) != nil:
			return kinetic.NewSpeciesRef(name)
		case net.LookupCompartment(name) != nil:
			return kinetic.NewCompartmentRef(name)
		case kinetic.IsBuiltinSymbol(name):
			return kinetic.NewFunctionSymbol(name)
		}
		return nil
	}
}

// converter lowers grammar formulas to kinetic laws.
type converter struct {
	resolve    Resolver
	function   func(name string) *ir.FunctionDefinition
	candidates func() []string
	errors     []errors.CompilerError

	// pos is the start of the formula being lowered.
	pos errors.Position
}

func (c *converter) addError(err errors.CompilerError) {
	c.errors = append(c.errors, err)
}

// ParseLaw parses formula text and lowers it with resolve. User functions
// of net, when net is not nil, are inlined.
func ParseLaw(source string, resolve Resolver, net *ir.Network) (kinetic.Law, error) {
	expr, err := grammar.ParseFormula(source)
	if err != nil {
		return nil, grammar.Diagnostic(err)
	}

	c := &converter{resolve: resolve}
	if net != nil {
		c.function = func(name string) *ir.FunctionDefinition {
			for _, f := range net.ListFunctionDefinitions() {
				if f.ID == name {
					return f
				}
			}
			return nil
		}
		c.candidates = func() []string { return networkNames(net) }
	}

	law := c.expr(expr)
	if len(c.errors) > 0 {
		return nil, c.errors[0]
	}
	return law, nil
}

func networkNames(net *ir.Network) []string {
	var names []string
	for _, sym := range net.Symbols.GenerateListOfSymbols() {
		names = append(names, sym.ID)
	}
	for _, s := range net.ListSpecies() {
		names = append(names, s.ID)
	}
	for _, comp := range net.ListCompartments() {
		names = append(names, comp.ID)
	}
	return append(names, kinetic.BuiltinSymbols()...)
}

// A nil law from any of the lowering methods means an error was recorded.

func (c *converter) expr(e *grammar.Expr) kinetic.Law {
	c.pos = grammar.Position(e.Pos)
	law := c.and(e.Left)
	for _, tail := range e.Rights {
		law = c.binary(tail.Op, law, c.and(tail.Right), c.pos)
	}
	return law
}

func (c *converter) and(e *grammar.AndExpr) kinetic.Law {
	law := c.equality(e.Left)
	for _, tail := range e.Rights {
		law = c.binary(tail.Op, law, c.equality(tail.Right), c.pos)
	}
	return law
}

func (c *converter) equality(e *grammar.EqualityExpr) kinetic.Law {
	law := c.relational(e.Left)
	for _, tail := range e.Rights {
		law = c.binary(tail.Op, law, c.relational(tail.Right), c.pos)
	}
	return law
}

func (c *converter) relational(e *grammar.RelationalExpr) kinetic.Law {
	law := c.bitOr(e.Left)
	for _, tail := range e.Rights {
		law = c.binary(tail.Op, law, c.bitOr(tail.Right), c.pos)
	}
	return law
}

func (c *converter) bitOr(e *grammar.BitOrExpr) kinetic.Law {
	law := c.bitAnd(e.Left)
	for _, tail := range e.Rights {
		law = c.binary(tail.Op, law, c.bitAnd(tail.Right), c.pos)
	}
	return law
}

func (c *converter) bitAnd(e *grammar.BitAndExpr) kinetic.Law {
	law := c.shift(e.Left)
	for _, tail := range e.Rights {
		law = c.binary(tail.Op, law, c.shift(tail.Right), c.pos)
	}
	return law
}

func (c *converter) shift(e *grammar.ShiftExpr) kinetic.Law {
	law := c.additive(e.Left)
	for _, tail := range e.Rights {
		law = c.binary(tail.Op, law, c.additive(tail.Right), c.pos)
	}
	return law
}

func (c *converter) additive(e *grammar.AdditiveExpr) kinetic.Law {
	law := c.multiplicative(e.Left)
	for _, tail := range e.Rights {
		law = c.binary(tail.Op, law, c.multiplicative(tail.Right), c.pos)
	}
	return law
}

func (c *converter) multiplicative(e *grammar.MultiplicativeExpr) kinetic.Law {
	law := c.unary(e.Left)
	for _, tail := range e.Rights {
		law = c.binary(tail.Op, law, c.unary(tail.Right), c.pos)
	}
	return law
}

func (c *converter) binary(token string, left, right kinetic.Law, pos errors.Position) kinetic.Law {
	if left == nil || right == nil {
		return nil
	}
	op, ok := kinetic.LookupInfix(token)
	if !ok {
		c.addError(errors.SyntaxError(fmt.Sprintf("unknown operator '%s'", token), pos))
		return nil
	}
	law, err := kinetic.NewBinary(op, left, right)
	if err != nil {
		c.addError(errors.FromError(err, pos))
		return nil
	}
	return law
}

func (c *converter) unary(e *grammar.UnaryExpr) kinetic.Law {
	if e.Op == nil {
		return c.power(e.Power)
	}

	// -2 is a literal, not neg(2).
	if *e.Op == "-" && e.Operand.Op == nil && e.Operand.Power.Exponent == nil && e.Operand.Power.Base.Number != nil {
		lit := c.number(*e.Operand.Power.Base.Number, grammar.Position(e.Pos))
		switch n := lit.(type) {
		case *kinetic.IntLiteral:
			n.Value = -n.Value
		case *kinetic.RealLiteral:
			n.Value = -n.Value
		}
		return lit
	}

	operand := c.unary(e.Operand)
	if operand == nil {
		return nil
	}
	op := kinetic.OpNeg
	if *e.Op == "!" {
		op = kinetic.OpNot
	}
	return kinetic.Must(kinetic.NewUnary(op, operand))
}

func (c *converter) power(e *grammar.PowerExpr) kinetic.Law {
	base := c.primary(e.Base)
	if e.Exponent == nil {
		return base
	}
	return c.binary("^", base, c.unary(e.Exponent), grammar.Position(e.Base.Pos))
}

func (c *converter) primary(p *grammar.Primary) kinetic.Law {
	pos := grammar.Position(p.Pos)
	switch {
	case p.Call != nil:
		return c.call(p.Call)
	case p.Number != nil:
		return c.number(*p.Number, pos)
	case p.Ident != nil:
		return c.ident(*p.Ident, pos)
	case p.Parens != nil:
		return c.expr(p.Parens)
	}
	return nil
}

func (c *converter) number(text string, pos errors.Position) kinetic.Law {
	if !strings.ContainsAny(text, ".eE") {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return kinetic.NewInt(v)
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		c.addError(errors.SyntaxError(fmt.Sprintf("invalid number '%s'", text), pos))
		return nil
	}
	return kinetic.NewReal(v)
}

func (c *converter) ident(name string, pos errors.Position) kinetic.Law {
	if law := c.resolve(name); law != nil {
		return law
	}
	var similar []string
	if c.candidates != nil {
		similar = errors.FindSimilarNames(name, c.candidates())
	}
	c.addError(errors.UndefinedIdentifier(name, pos, similar))
	return nil
}

func (c *converter) call(call *grammar.Call) kinetic.Law {
	pos := grammar.Position(call.Pos)

	args := make([]kinetic.Law, len(call.Args))
	failed := false
	for i, arg := range call.Args {
		args[i] = c.expr(arg)
		failed = failed || args[i] == nil
	}
	if failed {
		return nil
	}

	if c.function != nil {
		if def := c.function(call.Name); def != nil {
			if len(args) != len(def.Params) {
				c.addError(errors.InvalidArguments(call.Name, len(def.Params), len(args), pos))
				return nil
			}
			return Inline(def, args)
		}
	}

	op, ok := kinetic.LookupFunction(call.Name)
	if !ok {
		similar := errors.FindSimilarNames(call.Name, kinetic.FunctionNames())
		c.addError(errors.UndefinedIdentifier(call.Name, pos, similar))
		return nil
	}

	// log with one argument is the decimal logarithm.
	if op == kinetic.OpLog && len(args) == 1 {
		op = kinetic.OpLog10
	}

	var (
		law kinetic.Law
		err error
	)
	switch op.Arity() {
	case kinetic.ArityUnary:
		if len(args) != 1 {
			c.addError(errors.InvalidArguments(call.Name, 1, len(args), pos))
			return nil
		}
		law, err = kinetic.NewUnary(op, args[0])
	case kinetic.ArityBinary:
		if len(args) != 2 {
			c.addError(errors.InvalidArguments(call.Name, 2, len(args), pos))
			return nil
		}
		law, err = kinetic.NewBinary(op, args[0], args[1])
	case kinetic.ArityDelay:
		if len(args) != 2 && len(args) != 3 {
			c.addError(errors.InvalidArguments(call.Name, 2, len(args), pos))
			return nil
		}
		timeSymbol := kinetic.SymbolTime
		if len(args) == 3 {
			if timeSymbol = delayTimeSymbol(args[2]); timeSymbol == "" {
				c.addError(errors.NewDiagnostic(errors.ErrorInvalidArguments,
					"the time argument of delay must be a parameter or time", pos).
					WithLength(len(call.Name)).
					Build())
				return nil
			}
		}
		law, err = kinetic.NewDelay(args[0], args[1], timeSymbol)
	default:
		law, err = kinetic.NewPiecewise(args...)
	}
	if err != nil {
		c.addError(errors.FromError(err, pos))
		return nil
	}
	return law
}

func delayTimeSymbol(arg kinetic.Law) string {
	switch t := arg.(type) {
	case *kinetic.SymbolRef:
		return t.ID
	case *kinetic.FunctionSymbol:
		if t.Name == kinetic.SymbolTime {
			return t.Name
		}
	}
	return ""
}

// Inline expands a call to def with args. Parameters are first renamed to
// ids no identifier can spell, so an argument naming a later parameter is
// not substituted twice.
func Inline(def *ir.FunctionDefinition, args []kinetic.Law) kinetic.Law {
	body := kinetic.Clone(def.Body)
	for i, param := range def.Params {
		body = kinetic.SubstituteSymbol(body, param, kinetic.NewSymbolRef(placeholder(i)))
	}
	for i, arg := range args {
		body = kinetic.SubstituteSymbol(body, placeholder(i), arg)
	}
	return body
}

func placeholder(i int) string {
	return fmt.Sprintf("$%d", i)
}
