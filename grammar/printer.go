package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

func indent(level int) string {
	return strings.Repeat("    ", level)
}

func (f *File) String() string {
	var b strings.Builder
	for i, m := range f.Models {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.StringWithIndent(0))
	}
	return b.String()
}

func (m *Model) StringWithIndent(level int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%smodel %s {\n", indent(level), m.Name.Value))
	for _, item := range m.Items {
		b.WriteString(indent(level+1) + item.String() + "\n")
	}
	b.WriteString(indent(level) + "}\n")
	return b.String()
}

func (i *Item) String() string {
	switch {
	case i.Unit != nil:
		return i.Unit.String()
	case i.Compartment != nil:
		return i.Compartment.String()
	case i.Parameter != nil:
		return i.Parameter.String()
	case i.Species != nil:
		return i.Species.String()
	case i.Function != nil:
		return i.Function.String()
	case i.Reaction != nil:
		return i.Reaction.String()
	case i.Rule != nil:
		return i.Rule.String()
	case i.Event != nil:
		return i.Event.String()
	case i.Constraint != nil:
		return i.Constraint.String()
	case i.Init != nil:
		return i.Init.String()
	}
	return ""
}

func (u *UnitDecl) String() string {
	factors := make([]string, len(u.Factors))
	for i, f := range u.Factors {
		factors[i] = f.String()
	}
	return fmt.Sprintf("unit %s = %s;", u.Name.Value, strings.Join(factors, " * "))
}

func (f *UnitFactor) String() string {
	if f.Exponent == nil {
		return f.Kind.Value
	}
	return f.Kind.Value + "^" + f.Exponent.String()
}

func (n *SignedNumber) String() string {
	if n.Neg {
		return "-" + n.Value
	}
	return n.Value
}

func (a *Attr) String() string {
	switch {
	case a.Const:
		return "const"
	case a.Keep:
		return "keep"
	case a.Boundary:
		return "boundary"
	case a.Algebraic:
		return "algebraic"
	case a.Amount:
		return "amount"
	case a.Conc:
		return "conc"
	case a.Fast:
		return "fast"
	case a.Reversible:
		return "reversible"
	case a.Persistent:
		return "persistent"
	case a.Units != nil:
		return "units " + a.Units.Value
	case a.Dims != nil:
		return "dims " + *a.Dims
	case a.Outside != nil:
		return "outside " + a.Outside.Value
	}
	return ""
}

func attrs(list []*Attr) string {
	var b strings.Builder
	for _, a := range list {
		b.WriteString(" " + a.String())
	}
	return b.String()
}

func (c *CompartmentDecl) String() string {
	var b strings.Builder
	b.WriteString("compartment " + c.Name.Value)
	if c.Size != nil {
		b.WriteString(" = " + c.Size.String())
	}
	b.WriteString(attrs(c.Attrs) + ";")
	return b.String()
}

func (p *ParameterDecl) String() string {
	var b strings.Builder
	b.WriteString("parameter " + p.Name.Value)
	if p.Value != nil {
		b.WriteString(" = " + p.Value.String())
	}
	b.WriteString(attrs(p.Attrs) + ";")
	return b.String()
}

func (s *SpeciesDecl) String() string {
	var b strings.Builder
	b.WriteString("species " + s.Name.Value)
	if s.Compartment != nil {
		b.WriteString(" in " + s.Compartment.Value)
	}
	if s.Initial != nil {
		b.WriteString(" = " + s.Initial.String())
	}
	b.WriteString(attrs(s.Attrs) + ";")
	return b.String()
}

func (f *FunctionDecl) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Value
	}
	return fmt.Sprintf("function %s(%s) = %s;", f.Name.Value, strings.Join(params, ", "), f.Body.String())
}

func (r *ReactionDecl) String() string {
	var b strings.Builder
	b.WriteString("reaction " + r.Name.Value + attrs(r.Attrs))
	if len(r.Locals) > 0 {
		locals := make([]string, len(r.Locals))
		for i, l := range r.Locals {
			locals[i] = l.Name.Value + " = " + l.Value.String()
		}
		b.WriteString(" (" + strings.Join(locals, ", ") + ")")
	}
	b.WriteString(":")
	if len(r.Reactants) > 0 {
		b.WriteString(" " + terms(r.Reactants))
	}
	b.WriteString(" " + r.Arrow)
	if len(r.Products) > 0 {
		b.WriteString(" " + terms(r.Products))
	}
	if len(r.Modifiers) > 0 {
		mods := make([]string, len(r.Modifiers))
		for i, m := range r.Modifiers {
			mods[i] = m.Value
		}
		b.WriteString(" modifiers " + strings.Join(mods, ", "))
	}
	if r.Rate != nil {
		b.WriteString(" rate " + r.Rate.String())
	}
	b.WriteString(";")
	return b.String()
}

func terms(list []*Term) string {
	parts := make([]string, len(list))
	for i, t := range list {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func (t *Term) String() string {
	switch {
	case t.Number != nil:
		return *t.Number + " " + t.Species.Value
	case t.Symbol != nil:
		return "(" + t.Symbol.Value + ") " + t.Species.Value
	}
	return t.Species.Value
}

func (r *RuleDecl) String() string {
	switch {
	case r.Assign != nil:
		return fmt.Sprintf("rule assign %s = %s;", r.Assign.Variable.Value, r.Assign.Math.String())
	case r.Rate != nil:
		return fmt.Sprintf("rule rate %s = %s;", r.Rate.Variable.Value, r.Rate.Math.String())
	case r.Algebraic != nil:
		return fmt.Sprintf("rule algebraic %s;", r.Algebraic.String())
	}
	return ""
}

func (e *EventDecl) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("event %s when %s", e.Name.Value, e.Trigger.String()))
	if e.Delay != nil {
		b.WriteString(" delay " + e.Delay.String())
	}
	if e.Priority != nil {
		b.WriteString(" priority " + e.Priority.String())
	}
	b.WriteString(attrs(e.Attrs) + " {")
	for _, a := range e.Assignments {
		b.WriteString(fmt.Sprintf(" %s = %s;", a.Variable.Value, a.Math.String()))
	}
	b.WriteString(" }")
	return b.String()
}

func (c *ConstraintDecl) String() string {
	if c.Message != nil {
		return fmt.Sprintf("constraint %s %s;", c.Math.String(), strconv.Quote(*c.Message))
	}
	return fmt.Sprintf("constraint %s;", c.Math.String())
}

func (i *InitDecl) String() string {
	return fmt.Sprintf("init %s = %s;", i.Target.Value, i.Math.String())
}

// Formula printing keeps the grouping written in the source.

func (e *Expr) String() string {
	s := e.Left.String()
	for _, r := range e.Rights {
		s += " " + r.Op + " " + r.Right.String()
	}
	return s
}

func (e *AndExpr) String() string {
	s := e.Left.String()
	for _, r := range e.Rights {
		s += " " + r.Op + " " + r.Right.String()
	}
	return s
}

func (e *EqualityExpr) String() string {
	s := e.Left.String()
	for _, r := range e.Rights {
		s += " " + r.Op + " " + r.Right.String()
	}
	return s
}

func (e *RelationalExpr) String() string {
	s := e.Left.String()
	for _, r := range e.Rights {
		s += " " + r.Op + " " + r.Right.String()
	}
	return s
}

func (e *BitOrExpr) String() string {
	s := e.Left.String()
	for _, r := range e.Rights {
		s += " " + r.Op + " " + r.Right.String()
	}
	return s
}

func (e *BitAndExpr) String() string {
	s := e.Left.String()
	for _, r := range e.Rights {
		s += " " + r.Op + " " + r.Right.String()
	}
	return s
}

func (e *ShiftExpr) String() string {
	s := e.Left.String()
	for _, r := range e.Rights {
		s += " " + r.Op + " " + r.Right.String()
	}
	return s
}

func (e *AdditiveExpr) String() string {
	s := e.Left.String()
	for _, r := range e.Rights {
		s += " " + r.Op + " " + r.Right.String()
	}
	return s
}

func (e *MultiplicativeExpr) String() string {
	s := e.Left.String()
	for _, r := range e.Rights {
		s += " " + r.Op + " " + r.Right.String()
	}
	return s
}

func (u *UnaryExpr) String() string {
	if u.Op != nil {
		return *u.Op + u.Operand.String()
	}
	return u.Power.String()
}

func (p *PowerExpr) String() string {
	if p.Exponent == nil {
		return p.Base.String()
	}
	return p.Base.String() + " ^ " + p.Exponent.String()
}

func (p *Primary) String() string {
	switch {
	case p.Call != nil:
		return p.Call.String()
	case p.Number != nil:
		return *p.Number
	case p.Ident != nil:
		return *p.Ident
	case p.Parens != nil:
		return "(" + p.Parens.String() + ")"
	}
	return ""
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}
