package frontend

import (
	"os"
	"sort"

	"github.com/tliron/commonlog"

	"crnc/grammar"
	"crnc/internal/errors"
	"crnc/internal/ir"
	"crnc/internal/kinetic"
	"crnc/internal/managers"
)

var log = commonlog.GetLogger("crnc.frontend")

type declKind string

const (
	declCompartment declKind = "compartment"
	declParameter   declKind = "parameter"
	declSpecies     declKind = "species"
	declReaction    declKind = "reaction"
	declFunction    declKind = "function"
	declEvent       declKind = "event"
)

type declaration struct {
	kind declKind
	pos  errors.Position
}

// Builder lowers a parsed model into a reaction network.
type Builder struct {
	net      *ir.Network
	set      *managers.Set
	errors   []errors.CompilerError
	declared map[string]declaration
	units    map[string]bool
	targets  map[string]bool
	inits    map[string]bool
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build lowers model. The network is returned even when errors were
// reported so tools can still inspect what was understood.
func (b *Builder) Build(model *grammar.Model) *ir.Network {
	b.net = ir.NewNetwork(model.Name.Value)
	b.set = managers.New()
	b.set.Attach(b.net)
	b.errors = nil
	b.declared = make(map[string]declaration)
	b.units = make(map[string]bool)
	b.targets = make(map[string]bool)
	b.inits = make(map[string]bool)

	// Pass 1: every id is declared before any formula is lowered, so
	// reactions may mention species declared further down.
	for _, item := range model.Items {
		b.declareItem(item)
	}

	// Pass 2: bodies, formulas and cross references.
	for _, item := range model.Items {
		b.defineItem(item)
	}

	b.checkUnused(model)

	if !b.HasErrors() {
		if err := b.net.Validate(); err != nil {
			b.errors = append(b.errors, errors.FromError(err, grammar.Position(model.Pos)))
		}
	}

	log.Debugf("built model %s: %d species, %d reactions, %d diagnostics",
		b.net.ID, len(b.net.ListSpecies()), len(b.net.ListReactions()), len(b.errors))
	return b.net
}

// GetErrors returns every diagnostic of the last build, warnings included.
func (b *Builder) GetErrors() []errors.CompilerError {
	return b.errors
}

// HasErrors reports whether the last build produced an error-level diagnostic.
func (b *Builder) HasErrors() bool {
	for _, err := range b.errors {
		if err.IsError() {
			return true
		}
	}
	return false
}

func (b *Builder) addError(err errors.CompilerError) {
	b.errors = append(b.errors, err)
}

// Load parses source and builds the model called name, or the first model
// when name is empty. A nil network means the source did not parse.
func Load(filename, source, name string) (*ir.Network, []errors.CompilerError) {
	file, err := grammar.ParseString(filename, source)
	if err != nil {
		return nil, []errors.CompilerError{grammar.Diagnostic(err)}
	}

	model := selectModel(file, name)
	if model == nil {
		msg := "no model in file"
		if name != "" {
			msg = "no model named '" + name + "'"
		}
		return nil, []errors.CompilerError{errors.SyntaxError(msg, errors.Position{Filename: filename, Line: 1, Column: 1})}
	}

	b := NewBuilder()
	net := b.Build(model)
	return net, b.GetErrors()
}

// LoadFile is Load for a file on disk.
func LoadFile(path, name string) (*ir.Network, []errors.CompilerError, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	net, diags := Load(path, string(source), name)
	return net, diags, nil
}

func selectModel(file *grammar.File, name string) *grammar.Model {
	for _, model := range file.Models {
		if name == "" || model.Name.Value == name {
			return model
		}
	}
	return nil
}

// HasErrors reports whether diags contains an error-level diagnostic.
func HasErrors(diags []errors.CompilerError) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}

// declare claims id in the model namespace.
func (b *Builder) declare(name grammar.PosIdent, kind declKind) bool {
	pos := grammar.Position(name.Pos)
	if _, exists := b.declared[name.Value]; exists || kinetic.IsBuiltinSymbol(name.Value) {
		b.addError(errors.DuplicateDeclaration(name.Value, pos))
		return false
	}
	b.declared[name.Value] = declaration{kind: kind, pos: pos}
	return true
}

func (b *Builder) kindOf(name string) (declKind, bool) {
	d, ok := b.declared[name]
	return d.kind, ok
}

// names lists every declared id plus the builtin symbols, for suggestions.
func (b *Builder) names() []string {
	names := make([]string, 0, len(b.declared))
	for name := range b.declared {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, kinetic.BuiltinSymbols()...)
}

func (b *Builder) namesOf(kind declKind) []string {
	var names []string
	for name, d := range b.declared {
		if d.kind == kind {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// resolveGlobal maps a model-level identifier to its reference node.
func (b *Builder) resolveGlobal(name string) kinetic.Law {
	if kind, ok := b.kindOf(name); ok {
		switch kind {
		case declParameter:
			return kinetic.NewSymbolRef(name)
		case declSpecies:
			return kinetic.NewSpeciesRef(name)
		case declCompartment:
			return kinetic.NewCompartmentRef(name)
		}
		return nil
	}
	if kinetic.IsBuiltinSymbol(name) {
		return kinetic.NewFunctionSymbol(name)
	}
	return nil
}

// lower converts expr in the given scope, collecting its diagnostics.
func (b *Builder) lower(expr *grammar.Expr, resolve Resolver, candidates func() []string) kinetic.Law {
	if expr == nil {
		return nil
	}
	c := &converter{
		resolve:    resolve,
		function:   b.set.Functions.LookupFunctionDefinition,
		candidates: candidates,
	}
	law := c.expr(expr)
	b.errors = append(b.errors, c.errors...)
	return law
}

func (b *Builder) lowerGlobal(expr *grammar.Expr) kinetic.Law {
	return b.lower(expr, b.resolveGlobal, b.names)
}

// initialValue splits a declared initial value into a number, when the
// formula mentions no model entity, or an initial assignment.
func (b *Builder) initialValue(expr *grammar.Expr) (float64, kinetic.Law, bool) {
	law := b.lowerGlobal(expr)
	if law == nil {
		return 0, nil, false
	}
	if kinetic.Dependencies(law).Len() > 0 {
		return 0, law, true
	}
	v, err := b.net.Evaluate(law, nil, 0)
	if err != nil {
		b.addError(errors.FromError(err, grammar.Position(expr.Pos)))
		return 0, nil, false
	}
	return v, nil, true
}

func (b *Builder) checkUnused(model *grammar.Model) {
	used := kinetic.NewDependencySet()
	for _, site := range b.net.LawSites() {
		used.Merge(kinetic.Dependencies(*site.Law))
	}
	for _, e := range b.net.ListEdges(ir.ReactantEdge) {
		if e.StoichiometrySymbol != "" {
			used.Symbols[e.StoichiometrySymbol] = true
		}
	}
	for _, e := range b.net.ListEdges(ir.ProductEdge) {
		if e.StoichiometrySymbol != "" {
			used.Symbols[e.StoichiometrySymbol] = true
		}
	}

	for _, item := range model.Items {
		switch {
		case item.Species != nil:
			s := b.net.LookupSpecies(item.Species.Name.Value)
			if s == nil || s.Keep || used.Species[s.ID] || b.targets[s.ID] || len(b.net.IncidentEdges(s)) > 0 {
				continue
			}
			b.addError(errors.UnusedSpecies(s.ID, grammar.Position(item.Species.Name.Pos)))
		case item.Parameter != nil:
			id := item.Parameter.Name.Value
			if b.net.Symbols.LookupLocal(id) == nil || used.Symbols[id] || b.targets[id] {
				continue
			}
			b.addError(errors.UnusedParameter(id, grammar.Position(item.Parameter.Name.Pos)))
		}
	}
}
