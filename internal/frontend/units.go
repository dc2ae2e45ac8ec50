package frontend

import (
	"sort"
	"strconv"

	"crnc/grammar"
	"crnc/internal/errors"
	"crnc/internal/ir"
)

// Base unit kinds a unit definition may be built from.
var baseUnits = map[string]bool{
	"ampere": true, "avogadro": true, "becquerel": true, "candela": true,
	"coulomb": true, "dimensionless": true, "farad": true, "gram": true,
	"gray": true, "henry": true, "hertz": true, "item": true, "joule": true,
	"katal": true, "kelvin": true, "kilogram": true, "litre": true,
	"lumen": true, "lux": true, "metre": true, "mole": true, "newton": true,
	"ohm": true, "pascal": true, "radian": true, "second": true,
	"siemens": true, "sievert": true, "steradian": true, "tesla": true,
	"volt": true, "watt": true, "weber": true,
}

func isBaseUnit(kind string) bool {
	return baseUnits[kind]
}

func baseUnitNames() []string {
	names := make([]string, 0, len(baseUnits))
	for name := range baseUnits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *Builder) unitNames() []string {
	names := make([]string, 0, len(b.units))
	for name := range b.units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// declareUnit records a unit definition. Units live in their own namespace.
func (b *Builder) declareUnit(decl *grammar.UnitDecl) {
	name := decl.Name.Value
	if b.units[name] || isBaseUnit(name) {
		b.addError(errors.DuplicateDeclaration(name, grammar.Position(decl.Name.Pos)))
		return
	}

	def := &ir.UnitDefinition{ID: name}
	for _, f := range decl.Factors {
		if !isBaseUnit(f.Kind.Value) {
			b.addError(errors.InvalidUnit(f.Kind.Value, grammar.Position(f.Kind.Pos),
				errors.FindSimilarNames(f.Kind.Value, baseUnitNames())))
			return
		}
		unit := ir.Unit{Kind: f.Kind.Value, Exponent: 1, Multiplier: 1}
		if f.Exponent != nil {
			exp, err := strconv.ParseFloat(f.Exponent.Value, 64)
			if err != nil {
				b.addError(errors.InvalidUnit(f.Kind.Value+"^"+f.Exponent.Value, grammar.Position(f.Pos), nil))
				return
			}
			if f.Exponent.Neg {
				exp = -exp
			}
			unit.Exponent = exp
		}
		def.Units = append(def.Units, unit)
	}

	b.units[name] = true
	_ = b.set.Units.Add(def)
}
