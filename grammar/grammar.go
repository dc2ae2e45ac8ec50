package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type PosIdent struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}

type File struct {
	Pos    lexer.Position
	Models []*Model `@@*`
}

type Model struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent `"model" @@ "{"`
	Items  []*Item  `@@* "}"`
}

type Item struct {
	Unit        *UnitDecl        `  @@`
	Compartment *CompartmentDecl `| @@`
	Parameter   *ParameterDecl   `| @@`
	Species     *SpeciesDecl     `| @@`
	Function    *FunctionDecl    `| @@`
	Reaction    *ReactionDecl    `| @@`
	Rule        *RuleDecl        `| @@`
	Event       *EventDecl       `| @@`
	Constraint  *ConstraintDecl  `| @@`
	Init        *InitDecl        `| @@`
}

type UnitDecl struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Name    PosIdent      `"unit" @@ "="`
	Factors []*UnitFactor `@@ { "*" @@ } ";"`
}

type UnitFactor struct {
	Pos      lexer.Position
	Kind     PosIdent      `@@`
	Exponent *SignedNumber `[ "^" @@ ]`
}

type SignedNumber struct {
	Neg   bool   `@"-"?`
	Value string `@Number`
}

type Attr struct {
	Pos        lexer.Position
	Const      bool      `  @"const"`
	Keep       bool      `| @"keep"`
	Boundary   bool      `| @"boundary"`
	Algebraic  bool      `| @"algebraic"`
	Amount     bool      `| @"amount"`
	Conc       bool      `| @("conc" | "concentration")`
	Fast       bool      `| @"fast"`
	Reversible bool      `| @"reversible"`
	Persistent bool      `| @"persistent"`
	Units      *PosIdent `| "units" @@`
	Dims       *string   `| "dims" @Number`
	Outside    *PosIdent `| "outside" @@`
}

type CompartmentDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent `"compartment" @@`
	Size   *Expr    `[ "=" @@ ]`
	Attrs  []*Attr  `@@* ";"`
}

type ParameterDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent `"parameter" @@`
	Value  *Expr    `[ "=" @@ ]`
	Attrs  []*Attr  `@@* ";"`
}

type SpeciesDecl struct {
	Pos         lexer.Position
	EndPos      lexer.Position
	Name        PosIdent  `"species" @@`
	Compartment *PosIdent `[ "in" @@ ]`
	Initial     *Expr     `[ "=" @@ ]`
	Attrs       []*Attr   `@@* ";"`
}

type FunctionDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   PosIdent    `"function" @@ "("`
	Params []*PosIdent `[ @@ { "," @@ } ] ")" "="`
	Body   *Expr       `@@ ";"`
}

type ReactionDecl struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Name      PosIdent      `"reaction" @@`
	Attrs     []*Attr       `@@*`
	Locals    []*LocalParam `[ "(" @@ { "," @@ } ")" ]`
	Reactants []*Term       `":" [ @@ { "+" @@ } ]`
	Arrow     string        `@Arrow`
	Products  []*Term       `[ @@ { "+" @@ } ]`
	Modifiers []*PosIdent   `[ "modifiers" @@ { "," @@ } ]`
	Rate      *Expr         `[ "rate" @@ ] ";"`
}

type LocalParam struct {
	Pos   lexer.Position
	Name  PosIdent `@@ "="`
	Value *Expr    `@@`
}

// Term is one side entry of a reaction: an optional stoichiometry then a
// species. A parenthesised identifier is a symbolic stoichiometry.
type Term struct {
	Pos     lexer.Position
	Number  *string   `[ @Number`
	Symbol  *PosIdent `| "(" @@ ")" ]`
	Species PosIdent  `@@`
}

type RuleDecl struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Assign    *RuleTarget `"rule" ( "assign" @@`
	Rate      *RuleTarget `        | "rate" @@`
	Algebraic *Expr       `        | "algebraic" @@ ) ";"`
}

type RuleTarget struct {
	Variable PosIdent `@@ "="`
	Math     *Expr    `@@`
}

type EventDecl struct {
	Pos         lexer.Position
	EndPos      lexer.Position
	Name        PosIdent      `"event" @@`
	Trigger     *Expr         `"when" @@`
	Delay       *Expr         `[ "delay" @@ ]`
	Priority    *Expr         `[ "priority" @@ ]`
	Attrs       []*Attr       `@@*`
	Assignments []*Assignment `"{" @@* "}" [ ";" ]`
}

type Assignment struct {
	Pos      lexer.Position
	Variable PosIdent `@@ "="`
	Math     *Expr    `@@ ";"`
}

type ConstraintDecl struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Math    *Expr   `"constraint" @@`
	Message *string `[ @String ] ";"`
}

type InitDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Target PosIdent `"init" @@ "="`
	Math   *Expr    `@@ ";"`
}
