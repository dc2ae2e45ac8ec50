package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Formula grammar, lowest precedence first:
//
//	||  &&  == !=  < <= > >=  |  &  << >>  + -  * /  unary - !  ^

type Expr struct {
	Pos    lexer.Position
	Left   *AndExpr  `@@`
	Rights []*OrTail `@@*`
}

type OrTail struct {
	Op    string   `@"||"`
	Right *AndExpr `@@`
}

type AndExpr struct {
	Left   *EqualityExpr `@@`
	Rights []*AndTail    `@@*`
}

type AndTail struct {
	Op    string        `@"&&"`
	Right *EqualityExpr `@@`
}

type EqualityExpr struct {
	Left   *RelationalExpr `@@`
	Rights []*EqualityTail `@@*`
}

type EqualityTail struct {
	Op    string          `@("==" | "!=")`
	Right *RelationalExpr `@@`
}

type RelationalExpr struct {
	Left   *BitOrExpr        `@@`
	Rights []*RelationalTail `@@*`
}

type RelationalTail struct {
	Op    string     `@("<=" | ">=" | "<" | ">")`
	Right *BitOrExpr `@@`
}

type BitOrExpr struct {
	Left   *BitAndExpr  `@@`
	Rights []*BitOrTail `@@*`
}

type BitOrTail struct {
	Op    string      `@"|"`
	Right *BitAndExpr `@@`
}

type BitAndExpr struct {
	Left   *ShiftExpr    `@@`
	Rights []*BitAndTail `@@*`
}

type BitAndTail struct {
	Op    string     `@"&"`
	Right *ShiftExpr `@@`
}

type ShiftExpr struct {
	Left   *AdditiveExpr `@@`
	Rights []*ShiftTail  `@@*`
}

type ShiftTail struct {
	Op    string        `@("<<" | ">>")`
	Right *AdditiveExpr `@@`
}

type AdditiveExpr struct {
	Left   *MultiplicativeExpr `@@`
	Rights []*AdditiveTail     `@@*`
}

type AdditiveTail struct {
	Op    string              `@("+" | "-")`
	Right *MultiplicativeExpr `@@`
}

type MultiplicativeExpr struct {
	Left   *UnaryExpr            `@@`
	Rights []*MultiplicativeTail `@@*`
}

type MultiplicativeTail struct {
	Op    string     `@("*" | "/")`
	Right *UnaryExpr `@@`
}

type UnaryExpr struct {
	Pos     lexer.Position
	Op      *string    `( @("-" | "!")`
	Operand *UnaryExpr `  @@`
	Power   *PowerExpr `| @@ )`
}

type PowerExpr struct {
	Base     *Primary   `@@`
	Exponent *UnaryExpr `[ "^" @@ ]`
}

type Primary struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Call   *Call   `  @@`
	Number *string `| @Number`
	Ident  *string `| @Ident`
	Parens *Expr   `| "(" @@ ")"`
}

type Call struct {
	Pos  lexer.Position
	Name string  `@(Ident | "delay") "("`
	Args []*Expr `[ @@ { "," @@ } ] ")"`
}
