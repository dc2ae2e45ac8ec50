package passes

import (
	"math"

	"crnc/internal/ir"
	"crnc/internal/kinetic"
)

const ConstantFoldingID = "kinetic-law-constant-folding"

// ConstantFolding evaluates constant subexpressions and replaces them with literals.
type ConstantFolding struct{}

func (cf *ConstantFolding) ID() string {
	return ConstantFoldingID
}

func (cf *ConstantFolding) Description() string {
	return "Evaluates constant subexpressions of every law and replaces them with literals"
}

func (cf *ConstantFolding) Apply(net *ir.Network) error {
	for _, site := range net.LawSites() {
		folded := Fold(*site.Law)
		if !kinetic.StructurallyEqual(folded, *site.Law) {
			log.Debugf("%s: %s -> %s", ConstantFoldingID, site, kinetic.ToCanonicalString(folded))
			site.Set(folded)
			net.MarkChanged()
		}
	}
	return nil
}

// Fold returns law with every all-literal subtree evaluated. Subtrees
// whose evaluation fails, or yields a non-finite value, are kept.
func Fold(law kinetic.Law) kinetic.Law {
	return kinetic.Transform(law, foldNode)
}

func foldNode(n kinetic.Law) kinetic.Law {
	children := kinetic.Children(n)
	if len(children) == 0 {
		return n
	}
	allInts := true
	for _, c := range children {
		if !kinetic.IsConstant(c) {
			return n
		}
		if _, ok := c.(*kinetic.IntLiteral); !ok {
			allInts = false
		}
	}

	v, err := kinetic.Evaluate(n, nil, nil, 0)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return n
	}
	if allInts && preservesIntegers(n) && v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return kinetic.NewInt(int64(v))
	}
	return kinetic.NewReal(v)
}

// preservesIntegers reports whether n maps integer operands to an integer.
func preservesIntegers(n kinetic.Law) bool {
	var op kinetic.Op
	switch n := n.(type) {
	case *kinetic.UnaryOp:
		op = n.Op
	case *kinetic.BinaryOp:
		op = n.Op
	default:
		return false
	}
	if op.IsComparison() {
		return true
	}
	switch op {
	case kinetic.OpPlus, kinetic.OpMinus, kinetic.OpTimes, kinetic.OpNeg,
		kinetic.OpAbs, kinetic.OpCeil, kinetic.OpFloor, kinetic.OpFactorial,
		kinetic.OpBitAnd, kinetic.OpBitOr, kinetic.OpShiftLeft, kinetic.OpShiftRight:
		return true
	}
	return false
}
