package circuit

// NoCommonBit returns the 5-gate circuit
//
//	AND(NAND(a₁,a₂), NAND(b₁,b₂), NAND(r₁,r₂))
//
// over the inputs (a, b, r), packed as bit2, bit1, bit0. The output is 1
// unless both parties have some bit position set.
//
// Each NAND is an AND followed by an INV, and the INV is a flip of party
// A's share. The triples are consumed in gate order: a, b, r, z₁∧z₂ and
// finally (z₁∧z₂)∧z₃.
func NoCommonBit() *Circuit {
	return &Circuit{
		Name:     "no-common-bit",
		Inputs:   []string{"a", "b", "r"},
		NumWires: 14,
		Gates: []Gate{
			{Op: AND, Input0: 0, Input1: 3, Output: 6},
			{Op: INV, Input0: 6, Output: 7},
			{Op: AND, Input0: 1, Input1: 4, Output: 8},
			{Op: INV, Input0: 8, Output: 9},
			{Op: AND, Input0: 2, Input1: 5, Output: 10},
			{Op: INV, Input0: 10, Output: 11},
			{Op: AND, Input0: 7, Input1: 9, Output: 12},
			{Op: AND, Input0: 12, Input1: 11, Output: 13},
		},
		Output: 13,
	}
}

// Compatibility returns the blood type compatibility circuit
//
//	AND(¬(¬a₁∧a₂), ¬(¬b₁∧b₂), ¬(¬r₁∧r₂))
//
// where party A is the recipient and party B the donor, with antigens a, b
// and rhesus r. The donor is compatible if it carries no antigen the
// recipient lacks. Party A negates its own input shares before the first
// layer, so the circuit costs the same 5 AND gates as NoCommonBit.
func Compatibility() *Circuit {
	return &Circuit{
		Name:     "blood-compatibility",
		Inputs:   []string{"a", "b", "r"},
		NumWires: 17,
		Gates: []Gate{
			{Op: INV, Input0: 0, Output: 6},
			{Op: INV, Input0: 1, Output: 7},
			{Op: INV, Input0: 2, Output: 8},
			{Op: AND, Input0: 6, Input1: 3, Output: 9},
			{Op: INV, Input0: 9, Output: 10},
			{Op: AND, Input0: 7, Input1: 4, Output: 11},
			{Op: INV, Input0: 11, Output: 12},
			{Op: AND, Input0: 8, Input1: 5, Output: 13},
			{Op: INV, Input0: 13, Output: 14},
			{Op: AND, Input0: 10, Input1: 12, Output: 15},
			{Op: AND, Input0: 15, Input1: 14, Output: 16},
		},
		Output: 16,
	}
}
