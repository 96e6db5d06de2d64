package circuit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/bit"
)

func noCommonBit(x, y uint64) bit.Bit {
	return bit.FromBool(x&y == 0)
}

func compatible(recipient, donor uint64) bit.Bit {
	return bit.FromBool(donor&^recipient == 0)
}

func TestNoCommonBit(t *testing.T) {
	c := NoCommonBit()
	require.NoError(t, c.Validate())
	assert.Equal(t, 5, c.NumAND())
	assert.Equal(t, 3, c.InputWidth())

	for x := uint64(0); x <= c.MaxInput(); x++ {
		for y := uint64(0); y <= c.MaxInput(); y++ {
			out, err := c.Eval(x, y)
			require.NoError(t, err)
			assert.Equal(t, noCommonBit(x, y), out, "x=%03b y=%03b", x, y)
		}
	}
}

func TestNoCommonBit_Examples(t *testing.T) {
	c := NoCommonBit()
	tests := []struct {
		x, y uint64
		want bit.Bit
	}{
		{0, 0, bit.One},
		{7, 7, bit.Zero},
		{1, 1, bit.Zero},
		{4, 3, bit.One},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%d", tt.x, tt.y), func(t *testing.T) {
			out, err := c.Eval(tt.x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCompatibility(t *testing.T) {
	c := Compatibility()
	require.NoError(t, c.Validate())
	assert.Equal(t, 5, c.NumAND())
	for x := uint64(0); x <= c.MaxInput(); x++ {
		for y := uint64(0); y <= c.MaxInput(); y++ {
			out, err := c.Eval(x, y)
			require.NoError(t, err)
			assert.Equal(t, compatible(x, y), out, "x=%03b y=%03b", x, y)
		}
	}
}

func TestInputBit(t *testing.T) {
	c := NoCommonBit()
	// a is bit2, b is bit1, r is bit0
	assert.Equal(t, bit.One, c.InputBit(4, 0))
	assert.Equal(t, bit.One, c.InputBit(2, 1))
	assert.Equal(t, bit.One, c.InputBit(1, 2))
	assert.Equal(t, bit.Zero, c.InputBit(1, 0))
	assert.Equal(t, Wire(0), c.WireA(0))
	assert.Equal(t, Wire(5), c.WireB(2))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		c    Circuit
	}{
		{"no inputs", Circuit{NumWires: 1}},
		{"too few wires", Circuit{Inputs: []string{"x"}, NumWires: 1}},
		{"use before assign", Circuit{
			Inputs: []string{"x"}, NumWires: 4,
			Gates:  []Gate{{Op: AND, Input0: 0, Input1: 3, Output: 2}},
			Output: 2,
		}},
		{"assigned twice", Circuit{
			Inputs: []string{"x"}, NumWires: 3,
			Gates: []Gate{
				{Op: AND, Input0: 0, Input1: 1, Output: 2},
				{Op: INV, Input0: 0, Output: 2},
			},
			Output: 2,
		}},
		{"unassigned output", Circuit{Inputs: []string{"x"}, NumWires: 3, Output: 2}},
		{"bad operation", Circuit{
			Inputs: []string{"x"}, NumWires: 3,
			Gates:  []Gate{{Op: Operation(9), Input0: 0, Input1: 1, Output: 2}},
			Output: 2,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.c.Validate())
		})
	}
}

func TestEval_InputRange(t *testing.T) {
	_, err := NoCommonBit().Eval(8, 0)
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	s := NoCommonBit().String()
	assert.Contains(t, s, "AND 0 3 6")
	assert.Contains(t, s, "INV 6 7")
}
