// Package circuit describes Boolean circuits over the inputs of two parties.
//
// A circuit is an ordered gate list. XOR and INV gates are linear and are
// evaluated locally on XOR shares, while every AND gate consumes one Beaver
// triple and two rounds of communication.
package circuit

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/bit"
)

// Operation specifies gate function.
type Operation byte

// Gate functions.
const (
	XOR Operation = iota
	AND
	INV
)

func (op Operation) String() string {
	switch op {
	case XOR:
		return "XOR"
	case AND:
		return "AND"
	case INV:
		return "INV"
	default:
		return fmt.Sprintf("{Operation %d}", op)
	}
}

// Wire identifies a circuit wire.
type Wire uint32

// Gate specifies a boolean gate. Input1 is ignored for INV gates.
type Gate struct {
	Op     Operation
	Input0 Wire
	Input1 Wire
	Output Wire
}

func (g Gate) String() string {
	if g.Op == INV {
		return fmt.Sprintf("%v %v %v", g.Op, g.Input0, g.Output)
	}
	return fmt.Sprintf("%v %v %v %v", g.Op, g.Input0, g.Input1, g.Output)
}

// Circuit is a two-party Boolean circuit with a single output bit.
//
// Both parties contribute len(Inputs) bits. Party A's input at position i
// is wire i, party B's is wire len(Inputs)+i. Position 0 is the most
// significant bit of the packed input.
type Circuit struct {
	Name     string
	Inputs   []string
	NumWires int
	Gates    []Gate
	Output   Wire
}

// InputWidth returns the number of input bits of each party.
func (c *Circuit) InputWidth() int {
	return len(c.Inputs)
}

// WireA returns the wire carrying party A's input at position i.
func (c *Circuit) WireA(i int) Wire {
	return Wire(i)
}

// WireB returns the wire carrying party B's input at position i.
func (c *Circuit) WireB(i int) Wire {
	return Wire(len(c.Inputs) + i)
}

// InputBit returns the bit at position i of the packed input x.
func (c *Circuit) InputBit(x uint64, i int) bit.Bit {
	return bit.FromUint(x, len(c.Inputs)-1-i)
}

// MaxInput returns the largest packed input a party may provide.
func (c *Circuit) MaxInput() uint64 {
	return 1<<uint(len(c.Inputs)) - 1
}

// NumAND returns the number of AND gates, which is the number of
// Beaver triples an evaluation consumes.
func (c *Circuit) NumAND() int {
	var n int
	for _, g := range c.Gates {
		if g.Op == AND {
			n++
		}
	}
	return n
}

// Validate checks that the gates are topologically ordered, that every
// wire is assigned exactly once and that the output wire is assigned.
func (c *Circuit) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("circuit: no inputs")
	}
	if len(c.Inputs) > 63 {
		return fmt.Errorf("circuit: %d input bits exceed 63", len(c.Inputs))
	}
	numInputs := 2 * len(c.Inputs)
	if c.NumWires < numInputs {
		return fmt.Errorf("circuit: %d wires for %d inputs", c.NumWires, numInputs)
	}
	assigned := make([]bool, c.NumWires)
	for i := 0; i < numInputs; i++ {
		assigned[i] = true
	}
	check := func(idx int, w Wire) error {
		if int(w) >= c.NumWires {
			return fmt.Errorf("circuit: gate %d: wire %d out of range", idx, w)
		}
		if !assigned[w] {
			return fmt.Errorf("circuit: gate %d: wire %d used before assignment", idx, w)
		}
		return nil
	}
	for idx, g := range c.Gates {
		switch g.Op {
		case XOR, AND:
			if err := check(idx, g.Input1); err != nil {
				return err
			}
			fallthrough
		case INV:
			if err := check(idx, g.Input0); err != nil {
				return err
			}
		default:
			return fmt.Errorf("circuit: gate %d: unsupported operation %v", idx, g.Op)
		}
		if int(g.Output) >= c.NumWires {
			return fmt.Errorf("circuit: gate %d: wire %d out of range", idx, g.Output)
		}
		if assigned[g.Output] {
			return fmt.Errorf("circuit: gate %d: wire %d assigned twice", idx, g.Output)
		}
		assigned[g.Output] = true
	}
	if int(c.Output) >= c.NumWires || !assigned[c.Output] {
		return fmt.Errorf("circuit: output wire %d is not assigned", c.Output)
	}
	return nil
}

// Eval evaluates the circuit in the clear on the packed inputs x and y.
// It is the reference the secure evaluation is checked against.
func (c *Circuit) Eval(x, y uint64) (bit.Bit, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if x > c.MaxInput() || y > c.MaxInput() {
		return 0, fmt.Errorf("circuit: input out of range [0...%d]", c.MaxInput())
	}
	wires := make([]bit.Bit, c.NumWires)
	for i := range c.Inputs {
		wires[c.WireA(i)] = c.InputBit(x, i)
		wires[c.WireB(i)] = c.InputBit(y, i)
	}
	for _, g := range c.Gates {
		switch g.Op {
		case XOR:
			wires[g.Output] = wires[g.Input0].Xor(wires[g.Input1])
		case AND:
			wires[g.Output] = wires[g.Input0].And(wires[g.Input1])
		case INV:
			wires[g.Output] = wires[g.Input0].Not()
		}
	}
	return wires[c.Output], nil
}

func (c *Circuit) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: inputs=%v wires=%d ands=%d output=%d\n",
		c.Name, c.Inputs, c.NumWires, c.NumAND(), c.Output)
	for _, g := range c.Gates {
		sb.WriteString(g.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo implements io.WriterTo, writing the textual gate list. Two parties
// hashing the same circuit get the same session identifier.
func (c *Circuit) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.String())
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (*Circuit) Domain() string { return "Circuit" }
