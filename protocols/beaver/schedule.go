package beaver

import "github.com/DrAguNovlIng/cryptocomp3/pkg/circuit"

type stepKind uint8

const (
	// openD exchanges the shares of d = x ⊕ u.
	openD stepKind = iota
	// openE exchanges the shares of e = y ⊕ v. The receiver completes the gate.
	openE
	// reveal exchanges the output shares.
	reveal
)

func (k stepKind) String() string {
	switch k {
	case openD:
		return "open-d"
	case openE:
		return "open-e"
	default:
		return "reveal"
	}
}

// step is what one round of the schedule does.
type step struct {
	kind stepKind
	// gate is the index of the AND gate in the circuit.
	gate int
	// triple is the index of the triple consumed by gate.
	triple int
}

// newSchedule returns the rounds needed to evaluate c: two per AND gate, in
// gate order, and a final one for the output.
func newSchedule(c *circuit.Circuit) []step {
	steps := make([]step, 0, 2*c.NumAND()+1)
	var k int
	for i, g := range c.Gates {
		if g.Op != circuit.AND {
			continue
		}
		steps = append(steps,
			step{kind: openD, gate: i, triple: k},
			step{kind: openE, gate: i, triple: k},
		)
		k++
	}
	return append(steps, step{kind: reveal})
}
