package beaver

import (
	"fmt"
	"io"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/circuit"
)

// Disclosure selects which parties learn the output.
type Disclosure uint8

const (
	// OutputToA reveals the output to A only. In the last round A sends a
	// fixed zero and B answers with its output share.
	OutputToA Disclosure = iota
	// OutputToBoth makes A send its output share in the last round, so that
	// B reconstructs the output as well.
	OutputToBoth
)

func (d Disclosure) String() string {
	switch d {
	case OutputToA:
		return "output-to-a"
	case OutputToBoth:
		return "output-to-both"
	default:
		return fmt.Sprintf("{Disclosure %d}", uint8(d))
	}
}

// WriteTo implements io.WriterTo.
func (d Disclosure) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte{byte(d)})
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (Disclosure) Domain() string { return "Disclosure" }

// Option configures a Party.
type Option func(*Party)

// WithCircuit makes the party evaluate c instead of circuit.NoCommonBit.
// Both parties must use the same circuit.
func WithCircuit(c *circuit.Circuit) Option {
	return func(p *Party) {
		p.circ = c
	}
}

// WithDisclosure sets the output disclosure. Both parties must agree on it.
func WithDisclosure(d Disclosure) Option {
	return func(p *Party) {
		p.disclosure = d
	}
}

// WithRandom sets the source used to split the party's input bits.
// It defaults to crypto/rand.
func WithRandom(rand io.Reader) Option {
	return func(p *Party) {
		p.rand = rand
	}
}
