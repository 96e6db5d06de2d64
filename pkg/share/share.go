// Package share implements two-party XOR secret sharing of single bits.
package share

import (
	"io"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/bit"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/sample"
)

// Pair holds both shares of a secret bit: A for party A, B for party B.
//
// The shared value is A ⊕ B. Nothing checks it after construction, so
// flipping one share flips the value. This is how a NOT gate is evaluated
// without communication.
type Pair struct {
	A, B bit.Bit
}

// New splits x into a Pair with a uniformly random A share.
func New(rand io.Reader, x bit.Bit) (Pair, error) {
	a, err := sample.Bit(rand)
	if err != nil {
		return Pair{}, err
	}
	return Pair{A: a, B: x.Xor(a)}, nil
}

// Value reconstructs the shared bit.
func (p Pair) Value() bit.Bit {
	return p.A.Xor(p.B)
}

// Get returns the share held by party A if a is true, and by B otherwise.
func (p Pair) Get(a bool) bit.Bit {
	if a {
		return p.A
	}
	return p.B
}

// Set stores s as party A's share if a is true, and as B's otherwise.
func (p *Pair) Set(a bool, s bit.Bit) {
	if a {
		p.A = s
	} else {
		p.B = s
	}
}
