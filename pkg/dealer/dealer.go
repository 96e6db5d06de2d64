// Package dealer implements the trusted dealer of the preprocessing model.
//
// The dealer samples Beaver triples, splits them into XOR shares and hands
// one half to each party before the online phase. It is not consulted
// again afterwards.
package dealer

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/bit"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/sample"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/share"
)

// DefaultTriples is the number of triples Init deals, one per AND gate of
// circuit.NoCommonBit.
const DefaultTriples = 5

var ErrNotInitialized = errors.New("dealer: randomness requested before Init")

// Dealer holds the two halves of the dealt triples.
type Dealer struct {
	rand io.Reader
	forA []share.Triple
	forB []share.Triple
}

// New returns a Dealer drawing from source. A nil source means crypto/rand.
func New(source io.Reader) *Dealer {
	if source == nil {
		source = rand.Reader
	}
	return &Dealer{rand: source}
}

// Init deals DefaultTriples triples.
func (d *Dealer) Init() error {
	return d.Deal(DefaultTriples)
}

// Deal samples n independent triples (u, v, w = u ∧ v) and splits every
// component with its own random share. Previous triples are discarded.
func (d *Dealer) Deal(n int) error {
	if n <= 0 {
		return fmt.Errorf("dealer: cannot deal %d triples", n)
	}
	forA := make([]share.Triple, n)
	forB := make([]share.Triple, n)
	for i := 0; i < n; i++ {
		uv, err := sample.Bits(d.rand, 2)
		if err != nil {
			return fmt.Errorf("dealer: triple %d: %w", i, err)
		}
		u, v := uv[0], uv[1]

		var shared [3]share.Pair
		for j, x := range []bit.Bit{u, v, u.And(v)} {
			if shared[j], err = share.New(d.rand, x); err != nil {
				return fmt.Errorf("dealer: triple %d: %w", i, err)
			}
		}
		forA[i] = share.Triple{U: shared[0].A, V: shared[1].A, W: shared[2].A}
		forB[i] = share.Triple{U: shared[0].B, V: shared[1].B, W: shared[2].B}
	}
	d.forA, d.forB = forA, forB
	return nil
}

// RandomnessForA returns a copy of party A's halves.
func (d *Dealer) RandomnessForA() ([]share.Triple, error) {
	if d.forA == nil {
		return nil, ErrNotInitialized
	}
	return append([]share.Triple(nil), d.forA...), nil
}

// RandomnessForB returns a copy of party B's halves.
func (d *Dealer) RandomnessForB() ([]share.Triple, error) {
	if d.forB == nil {
		return nil, ErrNotInitialized
	}
	return append([]share.Triple(nil), d.forB...), nil
}
