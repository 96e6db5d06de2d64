package share

import (
	"fmt"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/bit"
)

// Triple is one party's half of a Beaver triple.
//
// Combined with the other party's half it satisfies
// (U₁ ⊕ U₂) ∧ (V₁ ⊕ V₂) = W₁ ⊕ W₂.
type Triple struct {
	U, V, W bit.Bit
}

// Validate checks that all three components are bits.
func (t Triple) Validate() error {
	for _, b := range []bit.Bit{t.U, t.V, t.W} {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("triple: %w", err)
		}
	}
	return nil
}

// Combine reconstructs the plaintext u, v, w from both halves.
func Combine(a, b Triple) (u, v, w bit.Bit) {
	return a.U.Xor(b.U), a.V.Xor(b.V), a.W.Xor(b.W)
}

// Correct returns true if the two halves form a valid Beaver triple.
func Correct(a, b Triple) bool {
	u, v, w := Combine(a, b)
	return u.And(v) == w
}
