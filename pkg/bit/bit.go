// Package bit implements single bits as elements of GF(2).
package bit

import (
	"errors"
	"fmt"
	"io"
)

var ErrInvalid = errors.New("bit: invalid value")

// Bit is an element of GF(2). Only the values Zero and One are valid.
//
// Addition in GF(2) is XOR, multiplication is AND.
type Bit uint8

const (
	Zero Bit = 0
	One  Bit = 1
)

// FromBool returns One if b is true, Zero otherwise.
func FromBool(b bool) Bit {
	if b {
		return One
	}
	return Zero
}

// FromUint returns bit i of x.
func FromUint(x uint64, i int) Bit {
	return Bit((x >> uint(i)) & 1)
}

// Xor returns a ⊕ b.
func (a Bit) Xor(b Bit) Bit { return (a ^ b) & 1 }

// And returns a ∧ b.
func (a Bit) And(b Bit) Bit { return (a & b) & 1 }

// Not returns ¬a, which is a ⊕ 1.
func (a Bit) Not() Bit { return a.Xor(One) }

// Bool returns true if a is One.
func (a Bit) Bool() bool { return a&1 == 1 }

// Valid returns true if a is either Zero or One.
func (a Bit) Valid() bool { return a <= One }

// Validate returns an error if a is not a valid bit.
func (a Bit) Validate() error {
	if !a.Valid() {
		return fmt.Errorf("%w %d", ErrInvalid, uint8(a))
	}
	return nil
}

// String implements fmt.Stringer.
func (a Bit) String() string {
	if a.Bool() {
		return "1"
	}
	return "0"
}

// WriteTo implements io.WriterTo, writing a single byte.
func (a Bit) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte{byte(a & 1)})
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (Bit) Domain() string { return "Bit" }
