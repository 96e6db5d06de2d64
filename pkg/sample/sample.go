// Package sample draws uniform randomness for shares and triples.
package sample

import (
	"fmt"
	"io"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/bit"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func readBits(rand io.Reader, buf []byte) error {
	var err error
	for i := 0; i < maxIterations; i++ {
		if _, err = io.ReadFull(rand, buf); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrMaxIterations, err)
}

// Bit samples a uniform element of GF(2).
func Bit(rand io.Reader) (bit.Bit, error) {
	var buf [1]byte
	if err := readBits(rand, buf[:]); err != nil {
		return 0, err
	}
	return bit.Bit(buf[0] & 1), nil
}

// Bits samples n independent uniform bits.
func Bits(rand io.Reader, n int) ([]bit.Bit, error) {
	buf := make([]byte, n)
	if err := readBits(rand, buf); err != nil {
		return nil, err
	}
	bits := make([]bit.Bit, n)
	for i, b := range buf {
		bits[i] = bit.Bit(b & 1)
	}
	return bits, nil
}
