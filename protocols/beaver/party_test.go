package beaver

import (
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/bit"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/circuit"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/dealer"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/sample"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/share"
)

// setup returns initialized parties with inputs x and y, and exchanged input shares.
func setup(t *testing.T, x, y uint8, opts ...Option) (*Party, *Party) {
	t.Helper()
	a, err := NewA(opts...)
	require.NoError(t, err)
	b, err := NewB(opts...)
	require.NoError(t, err)

	d := dealer.New(nil)
	require.NoError(t, d.Deal(a.Circuit().NumAND()))
	triplesA, err := d.RandomnessForA()
	require.NoError(t, err)
	triplesB, err := d.RandomnessForB()
	require.NoError(t, err)

	require.NoError(t, a.Init(x, triplesA))
	require.NoError(t, b.Init(y, triplesB))

	sharesA, err := a.SendInputShare()
	require.NoError(t, err)
	sharesB, err := b.SendInputShare()
	require.NoError(t, err)
	require.NoError(t, b.ReceiveInputShare(sharesA))
	require.NoError(t, a.ReceiveInputShare(sharesB))
	return a, b
}

// execute plays every round and returns the messages sent by A and B.
func execute(t *testing.T, a, b *Party) (fromA, fromB []bit.Bit) {
	t.Helper()
	for i := 0; i < a.Rounds(); i++ {
		x, err := a.Send()
		require.NoError(t, err)
		require.NoError(t, b.Receive(x))
		y, err := b.Send()
		require.NoError(t, err)
		require.NoError(t, a.Receive(y))
		fromA = append(fromA, x)
		fromB = append(fromB, y)
	}
	return fromA, fromB
}

func evaluate(t *testing.T, x, y uint8, opts ...Option) bit.Bit {
	t.Helper()
	a, b := setup(t, x, y, opts...)
	execute(t, a, b)
	require.True(t, a.HasOutput())
	out, err := a.Output()
	require.NoError(t, err)
	return out
}

func TestSchedule(t *testing.T) {
	c := circuit.NoCommonBit()
	steps := newSchedule(c)
	require.Len(t, steps, 11)

	// rounds 1, 3, 5 open d for a, b and r; 7 and 9 for the final layer
	wantGates := []int{0, 0, 2, 2, 4, 4, 6, 6, 7, 7}
	for i, s := range steps[:10] {
		if i%2 == 0 {
			assert.Equal(t, openD, s.kind, "round %d", i+1)
		} else {
			assert.Equal(t, openE, s.kind, "round %d", i+1)
		}
		assert.Equal(t, wantGates[i], s.gate, "round %d", i+1)
		assert.Equal(t, i/2, s.triple, "round %d", i+1)
	}
	assert.Equal(t, reveal, steps[10].kind)
}

func TestSecureAND(t *testing.T) {
	and := &circuit.Circuit{
		Name:     "and",
		Inputs:   []string{"x"},
		NumWires: 3,
		Gates:    []circuit.Gate{{Op: circuit.AND, Input0: 0, Input1: 1, Output: 2}},
		Output:   2,
	}
	for x := uint8(0); x <= 1; x++ {
		for y := uint8(0); y <= 1; y++ {
			for i := 0; i < 20; i++ {
				out := evaluate(t, x, y, WithCircuit(and))
				require.Equal(t, bit.Bit(x&y), out, "%d AND %d", x, y)
			}
		}
	}
}

func TestNoCommonBit(t *testing.T) {
	c := circuit.NoCommonBit()
	for x := uint8(0); x < 8; x++ {
		for y := uint8(0); y < 8; y++ {
			want, err := c.Eval(uint64(x), uint64(y))
			require.NoError(t, err)
			assert.Equal(t, bit.FromBool(x&y == 0), want)
			assert.Equal(t, want, evaluate(t, x, y), "x=%d y=%d", x, y)
		}
	}
}

func TestExamples(t *testing.T) {
	tests := []struct {
		x, y uint8
		want bit.Bit
	}{
		{0, 0, bit.One},
		{7, 7, bit.Zero},
		{1, 1, bit.Zero},
		{4, 3, bit.One},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evaluate(t, tt.x, tt.y), "x=%d y=%d", tt.x, tt.y)
	}
}

func TestCompatibility(t *testing.T) {
	c := circuit.Compatibility()
	for x := uint8(0); x < 8; x++ {
		for y := uint8(0); y < 8; y++ {
			want, err := c.Eval(uint64(x), uint64(y))
			require.NoError(t, err)
			assert.Equal(t, bit.FromBool(y&^x == 0), want)
			assert.Equal(t, want, evaluate(t, x, y, WithCircuit(c)), "x=%d y=%d", x, y)
		}
	}
}

func TestDisclosure(t *testing.T) {
	t.Run("OutputToA", func(t *testing.T) {
		a, b := setup(t, 4, 3)
		fromA, _ := execute(t, a, b)
		assert.Equal(t, bit.Zero, fromA[len(fromA)-1])
		assert.True(t, a.HasOutput())
		assert.False(t, b.HasOutput())
		_, err := b.Output()
		assert.ErrorIs(t, err, ErrOutputNotReady)
	})

	t.Run("OutputToBoth", func(t *testing.T) {
		for x := uint8(0); x < 8; x++ {
			a, b := setup(t, x, 5, WithDisclosure(OutputToBoth))
			execute(t, a, b)
			require.True(t, a.HasOutput())
			require.True(t, b.HasOutput())
			outA, err := a.Output()
			require.NoError(t, err)
			outB, err := b.Output()
			require.NoError(t, err)
			assert.Equal(t, outA, outB)
			assert.Equal(t, bit.FromBool(x&5 == 0), outA)
		}
	})
}

func TestExhausted(t *testing.T) {
	a, b := setup(t, 0, 0)
	execute(t, a, b)
	out, err := a.Output()
	require.NoError(t, err)

	_, err = a.Send()
	assert.ErrorIs(t, err, ErrProtocolExhausted)
	assert.ErrorIs(t, a.Receive(bit.One), ErrProtocolExhausted)
	_, err = b.Send()
	assert.ErrorIs(t, err, ErrProtocolExhausted)
	assert.ErrorIs(t, b.Receive(bit.One), ErrProtocolExhausted)

	var roundErr *RoundError
	require.True(t, errors.As(b.Receive(bit.Zero), &roundErr))
	assert.Equal(t, 12, roundErr.Round)
	assert.Equal(t, RoleB, roundErr.Role)

	after, err := a.Output()
	require.NoError(t, err)
	assert.Equal(t, out, after)
	assert.Equal(t, 11, a.Round())
	assert.Equal(t, 11, b.Round())
}

func TestNotInitialized(t *testing.T) {
	a, err := NewA()
	require.NoError(t, err)

	_, err = a.Send()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, a.Receive(bit.Zero), ErrNotInitialized)
	_, err = a.SendInputShare()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, a.ReceiveInputShare(InputShares{0, 0, 0}), ErrNotInitialized)
	_, err = a.Output()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.False(t, a.HasOutput())
}

func TestOutOfOrder(t *testing.T) {
	a, b := setup(t, 1, 2)

	assert.ErrorIs(t, a.Receive(bit.Zero), ErrOutOfOrder)
	_, err := b.Send()
	assert.ErrorIs(t, err, ErrOutOfOrder)

	x, err := a.Send()
	require.NoError(t, err)
	_, err = a.Send()
	assert.ErrorIs(t, err, ErrOutOfOrder)

	require.NoError(t, b.Receive(x))
	assert.ErrorIs(t, b.Receive(x), ErrOutOfOrder)

	assert.ErrorIs(t, a.ReceiveInputShare(InputShares{0, 0, 0}), ErrOutOfOrder)

	_, err = a.Output()
	assert.ErrorIs(t, err, ErrOutputNotReady)
}

func TestSendBeforeExchange(t *testing.T) {
	a, err := NewA()
	require.NoError(t, err)
	d := dealer.New(nil)
	require.NoError(t, d.Init())
	triples, err := d.RandomnessForA()
	require.NoError(t, err)
	require.NoError(t, a.Init(3, triples))

	_, err = a.Send()
	assert.ErrorIs(t, err, ErrOutOfOrder)
}

func TestInit(t *testing.T) {
	d := dealer.New(nil)
	require.NoError(t, d.Init())
	triples, err := d.RandomnessForA()
	require.NoError(t, err)

	a, err := NewA()
	require.NoError(t, err)
	assert.ErrorIs(t, a.Init(8, triples), ErrInvalidInput)
	assert.ErrorIs(t, a.Init(1, triples[:4]), ErrInvalidTriples)

	bad := append([]share.Triple(nil), triples...)
	bad[2].W = 2
	assert.ErrorIs(t, a.Init(1, bad), ErrInvalidTriples)

	require.NoError(t, a.Init(7, triples))
	assert.ErrorIs(t, a.ReceiveInputShare(InputShares{0, 1}), ErrInvalidInput)
	assert.ErrorIs(t, a.ReceiveInputShare(InputShares{0, 1, 2}), ErrInvalidInput)

	a, _ = setup(t, 0, 0)
	assert.ErrorIs(t, a.Receive(bit.Bit(3)), ErrInvalidInput)
}

func TestInit_BrokenSource(t *testing.T) {
	d := dealer.New(nil)
	require.NoError(t, d.Init())
	triples, err := d.RandomnessForA()
	require.NoError(t, err)

	a, err := NewA(WithRandom(iotest.ErrReader(errors.New("no entropy"))))
	require.NoError(t, err)
	err = a.Init(5, triples)
	assert.ErrorIs(t, err, sample.ErrMaxIterations)
	assert.ErrorContains(t, err, "no entropy")
	_, err = a.SendInputShare()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestReinit(t *testing.T) {
	a, b := setup(t, 7, 7)
	execute(t, a, b)
	out, err := a.Output()
	require.NoError(t, err)
	require.Equal(t, bit.Zero, out)

	d := dealer.New(nil)
	require.NoError(t, d.Init())
	triplesA, err := d.RandomnessForA()
	require.NoError(t, err)
	triplesB, err := d.RandomnessForB()
	require.NoError(t, err)
	require.NoError(t, a.Init(0, triplesA))
	require.NoError(t, b.Init(0, triplesB))
	assert.False(t, a.HasOutput())
	assert.Equal(t, 0, a.Round())

	sharesA, err := a.SendInputShare()
	require.NoError(t, err)
	sharesB, err := b.SendInputShare()
	require.NoError(t, err)
	require.NoError(t, b.ReceiveInputShare(sharesA))
	require.NoError(t, a.ReceiveInputShare(sharesB))
	execute(t, a, b)
	out, err = a.Output()
	require.NoError(t, err)
	assert.Equal(t, bit.One, out)
}

func TestTripleReused(t *testing.T) {
	a, _ := setup(t, 5, 2)
	a.consumed[0] = true
	_, err := a.Send()
	assert.ErrorIs(t, err, ErrTripleReused)
}

func TestInputShares(t *testing.T) {
	a, b := setup(t, 6, 1)
	sharesA, err := a.SendInputShare()
	require.NoError(t, err)
	sharesB, err := b.SendInputShare()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		// our share of our own input, combined with what we handed out
		assert.Equal(t, bit.FromUint(6, 2-i), a.wires[a.circ.WireA(i)].Xor(sharesA[i]))
		assert.Equal(t, bit.FromUint(1, 2-i), b.wires[b.circ.WireB(i)].Xor(sharesB[i]))
	}
}

// The opened values d and e are masked by uniform triple components, so
// each of them is close to uniform whatever the inputs are.
func TestOpenedValuesUniform(t *testing.T) {
	const trials = 1000
	for _, in := range [][2]uint8{{0, 0}, {7, 7}} {
		ones := make([]int, 10)
		for i := 0; i < trials; i++ {
			a, b := setup(t, in[0], in[1])
			fromA, fromB := execute(t, a, b)
			for r := range ones {
				ones[r] += int(fromA[r].Xor(fromB[r]))
			}
		}
		for r, n := range ones {
			assert.InDelta(t, trials/2, n, trials/10, "inputs %v, round %d", in, r+1)
		}
	}
}

func TestDeterministicRandomness(t *testing.T) {
	run := func() []bit.Bit {
		a, err := NewA(WithRandom(sample.NewStream([]byte("a"))))
		require.NoError(t, err)
		b, err := NewB(WithRandom(sample.NewStream([]byte("b"))))
		require.NoError(t, err)
		d := dealer.New(sample.NewStream([]byte("dealer")))
		require.NoError(t, d.Init())
		triplesA, err := d.RandomnessForA()
		require.NoError(t, err)
		triplesB, err := d.RandomnessForB()
		require.NoError(t, err)
		require.NoError(t, a.Init(3, triplesA))
		require.NoError(t, b.Init(4, triplesB))
		sharesA, err := a.SendInputShare()
		require.NoError(t, err)
		sharesB, err := b.SendInputShare()
		require.NoError(t, err)
		require.NoError(t, b.ReceiveInputShare(sharesA))
		require.NoError(t, a.ReceiveInputShare(sharesB))
		fromA, fromB := execute(t, a, b)
		return append(fromA, fromB...)
	}
	assert.Equal(t, run(), run())
}

func TestNew(t *testing.T) {
	_, err := New(Role(2))
	assert.Error(t, err)
	_, err = NewA(WithDisclosure(Disclosure(7)))
	assert.Error(t, err)
	_, err = NewA(WithCircuit(nil))
	assert.Error(t, err)
	_, err = NewA(WithCircuit(&circuit.Circuit{Name: "empty"}))
	assert.Error(t, err)

	a, err := NewA(WithRandom(nil))
	require.NoError(t, err)
	assert.Equal(t, RoleA, a.Role())
	assert.Equal(t, OutputToA, a.Disclosure())
	assert.Equal(t, 11, a.Rounds())
}
