package beaver

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/bit"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/circuit"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/share"
)

// Role selects the side of the protocol a Party plays.
type Role uint8

const (
	// RoleA speaks first in every round and learns the output.
	RoleA Role = iota
	// RoleB answers in every round.
	RoleB
)

func (r Role) String() string {
	switch r {
	case RoleA:
		return "A"
	case RoleB:
		return "B"
	default:
		return fmt.Sprintf("{Role %d}", uint8(r))
	}
}

// InputShares are the shares of a party's input bits that its counterpart
// holds, ordered by circuit input position. For the built-in circuits the
// order is (a, b, r).
type InputShares []bit.Bit

// Party evaluates a circuit on XOR shared wires together with one
// counterpart.
//
// After Init and the exchange of input shares, the two parties call Send and
// Receive in lock step: A sends, B receives, B sends, A receives, once per
// round. A counts a round when it sends, and attributes the following
// Receive to the same round. B attributes a Receive to the next round, and
// counts it when it sends its answer.
//
// A Party is not safe for concurrent use. After an error it must be
// initialized again.
type Party struct {
	role       Role
	circ       *circuit.Circuit
	disclosure Disclosure
	rand       io.Reader
	schedule   []step

	initialized bool
	exchanged   bool
	// inputs are the sharings of our own input bits.
	inputs []share.Pair
	// wires holds our share of every wire assigned so far.
	wires []bit.Bit
	// next is the index of the first gate not yet evaluated.
	next int

	triples  []share.Triple
	consumed []bool
	// masked is the triple whose d and e shares are in use, or -1.
	masked int
	d, e   share.Pair

	round int
	// pending is set on A between Send and Receive, and on B between
	// Receive and Send.
	pending bool

	output    share.Pair
	hasOutput bool
}

// New returns a party playing role. Without options it evaluates
// circuit.NoCommonBit and reveals the output to A.
func New(role Role, opts ...Option) (*Party, error) {
	p := &Party{
		role:       role,
		circ:       circuit.NoCommonBit(),
		disclosure: OutputToA,
		rand:       rand.Reader,
		masked:     -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if role != RoleA && role != RoleB {
		return nil, fmt.Errorf("beaver: unknown role %v", role)
	}
	if p.disclosure != OutputToA && p.disclosure != OutputToBoth {
		return nil, fmt.Errorf("beaver: unknown disclosure %v", p.disclosure)
	}
	if p.circ == nil {
		return nil, fmt.Errorf("beaver: nil circuit")
	}
	if err := p.circ.Validate(); err != nil {
		return nil, fmt.Errorf("beaver: %w", err)
	}
	if p.circ.InputWidth() > 8 {
		return nil, fmt.Errorf("beaver: circuit %s takes %d input bits, at most 8 are supported",
			p.circ.Name, p.circ.InputWidth())
	}
	if p.rand == nil {
		p.rand = rand.Reader
	}
	p.schedule = newSchedule(p.circ)
	return p, nil
}

// NewA returns party A.
func NewA(opts ...Option) (*Party, error) { return New(RoleA, opts...) }

// NewB returns party B.
func NewB(opts ...Option) (*Party, error) { return New(RoleB, opts...) }

// Role returns the side played by p.
func (p *Party) Role() Role { return p.role }

// Circuit returns the circuit evaluated by p.
func (p *Party) Circuit() *circuit.Circuit { return p.circ }

// Disclosure returns the output disclosure of p.
func (p *Party) Disclosure() Disclosure { return p.disclosure }

// Rounds returns the number of Send/Receive exchanges of a full evaluation.
func (p *Party) Rounds() int { return len(p.schedule) }

// Round returns the number of rounds p has counted so far.
func (p *Party) Round() int { return p.round }

func (p *Party) isA() bool { return p.role == RoleA }

func (p *Party) ownWire(i int) circuit.Wire {
	if p.isA() {
		return p.circ.WireA(i)
	}
	return p.circ.WireB(i)
}

func (p *Party) otherWire(i int) circuit.Wire {
	if p.isA() {
		return p.circ.WireB(i)
	}
	return p.circ.WireA(i)
}

// Init splits the packed input and stores our half of the triples, one per
// AND gate in gate order. Any previous evaluation is discarded.
func (p *Party) Init(input uint8, triples []share.Triple) error {
	if uint64(input) > p.circ.MaxInput() {
		return fmt.Errorf("%w: %d exceeds %d", ErrInvalidInput, input, p.circ.MaxInput())
	}
	if len(triples) != p.circ.NumAND() {
		return fmt.Errorf("%w: got %d, circuit %s needs %d",
			ErrInvalidTriples, len(triples), p.circ.Name, p.circ.NumAND())
	}
	for i, t := range triples {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: triple %d: %v", ErrInvalidTriples, i, err)
		}
	}

	inputs := make([]share.Pair, p.circ.InputWidth())
	for i := range inputs {
		var err error
		if inputs[i], err = share.New(p.rand, p.circ.InputBit(uint64(input), i)); err != nil {
			p.initialized = false
			return fmt.Errorf("beaver: input bit %d: %w", i, err)
		}
	}
	p.inputs = inputs
	p.wires = make([]bit.Bit, p.circ.NumWires)
	for i, in := range p.inputs {
		p.wires[p.ownWire(i)] = in.Get(p.isA())
	}
	p.triples = append([]share.Triple(nil), triples...)
	p.consumed = make([]bool, len(triples))
	p.masked = -1
	p.d, p.e = share.Pair{}, share.Pair{}
	p.next = 0
	p.round = 0
	p.pending = false
	p.output = share.Pair{}
	p.hasOutput = false
	p.exchanged = false
	p.initialized = true
	return nil
}

// SendInputShare returns the shares of our input bits that the counterpart
// holds: the B shares if p is A, and the A shares if p is B.
func (p *Party) SendInputShare() (InputShares, error) {
	if !p.initialized {
		return nil, ErrNotInitialized
	}
	shares := make(InputShares, len(p.inputs))
	for i, in := range p.inputs {
		shares[i] = in.Get(!p.isA())
	}
	return shares, nil
}

// ReceiveInputShare stores our shares of the counterpart's input bits.
// It must be called once, before the first round.
func (p *Party) ReceiveInputShare(shares InputShares) error {
	if !p.initialized {
		return ErrNotInitialized
	}
	if p.exchanged {
		return fmt.Errorf("%w: input shares already received", ErrOutOfOrder)
	}
	if len(shares) != p.circ.InputWidth() {
		return fmt.Errorf("%w: got %d input shares, want %d", ErrInvalidInput, len(shares), p.circ.InputWidth())
	}
	for _, s := range shares {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	for i, s := range shares {
		p.wires[p.otherWire(i)] = s
	}
	p.exchanged = true
	p.evalLocal()
	return nil
}

func (p *Party) ready() error {
	if !p.initialized {
		return ErrNotInitialized
	}
	if !p.exchanged {
		return fmt.Errorf("%w: input shares not exchanged", ErrOutOfOrder)
	}
	return nil
}

func (p *Party) fail(round int, err error) error {
	return &RoundError{Round: round, Role: p.role, Err: err}
}

// Send returns our message for the current round.
func (p *Party) Send() (bit.Bit, error) {
	if err := p.ready(); err != nil {
		return 0, p.fail(p.round+1, err)
	}
	if p.isA() {
		if p.pending {
			return 0, p.fail(p.round, fmt.Errorf("%w: waiting for B", ErrOutOfOrder))
		}
		if p.round >= len(p.schedule) {
			return 0, p.fail(p.round+1, ErrProtocolExhausted)
		}
	} else {
		if p.round >= len(p.schedule) {
			return 0, p.fail(p.round+1, ErrProtocolExhausted)
		}
		if !p.pending {
			return 0, p.fail(p.round+1, fmt.Errorf("%w: waiting for A", ErrOutOfOrder))
		}
	}

	p.round++
	b, err := p.outgoing(p.schedule[p.round-1])
	if err != nil {
		return 0, p.fail(p.round, err)
	}
	p.pending = p.isA()
	return b, nil
}

// Receive processes the counterpart's message for the current round.
func (p *Party) Receive(b bit.Bit) error {
	if err := p.ready(); err != nil {
		return p.fail(p.round+1, err)
	}
	if err := b.Validate(); err != nil {
		return p.fail(p.round+1, fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	var (
		s step
		n = p.round
	)
	if p.isA() {
		if !p.pending {
			if p.round >= len(p.schedule) {
				return p.fail(p.round+1, ErrProtocolExhausted)
			}
			return p.fail(p.round+1, fmt.Errorf("%w: A must send first", ErrOutOfOrder))
		}
		s = p.schedule[p.round-1]
	} else {
		if p.round >= len(p.schedule) {
			return p.fail(p.round+1, ErrProtocolExhausted)
		}
		if p.pending {
			return p.fail(p.round+1, fmt.Errorf("%w: waiting for Send", ErrOutOfOrder))
		}
		s = p.schedule[p.round]
		n++
	}

	if err := p.incoming(s, b); err != nil {
		return p.fail(n, err)
	}
	p.pending = !p.isA()
	return nil
}

// HasOutput returns true once the output can be reconstructed.
func (p *Party) HasOutput() bool { return p.hasOutput }

// Output returns the output of the circuit.
func (p *Party) Output() (bit.Bit, error) {
	if !p.initialized {
		return 0, ErrNotInitialized
	}
	if !p.hasOutput {
		return 0, ErrOutputNotReady
	}
	return p.output.Value(), nil
}

func (p *Party) outgoing(s step) (bit.Bit, error) {
	switch s.kind {
	case openD:
		if err := p.mask(s); err != nil {
			return 0, err
		}
		return p.d.Get(p.isA()), nil
	case openE:
		if err := p.mask(s); err != nil {
			return 0, err
		}
		return p.e.Get(p.isA()), nil
	default:
		if p.isA() && p.disclosure == OutputToA {
			return bit.Zero, nil
		}
		return p.wires[p.circ.Output], nil
	}
}

func (p *Party) incoming(s step, b bit.Bit) error {
	switch s.kind {
	case openD:
		if err := p.mask(s); err != nil {
			return err
		}
		p.d.Set(!p.isA(), b)
	case openE:
		if err := p.mask(s); err != nil {
			return err
		}
		p.e.Set(!p.isA(), b)
		return p.multiply(s)
	default:
		if p.isA() || p.disclosure == OutputToBoth {
			p.output.Set(p.isA(), p.wires[p.circ.Output])
			p.output.Set(!p.isA(), b)
			p.hasOutput = true
		}
	}
	return nil
}

// mask sets our shares of d = x ⊕ u and e = y ⊕ v for the AND gate of s.
func (p *Party) mask(s step) error {
	if p.masked == s.triple {
		return nil
	}
	if p.consumed[s.triple] {
		return ErrTripleReused
	}
	if p.next != s.gate {
		return fmt.Errorf("beaver: gate %d reached before gate %d", s.gate, p.next)
	}
	g := p.circ.Gates[s.gate]
	t := p.triples[s.triple]
	p.d, p.e = share.Pair{}, share.Pair{}
	p.d.Set(p.isA(), p.wires[g.Input0].Xor(t.U))
	p.e.Set(p.isA(), p.wires[g.Input1].Xor(t.V))
	p.masked = s.triple
	return nil
}

// multiply completes the AND gate of s once d and e are open:
//
//	z = w ⊕ e∧x ⊕ d∧y ⊕ e∧d
//
// where only A adds the public term e∧d.
func (p *Party) multiply(s step) error {
	if p.consumed[s.triple] {
		return ErrTripleReused
	}
	g := p.circ.Gates[s.gate]
	t := p.triples[s.triple]
	x, y := p.wires[g.Input0], p.wires[g.Input1]
	d, e := p.d.Value(), p.e.Value()

	z := t.W.Xor(e.And(x)).Xor(d.And(y))
	if p.isA() {
		z = z.Xor(e.And(d))
	}
	p.wires[g.Output] = z
	p.consumed[s.triple] = true
	p.masked = -1
	p.next = s.gate + 1
	p.evalLocal()
	return nil
}

// evalLocal evaluates gates from p.next up to the next AND gate.
func (p *Party) evalLocal() {
	for ; p.next < len(p.circ.Gates); p.next++ {
		g := p.circ.Gates[p.next]
		switch g.Op {
		case circuit.XOR:
			p.wires[g.Output] = p.wires[g.Input0].Xor(p.wires[g.Input1])
		case circuit.INV:
			// flipping one share negates the shared value
			if p.isA() {
				p.wires[g.Output] = p.wires[g.Input0].Not()
			} else {
				p.wires[g.Output] = p.wires[g.Input0]
			}
		default:
			return
		}
	}
}
