// Package beaver evaluates a Boolean circuit between two parties holding
// XOR shares of every wire. Each AND gate consumes one Beaver triple from a
// trusted dealer and two rounds of communication, and linear gates are free.
//
// Party is the synchronous state machine. StartA and StartB wrap it into a
// round.Session that can be run by a protocol.Handler.
package beaver

import (
	"fmt"

	"github.com/DrAguNovlIng/cryptocomp3/internal/round"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/bit"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/party"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/protocol"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/share"
)

const protocolID = "beaver/circuit"

// Result is the outcome of a session.
type Result struct {
	// Output is the circuit output. It is only meaningful if HasOutput is set.
	Output bit.Bit
	// HasOutput is false for B unless the output is disclosed to both.
	HasOutput bool
}

// StartA runs the protocol as party A against otherID, with the given
// packed input and A's half of the dealer's triples.
//
// A must be the leader of its protocol.TwoPartyHandler, since it sends the
// first message.
func StartA(selfID, otherID party.ID, input uint8, triples []share.Triple, opts ...Option) protocol.StartFunc {
	return start(RoleA, selfID, otherID, input, triples, opts)
}

// StartB runs the protocol as party B. See StartA.
func StartB(selfID, otherID party.ID, input uint8, triples []share.Triple, opts ...Option) protocol.StartFunc {
	return start(RoleB, selfID, otherID, input, triples, opts)
}

func start(role Role, selfID, otherID party.ID, input uint8, triples []share.Triple, opts []Option) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		p, err := New(role, opts...)
		if err != nil {
			return nil, fmt.Errorf("beaver.Start%s: %w", role, err)
		}
		if err = p.Init(input, triples); err != nil {
			return nil, fmt.Errorf("beaver.Start%s: %w", role, err)
		}

		info := round.Info{
			ProtocolID: protocolID,
			// one round for each input share message, then the schedule
			FinalRoundNumber: round.Number(p.Rounds() + 2),
			SelfID:           selfID,
			PartyIDs:         []party.ID{selfID, otherID},
		}
		helper, err := round.NewSession(info, sessionID, p.Circuit(), p.Disclosure())
		if err != nil {
			return nil, fmt.Errorf("beaver.Start%s: %w", role, err)
		}

		if role == RoleA {
			return &roundA{Helper: helper, party: p, number: 1}, nil
		}
		return &roundB{Helper: helper, party: p, number: 1}, nil
	}
}

func (p *Party) result() *Result {
	out, err := p.Output()
	return &Result{Output: out, HasOutput: err == nil}
}

// inputMessage carries the sender's InputShares.
type inputMessage struct {
	Round  round.Number
	Shares InputShares
}

// RoundNumber implements round.Content.
func (m *inputMessage) RoundNumber() round.Number { return m.Round }

// bitMessage carries the output of Party.Send.
type bitMessage struct {
	Round round.Number
	Bit   bit.Bit
}

// RoundNumber implements round.Content.
func (m *bitMessage) RoundNumber() round.Number { return m.Round }

func verifyContent(p *Party, content round.Content) error {
	switch body := content.(type) {
	case *inputMessage:
		if len(body.Shares) != p.Circuit().InputWidth() {
			return fmt.Errorf("got %d input shares, want %d", len(body.Shares), p.Circuit().InputWidth())
		}
		for _, s := range body.Shares {
			if err := s.Validate(); err != nil {
				return err
			}
		}
		return nil
	case *bitMessage:
		return body.Bit.Validate()
	default:
		return round.ErrInvalidContent
	}
}

func storeContent(p *Party, content round.Content) error {
	switch body := content.(type) {
	case *inputMessage:
		return p.ReceiveInputShare(body.Shares)
	case *bitMessage:
		return p.Receive(body.Bit)
	default:
		return round.ErrInvalidContent
	}
}
