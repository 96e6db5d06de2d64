package beaver

import (
	"github.com/DrAguNovlIng/cryptocomp3/internal/round"
)

// roundB is party B's view of a round.
//
// Round 1 receives A's input shares and answers with B's. Every later round
// receives A's message and answers it. The answer to A's last message ends
// the protocol for B.
type roundB struct {
	*round.Helper
	party  *Party
	number round.Number
}

// VerifyMessage implements round.Round.
func (r *roundB) VerifyMessage(msg round.Message) error {
	return verifyContent(r.party, msg.Content)
}

// StoreMessage implements round.Round.
func (r *roundB) StoreMessage(msg round.Message) error {
	return storeContent(r.party, msg.Content)
}

// Finalize implements round.Round.
func (r *roundB) Finalize(out chan<- *round.Message) (round.Session, error) {
	to := r.OtherPartyIDs()[0]
	next := r.number + 1
	if r.number == 1 {
		shares, err := r.party.SendInputShare()
		if err != nil {
			return r.AbortRound(err), nil
		}
		if err = r.SendMessage(out, &inputMessage{Round: next, Shares: shares}, to); err != nil {
			return r, err
		}
		return &roundB{Helper: r.Helper, party: r.party, number: next}, nil
	}

	b, err := r.party.Send()
	if err != nil {
		return r.AbortRound(err), nil
	}
	if err = r.SendMessage(out, &bitMessage{Round: next, Bit: b}, to); err != nil {
		return r, err
	}
	if next == r.FinalRoundNumber() {
		return r.ResultRound(r.party.result()), nil
	}
	return &roundB{Helper: r.Helper, party: r.party, number: next}, nil
}

// MessageContent implements round.Round.
func (r *roundB) MessageContent() round.Content {
	if r.number == 1 {
		return &inputMessage{}
	}
	return &bitMessage{}
}

// Number implements round.Round.
func (r *roundB) Number() round.Number { return r.number }
