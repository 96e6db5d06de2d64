package beaver

import (
	"github.com/DrAguNovlIng/cryptocomp3/internal/round"
)

// roundA is party A's view of a round.
//
// Round 1 sends A's input shares. Round 2 receives B's input shares and
// sends the first Party.Send output. Every later round receives B's answer
// to the previous one, and the final round only reads the output.
type roundA struct {
	*round.Helper
	party  *Party
	number round.Number
}

// VerifyMessage implements round.Round.
func (r *roundA) VerifyMessage(msg round.Message) error {
	return verifyContent(r.party, msg.Content)
}

// StoreMessage implements round.Round.
func (r *roundA) StoreMessage(msg round.Message) error {
	return storeContent(r.party, msg.Content)
}

// Finalize implements round.Round.
func (r *roundA) Finalize(out chan<- *round.Message) (round.Session, error) {
	to := r.OtherPartyIDs()[0]
	switch {
	case r.number == 1:
		shares, err := r.party.SendInputShare()
		if err != nil {
			return r.AbortRound(err), nil
		}
		if err = r.SendMessage(out, &inputMessage{Round: 1, Shares: shares}, to); err != nil {
			return r, err
		}
	case r.number < r.FinalRoundNumber():
		b, err := r.party.Send()
		if err != nil {
			return r.AbortRound(err), nil
		}
		if err = r.SendMessage(out, &bitMessage{Round: r.number, Bit: b}, to); err != nil {
			return r, err
		}
	default:
		return r.ResultRound(r.party.result()), nil
	}
	return &roundA{Helper: r.Helper, party: r.party, number: r.number + 1}, nil
}

// MessageContent implements round.Round.
func (r *roundA) MessageContent() round.Content {
	switch r.number {
	case 1:
		return nil
	case 2:
		return &inputMessage{}
	default:
		return &bitMessage{}
	}
}

// Number implements round.Round.
func (r *roundA) Number() round.Number { return r.number }
