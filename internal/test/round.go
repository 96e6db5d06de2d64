package test

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"

	"github.com/DrAguNovlIng/cryptocomp3/internal/round"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/party"
)

// Rule describes various hooks that can be applied to a protocol execution.
type Rule interface {
	// ModifyBefore modifies r before r.Finalize() is called.
	ModifyBefore(r round.Session)
	// ModifyAfter modifies rNext, which is the round returned by r.Finalize().
	ModifyAfter(rNext round.Session)
	// ModifyContent modifies content for the message that is delivered in rNext.
	ModifyContent(rNext round.Session, to party.ID, content round.Content)
}

// Runner executes sessions that take turns, without a network.
//
// A session is finalized once its current round expects no message, or once
// the message for that round has been delivered. Every message is encoded
// with cbor before delivery, as it would be by protocol.Handler.
type Runner struct {
	rounds []round.Session
	ready  []bool
	rule   Rule
}

// NewRunner returns a Runner for rounds. rule may be nil.
func NewRunner(rounds []round.Session, rule Rule) *Runner {
	ready := make([]bool, len(rounds))
	for i, r := range rounds {
		ready[i] = r.MessageContent() == nil
	}
	return &Runner{rounds: rounds, ready: ready, rule: rule}
}

// Rounds returns the current round of every session.
func (t *Runner) Rounds() []round.Session {
	return t.rounds
}

// Step finalizes every ready session and delivers the messages they produce.
// It returns true once all sessions have reached an Output or Abort round.
func (t *Runner) Step() (error, bool) {
	var (
		errGroup errgroup.Group
		N        = len(t.rounds)
		out      = make(chan *round.Message, N*(N+1))
	)

	if done(t.rounds) {
		return nil, true
	}

	for id := range t.rounds {
		idx := id
		r := t.rounds[idx]
		if !t.ready[idx] || isFinal(r) {
			continue
		}
		t.ready[idx] = false
		errGroup.Go(func() error {
			var (
				rNew round.Session
				err  error
			)
			if t.rule != nil {
				t.rule.ModifyBefore(r)
				outFake := make(chan *round.Message, N+1)
				rNew, err = r.Finalize(outFake)
				close(outFake)
				if rNew != nil {
					t.rule.ModifyAfter(rNew)
				}
				for msg := range outFake {
					t.rule.ModifyContent(rNew, msg.To, msg.Content)
					out <- msg
				}
			} else {
				rNew, err = r.Finalize(out)
			}
			if err != nil {
				return err
			}
			if rNew != nil {
				t.rounds[idx] = rNew
			}
			return nil
		})
	}
	if err := errGroup.Wait(); err != nil {
		return err, false
	}
	close(out)

	for i, r := range t.rounds {
		if !isFinal(r) && r.MessageContent() == nil {
			t.ready[i] = true
		}
	}

	for msg := range out {
		if err := t.deliver(msg); err != nil {
			return err, false
		}
	}

	if done(t.rounds) {
		return nil, true
	}
	for _, ready := range t.ready {
		if ready {
			return nil, false
		}
	}
	return errors.New("no session can make progress"), false
}

func (t *Runner) deliver(msg *round.Message) error {
	msgBytes, err := cbor.Marshal(msg.Content)
	if err != nil {
		return err
	}
	for idx, r := range t.rounds {
		if msg.From == r.SelfID() || (msg.To != "" && msg.To != r.SelfID()) {
			continue
		}
		if msg.Content.RoundNumber() != r.Number() {
			return fmt.Errorf("message for round %d delivered to %s in round %d",
				msg.Content.RoundNumber(), r.SelfID(), r.Number())
		}
		content := r.MessageContent()
		if content == nil {
			return fmt.Errorf("round %d of %s expects no message", r.Number(), r.SelfID())
		}
		if err = cbor.Unmarshal(msgBytes, content); err != nil {
			return err
		}
		m := round.Message{From: msg.From, To: msg.To, Content: content}
		if err = r.VerifyMessage(m); err != nil {
			return err
		}
		if err = r.StoreMessage(m); err != nil {
			return err
		}
		t.ready[idx] = true
	}
	return nil
}

func isFinal(r round.Session) bool {
	switch r.(type) {
	case *round.Output, *round.Abort:
		return true
	}
	return false
}

func done(rounds []round.Session) bool {
	for _, r := range rounds {
		if !isFinal(r) {
			return false
		}
	}
	return true
}
