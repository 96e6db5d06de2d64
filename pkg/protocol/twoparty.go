package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"

	"github.com/DrAguNovlIng/cryptocomp3/internal/round"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/hash"
)

var ErrNotFinished = errors.New("protocol: not finished")

// TwoPartyHandler represents a restriction of the Handler for 2 party protocols,
// where the parties take turns and every round expects at most one message.
type TwoPartyHandler struct {
	round      round.Session
	leader     bool
	err        error
	result     interface{}
	messages   map[round.Number]*Message
	out        chan *Message
	transcript *hash.Hash
	log        zerolog.Logger
	mtx        sync.Mutex
}

// NewTwoPartyHandler creates the first round with create and, if leader is
// true, immediately finalizes every round that does not wait for a message.
func NewTwoPartyHandler(create StartFunc, sessionID []byte, leader bool, opts ...HandlerOption) (*TwoPartyHandler, error) {
	cfg := handlerConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	r, err := create(sessionID)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to create round: %w", err)
	}
	handler := &TwoPartyHandler{
		round:      r,
		leader:     leader,
		messages:   map[round.Number]*Message{},
		out:        make(chan *Message, 2),
		transcript: hash.New(hash.BytesWithDomain{TheDomain: "SSID", Bytes: r.SSID()}),
		log: cfg.log.With().
			Str("protocol", r.ProtocolID()).
			Str("party", string(r.SelfID())).
			Logger(),
	}
	handler.log.Debug().Bool("leader", leader).Msg("start")
	if leader {
		handler.mtx.Lock()
		handler.advance()
		handler.mtx.Unlock()
	}
	return handler, nil
}

// Result implements Handler.
func (h *TwoPartyHandler) Result() (interface{}, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result != nil {
		return h.result, nil
	}
	if h.err != nil {
		return nil, h.err
	}
	return nil, ErrNotFinished
}

// Listen implements Handler.
func (h *TwoPartyHandler) Listen() <-chan *Message {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.out
}

// Stop implements Handler.
func (h *TwoPartyHandler) Stop() {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.err == nil && h.result == nil {
		h.abort(errors.New("aborted by user"))
	}
}

// Transcript returns a digest of every message sent and accepted so far, in protocol order.
//
// Once the protocol has finished, both parties hold the same transcript.
func (h *TwoPartyHandler) Transcript() []byte {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.transcript.Clone().Sum()
}

func (h *TwoPartyHandler) String() string {
	return fmt.Sprintf("party: %s, protocol: %s", h.round.SelfID(), h.round.ProtocolID())
}

// abort closes the out channel. A non-nil err is recorded, and sent to the
// other party when there is room for it.
func (h *TwoPartyHandler) abort(err error) {
	if err != nil {
		h.err = err
		h.log.Warn().Err(err).Msg("abort")
		select {
		case h.out <- &Message{
			SSID:     h.round.SSID(),
			From:     h.round.SelfID(),
			Protocol: h.round.ProtocolID(),
			Data:     []byte(h.err.Error()),
		}:
		default:
		}
	}
	close(h.out)
}

func (h *TwoPartyHandler) canAdvance() bool {
	if h.round.MessageContent() == nil {
		return true
	}
	return h.messages[h.round.Number()] != nil
}

func (h *TwoPartyHandler) record(msg *Message) error {
	if err := h.transcript.WriteAny(hash.BytesWithDomain{TheDomain: "Message", Bytes: msg.Hash()}); err != nil {
		return fmt.Errorf("failed to record message: %w", err)
	}
	return nil
}

func extractRoundMessage(r round.Session, msg *Message) (round.Message, error) {
	content := r.MessageContent()
	if err := cbor.Unmarshal(msg.Data, content); err != nil {
		return round.Message{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if content.RoundNumber() != msg.RoundNumber {
		return round.Message{}, fmt.Errorf("content is for round %d", content.RoundNumber())
	}
	return round.Message{
		From:    msg.From,
		To:      msg.To,
		Content: content,
	}, nil
}

func (h *TwoPartyHandler) verifyMessage(msg *Message) error {
	if msg == nil {
		return nil
	}
	r := h.round
	roundMsg, err := extractRoundMessage(r, msg)
	if err != nil {
		return Error{RoundNumber: r.Number(), Culprit: msg.From, Err: err}
	}

	if err = r.VerifyMessage(roundMsg); err != nil {
		return Error{RoundNumber: r.Number(), Culprit: msg.From, Err: err}
	}

	if err = r.StoreMessage(roundMsg); err != nil {
		return Error{RoundNumber: r.Number(), Err: err}
	}

	if err = h.record(msg); err != nil {
		return Error{RoundNumber: r.Number(), Err: err}
	}
	delete(h.messages, r.Number())
	return nil
}

func (h *TwoPartyHandler) advance() {
	for h.canAdvance() {
		msg := h.messages[h.round.Number()]
		if err := h.verifyMessage(msg); err != nil {
			h.abort(err)
			return
		}
		out := make(chan *round.Message, 1)
		newRound, err := h.round.Finalize(out)
		close(out)
		if err != nil {
			h.abort(Error{RoundNumber: h.round.Number(), Err: err})
			return
		}
		if newRound == nil {
			h.abort(Error{RoundNumber: h.round.Number(), Err: errors.New("round returned no successor")})
			return
		}
		for roundMsg := range out {
			data, err := cbor.Marshal(roundMsg.Content)
			if err != nil {
				h.abort(Error{RoundNumber: h.round.Number(), Err: fmt.Errorf("failed to marshal round message: %w", err)})
				return
			}
			msg := &Message{
				SSID:        newRound.SSID(),
				From:        newRound.SelfID(),
				To:          roundMsg.To,
				Protocol:    newRound.ProtocolID(),
				RoundNumber: roundMsg.Content.RoundNumber(),
				Data:        data,
			}
			if err = h.record(msg); err != nil {
				h.abort(Error{RoundNumber: h.round.Number(), Err: err})
				return
			}
			h.out <- msg
		}
		h.round = newRound
		switch R := newRound.(type) {
		// An abort happened
		case *round.Abort:
			h.abort(R.Err)
			return
		// We have the result
		case *round.Output:
			h.log.Debug().Msg("result")
			h.result = R.Result
			h.abort(nil)
			return
		default:
			h.log.Debug().Int("round", int(newRound.Number())).Msg("round advanced")
		}
	}
}

// CanAccept implements Handler.
func (h *TwoPartyHandler) CanAccept(msg *Message) bool {
	r := h.round
	if msg == nil {
		return false
	}
	if !msg.IsFor(r.SelfID()) {
		return false
	}
	if msg.Protocol != r.ProtocolID() {
		return false
	}
	if !bytes.Equal(msg.SSID, r.SSID()) {
		return false
	}
	if !r.PartyIDs().Contains(msg.From) {
		return false
	}
	if msg.Data == nil {
		return false
	}
	if msg.RoundNumber > r.FinalRoundNumber() {
		return false
	}
	return true
}

// Accept implements Handler.
func (h *TwoPartyHandler) Accept(msg *Message) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if msg == nil {
		return
	}
	if h.err != nil || h.result != nil || !h.CanAccept(msg) {
		h.log.Debug().Stringer("msg", msg).Msg("message rejected")
		return
	}

	if msg.RoundNumber == 0 {
		h.abort(fmt.Errorf("aborted by other party with error: \"%s\"", msg.Data))
		return
	}

	if h.messages[msg.RoundNumber] != nil || msg.RoundNumber < h.round.Number() {
		h.abort(Error{RoundNumber: h.round.Number(), Culprit: msg.From, Err: errors.New("duplicate message")})
		return
	}
	h.messages[msg.RoundNumber] = msg

	h.advance()
}
