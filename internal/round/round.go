package round

import "errors"

var (
	ErrInvalidContent = errors.New("round: content is not the right type")
	ErrOutChanFull    = errors.New("round: out channel is full")
)

// Round is a single step of a round-based protocol.
type Round interface {
	// VerifyMessage handles an incoming Message and validates its content.
	// The content argument can be cast to the appropriate type for this round without error check.
	// This function should not modify any saved state.
	VerifyMessage(msg Message) error

	// StoreMessage should be called after VerifyMessage and should only store the appropriate fields from the
	// content.
	StoreMessage(msg Message) error

	// Finalize is called after the message for the current round has been processed.
	// Messages for the next round are sent out through the out channel.
	// If a non-critical error occurs (like a failure to send a message), the current round can be
	// returned so that the caller may try to finalize again.
	//
	// In the last round, Finalize should return
	//   r.ResultRound(result), nil
	// where result is the output of the protocol.
	Finalize(out chan<- *Message) (Session, error)

	// MessageContent returns an uninitialized message.Content for this round.
	//
	// A round that expects no message returns nil.
	MessageContent() Content

	// Number returns the current round number.
	Number() Number
}
