package protocol

import (
	"github.com/rs/zerolog"

	"github.com/DrAguNovlIng/cryptocomp3/internal/round"
)

// StartFunc is function that creates the first round of a protocol.
// If the creation fails (likely due to misconfiguration), an error is returned.
type StartFunc func(sessionID []byte) (round.Session, error)

// Handler represents an execution of a given protocol.
// It provides a simple interface for the user to receive/deliver protocol messages.
type Handler interface {
	// Result returns the protocol result if the protocol completed successfully. Otherwise an error is returned.
	Result() (interface{}, error)
	// Listen returns a channel with outgoing messages that must be sent to other parties.
	// The channel is closed when the protocol finishes or aborts.
	Listen() <-chan *Message
	// Stop aborts the execution of the protocol.
	Stop()
	// CanAccept checks whether or not a message can be accepted at the current point in the protocol.
	CanAccept(msg *Message) bool
	// Accept advances the protocol execution after receiving a message.
	Accept(msg *Message)
}

// HandlerOption configures a handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	log zerolog.Logger
}

// WithLogger makes the handler log its progress to l.
func WithLogger(l zerolog.Logger) HandlerOption {
	return func(c *handlerConfig) {
		c.log = l
	}
}
