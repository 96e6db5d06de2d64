package beaver

import "fmt"

// Error is returned by a Party when a call cannot be served.
type Error string

const (
	ErrNotInitialized    Error = "beaver: party used before Init"
	ErrProtocolExhausted Error = "beaver: all rounds have been played"
	ErrOutputNotReady    Error = "beaver: output is not available"
	ErrTripleReused      Error = "beaver: triple already consumed"
	ErrOutOfOrder        Error = "beaver: call out of order"
	ErrInvalidInput      Error = "beaver: invalid input"
	ErrInvalidTriples    Error = "beaver: invalid triples"
)

func (err Error) Error() string {
	return string(err)
}

// RoundError records the round and the role of the party in which a call failed.
type RoundError struct {
	Round int
	Role  Role
	Err   error
}

func (e *RoundError) Error() string {
	return fmt.Sprintf("party %s, round %d: %v", e.Role, e.Round, e.Err)
}

func (e *RoundError) Unwrap() error {
	return e.Err
}
