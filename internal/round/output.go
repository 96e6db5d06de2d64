package round

// Output is an empty round containing the output of the protocol.
type Output struct {
	*Helper
	Result interface{}
}

// VerifyMessage implements round.Round.
func (Output) VerifyMessage(Message) error { return nil }

// StoreMessage implements round.Round.
func (Output) StoreMessage(Message) error { return nil }

// Finalize implements round.Round.
func (r *Output) Finalize(chan<- *Message) (Session, error) { return r, nil }

// MessageContent implements round.Round.
func (Output) MessageContent() Content { return nil }

// Number implements round.Round.
func (Output) Number() Number { return 0 }
