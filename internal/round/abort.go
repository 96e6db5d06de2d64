package round

// Abort is an empty round holding the error that stopped the protocol.
//
// Misbehaving parties are named by the handler, which sees the sender of
// every rejected message.
type Abort struct {
	*Helper
	Err error
}

func (Abort) VerifyMessage(Message) error                  { return nil }
func (Abort) StoreMessage(Message) error                   { return nil }
func (r *Abort) Finalize(chan<- *Message) (Session, error) { return r, nil }
func (Abort) MessageContent() Content                      { return nil }
func (Abort) Number() Number                               { return 0 }
