package test

import (
	"github.com/DrAguNovlIng/cryptocomp3/pkg/party"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/protocol"
)

// HandlerLoop blocks until the handler has finished and every other party on the network is done.
// It returns the error of the execution, if any. The result itself is given by Handler.Result().
func HandlerLoop(id party.ID, h protocol.Handler, network *Network) error {
	incoming := network.Next(id)
	for {
		select {

		// outgoing messages
		case msg, ok := <-h.Listen():
			if !ok {
				// the channel was closed, indicating that the protocol is done executing.
				<-network.Done(id)
				_, err := h.Result()
				return err
			}
			go network.Send(msg)

		// incoming messages
		case msg := <-incoming:
			h.Accept(msg)
		}
	}
}
