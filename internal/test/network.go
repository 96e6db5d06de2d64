package test

import (
	"sync"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/party"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/protocol"
)

// Network delivers protocol messages between handlers running in the same process,
// and counts the traffic it carries.
type Network struct {
	parties          party.IDSlice
	listenChannels   map[party.ID]chan *protocol.Message
	done             chan struct{}
	closedListenChan chan *protocol.Message
	messages         int
	bytes            int
	mtx              sync.Mutex
}

func NewNetwork(parties party.IDSlice) *Network {
	closed := make(chan *protocol.Message)
	close(closed)
	c := &Network{
		parties:          parties,
		listenChannels:   make(map[party.ID]chan *protocol.Message, len(parties)),
		closedListenChan: closed,
	}
	return c
}

func (n *Network) init() {
	N := len(n.parties)
	for _, id := range n.parties {
		n.listenChannels[id] = make(chan *protocol.Message, N*N)
	}
	n.done = make(chan struct{})
}

// Next returns the channel of messages addressed to id.
func (n *Network) Next(id party.ID) <-chan *protocol.Message {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if n.done == nil {
		n.init()
	}
	c, ok := n.listenChannels[id]
	if !ok {
		return n.closedListenChan
	}
	return c
}

// Send delivers msg to every party it is for that is still listening.
func (n *Network) Send(msg *protocol.Message) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if n.done == nil {
		n.init()
	}
	for id, c := range n.listenChannels {
		if msg.IsFor(id) {
			c <- msg
			n.messages++
			n.bytes += len(msg.Data)
		}
	}
}

// Done stops delivery to id. The returned channel is closed once every party is done.
func (n *Network) Done(id party.ID) chan struct{} {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if n.done == nil {
		n.init()
	}
	if c, ok := n.listenChannels[id]; ok {
		close(c)
		delete(n.listenChannels, id)
	}
	if len(n.listenChannels) == 0 {
		select {
		case <-n.done:
		default:
			close(n.done)
		}
	}
	return n.done
}

// Traffic returns the number of delivered messages and the size of their payloads.
func (n *Network) Traffic() (messages, bytes int) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.messages, n.bytes
}
