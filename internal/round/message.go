package round

import (
	"github.com/DrAguNovlIng/cryptocomp3/pkg/party"
)

// Content represents the message returned by a round during finalization.
type Content interface {
	RoundNumber() Number
}

// Message is a Content together with its routing header.
type Message struct {
	From, To party.ID
	Content  Content
}
