package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/hash"
)

func TestTwoPartyHandler_Record(t *testing.T) {
	first := &Message{SSID: []byte{1}, From: "a", To: "b", Protocol: "p", RoundNumber: 1, Data: []byte{0xa0}}
	second := &Message{SSID: []byte{1}, From: "b", To: "a", Protocol: "p", RoundNumber: 2, Data: []byte{0xa1}}

	transcript := func(msgs ...*Message) []byte {
		h := &TwoPartyHandler{transcript: hash.New()}
		for _, msg := range msgs {
			require.NoError(t, h.record(msg))
		}
		return h.Transcript()
	}

	assert.NotEqual(t, transcript(), transcript(first))
	assert.Equal(t, transcript(first, second), transcript(first, second))
	assert.NotEqual(t, transcript(first, second), transcript(second, first))
}
