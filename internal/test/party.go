package test

import (
	"strings"

	"github.com/DrAguNovlIng/cryptocomp3/pkg/party"
)

// PartyIDs returns n sorted IDs "a", "b", ..., "z", "za", ...
// In two-party tests the first one plays A.
func PartyIDs(n int) party.IDSlice {
	ids := make([]party.ID, n)
	for i := range ids {
		ids[i] = party.ID(strings.Repeat("z", i/26) + string(rune('a'+i%26)))
	}
	return party.NewIDSlice(ids)
}
