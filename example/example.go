package main

import (
	"fmt"
	"os"

	"github.com/markkurossi/tabulate"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/DrAguNovlIng/cryptocomp3/internal/test"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/bit"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/circuit"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/dealer"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/party"
	"github.com/DrAguNovlIng/cryptocomp3/pkg/protocol"
	"github.com/DrAguNovlIng/cryptocomp3/protocols/beaver"
)

// Evaluate runs one session of c between two handlers over an in-memory
// network, and returns A's output.
func Evaluate(c *circuit.Circuit, x, y uint8, ids party.IDSlice, log zerolog.Logger) (bit.Bit, error) {
	d := dealer.New(nil)
	if err := d.Deal(c.NumAND()); err != nil {
		return 0, err
	}
	triplesA, err := d.RandomnessForA()
	if err != nil {
		return 0, err
	}
	triplesB, err := d.RandomnessForB()
	if err != nil {
		return 0, err
	}

	sessionID := []byte(fmt.Sprintf("%s/%d/%d", c.Name, x, y))
	hA, err := protocol.NewTwoPartyHandler(
		beaver.StartA(ids[0], ids[1], x, triplesA, beaver.WithCircuit(c)), sessionID, true,
		protocol.WithLogger(log))
	if err != nil {
		return 0, err
	}
	hB, err := protocol.NewTwoPartyHandler(
		beaver.StartB(ids[1], ids[0], y, triplesB, beaver.WithCircuit(c)), sessionID, false,
		protocol.WithLogger(log))
	if err != nil {
		return 0, err
	}

	n := test.NewNetwork(ids)
	var g errgroup.Group
	g.Go(func() error { return test.HandlerLoop(ids[0], hA, n) })
	g.Go(func() error { return test.HandlerLoop(ids[1], hB, n) })
	if err = g.Wait(); err != nil {
		return 0, err
	}

	r, err := hA.Result()
	if err != nil {
		return 0, err
	}
	result := r.(*beaver.Result)
	messages, bytes := n.Traffic()
	log.Info().
		Int("messages", messages).
		Int("bytes", bytes).
		Str("circuit", c.Name).
		Uint8("x", x).
		Uint8("y", y).
		Stringer("output", result.Output).
		Hex("transcript", hA.Transcript()).
		Msg("evaluated")
	return result.Output, nil
}

// Table evaluates c on every pair of inputs. Rows are A's input, columns B's.
func Table(c *circuit.Circuit, ids party.IDSlice, log zerolog.Logger) (*tabulate.Tabulate, error) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header(c.Name).SetAlign(tabulate.ML)
	for y := uint64(0); y <= c.MaxInput(); y++ {
		tab.Header(fmt.Sprintf("%03b", y)).SetAlign(tabulate.MR)
	}
	for x := uint64(0); x <= c.MaxInput(); x++ {
		row := tab.Row()
		row.Column(fmt.Sprintf("%03b", x))
		for y := uint64(0); y <= c.MaxInput(); y++ {
			out, err := Evaluate(c, uint8(x), uint8(y), ids, log)
			if err != nil {
				return nil, fmt.Errorf("%s(%d, %d): %w", c.Name, x, y, err)
			}
			want, err := c.Eval(x, y)
			if err != nil {
				return nil, err
			}
			if out != want {
				return nil, fmt.Errorf("%s(%d, %d): got %v, want %v", c.Name, x, y, out, want)
			}
			row.Column(out.String())
		}
	}
	return tab, nil
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
	ids := test.PartyIDs(2)

	for _, c := range []*circuit.Circuit{circuit.NoCommonBit(), circuit.Compatibility()} {
		tab, err := Table(c, ids, log)
		if err != nil {
			log.Error().Err(err).Msg("evaluation failed")
			os.Exit(1)
		}
		tab.Print(os.Stdout)
		fmt.Println()
	}
}
