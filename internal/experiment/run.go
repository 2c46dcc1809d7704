package experiment

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"galton/internal/bean"
	"galton/internal/board"
	"galton/internal/config"
)

type Result struct {
	Slots   []int         `json:"slots"`
	Average float64       `json:"average"`
	Steps   int           `json:"steps"`
	Settled int           `json:"settled"`
	Rounds  []Round       `json:"rounds,omitempty"`
	Events  []board.Event `json:"events,omitempty"`
}

// Round records the board after one pass when the experiment repeats.
type Round struct {
	Slots   []int   `json:"slots"`
	Average float64 `json:"average"`
}

type RunOptions struct {
	Half   string // "", config.HalfUpper or config.HalfLower
	Repeat int    // extra passes with the same beans
	Record bool   // keep the board's event log

	// OnStep is called after every step that changed the board.
	OnStep func(b *board.Board)
}

// Run drops beans through b until the board settles, applies the half
// selection and repeats the experiment opts.Repeat more times.
func Run(b *board.Board, beans []*bean.Bean, opts RunOptions) (Result, error) {
	var res Result
	if opts.Record {
		prev := b.Emit
		b.Emit = func(ev board.Event) {
			res.Events = append(res.Events, ev)
			if prev != nil {
				prev(ev)
			}
		}
		defer func() { b.Emit = prev }()
	}
	if err := b.Reset(beans); err != nil {
		return Result{}, err
	}
	for pass := 0; pass <= opts.Repeat; pass++ {
		if pass > 0 {
			b.Repeat()
		}
		for b.AdvanceStep() {
			res.Steps++
			if opts.OnStep != nil {
				opts.OnStep(b)
			}
		}
		switch opts.Half {
		case config.HalfUpper:
			b.UpperHalf()
		case config.HalfLower:
			b.LowerHalf()
		case "":
		default:
			return Result{}, fmt.Errorf("experiment: unknown half %q", opts.Half)
		}
		if err := b.Check(); err != nil {
			return Result{}, err
		}
		if opts.Repeat > 0 {
			res.Rounds = append(res.Rounds, Round{Slots: b.Slots(), Average: b.Average()})
		}
	}
	res.Slots = b.Slots()
	res.Average = b.Average()
	res.Settled = b.Settled()
	return res, nil
}

// RunConfig builds the board and beans described by cfg and runs them.
func RunConfig(cfg *config.Config, rng *rand.Rand, opts RunOptions) (*board.Board, Result, error) {
	b, err := board.New(cfg.Slots)
	if err != nil {
		return nil, Result{}, err
	}
	beans, err := bean.NewSet(cfg.Slots, cfg.Beans, cfg.Luck(), rng)
	if err != nil {
		return nil, Result{}, err
	}
	opts.Half = cfg.Half
	opts.Repeat = cfg.Repeat
	res, err := Run(b, beans, opts)
	return b, res, err
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
