package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"galton/internal/audio"
	"galton/internal/bean"
	"galton/internal/board"
	"galton/internal/config"
	"galton/internal/experiment"
	"galton/internal/util"
	"galton/internal/view"
)

func usage() {
	fmt.Println(config.Usage)
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("beancounter: ")

	var cfgPath, out, half string
	var seed int64
	var n, workers, repeat, delay int
	var saveLog, tui, sound bool
	flag.StringVar(&cfgPath, "config", "", "YAML run config; positional args override it")
	flag.StringVar(&out, "out", "", "write the result (single) or summary (batch) as JSON")
	flag.StringVar(&half, "half", "", "keep only the upper or lower half of settled beans")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 = now)")
	flag.IntVar(&n, "n", 1, "number of experiments; >1 runs a batch")
	flag.IntVar(&workers, "workers", 8, "batch worker goroutines")
	flag.IntVar(&repeat, "repeat", 0, "repeat the experiment with the same beans")
	flag.IntVar(&delay, "delay", 60, "milliseconds per step in -tui mode")
	flag.BoolVar(&saveLog, "log", false, "include the step event log in -out (single run)")
	flag.BoolVar(&tui, "tui", false, "animate the board in the terminal instead of printing debug frames")
	flag.BoolVar(&sound, "sound", false, "click when a bean lands")
	flag.Usage = usage
	flag.Parse()

	base := config.Default()
	if cfgPath != "" {
		c, err := config.Load(cfgPath)
		if err != nil {
			log.Fatal(err)
		}
		base = *c
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			base.Seed = seed
		case "n":
			base.Runs = n
		case "workers":
			base.Workers = workers
		case "repeat":
			base.Repeat = repeat
		case "half":
			base.Half = half
		case "delay":
			base.DelayMS = delay
		case "sound":
			base.Sound = sound
		}
	})

	cfg := &base
	if flag.NArg() > 0 || cfgPath == "" {
		c, err := config.ParseArgs(base, flag.Args())
		if err != nil {
			usage()
			return
		}
		cfg = c
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		usage()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Runs > 1 {
		runBatch(ctx, cfg, out)
		return
	}
	runSingle(ctx, cfg, out, saveLog, tui)
}

func runBatch(ctx context.Context, cfg *config.Config, out string) {
	st, err := experiment.RunBatch(ctx, *cfg)
	if err != nil {
		log.Fatal(err)
	}
	if out == "" {
		fmt.Println(string(experiment.MarshalPretty(st)))
		return
	}
	if err := os.WriteFile(out, experiment.MarshalPretty(st), 0644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Batch %d done, avg slot %.3f -> %s\n", st.Runs, st.AvgSlot, filepath.Base(out))
}

func runSingle(ctx context.Context, cfg *config.Config, out string, saveLog, tui bool) {
	rng := util.New(cfg.Seed)
	b, err := board.New(cfg.Slots)
	if err != nil {
		log.Fatal(err)
	}
	beans, err := bean.NewSet(cfg.Slots, cfg.Beans, cfg.Luck(), rng)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Sound {
		var clk audio.Clicker
		if err := clk.Init(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			defer clk.Close()
			b.Emit = func(ev board.Event) {
				if ev.Type == "Settle" {
					clk.Click(ev.Payload["slot"].(int), cfg.Slots)
				}
			}
		}
	}

	if tui {
		res, err := animate(ctx, cfg, b, beans, saveLog && out != "")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Slot bean counts:")
		fmt.Println(b.SlotString())
		if err := writeResult(out, res); err != nil {
			log.Fatal(err)
		}
		return
	}

	opts := experiment.RunOptions{Half: cfg.Half, Repeat: cfg.Repeat, Record: saveLog && out != ""}
	if cfg.Debug {
		opts.OnStep = func(b *board.Board) {
			fmt.Println(b.String())
			if err := b.Check(); err != nil {
				log.Printf("step %d: %v", b.Steps(), err)
			}
		}
		fmt.Println(b.String())
	}
	res, err := experiment.Run(b, beans, opts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Slot bean counts:")
	fmt.Println(b.SlotString())
	if cfg.Debug {
		fmt.Printf("Average slot: %.3f\n", res.Average)
	}
	if err := writeResult(out, res); err != nil {
		log.Fatal(err)
	}
}

func animate(ctx context.Context, cfg *config.Config, b *board.Board, beans []*bean.Bean, record bool) (experiment.Result, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return experiment.Result{}, err
	}
	if err := screen.Init(); err != nil {
		return experiment.Result{}, err
	}
	defer screen.Fini()

	done := make(chan struct{})
	defer close(done)
	return animateOn(ctx, screen, view.PollEvents(screen, done), cfg, b, beans, record)
}

// animateOn plays every pass of the experiment on screen, sharing one event
// stream across passes so a quit key is seen whichever pass is running.
func animateOn(ctx context.Context, screen tcell.Screen, events <-chan tcell.Event, cfg *config.Config, b *board.Board, beans []*bean.Bean, record bool) (experiment.Result, error) {
	var res experiment.Result
	if record {
		prev := b.Emit
		b.Emit = func(ev board.Event) {
			res.Events = append(res.Events, ev)
			if prev != nil {
				prev(ev)
			}
		}
		defer func() { b.Emit = prev }()
	}
	finish := func() (experiment.Result, error) {
		res.Slots = b.Slots()
		res.Average = b.Average()
		res.Settled = b.Settled()
		return res, nil
	}

	if err := b.Reset(beans); err != nil {
		return experiment.Result{}, err
	}
	delay := time.Duration(cfg.DelayMS) * time.Millisecond
	for pass := 0; pass <= cfg.Repeat; pass++ {
		if pass > 0 {
			b.Repeat()
		}
		err := view.Animate(ctx, screen, events, b, delay)
		res.Steps += b.Steps()
		switch {
		case errors.Is(err, view.ErrQuit), errors.Is(err, context.Canceled):
			return finish()
		case err != nil:
			return experiment.Result{}, err
		}
		switch cfg.Half {
		case config.HalfUpper:
			b.UpperHalf()
		case config.HalfLower:
			b.LowerHalf()
		}
		if err := b.Check(); err != nil {
			return experiment.Result{}, err
		}
		if cfg.Repeat > 0 {
			res.Rounds = append(res.Rounds, experiment.Round{Slots: b.Slots(), Average: b.Average()})
		}
		view.Draw(screen, b)
	}
	return finish()
}

func writeResult(out string, v any) error {
	if out == "" {
		return nil
	}
	return os.WriteFile(out, experiment.MarshalPretty(v), 0644)
}
