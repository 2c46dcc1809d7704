package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gdamore/tcell/v2"

	"galton/internal/bean"
	"galton/internal/board"
	"galton/internal/config"
	"galton/internal/experiment"
	"galton/internal/view"
)

func tuiFixture(t *testing.T, cfg *config.Config) (tcell.SimulationScreen, <-chan tcell.Event, *board.Board, []*bean.Bean) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(80, 24)
	t.Cleanup(s.Fini)
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	b, err := board.New(cfg.Slots)
	if err != nil {
		t.Fatal(err)
	}
	beans := make([]*bean.Bean, 0, cfg.Beans)
	for i := 0; i < cfg.Beans; i++ {
		bn, err := bean.NewSkill(cfg.Slots, i%(cfg.Slots+1), nil)
		if err != nil {
			t.Fatal(err)
		}
		beans = append(beans, bn)
	}
	return s, view.PollEvents(s, done), b, beans
}

func TestAnimateOnWritesResult(t *testing.T) {
	cfg := config.Default()
	cfg.Slots, cfg.Beans, cfg.Mode = 4, 5, config.ModeSkill
	cfg.Repeat, cfg.Half, cfg.DelayMS = 1, config.HalfUpper, 1

	s, events, b, beans := tuiFixture(t, &cfg)
	res, err := animateOn(context.Background(), s, events, &cfg, b, beans, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rounds) != 2 {
		t.Fatalf("got %d rounds", len(res.Rounds))
	}
	// Skills 0,1,2,3,4 land in slots 0,1,2,3,3; the upper half keeps 3 beans, then 2.
	if want := []int{0, 0, 0, 2}; !reflect.DeepEqual(res.Slots, want) {
		t.Errorf("slots=%v, want %v", res.Slots, want)
	}
	if res.Settled != 2 || len(res.Events) == 0 || res.Steps == 0 {
		t.Errorf("settled=%d events=%d steps=%d", res.Settled, len(res.Events), res.Steps)
	}
	if b.Emit != nil {
		t.Error("recording hook left on board")
	}

	out := filepath.Join(t.TempDir(), "result.json")
	if err := writeResult(out, res); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var back experiment.Result
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Slots, res.Slots) || len(back.Events) != len(res.Events) {
		t.Errorf("written result differs: %+v", back)
	}
}

func TestAnimateOnQuitDuringRepeat(t *testing.T) {
	cfg := config.Default()
	cfg.Slots, cfg.Beans, cfg.Mode = 4, 3, config.ModeSkill
	cfg.Repeat, cfg.DelayMS = 3, 20

	s, events, b, beans := tuiFixture(t, &cfg)
	b.Emit = func(ev board.Event) {
		// Press q as soon as the second pass starts.
		if ev.Type == "Repeat" {
			s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
		}
	}
	res, err := animateOn(context.Background(), s, events, &cfg, b, beans, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rounds) != 1 {
		t.Fatalf("quit key ignored: %d rounds completed", len(res.Rounds))
	}
}

func TestWriteResultSkipsEmptyPath(t *testing.T) {
	if err := writeResult("", experiment.Result{}); err != nil {
		t.Fatal(err)
	}
}
