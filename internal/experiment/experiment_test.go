package experiment

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"galton/internal/bean"
	"galton/internal/board"
	"galton/internal/config"
	"galton/internal/util"
)

func testConfig(mode string) config.Config {
	c := config.Default()
	c.Slots = 6
	c.Beans = 120
	c.Mode = mode
	c.Seed = 2024
	c.Runs = 12
	c.Workers = 3
	return c
}

func TestRunSkillRepeatsIdentically(t *testing.T) {
	cfg := testConfig(config.ModeSkill)
	cfg.Repeat = 2
	_, res, err := RunConfig(&cfg, util.New(cfg.Seed), RunOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rounds) != 3 {
		t.Fatalf("got %d rounds", len(res.Rounds))
	}
	for i := 1; i < len(res.Rounds); i++ {
		if !reflect.DeepEqual(res.Rounds[0].Slots, res.Rounds[i].Slots) {
			t.Fatalf("round %d slots %v differ from %v", i, res.Rounds[i].Slots, res.Rounds[0].Slots)
		}
	}
	if res.Settled != cfg.Beans {
		t.Errorf("settled=%d", res.Settled)
	}
}

func TestRunHalfAndSteps(t *testing.T) {
	b, _ := board.New(4)
	beans := make([]*bean.Bean, 0, 5)
	for _, s := range []int{0, 1, 2, 3, 3} {
		bn, _ := bean.NewSkill(4, s, nil)
		beans = append(beans, bn)
	}
	calls := 0
	res, err := Run(b, beans, RunOptions{Half: config.HalfUpper, Record: true, OnStep: func(*board.Board) { calls++ }})
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 0, 1, 2}; !reflect.DeepEqual(res.Slots, want) {
		t.Errorf("slots=%v, want %v", res.Slots, want)
	}
	if res.Steps != 5+4-2 || calls != res.Steps {
		t.Errorf("steps=%d calls=%d", res.Steps, calls)
	}
	if len(res.Events) == 0 || res.Events[0].Type != "Reset" {
		t.Errorf("events=%v", res.Events)
	}
	if b.Emit != nil {
		t.Error("recording hook left on board")
	}
}

func TestRunRejectsUnknownHalf(t *testing.T) {
	b, _ := board.New(2)
	if _, err := Run(b, nil, RunOptions{Half: "middle"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunBatchDeterministic(t *testing.T) {
	for _, mode := range []string{config.ModeLuck, config.ModeSkill} {
		cfg := testConfig(mode)
		a, err := RunBatch(context.Background(), cfg)
		if err != nil {
			t.Fatal(err)
		}
		cfg.Workers = 1
		b, err := RunBatch(context.Background(), cfg)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("%s: batch results depend on workers:\n%+v\n%+v", mode, a, b)
		}
		total := 0
		for _, v := range a.Totals {
			total += v
		}
		if total != cfg.Runs*cfg.Beans {
			t.Errorf("%s: %d beans counted, want %d", mode, total, cfg.Runs*cfg.Beans)
		}
		if a.AvgSlot < 1.5 || a.AvgSlot > 3.5 {
			t.Errorf("%s: avg slot %v far from centre", mode, a.AvgSlot)
		}
	}
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := testConfig(config.ModeLuck)
	cfg.Runs = 1000
	if _, err := RunBatch(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
}

func TestRunBatchInvalid(t *testing.T) {
	cfg := testConfig(config.ModeLuck)
	cfg.Runs = 0
	if _, err := RunBatch(context.Background(), cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("err=%v", err)
	}
}

func TestMarshalPretty(t *testing.T) {
	var out Summary
	in := Summary{Runs: 2, Totals: []int{1, 2}}
	if err := json.Unmarshal(MarshalPretty(in), &out); err != nil {
		t.Fatal(err)
	}
	if out.Runs != 2 || len(out.Totals) != 2 {
		t.Errorf("got %+v", out)
	}
}
