package experiment

import (
	"context"
	"sync"
	"time"

	"galton/internal/config"
	"galton/internal/util"
)

type Summary struct {
	Runs        int       `json:"runs"`
	Slots       int       `json:"slots"`
	Beans       int       `json:"beans"`
	Mode        string    `json:"mode"`
	Totals      []int     `json:"totals"`
	MeanPerSlot []float64 `json:"mean_per_slot"`
	AvgSlot     float64   `json:"avg_slot"`
	AvgSteps    float64   `json:"avg_steps"`
}

// runSeed spaces per-run seeds so every run is reproducible regardless of
// which worker picks it up.
func runSeed(seed int64, i int) int64 { return seed + int64(i)*7919 }

// RunBatch runs cfg.Runs independent experiments on cfg.Workers goroutines
// and aggregates their slot counts.
func RunBatch(ctx context.Context, cfg config.Config) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	st := Summary{
		Runs:   cfg.Runs,
		Slots:  cfg.Slots,
		Beans:  cfg.Beans,
		Mode:   cfg.Mode,
		Totals: make([]int, cfg.Slots),
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	var (
		mu       sync.Mutex
		firstErr error
		sumSteps int
	)
	avgs := make([]float64, cfg.Runs)
	wg := sync.WaitGroup{}
	jobs := make(chan int)
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				_, res, err := RunConfig(&cfg, util.New(runSeed(cfg.Seed, i)), RunOptions{})
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				for k, v := range res.Slots {
					st.Totals[k] += v
				}
				avgs[i] = res.Average
				sumSteps += res.Steps
				mu.Unlock()
			}
		}()
	}
feed:
	for i := 0; i < cfg.Runs; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if firstErr != nil {
		return Summary{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	st.MeanPerSlot = make([]float64, cfg.Slots)
	for k, v := range st.Totals {
		st.MeanPerSlot[k] = float64(v) / float64(cfg.Runs)
	}
	sumAvg := 0.0
	for _, a := range avgs {
		sumAvg += a
	}
	st.AvgSlot = sumAvg / float64(cfg.Runs)
	st.AvgSteps = float64(sumSteps) / float64(cfg.Runs)
	return st, nil
}
