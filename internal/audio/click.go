package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	clickLen   = 40 * time.Millisecond
	baseFreq   = 220.0
)

// Freq is the pitch for slot i of width: one octave from the left slot to
// the right one.
func Freq(slot, width int) float64 {
	if width <= 1 {
		return baseFreq
	}
	return baseFreq * math.Pow(2, float64(slot)/float64(width-1))
}

// Tone is the short click played when a bean lands in slot.
func Tone(slot, width int) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, Freq(slot, width))
	if err != nil {
		return nil, err
	}
	return beep.Take(sampleRate.N(clickLen), sine), nil
}

// Clicker plays a tone per settled bean. Until Init succeeds Click is a no-op.
type Clicker struct {
	mu          sync.Mutex
	initialized bool
}

func (c *Clicker) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *Clicker) Click(slot, width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	if tone, err := Tone(slot, width); err == nil {
		speaker.Play(tone)
	}
}

func (c *Clicker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		speaker.Close()
		c.initialized = false
	}
}
