package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"galton/internal/board"
)

const barHeight = 8

var (
	pegStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	beanStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	barStyle    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorBlue)
)

// PegCell maps board coordinate (x, y) to its screen cell. Row 0 of the
// screen is the status line.
func PegCell(width, x, y int) (col, row int) {
	return 1 + (width - 1 - y) + 2*x, y + 1
}

// SlotCol is the screen column of slot i, under the last row of pegs.
func SlotCol(width, i int) int {
	col, _ := PegCell(width, i, width-1)
	return col
}

func drawText(s tcell.Screen, col, row int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(col+i, row, r, nil, style)
	}
}

// Draw paints the board: pegs, in-flight beans, a bar per slot and a status line.
func Draw(s tcell.Screen, b *board.Board) {
	s.Clear()
	w := b.Width()
	drawText(s, 0, 0, statusStyle, fmt.Sprintf("step %d  pending %d  falling %d  settled %d  avg %.2f",
		b.Steps(), b.Pending(), b.InFlight(), b.Settled(), b.Average()))

	for y := 0; y < w; y++ {
		bx, _ := b.InFlightX(y)
		for x := 0; x <= y; x++ {
			col, row := PegCell(w, x, y)
			if x == bx {
				s.SetContent(col, row, 'o', nil, beanStyle)
			} else {
				s.SetContent(col, row, '.', nil, pegStyle)
			}
		}
	}

	slots := b.Slots()
	peak := 0
	for _, c := range slots {
		peak = max(peak, c)
	}
	base := w + 1 + barHeight
	for i, c := range slots {
		h := 0
		if peak > 0 {
			h = (c*barHeight + peak - 1) / peak
		}
		col := SlotCol(w, i)
		for k := 0; k < h; k++ {
			s.SetContent(col, base-k, '#', nil, barStyle)
		}
	}
	drawText(s, 0, base+1, tcell.StyleDefault, b.SlotString())
	s.Show()
}

// ErrQuit is returned by Animate when the user asks to stop.
var ErrQuit = errors.New("view: quit")

// PollEvents forwards screen events until the screen is finalized or done
// is closed. One poller should serve a screen for its whole life.
func PollEvents(s tcell.Screen, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

// Animate advances b once per delay and redraws until the board settles.
// It returns ErrQuit when the user presses q or Esc or events is closed,
// and ctx.Err() when ctx is cancelled.
func Animate(ctx context.Context, s tcell.Screen, events <-chan tcell.Event, b *board.Board, delay time.Duration) error {
	if delay <= 0 {
		delay = time.Millisecond
	}
	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	Draw(s, b)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return ErrQuit
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return ErrQuit
				}
			case *tcell.EventResize:
				s.Sync()
			}
		case <-ticker.C:
			more := b.AdvanceStep()
			Draw(s, b)
			if !more {
				return nil
			}
		}
	}
}
