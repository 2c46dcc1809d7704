package board

import (
	"errors"
	"fmt"

	"galton/internal/bean"
)

// NoBean marks a row with no bean in flight.
const NoBean = -1

var (
	ErrBadWidth       = errors.New("board: width must be positive")
	ErrRowOutOfRange  = errors.New("board: row out of range")
	ErrSlotOutOfRange = errors.New("board: slot out of range")
	ErrWidthMismatch  = errors.New("board: bean built for a different width")
	ErrNilBean        = errors.New("board: nil bean")
)

// landing records where and in which order a settled bean arrived.
type landing struct {
	slot int
	seq  int
}

type Event struct {
	Step    int            `json:"step"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Board is a Galton board of Width rows and Width slots. Row y holds at most
// one in-flight bean at x in [0, y]. In-flight beans occupy the contiguous
// rows [offset, offset+len(inFlight)); inFlight[0] is the shallowest.
type Board struct {
	width int

	slots    []int
	posMap   []int
	pending  []*bean.Bean
	inFlight []*bean.Bean
	settled  []*bean.Bean
	landed   []landing // parallel to settled
	arrivals int
	offset   int
	total    int
	step     int

	Emit func(Event)
}

func New(width int) (*Board, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadWidth, width)
	}
	b := &Board{
		width:  width,
		slots:  make([]int, width),
		posMap: make([]int, width),
	}
	b.clearMap()
	return b, nil
}

func (b *Board) emit(typ string, payload map[string]any) {
	if b.Emit != nil {
		b.Emit(Event{Step: b.step, Type: typ, Payload: payload})
	}
}

func (b *Board) clearMap() {
	for i := range b.posMap {
		b.posMap[i] = NoBean
	}
}

// Reset discards all state and loads beans into the pending queue. The first
// bean is placed at the top straight away.
func (b *Board) Reset(beans []*bean.Bean) error {
	for i, bn := range beans {
		if bn == nil {
			return fmt.Errorf("%w at index %d", ErrNilBean, i)
		}
		if bn.Width() != b.width {
			return fmt.Errorf("%w: bean %d has width %d, board has %d", ErrWidthMismatch, i, bn.Width(), b.width)
		}
	}
	b.pending = make([]*bean.Bean, 0, len(beans))
	for _, bn := range beans {
		bn.Restart()
		b.pending = append(b.pending, bn)
	}
	b.inFlight = nil
	b.settled = nil
	b.landed = nil
	b.total = len(beans)
	b.emit("Reset", map[string]any{"beans": b.total})
	b.restartRun()
	return nil
}

// Repeat scoops every settled and in-flight bean back into the pending queue
// and starts over with the same beans.
func (b *Board) Repeat() {
	for _, bn := range b.settled {
		b.pending = append(b.pending, bn)
	}
	for _, bn := range b.inFlight {
		b.pending = append(b.pending, bn)
	}
	for _, bn := range b.pending {
		bn.Restart()
	}
	b.settled = nil
	b.landed = nil
	b.inFlight = nil
	b.emit("Repeat", map[string]any{"beans": b.total})
	b.restartRun()
}

func (b *Board) restartRun() {
	b.offset = 0
	b.step = 0
	b.arrivals = 0
	for i := range b.slots {
		b.slots[i] = 0
	}
	b.clearMap()
	b.admit()
}

// admit moves the next pending bean to the top row. It reports false when
// nothing is pending.
func (b *Board) admit() bool {
	if len(b.pending) == 0 {
		return false
	}
	next := b.pending[0]
	b.pending[0] = nil
	b.pending = b.pending[1:]
	b.posMap[b.offset] = 0
	b.inFlight = append([]*bean.Bean{next}, b.inFlight...)
	b.emit("Enter", map[string]any{"row": b.offset, "pending": len(b.pending)})
	return true
}

// AdvanceStep drops every in-flight bean one row, settles the bean leaving
// the last row and admits the next pending bean. It returns false once the
// board has nothing left to do.
func (b *Board) AdvanceStep() bool {
	if len(b.pending) == 0 && len(b.inFlight) == 0 {
		return false
	}
	b.step++

	if b.width == 1 {
		last := b.inFlight[len(b.inFlight)-1]
		b.inFlight = b.inFlight[:len(b.inFlight)-1]
		b.settle(last, 0)
		if !b.admit() {
			b.posMap[0] = NoBean
		}
		return true
	}

	// Deepest first: each write lands one row below the bean being read.
	for i := len(b.inFlight) - 1; i >= 0; i-- {
		y := b.offset + i
		x := b.posMap[y]
		if b.inFlight[i].Choose() == bean.Right {
			x++
		}
		b.posMap[y+1] = x
	}

	if x := b.posMap[b.width-1]; x != NoBean {
		last := b.inFlight[len(b.inFlight)-1]
		b.inFlight = b.inFlight[:len(b.inFlight)-1]
		b.posMap[b.width-1] = NoBean
		b.settle(last, x)
	}

	if !b.admit() {
		if b.offset < b.width {
			b.posMap[b.offset] = NoBean
		}
		b.offset++
		b.emit("Drain", map[string]any{"offset": b.offset})
	}
	return true
}

// settle records bn in slot x, after every bean already in that slot.
func (b *Board) settle(bn *bean.Bean, x int) {
	b.slots[x]++
	at := 0
	for i := 0; i <= x; i++ {
		at += b.slots[i]
	}
	at--
	b.settled = append(b.settled, nil)
	copy(b.settled[at+1:], b.settled[at:])
	b.settled[at] = bn
	b.landed = append(b.landed, landing{})
	copy(b.landed[at+1:], b.landed[at:])
	b.landed[at] = landing{slot: x, seq: b.arrivals}
	b.arrivals++
	b.emit("Settle", map[string]any{"slot": x, "count": b.slots[x]})
}

func (b *Board) Width() int    { return b.width }
func (b *Board) Total() int    { return b.total }
func (b *Board) Pending() int  { return len(b.pending) }
func (b *Board) InFlight() int { return len(b.inFlight) }
func (b *Board) Settled() int  { return len(b.settled) }
func (b *Board) Offset() int   { return b.offset }
func (b *Board) Steps() int    { return b.step }

// Done reports whether AdvanceStep has nothing left to do.
func (b *Board) Done() bool { return len(b.pending) == 0 && len(b.inFlight) == 0 }

// InFlightX returns the x position of the bean in row y, or NoBean.
func (b *Board) InFlightX(y int) (int, error) {
	if y < 0 || y >= b.width {
		return NoBean, fmt.Errorf("%w: %d (width %d)", ErrRowOutOfRange, y, b.width)
	}
	return b.posMap[y], nil
}

func (b *Board) SlotCount(i int) (int, error) {
	if i < 0 || i >= b.width {
		return 0, fmt.Errorf("%w: %d (width %d)", ErrSlotOutOfRange, i, b.width)
	}
	return b.slots[i], nil
}

// Slots returns a copy of the per-slot counts.
func (b *Board) Slots() []int {
	out := make([]int, len(b.slots))
	copy(out, b.slots)
	return out
}

// Average is the mean slot index of the settled beans, 0 when none have settled.
func (b *Board) Average() float64 {
	if len(b.settled) == 0 {
		return 0
	}
	n := float64(len(b.settled))
	avg := 0.0
	for i := 1; i < b.width; i++ {
		avg += float64(i) * (float64(b.slots[i]) / n)
	}
	return avg
}
