package board

import (
	"errors"
	"fmt"
)

var ErrInvariant = errors.New("board: invariant violated")

// Check verifies the board's bookkeeping: slot counts match the settled
// beans, settled beans are ordered by slot and then by arrival, no bean is
// lost, every in-flight position is legal and the occupied rows are exactly
// the active window.
func (b *Board) Check() error {
	sum := 0
	for i, c := range b.slots {
		if c < 0 {
			return fmt.Errorf("%w: slot %d has count %d", ErrInvariant, i, c)
		}
		sum += c
	}
	if sum != len(b.settled) {
		return fmt.Errorf("%w: slots hold %d beans, %d settled", ErrInvariant, sum, len(b.settled))
	}
	if len(b.landed) != len(b.settled) {
		return fmt.Errorf("%w: %d landings for %d settled beans", ErrInvariant, len(b.landed), len(b.settled))
	}
	perSlot := make([]int, b.width)
	for i, l := range b.landed {
		if l.slot < 0 || l.slot >= b.width {
			return fmt.Errorf("%w: settled bean %d in slot %d", ErrInvariant, i, l.slot)
		}
		perSlot[l.slot]++
		if i == 0 {
			continue
		}
		prev := b.landed[i-1]
		if l.slot < prev.slot {
			return fmt.Errorf("%w: settled bean %d in slot %d after slot %d", ErrInvariant, i, l.slot, prev.slot)
		}
		if l.slot == prev.slot && l.seq < prev.seq {
			return fmt.Errorf("%w: slot %d holds arrival %d before %d", ErrInvariant, l.slot, prev.seq, l.seq)
		}
	}
	for i, c := range perSlot {
		if c != b.slots[i] {
			return fmt.Errorf("%w: slot %d counts %d, %d beans landed there", ErrInvariant, i, b.slots[i], c)
		}
	}
	if n := len(b.pending) + len(b.inFlight) + len(b.settled); n != b.total {
		return fmt.Errorf("%w: %d beans accounted for, %d total", ErrInvariant, n, b.total)
	}
	for y, x := range b.posMap {
		inWindow := y >= b.offset && y < b.offset+len(b.inFlight)
		if x == NoBean {
			if inWindow {
				return fmt.Errorf("%w: row %d empty inside window [%d,%d)", ErrInvariant, y, b.offset, b.offset+len(b.inFlight))
			}
			continue
		}
		if !inWindow {
			return fmt.Errorf("%w: row %d occupied outside window [%d,%d)", ErrInvariant, y, b.offset, b.offset+len(b.inFlight))
		}
		if x < 0 || x > y {
			return fmt.Errorf("%w: row %d holds illegal x %d", ErrInvariant, y, x)
		}
	}
	return nil
}
