package board

// UpperHalf keeps the upper half of the settled beans and drops the rest,
// starting from slot 0. With an odd count the kept half is the larger one:
// 3 beans keep 2. Dropped beans leave the board; Repeat only brings back
// the kept half.
func (b *Board) UpperHalf() {
	drop := len(b.settled) / 2
	if drop == 0 {
		return
	}
	b.settled = append(b.settled[:0:0], b.settled[drop:]...)
	b.landed = append(b.landed[:0:0], b.landed[drop:]...)
	b.total -= drop
	b.trimSlots(drop, 0, 1)
	b.emit("Truncate", map[string]any{"half": "upper", "dropped": drop, "kept": len(b.settled)})
}

// LowerHalf keeps the lower half of the settled beans, dropping from the
// highest slot down.
func (b *Board) LowerHalf() {
	drop := len(b.settled) / 2
	if drop == 0 {
		return
	}
	b.settled = append(b.settled[:0:0], b.settled[:len(b.settled)-drop]...)
	b.landed = append(b.landed[:0:0], b.landed[:len(b.landed)-drop]...)
	b.total -= drop
	b.trimSlots(drop, b.width-1, -1)
	b.emit("Truncate", map[string]any{"half": "lower", "dropped": drop, "kept": len(b.settled)})
}

// trimSlots removes n beans from the slot counts, scanning from slot start
// in direction dir. Empty slots are skipped and whole slots are emptied
// until the remainder fits inside one slot.
func (b *Board) trimSlots(n, start, dir int) {
	for i := start; n > 0 && i >= 0 && i < b.width; i += dir {
		if b.slots[i] == 0 {
			continue
		}
		if b.slots[i] <= n {
			n -= b.slots[i]
			b.slots[i] = 0
			continue
		}
		b.slots[i] -= n
		n = 0
	}
}
