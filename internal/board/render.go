package board

import (
	"fmt"
	"strings"
)

// xspacing is the gap between pegs in the text rendering; odd values line up best.
const xspacing = 3

func (b *Board) indent(y int) int {
	root := (b.width-1)*(xspacing+1)/2 + (xspacing + 1)
	return root - (xspacing+1)/2*y
}

// SlotString renders the slot counts on one line.
func (b *Board) SlotString() string {
	var sb strings.Builder
	for _, c := range b.slots {
		fmt.Fprintf(&sb, "%*d", xspacing+1, c)
	}
	return sb.String()
}

// String renders the triangle with 1 where a bean is in flight and 0 at
// every other peg, followed by the slot counts.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.width; y++ {
		for x := 0; x <= y; x++ {
			pad := xspacing + 1
			if x == 0 {
				pad = b.indent(y)
			}
			flag := 0
			if b.posMap[y] == x {
				flag = 1
			}
			fmt.Fprintf(&sb, "%*d", pad, flag)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(b.SlotString())
	return sb.String()
}
