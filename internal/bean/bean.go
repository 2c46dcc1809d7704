package bean

import (
	"errors"
	"fmt"
	"math"
)

type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Right {
		return "right"
	}
	return "left"
}

var (
	ErrBadWidth = errors.New("bean: width must be positive")
	ErrNilRand  = errors.New("bean: nil random source")
)

// Rand is the subset of *rand.Rand a bean draws from.
type Rand interface {
	Intn(n int) int
	NormFloat64() float64
}

type policy interface{ isPolicy() }

type luckPolicy struct{}

type skillPolicy struct {
	initial   int
	remaining int
}

func (luckPolicy) isPolicy()   {}
func (*skillPolicy) isPolicy() {}

// Bean falls through the board making one left/right choice per peg.
// A luck bean flips a fair coin; a skill bean goes right until its skill
// is used up and left from then on.
type Bean struct {
	width  int
	rng    Rand
	policy policy
}

// New draws a bean for a board of the given width. Skill beans get
// round(N(width/2, sqrt(width/4))).
func New(width int, luck bool, rng Rand) (*Bean, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadWidth, width)
	}
	if rng == nil {
		return nil, ErrNilRand
	}
	if luck {
		return &Bean{width: width, rng: rng, policy: luckPolicy{}}, nil
	}
	avg := float64(width) * 0.5
	stdev := math.Sqrt(float64(width) * 0.5 * (1 - 0.5))
	skill := int(math.Round(rng.NormFloat64()*stdev + avg))
	return NewSkill(width, skill, rng)
}

// NewSkill builds a skill bean with a fixed skill level. Skill beans never
// draw from rng, so it may be nil.
func NewSkill(width, skill int, rng Rand) (*Bean, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadWidth, width)
	}
	return &Bean{width: width, rng: rng, policy: &skillPolicy{initial: skill, remaining: skill}}, nil
}

// NewSet builds n beans sharing rng.
func NewSet(width, n int, luck bool, rng Rand) ([]*Bean, error) {
	beans := make([]*Bean, 0, n)
	for i := 0; i < n; i++ {
		b, err := New(width, luck, rng)
		if err != nil {
			return nil, err
		}
		beans = append(beans, b)
	}
	return beans, nil
}

func (b *Bean) Width() int { return b.width }

func (b *Bean) IsLuck() bool {
	_, ok := b.policy.(luckPolicy)
	return ok
}

// Skill reports the initial skill level; ok is false for luck beans.
func (b *Bean) Skill() (int, bool) {
	if p, ok := b.policy.(*skillPolicy); ok {
		return p.initial, true
	}
	return 0, false
}

// Choose returns the direction taken at the next peg.
func (b *Bean) Choose() Direction {
	switch p := b.policy.(type) {
	case luckPolicy:
		if b.rng.Intn(2) == 0 {
			return Left
		}
		return Right
	case *skillPolicy:
		if p.remaining > 0 {
			p.remaining--
			return Right
		}
		return Left
	}
	panic(fmt.Sprintf("bean: unknown policy %T", b.policy))
}

// Restart gives a skill bean its full skill back; luck beans are unaffected.
func (b *Bean) Restart() {
	if p, ok := b.policy.(*skillPolicy); ok {
		p.remaining = p.initial
	}
}
