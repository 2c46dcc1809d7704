package config

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrUsage = errors.New("usage")

const Usage = `Usage: beancounter [flags] slot_count bean_count <luck | skill> [debug]
Example: beancounter 10 400 luck
Example: beancounter 20 1000 skill debug`

// ParseArgs applies the positional arguments to base. Any malformed
// argument yields an error wrapping ErrUsage and leaves base untouched.
func ParseArgs(base Config, args []string) (*Config, error) {
	if len(args) != 3 && len(args) != 4 {
		return nil, fmt.Errorf("%w: want 3 or 4 arguments, got %d", ErrUsage, len(args))
	}
	c := base
	slots, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: slot_count %q is not a number", ErrUsage, args[0])
	}
	beans, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bean_count %q is not a number", ErrUsage, args[1])
	}
	if beans < 0 {
		return nil, fmt.Errorf("%w: bean_count %d is negative", ErrUsage, beans)
	}
	switch args[2] {
	case ModeLuck, ModeSkill:
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrUsage, args[2])
	}
	c.Slots, c.Beans, c.Mode = slots, beans, args[2]
	c.Debug = len(args) == 4 && args[3] == "debug"
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return &c, nil
}
