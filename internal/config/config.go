package config

import (
	"errors"
	"fmt"
)

const (
	ModeLuck  = "luck"
	ModeSkill = "skill"

	HalfUpper = "upper"
	HalfLower = "lower"
)

var ErrInvalid = errors.New("config: invalid")

// Config describes one experiment: the board, its beans and how to run it.
type Config struct {
	Slots   int    `yaml:"slots" json:"slots"`
	Beans   int    `yaml:"beans" json:"beans"`
	Mode    string `yaml:"mode" json:"mode"`
	Debug   bool   `yaml:"debug" json:"debug"`
	Seed    int64  `yaml:"seed" json:"seed"`
	Half    string `yaml:"half" json:"half,omitempty"` // "", upper or lower
	Repeat  int    `yaml:"repeat" json:"repeat"`
	Runs    int    `yaml:"runs" json:"runs"`
	Workers int    `yaml:"workers" json:"workers"`
	DelayMS int    `yaml:"delay_ms" json:"delay_ms"`
	Sound   bool   `yaml:"sound" json:"sound"`
}

func Default() Config {
	return Config{
		Slots:   10,
		Beans:   400,
		Mode:    ModeLuck,
		Runs:    1,
		Workers: 8,
		DelayMS: 60,
	}
}

func (c *Config) Luck() bool { return c.Mode == ModeLuck }

func (c *Config) Validate() error {
	if c.Slots < 1 {
		return fmt.Errorf("%w: slots must be positive, got %d", ErrInvalid, c.Slots)
	}
	if c.Beans < 0 {
		return fmt.Errorf("%w: beans must not be negative, got %d", ErrInvalid, c.Beans)
	}
	switch c.Mode {
	case ModeLuck, ModeSkill:
	default:
		return fmt.Errorf("%w: mode %q, want luck or skill", ErrInvalid, c.Mode)
	}
	switch c.Half {
	case "", HalfUpper, HalfLower:
	default:
		return fmt.Errorf("%w: half %q, want upper or lower", ErrInvalid, c.Half)
	}
	if c.Repeat < 0 {
		return fmt.Errorf("%w: repeat must not be negative, got %d", ErrInvalid, c.Repeat)
	}
	if c.Runs < 1 {
		return fmt.Errorf("%w: runs must be positive, got %d", ErrInvalid, c.Runs)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	}
	if c.DelayMS < 0 {
		return fmt.Errorf("%w: delay_ms must not be negative, got %d", ErrInvalid, c.DelayMS)
	}
	return nil
}
