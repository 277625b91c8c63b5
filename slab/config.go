package slab

import (
	"fmt"
	"math/bits"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMinBlock = 8
	DefaultMaxBlock = 4096
	maxBlockLimit   = 1 << 30
)

func alignPow2(x uint) uint {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(x-1)
}

// Config bounds the power-of-two size classes served from per-class free
// stacks. Requests above MaxBlock go to the span list directly.
type Config struct {
	MinBlock uint `yaml:"min_block"`
	MaxBlock uint `yaml:"max_block"`
}

func DefaultConfig() Config {
	return Config{MinBlock: DefaultMinBlock, MaxBlock: DefaultMaxBlock}
}

// LoadConfig decodes a YAML document. Missing keys take their defaults.
func LoadConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg = cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) normalize() Config {
	if c.MinBlock == 0 {
		c.MinBlock = DefaultMinBlock
	}
	if c.MaxBlock == 0 {
		c.MaxBlock = DefaultMaxBlock
	}
	c.MinBlock = alignPow2(c.MinBlock)
	c.MaxBlock = alignPow2(c.MaxBlock)
	return c
}

// Validate checks the bounds after rounding them up to powers of two.
func (c Config) Validate() error {
	c = c.normalize()
	if c.MaxBlock > maxBlockLimit {
		return fmt.Errorf("%w: max_block %d exceeds %d", ErrInvalidConfig, c.MaxBlock, maxBlockLimit)
	}
	if c.MinBlock > c.MaxBlock {
		return fmt.Errorf("%w: min_block %d larger than max_block %d", ErrInvalidConfig, c.MinBlock, c.MaxBlock)
	}
	return nil
}

func (c Config) numClasses() int {
	return bits.TrailingZeros(c.MaxBlock) - bits.TrailingZeros(c.MinBlock) + 1
}
