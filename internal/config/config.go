package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dineshkummarc/oge/internal/core/observability/log"
)

// Body kinds understood by the scenario builder.
const (
	KindSolid  = "solid"
	KindGhost  = "ghost"
	KindPickup = "pickup"
	KindSensor = "sensor"
)

// Config is the root of a YAML configuration file.
type Config struct {
	World  WorldConfig  `json:"world" yaml:"world"`
	Server ServerConfig `json:"server" yaml:"server"`
	Bodies []BodyConfig `json:"bodies,omitempty" yaml:"bodies,omitempty"`
}

type WorldConfig struct {
	Width         float64 `json:"width" yaml:"width"`
	Height        float64 `json:"height" yaml:"height"`
	ZoneSize      float64 `json:"zone_size" yaml:"zone_size"`
	MaxSlideDepth int     `json:"max_slide_depth,omitempty" yaml:"max_slide_depth,omitempty"`
}

type ServerConfig struct {
	ListenAddr string        `json:"listen_addr" yaml:"listen_addr"`
	TickRate   time.Duration `json:"tick_rate" yaml:"tick_rate"`
	LogLevel   string        `json:"log_level" yaml:"log_level"`
}

type BodyConfig struct {
	Name      string           `json:"name" yaml:"name"`
	Kind      string           `json:"kind,omitempty" yaml:"kind,omitempty"`
	X         float64          `json:"x" yaml:"x"`
	Y         float64          `json:"y" yaml:"y"`
	Width     float64          `json:"width" yaml:"width"`
	Height    float64          `json:"height" yaml:"height"`
	Speed     int              `json:"speed,omitempty" yaml:"speed,omitempty"`
	Slide     bool             `json:"slide,omitempty" yaml:"slide,omitempty"`
	Active    bool             `json:"active,omitempty" yaml:"active,omitempty"`
	Direction *DirectionConfig `json:"direction,omitempty" yaml:"direction,omitempty"`
	Toward    *PointConfig     `json:"toward,omitempty" yaml:"toward,omitempty"`
}

type DirectionConfig struct {
	Cos float64 `json:"cos" yaml:"cos"`
	Sin float64 `json:"sin" yaml:"sin"`
}

type PointConfig struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Default returns a 640x480 world with 10-unit zones ticking at 30 Hz.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Width:         640,
			Height:        480,
			ZoneSize:      10,
			MaxSlideDepth: 4,
		},
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:8080",
			TickRate:   33 * time.Millisecond,
			LogLevel:   "info",
		},
	}
}

// LoadYAML decodes a config from r on top of Default and validates it.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and decodes the YAML file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// LogLevel parses Server.LogLevel.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.LevelInfo
	}
	return level
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	names := make(map[string]struct{}, len(c.Bodies))
	for i := range c.Bodies {
		b := &c.Bodies[i]
		if err := b.Validate(); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		if _, dup := names[b.Name]; dup {
			return fmt.Errorf("body %d: %w: %q", i, ErrDuplicateBody, b.Name)
		}
		names[b.Name] = struct{}{}
	}
	return nil
}

func (wc WorldConfig) Validate() error {
	if wc.Width <= 0 || wc.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidWorld, wc.Width, wc.Height)
	}
	if wc.ZoneSize <= 0 {
		return fmt.Errorf("%w: zone_size %g", ErrInvalidWorld, wc.ZoneSize)
	}
	if wc.MaxSlideDepth < 0 {
		return fmt.Errorf("%w: max_slide_depth %d", ErrInvalidWorld, wc.MaxSlideDepth)
	}
	return nil
}

func (sc ServerConfig) Validate() error {
	if sc.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate %s", ErrInvalidServer, sc.TickRate)
	}
	if _, err := log.ParseLevel(sc.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidServer, err)
	}
	return nil
}

func (bc *BodyConfig) Validate() error {
	if bc.Name == "" {
		return ErrMissingName
	}
	switch bc.Kind {
	case "":
		bc.Kind = KindSolid
	case KindSolid, KindGhost, KindPickup, KindSensor:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, bc.Kind)
	}
	if bc.Width <= 0 || bc.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidSize, bc.Width, bc.Height)
	}
	if bc.Speed < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSpeed, bc.Speed)
	}
	if bc.Direction != nil && bc.Toward != nil {
		return ErrConflictingHeading
	}
	return nil
}
