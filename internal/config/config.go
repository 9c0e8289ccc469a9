package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"walkcore/internal/loop"
	"walkcore/internal/player"
)

//go:embed default.yaml
var DEFAULT []byte

type Player struct {
	Gravity         float64 `yaml:"gravity"`
	Radius          float64 `yaml:"radius"`
	Height          float64 `yaml:"height"`
	JumpSpeed       float64 `yaml:"jump_speed"`
	GroundAccel     float64 `yaml:"ground_accel"`
	AirAccel        float64 `yaml:"air_accel"`
	Damping         float64 `yaml:"damping"`
	AirDampingScale float64 `yaml:"air_damping_scale"`
	DepthEpsilon    float64 `yaml:"depth_epsilon"`
	JumpMode        string  `yaml:"jump_mode"`
	Unready         string  `yaml:"unready"`
}

type Physics struct {
	ContactMode   string  `yaml:"contact_mode"`
	StepsPerFrame int     `yaml:"steps_per_frame"`
	MaxFrameTime  float64 `yaml:"max_frame_time"`
}

type World struct {
	Level        string  `yaml:"level"`
	Model        string  `yaml:"model"`
	ModelScale   float64 `yaml:"model_scale"`
	RespawnBelow float64 `yaml:"respawn_below"`
}

type Window struct {
	Title            string  `yaml:"title"`
	Width            int32   `yaml:"width"`
	Height           int32   `yaml:"height"`
	FPS              int32   `yaml:"fps"`
	FOV              float64 `yaml:"fov"`
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Config struct {
	Player  Player  `yaml:"player"`
	Physics Physics `yaml:"physics"`
	World   World   `yaml:"world"`
	Window  Window  `yaml:"window"`
	Log     Log     `yaml:"log"`
}

func decode(data []byte, config *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Process starts from the built-in defaults and applies the provided
// configuration files in order, so later files override earlier ones.
func Process(configPaths []string) (*Config, error) {
	config := Config{}
	if err := decode(DEFAULT, &config); err != nil {
		return nil, fmt.Errorf("invalid default config file: %v", err)
	}

	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf(
				"could not process config file %s: %v",
				path,
				err,
			)
		}

		if err := decode(data, &config); err != nil {
			return nil, fmt.Errorf(
				"could not merge config file %s: %v",
				path,
				err,
			)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	pc, err := c.PlayerConfig()
	if err != nil {
		return err
	}
	if err := pc.Validate(); err != nil {
		return fmt.Errorf("player: %w", err)
	}

	opts, err := c.DriverOptions(mgl64.Vec3{})
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("physics: %w", err)
	}

	if !(c.World.ModelScale > 0) || math.IsInf(c.World.ModelScale, 0) {
		return fmt.Errorf("world: model scale must be positive, got %g", c.World.ModelScale)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

func (c *Config) PlayerConfig() (player.Config, error) {
	mode, err := player.ParseJumpMode(c.Player.JumpMode)
	if err != nil {
		return player.Config{}, fmt.Errorf("player: %w", err)
	}
	p := c.Player
	return player.Config{
		Gravity:         p.Gravity,
		Radius:          p.Radius,
		Height:          p.Height,
		JumpSpeed:       p.JumpSpeed,
		GroundAccel:     p.GroundAccel,
		AirAccel:        p.AirAccel,
		DampingRate:     p.Damping,
		AirDampingScale: p.AirDampingScale,
		DepthEpsilon:    p.DepthEpsilon,
		JumpMode:        mode,
	}, nil
}

// DriverOptions returns the frame driver settings for a player spawning
// at spawn.
func (c *Config) DriverOptions(spawn mgl64.Vec3) (loop.Options, error) {
	unready, err := loop.ParseUnreadyPolicy(c.Player.Unready)
	if err != nil {
		return loop.Options{}, fmt.Errorf("player: %w", err)
	}
	contact, err := loop.ParseContactMode(c.Physics.ContactMode)
	if err != nil {
		return loop.Options{}, fmt.Errorf("physics: %w", err)
	}
	return loop.Options{
		StepsPerFrame: c.Physics.StepsPerFrame,
		MaxFrameTime:  c.Physics.MaxFrameTime,
		Unready:       unready,
		Contact:       contact,
		RespawnBelow:  c.World.RespawnBelow,
		Spawn:         spawn,
	}, nil
}

func (c *Config) LogLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log: %w", err)
	}
	return level, nil
}
