package world

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"walkcore/internal/physics"
)

//go:embed levels/default.yaml
var defaultLevel []byte

// Level is a scene built from procedural shapes.
type Level struct {
	Name   string     `yaml:"name"`
	Spawn  [3]float64 `yaml:"spawn"`
	Shapes []Shape    `yaml:"shapes"`
}

// DefaultLevel returns the built-in courtyard.
func DefaultLevel() *Level {
	lvl, err := ParseLevel(defaultLevel)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in level: %v", err))
	}
	return lvl
}

func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lvl, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return lvl, nil
}

func ParseLevel(data []byte) (*Level, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var lvl Level
	if err := dec.Decode(&lvl); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse level: empty document")
		}
		return nil, fmt.Errorf("parse level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	if !physics.Finite(l.Spawn) {
		return fmt.Errorf("level %q: non-finite spawn", l.Name)
	}
	for _, s := range l.Shapes {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (l *Level) SpawnPoint() mgl64.Vec3 {
	return mgl64.Vec3(l.Spawn)
}

// Triangles returns the surfaces of every collidable shape.
func (l *Level) Triangles(ctx context.Context) ([]physics.Triangle, error) {
	var tris []physics.Triangle
	for _, s := range l.Shapes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.Kind.Collidable() {
			continue
		}
		tris = append(tris, s.Triangles()...)
	}
	return tris, nil
}

