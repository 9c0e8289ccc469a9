// Package replay records the per-frame inputs of a session together with
// the resulting player pose, and re-simulates recordings to check that the
// movement code is deterministic.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"

	"walkcore/internal/loop"
	"walkcore/internal/player"
)

const Version = 2

var (
	ErrVersion = errors.New("replay: unsupported version")
	// ErrModelSession is returned by Verify for sessions recorded on a
	// model file, whose geometry needs a graphics context to load.
	ErrModelSession = errors.New("replay: recorded on a model, not a level")
)

// Sample is one rendered frame.
type Sample struct {
	Elapsed float64 `msgpack:"dt"`
	Yaw     float64 `msgpack:"yaw"`
	Forward float64 `msgpack:"fwd"`
	Strafe  float64 `msgpack:"str"`
	Jump    bool    `msgpack:"jmp"`
	Ready   bool    `msgpack:"rdy"`

	// Teleport is the feet position the player was moved to before this
	// frame was driven, by a respawn or a teleport action.
	Teleport *[3]float64 `msgpack:"tp,omitempty"`

	Head     [3]float64 `msgpack:"head"`
	Velocity [3]float64 `msgpack:"vel"`
	OnFloor  bool       `msgpack:"floor"`
}

func (s Sample) Axes() player.Axes {
	return player.Axes{Forward: s.Forward, Strafe: s.Strafe, Jump: s.Jump}
}

type Recording struct {
	Version    int        `msgpack:"v"`
	Level      string     `msgpack:"level"`
	Model      string     `msgpack:"model,omitempty"`
	ModelScale float64    `msgpack:"scale,omitempty"`
	Spawn      [3]float64 `msgpack:"spawn"`
	Frames     []Sample   `msgpack:"frames"`
}

// Recorder accumulates samples in memory.
type Recorder struct {
	rec      Recording
	teleport *[3]float64
}

func NewRecorder(level string, spawn mgl64.Vec3) *Recorder {
	return &Recorder{rec: Recording{Version: Version, Level: level, Spawn: spawn}}
}

// SetModel marks the session as played on a model file instead of the
// level geometry.
func (r *Recorder) SetModel(path string, scale float64) {
	r.rec.Model = path
	r.rec.ModelScale = scale
}

// Teleported notes that the player was moved to feet outside the frame
// driver. It is stored with the next recorded frame.
func (r *Recorder) Teleported(feet mgl64.Vec3) {
	p := [3]float64(feet)
	r.teleport = &p
}

// Record appends the frame that was driven with the given inputs.
func (r *Recorder) Record(elapsed, yaw float64, axes player.Axes, frame loop.Frame, velocity mgl64.Vec3) {
	r.rec.Frames = append(r.rec.Frames, Sample{
		Elapsed:  elapsed,
		Yaw:      yaw,
		Forward:  axes.Forward,
		Strafe:   axes.Strafe,
		Jump:     axes.Jump,
		Ready:    frame.Ready,
		Teleport: r.teleport,
		Head:     frame.Camera,
		Velocity: velocity,
		OnFloor:  frame.OnFloor,
	})
	r.teleport = nil
}

func (r *Recorder) Len() int {
	return len(r.rec.Frames)
}

func (r *Recorder) Recording() *Recording {
	return &r.rec
}

func Write(w io.Writer, rec *Recording) error {
	return msgpack.NewEncoder(w).Encode(rec)
}

func Read(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode replay: %w", err)
	}
	if rec.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}
	return &rec, nil
}

func Save(path string, rec *Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, rec); err != nil {
		f.Close()
		return fmt.Errorf("write replay %s: %w", path, err)
	}
	return f.Close()
}

func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
