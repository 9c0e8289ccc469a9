package world

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"walkcore/internal/physics"
)

// Provider supplies the static world triangles.
type Provider interface {
	Triangles(ctx context.Context) ([]physics.Triangle, error)
}

type ProviderFunc func(ctx context.Context) ([]physics.Triangle, error)

func (f ProviderFunc) Triangles(ctx context.Context) ([]physics.Triangle, error) {
	return f(ctx)
}

// Static is a fixed triangle list.
type Static []physics.Triangle

func (s Static) Triangles(context.Context) ([]physics.Triangle, error) {
	return s, nil
}

var ErrNotReady = errors.New("world: index not ready")

// Pending is the result of an index build that may still be running.
type Pending struct {
	done  chan struct{}
	index *physics.Index
	err   error
}

// Build loads the provider's triangles and builds the spatial index on a
// separate goroutine.
func Build(ctx context.Context, provider Provider) *Pending {
	p := &Pending{done: make(chan struct{})}

	go func() {
		defer close(p.done)
		start := time.Now()

		tris, err := provider.Triangles(ctx)
		if err != nil {
			p.err = fmt.Errorf("load world geometry: %w", err)
			return
		}

		index := physics.NewIndex(tris)
		log.Info().
			Int("triangles", index.TriangleCount()).
			Int("dropped", index.Dropped()).
			Int("depth", index.Depth()).
			Dur("took", time.Since(start)).
			Msg("world index built")
		p.index = index
	}()

	return p
}

// Done returns an already completed build.
func Done(index *physics.Index, err error) *Pending {
	p := &Pending{done: make(chan struct{}), index: index, err: err}
	close(p.done)
	return p
}

func (p *Pending) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Result returns the built index without blocking, or ErrNotReady.
func (p *Pending) Result() (*physics.Index, error) {
	if !p.Ready() {
		return nil, ErrNotReady
	}
	return p.index, p.err
}

func (p *Pending) Wait(ctx context.Context) (*physics.Index, error) {
	select {
	case <-p.done:
		return p.index, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
