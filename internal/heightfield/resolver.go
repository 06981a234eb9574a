package heightfield

import (
	"context"
	"errors"
	"fmt"

	"Terrashade/internal/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultLocations are tried in order when none are configured.
var DefaultLocations = []string{"h2.png", "./h2.png", "/h2.png"}

// ErrNoLocations is reported when the resolver has nothing to try. It only
// selects the fallback field.
var ErrNoLocations = errors.New("no height-field locations")

// State is a resolver state.
type State int

const (
	Attempting State = iota
	Resolved
	FellBack
)

func (s State) String() string {
	switch s {
	case Attempting:
		return "attempting"
	case Resolved:
		return "resolved"
	case FellBack:
		return "fallback"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options configures a Resolver.
type Options struct {
	Locations     []string
	Fetcher       Fetcher
	MaxResolution int
	FallbackSize  int
}

// Resolver walks an ordered list of locations one attempt at a time and
// always ends with a usable field: the first location that decodes, or the
// radial fallback once every location has failed.
type Resolver struct {
	opts  Options
	state State
	index int
	field *Field
	src   string
	err   error
}

// NewResolver returns a resolver in Attempting(0), or already in the
// fallback state when there are no locations.
func NewResolver(opts Options) *Resolver {
	if opts.Fetcher == nil {
		opts.Fetcher = DefaultFetcher("")
	}
	r := &Resolver{opts: opts}
	if len(opts.Locations) == 0 {
		r.fallback(ErrNoLocations)
	}
	return r
}

// State returns the current state.
func (r *Resolver) State() State { return r.state }

// Attempt returns the index of the location being tried.
func (r *Resolver) Attempt() int { return r.index }

// Source names the location the field came from, or "fallback".
func (r *Resolver) Source() string { return r.src }

// Field returns the resolved field, nil while still attempting.
func (r *Resolver) Field() *Field { return r.field }

// Err collects the failures that led to the fallback. It is nil once a
// location resolved.
func (r *Resolver) Err() error { return r.err }

// Step performs one transition and reports whether the resolver can still
// move.
func (r *Resolver) Step(ctx context.Context) bool {
	if r.state != Attempting {
		return false
	}

	location := r.opts.Locations[r.index]
	field, err := r.load(ctx, location)
	if err == nil {
		r.state = Resolved
		r.field = field
		r.src = location
		r.err = nil
		logger.Log.Info("Height field resolved",
			zap.String("location", location),
			zap.Int("attempt", r.index),
			zap.Int("width", field.Width),
			zap.Int("height", field.Height))
		return false
	}

	logger.Log.Debug("Height field location failed",
		zap.String("location", location),
		zap.Int("attempt", r.index),
		zap.Error(err))
	r.err = multierr.Append(r.err, fmt.Errorf("%s: %w", location, err))

	r.index++
	if r.index >= len(r.opts.Locations) {
		r.fallback(r.err)
		return false
	}
	return true
}

// Resolve steps until a terminal state and returns the field.
func (r *Resolver) Resolve(ctx context.Context) *Field {
	for r.Step(ctx) {
	}
	return r.field
}

func (r *Resolver) load(ctx context.Context, location string) (*Field, error) {
	rc, err := r.opts.Fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	field, _, err := Decode(rc, r.opts.MaxResolution)
	return field, err
}

func (r *Resolver) fallback(cause error) {
	r.state = FellBack
	r.field = Fallback(r.opts.FallbackSize)
	r.src = "fallback"
	r.err = cause
	logger.Log.Warn("Height field unavailable, using radial fallback",
		zap.Strings("locations", r.opts.Locations),
		zap.Int("size", r.field.Width),
		zap.Error(cause))
}
