// Package feed produces the synthetic post records that drive a dashboard.
package feed

import (
	"errors"
	"fmt"
	"time"

	"github.com/webitel/social-dashboard/internal/domain/model"
)

// DefaultMaxAttempts bounds the identifier retry loop.
const DefaultMaxAttempts = 64

// ErrGenerationExhausted reports that no unused identifier was found within the retry budget.
var ErrGenerationExhausted = errors.New("feed: generation exhausted")

// Option configures a Generator.
type Option func(*Generator)

// WithSource replaces the random source.
func WithSource(src Source) Option {
	return func(g *Generator) { g.src = src }
}

// WithClock replaces the wall clock used for timestamps and minute-based spikes.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithMaxAttempts sets the identifier retry budget. Non-positive values keep the default.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithBoost overrides the variant's spike policy.
func WithBoost(p BoostPolicy) Option {
	return func(g *Generator) { g.boost = p }
}

// Generator emits one record per tick with an identifier unique for the generator's lifetime.
// It is not safe for concurrent use; the owning dashboard serializes ticks.
type Generator struct {
	variant     Variant
	src         Source
	now         func() time.Time
	boost       BoostPolicy
	maxAttempts int

	// seen grows for the lifetime of the generator and is never evicted.
	seen map[string]struct{}
}

func NewGenerator(v Variant, opts ...Option) *Generator {
	g := &Generator{
		variant:     v,
		src:         NewFakerSource(0),
		now:         time.Now,
		boost:       v.Boost,
		maxAttempts: DefaultMaxAttempts,
		seen:        make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.boost == nil {
		g.boost = NeverBoost()
	}
	return g
}

// Variant returns the variant the generator was built for.
func (g *Generator) Variant() Variant { return g.variant }

// Seen reports how many identifiers have been issued.
func (g *Generator) Seen() int { return len(g.seen) }

// Next produces the record for the given tick counter.
func (g *Generator) Next(tick uint64) (model.Record, error) {
	id, err := g.nextID()
	if err != nil {
		return model.Record{}, err
	}

	now := g.now()
	boost := 1
	if g.boost.Boosted(tick, now) {
		boost = g.variant.BoostFactor
	}

	rec := model.Record{
		ID:   id,
		Time: now.Format(model.TimeLayout),
	}
	if g.variant.fill != nil {
		g.variant.fill(g.src, tick, boost, &rec)
	}
	return rec, nil
}

func (g *Generator) nextID() (string, error) {
	for range g.maxAttempts {
		id := fmt.Sprintf("%s%d", g.variant.IDPrefix, g.src.Between(g.variant.IDMin, g.variant.IDMax))
		if _, dup := g.seen[id]; dup {
			continue
		}
		g.seen[id] = struct{}{}
		return id, nil
	}
	return "", fmt.Errorf("%w after %d attempts (%d identifiers issued)", ErrGenerationExhausted, g.maxAttempts, len(g.seen))
}
