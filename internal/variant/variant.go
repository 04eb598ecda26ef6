// Package variant picks cosmetic variants (exhausts, fairings, extras) for
// newly spawned vehicles.
package variant

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/pkg/core"
)

// span is an inclusive range of variant codes.
type span struct {
	lo, hi int8
}

// policy returns the primary and secondary spans for a model whose highest
// variant index is n.
type policy func(n int8) (primary, secondary span)

func anyVariant(n int8) (span, span) {
	return span{core.VariantDefault, n}, span{core.VariantDefault, n}
}

// First three variants are exhausts, the rest fairings or trim.
func exhaustAndTrim(n int8) (span, span) {
	return span{core.VariantDefault, 2}, span{3, n}
}

// The extras are steering wheels, so the bare model is never picked.
func noDefault(n int8) (span, span) {
	return span{0, n}, span{0, n}
}

var policies = map[core.ModelID]policy{
	457: exhaustAndTrim, // caddy
	512: exhaustAndTrim, // cropduster
	522: exhaustAndTrim, // nrg-500
	581: exhaustAndTrim, // bf-400
	535: noDefault,      // slamvan
}

// Randomizer draws variant pairs. It is safe for concurrent use.
type Randomizer struct {
	mu   sync.Mutex
	seed func() uint64
}

// Option configures a Randomizer.
type Option func(*Randomizer)

// WithSeed replaces the per-call seed source.
func WithSeed(seed func() uint64) Option {
	return func(r *Randomizer) {
		r.seed = seed
	}
}

var calls atomic.Uint64

func clockSeed() uint64 {
	return uint64(time.Now().UnixNano()) ^ calls.Add(1)<<32
}

// New creates a Randomizer seeded from the clock.
func New(opts ...Option) *Randomizer {
	r := &Randomizer{seed: clockSeed}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PickVariants returns a variant pair for id. Models without variants, and
// invalid ids, get (VariantDefault, VariantDefault).
func (r *Randomizer) PickVariants(id core.ModelID) core.VariantPair {
	pair := core.VariantPair{Primary: core.VariantDefault, Secondary: core.VariantDefault}

	n := catalog.VariantRange(id)
	if n == catalog.NoVariants {
		return pair
	}

	p, ok := policies[id]
	if !ok {
		p = anyVariant
	}
	primary, secondary := p(int8(n))

	r.mu.Lock()
	defer r.mu.Unlock()

	// Reseeded on every call so picks do not follow the simulation's own seeding.
	s := r.seed()
	rng := rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))

	pair.Primary = draw(rng, primary)
	pair.Secondary = draw(rng, secondary)
	return pair
}

func draw(rng *rand.Rand, s span) int8 {
	if s.hi < s.lo {
		return core.VariantDefault
	}
	return s.lo + int8(rng.IntN(int(s.hi)-int(s.lo)+1))
}
