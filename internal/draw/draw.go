// Package draw selects cards from the catalog for a reading session.
package draw

import (
	"errors"
	"math/rand/v2"

	"github.com/conorfennell/arcana/internal/catalog"
	"github.com/conorfennell/arcana/internal/domain"
)

var (
	// ErrEmptyCatalog is returned when no deck is loaded. Callers must treat
	// this as a failure, not as a zero-card reading.
	ErrEmptyCatalog = errors.New("draw: catalog is empty")

	// ErrBadCount is returned when count is not in [1, catalog size].
	ErrBadCount = errors.New("draw: count out of range")
)

// Engine draws cards without replacement and assigns each an orientation.
// It has no side effects; results depend only on the catalog and RNG state.
type Engine struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
}

// New creates an engine with a freshly seeded RNG.
func New(cat *catalog.Catalog) *Engine {
	return NewWithRand(cat, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewWithRand creates an engine with the given RNG, for deterministic tests.
func NewWithRand(cat *catalog.Catalog, rng *rand.Rand) *Engine {
	return &Engine{catalog: cat, rng: rng}
}

// Draw selects count distinct cards uniformly at random. Each card
// independently receives an upright orientation with probability 0.5.
func (e *Engine) Draw(count int) ([]domain.DrawnCard, error) {
	if e.catalog == nil || e.catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}
	if count < 1 || count > e.catalog.Len() {
		return nil, ErrBadCount
	}

	cards := e.catalog.Cards()
	e.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	drawn := make([]domain.DrawnCard, count)
	for i := range count {
		drawn[i] = domain.DrawnCard{
			Card:      cards[i],
			IsUpright: e.rng.IntN(2) == 0,
		}
	}
	return drawn, nil
}
