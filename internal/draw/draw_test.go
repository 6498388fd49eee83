package draw

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/conorfennell/arcana/internal/catalog"
)

const testDeck = `[
	{"id": 1, "name": "The Fool", "image": "fool", "upright": "beginnings", "reversed": "recklessness"},
	{"id": 2, "name": "The Magician", "image": "magician", "upright": "will", "reversed": "manipulation"},
	{"id": 3, "name": "The Tower", "image": "tower", "upright": "upheaval", "reversed": "averted disaster"}
]`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse(strings.NewReader(testDeck))
	if err != nil {
		t.Fatalf("Failed to parse test deck: %v", err)
	}
	return cat
}

func testEngine(t *testing.T, seed uint64) *Engine {
	return NewWithRand(testCatalog(t), rand.New(rand.NewPCG(seed, seed)))
}

func TestDrawDistinctCards(t *testing.T) {
	engine := testEngine(t, 1)

	for range 200 {
		drawn, err := engine.Draw(3)
		if err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
		if len(drawn) != 3 {
			t.Fatalf("Expected 3 cards, but got %d", len(drawn))
		}
		seen := make(map[int]bool)
		for _, c := range drawn {
			if seen[c.ID] {
				t.Fatalf("Card id %d drawn twice in one session", c.ID)
			}
			seen[c.ID] = true
		}
	}
}

func TestDrawFullDeckIsPermutation(t *testing.T) {
	engine := testEngine(t, 2)

	drawn, err := engine.Draw(3)
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	ids := make(map[int]bool)
	for _, c := range drawn {
		ids[c.ID] = true
	}
	for _, want := range []int{1, 2, 3} {
		if !ids[want] {
			t.Errorf("Expected full-deck draw to contain card %d", want)
		}
	}
}

func TestDrawCountErrors(t *testing.T) {
	engine := testEngine(t, 3)

	for _, count := range []int{0, -1, 4} {
		if _, err := engine.Draw(count); err != ErrBadCount {
			t.Errorf("Draw(%d): expected ErrBadCount, but got %v", count, err)
		}
	}
}

func TestDrawEmptyCatalog(t *testing.T) {
	engine := NewWithRand(nil, rand.New(rand.NewPCG(4, 4)))
	if _, err := engine.Draw(1); err != ErrEmptyCatalog {
		t.Errorf("Expected ErrEmptyCatalog, but got %v", err)
	}
}

// Orientation should be an independent fair coin per card: over many single
// draws the upright fraction converges to 0.5.
func TestOrientationDistribution(t *testing.T) {
	engine := testEngine(t, 5)

	const draws = 10000
	upright := 0
	for range draws {
		drawn, err := engine.Draw(1)
		if err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
		if drawn[0].IsUpright {
			upright++
		}
	}

	ratio := float64(upright) / draws
	if math.Abs(ratio-0.5) > 0.03 {
		t.Errorf("Expected upright ratio near 0.5, but got %.3f", ratio)
	}
}

// Selection should not be biased toward catalog order.
func TestFirstCardNotBiased(t *testing.T) {
	engine := testEngine(t, 6)

	counts := make(map[int]int)
	const draws = 9000
	for range draws {
		drawn, err := engine.Draw(1)
		if err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
		counts[drawn[0].ID]++
	}

	expected := draws / 3
	for id, n := range counts {
		if math.Abs(float64(n-expected)) > float64(draws)*0.05 {
			t.Errorf("Card %d drawn %d times, expected around %d", id, n, expected)
		}
	}
}
