package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/conorfennell/arcana/internal/domain"
)

//go:embed deck/major_arcana.json
var defaultDeck []byte

// Catalog is the immutable set of cards loaded at startup.
type Catalog struct {
	cards []domain.Card
	byID  map[int]domain.Card
}

// Parse reads a deck from an io.Reader and validates it. The deck format is
// a JSON array of {id, name, image, upright, reversed} records.
func Parse(r io.Reader) (*Catalog, error) {
	var cards []domain.Card
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cards); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("deck contains no cards")
	}

	byID := make(map[int]domain.Card, len(cards))
	for i, c := range cards {
		if c.Name == "" {
			return nil, fmt.Errorf("card at index %d has no name", i)
		}
		if c.Upright == "" || c.Reversed == "" {
			return nil, fmt.Errorf("card %q is missing meaning text", c.Name)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %d", c.ID)
		}
		byID[c.ID] = c
	}

	return &Catalog{cards: cards, byID: byID}, nil
}

// ParseFile loads a deck from a JSON file on disk.
func ParseFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deck file: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("deck file %s: %w", path, err)
	}
	return c, nil
}

// Default returns the embedded 22-card major arcana deck.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultDeck))
}

// Cards returns a copy of all cards in catalog order.
func (c *Catalog) Cards() []domain.Card {
	out := make([]domain.Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// ByID looks up a single card.
func (c *Catalog) ByID(id int) (domain.Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Len reports the number of cards in the catalog.
func (c *Catalog) Len() int {
	return len(c.cards)
}
