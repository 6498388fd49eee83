package catalog

import (
	"context"
	"path/filepath"

	"github.com/conorfennell/arcana/internal/decksource"
)

// DeckFileName is the deck file expected at the root of a git deck source.
const DeckFileName = "deck.json"

// Source describes where the deck catalog is loaded from. GitURL wins over
// File; with neither set the embedded default deck is used.
type Source struct {
	File     string
	GitURL   string
	CacheDir string
}

// Load resolves a deck source and parses the resulting deck. Any failure is
// returned to the caller; there is no fallback to an empty catalog.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	switch {
	case src.GitURL != "":
		local, err := decksource.Fetch(ctx, src.GitURL, src.CacheDir)
		if err != nil {
			return nil, err
		}
		return ParseFile(filepath.Join(local, DeckFileName))
	case src.File != "":
		return ParseFile(src.File)
	default:
		return Default()
	}
}
