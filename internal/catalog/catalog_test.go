package catalog

import (
	"strings"
	"testing"
)

const testDeck = `[
	{"id": 1, "name": "The Fool", "image": "fool", "upright": "beginnings", "reversed": "recklessness"},
	{"id": 2, "name": "The Magician", "image": "magician", "upright": "will", "reversed": "manipulation"},
	{"id": 3, "name": "The Tower", "image": "tower", "upright": "upheaval", "reversed": "averted disaster"}
]`

func TestParse(t *testing.T) {
	cat, err := Parse(strings.NewReader(testDeck))
	if err != nil {
		t.Fatalf("Expected deck to parse, but got error: %v", err)
	}
	if cat.Len() != 3 {
		t.Errorf("Expected 3 cards, but got %d", cat.Len())
	}

	card, ok := cat.ByID(3)
	if !ok {
		t.Fatal("Expected to find card 3")
	}
	if card.Name != "The Tower" {
		t.Errorf("Expected card 3 to be The Tower, but got %q", card.Name)
	}
	if card.Meaning(true) != "upheaval" || card.Meaning(false) != "averted disaster" {
		t.Errorf("Unexpected meanings: %q / %q", card.Meaning(true), card.Meaning(false))
	}
}

func TestParseErrors(t *testing.T) {
	t.Run("malformed JSON", func(t *testing.T) {
		if _, err := Parse(strings.NewReader("{not a deck")); err == nil {
			t.Error("Expected an error for malformed JSON")
		}
	})

	t.Run("empty deck", func(t *testing.T) {
		if _, err := Parse(strings.NewReader("[]")); err == nil {
			t.Error("Expected an error for an empty deck")
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		deck := `[
			{"id": 1, "name": "A", "image": "a", "upright": "u", "reversed": "r"},
			{"id": 1, "name": "B", "image": "b", "upright": "u", "reversed": "r"}
		]`
		if _, err := Parse(strings.NewReader(deck)); err == nil {
			t.Error("Expected an error for a duplicate card id")
		}
	})

	t.Run("missing meaning", func(t *testing.T) {
		deck := `[{"id": 1, "name": "A", "image": "a", "upright": "u", "reversed": ""}]`
		if _, err := Parse(strings.NewReader(deck)); err == nil {
			t.Error("Expected an error for missing meaning text")
		}
	})
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile("does/not/exist.json"); err == nil {
		t.Error("Expected an error for a missing deck file")
	}
}

func TestDefaultDeck(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("Expected embedded deck to load, but got error: %v", err)
	}
	if cat.Len() != 22 {
		t.Errorf("Expected 22 major arcana cards, but got %d", cat.Len())
	}
	if _, ok := cat.ByID(0); !ok {
		t.Error("Expected The Fool at id 0")
	}
	if _, ok := cat.ByID(21); !ok {
		t.Error("Expected The World at id 21")
	}
}

func TestCardsReturnsCopy(t *testing.T) {
	cat, err := Parse(strings.NewReader(testDeck))
	if err != nil {
		t.Fatal(err)
	}
	cards := cat.Cards()
	cards[0].Name = "mutated"

	fresh := cat.Cards()
	if fresh[0].Name == "mutated" {
		t.Error("Expected Cards() to return a copy, but the catalog was mutated")
	}
}
