package reading

import (
	"fmt"
	"strings"

	"github.com/conorfennell/arcana/internal/domain"
)

// Persona is a named prompt bundle controlling the tone of readings. This is
// content data, kept out of the gateway logic.
type Persona struct {
	Key    string
	Name   string
	System string
}

// DefaultPersonaKey is used when a request names no persona.
const DefaultPersonaKey = "mystic"

var personas = []Persona{
	{
		Key:    "mystic",
		Name:   "The Mystic",
		System: "You are a seasoned tarot master. Speak with quiet authority and a touch of mystery. Interpret each card in relation to the seeker's question, then weave the cards into one coherent reading. Keep the reading under 300 words.",
	},
	{
		Key:    "gentle",
		Name:   "The Gentle Guide",
		System: "You are a warm, encouraging tarot guide. Be kind and reassuring, even when the cards are difficult. Interpret each card for the seeker's question and close with gentle, practical advice. Keep the reading under 300 words.",
	},
	{
		Key:    "casual",
		Name:   "The Stargazer",
		System: "You are a playful, down-to-earth tarot reader chatting with a friend. Keep the tone light and conversational, but take the cards seriously. Interpret each card for the question and finish with a straight answer. Keep the reading under 300 words.",
	},
	{
		Key:    "scholar",
		Name:   "The Archivist",
		System: "You are a scholarly keeper of old tarot texts. Ground each interpretation in traditional card symbolism before relating it to the seeker's question. Precise, never cold. Keep the reading under 300 words.",
	},
}

// Personas returns the available persona table.
func Personas() []Persona {
	out := make([]Persona, len(personas))
	copy(out, personas)
	return out
}

// PersonaByKey looks up a persona; ok is false for unknown keys.
func PersonaByKey(key string) (Persona, bool) {
	for _, p := range personas {
		if p.Key == key {
			return p, true
		}
	}
	return Persona{}, false
}

// BuildPrompts renders the system and user prompts for a draw.
func BuildPrompts(p Persona, question string, cards []domain.DrawnCard) (system, user string) {
	var b strings.Builder
	if question != "" {
		fmt.Fprintf(&b, "The seeker asks: %q\n\n", question)
	} else {
		b.WriteString("The seeker asks for a general reading.\n\n")
	}
	b.WriteString("The cards drawn, in order:\n")
	for i, c := range cards {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, c.Name, c.Direction(), c.CurrentMeaning())
	}
	b.WriteString("\nGive the reading.")
	return p.System, b.String()
}
