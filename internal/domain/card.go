package domain

// Card is a single immutable deck catalog entry.
type Card struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Upright  string `json:"upright"`
	Reversed string `json:"reversed"`
}

// Meaning returns the upright or reversed meaning text.
func (c Card) Meaning(upright bool) string {
	if upright {
		return c.Upright
	}
	return c.Reversed
}

// DrawnCard is a catalog card plus the orientation assigned at draw time.
type DrawnCard struct {
	Card
	IsUpright bool `json:"is_upright"`
}

// CurrentMeaning returns the meaning text for the drawn orientation.
func (d DrawnCard) CurrentMeaning() string {
	return d.Meaning(d.IsUpright)
}

// Direction returns "upright" or "reversed".
func (d DrawnCard) Direction() string {
	if d.IsUpright {
		return "upright"
	}
	return "reversed"
}
