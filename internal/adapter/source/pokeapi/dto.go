package pokeapi

// ListResponse is the body of GET /pokemon?limit&offset
type ListResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// NamedResource is a name plus the URL of its full record
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PokemonResponse is the body of GET /pokemon/{name}
type PokemonResponse struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Height         int         `json:"height"`
	Weight         int         `json:"weight"`
	BaseExperience int         `json:"base_experience"`
	Order          int         `json:"order"`
	Types          []TypeEntry `json:"types"`
	Stats          []StatEntry `json:"stats"`
	Sprites        SpriteSet   `json:"sprites"`
}

// TypeEntry pairs a slot index with its type resource
type TypeEntry struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// StatEntry is one base stat with its named stat resource
type StatEntry struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// SpriteSet is the subset of sprite references we read
type SpriteSet struct {
	FrontDefault *string      `json:"front_default"`
	Other        OtherSprites `json:"other"`
}

// OtherSprites holds alternate artwork sets
type OtherSprites struct {
	OfficialArtwork struct {
		FrontDefault *string `json:"front_default"`
	} `json:"official-artwork"`
}
