package domain

import "encoding/json"

// Song represents a song entity. Year is kept as free text.
type Song struct {
	ID      string   `json:"id" bson:"-"`
	Title   string   `json:"title" bson:"title"`
	Year    string   `json:"year" bson:"year"`
	Genre   string   `json:"genre" bson:"genre"`
	Artists []string `json:"artists" bson:"artists"`
}

func (s Song) GetID() string { return s.ID }

func (s *Song) SetID(id string) { s.ID = id }

// MarshalJSON encodes a missing artist list as [] rather than null.
func (s Song) MarshalJSON() ([]byte, error) {
	type plain Song
	if s.Artists == nil {
		s.Artists = []string{}
	}
	return json.Marshal(plain(s))
}
