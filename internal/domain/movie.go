package domain

// Movie represents the canonical movie entity in the database/service.
type Movie struct {
	ID    string `json:"id" bson:"-"`
	Title string `json:"title" bson:"title"`
}

// GetID returns the storage-assigned identifier.
func (m Movie) GetID() string { return m.ID }

// SetID assigns the identifier; only storage layers call it.
func (m *Movie) SetID(id string) { m.ID = id }
