package vacancy

import "context"

// Vacancy is the slice of the content-cache collaborator's record the
// engine reads: identity, display title, routing direction, active flag.
type Vacancy struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Direction string `json:"direction"`
	IsActive  bool   `json:"is_active"`
}

// Catalog is the read-only boundary to the content cache that owns
// vacancy listings. The engine never writes through it.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*Vacancy, error)
}
