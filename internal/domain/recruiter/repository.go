package recruiter

import "context"

type Repository interface {
	// FindActiveByDirection returns the active mapping for a
	// case-normalized direction, or a not-found error.
	FindActiveByDirection(ctx context.Context, direction string) (*Mapping, error)
	// Upsert replaces any existing mapping for the direction.
	Upsert(ctx context.Context, mapping Mapping) (*Mapping, error)
}
