package street

import "context"

// Repository is the persistence boundary for streets. Name matching is
// case-insensitive and exact; postcode matching is exact, with the
// empty string matching streets that have no postcode.
type Repository interface {
	// FindByName returns every street whose name matches
	// case-insensitively, regardless of postcode.
	FindByName(ctx context.Context, name string) ([]Street, error)

	// FindByNameAndPostcode returns the street matching both parts of
	// the natural key, or nil when there is none.
	FindByNameAndPostcode(ctx context.Context, name, postcode string) (*Street, error)

	// Create persists a new street. The slug is supplied by the caller
	// so slug derivation stays with the domain, not the store.
	Create(ctx context.Context, name, postcode, slug string) (*Street, error)

	// SearchByName returns streets whose name contains the query,
	// case-insensitively. Used by the public lookup site.
	SearchByName(ctx context.Context, query string) ([]Street, error)
}
