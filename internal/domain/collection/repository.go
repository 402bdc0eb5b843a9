package collection

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrTypeNotFound indicates an unknown collection type code
var ErrTypeNotFound = errors.New("collection type not found")

// Repository is the persistence boundary for collection facts
type Repository interface {
	// GetTypeByCode looks up reference data by friendly code, returning
	// ErrTypeNotFound for unknown codes.
	GetTypeByCode(ctx context.Context, code string) (*Type, error)

	// FindByStreet returns every collection for a street, all types.
	FindByStreet(ctx context.Context, streetID uuid.UUID) ([]Collection, error)

	// FindByStreetAndType returns the collections for one street+type pair.
	FindByStreetAndType(ctx context.Context, streetID, typeID uuid.UUID) ([]Collection, error)

	// Upsert gets-or-creates the (street, type, day) row. When the row
	// already exists its last_updated timestamp is touched and created
	// is false.
	Upsert(ctx context.Context, streetID, typeID uuid.UUID, day time.Weekday) (*Collection, bool, error)

	// Delete removes a single collection row.
	Delete(ctx context.Context, id uuid.UUID) error
}
