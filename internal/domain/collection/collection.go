// Package collection holds waste-collection schedule facts and the
// upsert policy that reconciles new facts against prior state.
package collection

import (
	"time"

	"github.com/google/uuid"
)

// Type is a category of waste pickup, identified by a short friendly
// code such as "G" (garden/kitchen) or "D" (domestic). Reference data:
// seeded by migration, never created by the importer.
type Type struct {
	ID          uuid.UUID
	FriendlyID  string
	Description string
}

// Collection is one scheduled pickup: a street gets a given waste type
// collected on a given day of the week. time.Weekday matches the stored
// ordinal (Sunday=0).
type Collection struct {
	ID          uuid.UUID
	StreetID    uuid.UUID
	TypeID      uuid.UUID
	Day         time.Weekday
	LastUpdated time.Time
}
