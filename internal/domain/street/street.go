// Package street holds the canonical street records that collections
// hang off. The pair (name, partial postcode) is the natural key: a
// non-empty partial postcode disambiguates streets sharing a name.
package street

import (
	"strings"

	"github.com/google/uuid"
)

// Street is a canonical street record. Streets are created by the
// import reconciler on first sight of a new (name, postcode) pair and
// never deleted by the importer.
type Street struct {
	ID              uuid.UUID
	Name            string
	URLSlug         string
	PartialPostcode string
}

// Label renders the street for report lines, e.g. "Ashurst Road (EN4)".
func (s Street) Label() string {
	if s.PartialPostcode == "" {
		return s.Name
	}
	return s.Name + " (" + s.PartialPostcode + ")"
}

// MakeSlug derives the URL slug deterministically from the natural key:
// lower-cased, whitespace runs collapsed to single underscores, with
// the postcode token appended when present.
func MakeSlug(name, partialPostcode string) string {
	parts := strings.Fields(strings.ToLower(name))
	if partialPostcode != "" {
		parts = append(parts, strings.ToLower(partialPostcode))
	}
	return strings.Join(parts, "_")
}
