package street

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSlug(t *testing.T) {
	assert.Equal(t, "test_road_ab1", MakeSlug("Test Road", "AB1"))
	assert.Equal(t, "ashurst_road", MakeSlug("Ashurst Road", ""))
	assert.Equal(t, "st_john's_close_en4", MakeSlug("  St  John's Close ", "EN4"))
	assert.Equal(t, "st_john's_close_en4", MakeSlug("St John's  Close", "EN4"), "slug is deterministic under whitespace noise")
}

func TestLabel(t *testing.T) {
	withPostcode := Street{Name: "Ashurst Road", PartialPostcode: "EN4"}
	assert.Equal(t, "Ashurst Road (EN4)", withPostcode.Label())

	bare := Street{Name: "Ashurst Road"}
	assert.Equal(t, "Ashurst Road", bare.Label())
}

func TestRankByName(t *testing.T) {
	streets := []Street{
		{ID: uuid.New(), Name: "Ashbourne Avenue"},
		{ID: uuid.New(), Name: "Ashurst Road", PartialPostcode: "N12"},
		{ID: uuid.New(), Name: "Ashurst Road", PartialPostcode: "EN4"},
	}

	ranked := RankByName(streets, "ashurst road")
	require.Len(t, ranked, 2, "non-matching streets are dropped, both postcode variants kept")
	assert.Equal(t, "Ashurst Road", ranked[0].Name)
	assert.Equal(t, "Ashurst Road", ranked[1].Name)
}
