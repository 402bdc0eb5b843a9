// Package e2etest provides end-to-end tests for import flows.
package e2etest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binalerts/binalerts/internal/domain/collection"
	"github.com/binalerts/binalerts/internal/domain/import/reconciler"
	"github.com/binalerts/binalerts/internal/domain/import/service"
	"github.com/binalerts/binalerts/internal/domain/street"
	"github.com/binalerts/binalerts/pkg/config"
)

type streetStore struct {
	streets []street.Street
}

func (s *streetStore) FindByName(_ context.Context, name string) ([]street.Street, error) {
	var out []street.Street
	for _, st := range s.streets {
		if strings.EqualFold(st.Name, name) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *streetStore) FindByNameAndPostcode(_ context.Context, name, postcode string) (*street.Street, error) {
	for _, st := range s.streets {
		if strings.EqualFold(st.Name, name) && st.PartialPostcode == postcode {
			match := st
			return &match, nil
		}
	}
	return nil, nil
}

func (s *streetStore) Create(_ context.Context, name, postcode, slug string) (*street.Street, error) {
	st := street.Street{ID: uuid.New(), Name: name, URLSlug: slug, PartialPostcode: postcode}
	s.streets = append(s.streets, st)
	return &st, nil
}

func (s *streetStore) SearchByName(_ context.Context, q string) ([]street.Street, error) {
	var out []street.Street
	for _, st := range s.streets {
		if strings.Contains(strings.ToLower(st.Name), strings.ToLower(q)) {
			out = append(out, st)
		}
	}
	return out, nil
}

type collectionStore struct {
	types map[string]collection.Type
	rows  []collection.Collection
}

func newCollectionStore() *collectionStore {
	return &collectionStore{types: map[string]collection.Type{
		"G": {ID: uuid.New(), FriendlyID: "G", Description: "Green Garden and Kitchen Waste"},
		"D": {ID: uuid.New(), FriendlyID: "D", Description: "Domestic Waste"},
	}}
}

func (c *collectionStore) GetTypeByCode(_ context.Context, code string) (*collection.Type, error) {
	t, ok := c.types[code]
	if !ok {
		return nil, collection.ErrTypeNotFound
	}
	return &t, nil
}

func (c *collectionStore) FindByStreet(_ context.Context, streetID uuid.UUID) ([]collection.Collection, error) {
	var out []collection.Collection
	for _, row := range c.rows {
		if row.StreetID == streetID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (c *collectionStore) FindByStreetAndType(_ context.Context, streetID, typeID uuid.UUID) ([]collection.Collection, error) {
	var out []collection.Collection
	for _, row := range c.rows {
		if row.StreetID == streetID && row.TypeID == typeID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (c *collectionStore) Upsert(_ context.Context, streetID, typeID uuid.UUID, day time.Weekday) (*collection.Collection, bool, error) {
	for i, row := range c.rows {
		if row.StreetID == streetID && row.TypeID == typeID && row.Day == day {
			c.rows[i].LastUpdated = time.Now()
			return &c.rows[i], false, nil
		}
	}
	row := collection.Collection{ID: uuid.New(), StreetID: streetID, TypeID: typeID, Day: day, LastUpdated: time.Now()}
	c.rows = append(c.rows, row)
	return &row, true, nil
}

func (c *collectionStore) Delete(_ context.Context, id uuid.UUID) error {
	for i, row := range c.rows {
		if row.ID == id {
			c.rows = append(c.rows[:i], c.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

type world struct {
	streets     *streetStore
	collections *collectionStore
	importer    *service.Service
}

func newWorld(cfg config.ImportConfig) *world {
	logger := slog.New(slog.DiscardHandler)
	streets := &streetStore{}
	collections := newCollectionStore()
	rec := reconciler.New(streets, cfg.StreetsMustHavePostcode, logger)
	policy := collection.NewPolicy(collections, cfg.AllowMultipleCollectionsPerWeek)
	return &world{
		streets:     streets,
		collections: collections,
		importer:    service.New(collections, rec, policy, cfg, logger),
	}
}

func TestImportFlow_NativeCSV(t *testing.T) {
	ctx := context.Background()
	w := newWorld(config.ImportConfig{GuessPostcodes: true})
	csv := "street,postcode,type,days\nTest Road,AB1,D,Friday\n"

	rep := w.importer.Run(ctx, "schedule.csv", strings.NewReader(csv))

	assert.True(t, rep.Contains("lines read from import file: 2"))
	assert.True(t, rep.Contains("bin collections loaded: 1"))
	assert.True(t, rep.Contains("new streets created: 1"))

	require.Len(t, w.streets.streets, 1)
	created := w.streets.streets[0]
	assert.Equal(t, "Test Road", created.Name)
	assert.Equal(t, "AB1", created.PartialPostcode)
	assert.Equal(t, "test_road_ab1", created.URLSlug)
	assert.Equal(t, "Test Road (AB1)", created.Label())

	require.Len(t, w.collections.rows, 1)
	fact := w.collections.rows[0]
	assert.Equal(t, created.ID, fact.StreetID)
	assert.Equal(t, w.collections.types["D"].ID, fact.TypeID)
	assert.Equal(t, time.Friday, fact.Day)

	t.Run("re-import is idempotent", func(t *testing.T) {
		firstStamp := fact.LastUpdated

		rep := w.importer.Run(ctx, "schedule.csv", strings.NewReader(csv))

		assert.True(t, rep.Contains("new streets created: 0"))
		assert.True(t, rep.Contains("collection on Friday remains unchanged"))
		require.Len(t, w.streets.streets, 1, "no duplicate street")
		require.Len(t, w.collections.rows, 1, "no duplicate collection")
		assert.False(t, w.collections.rows[0].LastUpdated.Before(firstStamp),
			"re-import refreshes the freshness stamp")
	})
}

func TestImportFlow_ScheduleChange(t *testing.T) {
	ctx := context.Background()
	w := newWorld(config.ImportConfig{GuessPostcodes: true})

	w.importer.Run(ctx, "week1.csv",
		strings.NewReader("street,postcode,type,days\nTest Road,AB1,D,Monday\n"))
	rep := w.importer.Run(ctx, "week2.csv",
		strings.NewReader("street,postcode,type,days\nTest Road,AB1,D,Thursday\n"))

	assert.True(t, rep.Contains("changed collection from Monday to Thursday"))
	require.Len(t, w.collections.rows, 1, "single-week mode keeps exactly one collection")
	assert.Equal(t, time.Thursday, w.collections.rows[0].Day)
}

func TestImportFlow_MultiWeekToSingle(t *testing.T) {
	ctx := context.Background()

	multi := newWorld(config.ImportConfig{AllowMultipleCollectionsPerWeek: true, GuessPostcodes: true})
	multi.importer.Run(ctx, "summer.csv",
		strings.NewReader("street,postcode,type,days\nTest Road,AB1,G,Monday/Wednesday\n"))
	require.Len(t, multi.collections.rows, 2)

	// Same stores, reconfigured to one collection per week.
	logger := slog.New(slog.DiscardHandler)
	cfg := config.ImportConfig{GuessPostcodes: true}
	rec := reconciler.New(multi.streets, false, logger)
	policy := collection.NewPolicy(multi.collections, false)
	single := service.New(multi.collections, rec, policy, cfg, logger)

	rep := single.Run(ctx, "winter.csv",
		strings.NewReader("street,postcode,type,days\nTest Road,AB1,G,Tuesday\n"))

	assert.True(t, rep.Contains("replaced Monday and Wednesday collections with one on Tuesday"))
	require.Len(t, multi.collections.rows, 1)
	assert.Equal(t, time.Tuesday, multi.collections.rows[0].Day)
}

func TestImportFlow_LargeBatch(t *testing.T) {
	ctx := context.Background()
	w := newWorld(config.ImportConfig{GuessPostcodes: true})
	gofakeit.Seed(11)

	var sb strings.Builder
	sb.WriteString("street,postcode,type,days\n")
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	const n = 50
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%s %d,AB%d,D,%s\n", gofakeit.Street(), i, i%9+1, days[i%len(days)])
	}

	rep := w.importer.Run(ctx, "borough.csv", strings.NewReader(sb.String()))

	assert.True(t, rep.Contains(fmt.Sprintf("lines read from import file: %d", n+1)))
	assert.True(t, rep.Contains(fmt.Sprintf("bin collections loaded: %d", n)))
	assert.True(t, rep.Contains(fmt.Sprintf("new streets created: %d", n)))
	assert.Len(t, w.collections.rows, n)
}
