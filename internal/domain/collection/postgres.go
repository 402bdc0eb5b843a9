package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the repository needs. It is
// satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository is the pgx-backed collection repository
type PostgresRepository struct {
	db Querier
}

// NewPostgresRepository creates a collection repository backed by postgres
func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetTypeByCode looks up a collection type by its friendly code
func (r *PostgresRepository) GetTypeByCode(ctx context.Context, code string) (*Type, error) {
	query := `
		SELECT id, friendly_id, description
		FROM collection_types
		WHERE friendly_id = $1
	`

	var t Type
	err := r.db.QueryRow(ctx, query, code).Scan(&t.ID, &t.FriendlyID, &t.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrTypeNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query collection type: %w", err)
	}

	return &t, nil
}

// FindByStreet returns all collections for a street
func (r *PostgresRepository) FindByStreet(ctx context.Context, streetID uuid.UUID) ([]Collection, error) {
	query := `
		SELECT id, street_id, type_id, day_of_week, last_updated
		FROM collections
		WHERE street_id = $1
		ORDER BY day_of_week
	`

	rows, err := r.db.Query(ctx, query, streetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	return scanCollections(rows)
}

// FindByStreetAndType returns the collections for one street+type pair
func (r *PostgresRepository) FindByStreetAndType(ctx context.Context, streetID, typeID uuid.UUID) ([]Collection, error) {
	query := `
		SELECT id, street_id, type_id, day_of_week, last_updated
		FROM collections
		WHERE street_id = $1 AND type_id = $2
		ORDER BY day_of_week
	`

	rows, err := r.db.Query(ctx, query, streetID, typeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	return scanCollections(rows)
}

// Upsert gets-or-creates the (street, type, day) row. An existing row
// has its last_updated touched; xmax = 0 distinguishes a fresh insert.
func (r *PostgresRepository) Upsert(ctx context.Context, streetID, typeID uuid.UUID, day time.Weekday) (*Collection, bool, error) {
	query := `
		INSERT INTO collections (id, street_id, type_id, day_of_week)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (street_id, type_id, day_of_week)
		DO UPDATE SET last_updated = NOW()
		RETURNING id, last_updated, (xmax = 0) AS created
	`

	c := Collection{StreetID: streetID, TypeID: typeID, Day: day}
	var created bool
	err := r.db.QueryRow(ctx, query, uuid.New(), streetID, typeID, int(day)).
		Scan(&c.ID, &c.LastUpdated, &created)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert collection: %w", err)
	}

	return &c, created, nil
}

// Delete removes a single collection row
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}

func scanCollections(rows pgx.Rows) ([]Collection, error) {
	var collections []Collection
	for rows.Next() {
		var c Collection
		var day int
		if err := rows.Scan(&c.ID, &c.StreetID, &c.TypeID, &day, &c.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		c.Day = time.Weekday(day)
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return collections, nil
}
