package street

import (
	"context"
	"errors"
	"fmt"

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

// PostgresRepository is the pgx-backed street repository
type PostgresRepository struct {
	db Querier
}

// NewPostgresRepository creates a street repository backed by postgres
func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByName returns every street with a case-insensitive exact name match
func (r *PostgresRepository) FindByName(ctx context.Context, name string) ([]Street, error) {
	query := `
		SELECT id, name, url_slug, partial_postcode
		FROM streets
		WHERE LOWER(name) = LOWER($1)
		ORDER BY partial_postcode
	`

	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query streets by name: %w", err)
	}
	defer rows.Close()

	return scanStreets(rows)
}

// FindByNameAndPostcode returns the street matching the full natural key, or nil
func (r *PostgresRepository) FindByNameAndPostcode(ctx context.Context, name, postcode string) (*Street, error) {
	query := `
		SELECT id, name, url_slug, partial_postcode
		FROM streets
		WHERE LOWER(name) = LOWER($1) AND partial_postcode = $2
	`

	var s Street
	err := r.db.QueryRow(ctx, query, name, postcode).Scan(&s.ID, &s.Name, &s.URLSlug, &s.PartialPostcode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query street by natural key: %w", err)
	}

	return &s, nil
}

// Create persists a new street record
func (r *PostgresRepository) Create(ctx context.Context, name, postcode, slug string) (*Street, error) {
	query := `
		INSERT INTO streets (id, name, url_slug, partial_postcode)
		VALUES ($1, $2, $3, $4)
	`

	s := &Street{
		ID:              uuid.New(),
		Name:            name,
		URLSlug:         slug,
		PartialPostcode: postcode,
	}

	if _, err := r.db.Exec(ctx, query, s.ID, s.Name, s.URLSlug, s.PartialPostcode); err != nil {
		return nil, fmt.Errorf("failed to create street: %w", err)
	}

	return s, nil
}

// SearchByName returns streets whose name contains the query
func (r *PostgresRepository) SearchByName(ctx context.Context, q string) ([]Street, error) {
	query := `
		SELECT id, name, url_slug, partial_postcode
		FROM streets
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name, partial_postcode
	`

	rows, err := r.db.Query(ctx, query, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search streets: %w", err)
	}
	defer rows.Close()

	return scanStreets(rows)
}

func scanStreets(rows pgx.Rows) ([]Street, error) {
	var streets []Street
	for rows.Next() {
		var s Street
		if err := rows.Scan(&s.ID, &s.Name, &s.URLSlug, &s.PartialPostcode); err != nil {
			return nil, fmt.Errorf("failed to scan street: %w", err)
		}
		streets = append(streets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return streets, nil
}
