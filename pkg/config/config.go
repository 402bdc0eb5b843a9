package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ImportConfig carries the policy knobs that change import behaviour.
// They are threaded explicitly into the importer, reconciler and upsert
// policy constructors rather than read from process-wide state, so each
// test run can control them.
type ImportConfig struct {
	// AllowMultipleCollectionsPerWeek lets one street+type pair keep
	// more than one collection day. When false, a new day replaces any
	// existing days for that street+type.
	AllowMultipleCollectionsPerWeek bool

	// StreetsMustHavePostcode makes an unresolvable postcode a row-level
	// failure instead of creating a street with an empty postcode.
	StreetsMustHavePostcode bool

	// GuessPostcodes allows adopting a postcode from existing same-named
	// streets when the source row carries none.
	GuessPostcodes bool

	// DefaultCollectionTypeCode is used when a source row has no type
	// column (legacy spreadsheet layout) or an empty type cell.
	DefaultCollectionTypeCode string

	// PDFTrailerSentinel is the literal text of the row that must follow
	// the end-of-table marker in PDF-derived XML. Historically this was
	// the publication date printed under the table.
	PDFTrailerSentinel string
}

// Load reads configuration from the environment, layering in a .env
// file when one exists. Variables already set in the process win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "binalerts-dev"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Import: ImportConfig{
			AllowMultipleCollectionsPerWeek: getEnvAsBool("IMPORT_ALLOW_MULTIPLE_COLLECTIONS", false),
			StreetsMustHavePostcode:         getEnvAsBool("IMPORT_STREETS_MUST_HAVE_POSTCODE", false),
			GuessPostcodes:                  getEnvAsBool("IMPORT_GUESS_POSTCODES", true),
			DefaultCollectionTypeCode:       getEnv("IMPORT_DEFAULT_COLLECTION_TYPE", ""),
			PDFTrailerSentinel:              getEnv("IMPORT_PDF_TRAILER_SENTINEL", "April 2006"),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
