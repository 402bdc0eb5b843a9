package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults apply without environment", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.False(t, cfg.Import.AllowMultipleCollectionsPerWeek)
		assert.True(t, cfg.Import.GuessPostcodes)
		assert.Equal(t, "April 2006", cfg.Import.PDFTrailerSentinel)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("IMPORT_GUESS_POSTCODES", "false")
		t.Setenv("IMPORT_DEFAULT_COLLECTION_TYPE", "G")
		t.Setenv("POSTGRES_PORT", "6543")

		cfg, err := Load()
		require.NoError(t, err)

		assert.False(t, cfg.Import.GuessPostcodes)
		assert.Equal(t, "G", cfg.Import.DefaultCollectionTypeCode)
		assert.Equal(t, 6543, cfg.Database.Port)
	})

	t.Run("reads a .env file from the working directory", func(t *testing.T) {
		dir := t.TempDir()
		env := "IMPORT_DEFAULT_COLLECTION_TYPE=D\nIMPORT_PDF_TRAILER_SENTINEL=May 2007\n"
		require.NoError(t, os.WriteFile(dir+"/.env", []byte(env), 0o600))
		t.Chdir(dir)
		t.Cleanup(func() {
			os.Unsetenv("IMPORT_DEFAULT_COLLECTION_TYPE")
			os.Unsetenv("IMPORT_PDF_TRAILER_SENTINEL")
		})

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "D", cfg.Import.DefaultCollectionTypeCode)
		assert.Equal(t, "May 2007", cfg.Import.PDFTrailerSentinel)
	})

	t.Run("process environment wins over the .env file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(dir+"/.env", []byte("IMPORT_DEFAULT_COLLECTION_TYPE=D\n"), 0o600))
		t.Chdir(dir)
		t.Setenv("IMPORT_DEFAULT_COLLECTION_TYPE", "G")
		t.Cleanup(func() { os.Unsetenv("IMPORT_DEFAULT_COLLECTION_TYPE") })

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "G", cfg.Import.DefaultCollectionTypeCode)
	})
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "bins",
		Password: "secret",
		Database: "binalerts",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=bins password=secret dbname=binalerts sslmode=require",
		db.DSN())
}
