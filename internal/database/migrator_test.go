package database

import (
	"io/fs"
	"regexp"
	"testing"
	"testing/fstest"

	"fabric-backend/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingFilesOrderAndSkip(t *testing.T) {
	files := fstest.MapFS{
		"002_b.sql":   {Data: []byte("SELECT 2")},
		"001_a.sql":   {Data: []byte("SELECT 1")},
		"003_c.sql":   {Data: []byte("SELECT 3")},
		"README.md":   {Data: []byte("notes")},
		"sub/004.sql": {Data: []byte("SELECT 4")},
	}

	pending, err := PendingFiles(files, map[string]bool{"002_b.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "003_c.sql"}, pending)
}

func TestEmbeddedMigrations(t *testing.T) {
	pending, err := PendingFiles(migrations.FS, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"001_create_fabric_jobs.sql",
		"002_create_expenses.sql",
		"003_create_rate_config.sql",
		"004_unscaled_numeric_columns.sql",
	}, pending)
}

// Quantities, rates and money must come back exactly as written, so no column may carry a scale.
func TestEmbeddedMigrationsKeepNumericUnscaled(t *testing.T) {
	scaled := regexp.MustCompile(`(?i)NUMERIC\s*\(`)
	pending, err := PendingFiles(migrations.FS, nil)
	require.NoError(t, err)
	for _, name := range pending {
		sql, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		assert.False(t, scaled.Match(sql), "%s declares a scaled NUMERIC column", name)
	}
}
