package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigration(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE sellers (id text);
ALTER TABLE sellers ADD COLUMN phone text;

-- +migrate Down
DROP TABLE sellers;
`
	t.Run("Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE sellers")
		assert.Contains(t, up, "ALTER TABLE sellers")
		assert.NotContains(t, up, "DROP TABLE sellers")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE sellers")
		assert.NotContains(t, down, "CREATE TABLE sellers")
	})

	t.Run("MissingSection", func(t *testing.T) {
		assert.Empty(t, extractMigrationPart("SELECT 1;", "Up"))
	})
}

func TestRunMigrationsUp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	first := writeMigration(t, dir, "001_sellers.sql", "-- +migrate Up\nCREATE TABLE sellers (id text);\n-- +migrate Down\nDROP TABLE sellers;")
	second := writeMigration(t, dir, "002_catalog_items.sql", "-- +migrate Up\nCREATE TABLE catalog_items (id text);")

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("001_sellers.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("002_catalog_items.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE catalog_items").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("002_catalog_items.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, runMigrationsUp(db, []string{first, second}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsUp_EmptyUp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	path := writeMigration(t, t.TempDir(), "003_empty.sql", "-- +migrate Down\nSELECT 1;")

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("003_empty.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err = runMigrationsUp(db, []string{path})
	assert.ErrorContains(t, err, "no Up section")
}

func TestRunMigrationsDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	path := writeMigration(t, t.TempDir(), "002_catalog_items.sql",
		"-- +migrate Up\nCREATE TABLE catalog_items (id text);\n-- +migrate Down\nDROP TABLE catalog_items;")

	t.Run("RollsBackLatest", func(t *testing.T) {
		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("002_catalog_items.sql"))
		mock.ExpectExec("DROP TABLE catalog_items").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM schema_migrations").
			WithArgs("002_catalog_items.sql").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, runMigrationsDown(db, []string{path}))
	})

	t.Run("NothingApplied", func(t *testing.T) {
		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))

		assert.NoError(t, runMigrationsDown(db, []string{path}))
	})

	t.Run("FileMissing", func(t *testing.T) {
		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("009_gone.sql"))

		err := runMigrationsDown(db, []string{path})
		assert.ErrorContains(t, err, "migration file not found")
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_UnknownMode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = run(db, "sideways", t.TempDir())
	assert.ErrorContains(t, err, "unknown mode: sideways")
}

func TestMigrationsDirParses(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		content, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.NotEmpty(t, extractMigrationPart(string(content), "Up"), f)
		assert.NotEmpty(t, extractMigrationPart(string(content), "Down"), f)
	}
}
