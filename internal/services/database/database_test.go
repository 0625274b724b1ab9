package database

import (
	"testing"

	"github.com/chefmate/chefmate-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsSQLiteWithoutPath(t *testing.T) {
	_, err := New(models.DatabaseConfig{Type: models.SQLite})
	assert.ErrorContains(t, err, "file_path")
}

func TestNewRejectsUnsupportedType(t *testing.T) {
	_, err := New(models.DatabaseConfig{Type: "oracle"})
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestNewOpensSQLite(t *testing.T) {
	db, err := New(models.DatabaseConfig{
		Type:     models.SQLite,
		FilePath: "file::memory:?cache=private",
	})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, "sqlite3", db.DriverName())
	require.NoError(t, db.Ping())
}

func TestPostgresDSN(t *testing.T) {
	cfg := models.DatabaseConfig{
		Type:     models.PostgreSQL,
		Host:     "db.internal",
		Port:     5432,
		Username: "chef",
		Password: "secret",
		Database: "chefmate",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=chef password=secret dbname=chefmate sslmode=disable",
		postgresDSN(cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, postgresDSN(cfg), "sslmode=require")

	cfg.DSN = "postgres://chef@db.internal/chefmate"
	assert.Equal(t, cfg.DSN, postgresDSN(cfg), "an explicit DSN wins over assembled fields")
}

func TestMySQLDSN(t *testing.T) {
	cfg := models.DatabaseConfig{
		Type:     models.MySQL,
		Host:     "db.internal",
		Port:     3306,
		Username: "chef",
		Password: "secret",
		Database: "chefmate",
	}
	assert.Equal(t, "chef:secret@tcp(db.internal:3306)/chefmate?parseTime=true", mysqlDSN(cfg))
}
