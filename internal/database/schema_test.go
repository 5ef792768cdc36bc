package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/potluck-organizer/internal/database"
)

func TestStatementsPerDriver(t *testing.T) {
	mysql, err := database.Statements("mysql")
	require.NoError(t, err)
	require.Len(t, mysql, 4)
	assert.Contains(t, mysql[0], "AUTO_INCREMENT")

	sqlite, err := database.Statements("sqlite")
	require.NoError(t, err)
	require.Len(t, sqlite, 4)
	assert.Contains(t, sqlite[0], "AUTOINCREMENT")

	_, err = database.Statements("postgres")
	assert.Error(t, err)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, database.EnsureSchema(db, "sqlite"))
	require.NoError(t, database.EnsureSchema(db, "sqlite"))

	// Foreign keys must be enforced on this connection for the cascades.
	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}
