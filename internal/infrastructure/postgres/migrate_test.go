package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rfid-access-api/internal/domain"
)

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_init.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = parseVersion("0120_add_index.sql")
	require.NoError(t, err)
	assert.Equal(t, 120, v)

	_, err = parseVersion("init.sql")
	assert.Error(t, err)
	_, err = parseVersion("abc_init.sql")
	assert.Error(t, err)
}

func TestLoadMigrations_Embebidas(t *testing.T) {
	ms, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Equal(t, 1, ms[0].version)
	assert.Contains(t, ms[0].sql, "CREATE TABLE IF NOT EXISTS badges")
	assert.Contains(t, ms[0].sql, "CREATE TABLE IF NOT EXISTS access_logs")
	for i := 1; i < len(ms); i++ {
		assert.Less(t, ms[i-1].version, ms[i].version)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))

	assert.ErrorIs(t, errDuplicate(&pgconn.PgError{Code: "23505"}), domain.ErrDuplicateIdentifier)
}
