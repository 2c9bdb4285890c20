package sqldb

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/DATA-DOG/go-sqlmock.v1"

	"github.com/jhoicas/rfid-access-api/internal/domain"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

func newMock(t *testing.T) (sqlmock.Sqlmock, *BadgeRepo, *AccessLogRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return mock, NewBadgeRepository(db, MySQL), NewAccessLogRepository(db)
}

var createdAt = time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

// ── BadgeRepo (MySQL) ─────────────────────────────────────────────────────────

func TestBadgeRepo_Create(t *testing.T) {
	for name, test := range map[string]struct {
		execErr error
		wantIs  error
	}{
		"ok":        {},
		"duplicado": {execErr: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'abc123'"}, wantIs: domain.ErrDuplicateIdentifier},
		"caída":     {execErr: errors.New("bad connection")},
	} {
		t.Run(name, func(t *testing.T) {
			mock, repo, _ := newMock(t)
			exp := mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO badges (identifier, name, role, created_at) VALUES (?, ?, ?, ?)`)).
				WithArgs("abc123", "Ana", int64(2), "2026-03-02 08:30:00.000000")
			if test.execErr != nil {
				exp.WillReturnError(test.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.Create(context.Background(), &entity.Badge{
				Identifier: "abc123", Name: "Ana", Role: entity.RoleEmployee, CreatedAt: createdAt,
			})
			switch {
			case test.execErr == nil:
				require.NoError(t, err)
			case test.wantIs != nil:
				assert.ErrorIs(t, err, test.wantIs)
			default:
				require.Error(t, err)
				assert.NotErrorIs(t, err, domain.ErrDuplicateIdentifier)
			}
		})
	}
}

func TestBadgeRepo_GetByIdentifier(t *testing.T) {
	mock, repo, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT identifier, name, role, created_at FROM badges WHERE identifier = ?`)).
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{"identifier", "name", "role", "created_at"}).
			AddRow("abc123", "Ana", 1, createdAt))

	b, err := repo.GetByIdentifier(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, entity.RoleAdmin, b.Role)
	assert.True(t, createdAt.Equal(b.CreatedAt))
}

func TestBadgeRepo_GetByIdentifier_Ausente(t *testing.T) {
	mock, repo, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM badges WHERE identifier = ?`)).
		WithArgs("zzz").
		WillReturnRows(sqlmock.NewRows([]string{"identifier", "name", "role", "created_at"}))

	b, err := repo.GetByIdentifier(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestBadgeRepo_GetForUpdate_BloqueaEnMySQL(t *testing.T) {
	mock, repo, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE identifier = ? FOR UPDATE`)).
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{"identifier", "name", "role", "created_at"}).
			AddRow("abc123", "Ana", 2, "2026-03-02 08:30:00.000000"))

	b, err := repo.GetByIdentifierForUpdate(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, createdAt.Equal(b.CreatedAt), "también acepta el timestamp como texto")
}

func TestBadgeRepo_UpdateDelete_NotFound(t *testing.T) {
	mock, repo, _ := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE badges SET name = ?, role = ? WHERE identifier = ?`)).
		WithArgs("Ana", int64(1), "zzz").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM badges WHERE identifier = ?`)).
		WithArgs("zzz").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	assert.ErrorIs(t, repo.Update(ctx, &entity.Badge{Identifier: "zzz", Name: "Ana", Role: entity.RoleAdmin}), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "zzz"), domain.ErrNotFound)
}

func TestBadgeRepo_ListCount(t *testing.T) {
	mock, repo, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC, identifier LIMIT ? OFFSET ?`)).
		WithArgs(int64(10), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"identifier", "name", "role", "created_at"}).
			AddRow("b2", "Bea", 2, createdAt.Add(time.Minute)).
			AddRow("a1", "Ana", 9, createdAt))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM badges`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	ctx := context.Background()
	list, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b2", list[0].Identifier)
	assert.False(t, list[1].Role.Known(), "un código desconocido se conserva")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// ── AccessLogRepo ─────────────────────────────────────────────────────────────

func TestAccessLogRepo_Append(t *testing.T) {
	mock, _, logs := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO access_logs (date, time, message) VALUES (?, ?, ?)`)).
		WithArgs("2026-03-02", "09:00:00", "Scan abc123: granted").
		WillReturnResult(sqlmock.NewResult(42, 1))

	e := &entity.AccessLog{Date: "2026-03-02", Time: "09:00:00", Message: "Scan abc123: granted"}
	require.NoError(t, logs.Append(context.Background(), e))
	assert.Equal(t, int64(42), e.ID)
}

// ── Dialect ───────────────────────────────────────────────────────────────────

func TestDialect_IsUnique(t *testing.T) {
	assert.True(t, MySQL.isUnique(&mysql.MySQLError{Number: 1062}))
	assert.False(t, MySQL.isUnique(&mysql.MySQLError{Number: 1213}))
	assert.False(t, MySQL.isUnique(errors.New("timeout")))

	assert.True(t, SQLite.isUnique(errors.New("constraint failed: UNIQUE constraint failed: badges.identifier (1555)")))
	assert.False(t, SQLite.isUnique(errors.New("database is locked")))
}

func TestMySQLConfig_FormatDSN(t *testing.T) {
	dsn, err := MySQLConfig{Host: "db", Port: 3306, User: "rfid", Password: "p@ss", DBName: "rfid_access"}.FormatDSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "rfid:p@ss@tcp(db:3306)/rfid_access")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")

	dsn, err = MySQLConfig{DSN: "u:p@tcp(h:3307)/x"}.FormatDSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "tcp(h:3307)/x")
	assert.Contains(t, dsn, "clientFoundRows=true")
}

func TestParseVersionYMigraciones(t *testing.T) {
	v, err := parseVersion("0001_init.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	_, err = parseVersion("init.sql")
	assert.Error(t, err)

	for _, d := range []Dialect{MySQL, SQLite} {
		ms, err := loadMigrations(d)
		require.NoError(t, err, d.Name)
		require.NotEmpty(t, ms, d.Name)
		assert.Len(t, ms[0].statements, map[string]int{"mysql": 2, "sqlite": 3}[d.Name])
	}
}
