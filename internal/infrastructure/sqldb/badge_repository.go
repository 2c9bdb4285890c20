package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/rfid-access-api/internal/domain"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
)

var _ repository.BadgeRepository = (*BadgeRepo)(nil)

const badgeColumns = `identifier, name, role, created_at`

// Querier operaciones comunes a *sql.DB y *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BadgeRepo implementación del puerto BadgeRepository sobre database/sql.
type BadgeRepo struct {
	db      Querier
	dialect Dialect
}

// NewBadgeRepository construye el adaptador. db puede ser *sql.DB o *sql.Tx.
func NewBadgeRepository(db Querier, dialect Dialect) *BadgeRepo {
	return &BadgeRepo{db: db, dialect: dialect}
}

func errDuplicate(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrDuplicateIdentifier, err)
}

// Create persiste un nuevo badge; la PRIMARY KEY resuelve registros concurrentes.
func (r *BadgeRepo) Create(ctx context.Context, badge *entity.Badge) error {
	code, err := badge.Role.Code()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO badges (`+badgeColumns+`) VALUES (?, ?, ?, ?)`,
		badge.Identifier, badge.Name, code, formatTimestamp(badge.CreatedAt))
	if err != nil {
		if r.dialect.isUnique(err) {
			return errDuplicate(err)
		}
		return fmt.Errorf("insert badge: %w", err)
	}
	return nil
}

// GetByIdentifier obtiene un badge; nil, nil si no existe.
func (r *BadgeRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.Badge, error) {
	return r.findOne(ctx, `SELECT `+badgeColumns+` FROM badges WHERE identifier = ?`, identifier)
}

// GetByIdentifierForUpdate bloquea la fila en MySQL; en SQLite la conexión única ya serializa.
func (r *BadgeRepo) GetByIdentifierForUpdate(ctx context.Context, identifier string) (*entity.Badge, error) {
	return r.findOne(ctx, `SELECT `+badgeColumns+` FROM badges WHERE identifier = ?`+r.dialect.forUpdate, identifier)
}

func (r *BadgeRepo) findOne(ctx context.Context, query, identifier string) (*entity.Badge, error) {
	b, err := scanBadge(r.db.QueryRowContext(ctx, query, identifier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get badge: %w", err)
	}
	return b, nil
}

// Update modifica name y role.
func (r *BadgeRepo) Update(ctx context.Context, badge *entity.Badge) error {
	code, err := badge.Role.Code()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE badges SET name = ?, role = ? WHERE identifier = ?`,
		badge.Name, code, badge.Identifier)
	if err != nil {
		return fmt.Errorf("update badge: %w", err)
	}
	return requireAffected(res)
}

// Delete elimina un badge en una sola sentencia.
func (r *BadgeRepo) Delete(ctx context.Context, identifier string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM badges WHERE identifier = ?`, identifier)
	if err != nil {
		return fmt.Errorf("delete badge: %w", err)
	}
	return requireAffected(res)
}

// requireAffected con MySQL depende de clientFoundRows para contar filas coincidentes.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve una página ordenada por created_at descendente.
func (r *BadgeRepo) List(ctx context.Context, limit, offset int) ([]*entity.Badge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+badgeColumns+` FROM badges ORDER BY created_at DESC, identifier LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var list []*entity.Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Count número total de badges.
func (r *BadgeRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM badges`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count badges: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBadge(row rowScanner) (*entity.Badge, error) {
	var (
		b         entity.Badge
		code      int16
		createdAt any
	)
	if err := row.Scan(&b.Identifier, &b.Name, &code, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = t
	b.Role = entity.RoleFromCode(code)
	return &b, nil
}
