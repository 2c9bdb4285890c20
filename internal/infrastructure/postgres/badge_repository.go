package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rfid-access-api/internal/domain"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
)

var _ repository.BadgeRepository = (*BadgeRepo)(nil)

const badgeColumns = `identifier, name, role, created_at`

// BadgeRepo implementación del puerto BadgeRepository sobre PostgreSQL.
type BadgeRepo struct {
	db Querier
}

// NewBadgeRepository construye el adaptador. db puede ser el pool o una pgx.Tx.
func NewBadgeRepository(db Querier) *BadgeRepo {
	return &BadgeRepo{db: db}
}

func errDuplicate(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrDuplicateIdentifier, err)
}

// Create persiste un nuevo badge. La constraint PRIMARY KEY resuelve registros concurrentes.
func (r *BadgeRepo) Create(ctx context.Context, badge *entity.Badge) error {
	code, err := badge.Role.Code()
	if err != nil {
		return err
	}
	query := `INSERT INTO badges (` + badgeColumns + `) VALUES ($1, $2, $3, $4)`
	_, err = r.db.Exec(ctx, query, badge.Identifier, badge.Name, code, badge.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errDuplicate(err)
		}
		return fmt.Errorf("insert badge: %w", err)
	}
	return nil
}

// GetByIdentifier obtiene un badge; nil, nil si no existe.
func (r *BadgeRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.Badge, error) {
	return r.findOne(ctx, `SELECT `+badgeColumns+` FROM badges WHERE identifier = $1`, identifier)
}

// GetByIdentifierForUpdate igual que GetByIdentifier pero bloquea la fila hasta el fin de la tx.
func (r *BadgeRepo) GetByIdentifierForUpdate(ctx context.Context, identifier string) (*entity.Badge, error) {
	return r.findOne(ctx, `SELECT `+badgeColumns+` FROM badges WHERE identifier = $1 FOR UPDATE`, identifier)
}

func (r *BadgeRepo) findOne(ctx context.Context, query, identifier string) (*entity.Badge, error) {
	b, err := scanBadge(r.db.QueryRow(ctx, query, identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	tag, err := r.db.Exec(ctx, `UPDATE badges SET name = $2, role = $3 WHERE identifier = $1`,
		badge.Identifier, badge.Name, code)
	if err != nil {
		return fmt.Errorf("update badge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un badge en una sola sentencia.
func (r *BadgeRepo) Delete(ctx context.Context, identifier string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM badges WHERE identifier = $1`, identifier)
	if err != nil {
		return fmt.Errorf("delete badge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve una página ordenada por created_at descendente.
func (r *BadgeRepo) List(ctx context.Context, limit, offset int) ([]*entity.Badge, error) {
	query := `SELECT ` + badgeColumns + ` FROM badges ORDER BY created_at DESC, identifier LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
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
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM badges`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count badges: %w", err)
	}
	return n, nil
}

func scanBadge(row pgx.Row) (*entity.Badge, error) {
	var b entity.Badge
	var code int16
	if err := row.Scan(&b.Identifier, &b.Name, &code, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Role = entity.RoleFromCode(code)
	return &b, nil
}
