package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/rfid-access-api/internal/application/badge"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
)

var _ badge.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción database/sql.
type TxRunner struct {
	db      *sql.DB
	dialect Dialect
}

// NewTxRunner construye el runner.
func NewTxRunner(db *sql.DB, dialect Dialect) *TxRunner {
	return &TxRunner{db: db, dialect: dialect}
}

// Run inicia una transacción, ejecuta fn con el repositorio atado a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(badges repository.BadgeRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewBadgeRepository(tx, r.dialect)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		if r.dialect.isUnique(err) {
			return errDuplicate(err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
