// Package sqldb adaptadores de persistencia sobre database/sql para MySQL y SQLite.
// Ambos motores usan placeholders "?" y comparten las consultas; Dialect aísla lo que cambia.
package sqldb

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
)

// Dialect diferencias entre motores.
type Dialect struct {
	Name      string
	Driver    string
	forUpdate string
	isUnique  func(error) bool
}

// Códigos de error de restricción única.
const (
	mysqlDuplicateEntry    = 1062
	sqliteConstraintPK     = 1555
	sqliteConstraintUnique = 2067
	timestampLayout        = "2006-01-02 15:04:05.000000"
)

var (
	// MySQL InnoDB; FOR UPDATE bloquea la fila dentro de la tx.
	MySQL = Dialect{
		Name:      "mysql",
		Driver:    "mysql",
		forUpdate: " FOR UPDATE",
		isUnique: func(err error) bool {
			var myErr *mysql.MySQLError
			return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
		},
	}

	// SQLite una sola conexión: las transacciones ya quedan serializadas y no existe FOR UPDATE.
	SQLite = Dialect{
		Name:   "sqlite",
		Driver: "sqlite",
		isUnique: func(err error) bool {
			var sqErr *sqlite.Error
			if errors.As(err, &sqErr) {
				return sqErr.Code() == sqliteConstraintUnique || sqErr.Code() == sqliteConstraintPK
			}
			return strings.Contains(err.Error(), "UNIQUE constraint failed")
		},
	}
)

// formatTimestamp ancho fijo en UTC: el orden lexicográfico coincide con el cronológico.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp acepta time.Time (MySQL con parseTime) o texto (SQLite).
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return time.ParseInLocation(timestampLayout, t, time.UTC)
	case []byte:
		return time.ParseInLocation(timestampLayout, string(t), time.UTC)
	}
	return time.Time{}, fmt.Errorf("timestamp no soportado: %T", v)
}
