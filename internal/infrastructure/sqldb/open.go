package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/jhoicas/rfid-access-api/pkg/logger"
)

var nowFunc = time.Now

// MySQLConfig parámetros de conexión. DSN, si no está vacío, se usa tal cual.
type MySQLConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxConns int
	MinConns int
}

// FormatDSN construye el DSN con parseTime y clientFoundRows: Update/Delete cuentan filas coincidentes.
func (c MySQLConfig) FormatDSN() (string, error) {
	var cfg *mysql.Config
	if c.DSN != "" {
		parsed, err := mysql.ParseDSN(c.DSN)
		if err != nil {
			return "", fmt.Errorf("parse MySQL DSN: %w", err)
		}
		cfg = parsed
	} else {
		cfg = mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		cfg.DBName = c.DBName
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// Store conexión database/sql y su dialecto.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// OpenMySQL abre el pool, verifica la conexión y aplica migraciones.
func OpenMySQL(ctx context.Context, cfg MySQLConfig, log *logger.Logger) (*Store, error) {
	dsn, err := cfg.FormatDSN()
	if err != nil {
		return nil, err
	}
	if log != nil {
		if err := mysql.SetLogger(mysqlLogger{zl: log.With().Str("component", "mysql").Logger()}); err != nil {
			return nil, fmt.Errorf("mysql logger: %w", err)
		}
	}
	db, err := sql.Open(MySQL.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(cfg.MinConns)
	}
	db.SetConnMaxLifetime(time.Hour)
	return open(ctx, db, MySQL)
}

// OpenSQLite abre (o crea) la base en path con una única conexión.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "./data/rfid_access.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		path,
	)
	db, err := sql.Open(SQLite.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return open(ctx, db, SQLite)
}

func open(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if err := Migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, dialect: dialect}, nil
}

// Ping comprobación de salud.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close cierra el pool.
func (s *Store) Close() error { return s.db.Close() }

// Dialect motor de la conexión.
func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) TxRunner() *TxRunner        { return NewTxRunner(s.db, s.dialect) }
func (s *Store) Badges() *BadgeRepo         { return NewBadgeRepository(s.db, s.dialect) }
func (s *Store) AccessLogs() *AccessLogRepo { return NewAccessLogRepository(s.db) }

// mysqlLogger redirige los avisos del driver (conexiones caídas, paquetes inválidos) a zerolog.
type mysqlLogger struct {
	zl zerolog.Logger
}

func (l mysqlLogger) Print(v ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprint(v...))
}
