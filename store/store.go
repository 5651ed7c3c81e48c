// Package store opens the SQL backends that hold the aggregated snapshot.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	d "github.com/invertedv/coviddash"
	_ "github.com/jackc/pgx/stdlib"
	_ "modernc.org/sqlite"
)

const (
	chPort      = "9000"
	pgPort      = "5432"
	dialTimeout = 30 * time.Second
)

// Source says where the snapshot lives. Path is used by sqlite; the others by postgres and clickhouse.
type Source struct {
	Dialect  string
	Path     string
	Host     string
	User     string
	Password string
	DBName   string
}

// SQLite is a Source for the sqlite file at path. ":memory:" gives a private in-memory database.
func SQLite(path string) Source {
	return Source{Dialect: d.SL, Path: path}
}

// Open connects to src and returns its Dialect.
func Open(src Source) (*d.Dialect, error) {
	var (
		db *sql.DB
		e  error
	)
	switch src.Dialect {
	case d.SL:
		db, e = NewConnectSQLite(src.Path)
	case d.PG:
		db, e = NewConnectPG(src.Host, src.User, src.Password, src.DBName)
	case d.CH:
		db, e = NewConnectCH(src.Host, src.User, src.Password)
	default:
		return nil, fmt.Errorf("unsupported dialect %s", src.Dialect)
	}

	if e != nil {
		return nil, e
	}

	var dialect *d.Dialect
	if dialect, e = d.NewDialect(src.Dialect, db); e != nil {
		_ = db.Close()
		return nil, e
	}

	return dialect, nil
}

// NewConnectSQLite opens the sqlite database at path, creating it if needed.
func NewConnectSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("no sqlite path")
	}

	var (
		db *sql.DB
		e  error
	)
	if db, e = sql.Open("sqlite", path); e != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, e)
	}

	// :memory: databases are per connection
	db.SetMaxOpenConns(1)

	return ping(db, "sqlite "+path)
}

// NewConnectPG connects to postgres at host (port 5432).
func NewConnectPG(host, user, password, dbName string) (*sql.DB, error) {
	connectionStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, pgPort, dbName)

	var (
		db *sql.DB
		e  error
	)
	if db, e = sql.Open("pgx", connectionStr); e != nil {
		return nil, fmt.Errorf("open postgres %s: %w", host, e)
	}

	return ping(db, "postgres "+host)
}

// NewConnectCH connects to ClickHouse at host (port 9000).
func NewConnectCH(host, user, password string) (*sql.DB, error) {
	db := clickhouse.OpenDB(
		&clickhouse.Options{
			Addr: []string{host + ":" + chPort},
			Auth: clickhouse.Auth{
				Database: "default",
				Username: user,
				Password: password,
			},
			DialTimeout: dialTimeout,
			Compression: &clickhouse.Compression{
				Method: clickhouse.CompressionLZ4,
				Level:  0,
			},
		})

	return ping(db, "clickhouse "+host)
}

func ping(db *sql.DB, what string) (*sql.DB, error) {
	if e := db.Ping(); e != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to %s: %w", what, e)
	}

	return db, nil
}
