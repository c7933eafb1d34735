// Package repo persists users and materials in Postgres or SQLite.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/material"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
}

// SQLRepository implements Repository and material.Store. Queries use "?"
// placeholders and are rebound for Postgres.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

func New(db *sql.DB, driver string) *SQLRepository {
	return &SQLRepository{db: db, driver: driver}
}

// Open connects to Postgres when databaseURL is set and to the SQLite file
// at sqlitePath otherwise, then migrates the schema.
func Open(ctx context.Context, databaseURL, sqlitePath string) (*SQLRepository, error) {
	var (
		db  *sql.DB
		err error
		r   *SQLRepository
	)
	if databaseURL != "" {
		db, err = sql.Open(Postgres, withSSLMode(databaseURL))
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		r = New(db, Postgres)
	} else {
		db, err = sql.Open(SQLite, sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		db.SetMaxOpenConns(1)
		r = New(db, SQLite)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not responding: %w", err)
	}
	if r.driver == SQLite {
		for _, p := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
			if _, err := db.ExecContext(ctx, p); err != nil {
				db.Close()
				return nil, fmt.Errorf("%s: %w", p, err)
			}
		}
	}
	if err := r.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func withSSLMode(connStr string) string {
	if strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=require"
		}
		return connStr + "?sslmode=require"
	}
	return connStr + " sslmode=require"
}

func (r *SQLRepository) DB() *sql.DB { return r.db }

func (r *SQLRepository) Close() error { return r.db.Close() }

var schema = map[string][]string{
	Postgres: {
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			login TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS materials (
			name TEXT PRIMARY KEY,
			matnr TEXT UNIQUE NOT NULL,
			density DOUBLE PRECISION NOT NULL,
			tensile_strength DOUBLE PRECISION NOT NULL,
			yield_stress DOUBLE PRECISION NOT NULL,
			youngs_modulus DOUBLE PRECISION NOT NULL,
			type TEXT NOT NULL
		)`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			login TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			password TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS materials (
			name TEXT PRIMARY KEY,
			matnr TEXT UNIQUE NOT NULL,
			density REAL NOT NULL,
			tensile_strength REAL NOT NULL,
			yield_stress REAL NOT NULL,
			youngs_modulus REAL NOT NULL,
			type TEXT NOT NULL
		)`,
	},
}

func (r *SQLRepository) Migrate(ctx context.Context) error {
	stmts, ok := schema[r.driver]
	if !ok {
		return apperr.Validation("repo.Migrate", "unsupported driver %q", r.driver)
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// rebind turns "?" placeholders into "$1", "$2", ... for Postgres.
func (r *SQLRepository) rebind(q string) string {
	if r.driver != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *SQLRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := r.rebind("INSERT INTO users (login, email, password) VALUES (?, ?, ?) RETURNING id")
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *SQLRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := r.rebind("SELECT id, password FROM users WHERE login = ?")
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", apperr.NotFound("repo.GetByLogin", "user %q", login)
	}
	if err != nil {
		return 0, "", err
	}
	return id, hash, nil
}

// Load returns all materials ordered by name.
func (r *SQLRepository) Load(ctx context.Context) ([]material.Material, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, matnr, density, tensile_strength, yield_stress, youngs_modulus, type
		FROM materials ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	var out []material.Material
	for rows.Next() {
		var (
			name, number, typ       string
			density, rm, re, youngs float64
		)
		if err := rows.Scan(&name, &number, &density, &rm, &re, &youngs, &typ); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		t, err := material.ParseType(typ)
		if err != nil {
			return nil, err
		}
		m, err := material.New(name, number, density, rm, re, youngs, t)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Save inserts m or replaces the material with the same name. A material
// number owned by another name is rejected.
func (r *SQLRepository) Save(ctx context.Context, m material.Material) error {
	var owner string
	err := r.db.QueryRowContext(ctx, r.rebind("SELECT name FROM materials WHERE matnr = ?"), m.Number()).Scan(&owner)
	switch {
	case err == nil && owner != m.Name():
		return apperr.Validation("repo.Save", "material number %s already used by %s", m.Number(), owner)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check material number: %w", err)
	}

	query := r.rebind(`INSERT INTO materials (name, matnr, density, tensile_strength, yield_stress, youngs_modulus, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			matnr = excluded.matnr,
			density = excluded.density,
			tensile_strength = excluded.tensile_strength,
			yield_stress = excluded.yield_stress,
			youngs_modulus = excluded.youngs_modulus,
			type = excluded.type`)
	_, err = r.db.ExecContext(ctx, query, m.Name(), m.Number(), m.Density(), m.TensileStrength(),
		m.YieldStress(), m.YoungsModulus(), m.Type().String())
	if err != nil {
		return fmt.Errorf("save material %s: %w", m.Name(), err)
	}
	return nil
}
