package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront/catalog-service/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	queryTimeout   = 5 * time.Second

	uniqueViolation = "23505"
)

// Config captures the settings required to open a Postgres pool.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Connect opens a pgx pool, verifies it with a ping and applies the schema.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := migrate(connectCtx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS roles (id BIGINT PRIMARY KEY, name TEXT UNIQUE NOT NULL);`,
		`INSERT INTO roles (id, name) VALUES (1, 'ROLE_USER'), (2, 'ROLE_SELLER'), (3, 'ROLE_ADMIN') ON CONFLICT (id) DO NOTHING;`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role_id BIGINT NOT NULL REFERENCES roles(id),
			PRIMARY KEY (user_id, role_id)
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT 'default.png',
			quantity INTEGER NOT NULL DEFAULT 0,
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			discount DOUBLE PRECISION NOT NULL DEFAULT 0,
			special_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			seller_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS products_category_name_unique_idx ON products (category_id, name);`,
		`CREATE INDEX IF NOT EXISTS products_name_lower_idx ON products (LOWER(name));`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// orderBy renders an ORDER BY clause from a whitelisted column map. Ties are
// broken by id so paging is stable.
func orderBy(s domain.Sort, columns map[domain.SortField]string) string {
	col, ok := columns[s.Field]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if s.Direction == domain.SortDesc {
		dir = "DESC"
	}
	if col == "id" {
		return "ORDER BY id " + dir
	}
	return "ORDER BY " + col + " " + dir + ", id ASC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern that matches keyword literally.
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}
