package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStorage реализует интерфейс Storage с хранением данных в PostgreSQL
type PgStorage struct {
	pool *pgxpool.Pool
}

// NewPgStorage применяет миграции и открывает пул соединений
func NewPgStorage(connString string) (*PgStorage, error) {
	if err := migratePostgres(connString); err != nil {
		return nil, err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &PgStorage{pool: pool}, nil
}

func (p *PgStorage) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *PgStorage) Get(owner, key string) (string, error) {
	ctx := context.Background()

	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM settings WHERE owner = $1 AND key = $2`, owner, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get setting: %w", err)
	}
	return value, nil
}

const pgUpsertQuery = `
	INSERT INTO settings (owner, key, value, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (owner, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`

func (p *PgStorage) Set(owner, key, value string) error {
	ctx := context.Background()
	if _, err := p.pool.Exec(ctx, pgUpsertQuery, owner, key, value); err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

// SetMany записывает значения в одной транзакции
func (p *PgStorage) SetMany(owner string, values map[string]string) error {
	ctx := context.Background()
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for key, value := range values {
			if _, err := tx.Exec(ctx, pgUpsertQuery, owner, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set settings: %w", err)
	}
	return nil
}

func (p *PgStorage) Delete(owner, key string) error {
	ctx := context.Background()

	tag, err := p.pool.Exec(ctx, `DELETE FROM settings WHERE owner = $1 AND key = $2`, owner, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PgStorage) Keys(owner string) ([]string, error) {
	ctx := context.Background()

	rows, err := p.pool.Query(ctx, `SELECT key FROM settings WHERE owner = $1 ORDER BY key`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan setting key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
