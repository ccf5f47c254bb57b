package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrPunder/grouppicker/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage реализует интерфейс Storage с хранением данных в SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage создает новое хранилище SQLite и применяет миграции
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Создаем директорию для базы данных, если она не существует
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if err := migrateSQLite(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStorage{db: db}, nil
}

// Close закрывает соединение с базой данных
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStorage) Get(owner, key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE owner = ? AND key = ?`, owner, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get setting: %w", err)
	}
	return value, nil
}

const sqliteUpsertQuery = `
	INSERT INTO settings (owner, key, value, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (owner, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

func (s *SQLiteStorage) Set(owner, key, value string) error {
	return s.execWithRetry(sqliteUpsertQuery, owner, key, value, models.GetCurrentTime().UTC().Format(time.RFC3339))
}

// SetMany записывает значения в одной транзакции
func (s *SQLiteStorage) SetMany(owner string, values map[string]string) error {
	updatedAt := models.GetCurrentTime().UTC().Format(time.RFC3339)

	return s.withRetry(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		for key, value := range values {
			if _, err := tx.Exec(sqliteUpsertQuery, owner, key, value, updatedAt); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

func (s *SQLiteStorage) Delete(owner, key string) error {
	res, err := s.db.Exec(`DELETE FROM settings WHERE owner = ? AND key = ?`, owner, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) Keys(owner string) ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM settings WHERE owner = ? ORDER BY key`, owner)
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

// CleanupTables очищает таблицы (для тестов)
func (s *SQLiteStorage) CleanupTables(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings"); err != nil {
		return fmt.Errorf("failed to clean settings table: %w", err)
	}
	return nil
}

// execWithRetry выполняет запрос с механизмом повторных попыток
func (s *SQLiteStorage) execWithRetry(query string, args ...interface{}) error {
	return s.withRetry(func() error {
		_, err := s.db.Exec(query, args...)
		return err
	})
}

// withRetry повторяет fn, пока база занята
func (s *SQLiteStorage) withRetry(fn func() error) error {
	maxRetries := 5
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if strings.Contains(err.Error(), "database is locked") {
			delay := baseDelay * time.Duration(1<<uint(i))
			jitter := time.Duration(rand.Int63n(int64(delay / 10)))
			time.Sleep(delay + jitter)
			continue
		}

		break
	}

	return fmt.Errorf("failed to execute query: %w", lastErr)
}
