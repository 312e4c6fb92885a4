package noise

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/san-kum/wavesim/internal/monitoring"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore persists noise fields in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("noise: open %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("noise: migration source: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("noise: sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("noise: migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("noise: migration up failed: %w", err)
	}
	return nil
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	monitoring.Logf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool { return false }

func (s *SQLiteStore) Load(ctx context.Context, name string, size int) (*Field, error) {
	var (
		storedSize int
		seed       int64
		blob       []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT size, seed, data FROM noise_fields WHERE name = ?`, name,
	).Scan(&storedSize, &seed, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("noise: load %s: %w", name, err)
	}
	if storedSize != size {
		return nil, ErrNotFound
	}
	return Decode(size, seed, blob)
}

func (s *SQLiteStore) Save(ctx context.Context, name string, f *Field) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO noise_fields (name, size, seed, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET size = excluded.size, seed = excluded.seed, data = excluded.data`,
		name, f.Size, f.Seed, f.Encode(),
	)
	if err != nil {
		return fmt.Errorf("noise: save %s: %w", name, err)
	}
	return nil
}

// Entry describes a persisted field without its samples.
type Entry struct {
	Name string
	Size int
	Seed int64
}

// List returns the persisted fields ordered by size.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, size, seed FROM noise_fields ORDER BY size`)
	if err != nil {
		return nil, fmt.Errorf("noise: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Size, &e.Seed); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
