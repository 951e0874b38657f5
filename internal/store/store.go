// Package store persists module definition indexes in Postgres.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ModuleRecord is one indexed module snapshot
type ModuleRecord struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	IndexedAt time.Time `json:"indexed_at"`
}

// DefinitionRecord is one qualified name in a module's index
type DefinitionRecord struct {
	ID            uuid.UUID `json:"id"`
	ModuleID      uuid.UUID `json:"module_id"`
	QualifiedName string    `json:"qualified_name"`
	Kind          string    `json:"kind"`
	StartLine     int       `json:"start_line"`
	EndLine       int       `json:"end_line"`
	Source        string    `json:"source"`
}

// Store handles index persistence
type Store struct {
	db *sql.DB
}

// Open connects to Postgres via the pgx stdlib driver
func Open(databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing connection
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the tables if they do not exist
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS modules (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			path TEXT NOT NULL DEFAULT '',
			indexed_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS definitions (
			id UUID PRIMARY KEY,
			module_id UUID NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
			qualified_name TEXT NOT NULL,
			kind TEXT NOT NULL,
			start_line INT NOT NULL,
			end_line INT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			UNIQUE (module_id, qualified_name)
		);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveModule replaces the stored index for a module name in one
// transaction and returns the new module record.
func (s *Store) SaveModule(ctx context.Context, name, path string, defs []DefinitionRecord) (*ModuleRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM modules WHERE name = $1`, name); err != nil {
		return nil, fmt.Errorf("failed to drop previous index: %w", err)
	}

	mod := &ModuleRecord{
		ID:        uuid.New(),
		Name:      name,
		Path:      path,
		IndexedAt: time.Now(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO modules (id, name, path, indexed_at)
		VALUES ($1, $2, $3, $4)
	`, mod.ID, mod.Name, mod.Path, mod.IndexedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert module: %w", err)
	}

	for _, def := range defs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO definitions (id, module_id, qualified_name, kind, start_line, end_line, source)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.New(), mod.ID, def.QualifiedName, def.Kind, def.StartLine, def.EndLine, def.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to insert definition %s: %w", def.QualifiedName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return mod, nil
}

// GetModuleByName retrieves a module record, or nil when absent
func (s *Store) GetModuleByName(ctx context.Context, name string) (*ModuleRecord, error) {
	mod := &ModuleRecord{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, path, indexed_at FROM modules WHERE name = $1
	`, name).Scan(&mod.ID, &mod.Name, &mod.Path, &mod.IndexedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	return mod, nil
}

// ListModules returns stored modules ordered by name
func (s *Store) ListModules(ctx context.Context, limit int) ([]*ModuleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, path, indexed_at FROM modules ORDER BY name LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	defer rows.Close()

	var mods []*ModuleRecord
	for rows.Next() {
		mod := &ModuleRecord{}
		if err := rows.Scan(&mod.ID, &mod.Name, &mod.Path, &mod.IndexedAt); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		mods = append(mods, mod)
	}
	return mods, rows.Err()
}

// ListDefinitions returns a module's definitions ordered by qualified name
func (s *Store) ListDefinitions(ctx context.Context, moduleID uuid.UUID) ([]DefinitionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, module_id, qualified_name, kind, start_line, end_line, source
		FROM definitions
		WHERE module_id = $1
		ORDER BY qualified_name
	`, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	defer rows.Close()

	var defs []DefinitionRecord
	for rows.Next() {
		var def DefinitionRecord
		err := rows.Scan(&def.ID, &def.ModuleID, &def.QualifiedName, &def.Kind,
			&def.StartLine, &def.EndLine, &def.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan definition: %w", err)
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// DeleteModule removes a module and its definitions
func (s *Store) DeleteModule(ctx context.Context, moduleID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM modules WHERE id = $1`, moduleID)
	if err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}
	return nil
}
