package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration es un script SQL versionado por el nombre de su archivo.
type Migration struct {
	Version string
	SQL     string
}

// MigrationStatus indica si una migración ya fue aplicada.
type MigrationStatus struct {
	Version string
	Applied bool
}

// Migrations devuelve las migraciones embebidas en orden de versión.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("leer migraciones: %w", err)
	}
	out := make([]Migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		body, err := fs.ReadFile(migrationFiles, path.Join("migrations", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: strings.TrimSuffix(e.Name(), ".sql"), SQL: string(body)})
	}
	return out, nil
}

// DB es la conexión que necesita el Migrator: consultas sueltas y transacciones.
type DB interface {
	Querier
	TxBeginner
}

// Migrator aplica las migraciones pendientes, cada una en su propia transacción.
type Migrator struct {
	q  Querier
	tx *TxRunner
}

// NewMigrator construye el migrador sobre el pool.
func NewMigrator(db DB) *Migrator {
	return &Migrator{q: db, tx: NewTxRunner(db)}
}

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Up aplica las migraciones pendientes y devuelve las versiones aplicadas.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	status, err := m.Status(ctx)
	if err != nil {
		return nil, err
	}
	all, err := Migrations()
	if err != nil {
		return nil, err
	}
	pending := make(map[string]bool, len(status))
	for _, s := range status {
		pending[s.Version] = !s.Applied
	}

	var applied []string
	for _, mig := range all {
		if !pending[mig.Version] {
			continue
		}
		err := m.tx.Run(ctx, func(q Querier) error {
			if _, err := q.Exec(ctx, mig.SQL); err != nil {
				return fmt.Errorf("migración %s: %w", mig.Version, err)
			}
			if _, err := q.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, mig.Version); err != nil {
				return fmt.Errorf("registrar migración %s: %w", mig.Version, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, mig.Version)
	}
	return applied, nil
}

// Status lista todas las migraciones embebidas indicando cuáles ya están aplicadas.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if _, err := m.q.Exec(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("crear schema_migrations: %w", err)
	}
	rows, err := m.q.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("listar migraciones aplicadas: %w", err)
	}
	defer rows.Close()
	done := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migración: %w", err)
		}
		done[v] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	all, err := Migrations()
	if err != nil {
		return nil, err
	}
	out := make([]MigrationStatus, 0, len(all))
	for _, mig := range all {
		out = append(out, MigrationStatus{Version: mig.Version, Applied: done[mig.Version]})
	}
	return out, nil
}
