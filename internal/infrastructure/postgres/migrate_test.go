package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_OrdenadasPorVersion(t *testing.T) {
	migs, err := Migrations()
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, "001_create_categories", migs[0].Version)
	assert.Equal(t, "002_create_products", migs[1].Version)
	assert.Contains(t, migs[1].SQL, "ux_products_active_code")
}

func TestMigrator_Up_AplicaSoloPendientes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(`SELECT version FROM schema_migrations`).
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow("001_create_categories"))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS products`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).
		WithArgs("002_create_products").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	applied, err := NewMigrator(mock).Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"002_create_products"}, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_Up_RevierteSiFalla(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(`SELECT version FROM schema_migrations`).
		WillReturnRows(pgxmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS categories`).
		WillReturnError(errors.New("permiso denegado"))
	mock.ExpectRollback()

	applied, err := NewMigrator(mock).Up(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_create_categories")
	assert.Empty(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_Status(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(`SELECT version FROM schema_migrations`).
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow("001_create_categories"))

	status, err := NewMigrator(mock).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []MigrationStatus{
		{Version: "001_create_categories", Applied: true},
		{Version: "002_create_products", Applied: false},
	}, status)
}
