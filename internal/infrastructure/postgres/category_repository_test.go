package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

var categoryCols = []string{"id", "name", "description", "active", "created_at", "updated_at", "active_products"}

type CategoryRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo *CategoryRepo
	ctx  context.Context
	now  time.Time
}

func (s *CategoryRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(s.T(), err)
	s.mock = mock
	s.repo = NewCategoryRepository(mock)
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func (s *CategoryRepoTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func TestCategoryRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryRepoTestSuite))
}

func strPtr(s string) *string { return &s }

func (s *CategoryRepoTestSuite) TestListActive_DevuelveConteoDeProductos() {
	desc := "Equipos"
	s.mock.ExpectQuery(`FROM categories c\s+WHERE c.active\s+ORDER BY c.name`).
		WillReturnRows(pgxmock.NewRows(categoryCols).
			AddRow(int64(1), "Computación", &desc, true, s.now, nil, 3).
			AddRow(int64(2), "Hogar", nil, true, s.now, &s.now, 0))

	list, err := s.repo.ListActive(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Computación", list[0].Name)
	s.Equal("Equipos", *list[0].Description)
	s.Equal(3, list[0].ActiveProducts)
	s.Nil(list[0].UpdatedAt)
	s.Nil(list[1].Description)
	s.Equal(s.now, *list[1].UpdatedAt)
}

func (s *CategoryRepoTestSuite) TestGetByID_SinFilasDevuelveNil() {
	s.mock.ExpectQuery(`WHERE c.id = \$1 AND c.active`).
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	c, err := s.repo.GetByID(s.ctx, 9)
	s.NoError(err)
	s.Nil(c)
}

func (s *CategoryRepoTestSuite) TestGetByIDWithProducts_CargaProductosActivos() {
	s.mock.ExpectQuery(`WHERE c.id = \$1 AND c.active`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(categoryCols).AddRow(int64(1), "Computación", nil, true, s.now, nil, 1))
	s.mock.ExpectQuery(`WHERE p.active AND p.category_id = \$1\s+ORDER BY p.name`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(int64(10), "Laptop", nil, decimal.RequireFromString("1500.50"), 5, "LAP-1", true, s.now, nil, int64(1), "Computación"))

	detail, err := s.repo.GetByIDWithProducts(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(detail)
	s.Equal("Computación", detail.Name)
	s.Require().Len(detail.Products, 1)
	s.Equal("LAP-1", detail.Products[0].Code)
	s.True(decimal.RequireFromString("1500.50").Equal(detail.Products[0].Price))
}

func (s *CategoryRepoTestSuite) TestGetByIDWithProducts_CategoriaInexistente() {
	s.mock.ExpectQuery(`WHERE c.id = \$1 AND c.active`).
		WithArgs(int64(4)).
		WillReturnError(pgx.ErrNoRows)

	detail, err := s.repo.GetByIDWithProducts(s.ctx, 4)
	s.NoError(err)
	s.Nil(detail)
}

func (s *CategoryRepoTestSuite) TestCreate_AsignaID() {
	c := &entity.Category{Name: "Oficina", Active: true, CreatedAt: s.now}
	s.mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs(c.Name, c.Description, true, s.now).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	s.Require().NoError(s.repo.Create(s.ctx, c))
	s.Equal(int64(7), c.ID)
}

func (s *CategoryRepoTestSuite) TestCreate_NombreDuplicado() {
	c := &entity.Category{Name: "oficina", Active: true, CreatedAt: s.now}
	s.mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs(c.Name, c.Description, true, s.now).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := s.repo.Create(s.ctx, c)
	s.ErrorIs(err, domain.ErrDuplicate)
}

func (s *CategoryRepoTestSuite) TestUpdate_RecalculaConteo() {
	c := &entity.Category{ID: 3, Name: "Hogar", Active: true, UpdatedAt: &s.now}
	s.mock.ExpectQuery(`UPDATE categories c\s+SET name = \$2, description = \$3, active = \$4, updated_at = \$5`).
		WithArgs(int64(3), "Hogar", c.Description, true, c.UpdatedAt).
		WillReturnRows(pgxmock.NewRows(categoryCols).AddRow(int64(3), "Hogar", nil, true, s.now, &s.now, 2))

	updated, err := s.repo.Update(s.ctx, c)
	s.Require().NoError(err)
	s.Equal(2, updated.ActiveProducts)
}

func (s *CategoryRepoTestSuite) TestUpdate_InexistenteDevuelveNil() {
	c := &entity.Category{ID: 3, Name: "Hogar", Active: true, UpdatedAt: &s.now}
	s.mock.ExpectQuery(`UPDATE categories c`).
		WithArgs(int64(3), "Hogar", c.Description, true, c.UpdatedAt).
		WillReturnError(pgx.ErrNoRows)

	updated, err := s.repo.Update(s.ctx, c)
	s.NoError(err)
	s.Nil(updated)
}

func (s *CategoryRepoTestSuite) TestUpdatePartial_SoloColumnasEnviadas() {
	name := "Jardín"
	s.mock.ExpectQuery(`SET name = \$2, updated_at = \$3\s+WHERE c.id = \$1 AND c.active`).
		WithArgs(int64(5), name, s.now).
		WillReturnRows(pgxmock.NewRows(categoryCols).AddRow(int64(5), name, nil, true, s.now, &s.now, 0))

	updated, err := s.repo.UpdatePartial(s.ctx, 5, entity.CategoryPatch{Name: &name, UpdatedAt: s.now})
	s.Require().NoError(err)
	s.Equal(name, updated.Name)
}

func (s *CategoryRepoTestSuite) TestUpdatePartial_DescripcionVaciaLimpia() {
	empty := ""
	s.mock.ExpectQuery(`SET description = \$2, updated_at = \$3`).
		WithArgs(int64(5), (*string)(nil), s.now).
		WillReturnRows(pgxmock.NewRows(categoryCols).AddRow(int64(5), "Jardín", nil, true, s.now, &s.now, 0))

	updated, err := s.repo.UpdatePartial(s.ctx, 5, entity.CategoryPatch{Description: &empty, UpdatedAt: s.now})
	s.Require().NoError(err)
	s.Nil(updated.Description)
}

func (s *CategoryRepoTestSuite) TestUpdatePartial_NombreDuplicado() {
	name := "Hogar"
	s.mock.ExpectQuery(`UPDATE categories c`).
		WithArgs(int64(5), name, s.now).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.repo.UpdatePartial(s.ctx, 5, entity.CategoryPatch{Name: &name, UpdatedAt: s.now})
	s.ErrorIs(err, domain.ErrDuplicate)
}

func (s *CategoryRepoTestSuite) TestSoftDelete_ConAuditoria() {
	audit := &entity.DeletionAudit{At: s.now, By: "admin", Reason: strPtr("duplicada")}
	s.mock.ExpectExec(`NOT EXISTS \(SELECT 1 FROM products p WHERE p.category_id = c.id AND p.active\)`).
		WithArgs(int64(2), s.now, &s.now, strPtr("admin"), audit.Reason).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := s.repo.SoftDelete(s.ctx, 2, s.now, audit)
	s.NoError(err)
	s.True(ok)
}

func (s *CategoryRepoTestSuite) TestSoftDelete_SinFilasAfectadas() {
	s.mock.ExpectExec(`UPDATE categories c`).
		WithArgs(int64(2), s.now, (*time.Time)(nil), (*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := s.repo.SoftDelete(s.ctx, 2, s.now, nil)
	s.NoError(err)
	s.False(ok)
}

func (s *CategoryRepoTestSuite) TestExistsByName_ExcluyeID() {
	exclude := int64(4)
	s.mock.ExpectQuery(`lower\(name\) = lower\(\$1\) AND active AND \(\$2::bigint IS NULL OR id <> \$2\)`).
		WithArgs("hogar", &exclude).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := s.repo.ExistsByName(s.ctx, "hogar", &exclude)
	s.NoError(err)
	s.True(exists)
}
