package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// categoryColumns incluye el total de productos activos como subconsulta correlacionada.
const categoryColumns = `c.id, c.name, c.description, c.active, c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.active)::int AS active_products`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt, &c.ActiveProducts); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListActive lista las categorías activas ordenadas por nombre.
func (r *CategoryRepo) ListActive(ctx context.Context) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + `
		FROM categories c
		WHERE c.active
		ORDER BY c.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetByID obtiene una categoría activa; nil si no existe o está inactiva.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + `
		FROM categories c
		WHERE c.id = $1 AND c.active`
	c, err := scanCategory(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetByIDWithProducts obtiene una categoría activa junto con sus productos activos.
func (r *CategoryRepo) GetByIDWithProducts(ctx context.Context, id int64) (*entity.CategoryDetail, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	products, err := queryProducts(ctx, r.q, `p.active AND p.category_id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &entity.CategoryDetail{Category: *c, Products: products}, nil
}

// Create persiste una nueva categoría y asigna el ID generado.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (name, description, active, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, category.Name, category.Description, category.Active, category.CreatedAt).Scan(&category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert category: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// Update sobrescribe nombre, descripción y estado de una categoría activa.
func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	query := `
		UPDATE categories c
		SET name = $2, description = $3, active = $4, updated_at = $5
		WHERE c.id = $1 AND c.active
		RETURNING ` + categoryColumns
	c, err := scanCategory(r.q.QueryRow(ctx, query,
		category.ID, category.Name, category.Description, category.Active, category.UpdatedAt,
	))
	if err != nil {
		return nil, categoryWriteError("update category", err)
	}
	return c, nil
}

// UpdatePartial actualiza solo las columnas presentes en el patch. No recalcula el total de productos.
func (r *CategoryRepo) UpdatePartial(ctx context.Context, id int64, patch entity.CategoryPatch) (*entity.Category, error) {
	set := newSetBuilder(id)
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Description != nil {
		set.add("description", emptyToNull(*patch.Description))
	}
	if patch.Active != nil {
		set.add("active", *patch.Active)
	}
	set.add("updated_at", patch.UpdatedAt)

	query := `
		UPDATE categories c
		SET ` + set.clause() + `
		WHERE c.id = $1 AND c.active
		RETURNING c.id, c.name, c.description, c.active, c.created_at, c.updated_at, 0`
	c, err := scanCategory(r.q.QueryRow(ctx, query, set.args...))
	if err != nil {
		return nil, categoryWriteError("patch category", err)
	}
	return c, nil
}

// SoftDelete desactiva la categoría solo si está activa y no tiene productos activos.
// Con audit nil no se registran las columnas de auditoría.
func (r *CategoryRepo) SoftDelete(ctx context.Context, id int64, at time.Time, audit *entity.DeletionAudit) (bool, error) {
	query := `
		UPDATE categories c
		SET active = FALSE, updated_at = $2, deleted_at = $3, deleted_by = $4, deletion_reason = $5
		WHERE c.id = $1 AND c.active
		  AND NOT EXISTS (SELECT 1 FROM products p WHERE p.category_id = c.id AND p.active)`
	deletedAt, deletedBy, reason := auditColumns(audit)
	cmd, err := r.q.Exec(ctx, query, id, at, deletedAt, deletedBy, reason)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ExistsByName indica si hay otra categoría activa con el mismo nombre, sin distinguir mayúsculas.
func (r *CategoryRepo) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE lower(name) = lower($1) AND active AND ($2::bigint IS NULL OR id <> $2)
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists category name: %w", err)
	}
	return exists, nil
}

func categoryWriteError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// setBuilder arma la cláusula SET de una actualización parcial; $1 queda reservado para el id.
type setBuilder struct {
	cols []string
	args []any
}

func newSetBuilder(id int64) *setBuilder {
	return &setBuilder{args: []any{id}}
}

func (b *setBuilder) add(col string, v any) {
	b.args = append(b.args, v)
	b.cols = append(b.cols, fmt.Sprintf("%s = $%d", col, len(b.args)))
}

func (b *setBuilder) clause() string {
	return strings.Join(b.cols, ", ")
}

func emptyToNull(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func auditColumns(audit *entity.DeletionAudit) (*time.Time, *string, *string) {
	if audit == nil {
		return nil, nil, nil
	}
	at, by := audit.At, audit.By
	return &at, &by, audit.Reason
}
