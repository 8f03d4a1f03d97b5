package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.name, p.description, p.price, p.stock, p.code, p.active,
		p.created_at, p.updated_at, p.category_id, c.name`

// productReturning devuelve la fila escrita unida a su categoría, en el orden de productColumns.
const productReturning = `
		RETURNING id, name, description, price, stock, code, active, created_at, updated_at, category_id
	)
	SELECT ` + productColumns + `
	FROM written p
	JOIN categories c ON c.id = p.category_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Code, &p.Active,
		&p.CreatedAt, &p.UpdatedAt, &p.CategoryID, &p.CategoryName); err != nil {
		return nil, err
	}
	return &p, nil
}

// queryProducts lista productos con el nombre de su categoría aplicando el filtro where, ordenados por nombre.
func queryProducts(ctx context.Context, q Querier, where string, args ...any) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE ` + where + `
		ORDER BY p.name`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListActive lista los productos activos.
func (r *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	return queryProducts(ctx, r.q, `p.active`)
}

// ListByCategory lista los productos activos de una categoría.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID int64) ([]*entity.Product, error) {
	return queryProducts(ctx, r.q, `p.active AND p.category_id = $1`, categoryID)
}

// Search busca productos activos cuyo nombre o código contenga term. Los comodines de LIKE se tratan literal.
func (r *ProductRepo) Search(ctx context.Context, term string) ([]*entity.Product, error) {
	return queryProducts(ctx, r.q,
		`p.active AND (p.name ILIKE $1 ESCAPE '\' OR p.code ILIKE $1 ESCAPE '\')`,
		containsPattern(term),
	)
}

// GetByID obtiene un producto activo; nil si no existe o está inactivo.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1 AND p.active`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Create persiste un nuevo producto y completa ID y CategoryName.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
	WITH written AS (
		INSERT INTO products (name, description, price, stock, code, active, created_at, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)` + productReturning
	p, err := scanProduct(r.q.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Stock, product.Code,
		product.Active, product.CreatedAt, product.CategoryID,
	))
	if err != nil {
		return productWriteError("insert product", err)
	}
	product.ID = p.ID
	product.CategoryName = p.CategoryName
	return nil
}

// Update sobrescribe todos los campos editables de un producto activo.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `
	WITH written AS (
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, code = $6, active = $7,
		    category_id = $8, updated_at = $9
		WHERE id = $1 AND active` + productReturning
	p, err := scanProduct(r.q.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.Stock, product.Code,
		product.Active, product.CategoryID, product.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, productWriteError("update product", err)
	}
	return p, nil
}

// UpdatePartial actualiza solo las columnas presentes en el patch.
func (r *ProductRepo) UpdatePartial(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error) {
	set := newSetBuilder(id)
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Description != nil {
		set.add("description", emptyToNull(*patch.Description))
	}
	if patch.Code != nil {
		set.add("code", *patch.Code)
	}
	if patch.Price != nil {
		set.add("price", *patch.Price)
	}
	if patch.Stock != nil {
		set.add("stock", *patch.Stock)
	}
	if patch.Active != nil {
		set.add("active", *patch.Active)
	}
	if patch.CategoryID != nil {
		set.add("category_id", *patch.CategoryID)
	}
	set.add("updated_at", patch.UpdatedAt)

	query := `
	WITH written AS (
		UPDATE products
		SET ` + set.clause() + `
		WHERE id = $1 AND active` + productReturning
	p, err := scanProduct(r.q.QueryRow(ctx, query, set.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, productWriteError("patch product", err)
	}
	return p, nil
}

// SoftDelete desactiva un producto activo. Con audit nil no se registran las columnas de auditoría.
func (r *ProductRepo) SoftDelete(ctx context.Context, id int64, at time.Time, audit *entity.DeletionAudit) (bool, error) {
	query := `
		UPDATE products
		SET active = FALSE, updated_at = $2, deleted_at = $3, deleted_by = $4, deletion_reason = $5
		WHERE id = $1 AND active`
	deletedAt, deletedBy, reason := auditColumns(audit)
	cmd, err := r.q.Exec(ctx, query, id, at, deletedAt, deletedBy, reason)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ExistsByCode indica si hay otro producto activo con el mismo código, sin distinguir mayúsculas.
func (r *ProductRepo) ExistsByCode(ctx context.Context, code string, excludeID *int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE lower(code) = lower($1) AND active AND ($2::bigint IS NULL OR id <> $2)
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, code, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists product code: %w", err)
	}
	return exists, nil
}

func productWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	case isRangeViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrOutOfRange)
	}
	return fmt.Errorf("%s: %w", op, err)
}
