package repository

import (
	"context"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Todas las lecturas devuelven productos activos con CategoryName cargado, ordenados por nombre.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]*entity.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*entity.Product, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// Search busca term (sin distinguir mayúsculas) dentro del nombre o del código.
	Search(ctx context.Context, term string) ([]*entity.Product, error)
	// Create asigna ID y CategoryName. Devuelve domain.ErrDuplicate si el código ya está en uso
	// y domain.ErrInvalidInput si la categoría no existe.
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) (*entity.Product, error)
	UpdatePartial(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error)
	SoftDelete(ctx context.Context, id int64, at time.Time, audit *entity.DeletionAudit) (bool, error)
	ExistsByCode(ctx context.Context, code string, excludeID *int64) (bool, error)
}
