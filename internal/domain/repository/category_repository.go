package repository

import (
	"context"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// Solo expone categorías activas; un registro ausente se reporta como nil sin error.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]*entity.Category, error)
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	GetByIDWithProducts(ctx context.Context, id int64) (*entity.CategoryDetail, error)
	// Create asigna ID al registro. Devuelve domain.ErrDuplicate si el nombre ya está en uso.
	Create(ctx context.Context, category *entity.Category) error
	// Update sobrescribe nombre, descripción y estado; devuelve el registro con el conteo recalculado.
	Update(ctx context.Context, category *entity.Category) (*entity.Category, error)
	// UpdatePartial aplica solo los campos presentes en el patch. No recalcula ActiveProducts.
	UpdatePartial(ctx context.Context, id int64, patch entity.CategoryPatch) (*entity.Category, error)
	// SoftDelete desactiva la categoría si existe y no tiene productos activos.
	// audit nil equivale a la eliminación sin auditoría.
	SoftDelete(ctx context.Context, id int64, at time.Time, audit *entity.DeletionAudit) (bool, error)
	ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error)
}
