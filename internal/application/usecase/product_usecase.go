package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// ProductUseCase aplica las reglas de negocio e integridad de productos.
// Depende también del repositorio de categorías para verificar la categoría dueña.
type ProductUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{products: products, categories: categories}
}

// List devuelve los productos activos ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.products.ListActive(ctx)
	if err != nil {
		return nil, internal(err, "Error al obtener los productos")
	}
	return toProductResponses(list), nil
}

// ListByCategory devuelve los productos activos de una categoría.
func (uc *ProductUseCase) ListByCategory(ctx context.Context, categoryID int64) ([]dto.ProductResponse, error) {
	if categoryID <= 0 {
		return nil, domain.Validation("El ID de la categoría debe ser mayor que 0")
	}
	list, err := uc.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, internal(err, "Error al obtener los productos de la categoría %d", categoryID)
	}
	return toProductResponses(list), nil
}

// GetByID obtiene un producto activo.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	if id <= 0 {
		return nil, domain.NotFound("El ID del producto debe ser mayor que 0")
	}
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err, "Error al obtener el producto con ID %d", id)
	}
	if product == nil {
		return nil, domain.NotFound("No se encontró el producto con ID %d", id)
	}
	return toProductResponse(product), nil
}

// Search busca por nombre o código. Un término vacío o solo espacios equivale a List.
func (uc *ProductUseCase) Search(ctx context.Context, term string) ([]dto.ProductResponse, error) {
	if strings.TrimSpace(term) == "" {
		return uc.List(ctx)
	}
	list, err := uc.products.Search(ctx, term)
	if err != nil {
		return nil, internal(err, "Error al buscar productos con el término '%s'", term)
	}
	return toProductResponses(list), nil
}

// Create valida y crea un producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.validateCreate(ctx, in); err != nil {
		return nil, internal(err, "Error al crear el producto")
	}
	product := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Code:        in.Code,
		Active:      boolOr(in.Active, true),
		CategoryID:  in.CategoryID,
		CreatedAt:   time.Now(),
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, uc.persistError(err, in.Code, in.CategoryID, "Error al crear el producto")
	}
	return toProductResponse(product), nil
}

// Update valida y reemplaza todos los campos de un producto activo.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if id <= 0 {
		return nil, domain.Validation("El ID del producto debe ser mayor que 0")
	}
	if err := uc.validateUpdate(ctx, id, in); err != nil {
		return nil, internal(err, "Error al actualizar el producto con ID %d", id)
	}
	now := time.Now()
	updated, err := uc.products.Update(ctx, &entity.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Code:        in.Code,
		Active:      boolOr(in.Active, true),
		CategoryID:  in.CategoryID,
		UpdatedAt:   &now,
	})
	if err != nil {
		return nil, uc.persistError(err, in.Code, in.CategoryID, "Error al actualizar el producto con ID %d", id)
	}
	if updated == nil {
		return nil, domain.NotFound("No se encontró el producto con ID %d", id)
	}
	return toProductResponse(updated), nil
}

// UpdatePartial valida y aplica solo los campos enviados.
func (uc *ProductUseCase) UpdatePartial(ctx context.Context, id int64, in dto.PatchProductRequest) (*dto.ProductResponse, error) {
	if id <= 0 {
		return nil, domain.Validation("El ID del producto debe ser mayor que 0")
	}
	if err := uc.validatePatch(ctx, in); err != nil {
		return nil, internal(err, "Error al actualizar parcialmente el producto con ID %d", id)
	}
	patch := entity.ProductPatch{
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Active:      in.Active,
		CategoryID:  in.CategoryID,
		UpdatedAt:   time.Now(),
	}
	if in.Name != nil && *in.Name != "" {
		patch.Name = in.Name
	}
	if in.Code != nil && *in.Code != "" {
		patch.Code = in.Code
	}
	updated, err := uc.products.UpdatePartial(ctx, id, patch)
	if err != nil {
		var code string
		if patch.Code != nil {
			code = *patch.Code
		}
		var categoryID int64
		if patch.CategoryID != nil {
			categoryID = *patch.CategoryID
		}
		return nil, uc.persistError(err, code, categoryID, "Error al actualizar parcialmente el producto con ID %d", id)
	}
	if updated == nil {
		return nil, domain.NotFound("No se encontró el producto con ID %d", id)
	}
	return toProductResponse(updated), nil
}

// Delete elimina lógicamente un producto. Con audit != nil registra usuario, motivo y fecha.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64, audit *dto.DeletionRequest) error {
	if id <= 0 {
		return domain.Validation("El ID del producto debe ser mayor que 0")
	}
	now := time.Now()
	deletion, err := toDeletionAudit(audit, now)
	if err != nil {
		return err
	}
	ok, err := uc.products.SoftDelete(ctx, id, now, deletion)
	if err != nil {
		return internal(err, "Error al eliminar el producto con ID %d", id)
	}
	if !ok {
		return domain.NotFound("No se encontró el producto con ID %d", id)
	}
	return nil
}

// ExistsByCode indica si hay otro producto activo con ese código (sin distinguir mayúsculas).
func (uc *ProductUseCase) ExistsByCode(ctx context.Context, code string, excludeID *int64) (bool, error) {
	exists, err := uc.products.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return false, internal(err, "Error al verificar el código del producto")
	}
	return exists, nil
}

// persistError traduce las violaciones de restricciones del almacenamiento a errores de negocio.
func (uc *ProductUseCase) persistError(err error, code string, categoryID int64, format string, args ...any) error {
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		return domain.Conflict("Ya existe un producto con el código '%s'", code)
	case errors.Is(err, domain.ErrInvalidInput) && !domain.IsBusiness(err):
		return domain.Validation("No existe la categoría con ID %d", categoryID)
	case errors.Is(err, domain.ErrOutOfRange):
		return domain.Validation("El precio o el stock del producto están fuera del rango permitido")
	}
	return internal(err, format, args...)
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		Code:         p.Code,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
	}
}
