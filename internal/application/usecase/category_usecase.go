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

const msgCategoryDeleteFailed = "No se puede eliminar la categoría. Puede que no exista o tenga productos asociados"

// CategoryUseCase aplica las reglas de negocio e integridad de categorías.
// No guarda estado entre llamadas; es seguro compartirlo entre peticiones concurrentes.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso con el puerto de persistencia.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// List devuelve las categorías activas ordenadas por nombre, con su total de productos activos.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, internal(err, "Error al obtener las categorías")
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return items, nil
}

// GetByID obtiene una categoría activa.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	if id <= 0 {
		return nil, domain.NotFound("El ID de la categoría debe ser mayor que 0")
	}
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err, "Error al obtener la categoría con ID %d", id)
	}
	if category == nil {
		return nil, domain.NotFound("No se encontró la categoría con ID %d", id)
	}
	return toCategoryResponse(category), nil
}

// GetWithProducts obtiene una categoría activa con sus productos activos.
func (uc *CategoryUseCase) GetWithProducts(ctx context.Context, id int64) (*dto.CategoryWithProductsResponse, error) {
	if id <= 0 {
		return nil, domain.NotFound("El ID de la categoría debe ser mayor que 0")
	}
	detail, err := uc.repo.GetByIDWithProducts(ctx, id)
	if err != nil {
		return nil, internal(err, "Error al obtener la categoría con productos para ID %d", id)
	}
	if detail == nil {
		return nil, domain.NotFound("No se encontró la categoría con ID %d", id)
	}
	products := make([]dto.ProductResponse, 0, len(detail.Products))
	for _, p := range detail.Products {
		products = append(products, *toProductResponse(p))
	}
	return &dto.CategoryWithProductsResponse{
		ID:          detail.ID,
		Name:        detail.Name,
		Description: detail.Description,
		Active:      detail.Active,
		CreatedAt:   detail.CreatedAt,
		Products:    products,
	}, nil
}

// Create crea una categoría. El nombre debe ser único entre las activas sin distinguir mayúsculas.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := validateCategoryFields(in.Name, in.Description); err != nil {
		return nil, err
	}
	exists, err := uc.repo.ExistsByName(ctx, in.Name, nil)
	if err != nil {
		return nil, internal(err, "Error al crear la categoría")
	}
	if exists {
		return nil, domain.Conflict("Ya existe una categoría con el nombre '%s'", in.Name)
	}
	category := &entity.Category{
		Name:        in.Name,
		Description: in.Description,
		Active:      boolOr(in.Active, true),
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("Ya existe una categoría con el nombre '%s'", in.Name)
		}
		return nil, internal(err, "Error al crear la categoría")
	}
	category.ActiveProducts = 0
	return toCategoryResponse(category), nil
}

// Update reemplaza nombre, descripción y estado de una categoría activa.
// Un estado omitido deja la categoría activa; desactivar exige enviarlo en false.
func (uc *CategoryUseCase) Update(ctx context.Context, id int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if id <= 0 {
		return nil, domain.Validation("El ID de la categoría debe ser mayor que 0")
	}
	if err := validateCategoryFields(in.Name, in.Description); err != nil {
		return nil, err
	}
	exists, err := uc.repo.ExistsByName(ctx, in.Name, &id)
	if err != nil {
		return nil, internal(err, "Error al actualizar la categoría con ID %d", id)
	}
	if exists {
		return nil, domain.Conflict("Ya existe otra categoría con el nombre '%s'", in.Name)
	}
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err, "Error al actualizar la categoría con ID %d", id)
	}
	if current == nil {
		return nil, domain.NotFound("No se encontró la categoría con ID %d", id)
	}
	active := boolOr(in.Active, true)
	if !active && current.ActiveProducts > 0 {
		return nil, domain.Conflict("No se puede desactivar la categoría con ID %d porque tiene productos activos", id)
	}
	now := time.Now()
	updated, err := uc.repo.Update(ctx, &entity.Category{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Active:      active,
		UpdatedAt:   &now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("Ya existe otra categoría con el nombre '%s'", in.Name)
		}
		return nil, internal(err, "Error al actualizar la categoría con ID %d", id)
	}
	if updated == nil {
		return nil, domain.NotFound("No se encontró la categoría con ID %d", id)
	}
	return toCategoryResponse(updated), nil
}

// UpdatePartial aplica solo los campos enviados. El total de productos no se recalcula
// en esta ruta y se devuelve en 0.
func (uc *CategoryUseCase) UpdatePartial(ctx context.Context, id int64, in dto.PatchCategoryRequest) (*dto.CategoryResponse, error) {
	if id <= 0 {
		return nil, domain.NotFound("No se encontró la categoría con ID %d", id)
	}
	patch := entity.CategoryPatch{
		Description: in.Description,
		Active:      in.Active,
		UpdatedAt:   time.Now(),
	}
	if in.Name != nil && *in.Name != "" {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.Validation("El nombre de la categoría no puede estar vacío")
		}
		patch.Name = in.Name
	}
	if err := validateCategoryLengths(patch.Name, in.Description); err != nil {
		return nil, err
	}

	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err, "Error al actualizar parcialmente la categoría con ID %d", id)
	}
	if current == nil {
		return nil, domain.NotFound("No se encontró la categoría con ID %d", id)
	}
	if in.Active != nil && !*in.Active && current.ActiveProducts > 0 {
		return nil, domain.Conflict("No se puede desactivar la categoría con ID %d porque tiene productos activos", id)
	}

	updated, err := uc.repo.UpdatePartial(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) && patch.Name != nil {
			return nil, domain.Conflict("Ya existe otra categoría con el nombre '%s'", *patch.Name)
		}
		return nil, internal(err, "Error al actualizar parcialmente la categoría con ID %d", id)
	}
	if updated == nil {
		return nil, domain.NotFound("No se encontró la categoría con ID %d", id)
	}
	updated.ActiveProducts = 0
	return toCategoryResponse(updated), nil
}

// Delete elimina lógicamente una categoría sin productos activos. Con audit != nil registra
// además usuario, motivo y fecha de eliminación.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64, audit *dto.DeletionRequest) error {
	if id <= 0 {
		return domain.Validation("El ID de la categoría debe ser mayor que 0")
	}
	now := time.Now()
	deletion, err := toDeletionAudit(audit, now)
	if err != nil {
		return err
	}
	ok, err := uc.repo.SoftDelete(ctx, id, now, deletion)
	if err != nil {
		return internal(err, "Error al eliminar la categoría con ID %d", id)
	}
	if !ok {
		return domain.Conflict(msgCategoryDeleteFailed)
	}
	return nil
}

// ExistsByName indica si hay otra categoría activa con ese nombre (sin distinguir mayúsculas).
func (uc *CategoryUseCase) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	exists, err := uc.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return false, internal(err, "Error al verificar el nombre de la categoría")
	}
	return exists, nil
}

func validateCategoryFields(name string, description *string) error {
	if strings.TrimSpace(name) == "" {
		return domain.Validation("El nombre de la categoría es obligatorio")
	}
	return validateCategoryLengths(&name, description)
}

func validateCategoryLengths(name, description *string) error {
	if name != nil && tooLong(*name, entity.CategoryNameMaxLen) {
		return domain.Validation("El nombre no puede exceder los %d caracteres", entity.CategoryNameMaxLen)
	}
	if description != nil && tooLong(*description, entity.CategoryDescriptionMaxLen) {
		return domain.Validation("La descripción no puede exceder los %d caracteres", entity.CategoryDescriptionMaxLen)
	}
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		TotalProducts: c.ActiveProducts,
	}
}
