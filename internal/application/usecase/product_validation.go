package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// productFields son los campos que comparten la creación y la actualización completa.
type productFields struct {
	Name        string
	Description *string
	Code        string
	Price       decimal.Decimal
	Stock       int
	CategoryID  int64
}

func (uc *ProductUseCase) validateCreate(ctx context.Context, in dto.CreateProductRequest) error {
	return uc.validateProductFields(ctx, productFields{
		Name:        in.Name,
		Description: in.Description,
		Code:        in.Code,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
	}, nil)
}

func (uc *ProductUseCase) validateUpdate(ctx context.Context, id int64, in dto.UpdateProductRequest) error {
	return uc.validateProductFields(ctx, productFields{
		Name:        in.Name,
		Description: in.Description,
		Code:        in.Code,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
	}, &id)
}

// validateProductFields aplica las reglas en orden fijo para que el mensaje de error sea
// determinista: nombre, código, precio, stock, categoría seleccionada, categoría existente
// y unicidad del código (excluyendo excludeID).
func (uc *ProductUseCase) validateProductFields(ctx context.Context, f productFields, excludeID *int64) error {
	if strings.TrimSpace(f.Name) == "" {
		return domain.Validation("El nombre del producto es obligatorio")
	}
	if tooLong(f.Name, entity.ProductNameMaxLen) {
		return domain.Validation("El nombre no puede exceder los %d caracteres", entity.ProductNameMaxLen)
	}
	if f.Description != nil && tooLong(*f.Description, entity.ProductDescriptionMaxLen) {
		return domain.Validation("La descripción no puede exceder los %d caracteres", entity.ProductDescriptionMaxLen)
	}
	if strings.TrimSpace(f.Code) == "" {
		return domain.Validation("El código del producto es obligatorio")
	}
	if tooLong(f.Code, entity.ProductCodeMaxLen) {
		return domain.Validation("El código no puede exceder los %d caracteres", entity.ProductCodeMaxLen)
	}
	if err := validatePrice(f.Price); err != nil {
		return err
	}
	if err := validateStock(f.Stock); err != nil {
		return err
	}
	if f.CategoryID <= 0 {
		return domain.Validation("Debe seleccionar una categoría válida")
	}
	if err := uc.requireCategory(ctx, f.CategoryID); err != nil {
		return err
	}
	exists, err := uc.products.ExistsByCode(ctx, f.Code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.Conflict("Ya existe un producto con el código '%s'", f.Code)
	}
	return nil
}

// validatePatch valida solo los campos enviados. No revisa la unicidad del código:
// en esta ruta la garantía la da el índice único del almacenamiento.
func (uc *ProductUseCase) validatePatch(ctx context.Context, in dto.PatchProductRequest) error {
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return err
		}
	}
	if in.Stock != nil {
		if err := validateStock(*in.Stock); err != nil {
			return err
		}
	}
	if in.Name != nil && *in.Name != "" {
		if strings.TrimSpace(*in.Name) == "" {
			return domain.Validation("El nombre del producto no puede estar vacío")
		}
		if tooLong(*in.Name, entity.ProductNameMaxLen) {
			return domain.Validation("El nombre no puede exceder los %d caracteres", entity.ProductNameMaxLen)
		}
	}
	if in.Description != nil && tooLong(*in.Description, entity.ProductDescriptionMaxLen) {
		return domain.Validation("La descripción no puede exceder los %d caracteres", entity.ProductDescriptionMaxLen)
	}
	if in.Code != nil && *in.Code != "" {
		if strings.TrimSpace(*in.Code) == "" {
			return domain.Validation("El código del producto no puede estar vacío")
		}
		if tooLong(*in.Code, entity.ProductCodeMaxLen) {
			return domain.Validation("El código no puede exceder los %d caracteres", entity.ProductCodeMaxLen)
		}
	}
	if in.CategoryID != nil {
		if err := uc.requireCategory(ctx, *in.CategoryID); err != nil {
			return err
		}
	}
	return nil
}

// validatePrice exige al menos 0.01 y como máximo dos decimales; la columna redondearía el resto.
func validatePrice(price decimal.Decimal) error {
	if price.LessThan(entity.ProductMinPrice) {
		return domain.Validation("El precio del producto debe ser mayor que 0")
	}
	if !price.Equal(price.Round(entity.ProductPriceScale)) {
		return domain.Validation("El precio del producto admite como máximo %d decimales", entity.ProductPriceScale)
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return domain.Validation("El stock del producto no puede ser negativo")
	}
	if stock > entity.ProductMaxStock {
		return domain.Validation("El stock del producto no puede exceder %d", entity.ProductMaxStock)
	}
	return nil
}

// requireCategory verifica que la categoría exista y esté activa.
func (uc *ProductUseCase) requireCategory(ctx context.Context, categoryID int64) error {
	category, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.Validation("No existe la categoría con ID %d", categoryID)
	}
	return nil
}
