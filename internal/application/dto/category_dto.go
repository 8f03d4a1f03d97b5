package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría. Estado omitido equivale a true.
type CreateCategoryRequest struct {
	Name        string  `json:"nombre" validate:"required,max=100"`
	Description *string `json:"descripcion" validate:"omitempty,max=500"`
	Active      *bool   `json:"estado"`
}

// UpdateCategoryRequest entrada para la actualización completa de una categoría.
type UpdateCategoryRequest struct {
	Name        string  `json:"nombre" validate:"required,max=100"`
	Description *string `json:"descripcion" validate:"omitempty,max=500"`
	Active      *bool   `json:"estado"`
}

// PatchCategoryRequest entrada para la actualización parcial (solo campos enviados).
type PatchCategoryRequest struct {
	Name        *string `json:"nombre" validate:"omitempty,max=100"`
	Description *string `json:"descripcion" validate:"omitempty,max=500"`
	Active      *bool   `json:"estado"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID            int64      `json:"id"`
	Name          string     `json:"nombre"`
	Description   *string    `json:"descripcion"`
	Active        bool       `json:"estado"`
	CreatedAt     time.Time  `json:"fechaCreacion"`
	UpdatedAt     *time.Time `json:"fechaModificacion"`
	TotalProducts int        `json:"totalProductos"`
}

// CategoryWithProductsResponse salida de una categoría con sus productos activos.
type CategoryWithProductsResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"nombre"`
	Description *string           `json:"descripcion"`
	Active      bool              `json:"estado"`
	CreatedAt   time.Time         `json:"fechaCreacion"`
	Products    []ProductResponse `json:"productos"`
}

// CategoryDeletedResponse salida de DELETE /categorias/{id}.
type CategoryDeletedResponse struct {
	Message string `json:"mensaje"`
	Deleted bool   `json:"eliminada"`
}
