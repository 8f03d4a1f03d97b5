package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Estado omitido equivale a true.
type CreateProductRequest struct {
	Name        string          `json:"nombre" validate:"required,max=150"`
	Description *string         `json:"descripcion" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	Code        string          `json:"codigo" validate:"required,max=50"`
	Active      *bool           `json:"estado"`
	CategoryID  int64           `json:"categoriaId"`
}

// UpdateProductRequest entrada para la actualización completa de un producto.
type UpdateProductRequest struct {
	Name        string          `json:"nombre" validate:"required,max=150"`
	Description *string         `json:"descripcion" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	Code        string          `json:"codigo" validate:"required,max=50"`
	Active      *bool           `json:"estado"`
	CategoryID  int64           `json:"categoriaId"`
}

// PatchProductRequest entrada para la actualización parcial (solo campos enviados).
type PatchProductRequest struct {
	Name        *string          `json:"nombre" validate:"omitempty,max=150"`
	Description *string          `json:"descripcion" validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"precio"`
	Stock       *int             `json:"stock"`
	Code        *string          `json:"codigo" validate:"omitempty,max=50"`
	Active      *bool            `json:"estado"`
	CategoryID  *int64           `json:"categoriaId"`
}

// ProductResponse salida de un producto con el nombre de su categoría.
type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"nombre"`
	Description  *string         `json:"descripcion"`
	Price        decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	Code         string          `json:"codigo"`
	Active       bool            `json:"estado"`
	CreatedAt    time.Time       `json:"fechaCreacion"`
	UpdatedAt    *time.Time      `json:"fechaModificacion"`
	CategoryID   int64           `json:"categoriaId"`
	CategoryName string          `json:"categoriaNombre"`
}

// ProductDeletedResponse salida de DELETE /productos/{id}.
type ProductDeletedResponse struct {
	Message string `json:"mensaje"`
	Deleted bool   `json:"eliminado"`
}
