package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Límites de longitud de Product (en caracteres).
const (
	ProductNameMaxLen        = 150
	ProductDescriptionMaxLen = 1000
	ProductCodeMaxLen        = 50
)

// Rango de precio y stock que admiten las columnas NUMERIC(18,2) e INTEGER.
const (
	ProductPriceScale = 2
	ProductMaxStock   = math.MaxInt32
)

// ProductMinPrice es el menor precio representable con dos decimales.
var ProductMinPrice = decimal.New(1, -ProductPriceScale)

// Product representa un producto (detalle) que pertenece a exactamente una categoría.
// Code es único (sin distinguir mayúsculas) entre productos activos.
type Product struct {
	ID           int64
	Name         string
	Description  *string
	Price        decimal.Decimal // > 0
	Stock        int             // >= 0
	Code         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	Deletion     *DeletionAudit
	CategoryID   int64
	CategoryName string // desnormalizado en las vistas de lectura
}

// ProductPatch describe una actualización parcial; nil significa "no enviado".
type ProductPatch struct {
	Name        *string
	Description *string
	Code        *string
	Price       *decimal.Decimal
	Stock       *int
	Active      *bool
	CategoryID  *int64
	UpdatedAt   time.Time
}
