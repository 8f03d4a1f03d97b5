package dto

import "github.com/shopspring/decimal"

func init() {
	// Los clientes existentes esperan el precio como número JSON, no como string.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse cuerpo de error HTTP. Detail solo se envía en errores internos.
type ErrorResponse struct {
	Code    string `json:"codigo"`
	Message string `json:"mensaje"`
	Detail  string `json:"detalle,omitempty"`
}

// DeletionRequest entrada de la eliminación lógica con auditoría.
type DeletionRequest struct {
	DeletedBy string  `json:"usuarioEliminacion" validate:"required,max=100"`
	Reason    *string `json:"motivoEliminacion" validate:"omitempty,max=500"`
}
