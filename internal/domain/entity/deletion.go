package entity

import "time"

// Límites de longitud de la auditoría de eliminación.
const (
	DeletedByMaxLen      = 100
	DeletionReasonMaxLen = 500
)

// DeletionAudit registra quién, cuándo y por qué se eliminó lógicamente un registro.
// Un registro inactivo sin DeletionAudit fue eliminado sin auditoría.
type DeletionAudit struct {
	At     time.Time
	By     string
	Reason *string
}
