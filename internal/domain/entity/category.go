package entity

import "time"

// Límites de longitud de Category (en caracteres).
const (
	CategoryNameMaxLen        = 100
	CategoryDescriptionMaxLen = 500
)

// Category representa una categoría de productos (maestro). Nunca se borra físicamente:
// Active=false con Deletion opcional modela la eliminación lógica.
type Category struct {
	ID             int64
	Name           string
	Description    *string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	Deletion       *DeletionAudit
	ActiveProducts int // agregado de solo lectura: productos activos de la categoría
}

// CategoryDetail es una categoría activa junto con sus productos activos.
type CategoryDetail struct {
	Category
	Products []*Product
}

// CategoryPatch describe una actualización parcial; nil significa "no enviado".
// Description apuntando a "" limpia la descripción.
type CategoryPatch struct {
	Name        *string
	Description *string
	Active      *bool
	UpdatedAt   time.Time
}
