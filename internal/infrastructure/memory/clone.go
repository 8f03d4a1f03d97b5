package memory

import (
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneAudit(a *entity.DeletionAudit) *entity.DeletionAudit {
	if a == nil {
		return nil
	}
	v := *a
	v.Reason = cloneString(a.Reason)
	return &v
}

// emptyToNil replica la semántica de la columna: descripción vacía se guarda como NULL.
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return cloneString(s)
}
