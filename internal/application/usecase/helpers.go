package usecase

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// internal deja pasar los errores de negocio y envuelve cualquier otro como error interno
// con un prefijo fijo, para que la capa HTTP nunca vea un error crudo del almacenamiento.
func internal(err error, format string, args ...any) error {
	if domain.IsBusiness(err) {
		return err
	}
	return domain.Internal(fmt.Sprintf(format, args...), err)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

// toDeletionAudit valida la auditoría de eliminación; nil significa eliminación simple.
func toDeletionAudit(in *dto.DeletionRequest, at time.Time) (*entity.DeletionAudit, error) {
	if in == nil {
		return nil, nil
	}
	if strings.TrimSpace(in.DeletedBy) == "" {
		return nil, domain.Validation("El usuario que realiza la eliminación es obligatorio")
	}
	if tooLong(in.DeletedBy, entity.DeletedByMaxLen) {
		return nil, domain.Validation("El usuario de eliminación no puede exceder los %d caracteres", entity.DeletedByMaxLen)
	}
	if in.Reason != nil && tooLong(*in.Reason, entity.DeletionReasonMaxLen) {
		return nil, domain.Validation("El motivo de eliminación no puede exceder los %d caracteres", entity.DeletionReasonMaxLen)
	}
	return &entity.DeletionAudit{At: at, By: in.DeletedBy, Reason: in.Reason}, nil
}
