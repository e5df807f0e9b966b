package entity

import "github.com/ignatzorin/campus-gateway/internal/pkg/apperror"

// Kind тип архивируемой сущности.
type Kind string

const (
	KindService     Kind = "service"
	KindOrder       Kind = "order"
	KindRequirement Kind = "requirement"
)

// Archivable - сущность с мягким удалением через флаг archivado.
type Archivable interface {
	GetID() int64
	IsArchived() bool
	SetArchived(archived bool)
	ArchiveAllowed() error
}

// PlanArchive решает, нужен ли запрос к бэкенду.
// false без ошибки означает, что сущность уже в нужном состоянии.
// Восстановление разрешено всегда.
func PlanArchive(a Archivable, archived bool) (bool, error) {
	if a == nil {
		return false, apperror.New(apperror.ErrCodeNotFound, "entidad no encontrada")
	}
	if a.IsArchived() == archived {
		return false, nil
	}
	if archived {
		if err := a.ArchiveAllowed(); err != nil {
			return false, err
		}
	}
	return true, nil
}
