package entity

import (
	"strings"
	"time"

	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

// Requirement - запрос клиента на работу (доска заданий).
type Requirement struct {
	ID                    int64                         `json:"id"`
	Title                 string                        `json:"titulo"`
	Description           string                        `json:"descripcion"`
	ClientID              int64                         `json:"id_cliente"`
	TargetCareer          *string                       `json:"carrera_objetivo"`
	Status                valueobject.RequirementStatus `json:"estado"`
	PublishedAt           time.Time                     `json:"fecha_publicacion"`
	Archived              bool                          `json:"archivado"`
	SelectedApplicationID *int64                        `json:"id_postulacion_seleccionada"`
}

// Application - отклик студента на требование.
type Application struct {
	ID            int64                         `json:"id"`
	StudentID     int64                         `json:"id_estudiante"`
	RequirementID int64                         `json:"id_requerimiento"`
	Status        valueobject.ApplicationStatus `json:"estado"`
	AppliedAt     time.Time                     `json:"fecha_postulacion"`
}

// NewRequirement проверяет поля публикации.
func NewRequirement(clientID int64, title, description string, career *string) (*Requirement, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "el título es obligatorio")
	}
	if description == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "la descripción es obligatoria")
	}
	if career != nil && strings.TrimSpace(*career) == "" {
		career = nil
	}
	return &Requirement{
		ClientID:     clientID,
		Title:        title,
		Description:  description,
		TargetCareer: career,
		Status:       valueobject.RequirementStatusOpen,
	}, nil
}

func (r *Requirement) IsOwnedBy(userID int64) bool {
	return r.ClientID == userID
}

func (r *Requirement) IsOpen() bool {
	return r.Status == valueobject.RequirementStatusOpen
}

// CanApply проверяет, может ли студент откликнуться.
// Дубли отклонит бэкенд.
func (r *Requirement) CanApply(userID int64) error {
	if r.IsOwnedBy(userID) {
		return apperror.New(apperror.ErrCodeForbidden, "no puedes postularte a tu propio requerimiento")
	}
	if !r.IsOpen() {
		return apperror.New(apperror.ErrCodeBadRequest, "el requerimiento ya está cerrado")
	}
	if r.Archived {
		return apperror.New(apperror.ErrCodeBadRequest, "el requerimiento no está disponible")
	}
	return nil
}

// SelectEnabled - доступна ли кнопка «выбрать кандидата».
func (r *Requirement) SelectEnabled(userID int64) bool {
	return r.IsOwnedBy(userID) && r.IsOpen()
}

// CanSelect проверяет выбор кандидата владельцем.
func (r *Requirement) CanSelect(userID int64, app *Application) error {
	if !r.IsOwnedBy(userID) {
		return apperror.New(apperror.ErrCodeForbidden, "solo el autor del requerimiento puede seleccionar un candidato")
	}
	if !r.IsOpen() {
		return apperror.New(apperror.ErrCodeBadRequest, "el requerimiento ya está cerrado")
	}
	if app == nil || app.RequirementID != r.ID {
		return apperror.ErrApplicationNotFound
	}
	if app.Status != valueobject.ApplicationStatusPending {
		return apperror.New(apperror.ErrCodeBadRequest, "la postulación ya fue resuelta")
	}
	return nil
}

// ApplySelection фиксирует подтверждённый выбор: отклик принят, требование закрыто.
// Остальные отклики не трогаются.
func (r *Requirement) ApplySelection(app *Application) {
	app.Status = valueobject.ApplicationStatusAccepted
	r.Status = valueobject.RequirementStatusClosed
	id := app.ID
	r.SelectedApplicationID = &id
}

func (r *Requirement) GetID() int64 {
	return r.ID
}

func (r *Requirement) IsArchived() bool {
	return r.Archived
}

func (r *Requirement) SetArchived(archived bool) {
	r.Archived = archived
}

// ArchiveAllowed: архив не зависит от estado.
func (r *Requirement) ArchiveAllowed() error {
	return nil
}

func (r *Requirement) SearchText() string {
	return r.Title + " " + r.Description
}

func (r *Requirement) CategoryName() string {
	if r.TargetCareer == nil {
		return ""
	}
	return *r.TargetCareer
}

// CheckSelection проверяет: не более одного ACEPTADA, и тогда требование CERRADO.
func CheckSelection(r *Requirement, apps []*Application) error {
	accepted := 0
	for _, app := range apps {
		if app.RequirementID != r.ID {
			continue
		}
		if app.Status == valueobject.ApplicationStatusAccepted {
			accepted++
		}
	}
	if accepted > 1 {
		return apperror.New(apperror.ErrCodeValidation, "más de una postulación aceptada")
	}
	if accepted == 1 && r.Status != valueobject.RequirementStatusClosed {
		return apperror.New(apperror.ErrCodeValidation, "postulación aceptada en un requerimiento abierto")
	}
	return nil
}
