package entity

import (
	"github.com/shopspring/decimal"
)

// Service - услуга, которую предлагает студент.
type Service struct {
	ID          int64           `json:"id"`
	Title       string          `json:"titulo"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Category    string          `json:"categoria"`
	CoverImage  string          `json:"imagen_portada"`
	Archived    bool            `json:"archivado"`
	OwnerID     int64           `json:"id_usuario"`
	Rating      float64         `json:"calificacion_promedio"`
	ReviewCount int             `json:"total_resenas"`
}

func (s *Service) IsOwnedBy(userID int64) bool {
	return s.OwnerID == userID
}

func (s *Service) GetID() int64 {
	return s.ID
}

func (s *Service) IsArchived() bool {
	return s.Archived
}

func (s *Service) SetArchived(archived bool) {
	s.Archived = archived
}

func (s *Service) ArchiveAllowed() error {
	return nil
}

func (s *Service) SearchText() string {
	return s.Title + " " + s.Description
}

func (s *Service) CategoryName() string {
	return s.Category
}

// User - текущий пользователь сессии.
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"nombre"`
	Email  string `json:"correo"`
	Role   string `json:"rol"`
	Career string `json:"carrera,omitempty"`
}
