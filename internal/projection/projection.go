// Package projection строит списки для экранов: поиск, категория и видимость архива.
package projection

import (
	"strings"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
)

// Item - сущность, которую можно показать в списке.
type Item interface {
	IsArchived() bool
	SearchText() string
	CategoryName() string
}

type Filter struct {
	ShowArchived bool
	Search       string
	Category     string
}

// Row строка списка с бейджем «архив».
type Row[T Item] struct {
	Item     T    `json:"item"`
	Archived bool `json:"archived"`
}

// Apply фильтрует items, сохраняя порядок.
// Архивные сущности попадают в результат только при ShowArchived.
func Apply[T Item](items []T, f Filter) []Row[T] {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	category := strings.TrimSpace(f.Category)

	rows := make([]Row[T], 0, len(items))
	for _, item := range items {
		if item.IsArchived() && !f.ShowArchived {
			continue
		}
		if category != "" && !strings.EqualFold(item.CategoryName(), category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.SearchText()), search) {
			continue
		}
		rows = append(rows, Row[T]{Item: item, Archived: item.IsArchived()})
	}
	return rows
}

// Catalogue - публичный каталог услуг, архив не показывается никогда.
func Catalogue(services []*entity.Service, f Filter) []Row[*entity.Service] {
	f.ShowArchived = false
	return Apply(services, f)
}

// Board - доска заданий: только открытые и не архивные требования.
func Board(reqs []*entity.Requirement, f Filter) []Row[*entity.Requirement] {
	open := make([]*entity.Requirement, 0, len(reqs))
	for _, r := range reqs {
		if r.IsOpen() {
			open = append(open, r)
		}
	}
	f.ShowArchived = false
	return Apply(open, f)
}

// Categories возвращает уникальные непустые категории в порядке появления.
func Categories[T Item](items []T) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		c := strings.TrimSpace(item.CategoryName())
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
