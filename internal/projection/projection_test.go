package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
)

func testServices() []*entity.Service {
	return []*entity.Service{
		{ID: 1, Title: "Clases de cálculo", Category: "Tutorías"},
		{ID: 2, Title: "Diseño de logo", Category: "Diseño", Archived: true},
		{ID: 3, Title: "Edición de video", Description: "Reels y cortos", Category: "Diseño"},
	}
}

func ids[T interface {
	Item
	GetID() int64
}](rows []Row[T]) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Item.GetID())
	}
	return out
}

func TestApply_ShowArchivedToggle(t *testing.T) {
	services := testServices()

	hidden := Apply(services, Filter{})
	assert.Equal(t, []int64{1, 3}, ids(hidden))

	shown := Apply(services, Filter{ShowArchived: true})
	require.Len(t, shown, 3)
	assert.Equal(t, []int64{1, 2, 3}, ids(shown))
	assert.False(t, shown[0].Archived)
	assert.True(t, shown[1].Archived)
}

func TestApply_SearchAndCategory(t *testing.T) {
	services := testServices()

	assert.Equal(t, []int64{3}, ids(Apply(services, Filter{Search: "REELS"})))
	assert.Equal(t, []int64{3}, ids(Apply(services, Filter{Category: "diseño"})))
	assert.Equal(t, []int64{2, 3}, ids(Apply(services, Filter{Category: "Diseño", ShowArchived: true})))
	assert.Empty(t, Apply(services, Filter{Search: "guitarra"}))
}

func TestCatalogue_NeverShowsArchived(t *testing.T) {
	rows := Catalogue(testServices(), Filter{ShowArchived: true})
	assert.Equal(t, []int64{1, 3}, ids(rows))
}

func TestBoard_OnlyOpenUnarchived(t *testing.T) {
	reqs := []*entity.Requirement{
		{ID: 1, Title: "Logo", Status: valueobject.RequirementStatusOpen},
		{ID: 2, Title: "Web", Status: valueobject.RequirementStatusClosed},
		{ID: 3, Title: "App", Status: valueobject.RequirementStatusOpen, Archived: true},
	}

	assert.Equal(t, []int64{1}, ids(Board(reqs, Filter{ShowArchived: true})))
}

func TestOrders_ArchivedBadge(t *testing.T) {
	orders := []*entity.Order{
		{ID: 1, Status: valueobject.OrderStatusCompleted, Archived: true},
		{ID: 2, Status: valueobject.OrderStatusPending},
	}

	assert.Equal(t, []int64{2}, ids(Apply(orders, Filter{})))
	rows := Apply(orders, Filter{ShowArchived: true})
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Archived)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Tutorías", "Diseño"}, Categories(testServices()))
}
