package session

import (
	"sync"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
)

// View экран со своим переключателем «показать архив».
type View string

const (
	ViewMyServices     View = "my_services"
	ViewMyOrders       View = "my_orders"
	ViewMyRequirements View = "my_requirements"
)

func (v View) IsValid() bool {
	switch v {
	case ViewMyServices, ViewMyOrders, ViewMyRequirements:
		return true
	}
	return false
}

// cache хранит сущности в порядке последней загрузки.
// Наружу отдаются только копии.
type cache[T any] struct {
	ids   []int64
	items map[int64]T
	idOf  func(T) int64
	clone func(T) T
}

func newCache[T any](idOf func(T) int64, clone func(T) T) *cache[T] {
	return &cache[T]{items: make(map[int64]T), idOf: idOf, clone: clone}
}

func (c *cache[T]) replace(list []T) {
	c.ids = c.ids[:0]
	c.items = make(map[int64]T, len(list))
	for _, item := range list {
		c.upsert(item)
	}
}

func (c *cache[T]) upsert(item T) {
	id := c.idOf(item)
	if _, ok := c.items[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.items[id] = c.clone(item)
}

func (c *cache[T]) get(id int64) (T, bool) {
	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.clone(item), true
}

func (c *cache[T]) list() []T {
	out := make([]T, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.clone(c.items[id]))
	}
	return out
}

func (c *cache[T]) patch(id int64, fn func(T)) bool {
	item, ok := c.items[id]
	if !ok {
		return false
	}
	fn(item)
	return true
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	if o.Review != nil {
		review := *o.Review
		cp.Review = &review
	}
	return &cp
}

func cloneRequirement(r *entity.Requirement) *entity.Requirement {
	cp := *r
	if r.TargetCareer != nil {
		career := *r.TargetCareer
		cp.TargetCareer = &career
	}
	if r.SelectedApplicationID != nil {
		id := *r.SelectedApplicationID
		cp.SelectedApplicationID = &id
	}
	return &cp
}

func cloneApplication(a *entity.Application) *entity.Application {
	cp := *a
	return &cp
}

func cloneService(s *entity.Service) *entity.Service {
	cp := *s
	return &cp
}

// Views - клиентское состояние экранов сессии.
// Изменения применяются только после подтверждения бэкендом.
type Views struct {
	mu           sync.Mutex
	showArchived map[View]bool
	orders       *cache[*entity.Order]
	requirements *cache[*entity.Requirement]
	services     *cache[*entity.Service]
	applications map[int64]*cache[*entity.Application]
}

func NewViews() *Views {
	return &Views{
		showArchived: make(map[View]bool),
		orders:       newCache(func(o *entity.Order) int64 { return o.ID }, cloneOrder),
		requirements: newCache(func(r *entity.Requirement) int64 { return r.ID }, cloneRequirement),
		services:     newCache(func(s *entity.Service) int64 { return s.ID }, cloneService),
		applications: make(map[int64]*cache[*entity.Application]),
	}
}

// ShowArchived по умолчанию false.
func (v *Views) ShowArchived(view View) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.showArchived[view]
}

func (v *Views) SetShowArchived(view View, show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.showArchived[view] = show
}

func (v *Views) SetOrders(list []*entity.Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orders.replace(list)
}

func (v *Views) UpsertOrder(o *entity.Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orders.upsert(o)
}

func (v *Views) Order(id int64) (*entity.Order, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.orders.get(id)
}

func (v *Views) Orders() []*entity.Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.orders.list()
}

// PatchOrder меняет заказ на месте. false, если заказа нет в кэше.
func (v *Views) PatchOrder(id int64, fn func(*entity.Order)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.orders.patch(id, fn)
}

func (v *Views) SetRequirements(list []*entity.Requirement) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.requirements.replace(list)
}

func (v *Views) UpsertRequirement(r *entity.Requirement) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.requirements.upsert(r)
}

func (v *Views) Requirement(id int64) (*entity.Requirement, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.requirements.get(id)
}

func (v *Views) Requirements() []*entity.Requirement {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.requirements.list()
}

func (v *Views) PatchRequirement(id int64, fn func(*entity.Requirement)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.requirements.patch(id, fn)
}

func (v *Views) SetApplications(requirementID int64, list []*entity.Application) {
	v.mu.Lock()
	defer v.mu.Unlock()

	c := newCache(func(a *entity.Application) int64 { return a.ID }, cloneApplication)
	c.replace(list)
	v.applications[requirementID] = c
}

func (v *Views) Applications(requirementID int64) []*entity.Application {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, ok := v.applications[requirementID]
	if !ok {
		return nil
	}
	return c.list()
}

func (v *Views) PatchApplication(requirementID, applicationID int64, fn func(*entity.Application)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, ok := v.applications[requirementID]
	if !ok {
		return false
	}
	return c.patch(applicationID, fn)
}

func (v *Views) SetServices(list []*entity.Service) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.services.replace(list)
}

func (v *Views) Service(id int64) (*entity.Service, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.services.get(id)
}

func (v *Views) Services() []*entity.Service {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.services.list()
}

func (v *Views) PatchService(id int64, fn func(*entity.Service)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.services.patch(id, fn)
}
