package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/sangkips/landedcost-api/internal/domain/repository"
	"github.com/sangkips/landedcost-api/internal/infrastructure/messaging"
	"github.com/sangkips/landedcost-api/pkg/pagination"
	"gorm.io/gorm"
)

// store backs every fake repository so GetWithDetails can assemble an order
// the way the gorm preloads do.
type store struct {
	mu         sync.Mutex
	orders     map[uuid.UUID]entity.SupplierOrder
	lines      map[uuid.UUID]entity.SupplierOrderLine
	deliveries map[uuid.UUID]entity.Delivery
	suppliers  map[uuid.UUID]entity.Supplier
	agencies   map[uuid.UUID]entity.ShippingAgency

	// lineInsertErr fails order creation at the line insert.
	lineInsertErr error
}

func newStore() *store {
	return &store{
		orders:     map[uuid.UUID]entity.SupplierOrder{},
		lines:      map[uuid.UUID]entity.SupplierOrderLine{},
		deliveries: map[uuid.UUID]entity.Delivery{},
		suppliers:  map[uuid.UUID]entity.Supplier{},
		agencies:   map[uuid.UUID]entity.ShippingAgency{},
	}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type fakeOrderRepo struct{ *store }

// CreateWithDetails checks every part before storing any, so a failure
// leaves the store untouched like a rolled back transaction.
func (r fakeOrderRepo) CreateWithDetails(_ context.Context, o *entity.SupplierOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&o.ID)

	deliveryIDs := map[uuid.UUID]bool{}
	for i := range o.Deliveries {
		ensureID(&o.Deliveries[i].ID)
		deliveryIDs[o.Deliveries[i].ID] = true
	}
	if len(o.Lines) > 0 && r.lineInsertErr != nil {
		return r.lineInsertErr
	}
	for _, l := range o.Lines {
		if l.DeliveryID != nil && !deliveryIDs[*l.DeliveryID] {
			return fmt.Errorf("line %q references delivery %s outside the order", l.ProductName, *l.DeliveryID)
		}
	}

	o.CreatedAt = time.Now()
	stored := *o
	stored.Supplier, stored.Lines, stored.Deliveries = nil, nil, nil
	r.orders[o.ID] = stored
	for i := range o.Deliveries {
		d := o.Deliveries[i]
		d.SupplierOrderID = o.ID
		d.ShippingAgency = nil
		r.deliveries[d.ID] = d
	}
	for i := range o.Lines {
		l := &o.Lines[i]
		ensureID(&l.ID)
		l.SupplierOrderID = o.ID
		r.lines[l.ID] = *l
	}
	return nil
}

func (r fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.SupplierOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r fakeOrderRepo) GetWithDetails(_ context.Context, id uuid.UUID) (*entity.SupplierOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	r.details(&o)
	return &o, nil
}

func (r fakeOrderRepo) details(o *entity.SupplierOrder) {
	o.Lines = nil
	o.Deliveries = nil
	for _, l := range r.lines {
		if l.SupplierOrderID == o.ID {
			o.Lines = append(o.Lines, l)
		}
	}
	for _, d := range r.deliveries {
		if d.SupplierOrderID == o.ID {
			if d.ShippingAgencyID != nil {
				if a, ok := r.agencies[*d.ShippingAgencyID]; ok {
					d.ShippingAgency = &a
				}
			}
			o.Deliveries = append(o.Deliveries, d)
		}
	}
	sort.Slice(o.Lines, func(i, j int) bool { return o.Lines[i].Position < o.Lines[j].Position })
	sort.Slice(o.Deliveries, func(i, j int) bool { return o.Deliveries[i].Position < o.Deliveries[j].Position })
	if o.SupplierID != nil {
		if s, ok := r.suppliers[*o.SupplierID]; ok {
			o.Supplier = &s
		}
	}
}

func (r fakeOrderRepo) Update(_ context.Context, o *entity.SupplierOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	return nil
}

func (r fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.SupplierOrderStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.orders[id]
	o.Status = status
	if status == enum.SupplierOrderReceived {
		o.ReceivedAt = &at
	}
	r.orders[id] = o
	return nil
}

func (r fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r fakeOrderRepo) List(_ context.Context, params *repository.SupplierOrderFilterParams) ([]entity.SupplierOrder, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.SupplierOrder
	for _, o := range r.orders {
		if params.Status != nil && o.Status != *params.Status {
			continue
		}
		if params.Search != "" && !strings.Contains(o.OrderNo, params.Search) {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r fakeOrderRepo) CountByStatus(_ context.Context) (map[enum.SupplierOrderStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[enum.SupplierOrderStatus]int64{}
	for _, o := range r.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (r fakeOrderRepo) ListOpenWithDetails(_ context.Context) ([]entity.SupplierOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.SupplierOrder
	for _, o := range r.orders {
		if o.Status.IsFinal() {
			continue
		}
		r.details(&o)
		out = append(out, o)
	}
	return out, nil
}

type fakeLineRepo struct{ *store }

func (r fakeLineRepo) Create(_ context.Context, l *entity.SupplierOrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&l.ID)
	r.lines[l.ID] = *l
	return nil
}

func (r fakeLineRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.SupplierOrderLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lines[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r fakeLineRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.SupplierOrderLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.SupplierOrderLine
	for _, l := range r.lines {
		if l.SupplierOrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r fakeLineRepo) Update(_ context.Context, l *entity.SupplierOrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[l.ID] = *l
	return nil
}

func (r fakeLineRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines, id)
	return nil
}

func (r fakeLineRepo) DeleteByOrderID(_ context.Context, orderID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.lines {
		if l.SupplierOrderID == orderID {
			delete(r.lines, id)
		}
	}
	return nil
}

func (r fakeLineRepo) ClearDelivery(_ context.Context, deliveryID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.lines {
		if l.DeliveryID != nil && *l.DeliveryID == deliveryID {
			l.DeliveryID = nil
			r.lines[id] = l
		}
	}
	return nil
}

type fakeDeliveryRepo struct{ *store }

func (r fakeDeliveryRepo) Create(_ context.Context, d *entity.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&d.ID)
	stored := *d
	stored.ShippingAgency = nil
	r.deliveries[d.ID] = stored
	return nil
}

func (r fakeDeliveryRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deliveries[id]
	if !ok {
		return nil, nil
	}
	r.withAgency(&d)
	return &d, nil
}

func (r fakeDeliveryRepo) withAgency(d *entity.Delivery) {
	if d.ShippingAgencyID != nil {
		if a, ok := r.agencies[*d.ShippingAgencyID]; ok && !a.DeletedAt.Valid {
			d.ShippingAgency = &a
		}
	}
}

func (r fakeDeliveryRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Delivery
	for _, d := range r.deliveries {
		if d.SupplierOrderID == orderID {
			r.withAgency(&d)
			out = append(out, d)
		}
	}
	return out, nil
}

func (r fakeDeliveryRepo) Update(ctx context.Context, d *entity.Delivery) error {
	return r.Create(ctx, d)
}

func (r fakeDeliveryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.deliveries, id)
	return nil
}

func (r fakeDeliveryRepo) DeleteByOrderID(_ context.Context, orderID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.deliveries {
		if d.SupplierOrderID == orderID {
			delete(r.deliveries, id)
		}
	}
	return nil
}

func (r fakeDeliveryRepo) ListByAgency(_ context.Context, agencyID uuid.UUID) ([]entity.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Delivery
	for _, d := range r.deliveries {
		if d.ShippingAgencyID != nil && *d.ShippingAgencyID == agencyID {
			r.withAgency(&d)
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeSupplierRepo struct{ *store }

func (r fakeSupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&s.ID)
	r.suppliers[s.ID] = *s
	return nil
}

func (r fakeSupplierRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r fakeSupplierRepo) GetByEmail(_ context.Context, email string) (*entity.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.suppliers {
		if s.Email != nil && *s.Email == email {
			return &s, nil
		}
	}
	return nil, nil
}

func (r fakeSupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	return r.Create(ctx, s)
}

func (r fakeSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.suppliers, id)
	return nil
}

func (r fakeSupplierRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Supplier, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Supplier
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r fakeSupplierRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.suppliers)), nil
}

type fakeAgencyRepo struct{ *store }

// Create enforces the partial unique index on names of live agencies.
func (r fakeAgencyRepo) Create(_ context.Context, a *entity.ShippingAgency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ensureID(&a.ID)
	for id, other := range r.agencies {
		if id != a.ID && !other.DeletedAt.Valid && other.Name == a.Name {
			return fmt.Errorf("%w: idx_shipping_agencies_name", repository.ErrDuplicate)
		}
	}
	r.agencies[a.ID] = *a
	return nil
}

func (r fakeAgencyRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ShippingAgency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.agencies[id]
	if !ok || a.DeletedAt.Valid {
		return nil, nil
	}
	return &a, nil
}

func (r fakeAgencyRepo) GetByName(_ context.Context, name string) (*entity.ShippingAgency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.agencies {
		if !a.DeletedAt.Valid && strings.EqualFold(a.Name, name) {
			return &a, nil
		}
	}
	return nil, nil
}

func (r fakeAgencyRepo) Update(ctx context.Context, a *entity.ShippingAgency) error {
	return r.Create(ctx, a)
}

// Delete soft-deletes: the row stays and keeps its name.
func (r fakeAgencyRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.agencies[id]; ok {
		a.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		r.agencies[id] = a
	}
	return nil
}

func (r fakeAgencyRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string, activeOnly bool) ([]entity.ShippingAgency, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.ShippingAgency
	for _, a := range r.agencies {
		if a.DeletedAt.Valid || (activeOnly && !a.IsActive) {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

type recordingPublisher struct {
	events []*messaging.SupplierOrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e *messaging.SupplierOrderEvent) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type memoryCache struct {
	reports map[string]*costing.Report
	gets    int
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{reports: map[string]*costing.Report{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (*costing.Report, error) {
	c.gets++
	r, ok := c.reports[key]
	if ok {
		c.hits++
		return r, nil
	}
	return nil, nil
}

func (c *memoryCache) Set(_ context.Context, key string, r *costing.Report) error {
	c.reports[key] = r
	return nil
}
