package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repositories. DB() returns nil so services run their
// transactional closures directly with a nil tx.

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct{ products map[string]*model.Product }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo(ids ...string) *stubProductRepo {
	r := &stubProductRepo{products: make(map[string]*model.Product)}
	for _, id := range ids {
		r.products[id] = &model.Product{ProductID: id, ProductName: id, UnitOfMeasure: "unit"}
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ProductID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *p
	r.products[p.ProductID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id string) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) { return int64(len(r.products)), nil }

func (r *stubProductRepo) UpsertTx(_ *gorm.DB, p *model.Product) error {
	cp := *p
	r.products[p.ProductID] = &cp
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── Locations ────────────────────────────────────────────────────────────────

type stubLocationRepo struct{ locations map[string]*model.Location }

var _ repository.LocationRepository = (*stubLocationRepo)(nil)

func newStubLocationRepo(locs ...model.Location) *stubLocationRepo {
	r := &stubLocationRepo{locations: make(map[string]*model.Location)}
	for i := range locs {
		l := locs[i]
		r.locations[l.LocationID] = &l
	}
	return r
}

func (r *stubLocationRepo) Create(_ context.Context, l *model.Location) error {
	if _, ok := r.locations[l.LocationID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *l
	r.locations[l.LocationID] = &cp
	return nil
}

func (r *stubLocationRepo) FindByID(_ context.Context, id string) (*model.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *stubLocationRepo) List(_ context.Context) ([]model.Location, error) {
	out := make([]model.Location, 0, len(r.locations))
	for _, l := range r.locations {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

// ── Agents ───────────────────────────────────────────────────────────────────

type stubAgentRepo struct{ agents map[string]model.Agent }

var _ repository.AgentRepository = (*stubAgentRepo)(nil)

func newStubAgentRepo() *stubAgentRepo { return &stubAgentRepo{agents: make(map[string]model.Agent)} }

func (r *stubAgentRepo) Create(_ context.Context, a *model.Agent) error {
	if _, ok := r.agents[a.AgentID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.agents[a.AgentID] = *a
	return nil
}

func (r *stubAgentRepo) List(_ context.Context) ([]model.Agent, error) {
	out := make([]model.Agent, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, a)
	}
	return out, nil
}

// ── Retail partners ──────────────────────────────────────────────────────────

type stubPartnerRepo struct {
	partners map[string]*model.RetailPartner
}

var _ repository.RetailPartnerRepository = (*stubPartnerRepo)(nil)

func newStubPartnerRepo(partners ...model.RetailPartner) *stubPartnerRepo {
	r := &stubPartnerRepo{partners: make(map[string]*model.RetailPartner)}
	for i := range partners {
		p := partners[i]
		r.partners[p.StoreID] = &p
	}
	return r
}

func (r *stubPartnerRepo) Create(_ context.Context, p *model.RetailPartner) error {
	return r.CreateTx(nil, p)
}

func (r *stubPartnerRepo) CreateTx(_ *gorm.DB, p *model.RetailPartner) error {
	if _, ok := r.partners[p.StoreID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *p
	r.partners[p.StoreID] = &cp
	return nil
}

func (r *stubPartnerRepo) FindByStoreID(_ context.Context, storeID string) (*model.RetailPartner, error) {
	return r.FindByStoreIDTx(nil, storeID)
}

func (r *stubPartnerRepo) FindByStoreIDTx(_ *gorm.DB, storeID string) (*model.RetailPartner, error) {
	p, ok := r.partners[storeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPartnerRepo) List(_ context.Context) ([]model.RetailPartner, error) {
	out := make([]model.RetailPartner, 0, len(r.partners))
	for _, p := range r.partners {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPartnerRepo) DB() *gorm.DB { return nil }

// ── Batches ──────────────────────────────────────────────────────────────────

type stubBatchRepo struct{ batches map[string]*model.Batch }

var _ repository.BatchRepository = (*stubBatchRepo)(nil)

func newStubBatchRepo() *stubBatchRepo { return &stubBatchRepo{batches: make(map[string]*model.Batch)} }

// put registers a batch directly, bypassing the service.
func (r *stubBatchRepo) put(id string, expiry *time.Time) {
	r.batches[id] = &model.Batch{BatchID: id, DateManufactured: time.Now(), ExpiryDate: expiry}
}

func (r *stubBatchRepo) ExistsTx(_ *gorm.DB, id string) (bool, error) {
	_, ok := r.batches[id]
	return ok, nil
}

func (r *stubBatchRepo) CreateTx(_ *gorm.DB, b *model.Batch) error {
	if _, ok := r.batches[b.BatchID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *b
	cp.Lines = append([]model.BatchLine(nil), b.Lines...)
	r.batches[b.BatchID] = &cp
	return nil
}

func (r *stubBatchRepo) FindByID(_ context.Context, id string) (*model.Batch, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubBatchRepo) FindByIDTx(_ *gorm.DB, id string) (*model.Batch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *stubBatchRepo) List(_ context.Context) ([]model.Batch, error) {
	out := make([]model.Batch, 0, len(r.batches))
	for _, b := range r.batches {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateManufactured.After(out[j].DateManufactured) })
	return out, nil
}

func (r *stubBatchRepo) ListExpiring(_ context.Context, cutoff time.Time) ([]model.Batch, error) {
	var out []model.Batch
	for _, b := range r.batches {
		if b.ExpiryDate != nil && !dateOnly(*b.ExpiryDate).After(dateOnly(cutoff)) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(*out[j].ExpiryDate) })
	return out, nil
}

func (r *stubBatchRepo) DB() *gorm.DB { return nil }

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ── Movements ────────────────────────────────────────────────────────────────

type stubMovementRepo struct{ moves []model.StockMovement }

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

func (r *stubMovementRepo) ExistsTx(_ *gorm.DB, id string) (bool, error) {
	for _, m := range r.moves {
		if m.MovementID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.moves = append(r.moves, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context) ([]model.StockMovement, error) {
	return append([]model.StockMovement(nil), r.moves...), nil
}

func (r *stubMovementRepo) Recent(_ context.Context, limit int) ([]model.StockMovement, error) {
	out := append([]model.StockMovement(nil), r.moves...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MovementDate.After(out[j].MovementDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubMovementRepo) ListIncoming(_ context.Context, locationID string, from time.Time) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.moves {
		if m.DestinationLocationID != nil && *m.DestinationLocationID == locationID && !m.MovementDate.Before(from) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MovementDate.Before(out[j].MovementDate) })
	return out, nil
}

func (r *stubMovementRepo) DB() *gorm.DB { return nil }

// ── Sales ────────────────────────────────────────────────────────────────────

type stubSaleRepo struct{ sales []model.RetailSale }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

func (r *stubSaleRepo) ExistsTx(_ *gorm.DB, id string) (bool, error) {
	for _, s := range r.sales {
		if s.SaleID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.RetailSale) error {
	r.sales = append(r.sales, *s)
	return nil
}

func (r *stubSaleRepo) List(_ context.Context) ([]model.RetailSale, error) {
	return append([]model.RetailSale(nil), r.sales...), nil
}

func (r *stubSaleRepo) Recent(_ context.Context, limit int) ([]model.RetailSale, error) {
	out := append([]model.RetailSale(nil), r.sales...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSaleRepo) SumQuantityOn(_ context.Context, storeID string, day time.Time) (int64, error) {
	var total int64
	for _, s := range r.sales {
		if s.StoreID == storeID && dateOnly(s.SaleDate).Equal(dateOnly(day)) {
			total += int64(s.QuantitySold)
		}
	}
	return total, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

// ── Ledger ───────────────────────────────────────────────────────────────────

type stockKey struct{ product, batch, location string }

// stubStockRepo joins against the location and batch stubs for the
// aggregate queries.
type stubStockRepo struct {
	rows      map[stockKey]*model.CurrentStock
	locations *stubLocationRepo
	batches   *stubBatchRepo
}

var _ repository.StockRepository = (*stubStockRepo)(nil)

func newStubStockRepo(locations *stubLocationRepo, batches *stubBatchRepo) *stubStockRepo {
	return &stubStockRepo{rows: make(map[stockKey]*model.CurrentStock), locations: locations, batches: batches}
}

func (r *stubStockRepo) qty(product, batch, location string) (int, bool) {
	row, ok := r.rows[stockKey{product, batch, location}]
	if !ok {
		return 0, false
	}
	return row.Quantity, true
}

func (r *stubStockRepo) set(product, batch, location string, qty int) {
	r.rows[stockKey{product, batch, location}] = &model.CurrentStock{
		StockID: uuid.New(), ProductID: product, BatchID: batch, LocationID: location, Quantity: qty,
	}
}

func (r *stubStockRepo) FindByKeyTx(_ *gorm.DB, product, batch, location string) (*model.CurrentStock, error) {
	row, ok := r.rows[stockKey{product, batch, location}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *stubStockRepo) CreateTx(_ *gorm.DB, s *model.CurrentStock) error {
	k := stockKey{s.ProductID, s.BatchID, s.LocationID}
	if _, ok := r.rows[k]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *s
	r.rows[k] = &cp
	return nil
}

func (r *stubStockRepo) SaveQuantityTx(_ *gorm.DB, s *model.CurrentStock) error {
	for _, row := range r.rows {
		if row.StockID == s.StockID {
			row.Quantity = s.Quantity
			row.LastUpdated = s.LastUpdated
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubStockRepo) sorted(keep func(*model.CurrentStock) bool) []model.CurrentStock {
	var out []model.CurrentStock
	for _, row := range r.rows {
		if keep(row) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].BatchID < out[j].BatchID
	})
	return out
}

func (r *stubStockRepo) ListByLocation(_ context.Context, loc string) ([]model.CurrentStock, error) {
	return r.sorted(func(s *model.CurrentStock) bool { return s.LocationID == loc }), nil
}

func (r *stubStockRepo) SumByLocation(_ context.Context, loc string) (int64, error) {
	var total int64
	for _, row := range r.rows {
		if row.LocationID == loc {
			total += int64(row.Quantity)
		}
	}
	return total, nil
}

func (r *stubStockRepo) SumByLocationType(_ context.Context, locType string) (int64, error) {
	var total int64
	for _, row := range r.rows {
		if l, ok := r.locations.locations[row.LocationID]; ok && l.LocationType == locType {
			total += int64(row.Quantity)
		}
	}
	return total, nil
}

func (r *stubStockRepo) SumExpiring(_ context.Context, cutoff time.Time) (int64, error) {
	var total int64
	for _, row := range r.rows {
		b, ok := r.batches.batches[row.BatchID]
		if ok && b.ExpiryDate != nil && !dateOnly(*b.ExpiryDate).After(dateOnly(cutoff)) {
			total += int64(row.Quantity)
		}
	}
	return total, nil
}

func (r *stubStockRepo) SumByBatch(_ context.Context, ids []string) (map[string]int64, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make(map[string]int64)
	for _, row := range r.rows {
		if want[row.BatchID] {
			out[row.BatchID] += int64(row.Quantity)
		}
	}
	return out, nil
}

func (r *stubStockRepo) ProductTotals(_ context.Context, loc string) ([]repository.ProductTotal, error) {
	sums := make(map[string]int64)
	for _, row := range r.rows {
		if row.LocationID == loc {
			sums[row.ProductID] += int64(row.Quantity)
		}
	}
	out := make([]repository.ProductTotal, 0, len(sums))
	for p, q := range sums {
		out = append(out, repository.ProductTotal{ProductID: p, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// ── Users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct{ users map[uuid.UUID]*model.User }

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo { return &stubUserRepo{users: make(map[uuid.UUID]*model.User)} }

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error { return r.CreateTx(nil, u) }

func (r *stubUserRepo) CreateTx(_ *gorm.DB, u *model.User) error {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// ── Observer / notifier ──────────────────────────────────────────────────────

type recordingObserver struct {
	clamped         int
	sourceMissing   int
	storeUnresolved int
	saleRowMissing  int
}

func (o *recordingObserver) Clamped(_, _, _ string, _, _ int)             { o.clamped++ }
func (o *recordingObserver) SourceMissing(_ *model.StockMovement)         { o.sourceMissing++ }
func (o *recordingObserver) StoreUnresolved(_ *model.RetailSale)          { o.storeUnresolved++ }
func (o *recordingObserver) SaleRowMissing(_ *model.RetailSale, _ string) { o.saleRowMissing++ }

type recordingNotifier struct{ events []string }

func (n *recordingNotifier) LedgerChanged(_ context.Context, kind, ref string) error {
	n.events = append(n.events, kind+":"+ref)
	return nil
}

func strPtr(s string) *string { return &s }
