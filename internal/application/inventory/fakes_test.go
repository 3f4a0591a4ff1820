package inventory_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// Fakes en memoria para los casos de uso del motor. Implementan los puertos de
// persistencia sin transacciones reales: el fakeTxRunner ejecuta el callback
// directo sobre los mismos mapas, suficiente para verificar la lógica de
// negocio (los repos de Postgres se prueban aparte contra la base).

func stockKey(item entity.StockItem, warehouseID int64) string {
	return fmt.Sprintf("%s@%d", item.Key(), warehouseID)
}

// ── movimientos ──────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	movements []*entity.MovementRecord
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.MovementRecord) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(_ context.Context, id string) (*entity.MovementRecord, error) {
	for _, m := range r.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByItemWarehouse(_ context.Context, item entity.StockItem, warehouseID int64, from, to *time.Time, after *repository.MovementCursor, limit int) ([]*entity.MovementRecord, error) {
	var out []*entity.MovementRecord
	for _, m := range r.movements {
		if m.Item == item && m.WarehouseID == warehouseID {
			cp := *m
			out = append(out, &cp)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMovementRepo) SumNet(_ context.Context, item entity.StockItem, warehouseID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.Item == item && m.WarehouseID == warehouseID {
			sum = sum.Add(m.Net())
		}
	}
	return sum, nil
}

func (r *fakeMovementRepo) DailyDemand(_ context.Context, item entity.StockItem, warehouseID int64, types []string, from, to time.Time) ([]repository.DailyDemandBucket, error) {
	byDay := map[time.Time]decimal.Decimal{}
	for _, m := range r.movements {
		if m.Item != item || m.WarehouseID != warehouseID {
			continue
		}
		match := false
		for _, t := range types {
			if m.Type == t {
				match = true
				break
			}
		}
		if !match || m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
			continue
		}
		day := m.CreatedAt.UTC().Truncate(24 * time.Hour)
		byDay[day] = byDay[day].Add(m.QuantityOut)
	}
	out := make([]repository.DailyDemandBucket, 0, len(byDay))
	for day, qty := range byDay {
		out = append(out, repository.DailyDemandBucket{Day: day, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *fakeMovementRepo) KeysWithMovementSince(_ context.Context, since time.Time) ([]repository.StockKey, error) {
	seen := map[string]repository.StockKey{}
	for _, m := range r.movements {
		if m.CreatedAt.Before(since) {
			continue
		}
		k := repository.StockKey{Item: m.Item, WarehouseID: m.WarehouseID}
		seen[stockKey(m.Item, m.WarehouseID)] = k
	}
	out := make([]repository.StockKey, 0, len(seen))
	for _, k := range seen {
		out = append(out, k)
	}
	return out, nil
}

// ── niveles ──────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	levels  map[string]*entity.StockLevel
	applied map[string]bool
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		levels:  map[string]*entity.StockLevel{},
		applied: map[string]bool{},
	}
}

func (r *fakeStockRepo) Get(_ context.Context, item entity.StockItem, warehouseID int64) (*entity.StockLevel, error) {
	if l, ok := r.levels[stockKey(item, warehouseID)]; ok {
		cp := *l
		return &cp, nil
	}
	// Clave sin movimientos: nivel en cero, igual que el repo de Postgres.
	return &entity.StockLevel{Item: item, WarehouseID: warehouseID}, nil
}

func (r *fakeStockRepo) GetForUpdate(ctx context.Context, item entity.StockItem, warehouseID int64) (*entity.StockLevel, error) {
	return r.Get(ctx, item, warehouseID)
}

func (r *fakeStockRepo) Upsert(_ context.Context, level *entity.StockLevel) error {
	cp := *level
	r.levels[stockKey(level.Item, level.WarehouseID)] = &cp
	return nil
}

func (r *fakeStockRepo) MarkApplied(_ context.Context, movementID string) (bool, error) {
	if r.applied[movementID] {
		return false, nil
	}
	r.applied[movementID] = true
	return true, nil
}

func (r *fakeStockRepo) ListByWarehouse(_ context.Context, warehouseID int64, limit, offset int) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, l := range r.levels {
		if l.WarehouseID == warehouseID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── lotes ────────────────────────────────────────────────────────────────────

type fakeBatchRepo struct {
	batches map[string]*entity.Batch // por ID
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: map[string]*entity.Batch{}}
}

func (r *fakeBatchRepo) Create(_ context.Context, batch *entity.Batch) error {
	cp := *batch
	r.batches[batch.ID] = &cp
	return nil
}

func (r *fakeBatchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	if b, ok := r.batches[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeBatchRepo) GetForUpdateByNumber(_ context.Context, item entity.StockItem, warehouseID int64, batchNumber string) (*entity.Batch, error) {
	for _, b := range r.batches {
		if b.Item == item && b.WarehouseID == warehouseID && b.BatchNumber == batchNumber {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBatchRepo) GetForUpdateByID(ctx context.Context, id string) (*entity.Batch, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeBatchRepo) ListActiveForUpdate(_ context.Context, item entity.StockItem, warehouseID int64) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.batches {
		if b.Item == item && b.WarehouseID == warehouseID && b.Status == entity.BatchStatusActive {
			cp := *b
			out = append(out, &cp)
		}
	}
	// FIFO: vencimiento más próximo primero (NULL al final), luego creación.
	sort.Slice(out, func(i, j int) bool {
		ei, ej := out[i].ExpiryDate, out[j].ExpiryDate
		switch {
		case ei != nil && ej != nil && !ei.Equal(*ej):
			return ei.Before(*ej)
		case ei != nil && ej == nil:
			return true
		case ei == nil && ej != nil:
			return false
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeBatchRepo) ListByItemWarehouse(_ context.Context, item entity.StockItem, warehouseID int64) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.batches {
		if b.Item == item && b.WarehouseID == warehouseID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) Update(_ context.Context, batch *entity.Batch) error {
	cp := *batch
	r.batches[batch.ID] = &cp
	return nil
}

func (r *fakeBatchRepo) MarkExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, b := range r.batches {
		if b.Status == entity.BatchStatusActive && b.IsExpired(now) {
			b.Status = entity.BatchStatusExpired
			n++
		}
	}
	return n, nil
}

// ── catálogo ─────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[int64]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[int64]*entity.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type fakeWarehouseRepo struct {
	warehouses map[int64]*entity.Warehouse
}

func newFakeWarehouseRepo(warehouses ...*entity.Warehouse) *fakeWarehouseRepo {
	r := &fakeWarehouseRepo{warehouses: map[int64]*entity.Warehouse{}}
	for _, w := range warehouses {
		r.warehouses[w.ID] = w
	}
	return r
}

func (r *fakeWarehouseRepo) Create(_ context.Context, warehouse *entity.Warehouse) error {
	r.warehouses[warehouse.ID] = warehouse
	return nil
}

func (r *fakeWarehouseRepo) GetByID(_ context.Context, id int64) (*entity.Warehouse, error) {
	if w, ok := r.warehouses[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeWarehouseRepo) Update(_ context.Context, warehouse *entity.Warehouse) error {
	r.warehouses[warehouse.ID] = warehouse
	return nil
}

func (r *fakeWarehouseRepo) List(_ context.Context, includeInactive bool, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.warehouses {
		if !includeInactive && !w.Active {
			continue
		}
		cp := *w
		out = append(out, &cp)
	}
	return out, nil
}

// ── unidades serializadas ────────────────────────────────────────────────────

type fakeSerialRepo struct {
	units map[string]*entity.SerialUnit
}

func newFakeSerialRepo() *fakeSerialRepo {
	return &fakeSerialRepo{units: map[string]*entity.SerialUnit{}}
}

func (r *fakeSerialRepo) Create(_ context.Context, unit *entity.SerialUnit) error {
	cp := *unit
	r.units[unit.SerialNumber] = &cp
	return nil
}

func (r *fakeSerialRepo) Get(_ context.Context, serialNumber string) (*entity.SerialUnit, error) {
	if u, ok := r.units[serialNumber]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSerialRepo) GetForUpdate(ctx context.Context, serialNumber string) (*entity.SerialUnit, error) {
	return r.Get(ctx, serialNumber)
}

func (r *fakeSerialRepo) Update(_ context.Context, unit *entity.SerialUnit) error {
	cp := *unit
	r.units[unit.SerialNumber] = &cp
	return nil
}

func (r *fakeSerialRepo) ListByItem(_ context.Context, item entity.StockItem, limit, offset int) ([]*entity.SerialUnit, error) {
	var out []*entity.SerialUnit
	for _, u := range r.units {
		if u.Item == item {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── tx runner y publisher ────────────────────────────────────────────────────

// fakeTxRunner ejecuta los callbacks directamente sobre los fakes, sin
// transacción. Un error del callback se propaga igual que un rollback.
type fakeTxRunner struct {
	movRepo    *fakeMovementRepo
	stockRepo  *fakeStockRepo
	batchRepo  *fakeBatchRepo
	serialRepo *fakeSerialRepo
}

func newFakeTxRunner() *fakeTxRunner {
	return &fakeTxRunner{
		movRepo:    &fakeMovementRepo{},
		stockRepo:  newFakeStockRepo(),
		batchRepo:  newFakeBatchRepo(),
		serialRepo: newFakeSerialRepo(),
	}
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockLevelRepository,
	batchRepo repository.BatchRepository,
) error) error {
	return fn(r.movRepo, r.stockRepo, r.batchRepo)
}

func (r *fakeTxRunner) RunSerial(ctx context.Context, fn func(serialRepo repository.SerialRepository) error) error {
	return fn(r.serialRepo)
}

// capturePublisher acumula los eventos publicados.
type capturePublisher struct {
	events []any
}

func (p *capturePublisher) Publish(evt any) {
	p.events = append(p.events, evt)
}
