package transfer_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// Fakes en memoria para el flujo de traslados. El fakeTxRunner ejecuta los
// callbacks directo sobre los mismos mapas; la lógica todo-o-nada se verifica
// por los errores agregados, no por rollback real.

func stockKey(item entity.StockItem, warehouseID int64) string {
	return fmt.Sprintf("%s@%d", item.Key(), warehouseID)
}

type fakeMovementRepo struct {
	movements []*entity.MovementRecord
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.MovementRecord) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(context.Context, string) (*entity.MovementRecord, error) {
	return nil, nil
}

func (r *fakeMovementRepo) ListByItemWarehouse(context.Context, entity.StockItem, int64, *time.Time, *time.Time, *repository.MovementCursor, int) ([]*entity.MovementRecord, error) {
	return nil, nil
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

func (r *fakeMovementRepo) DailyDemand(context.Context, entity.StockItem, int64, []string, time.Time, time.Time) ([]repository.DailyDemandBucket, error) {
	return nil, nil
}

func (r *fakeMovementRepo) KeysWithMovementSince(context.Context, time.Time) ([]repository.StockKey, error) {
	return nil, nil
}

type fakeStockRepo struct {
	levels  map[string]*entity.StockLevel
	applied map[string]bool
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{levels: map[string]*entity.StockLevel{}, applied: map[string]bool{}}
}

func (r *fakeStockRepo) Get(_ context.Context, item entity.StockItem, warehouseID int64) (*entity.StockLevel, error) {
	if l, ok := r.levels[stockKey(item, warehouseID)]; ok {
		cp := *l
		return &cp, nil
	}
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

func (r *fakeStockRepo) ListByWarehouse(context.Context, int64, int, int) ([]*entity.StockLevel, error) {
	return nil, nil
}

type fakeBatchRepo struct {
	batches map[string]*entity.Batch
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

func (r *fakeBatchRepo) ListActiveForUpdate(context.Context, entity.StockItem, int64) ([]*entity.Batch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) ListByItemWarehouse(context.Context, entity.StockItem, int64) ([]*entity.Batch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) Update(_ context.Context, batch *entity.Batch) error {
	cp := *batch
	r.batches[batch.ID] = &cp
	return nil
}

func (r *fakeBatchRepo) MarkExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

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

func (r *fakeProductRepo) GetBySKU(context.Context, string) (*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) List(context.Context, int, int) ([]*entity.Product, error) {
	return nil, nil
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

func (r *fakeWarehouseRepo) List(context.Context, bool, int, int) ([]*entity.Warehouse, error) {
	return nil, nil
}

type fakeTransferRepo struct {
	transfers map[string]*entity.Transfer
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{transfers: map[string]*entity.Transfer{}}
}

func copyTransfer(t *entity.Transfer) *entity.Transfer {
	cp := *t
	cp.Lines = append([]entity.TransferLine(nil), t.Lines...)
	return &cp
}

func (r *fakeTransferRepo) Create(_ context.Context, transfer *entity.Transfer) error {
	r.transfers[transfer.ID] = copyTransfer(transfer)
	return nil
}

func (r *fakeTransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	if t, ok := r.transfers[id]; ok {
		return copyTransfer(t), nil
	}
	return nil, nil
}

func (r *fakeTransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTransferRepo) UpdateHeader(_ context.Context, transfer *entity.Transfer) error {
	r.transfers[transfer.ID] = copyTransfer(transfer)
	return nil
}

func (r *fakeTransferRepo) UpdateLine(_ context.Context, line *entity.TransferLine) error {
	t, ok := r.transfers[line.TransferID]
	if !ok {
		return fmt.Errorf("traslado %s no existe", line.TransferID)
	}
	for i := range t.Lines {
		if t.Lines[i].ID == line.ID {
			t.Lines[i] = *line
			return nil
		}
	}
	return fmt.Errorf("línea %s no existe", line.ID)
}

func (r *fakeTransferRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, t := range r.transfers {
		if t.Status == status {
			out = append(out, copyTransfer(t))
		}
	}
	return out, nil
}

// fakeTxRunner implementa inventory.TxRunner y transfer.TxRunner sobre los
// mismos fakes.
type fakeTxRunner struct {
	movRepo      *fakeMovementRepo
	stockRepo    *fakeStockRepo
	batchRepo    *fakeBatchRepo
	transferRepo *fakeTransferRepo
}

func newFakeTxRunner() *fakeTxRunner {
	return &fakeTxRunner{
		movRepo:      &fakeMovementRepo{},
		stockRepo:    newFakeStockRepo(),
		batchRepo:    newFakeBatchRepo(),
		transferRepo: newFakeTransferRepo(),
	}
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockLevelRepository,
	batchRepo repository.BatchRepository,
) error) error {
	return fn(r.movRepo, r.stockRepo, r.batchRepo)
}

func (r *fakeTxRunner) RunTransfer(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockLevelRepository,
	batchRepo repository.BatchRepository,
	transferRepo repository.TransferRepository,
) error) error {
	return fn(r.movRepo, r.stockRepo, r.batchRepo, r.transferRepo)
}

type capturePublisher struct {
	events []any
}

func (p *capturePublisher) Publish(evt any) {
	p.events = append(p.events, evt)
}
