package forecast_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-core/internal/application/forecast"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
	"github.com/jhoicas/Inventario-core/pkg/config"
)

// Fakes mínimos para la corrida: el ledger se simula con buckets de demanda ya
// agregados por clave.

type demandKey struct {
	item        entity.StockItem
	warehouseID int64
}

type fakeMovementRepo struct {
	keys   []repository.StockKey
	demand map[demandKey][]repository.DailyDemandBucket
	fail   map[demandKey]error
}

func (r *fakeMovementRepo) Create(context.Context, *entity.MovementRecord) error { return nil }

func (r *fakeMovementRepo) GetByID(context.Context, string) (*entity.MovementRecord, error) {
	return nil, nil
}

func (r *fakeMovementRepo) ListByItemWarehouse(context.Context, entity.StockItem, int64, *time.Time, *time.Time, *repository.MovementCursor, int) ([]*entity.MovementRecord, error) {
	return nil, nil
}

func (r *fakeMovementRepo) SumNet(context.Context, entity.StockItem, int64) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *fakeMovementRepo) DailyDemand(_ context.Context, item entity.StockItem, warehouseID int64, _ []string, _, _ time.Time) ([]repository.DailyDemandBucket, error) {
	k := demandKey{item, warehouseID}
	if err, ok := r.fail[k]; ok {
		return nil, err
	}
	return r.demand[k], nil
}

func (r *fakeMovementRepo) KeysWithMovementSince(context.Context, time.Time) ([]repository.StockKey, error) {
	return r.keys, nil
}

type fakeStockRepo struct {
	levels map[demandKey]*entity.StockLevel
}

func (r *fakeStockRepo) Get(_ context.Context, item entity.StockItem, warehouseID int64) (*entity.StockLevel, error) {
	if l, ok := r.levels[demandKey{item, warehouseID}]; ok {
		cp := *l
		return &cp, nil
	}
	return &entity.StockLevel{Item: item, WarehouseID: warehouseID}, nil
}

func (r *fakeStockRepo) GetForUpdate(ctx context.Context, item entity.StockItem, warehouseID int64) (*entity.StockLevel, error) {
	return r.Get(ctx, item, warehouseID)
}

func (r *fakeStockRepo) Upsert(context.Context, *entity.StockLevel) error { return nil }

func (r *fakeStockRepo) MarkApplied(context.Context, string) (bool, error) { return true, nil }

func (r *fakeStockRepo) ListByWarehouse(context.Context, int64, int, int) ([]*entity.StockLevel, error) {
	return nil, nil
}

type fakeProductRepo struct {
	products map[int64]*entity.Product
}

func (r *fakeProductRepo) Create(context.Context, *entity.Product) error { return nil }

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

func (r *fakeProductRepo) Update(context.Context, *entity.Product) error { return nil }

func (r *fakeProductRepo) List(context.Context, int, int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeBatchRepo struct {
	expired int64
}

func (r *fakeBatchRepo) Create(context.Context, *entity.Batch) error { return nil }

func (r *fakeBatchRepo) GetByID(context.Context, string) (*entity.Batch, error) { return nil, nil }

func (r *fakeBatchRepo) GetForUpdateByNumber(context.Context, entity.StockItem, int64, string) (*entity.Batch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) GetForUpdateByID(context.Context, string) (*entity.Batch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) ListActiveForUpdate(context.Context, entity.StockItem, int64) ([]*entity.Batch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) ListByItemWarehouse(context.Context, entity.StockItem, int64) ([]*entity.Batch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) Update(context.Context, *entity.Batch) error { return nil }

func (r *fakeBatchRepo) MarkExpired(context.Context, time.Time) (int64, error) {
	return r.expired, nil
}

type fakeForecastRepo struct {
	records []*entity.ForecastRecord
}

func (r *fakeForecastRepo) Upsert(_ context.Context, record *entity.ForecastRecord) error {
	cp := *record
	r.records = append(r.records, &cp)
	return nil
}

func (r *fakeForecastRepo) ListByWarehouse(context.Context, int64, int, int) ([]*entity.ForecastRecord, error) {
	return r.records, nil
}

func (r *fakeForecastRepo) ListAlerts(context.Context, int, int) ([]*entity.ForecastRecord, error) {
	return nil, nil
}

var (
	fcItem      = entity.StockItem{ProductID: 1}
	fcWarehouse = int64(10)
	fcNow       = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	fcConfig    = config.ForecastConfig{WindowDays: 14, HorizonDays: 14, SafetyFactor: 1.5}
)

func fcProduct() *entity.Product {
	return &entity.Product{
		ID:           1,
		SKU:          "TV-55",
		Name:         "Televisor 55",
		ReorderPoint: decimal.NewFromInt(20),
		OptimalLevel: decimal.NewFromInt(150),
		LeadTimeDays: 7,
		Active:       true,
	}
}

// constantBuckets una venta de qty por cada día de la ventana.
func constantBuckets(windowStart time.Time, days int, qty int64) []repository.DailyDemandBucket {
	buckets := make([]repository.DailyDemandBucket, days)
	for i := range buckets {
		buckets[i] = repository.DailyDemandBucket{
			Day:      windowStart.AddDate(0, 0, i),
			Quantity: decimal.NewFromInt(qty),
		}
	}
	return buckets
}

type fixture struct {
	uc        *forecast.UseCase
	forecasts *fakeForecastRepo
	movRepo   *fakeMovementRepo
	stockRepo *fakeStockRepo
}

func newFixture(products map[int64]*entity.Product, expired int64) *fixture {
	movRepo := &fakeMovementRepo{
		demand: map[demandKey][]repository.DailyDemandBucket{},
		fail:   map[demandKey]error{},
	}
	stockRepo := &fakeStockRepo{levels: map[demandKey]*entity.StockLevel{}}
	forecasts := &fakeForecastRepo{}
	uc := forecast.NewUseCase(
		movRepo,
		stockRepo,
		&fakeProductRepo{products: products},
		&fakeBatchRepo{expired: expired},
		forecasts,
		fcConfig,
		zerolog.Nop(),
	)
	return &fixture{uc: uc, forecasts: forecasts, movRepo: movRepo, stockRepo: stockRepo}
}

func TestRunOnce_GeneraSnapshotPorClave(t *testing.T) {
	f := newFixture(map[int64]*entity.Product{1: fcProduct()}, 3)
	windowStart := fcNow.AddDate(0, 0, -fcConfig.WindowDays)
	key := demandKey{fcItem, fcWarehouse}
	f.movRepo.keys = []repository.StockKey{{Item: fcItem, WarehouseID: fcWarehouse}}
	f.movRepo.demand[key] = constantBuckets(windowStart, fcConfig.WindowDays, 10)
	f.stockRepo.levels[key] = &entity.StockLevel{Item: fcItem, WarehouseID: fcWarehouse, OnHand: decimal.NewFromInt(15)}

	res, err := f.uc.RunOnce(context.Background(), fcNow)
	require.NoError(t, err)
	assert.Equal(t, 1, res.KeysProcessed)
	assert.Zero(t, res.KeysSkipped)
	assert.EqualValues(t, 3, res.BatchesExpired, "los lotes vencidos se reconcilian antes de calcular")

	require.Len(t, f.forecasts.records, 1)
	rec := f.forecasts.records[0]
	assert.Equal(t, fcItem, rec.Item)
	assert.Equal(t, fcConfig.HorizonDays, rec.HorizonDays)
	assert.True(t, rec.AvgDailyDemand.Equal(decimal.NewFromInt(10)), "140 unidades / 14 días")
	assert.True(t, rec.ForecastedDemand.Equal(decimal.NewFromInt(140)))
	// max(150-15, ceil(10*7*1.5)) = max(135, 105)
	assert.True(t, rec.SuggestedOrderQty.Equal(decimal.NewFromInt(135)))
	assert.True(t, rec.AlertFlag, "onHand 15 <= punto de reorden 20")
	assert.True(t, rec.Confidence.Equal(decimal.NewFromInt(1)), "demanda constante con ventana completa")
	assert.Equal(t, fcNow, rec.PeriodStart)
}

func TestRunOnce_ProductoInactivoNoGeneraSnapshot(t *testing.T) {
	p := fcProduct()
	p.Active = false
	f := newFixture(map[int64]*entity.Product{1: p}, 0)
	f.movRepo.keys = []repository.StockKey{{Item: fcItem, WarehouseID: fcWarehouse}}

	res, err := f.uc.RunOnce(context.Background(), fcNow)
	require.NoError(t, err)
	assert.Zero(t, res.KeysSkipped)
	assert.Empty(t, f.forecasts.records, "productos retirados del catálogo no se pronostican")
}

func TestRunOnce_ErrorEnUnaClaveNoAbortaLaCorrida(t *testing.T) {
	otherItem := entity.StockItem{ProductID: 2}
	products := map[int64]*entity.Product{1: fcProduct()}
	p2 := fcProduct()
	p2.ID = 2
	products[2] = p2

	f := newFixture(products, 0)
	windowStart := fcNow.AddDate(0, 0, -fcConfig.WindowDays)
	f.movRepo.keys = []repository.StockKey{
		{Item: otherItem, WarehouseID: fcWarehouse},
		{Item: fcItem, WarehouseID: fcWarehouse},
	}
	f.movRepo.fail[demandKey{otherItem, fcWarehouse}] = errors.New("timeout de la base")
	f.movRepo.demand[demandKey{fcItem, fcWarehouse}] = constantBuckets(windowStart, fcConfig.WindowDays, 5)

	res, err := f.uc.RunOnce(context.Background(), fcNow)
	require.NoError(t, err, "una clave fallida no tumba la corrida")
	assert.Equal(t, 1, res.KeysProcessed)
	assert.Equal(t, 1, res.KeysSkipped)
	require.Len(t, f.forecasts.records, 1)
	assert.Equal(t, fcItem, f.forecasts.records[0].Item)
}

func TestRunOnce_ContextoCanceladoDetieneLaCorrida(t *testing.T) {
	f := newFixture(map[int64]*entity.Product{1: fcProduct()}, 0)
	f.movRepo.keys = []repository.StockKey{{Item: fcItem, WarehouseID: fcWarehouse}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.uc.RunOnce(ctx, fcNow)
	assert.ErrorIs(t, err, context.Canceled)
}
