package forecast

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	domforecast "github.com/jhoicas/Inventario-core/internal/domain/forecast"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
	"github.com/jhoicas/Inventario-core/pkg/config"
)

// UseCase corre el pronosticador de reorden: agrega la demanda de ventas del
// ledger por clave activa, calcula el snapshot y lo upserta. Corre como job
// periódico; el cálculo es idempotente por (clave, período, horizonte).
type UseCase struct {
	movRepo      repository.MovementRepository
	stockRepo    repository.StockLevelRepository
	productRepo  repository.ProductRepository
	batchRepo    repository.BatchRepository
	forecastRepo repository.ForecastRepository
	cfg          config.ForecastConfig
	log          zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	movRepo repository.MovementRepository,
	stockRepo repository.StockLevelRepository,
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	forecastRepo repository.ForecastRepository,
	cfg config.ForecastConfig,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		movRepo:      movRepo,
		stockRepo:    stockRepo,
		productRepo:  productRepo,
		batchRepo:    batchRepo,
		forecastRepo: forecastRepo,
		cfg:          cfg,
		log:          log,
	}
}

// RunResult resumen de una corrida.
type RunResult struct {
	KeysProcessed  int
	KeysSkipped    int
	BatchesExpired int64
}

// demandTypes tipos de movimiento que cuentan como demanda de venta.
var demandTypes = []string{entity.MovementTypeSALE}

// RunOnce ejecuta una corrida completa: primero reconcilia lotes vencidos,
// luego recalcula el snapshot de cada clave con actividad en la ventana. Un
// error en una clave no aborta la corrida; se registra y se sigue con el resto.
func (uc *UseCase) RunOnce(ctx context.Context, now time.Time) (*RunResult, error) {
	res := &RunResult{}

	expired, err := uc.batchRepo.MarkExpired(ctx, now)
	if err != nil {
		return nil, err
	}
	res.BatchesExpired = expired
	if expired > 0 {
		uc.log.Info().Int64("lotes", expired).Msg("lotes vencidos marcados EXPIRED")
	}

	windowStart := now.AddDate(0, 0, -uc.cfg.WindowDays)
	keys, err := uc.movRepo.KeysWithMovementSince(ctx, windowStart)
	if err != nil {
		return nil, err
	}

	periodStart := now.UTC().Truncate(24 * time.Hour)
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := uc.computeKey(ctx, key, windowStart, periodStart, now); err != nil {
			res.KeysSkipped++
			uc.log.Error().Err(err).
				Int64("product_id", key.Item.ProductID).
				Int64("variant_id", key.Item.VariantID).
				Int64("warehouse_id", key.WarehouseID).
				Msg("clave omitida en la corrida de pronóstico")
			continue
		}
		res.KeysProcessed++
	}

	uc.log.Info().
		Int("procesadas", res.KeysProcessed).
		Int("omitidas", res.KeysSkipped).
		Msg("corrida de pronóstico completada")
	return res, nil
}

func (uc *UseCase) computeKey(ctx context.Context, key repository.StockKey, windowStart, periodStart, now time.Time) error {
	product, err := uc.productRepo.GetByID(ctx, key.Item.ProductID)
	if err != nil {
		return err
	}
	if product == nil || !product.Active {
		return nil // producto retirado del catálogo; sin snapshot
	}

	buckets, err := uc.movRepo.DailyDemand(ctx, key.Item, key.WarehouseID, demandTypes, windowStart, now)
	if err != nil {
		return err
	}
	level, err := uc.stockRepo.Get(ctx, key.Item, key.WarehouseID)
	if err != nil {
		return err
	}

	daily, observedDays := fillDailyWindow(buckets, windowStart, uc.cfg.WindowDays)
	result := domforecast.Compute(domforecast.Params{
		DailyDemand:  daily,
		ObservedDays: observedDays,
		WindowDays:   uc.cfg.WindowDays,
		HorizonDays:  uc.cfg.HorizonDays,
		LeadTimeDays: product.LeadTimeDays,
		SafetyFactor: decimal.NewFromFloat(uc.cfg.SafetyFactor),
		OnHand:       level.OnHand,
		OptimalLevel: product.OptimalLevel,
		ReorderPoint: product.ReorderPoint,
	})

	return uc.forecastRepo.Upsert(ctx, &entity.ForecastRecord{
		ID:                uuid.New().String(),
		Item:              key.Item,
		WarehouseID:       key.WarehouseID,
		PeriodStart:       periodStart,
		HorizonDays:       uc.cfg.HorizonDays,
		AvgDailyDemand:    result.AvgDailyDemand,
		ForecastedDemand:  result.ForecastedDemand,
		SuggestedOrderQty: result.SuggestedOrderQty,
		Confidence:        result.Confidence,
		AlertFlag:         result.AlertFlag,
		GeneratedAt:       now,
	})
}

// ListByWarehouse snapshots vigentes de una bodega.
func (uc *UseCase) ListByWarehouse(ctx context.Context, warehouseID int64, limit, offset int) ([]*entity.ForecastRecord, error) {
	return uc.forecastRepo.ListByWarehouse(ctx, warehouseID, limit, offset)
}

// ListAlerts snapshots con alerta de bajo stock activa.
func (uc *UseCase) ListAlerts(ctx context.Context, limit, offset int) ([]*entity.ForecastRecord, error) {
	return uc.forecastRepo.ListAlerts(ctx, limit, offset)
}

// fillDailyWindow expande los buckets con ventas a la serie diaria completa de
// la ventana, con ceros en los días sin actividad. observedDays cuenta desde la
// primera venta dentro de la ventana.
func fillDailyWindow(buckets []repository.DailyDemandBucket, windowStart time.Time, windowDays int) ([]decimal.Decimal, int) {
	daily := make([]decimal.Decimal, windowDays)
	for i := range daily {
		daily[i] = decimal.Zero
	}
	start := windowStart.UTC().Truncate(24 * time.Hour)
	observedDays := 0
	for _, b := range buckets {
		idx := int(b.Day.UTC().Truncate(24 * time.Hour).Sub(start).Hours() / 24)
		if idx < 0 || idx >= windowDays {
			continue
		}
		daily[idx] = daily[idx].Add(b.Quantity)
		if span := windowDays - idx; observedDays == 0 || span > observedDays {
			observedDays = span
		}
	}
	return daily, observedDays
}
