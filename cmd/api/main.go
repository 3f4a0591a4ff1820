package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Inventario-core/internal/application/approval"
	appforecast "github.com/jhoicas/Inventario-core/internal/application/forecast"
	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/application/transfer"
	"github.com/jhoicas/Inventario-core/internal/application/usecase"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	infraevent "github.com/jhoicas/Inventario-core/internal/infrastructure/event"
	"github.com/jhoicas/Inventario-core/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-core/internal/interfaces/http"
	"github.com/jhoicas/Inventario-core/pkg/config"
	"github.com/jhoicas/Inventario-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("batch_policy", cfg.Inventory.BatchPolicy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (solo lectura o escrituras de una sentencia).
	// Las escrituras multi-sentencia pasan por el TxRunner, que entrega repos
	// atados a la transacción.
	movementRepo := postgres.NewMovementRepository(pool)
	stockRepo := postgres.NewStockLevelRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	serialRepo := postgres.NewSerialRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	forecastRepo := postgres.NewForecastRepository(pool)
	approvalRepo := postgres.NewApprovalRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	publisher := infraevent.NewChannelPublisher(256, log.Zerolog())
	defer publisher.Close()
	publisher.Subscribe(func(evt any) {
		log.Debug().Type("event", evt).Msg("evento de dominio")
	})

	tracker := inventory.NewBatchTracker(cfg.Inventory.BatchPolicy)
	appendUC := inventory.NewAppendMovementUseCase(txRunner, productRepo, warehouseRepo, tracker, publisher)
	reserveUC := inventory.NewReservationUseCase(txRunner, productRepo)
	rebuildUC := inventory.NewRebuildUseCase(txRunner, log.Zerolog())
	queryUC := inventory.NewStockQueryUseCase(movementRepo, stockRepo, batchRepo)
	serialUC := inventory.NewSerialUseCase(txRunner, serialRepo, productRepo)
	transferUC := transfer.NewUseCase(txRunner, transferRepo, warehouseRepo, productRepo, appendUC, publisher)
	forecastUC := appforecast.NewUseCase(movementRepo, stockRepo, productRepo, batchRepo, forecastRepo, cfg.Forecast, log.Zerolog())
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo)

	approvalUC := approval.NewUseCase(approvalRepo, map[string]approval.Executor{
		entity.ApprovalActionAdjustment:    approval.NewAdjustmentExecutor(appendUC),
		entity.ApprovalActionBatchWriteoff: approval.NewBatchWriteoffExecutor(appendUC, batchRepo),
	}, cfg.Inventory.AllowSelfApproval, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		AppendUC:    appendUC,
		ReserveUC:   reserveUC,
		RebuildUC:   rebuildUC,
		QueryUC:     queryUC,
		SerialUC:    serialUC,
		TransferUC:  transferUC,
		ForecastUC:  forecastUC,
		ApprovalUC:  approvalUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	// Job periódico del pronosticador. También se puede disparar a mano con
	// POST /api/forecasts/run.
	forecastCtx, stopForecast := context.WithCancel(ctx)
	defer stopForecast()
	go func() {
		interval := time.Duration(cfg.Forecast.IntervalMin) * time.Minute
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-forecastCtx.Done():
				return
			case <-ticker.C:
				res, err := forecastUC.RunOnce(forecastCtx, time.Now())
				if err != nil {
					log.Error().Err(err).Msg("corrida del pronosticador")
					continue
				}
				log.Info().
					Int("keys_processed", res.KeysProcessed).
					Int("keys_skipped", res.KeysSkipped).
					Int64("batches_expired", res.BatchesExpired).
					Msg("corrida del pronosticador completada")
			}
		}
	}()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopForecast()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
