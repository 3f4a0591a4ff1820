package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// Eventos de dominio emitidos tras el commit de la transacción que los origina.
// La entrega es al menos una vez: los consumidores deben ser idempotentes por
// MovementID / TransferID.

// MovementAppended se emite por cada movimiento nuevo en el ledger.
type MovementAppended struct {
	MovementID  string
	Item        entity.StockItem
	WarehouseID int64
	Type        string
	Net         decimal.Decimal
	OccurredAt  time.Time
}

// TransferStateChanged se emite en cada transición del traslado.
type TransferStateChanged struct {
	TransferID string
	From       string
	To         string
	ChangedBy  string
	OccurredAt time.Time
}

// BatchDepleted se emite cuando un lote llega a cantidad cero.
type BatchDepleted struct {
	BatchID     string
	BatchNumber string
	Item        entity.StockItem
	WarehouseID int64
	OccurredAt  time.Time
}

// Publisher es el puerto de publicación. La implementación por defecto es un
// fan-out en proceso; los subsistemas de notificación/auditoría son externos.
type Publisher interface {
	Publish(evt any)
}

// NopPublisher descarta eventos (tests y herramientas).
type NopPublisher struct{}

func (NopPublisher) Publish(any) {}
