package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado. Terminales: RECEIVED y CANCELLED.
const (
	TransferStatusPending   = "PENDING"
	TransferStatusApproved  = "APPROVED"
	TransferStatusInTransit = "IN_TRANSIT"
	TransferStatusReceived  = "RECEIVED"
	TransferStatusCancelled = "CANCELLED"
)

// Transfer coordina un movimiento en dos fases entre bodegas: la salida en
// origen y la entrada en destino se confirman por separado porque la mercancía
// viaja físicamente entre ambos commits.
type Transfer struct {
	ID              string
	FromWarehouseID int64
	ToWarehouseID   int64
	Status          string
	RequestedBy     string
	ApprovedBy      *string
	FlaggedForAudit bool
	Notes           string
	Lines           []TransferLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TransferLine es una línea del traslado. Invariantes:
// shipped <= requested y received + writtenOff <= shipped.
type TransferLine struct {
	ID                 string
	TransferID         string
	Item               StockItem
	BatchID            *string
	QuantityRequested  decimal.Decimal
	QuantityShipped    decimal.Decimal
	QuantityReceived   decimal.Decimal
	QuantityWrittenOff decimal.Decimal
}

// Outstanding devuelve lo embarcado aún no recibido ni dado de baja.
func (l *TransferLine) Outstanding() decimal.Decimal {
	return l.QuantityShipped.Sub(l.QuantityReceived).Sub(l.QuantityWrittenOff)
}

// FullyAccounted indica si recibido + baja explícita cubre lo embarcado.
func (l *TransferLine) FullyAccounted() bool {
	return l.Outstanding().IsZero()
}

// CanCancel indica si el traslado admite cancelación (solo pre-embarque).
func (t *Transfer) CanCancel() bool {
	return t.Status == TransferStatusPending || t.Status == TransferStatusApproved
}

// AllLinesAccounted indica si cada línea embarcada está completamente saldada.
func (t *Transfer) AllLinesAccounted() bool {
	for i := range t.Lines {
		if !t.Lines[i].FullyAccounted() {
			return false
		}
	}
	return true
}
