package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypePURCHASE    = "PURCHASE"     // entrada por compra
	MovementTypeSALE        = "SALE"         // salida por venta
	MovementTypeADJUSTMENT  = "ADJUSTMENT"   // ajuste aprobado
	MovementTypeTRANSFEROUT = "TRANSFER_OUT" // salida por traslado
	MovementTypeTRANSFERIN  = "TRANSFER_IN"  // entrada por traslado
	MovementTypeRETURN      = "RETURN"       // devolución de cliente
	MovementTypeDAMAGE      = "DAMAGE"       // merma/daño
	MovementTypeCOUNT       = "COUNT"        // corrección por conteo físico
)

// MovementRecord es un hecho inmutable del ledger. Invariante: exactamente una
// de QuantityIn/QuantityOut es positiva. Una vez persistido nunca se muta ni se
// borra; las correcciones son movimientos compensatorios nuevos.
type MovementRecord struct {
	ID            string
	Item          StockItem
	WarehouseID   int64
	Type          string
	QuantityIn    decimal.Decimal
	QuantityOut   decimal.Decimal
	BatchID       *string
	ReferenceType string
	ReferenceID   string
	UnitCost      *decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
}

// IsInbound indica si el movimiento suma stock.
func (m *MovementRecord) IsInbound() bool {
	return m.QuantityIn.GreaterThan(decimal.Zero)
}

// Net devuelve QuantityIn - QuantityOut (el delta que aplica al agregado).
func (m *MovementRecord) Net() decimal.Decimal {
	return m.QuantityIn.Sub(m.QuantityOut)
}

// ValidMovementType verifica que el tipo pertenezca al conjunto conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypePURCHASE, MovementTypeSALE, MovementTypeADJUSTMENT,
		MovementTypeTRANSFEROUT, MovementTypeTRANSFERIN,
		MovementTypeRETURN, MovementTypeDAMAGE, MovementTypeCOUNT:
		return true
	}
	return false
}
