package entity

import "fmt"

// StockItem identifica la unidad de seguimiento: producto + variante opcional.
// VariantID = 0 significa "sin variante"; el catálogo de productos es externo,
// el motor solo referencia los identificadores.
type StockItem struct {
	ProductID int64
	VariantID int64
}

// Key devuelve una clave estable para mapas y logs.
func (s StockItem) Key() string {
	return fmt.Sprintf("%d:%d", s.ProductID, s.VariantID)
}
