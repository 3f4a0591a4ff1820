package entity

import "time"

// Tipos de bodega.
const (
	WarehouseTypeMain        = "main"
	WarehouseTypeRetail      = "retail"
	WarehouseTypeTransit     = "transit"
	WarehouseTypeColdStorage = "cold_storage"
)

// Warehouse representa una bodega física o lógica. Se desactiva (soft delete);
// nunca se borra mientras existan movimientos que la referencien.
type Warehouse struct {
	ID        int64
	Name      string
	Type      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidWarehouseType verifica que el tipo pertenezca al conjunto conocido.
func ValidWarehouseType(t string) bool {
	switch t {
	case WarehouseTypeMain, WarehouseTypeRetail, WarehouseTypeTransit, WarehouseTypeColdStorage:
		return true
	}
	return false
}
