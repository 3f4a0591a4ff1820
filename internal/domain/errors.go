package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los casos de uso los
// devuelven envueltos con contexto (%w) y la capa HTTP los mapea a códigos.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrBatchDepleted       = errors.New("lote sin cantidad suficiente")
	ErrInvalidState        = errors.New("transición de estado inválida")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintentar con estado fresco")
	ErrConsistencyDrift    = errors.New("nivel de stock en caché difiere del replay del ledger")
	ErrSelfApproval        = errors.New("el aprobador no puede ser quien solicita")
)
