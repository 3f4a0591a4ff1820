package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

func newSerialFixture(t *testing.T) (*inventory.SerialUseCase, *fakeTxRunner) {
	t.Helper()
	p := simpleProduct()
	p.TrackSerials = true
	tx := newFakeTxRunner()
	uc := inventory.NewSerialUseCase(tx, tx.serialRepo, newFakeProductRepo(p))
	return uc, tx
}

func registered(t *testing.T, uc *inventory.SerialUseCase) *entity.SerialUnit {
	t.Helper()
	unit, err := uc.Register(context.Background(), "SN-001", testItem, testWarehouse)
	require.NoError(t, err)
	return unit
}

func TestSerial_RegisterCreaEnStock(t *testing.T) {
	uc, _ := newSerialFixture(t)
	unit := registered(t, uc)

	assert.Equal(t, entity.SerialStatusInStock, unit.Status)
	require.NotNil(t, unit.WarehouseID)
	assert.EqualValues(t, testWarehouse, *unit.WarehouseID)
}

func TestSerial_RegisterSinTrackingFalla(t *testing.T) {
	tx := newFakeTxRunner()
	uc := inventory.NewSerialUseCase(tx, tx.serialRepo, newFakeProductRepo(simpleProduct()))

	_, err := uc.Register(context.Background(), "SN-001", testItem, testWarehouse)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSerial_VentaLimpiaBodega(t *testing.T) {
	uc, _ := newSerialFixture(t)
	registered(t, uc)

	unit, err := uc.Sell(context.Background(), "SN-001", "INV-99")
	require.NoError(t, err)

	assert.Equal(t, entity.SerialStatusSold, unit.Status)
	assert.Nil(t, unit.WarehouseID, "una unidad vendida no está en ninguna bodega")
	require.NotNil(t, unit.LastWarehouseID)
	assert.EqualValues(t, testWarehouse, *unit.LastWarehouseID)
	require.NotNil(t, unit.SaleRef)
	assert.Equal(t, "INV-99", *unit.SaleRef)
}

func TestSerial_VenderDosVecesFalla(t *testing.T) {
	uc, _ := newSerialFixture(t)
	registered(t, uc)

	_, err := uc.Sell(context.Background(), "SN-001", "INV-1")
	require.NoError(t, err)
	_, err = uc.Sell(context.Background(), "SN-001", "INV-2")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestSerial_DevolucionRestauraBodega(t *testing.T) {
	uc, _ := newSerialFixture(t)
	registered(t, uc)
	_, err := uc.Sell(context.Background(), "SN-001", "INV-1")
	require.NoError(t, err)

	unit, err := uc.Return(context.Background(), "SN-001")
	require.NoError(t, err)
	assert.Equal(t, entity.SerialStatusReturned, unit.Status)
	require.NotNil(t, unit.WarehouseID)
	assert.EqualValues(t, testWarehouse, *unit.WarehouseID)
}

func TestSerial_InspeccionCierraDevolucion(t *testing.T) {
	ctx := context.Background()

	t.Run("vuelve a stock", func(t *testing.T) {
		uc, _ := newSerialFixture(t)
		registered(t, uc)
		_, err := uc.Sell(ctx, "SN-001", "INV-1")
		require.NoError(t, err)
		_, err = uc.Return(ctx, "SN-001")
		require.NoError(t, err)

		unit, err := uc.Inspect(ctx, "SN-001", entity.SerialStatusInStock)
		require.NoError(t, err)
		assert.Equal(t, entity.SerialStatusInStock, unit.Status)
		assert.Nil(t, unit.SaleRef, "al reingresar se limpia la referencia de venta")
	})

	t.Run("defectuosa", func(t *testing.T) {
		uc, _ := newSerialFixture(t)
		registered(t, uc)
		_, err := uc.Sell(ctx, "SN-001", "INV-1")
		require.NoError(t, err)
		_, err = uc.Return(ctx, "SN-001")
		require.NoError(t, err)

		unit, err := uc.Inspect(ctx, "SN-001", entity.SerialStatusDefective)
		require.NoError(t, err)
		assert.Equal(t, entity.SerialStatusDefective, unit.Status)
	})

	t.Run("resultado inválido", func(t *testing.T) {
		uc, _ := newSerialFixture(t)
		_, err := uc.Inspect(ctx, "SN-001", entity.SerialStatusSold)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSerial_GarantiaSoloDesdeVendida(t *testing.T) {
	uc, _ := newSerialFixture(t)
	registered(t, uc)

	_, err := uc.Warranty(context.Background(), "SN-001")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "IN_STOCK no pasa a garantía")

	_, err = uc.Sell(context.Background(), "SN-001", "INV-1")
	require.NoError(t, err)

	unit, err := uc.Warranty(context.Background(), "SN-001")
	require.NoError(t, err)
	assert.Equal(t, entity.SerialStatusWarranty, unit.Status)
}

func TestSerial_TransicionSobreInexistenteFalla(t *testing.T) {
	uc, _ := newSerialFixture(t)
	_, err := uc.Sell(context.Background(), "SN-404", "INV-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
