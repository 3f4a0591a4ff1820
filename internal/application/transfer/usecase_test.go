package transfer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/application/transfer"
	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/event"
	"github.com/jhoicas/Inventario-core/pkg/config"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

const (
	origenID  = int64(1)
	destinoID = int64(2)
)

var itemA = entity.StockItem{ProductID: 1}

type fixture struct {
	tx        *fakeTxRunner
	publisher *capturePublisher
	uc        *transfer.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tx := newFakeTxRunner()
	products := newFakeProductRepo(&entity.Product{ID: 1, SKU: "SKU-1", Active: true})
	warehouses := newFakeWarehouseRepo(
		&entity.Warehouse{ID: origenID, Name: "Origen", Type: entity.WarehouseTypeMain, Active: true},
		&entity.Warehouse{ID: destinoID, Name: "Destino", Type: entity.WarehouseTypeRetail, Active: true},
	)
	publisher := &capturePublisher{}
	appendUC := inventory.NewAppendMovementUseCase(tx, products, warehouses,
		inventory.NewBatchTracker(config.BatchPolicyStrict), publisher)
	uc := transfer.NewUseCase(tx, tx.transferRepo, warehouses, products, appendUC, publisher)
	return &fixture{tx: tx, publisher: publisher, uc: uc}
}

func (f *fixture) seedStock(t *testing.T, warehouseID int64, onHand string) {
	t.Helper()
	require.NoError(t, f.tx.stockRepo.Upsert(context.Background(), &entity.StockLevel{
		Item:        itemA,
		WarehouseID: warehouseID,
		OnHand:      dec(onHand),
	}))
}

func (f *fixture) created(t *testing.T, qty string) *entity.Transfer {
	t.Helper()
	tr, err := f.uc.Create(context.Background(), origenID, destinoID, "", "solicitante",
		[]transfer.LineInput{{Item: itemA, Quantity: dec(qty)}})
	require.NoError(t, err)
	return tr
}

func (f *fixture) approved(t *testing.T, qty string) *entity.Transfer {
	t.Helper()
	tr := f.created(t, qty)
	tr, err := f.uc.Approve(context.Background(), tr.ID, "aprobador")
	require.NoError(t, err)
	return tr
}

func (f *fixture) shipped(t *testing.T, qty string) *entity.Transfer {
	t.Helper()
	f.seedStock(t, origenID, qty)
	tr := f.approved(t, qty)
	tr, err := f.uc.Ship(context.Background(), tr.ID, "bodeguero",
		[]transfer.QuantityInput{{LineID: tr.Lines[0].ID, Quantity: dec(qty)}})
	require.NoError(t, err)
	return tr
}

func TestCreate_QuedaPendiente(t *testing.T) {
	f := newFixture(t)
	tr := f.created(t, "10")

	assert.Equal(t, entity.TransferStatusPending, tr.Status)
	require.Len(t, tr.Lines, 1)
	assert.True(t, tr.Lines[0].QuantityRequested.Equal(dec("10")))

	require.Len(t, f.publisher.events, 1)
	evt := f.publisher.events[0].(event.TransferStateChanged)
	assert.Equal(t, entity.TransferStatusPending, evt.To)
}

func TestCreate_MismaBodegaFalla(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), origenID, origenID, "", "u",
		[]transfer.LineInput{{Item: itemA, Quantity: dec("1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_SinLineasFalla(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), origenID, destinoID, "", "u", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApprove_MarcaAprobador(t *testing.T) {
	f := newFixture(t)
	tr := f.created(t, "10")

	tr, err := f.uc.Approve(context.Background(), tr.ID, "aprobador")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, tr.Status)
	require.NotNil(t, tr.ApprovedBy)
	assert.Equal(t, "aprobador", *tr.ApprovedBy)
	assert.False(t, tr.FlaggedForAudit)
}

func TestApprove_AutoAprobacionQuedaAuditada(t *testing.T) {
	f := newFixture(t)
	tr := f.created(t, "10")

	// El solicitante se aprueba a sí mismo: pasa, pero queda marcado.
	tr, err := f.uc.Approve(context.Background(), tr.ID, "solicitante")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, tr.Status)
	assert.True(t, tr.FlaggedForAudit)
}

func TestApprove_DosVecesFalla(t *testing.T) {
	f := newFixture(t)
	tr := f.approved(t, "10")

	_, err := f.uc.Approve(context.Background(), tr.ID, "otro")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestShip_DescuentaOrigenYPasaATransito(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, origenID, "100")
	tr := f.approved(t, "30")

	tr, err := f.uc.Ship(context.Background(), tr.ID, "bodeguero",
		[]transfer.QuantityInput{{LineID: tr.Lines[0].ID, Quantity: dec("30")}})
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusInTransit, tr.Status)
	assert.True(t, tr.Lines[0].QuantityShipped.Equal(dec("30")))

	level, err := f.tx.stockRepo.Get(context.Background(), itemA, origenID)
	require.NoError(t, err)
	assert.True(t, level.OnHand.Equal(dec("70")), "origen %s", level.OnHand)

	// Debe existir el TRANSFER_OUT referenciando el traslado.
	require.NotEmpty(t, f.tx.movRepo.movements)
	mov := f.tx.movRepo.movements[len(f.tx.movRepo.movements)-1]
	assert.Equal(t, entity.MovementTypeTRANSFEROUT, mov.Type)
	assert.Equal(t, "stock_transfer", mov.ReferenceType)
	assert.Equal(t, tr.ID, mov.ReferenceID)
}

func TestShip_SinAprobarFalla(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, origenID, "100")
	tr := f.created(t, "30")

	_, err := f.uc.Ship(context.Background(), tr.ID, "bodeguero",
		[]transfer.QuantityInput{{LineID: tr.Lines[0].ID, Quantity: dec("30")}})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestShip_TodoONada_AgregaFallasPorLinea(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, origenID, "5")

	tr, err := f.uc.Create(context.Background(), origenID, destinoID, "", "solicitante",
		[]transfer.LineInput{
			{Item: itemA, Quantity: dec("3")},
			{Item: itemA, Quantity: dec("10")},
		})
	require.NoError(t, err)
	tr, err = f.uc.Approve(context.Background(), tr.ID, "aprobador")
	require.NoError(t, err)

	// La primera línea cabe (3 de 5), la segunda no (10 de 5).
	_, err = f.uc.Ship(context.Background(), tr.ID, "bodeguero", []transfer.QuantityInput{
		{LineID: tr.Lines[0].ID, Quantity: dec("3")},
		{LineID: tr.Lines[1].ID, Quantity: dec("10")},
	})
	var lerr *transfer.LinesError
	require.ErrorAs(t, err, &lerr)
	require.Len(t, lerr.Lines, 1, "solo la línea sin stock falla")
	assert.Equal(t, tr.Lines[1].ID, lerr.Lines[0].LineID)
	assert.ErrorIs(t, lerr.Lines[0].Err, domain.ErrInsufficientStock)

	// Todo-o-nada: la línea válida tampoco quedó embarcada.
	after, err := f.uc.Get(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, after.Status)
	assert.True(t, after.Lines[0].QuantityShipped.IsZero())
}

func TestShip_DisponibleAcumuladoEntreLineasDelMismoItem(t *testing.T) {
	f := newFixture(t)
	// Disponible 70: onHand 100 con 30 reservadas para pedidos de venta.
	require.NoError(t, f.tx.stockRepo.Upsert(context.Background(), &entity.StockLevel{
		Item:        itemA,
		WarehouseID: origenID,
		OnHand:      dec("100"),
		Reserved:    dec("30"),
	}))

	tr, err := f.uc.Create(context.Background(), origenID, destinoID, "", "solicitante",
		[]transfer.LineInput{
			{Item: itemA, Quantity: dec("40")},
			{Item: itemA, Quantity: dec("40")},
		})
	require.NoError(t, err)
	tr, err = f.uc.Approve(context.Background(), tr.ID, "aprobador")
	require.NoError(t, err)

	// Cada línea cabe sola en el disponible, pero juntas piden 80 sobre 70:
	// el disponible se consume acumulado, no por línea aislada.
	_, err = f.uc.Ship(context.Background(), tr.ID, "bodeguero", []transfer.QuantityInput{
		{LineID: tr.Lines[0].ID, Quantity: dec("40")},
		{LineID: tr.Lines[1].ID, Quantity: dec("40")},
	})
	var lerr *transfer.LinesError
	require.ErrorAs(t, err, &lerr)
	require.Len(t, lerr.Lines, 1)
	assert.Equal(t, tr.Lines[1].ID, lerr.Lines[0].LineID)
	assert.ErrorIs(t, lerr.Lines[0].Err, domain.ErrInsufficientStock)

	// Nada se aplicó: nivel y reserva intactos.
	level, err := f.tx.stockRepo.Get(context.Background(), itemA, origenID)
	require.NoError(t, err)
	assert.True(t, level.OnHand.Equal(dec("100")))
	assert.True(t, level.Reserved.Equal(dec("30")), "la reserva otorgada no se toca")

	after, err := f.uc.Get(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, after.Status)
	assert.True(t, after.Lines[0].QuantityShipped.IsZero())
}

func TestShip_MasQueLoSolicitadoFalla(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, origenID, "100")
	tr := f.approved(t, "10")

	_, err := f.uc.Ship(context.Background(), tr.ID, "bodeguero",
		[]transfer.QuantityInput{{LineID: tr.Lines[0].ID, Quantity: dec("11")}})
	var lerr *transfer.LinesError
	require.ErrorAs(t, err, &lerr)
	assert.ErrorIs(t, lerr.Lines[0].Err, domain.ErrInvalidInput)
}

func TestReceive_ParcialSigueEnTransito(t *testing.T) {
	f := newFixture(t)
	tr := f.shipped(t, "30")

	tr, err := f.uc.Receive(context.Background(), tr.ID, "receptor",
		[]transfer.QuantityInput{{LineID: tr.Lines[0].ID, Quantity: dec("20")}})
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusInTransit, tr.Status,
		"quedan 10 pendientes")
	assert.True(t, tr.Lines[0].QuantityReceived.Equal(dec("20")))

	level, err := f.tx.stockRepo.Get(context.Background(), itemA, destinoID)
	require.NoError(t, err)
	assert.True(t, level.OnHand.Equal(dec("20")), "destino recibe lo confirmado")
}

func TestReceive_CompletoCierraElTraslado(t *testing.T) {
	f := newFixture(t)
	tr := f.shipped(t, "30")

	tr, err := f.uc.Receive(context.Background(), tr.ID, "receptor",
		[]transfer.QuantityInput{{LineID: tr.Lines[0].ID, Quantity: dec("30")}})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, tr.Status)

	// Conservación: origen + destino == stock inicial.
	origen, err := f.tx.stockRepo.Get(context.Background(), itemA, origenID)
	require.NoError(t, err)
	destino, err := f.tx.stockRepo.Get(context.Background(), itemA, destinoID)
	require.NoError(t, err)
	assert.True(t, origen.OnHand.Add(destino.OnHand).Equal(dec("30")))
}

func TestReceive_MasQueLoPendienteFalla(t *testing.T) {
	f := newFixture(t)
	tr := f.shipped(t, "30")

	_, err := f.uc.Receive(context.Background(), tr.ID, "receptor",
		[]transfer.QuantityInput{{LineID: tr.Lines[0].ID, Quantity: dec("31")}})
	var lerr *transfer.LinesError
	require.ErrorAs(t, err, &lerr)
	assert.ErrorIs(t, lerr.Lines[0].Err, domain.ErrInvalidInput)
}

func TestWriteOff_CierraLaBrechaSinMovimientoEnDestino(t *testing.T) {
	f := newFixture(t)
	tr := f.shipped(t, "30")

	// Se reciben 25 y se pierden 5 en el camino.
	tr, err := f.uc.Receive(context.Background(), tr.ID, "receptor",
		[]transfer.QuantityInput{{LineID: tr.Lines[0].ID, Quantity: dec("25")}})
	require.NoError(t, err)
	require.Equal(t, entity.TransferStatusInTransit, tr.Status)

	movsBefore := len(f.tx.movRepo.movements)
	tr, err = f.uc.WriteOffLoss(context.Background(), tr.ID, tr.Lines[0].ID, "supervisor", dec("5"))
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusReceived, tr.Status,
		"con la baja todas las líneas quedan saldadas")
	assert.True(t, tr.Lines[0].QuantityWrittenOff.Equal(dec("5")))
	assert.Len(t, f.tx.movRepo.movements, movsBefore,
		"la baja no genera movimiento en destino: el stock nunca llegó")
}

func TestWriteOff_MasQueLoPendienteFalla(t *testing.T) {
	f := newFixture(t)
	tr := f.shipped(t, "30")

	_, err := f.uc.WriteOffLoss(context.Background(), tr.ID, tr.Lines[0].ID, "supervisor", dec("31"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancel_SoloPreEmbarque(t *testing.T) {
	t.Run("pendiente", func(t *testing.T) {
		f := newFixture(t)
		tr := f.created(t, "10")
		tr, err := f.uc.Cancel(context.Background(), tr.ID, "u")
		require.NoError(t, err)
		assert.Equal(t, entity.TransferStatusCancelled, tr.Status)
	})

	t.Run("aprobado", func(t *testing.T) {
		f := newFixture(t)
		tr := f.approved(t, "10")
		tr, err := f.uc.Cancel(context.Background(), tr.ID, "u")
		require.NoError(t, err)
		assert.Equal(t, entity.TransferStatusCancelled, tr.Status)
	})

	t.Run("en tránsito", func(t *testing.T) {
		f := newFixture(t)
		tr := f.shipped(t, "10")
		_, err := f.uc.Cancel(context.Background(), tr.ID, "u")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestGet_InexistenteFalla(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Get(context.Background(), "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
