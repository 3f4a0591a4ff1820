package http

import (
	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// Conversión entidad -> DTO de respuesta.

func toMovementResponse(m *entity.MovementRecord) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.Item.ProductID,
		VariantID:     m.Item.VariantID,
		WarehouseID:   m.WarehouseID,
		Type:          m.Type,
		QuantityIn:    m.QuantityIn,
		QuantityOut:   m.QuantityOut,
		BatchID:       m.BatchID,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		UnitCost:      m.UnitCost,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

func toStockLevelResponse(s *entity.StockLevel) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		ProductID:   s.Item.ProductID,
		VariantID:   s.Item.VariantID,
		WarehouseID: s.WarehouseID,
		OnHand:      s.OnHand,
		Reserved:    s.Reserved,
		Available:   s.Available(),
		UpdatedAt:   s.UpdatedAt,
	}
}

func toBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:              b.ID,
		ProductID:       b.Item.ProductID,
		VariantID:       b.Item.VariantID,
		WarehouseID:     b.WarehouseID,
		BatchNumber:     b.BatchNumber,
		ManufactureDate: b.ManufactureDate,
		ExpiryDate:      b.ExpiryDate,
		Quantity:        b.Quantity,
		Status:          b.Status,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toSerialResponse(u *entity.SerialUnit) dto.SerialResponse {
	return dto.SerialResponse{
		SerialNumber: u.SerialNumber,
		ProductID:    u.Item.ProductID,
		VariantID:    u.Item.VariantID,
		WarehouseID:  u.WarehouseID,
		Status:       u.Status,
		SaleRef:      u.SaleRef,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	out := dto.TransferResponse{
		ID:              t.ID,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		Status:          t.Status,
		RequestedBy:     t.RequestedBy,
		ApprovedBy:      t.ApprovedBy,
		FlaggedForAudit: t.FlaggedForAudit,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	for i := range t.Lines {
		l := &t.Lines[i]
		out.Lines = append(out.Lines, dto.TransferLineResponse{
			ID:                 l.ID,
			ProductID:          l.Item.ProductID,
			VariantID:          l.Item.VariantID,
			BatchID:            l.BatchID,
			QuantityRequested:  l.QuantityRequested,
			QuantityShipped:    l.QuantityShipped,
			QuantityReceived:   l.QuantityReceived,
			QuantityWrittenOff: l.QuantityWrittenOff,
		})
	}
	return out
}

func toWarehouseResponse(w *entity.Warehouse) dto.WarehouseResponse {
	return dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Type:      w.Type,
		Address:   w.Address,
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		TrackBatches:   p.TrackBatches,
		TrackSerials:   p.TrackSerials,
		AllowBackorder: p.AllowBackorder,
		ReorderPoint:   p.ReorderPoint,
		OptimalLevel:   p.OptimalLevel,
		LeadTimeDays:   p.LeadTimeDays,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toForecastResponse(f *entity.ForecastRecord) dto.ForecastResponse {
	return dto.ForecastResponse{
		ProductID:         f.Item.ProductID,
		VariantID:         f.Item.VariantID,
		WarehouseID:       f.WarehouseID,
		PeriodStart:       f.PeriodStart,
		HorizonDays:       f.HorizonDays,
		AvgDailyDemand:    f.AvgDailyDemand,
		ForecastedDemand:  f.ForecastedDemand,
		SuggestedOrderQty: f.SuggestedOrderQty,
		Confidence:        f.Confidence,
		AlertFlag:         f.AlertFlag,
		GeneratedAt:       f.GeneratedAt,
	}
}

func toApprovalResponse(a *entity.PendingApproval) dto.ApprovalResponse {
	return dto.ApprovalResponse{
		ID:          a.ID,
		ActionType:  a.ActionType,
		Payload:     a.Payload,
		RequestedBy: a.RequestedBy,
		Status:      a.Status,
		Approver:    a.Approver,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		DecidedAt:   a.DecidedAt,
	}
}
