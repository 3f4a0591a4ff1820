package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// ProductUseCase administra los atributos de política de producto que el motor
// consume: flags de seguimiento, backorder y parámetros de reposición. El
// catálogo maestro (precios, descripciones, imágenes) vive en otro servicio.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// ProductInput atributos de política de un producto.
type ProductInput struct {
	SKU            string
	Name           string
	TrackBatches   bool
	TrackSerials   bool
	AllowBackorder bool
	ReorderPoint   decimal.Decimal
	OptimalLevel   decimal.Decimal
	LeadTimeDays   int
}

func (in ProductInput) validate() error {
	if in.ReorderPoint.IsNegative() || in.OptimalLevel.IsNegative() {
		return fmt.Errorf("parámetros de reposición negativos: %w", domain.ErrInvalidInput)
	}
	if in.LeadTimeDays < 0 {
		return fmt.Errorf("lead time negativo: %w", domain.ErrInvalidInput)
	}
	return nil
}

// Create registra la política de un producto nuevo.
func (uc *ProductUseCase) Create(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		SKU:            in.SKU,
		Name:           in.Name,
		TrackBatches:   in.TrackBatches,
		TrackSerials:   in.TrackSerials,
		AllowBackorder: in.AllowBackorder,
		ReorderPoint:   in.ReorderPoint,
		OptimalLevel:   in.OptimalLevel,
		LeadTimeDays:   in.LeadTimeDays,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update modifica la política de un producto existente.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in ProductInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	product.SKU = in.SKU
	product.Name = in.Name
	product.TrackBatches = in.TrackBatches
	product.TrackSerials = in.TrackSerials
	product.AllowBackorder = in.AllowBackorder
	product.ReorderPoint = in.ReorderPoint
	product.OptimalLevel = in.OptimalLevel
	product.LeadTimeDays = in.LeadTimeDays
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Deactivate retira el producto: el motor rechaza movimientos nuevos pero el
// historial queda.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Active = false
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Activate reincorpora un producto retirado.
func (uc *ProductUseCase) Activate(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Active = true
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID devuelve un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return uc.get(ctx, id)
}

// GetBySKU devuelve un producto por SKU.
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	product, err := uc.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %q: %w", sku, domain.ErrNotFound)
	}
	return product, nil
}

// List devuelve productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.List(ctx, limit, offset)
}

func (uc *ProductUseCase) get(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
	}
	return product, nil
}
