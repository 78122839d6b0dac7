package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// CreateSaleUseCase factura una venta: persiste cabecera y líneas, asienta la
// salida de cada línea en el libro y luego dispara el costeo. Los montos llegan
// ya calculados desde el punto de venta; aquí no se recalculan precios ni
// impuestos.
type CreateSaleUseCase struct {
	txRunner    TxRunner
	outletRepo  repository.OutletRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	cogs        CogsComputer
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner TxRunner,
	outletRepo repository.OutletRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	cogs CogsComputer,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:    txRunner,
		outletRepo:  outletRepo,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		cogs:        cogs,
	}
}

// SaleLineInput línea de venta de entrada.
type SaleLineInput struct {
	ProductID string
	Qty       float64
	UnitPrice decimal.Decimal
	TaxPct    decimal.Decimal
}

// CreateSaleInput entrada para facturar una venta.
type CreateSaleInput struct {
	OutletID    string
	PaymentMode string
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Method      string // FIFO | FEFO; vacío usa el default del sistema
	UserID      string
	Items       []SaleLineInput
}

// CreateSale factura la venta y dispara el costeo. Si el inventario no alcanza,
/// la venta queda durable con costing_status=failed (sin costo parcial: el motor
// revierte todos sus efectos) y se retorna domain.ErrInsufficientInventory para
// que el operador resuelva; reintentar vía RetryCosting es seguro.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, input CreateSaleInput) (*entity.Sale, error) {
	if input.OutletID == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	outlet, err := uc.outletRepo.GetByID(input.OutletID)
	if err != nil || outlet == nil {
		return nil, domain.ErrNotFound
	}
	for _, line := range input.Items {
		if line.ProductID == "" || line.Qty <= 0 || line.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	paymentMode := input.PaymentMode
	if paymentMode == "" {
		paymentMode = "UPI"
	}
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		OutletID:      input.OutletID,
		BilledAt:      now,
		Subtotal:      input.Subtotal,
		Tax:           input.Tax,
		Discount:      input.Discount,
		Total:         input.Total,
		PaymentMode:   paymentMode,
		CostingStatus: entity.CostingPending,
		CreatedBy:     input.UserID,
	}
	for _, line := range input.Items {
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			TaxPct:    line.TaxPct,
		})
	}

	// 1) Venta + asientos del libro, una transacción.
	err = uc.txRunner.Run(ctx, func(
		saleRepo repository.SaleRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for i := range sale.Items {
			item := &sale.Items[i]
			if err := movementRepo.Create(&entity.StockMovement{
				ItemType:  entity.ItemTypeProduct,
				ItemID:    item.ProductID,
				OutletID:  sale.OutletID,
				QtyOut:    item.Qty,
				Reason:    entity.ReasonSale,
				RefTable:  "sales",
				RefID:     sale.ID,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 2) Costeo, en su propia transacción, con la venta ya durable.
	if err := uc.cogs.ComputeCogs(ctx, sale.ID, input.Method); err != nil {
		if errors.Is(err, domain.ErrInsufficientInventory) {
			// La venta queda marcada para resolución manual; el motor ya
			// revirtió descuentos y entradas.
			if mErr := uc.saleRepo.UpdateCostingStatus(sale.ID, entity.CostingFailed); mErr == nil {
				sale.CostingStatus = entity.CostingFailed
			}
		}
		return sale, err
	}
	sale.CostingStatus = entity.CostingDone
	return sale, nil
}

// RetryCosting reintenta el costeo de una venta marcada como fallida (o que
// quedó pendiente). Idempotente: líneas ya costeadas se saltan.
func (uc *CreateSaleUseCase) RetryCosting(ctx context.Context, saleID, method string) error {
	if saleID == "" {
		return domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if err := uc.cogs.ComputeCogs(ctx, saleID, method); err != nil {
		if errors.Is(err, domain.ErrInsufficientInventory) {
			_ = uc.saleRepo.UpdateCostingStatus(saleID, entity.CostingFailed)
		}
		return err
	}
	return nil
}
