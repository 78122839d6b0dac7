package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/costing"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// InventoryUseCase cubre las operaciones de inventario fuera del motor de costeo:
// recepción de mercancía (crea lotes), mermas, traslados entre puntos, producción
// y la consulta de stock derivado del libro.
type InventoryUseCase struct {
	txRunner       TxRunner
	productRepo    repository.ProductRepository
	ingredientRepo repository.IngredientRepository
	outletRepo     repository.OutletRepository
	movementRepo   repository.StockMovementRepository
	batchRepo      repository.PurchaseBatchRepository
}

// NewInventoryUseCase construye el caso de uso. batchRepo va atado al pool
// (las lecturas de lotes fuera de transacción no toman bloqueos).
func NewInventoryUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	ingredientRepo repository.IngredientRepository,
	outletRepo repository.OutletRepository,
	movementRepo repository.StockMovementRepository,
	batchRepo repository.PurchaseBatchRepository,
) *InventoryUseCase {
	return &InventoryUseCase{
		txRunner:       txRunner,
		productRepo:    productRepo,
		ingredientRepo: ingredientRepo,
		outletRepo:     outletRepo,
		movementRepo:   movementRepo,
		batchRepo:      batchRepo,
	}
}

// ReceiveBatchInput entrada para la recepción de mercancía (GRN).
type ReceiveBatchInput struct {
	ProductID  string
	OutletID   string
	BatchNo    string
	ReceivedAt time.Time
	Qty        float64
	UnitCost   decimal.Decimal
	Expiry     *time.Time
	UserID     string
}

// ReceiveBatch registra una recepción: crea el lote (qty_remaining = qty_in)
// y asienta el movimiento de entrada en el libro, en una sola transacción.
// El motor de costeo solo lee y descuenta estos lotes, nunca los crea.
func (uc *InventoryUseCase) ReceiveBatch(ctx context.Context, input ReceiveBatchInput) (*entity.PurchaseBatch, error) {
	if input.ProductID == "" || input.OutletID == "" || input.BatchNo == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Qty <= 0 || input.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	outlet, err := uc.outletRepo.GetByID(input.OutletID)
	if err != nil || outlet == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	receivedAt := input.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = now
	}
	batch := &entity.PurchaseBatch{
		ID:           uuid.New().String(),
		ProductID:    input.ProductID,
		OutletID:     input.OutletID,
		BatchNo:      input.BatchNo,
		ReceivedAt:   receivedAt,
		QtyIn:        input.Qty,
		UnitCost:     input.UnitCost,
		QtyRemaining: input.Qty,
		Expiry:       input.Expiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.PurchaseBatchRepository,
		movementRepo repository.StockMovementRepository,
		_ repository.WastageRepository,
	) error {
		if err := batchRepo.Create(batch); err != nil {
			return err
		}
		return movementRepo.Create(&entity.StockMovement{
			ItemType:  entity.ItemTypeProduct,
			ItemID:    batch.ProductID,
			OutletID:  batch.OutletID,
			BatchID:   &batch.ID,
			QtyIn:     batch.QtyIn,
			Reason:    entity.ReasonReceipt,
			RefTable:  "purchase_batches",
			RefID:     batch.ID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// WastageInput entrada para registrar una merma contra un lote.
type WastageInput struct {
	OutletID string
	BatchID  string
	Qty      float64
	Reason   string
	UserID   string
}

// RegisterWastage descuenta la merma del lote (bajo el mismo bloqueo de fila que
// el motor de costeo) y asienta la salida en el libro. La merma no puede exceder
// el remanente del lote.
func (uc *InventoryUseCase) RegisterWastage(ctx context.Context, input WastageInput) error {
	if input.OutletID == "" || input.BatchID == "" || input.Qty <= 0 {
		return domain.ErrInvalidInput
	}
	reason := input.Reason
	if reason == "" {
		reason = "expired"
	}
	now := time.Now()

	return uc.txRunner.Run(ctx, func(
		batchRepo repository.PurchaseBatchRepository,
		movementRepo repository.StockMovementRepository,
		wastageRepo repository.WastageRepository,
	) error {
		batch, err := batchRepo.GetForUpdate(input.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		if batch.OutletID != input.OutletID {
			return domain.ErrInvalidInput
		}
		if input.Qty > batch.QtyRemaining+costing.Epsilon {
			return domain.ErrInsufficientInventory
		}
		if err := batchRepo.Decrement(batch.ID, input.Qty); err != nil {
			return err
		}
		wastage := &entity.Wastage{
			ID:        uuid.New().String(),
			OutletID:  input.OutletID,
			ProductID: batch.ProductID,
			BatchID:   batch.ID,
			Qty:       input.Qty,
			Reason:    reason,
			NotedAt:   now,
			CreatedBy: input.UserID,
		}
		if err := wastageRepo.Create(wastage); err != nil {
			return err
		}
		return movementRepo.Create(&entity.StockMovement{
			ItemType:  entity.ItemTypeProduct,
			ItemID:    batch.ProductID,
			OutletID:  input.OutletID,
			BatchID:   &batch.ID,
			QtyOut:    input.Qty,
			Reason:    entity.ReasonWastage,
			RefTable:  "wastages",
			RefID:     wastage.ID,
			CreatedAt: now,
		})
	})
}

// DispatchInput traslado de un ítem entre puntos (cocina → punto de venta).
type DispatchInput struct {
	ItemType     string
	ItemID       string
	FromOutletID string
	ToOutletID   string
	Qty          float64
	UserID       string
}

// Dispatch asienta el par de movimientos del traslado (salida en origen, entrada
// en destino) en una sola transacción, compartiendo la misma referencia.
func (uc *InventoryUseCase) Dispatch(ctx context.Context, input DispatchInput) error {
	if input.ItemID == "" || input.FromOutletID == "" || input.ToOutletID == "" {
		return domain.ErrInvalidInput
	}
	if input.FromOutletID == input.ToOutletID || input.Qty <= 0 {
		return domain.ErrInvalidInput
	}
	if input.ItemType != entity.ItemTypeIngredient && input.ItemType != entity.ItemTypeProduct {
		return domain.ErrInvalidInput
	}
	from, err := uc.outletRepo.GetByID(input.FromOutletID)
	if err != nil || from == nil {
		return domain.ErrNotFound
	}
	to, err := uc.outletRepo.GetByID(input.ToOutletID)
	if err != nil || to == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	refID := uuid.New().String()
	return uc.txRunner.Run(ctx, func(
		_ repository.PurchaseBatchRepository,
		movementRepo repository.StockMovementRepository,
		_ repository.WastageRepository,
	) error {
		out := &entity.StockMovement{
			ItemType:  input.ItemType,
			ItemID:    input.ItemID,
			OutletID:  input.FromOutletID,
			QtyOut:    input.Qty,
			Reason:    entity.ReasonDispatchOut,
			RefTable:  "dispatches",
			RefID:     refID,
			CreatedAt: now,
		}
		if err := movementRepo.Create(out); err != nil {
			return err
		}
		in := &entity.StockMovement{
			ItemType:  input.ItemType,
			ItemID:    input.ItemID,
			OutletID:  input.ToOutletID,
			QtyIn:     input.Qty,
			Reason:    entity.ReasonDispatchIn,
			RefTable:  "dispatches",
			RefID:     refID,
			CreatedAt: now,
		}
		return movementRepo.Create(in)
	})
}

// ProductionInput producción en cocina: entra producto terminado, salen las
// materias primas consumidas (cantidades ya resueltas por el caller).
type ProductionInput struct {
	OutletID  string
	ProductID string
	Qty       float64
	Consumed  []ConsumedIngredient
	UserID    string
}

// ConsumedIngredient materia prima consumida en una producción.
type ConsumedIngredient struct {
	IngredientID string
	Qty          float64
}

// RegisterProduction asienta la entrada del producto terminado y las salidas de
// materias primas, todo bajo la misma referencia y transacción.
func (uc *InventoryUseCase) RegisterProduction(ctx context.Context, input ProductionInput) error {
	if input.OutletID == "" || input.ProductID == "" || input.Qty <= 0 {
		return domain.ErrInvalidInput
	}
	for _, c := range input.Consumed {
		if c.IngredientID == "" || c.Qty <= 0 {
			return domain.ErrInvalidInput
		}
	}
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	refID := uuid.New().String()
	return uc.txRunner.Run(ctx, func(
		_ repository.PurchaseBatchRepository,
		movementRepo repository.StockMovementRepository,
		_ repository.WastageRepository,
	) error {
		if err := movementRepo.Create(&entity.StockMovement{
			ItemType:  entity.ItemTypeProduct,
			ItemID:    input.ProductID,
			OutletID:  input.OutletID,
			QtyIn:     input.Qty,
			Reason:    entity.ReasonProduction,
			RefTable:  "productions",
			RefID:     refID,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		for _, c := range input.Consumed {
			if err := movementRepo.Create(&entity.StockMovement{
				ItemType:  entity.ItemTypeIngredient,
				ItemID:    c.IngredientID,
				OutletID:  input.OutletID,
				QtyOut:    c.Qty,
				Reason:    entity.ReasonProduction,
				RefTable:  "productions",
				RefID:     refID,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// StockOnHand deriva el stock actual de un ítem en un punto desde el libro.
// Lectura sin bloqueo: sirve para tableros y alertas; el motor de costeo no
// depende de este valor (su corrección viene del bloqueo por lote).
func (uc *InventoryUseCase) StockOnHand(itemType, itemID, outletID string) (float64, error) {
	if itemType != entity.ItemTypeIngredient && itemType != entity.ItemTypeProduct {
		return 0, domain.ErrInvalidInput
	}
	if itemID == "" || outletID == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.movementRepo.StockOnHand(itemType, itemID, outletID)
}

// ListBatches lista los lotes de un producto en un punto (incluye agotados).
func (uc *InventoryUseCase) ListBatches(productID, outletID string) ([]*entity.PurchaseBatch, error) {
	if productID == "" || outletID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.batchRepo.ListByProductOutlet(productID, outletID)
}

// ListMovements lista los movimientos de un punto, más recientes primero.
func (uc *InventoryUseCase) ListMovements(outletID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if outletID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movementRepo.ListByOutlet(outletID, from, to, limit, offset)
}
