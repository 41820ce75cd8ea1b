package service

import (
	"context"
	"errors"
	"fmt"

	"stockdesk/internal/dto"
	"stockdesk/internal/infra"
	"stockdesk/internal/model"
	"stockdesk/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseOrderService interface {
	Create(ctx context.Context, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
	Get(ctx context.Context, id uint) (*dto.PurchaseOrderResponse, error)
	List(ctx context.Context, filter dto.PurchaseOrderFilter) ([]dto.PurchaseOrderResponse, error)
	// Receive moves a Pending order to Received and adds its quantity to stock.
	Receive(ctx context.Context, id uint) (*dto.PurchaseOrderResponse, error)
	// Cancel moves a Pending order to Cancelled; stock is untouched.
	Cancel(ctx context.Context, id uint) (*dto.PurchaseOrderResponse, error)
	// Document renders the order as a PDF and returns the file path.
	Document(ctx context.Context, id uint) (string, error)
}

// DocumentConfig controls generated purchase order PDFs.
type DocumentConfig struct {
	Header      infra.DocumentHeader
	StoragePath string
}

type purchaseOrderService struct {
	repo     repository.PurchaseOrderRepository
	products repository.ProductRepository
	docs     DocumentConfig
	opts     Options
}

func NewPurchaseOrderService(
	repo repository.PurchaseOrderRepository,
	products repository.ProductRepository,
	docs DocumentConfig,
	opts Options,
) PurchaseOrderService {
	return &purchaseOrderService{repo: repo, products: products, docs: docs, opts: opts}
}

func (s *purchaseOrderService) Create(ctx context.Context, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !req.CostPerUnit.IsPositive() {
		return nil, ErrInvalidPrice
	}
	orderDate := s.opts.now().UTC()
	if req.OrderDate != nil {
		orderDate = req.OrderDate.UTC()
	}
	var expected = req.ExpectedDelivery
	if expected != nil {
		utc := expected.UTC()
		expected = &utc
	}

	cost := req.CostPerUnit.Round(2)
	order := model.PurchaseOrder{
		ProductID:        req.ProductID,
		Quantity:         req.Quantity,
		OrderDate:        orderDate,
		ExpectedDelivery: expected,
		Status:           model.StatusPending,
		CostPerUnit:      cost,
		TotalCost:        cost.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2),
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.products.FindByIDTx(tx, req.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		order.Product = p
		return s.repo.CreateTx(tx, &order)
	})
	if errors.Is(err, ErrProductNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}
	resp := orderToResponse(&order)
	return &resp, nil
}

func (s *purchaseOrderService) Get(ctx context.Context, id uint) (*dto.PurchaseOrderResponse, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := orderToResponse(o)
	return &resp, nil
}

func (s *purchaseOrderService) find(ctx context.Context, id uint) (*model.PurchaseOrder, error) {
	o, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPurchaseOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase order %d: %w", id, err)
	}
	return o, nil
}

func (s *purchaseOrderService) List(ctx context.Context, filter dto.PurchaseOrderFilter) ([]dto.PurchaseOrderResponse, error) {
	var status *model.PurchaseOrderStatus
	if filter.Status != "" {
		st, err := model.ParsePurchaseOrderStatus(filter.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
		}
		status = &st
	}
	orders, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, orderToResponse(&orders[i]))
	}
	return out, nil
}

func (s *purchaseOrderService) Receive(ctx context.Context, id uint) (*dto.PurchaseOrderResponse, error) {
	return s.transition(ctx, id, model.StatusReceived)
}

func (s *purchaseOrderService) Cancel(ctx context.Context, id uint) (*dto.PurchaseOrderResponse, error) {
	return s.transition(ctx, id, model.StatusCancelled)
}

// transition performs the guarded status update Pending -> next in one
// transaction; receiving also increments stock. A second receive finds the
// row no longer Pending and changes nothing.
func (s *purchaseOrderService) transition(ctx context.Context, id uint, next model.PurchaseOrderStatus) (*dto.PurchaseOrderResponse, error) {
	var order *model.PurchaseOrder
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		order, err = s.repo.FindByIDTx(tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseOrderNotFound
		}
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: order %d is %s", ErrOrderNotPending, id, order.Status)
		}

		ok, err := s.repo.TransitionTx(tx, id, model.StatusPending, next)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order %d changed concurrently", ErrOrderNotPending, id)
		}
		order.Status = next

		if next == model.StatusReceived {
			if err := s.products.IncrementStockTx(tx, order.ProductID, order.Quantity); err != nil {
				return err
			}
			if order.Product != nil {
				order.Product.CurrentStock += order.Quantity
			}
		}
		return nil
	})
	if errors.Is(err, ErrPurchaseOrderNotFound) || errors.Is(err, ErrOrderNotPending) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("purchase order %d to %s: %w", id, next, err)
	}
	resp := orderToResponse(order)
	return &resp, nil
}

func (s *purchaseOrderService) Document(ctx context.Context, id uint) (string, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	return infra.GeneratePurchaseOrderPDF(o, s.docs.Header, s.docs.StoragePath)
}
