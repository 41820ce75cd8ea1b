package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"stockdesk/internal/dto"
	"stockdesk/internal/model"
	"stockdesk/internal/repository"
	"stockdesk/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AlertDispatcher is satisfied by *worker.Dispatcher. A nil AlertDispatcher
// disables reorder alerts.
type AlertDispatcher interface {
	EnqueueStockAlert(ctx context.Context, payload worker.StockAlertPayload) error
}

type SaleService interface {
	Record(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	MonthlySales(ctx context.Context, year, month int) ([]dto.SaleResponse, error)
	History(ctx context.Context, filter dto.SaleFilter) (*dto.SaleHistoryResponse, error)
}

type saleService struct {
	repo     repository.SaleRepository
	products repository.ProductRepository
	alerts   AlertDispatcher
	opts     Options
}

func NewSaleService(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	alerts AlertDispatcher,
	opts Options,
) SaleService {
	return &saleService{repo: repo, products: products, alerts: alerts, opts: opts}
}

// ── Record ────────────────────────────────────────────────────────────────────
// One transaction:
//   1. load the product
//   2. reject when quantity exceeds current stock (no clamping)
//   3. conditional decrement, guarded by current_stock >= quantity
//   4. insert the sale with prices snapshotted from the product
// A reorder alert is enqueued after commit when stock ends at or below the
// reorder level.

func (s *saleService) Record(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	saleDate := s.opts.now().UTC()
	if req.SaleDate != nil {
		saleDate = req.SaleDate.UTC()
	}

	var sale model.Sale
	var after model.Product
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		p, err := s.products.FindByIDTx(tx, req.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		if req.Quantity > p.CurrentStock {
			return &StockError{ProductID: p.ID, Available: p.CurrentStock, Requested: req.Quantity}
		}

		ok, err := s.products.DecrementStockTx(tx, p.ID, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			// stock moved between the read and the guarded update
			available := 0
			if cur, err := s.products.FindByIDTx(tx, p.ID); err == nil {
				available = cur.CurrentStock
			}
			return &StockError{ProductID: p.ID, Available: available, Requested: req.Quantity}
		}

		sale = model.Sale{
			ProductID: p.ID,
			Quantity:  req.Quantity,
			SaleDate:  saleDate,
			SalePrice: p.SellingPrice,
			CostPrice: p.BuyingPrice,
		}
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}
		after = *p
		after.CurrentStock -= req.Quantity
		return nil
	})
	if txErr != nil {
		var stockErr *StockError
		if errors.As(txErr, &stockErr) || errors.Is(txErr, ErrProductNotFound) {
			return nil, txErr
		}
		return nil, fmt.Errorf("record sale: %w", txErr)
	}
	sale.Product = &after

	if s.alerts != nil && after.NeedsReorder() {
		// best-effort: the sale is already committed
		payload := worker.StockAlertPayload{
			ProductID:    after.ID,
			Name:         after.Name,
			CurrentStock: after.CurrentStock,
			ReorderLevel: after.ReorderLevel,
		}
		if err := s.alerts.EnqueueStockAlert(ctx, payload); err != nil {
			log.Warn().Err(err).Uint("product_id", after.ID).Msg("sale: failed to enqueue stock alert")
		}
	}

	resp := saleToResponse(&sale)
	return &resp, nil
}

func (s *saleService) MonthlySales(ctx context.Context, year, month int) ([]dto.SaleResponse, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}
	from, to := monthBounds(year, month, s.opts.loc())
	sales, err := s.repo.List(ctx, repository.SaleQuery{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}
	return salesToResponse(sales), nil
}

// History applies the optional filters; End covers its whole calendar day.
func (s *saleService) History(ctx context.Context, filter dto.SaleFilter) (*dto.SaleHistoryResponse, error) {
	loc := s.opts.loc()
	q := repository.SaleQuery{ProductID: filter.ProductID}
	if filter.Start != nil {
		from := dayStart(*filter.Start, loc).UTC()
		q.From = &from
	}
	if filter.End != nil {
		to := dayStart(*filter.End, loc).AddDate(0, 0, 1).UTC()
		q.To = &to
	}
	if q.From != nil && q.To != nil && !q.From.Before(*q.To) {
		return nil, fmt.Errorf("%w: start is after end", ErrInvalidPeriod)
	}

	sales, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sales history: %w", err)
	}

	resp := &dto.SaleHistoryResponse{
		Sales:        salesToResponse(sales),
		TotalRevenue: decimal.Zero,
		TotalProfit:  decimal.Zero,
	}
	for _, sr := range resp.Sales {
		resp.TotalRevenue = resp.TotalRevenue.Add(sr.Revenue)
		resp.TotalProfit = resp.TotalProfit.Add(sr.Profit)
		resp.TotalUnits += sr.Quantity
	}
	resp.TotalTransactions = len(resp.Sales)
	resp.ProfitMarginPct = pct(resp.TotalProfit, resp.TotalRevenue)
	resp.Breakdown = breakdownByProduct(resp.Sales)
	return resp, nil
}

func breakdownByProduct(sales []dto.SaleResponse) []dto.ProductProfit {
	index := make(map[uint]int)
	out := make([]dto.ProductProfit, 0)
	for _, s := range sales {
		i, ok := index[s.ProductID]
		if !ok {
			i = len(out)
			index[s.ProductID] = i
			out = append(out, dto.ProductProfit{
				ProductID: s.ProductID,
				Name:      s.ProductName,
				Revenue:   decimal.Zero,
				Profit:    decimal.Zero,
			})
		}
		out[i].Units += s.Quantity
		out[i].Revenue = out[i].Revenue.Add(s.Revenue)
		out[i].Profit = out[i].Profit.Add(s.Profit)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
