package service

import (
	"context"
	"fmt"
	"time"

	"stockdesk/internal/dto"
	"stockdesk/internal/repository"

	"github.com/shopspring/decimal"
)

// MaxReportMonths bounds MultiMonthStats and Trends.
const MaxReportMonths = 60

const topProductsCount = 5

type ReportService interface {
	MonthlyStats(ctx context.Context, year, month int) (dto.MonthlyStats, error)
	// MultiMonthStats returns exactly n months ending with the current one,
	// oldest first, with empty months zero-filled.
	MultiMonthStats(ctx context.Context, n int) ([]dto.MonthlyStats, error)
	MonthlyReport(ctx context.Context, year, month int) (*dto.MonthlyReportResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Trends(ctx context.Context, months int) (*dto.TrendsResponse, error)
}

type reportService struct {
	repo  repository.ReportRepository
	sales repository.SaleRepository
	opts  Options
}

func NewReportService(repo repository.ReportRepository, sales repository.SaleRepository, opts Options) ReportService {
	return &reportService{repo: repo, sales: sales, opts: opts}
}

func (s *reportService) MonthlyStats(ctx context.Context, year, month int) (dto.MonthlyStats, error) {
	if month < 1 || month > 12 {
		return dto.MonthlyStats{}, fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}
	from, to := monthBounds(year, month, s.opts.loc())
	t, err := s.repo.SalesTotals(ctx, from, to)
	if err != nil {
		return dto.MonthlyStats{}, fmt.Errorf("monthly stats %04d-%02d: %w", year, month, err)
	}
	return dto.MonthlyStats{
		Year:              year,
		Month:             month,
		TotalRevenue:      t.Revenue.Round(2),
		TotalProfit:       t.Profit.Round(2),
		TotalTransactions: t.Transactions,
		TotalUnits:        t.Units,
	}, nil
}

func (s *reportService) MultiMonthStats(ctx context.Context, n int) ([]dto.MonthlyStats, error) {
	if n < 1 || n > MaxReportMonths {
		return nil, fmt.Errorf("%w: months must be between 1 and %d, got %d", ErrInvalidPeriod, MaxReportMonths, n)
	}
	now := s.opts.now().In(s.opts.loc())
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.opts.loc())

	out := make([]dto.MonthlyStats, 0, n)
	for i := n - 1; i >= 0; i-- {
		m := current.AddDate(0, -i, 0)
		stats, err := s.MonthlyStats(ctx, m.Year(), int(m.Month()))
		if err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}

func (s *reportService) MonthlyReport(ctx context.Context, year, month int) (*dto.MonthlyReportResponse, error) {
	stats, err := s.MonthlyStats(ctx, year, month)
	if err != nil {
		return nil, err
	}
	from, to := monthBounds(year, month, s.opts.loc())
	sales, err := s.sales.List(ctx, repository.SaleQuery{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("monthly report: %w", err)
	}
	return &dto.MonthlyReportResponse{Stats: stats, Sales: salesToResponse(sales)}, nil
}

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := s.opts.now().In(s.opts.loc())
	stats, err := s.MonthlyStats(ctx, now.Year(), int(now.Month()))
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.InventoryValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard inventory: %w", err)
	}
	inv.CostValue = inv.CostValue.Round(2)
	inv.RetailValue = inv.RetailValue.Round(2)
	inv.PotentialProfit = inv.RetailValue.Sub(inv.CostValue)

	from, to := monthBounds(now.Year(), int(now.Month()), s.opts.loc())
	top, err := s.repo.TopProductsByProfit(ctx, from, to, topProductsCount)
	if err != nil {
		return nil, fmt.Errorf("dashboard top products: %w", err)
	}
	for i := range top {
		top[i].Revenue = top[i].Revenue.Round(2)
		top[i].Profit = top[i].Profit.Round(2)
	}

	return &dto.DashboardResponse{
		CurrentMonth:    stats,
		ProfitMarginPct: pct(stats.TotalProfit, stats.TotalRevenue),
		Status:          profitStatus(stats.TotalProfit),
		Inventory:       inv,
		TopProducts:     top,
	}, nil
}

func profitStatus(profit decimal.Decimal) string {
	switch profit.Sign() {
	case 1:
		return "profit"
	case -1:
		return "loss"
	default:
		return "break-even"
	}
}

func (s *reportService) Trends(ctx context.Context, months int) (*dto.TrendsResponse, error) {
	series, err := s.MultiMonthStats(ctx, months)
	if err != nil {
		return nil, err
	}

	resp := &dto.TrendsResponse{
		Months:       make([]dto.TrendPoint, 0, len(series)),
		TotalRevenue: decimal.Zero,
		TotalProfit:  decimal.Zero,
	}
	var best *dto.MonthlyStats
	for i := range series {
		m := series[i]
		resp.Months = append(resp.Months, dto.TrendPoint{
			MonthlyStats:    m,
			Label:           m.Period(),
			ProfitMarginPct: pct(m.TotalProfit, m.TotalRevenue),
		})
		resp.TotalRevenue = resp.TotalRevenue.Add(m.TotalRevenue)
		resp.TotalProfit = resp.TotalProfit.Add(m.TotalProfit)
		resp.TotalTransactions += m.TotalTransactions
		resp.TotalUnits += m.TotalUnits
		if m.TotalTransactions > 0 && (best == nil || m.TotalProfit.GreaterThan(best.TotalProfit)) {
			best = &series[i]
		}
	}
	if best != nil {
		resp.BestMonth = best.Period()
		worst := &series[0]
		for i := range series[1:] {
			if series[i+1].TotalProfit.LessThan(worst.TotalProfit) {
				worst = &series[i+1]
			}
		}
		resp.WorstMonth = worst.Period()
		resp.WorstMonthIsLoss = worst.TotalProfit.IsNegative()
	}
	n := decimal.NewFromInt(int64(len(series)))
	resp.AvgMonthlyRevenue = resp.TotalRevenue.Div(n).Round(2)
	resp.AvgMonthlyProfit = resp.TotalProfit.Div(n).Round(2)
	return resp, nil
}
