package repository

import (
	"context"
	"time"

	"stockdesk/internal/model"

	"gorm.io/gorm"
)

// SaleQuery selects sales in the half-open UTC range [From, To). Nil bounds
// and a nil ProductID do not filter.
type SaleQuery struct {
	From      *time.Time
	To        *time.Time
	ProductID *uint
}

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	// List returns matching sales newest first with Product preloaded.
	List(ctx context.Context, q SaleQuery) ([]model.Sale, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit("Product").Create(s).Error
}

func (r *saleRepo) List(ctx context.Context, q SaleQuery) ([]model.Sale, error) {
	sales := []model.Sale{}
	db := r.db.WithContext(ctx).Model(&model.Sale{})

	if q.From != nil {
		db = db.Where("sale_date >= ?", q.From.UTC())
	}
	if q.To != nil {
		db = db.Where("sale_date < ?", q.To.UTC())
	}
	if q.ProductID != nil {
		db = db.Where("product_id = ?", *q.ProductID)
	}

	err := db.Preload("Product").
		Order("sale_date DESC").Order("sale_id DESC").
		Find(&sales).Error
	return sales, err
}
