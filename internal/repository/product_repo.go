package repository

import (
	"context"
	"strings"

	"stockdesk/internal/dto"
	"stockdesk/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface; the ...Tx methods run on the caller's
// transaction handle.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error)
	ListBelowReorder(ctx context.Context) ([]model.Product, error)

	// Used inside transactions; callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByIDTx(tx *gorm.DB, id uint) (*model.Product, error)
	SaveTx(tx *gorm.DB, p *model.Product) error
	DeleteTx(tx *gorm.DB, id uint) error
	HasHistoryTx(tx *gorm.DB, id uint) (bool, error)

	// DecrementStockTx subtracts qty only while current_stock >= qty and
	// reports whether the row was updated.
	DecrementStockTx(tx *gorm.DB, id uint, qty int) (bool, error)
	IncrementStockTx(tx *gorm.DB, id uint, qty int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.CreateTx(r.db.WithContext(ctx), p)
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	products := []model.Product{}
	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Name != "" {
		// LOWER/LIKE instead of ILIKE: the same query runs on SQLite
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.LowStock {
		q = q.Where("current_stock <= reorder_level")
	}

	err := q.Order("name ASC").Order("product_id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) ListBelowReorder(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).
		Where("current_stock <= reorder_level").
		Order("current_stock ASC").Order("product_id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Product, error) {
	var p model.Product
	err := tx.First(&p, "product_id = ?", id).Error
	return &p, err
}

func (r *productRepo) SaveTx(tx *gorm.DB, p *model.Product) error {
	return tx.Save(p).Error
}

func (r *productRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Product{}, "product_id = ?", id).Error
}

func (r *productRepo) HasHistoryTx(tx *gorm.DB, id uint) (bool, error) {
	var sales, orders int64
	if err := tx.Model(&model.Sale{}).Where("product_id = ?", id).Limit(1).Count(&sales).Error; err != nil {
		return false, err
	}
	if sales > 0 {
		return true, nil
	}
	if err := tx.Model(&model.PurchaseOrder{}).Where("product_id = ?", id).Limit(1).Count(&orders).Error; err != nil {
		return false, err
	}
	return orders > 0, nil
}

func (r *productRepo) DecrementStockTx(tx *gorm.DB, id uint, qty int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("product_id = ? AND current_stock >= ?", id, qty).
		Update("current_stock", gorm.Expr("current_stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) IncrementStockTx(tx *gorm.DB, id uint, qty int) error {
	return tx.Model(&model.Product{}).Where("product_id = ?", id).
		Update("current_stock", gorm.Expr("current_stock + ?", qty)).Error
}
