package repository

import (
	"context"

	"stockdesk/internal/model"

	"gorm.io/gorm"
)

type PurchaseOrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.PurchaseOrder) error
	FindByID(ctx context.Context, id uint) (*model.PurchaseOrder, error)
	FindByIDTx(tx *gorm.DB, id uint) (*model.PurchaseOrder, error)
	// List returns orders newest first; a nil status returns every order.
	List(ctx context.Context, status *model.PurchaseOrderStatus) ([]model.PurchaseOrder, error)

	// TransitionTx moves the order from -> to only if it is still in from,
	// and reports whether the row changed.
	TransitionTx(tx *gorm.DB, id uint, from, to model.PurchaseOrderStatus) (bool, error)

	DB() *gorm.DB
}

type purchaseOrderRepo struct{ db *gorm.DB }

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) DB() *gorm.DB { return r.db }

func (r *purchaseOrderRepo) CreateTx(tx *gorm.DB, o *model.PurchaseOrder) error {
	return tx.Omit("Product").Create(o).Error
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, id uint) (*model.PurchaseOrder, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *purchaseOrderRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.PurchaseOrder, error) {
	var o model.PurchaseOrder
	err := tx.Preload("Product").First(&o, "order_id = ?", id).Error
	return &o, err
}

func (r *purchaseOrderRepo) List(ctx context.Context, status *model.PurchaseOrderStatus) ([]model.PurchaseOrder, error) {
	orders := []model.PurchaseOrder{}
	q := r.db.WithContext(ctx).Model(&model.PurchaseOrder{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Preload("Product").
		Order("order_date DESC").Order("order_id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) TransitionTx(tx *gorm.DB, id uint, from, to model.PurchaseOrderStatus) (bool, error) {
	res := tx.Model(&model.PurchaseOrder{}).
		Where("order_id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
