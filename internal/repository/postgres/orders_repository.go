package postgres

import (
	"context"
	"fmt"
	"time"

	"pokePortMarket/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

func (r *OrdersRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return translate(err, "order")
	}

	return nil
}

func (r *OrdersRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	var order domain.Order

	err := r.DB.WithContext(ctx).Preload("Card").Preload("User").First(&order, id).Error
	if err != nil {
		return domain.Order{}, translate(err, "order")
	}

	return order, nil
}

func (r *OrdersRepository) FindByIDForUpdate(ctx context.Context, id uint) (domain.Order, error) {
	var order domain.Order

	err := r.DB.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error
	if err != nil {
		return domain.Order{}, translate(err, "order")
	}

	return order, nil
}

func (r *OrdersRepository) FindAll(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, int64, error) {
	filtered := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&domain.Order{})
		if filter.UserID != 0 {
			db = db.Where("user_id = ?", filter.UserID)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		return db
	}

	var total int64
	if err := r.DB.WithContext(ctx).Scopes(filtered).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "orders")
	}

	var orders []domain.Order
	err := r.DB.WithContext(ctx).Scopes(filtered, paginate(page)).
		Preload("Card").Preload("User").
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, 0, translate(err, "orders")
	}

	return orders, total, nil
}

func (r *OrdersRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
}

func (r *OrdersRepository) Confirm(ctx context.Context, id uint, transactionHash string) error {
	return r.update(ctx, id, map[string]interface{}{
		"transaction_hash": transactionHash,
		"status":           domain.OrderStatusConfirmed,
		"updated_at":       time.Now().UTC(),
	})
}

func (r *OrdersRepository) update(ctx context.Context, id uint, updateData map[string]interface{}) error {
	result := r.DB.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(updateData)
	if result.Error != nil {
		return translate(result.Error, "order")
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order not found", domain.ErrNotFound)
	}

	return nil
}
