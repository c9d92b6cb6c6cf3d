package repository

import (
	"time"

	"github.com/laith-prog/rms/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) Create(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) FindByID(id uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

type OrderSummary struct {
	ID           uint      `json:"id"`
	RestaurantID uint      `json:"restaurantId"`
	OrderType    string    `json:"orderType"`
	Status       string    `json:"status"`
	Total        int64     `json:"total"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r *OrderRepository) ListForCustomer(customerID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Model(&entity.Order{}).
		Select("id, restaurant_id, order_type, status, total, created_at").
		Where("customer_id = ?", customerID).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *OrderRepository) ListForRestaurant(restaurantID uint, status string, limit int) ([]entity.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	db := r.DB.Where("restaurant_id = ?", restaurantID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	var out []entity.Order
	err := db.Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// UpdateStatusFromTo is the compare-and-swap transition guard: the
// update applies only while the order still has the expected status.
func (r *OrderRepository) UpdateStatusFromTo(tx *gorm.DB, id uint, from, to string) (bool, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderRepository) UpdateFields(tx *gorm.DB, id uint, updates map[string]any) error {
	return tx.Model(&entity.Order{}).Where("id = ?", id).Updates(updates).Error
}

// ---------------- Items ----------------

func (r *OrderRepository) CreateItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) Items(orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.DB.Preload("MenuItem").Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

// ---------------- Status updates (audit ledger) ----------------

func (r *OrderRepository) AppendStatusUpdate(tx *gorm.DB, u *entity.OrderStatusUpdate) error {
	return tx.Create(u).Error
}

func (r *OrderRepository) StatusHistory(orderID uint) ([]entity.OrderStatusUpdate, error) {
	var out []entity.OrderStatusUpdate
	err := r.DB.Where("order_id = ?", orderID).Order("created_at").Find(&out).Error
	return out, err
}

func (r *OrderRepository) UnnotifiedUpdates(limit int) ([]entity.OrderStatusUpdate, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []entity.OrderStatusUpdate
	err := r.DB.Where("is_notified = ?", false).
		Order("created_at").Limit(limit).Find(&out).Error
	return out, err
}

func (r *OrderRepository) MarkNotified(updateID uint) error {
	return r.DB.Model(&entity.OrderStatusUpdate{}).
		Where("id = ?", updateID).
		Updates(map[string]any{"is_notified": true, "updated_at": time.Now()}).Error
}
