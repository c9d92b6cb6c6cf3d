package repository

import (
	"github.com/laith-prog/rms/entity"

	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

func (r *MenuRepository) ListForRestaurant(restaurantID uint) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Order("name").Find(&items).Error
	return items, err
}

// GetBasics loads the fields the order flow snapshots: price,
// preparation time and owning restaurant.
func (r *MenuRepository) GetBasics(id uint) (*entity.MenuItem, error) {
	var m entity.MenuItem
	err := r.DB.Select("id, name, price, preparation_time, restaurant_id, is_active").
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AllBelongTo checks that every menu item is an active item of the restaurant.
func (r *MenuRepository) AllBelongTo(menuItemIDs []uint, restaurantID uint) (bool, error) {
	if len(menuItemIDs) == 0 {
		return true, nil
	}
	var cnt int64
	err := r.DB.Model(&entity.MenuItem{}).
		Where("id IN ? AND restaurant_id = ? AND is_active = ?", menuItemIDs, restaurantID, true).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt == int64(len(menuItemIDs)), nil
}
