package repository

import (
	"github.com/laith-prog/rms/entity"

	"gorm.io/gorm"
)

type TableRepository struct {
	DB *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{DB: db}
}

func (r *TableRepository) FindByID(id uint) (*entity.Table, error) {
	var t entity.Table
	if err := r.DB.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) Create(t *entity.Table) error {
	return r.DB.Create(t).Error
}

func (r *TableRepository) ListForRestaurant(restaurantID uint) ([]entity.Table, error) {
	var tables []entity.Table
	err := r.DB.Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Order("floor, table_number").Find(&tables).Error
	return tables, err
}

// Candidates returns active tables that can seat the party, smallest
// sufficient capacity first, table number breaking ties. This ordering
// is what the deterministic selection relies on.
func (r *TableRepository) Candidates(db *gorm.DB, restaurantID uint, partySize int) ([]entity.Table, error) {
	if db == nil {
		db = r.DB
	}
	var tables []entity.Table
	err := db.Where("restaurant_id = ? AND is_active = ? AND capacity >= ?",
		restaurantID, true, partySize).
		Order("capacity ASC, table_number ASC").
		Find(&tables).Error
	return tables, err
}
