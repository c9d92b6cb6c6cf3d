package repository

import (
	"github.com/laith-prog/rms/entity"

	"gorm.io/gorm"
)

// UserRepository talks to the users table only.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CountByEmail(email string) (int64, error) {
	var count int64
	if err := r.DB.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) Create(user *entity.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Update(userID uint, updates map[string]any) error {
	return r.DB.Model(&entity.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindStaff loads an active staff member of the given restaurant with
// one of the wanted roles. Used for chef/waiter assignment checks.
func (r *UserRepository) FindStaff(userID, restaurantID uint, roles ...string) (*entity.User, error) {
	var user entity.User
	err := r.DB.Where("id = ? AND restaurant_id = ? AND role IN ? AND is_active = ?",
		userID, restaurantID, roles, true).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
