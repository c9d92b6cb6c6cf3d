package repository

import (
	"time"

	"github.com/laith-prog/rms/entity"

	"gorm.io/gorm"
)

type ReservationRepository struct {
	DB *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

func (r *ReservationRepository) Create(tx *gorm.DB, res *entity.Reservation) error {
	return tx.Create(res).Error
}

func (r *ReservationRepository) FindByID(id uint) (*entity.Reservation, error) {
	var res entity.Reservation
	if err := r.DB.First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) FindWithTable(id uint) (*entity.Reservation, error) {
	var res entity.Reservation
	if err := r.DB.Preload("Table").First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// Blocking loads every pending/confirmed reservation touching the given
// tables on one date. This is the single query the overlap check runs
// on; idx_table_date (table_id, reservation_date) backs it.
func (r *ReservationRepository) Blocking(db *gorm.DB, tableIDs []uint, date string) ([]entity.Reservation, error) {
	if db == nil {
		db = r.DB
	}
	if len(tableIDs) == 0 {
		return nil, nil
	}
	var out []entity.Reservation
	err := db.Where("table_id IN ? AND reservation_date = ? AND status IN ?",
		tableIDs, date, []string{entity.ReservationPending, entity.ReservationConfirmed}).
		Find(&out).Error
	return out, err
}

func (r *ReservationRepository) ListForCustomer(customerID uint) ([]entity.Reservation, error) {
	var out []entity.Reservation
	err := r.DB.Preload("Table").Preload("Restaurant").
		Where("customer_id = ?", customerID).
		Order("reservation_date DESC, start_time DESC").
		Find(&out).Error
	return out, err
}

func (r *ReservationRepository) ListForRestaurant(restaurantID uint, date, status string) ([]entity.Reservation, error) {
	db := r.DB.Preload("Table").Preload("Customer").Where("restaurant_id = ?", restaurantID)
	if date != "" {
		db = db.Where("reservation_date = ?", date)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}
	var out []entity.Reservation
	err := db.Order("reservation_date, start_time").Find(&out).Error
	return out, err
}

// UpdateStatusFromTo flips status only when the row is still in the
// expected state. Zero rows affected means a concurrent transition won.
func (r *ReservationRepository) UpdateStatusFromTo(tx *gorm.DB, id uint, from, to string) (bool, error) {
	res := tx.Model(&entity.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReassignTable moves a reservation to another table. Manager-only
// path; availability is validated by the caller first.
func (r *ReservationRepository) ReassignTable(tx *gorm.DB, id, tableID uint) error {
	return tx.Model(&entity.Reservation{}).Where("id = ?", id).
		Update("table_id", tableID).Error
}

// ---------------- Status updates (audit ledger) ----------------

func (r *ReservationRepository) AppendStatusUpdate(tx *gorm.DB, u *entity.ReservationStatusUpdate) error {
	return tx.Create(u).Error
}

func (r *ReservationRepository) StatusHistory(reservationID uint) ([]entity.ReservationStatusUpdate, error) {
	var out []entity.ReservationStatusUpdate
	err := r.DB.Where("reservation_id = ?", reservationID).
		Order("created_at").Find(&out).Error
	return out, err
}

func (r *ReservationRepository) UnnotifiedUpdates(limit int) ([]entity.ReservationStatusUpdate, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []entity.ReservationStatusUpdate
	err := r.DB.Where("is_notified = ?", false).
		Order("created_at").Limit(limit).Find(&out).Error
	return out, err
}

func (r *ReservationRepository) MarkNotified(updateID uint) error {
	return r.DB.Model(&entity.ReservationStatusUpdate{}).
		Where("id = ?", updateID).
		Updates(map[string]any{"is_notified": true, "updated_at": time.Now()}).Error
}

// ---------------- Selection records ----------------

func (r *ReservationRepository) CreateSelection(tx *gorm.DB, s *entity.TableSelection) error {
	return tx.Create(s).Error
}

func (r *ReservationRepository) FindSelection(reservationID uint) (*entity.TableSelection, error) {
	var s entity.TableSelection
	if err := r.DB.Where("reservation_id = ?", reservationID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
