package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/laith-prog/rms/entity"
	"github.com/laith-prog/rms/repository"

	"gorm.io/gorm"
)

// keyedLocks serializes booking attempts per (restaurant, date). The
// availability read and the reservation insert must act as one atomic
// unit; with sqlite there is no advisory lock to lean on, so the mutex
// plus the in-transaction recheck carry that guarantee.
type keyedLocks struct {
	m sync.Map // string -> *sync.Mutex
}

func (k *keyedLocks) lock(key string) func() {
	v, _ := k.m.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

type ReservationService struct {
	DB           *gorm.DB
	Repo         *repository.ReservationRepository
	Tables       *repository.TableRepository
	Restaurants  *repository.RestaurantRepository
	Availability *AvailabilityEngine
	Selector     TableSelector
	Policy       CancellationPolicy
	Notifier     *Notifier

	// Now is the clock; replaceable in tests.
	Now func() time.Time

	locks keyedLocks
}

func NewReservationService(
	db *gorm.DB,
	repo *repository.ReservationRepository,
	tables *repository.TableRepository,
	restaurants *repository.RestaurantRepository,
	availability *AvailabilityEngine,
	selector TableSelector,
	policy CancellationPolicy,
	notifier *Notifier,
) *ReservationService {
	return &ReservationService{
		DB:           db,
		Repo:         repo,
		Tables:       tables,
		Restaurants:  restaurants,
		Availability: availability,
		Selector:     selector,
		Policy:       policy,
		Notifier:     notifier,
		Now:          time.Now,
	}
}

type CreateReservationReq struct {
	RestaurantID    uint               `json:"restaurantId" binding:"required"`
	Date            string             `json:"date" binding:"required"`
	StartTime       string             `json:"startTime" binding:"required"`
	DurationHours   int                `json:"durationHours" binding:"required,min=1"`
	PartySize       int                `json:"partySize" binding:"required,min=1"`
	SpecialRequests string             `json:"specialRequests"`
	SpecialOccasion string             `json:"specialOccasion"`
	Preferences     BookingPreferences `json:"preferences"`
}

type ReservationResult struct {
	Reservation *entity.Reservation    `json:"reservation"`
	Selection   *entity.TableSelection `json:"selection"`
}

// CreateReservation runs the full booking flow: availability,
// selection, pending reservation plus initial audit row and selection
// record, all in one transaction. A commit-time conflict retries the
// availability computation once against current state before giving up
// with NoAvailabilityError.
func (s *ReservationService) CreateReservation(ctx context.Context, customerID uint, req *CreateReservationReq) (*ReservationResult, error) {
	if err := s.validateBooking(req); err != nil {
		return nil, err
	}
	if _, err := s.Restaurants.FindActiveByID(req.RestaurantID); err != nil {
		return nil, &ValidationError{Field: "restaurantId", Reason: "restaurant not found"}
	}

	unlock := s.locks.lock(bookingKey(req.RestaurantID, req.Date))
	defer unlock()

	result, err := s.attemptBooking(ctx, customerID, req)
	var conflict *ConcurrencyConflictError
	if errors.As(err, &conflict) {
		// a racing booking won; recompute once against current state
		result, err = s.attemptBooking(ctx, customerID, req)
		if errors.As(err, &conflict) {
			err = s.noAvailability(req)
		}
	}
	if err != nil {
		return nil, err
	}

	s.Notifier.Enqueue(StatusEvent{
		Kind:       "reservation",
		EntityID:   result.Reservation.ID,
		UpdateID:   result.initialUpdateID,
		CustomerID: customerID,
		Status:     entity.ReservationPending,
	})
	return &result.ReservationResult, nil
}

type bookingOutcome struct {
	ReservationResult
	initialUpdateID uint
}

func (s *ReservationService) attemptBooking(ctx context.Context, customerID uint, req *CreateReservationReq) (*bookingOutcome, error) {
	var out bookingOutcome
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		candidates, err := s.Availability.FindAvailableTables(tx, req.RestaurantID, req.Date, req.StartTime, req.DurationHours, req.PartySize)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return s.noAvailability(req)
		}

		selection := s.Selector.SelectTable(ctx, SelectionRequest{
			Candidates:      candidates,
			PartySize:       req.PartySize,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationHours:   req.DurationHours,
			Preferences:     req.Preferences,
			SpecialOccasion: req.SpecialOccasion,
		})

		res := &entity.Reservation{
			PartySize:       req.PartySize,
			ReservationDate: req.Date,
			StartTime:       req.StartTime,
			DurationHours:   req.DurationHours,
			Status:          entity.ReservationPending,
			SpecialRequests: req.SpecialRequests,
			CustomerID:      customerID,
			RestaurantID:    req.RestaurantID,
			TableID:         selection.Table.ID,
		}
		if err := s.Repo.Create(tx, res); err != nil {
			return err
		}

		update := &entity.ReservationStatusUpdate{
			ReservationID: res.ID,
			Status:        entity.ReservationPending,
			Notes:         "Reservation requested",
			UpdatedByID:   &customerID,
		}
		if err := s.Repo.AppendStatusUpdate(tx, update); err != nil {
			return err
		}

		candidateJSON, _ := json.Marshal(candidates)
		record := &entity.TableSelection{
			ReservationID:      res.ID,
			Method:             selection.Method,
			SelectedTableID:    selection.Table.ID,
			CandidateCount:     len(candidates),
			CandidatesJSON:     string(candidateJSON),
			Reasoning:          selection.Reasoning,
			Confidence:         selection.Confidence,
			AlternativeTableID: selection.AlternativeTableID,
			LatencyMs:          selection.LatencyMs,
			AdvisoryError:      selection.AdvisoryError,
		}
		if err := s.Repo.CreateSelection(tx, record); err != nil {
			return err
		}

		// commit-time conflict detection: another transaction may have
		// booked the same slot between our read and this insert
		start, end, err := res.Window()
		if err != nil {
			return err
		}
		free, err := s.Availability.tableFreeFor(tx, res.TableID, res.ID, req.Date, start, end)
		if err != nil {
			return err
		}
		if !free {
			return &ConcurrencyConflictError{TableID: res.TableID, Date: req.Date}
		}

		out.Reservation = res
		out.Selection = record
		out.initialUpdateID = update.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ReservationService) validateBooking(req *CreateReservationReq) error {
	if req.PartySize < 1 {
		return &ValidationError{Field: "partySize", Reason: "must be at least 1"}
	}
	if req.DurationHours < 1 {
		return &ValidationError{Field: "durationHours", Reason: "must be at least 1 hour"}
	}
	start, err := time.ParseInLocation(entity.DateLayout+" "+entity.TimeLayout, req.Date+" "+req.StartTime, time.Local)
	if err != nil {
		return &ValidationError{Field: "date", Reason: "use YYYY-MM-DD and HH:MM"}
	}
	if !start.After(s.Now()) {
		return &ValidationError{Field: "date", Reason: "reservation must be in the future"}
	}
	return nil
}

func (s *ReservationService) noAvailability(req *CreateReservationReq) error {
	return &NoAvailabilityError{
		RestaurantID:  req.RestaurantID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
		PartySize:     req.PartySize,
	}
}

func bookingKey(restaurantID uint, date string) string {
	return date + "#" + itoa(restaurantID)
}

func itoa(v uint) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// ---------------- Queries ----------------

// ListAvailable is the read-only availability query behind
// GET /restaurants/:id/tables/available.
func (s *ReservationService) ListAvailable(restaurantID uint, date, startTime string, durationHours, partySize int) ([]entity.Table, error) {
	if _, err := s.Restaurants.FindActiveByID(restaurantID); err != nil {
		return nil, &ValidationError{Field: "restaurantId", Reason: "restaurant not found"}
	}
	return s.Availability.FindAvailableTables(nil, restaurantID, date, startTime, durationHours, partySize)
}

func (s *ReservationService) ListForCustomer(customerID uint) ([]entity.Reservation, error) {
	return s.Repo.ListForCustomer(customerID)
}

func (s *ReservationService) ListForRestaurant(restaurantID uint, date, status string) ([]entity.Reservation, error) {
	return s.Repo.ListForRestaurant(restaurantID, date, status)
}

type ReservationDetail struct {
	Reservation   *entity.Reservation              `json:"reservation"`
	StatusHistory []entity.ReservationStatusUpdate `json:"statusHistory"`
	Selection     *entity.TableSelection           `json:"selection,omitempty"`
}

func (s *ReservationService) Detail(reservationID uint) (*ReservationDetail, error) {
	res, err := s.Repo.FindWithTable(reservationID)
	if err != nil {
		return nil, err
	}
	history, err := s.Repo.StatusHistory(reservationID)
	if err != nil {
		return nil, err
	}
	detail := &ReservationDetail{Reservation: res, StatusHistory: history}
	if sel, err := s.Repo.FindSelection(reservationID); err == nil {
		detail.Selection = sel
	}
	return detail, nil
}

// CancellationInfo answers "can I still cancel?" without mutating state.
func (s *ReservationService) CancellationInfo(reservationID uint) (*CancellationInfo, error) {
	res, err := s.Repo.FindByID(reservationID)
	if err != nil {
		return nil, err
	}
	info := CanCancel(res, s.Policy, s.Now())
	return &info, nil
}

// ReassignTable moves a confirmed or pending reservation to another
// table of the same restaurant. Manager-only, explicit, and validated
// through the same availability check as a fresh booking.
func (s *ReservationService) ReassignTable(actor *entity.User, reservationID, tableID uint) (*entity.Reservation, error) {
	res, err := s.Repo.FindByID(reservationID)
	if err != nil {
		return nil, err
	}
	if actor.Role != entity.RoleManager || !actor.WorksAt(res.RestaurantID) {
		return nil, &InvalidTransitionError{
			Entity: "reservation", ID: res.ID, From: res.Status, To: res.Status,
			Rule: "only a manager of the restaurant may reassign a table", ActorID: actor.ID,
		}
	}
	if entity.ReservationTerminal(res.Status) {
		return nil, &InvalidTransitionError{
			Entity: "reservation", ID: res.ID, From: res.Status, To: res.Status,
			Rule: "cannot reassign a table on a " + res.Status + " reservation", ActorID: actor.ID,
		}
	}
	table, err := s.Tables.FindByID(tableID)
	if err != nil || table.RestaurantID != res.RestaurantID || !table.IsActive {
		return nil, &ValidationError{Field: "tableId", Reason: "table not found in this restaurant"}
	}
	if res.PartySize > table.Capacity {
		return nil, &ValidationError{Field: "tableId", Reason: "table capacity is not sufficient for the party size"}
	}

	unlock := s.locks.lock(bookingKey(res.RestaurantID, res.ReservationDate))
	defer unlock()

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		start, end, err := res.Window()
		if err != nil {
			return err
		}
		free, err := s.Availability.tableFreeFor(tx, tableID, res.ID, res.ReservationDate, start, end)
		if err != nil {
			return err
		}
		if !free {
			return &ConcurrencyConflictError{TableID: tableID, Date: res.ReservationDate}
		}
		return s.Repo.ReassignTable(tx, res.ID, tableID)
	})
	if err != nil {
		var conflict *ConcurrencyConflictError
		if errors.As(err, &conflict) {
			return nil, &NoAvailabilityError{
				RestaurantID: res.RestaurantID, Date: res.ReservationDate,
				StartTime: res.StartTime, DurationHours: res.DurationHours, PartySize: res.PartySize,
			}
		}
		return nil, err
	}
	return s.Repo.FindByID(res.ID)
}
