package services

import (
	"math"
	"time"

	"github.com/laith-prog/rms/entity"
	"github.com/laith-prog/rms/repository"

	"gorm.io/gorm"
)

type OrderService struct {
	DB          *gorm.DB
	Repo        *repository.OrderRepository
	Menu        *repository.MenuRepository
	Restaurants *repository.RestaurantRepository
	Users       *repository.UserRepository
	Resv        *repository.ReservationRepository
	Notifier    *Notifier

	// TaxRate is applied to the subtotal (0.10 = 10%). DeliveryFee is a
	// flat amount in cents, charged on delivery orders only.
	TaxRate     float64
	DeliveryFee int64

	Now func() time.Time
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	menu *repository.MenuRepository,
	restaurants *repository.RestaurantRepository,
	users *repository.UserRepository,
	resv *repository.ReservationRepository,
	notifier *Notifier,
	taxRate float64,
	deliveryFee int64,
) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, Menu: menu, Restaurants: restaurants,
		Users: users, Resv: resv, Notifier: notifier,
		TaxRate: taxRate, DeliveryFee: deliveryFee,
		Now: time.Now,
	}
}

type OrderItemIn struct {
	MenuItemID          uint   `json:"menuItemId" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,min=1"`
	SpecialInstructions string `json:"specialInstructions"`
}

type CreateOrderReq struct {
	RestaurantID        uint          `json:"restaurantId" binding:"required"`
	OrderType           string        `json:"orderType" binding:"required"`
	Items               []OrderItemIn `json:"items" binding:"required,min=1"`
	SpecialInstructions string        `json:"specialInstructions"`
	DeliveryAddress     string        `json:"deliveryAddress"`
	ReservationID       *uint         `json:"reservationId"`
}

// Create builds an order with per-item price snapshots so later menu
// price changes never touch existing orders, and derives the money
// fields: total = subtotal + tax + delivery fee, never set directly.
func (s *OrderService) Create(customerID uint, req *CreateOrderReq) (*entity.Order, error) {
	if !entity.ValidOrderType(req.OrderType) {
		return nil, &ValidationError{Field: "orderType", Reason: "must be dine_in, pickup or delivery"}
	}
	rest, err := s.Restaurants.FindActiveByID(req.RestaurantID)
	if err != nil {
		return nil, &ValidationError{Field: "restaurantId", Reason: "restaurant not found"}
	}
	switch req.OrderType {
	case entity.OrderDelivery:
		if !rest.OffersDelivery {
			return nil, &ValidationError{Field: "orderType", Reason: "restaurant does not offer delivery"}
		}
		if req.DeliveryAddress == "" {
			return nil, &ValidationError{Field: "deliveryAddress", Reason: "required for delivery orders"}
		}
	case entity.OrderDineIn:
		if !rest.OffersDineIn {
			return nil, &ValidationError{Field: "orderType", Reason: "restaurant does not offer dine-in"}
		}
	}

	if req.ReservationID != nil {
		res, err := s.Resv.FindByID(*req.ReservationID)
		if err != nil {
			return nil, &ValidationError{Field: "reservationId", Reason: "reservation not found"}
		}
		if res.CustomerID != customerID || res.RestaurantID != req.RestaurantID {
			return nil, &ValidationError{Field: "reservationId", Reason: "reservation does not belong to you at this restaurant"}
		}
		if entity.ReservationTerminal(res.Status) {
			return nil, &ValidationError{Field: "reservationId", Reason: "reservation is " + res.Status}
		}
	}

	menuIDs := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
		}
		menuIDs = append(menuIDs, it.MenuItemID)
	}
	ok, err := s.Menu.AllBelongTo(menuIDs, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ValidationError{Field: "items", Reason: "menu item not in this restaurant"}
	}

	type row struct {
		menuItemID uint
		qty        int
		unitPrice  int64
		note       string
	}
	var subtotal int64
	rows := make([]row, 0, len(req.Items))
	for _, it := range req.Items {
		m, err := s.Menu.GetBasics(it.MenuItemID)
		if err != nil {
			return nil, &ValidationError{Field: "items", Reason: "menu item not found"}
		}
		subtotal += m.Price * int64(it.Quantity)
		rows = append(rows, row{m.ID, it.Quantity, m.Price, it.SpecialInstructions})
	}

	tax := s.taxOn(subtotal)
	fee := int64(0)
	if req.OrderType == entity.OrderDelivery {
		fee = s.DeliveryFee
	}

	order := &entity.Order{
		OrderType:           req.OrderType,
		Status:              entity.OrderPending,
		SpecialInstructions: req.SpecialInstructions,
		DeliveryAddress:     req.DeliveryAddress,
		Subtotal:            subtotal,
		Tax:                 tax,
		DeliveryFee:         fee,
		Total:               subtotal + tax + fee,
		CustomerID:          customerID,
		RestaurantID:        req.RestaurantID,
		ReservationID:       req.ReservationID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Create(tx, order); err != nil {
			return err
		}
		for _, r := range rows {
			oi := &entity.OrderItem{
				OrderID:             order.ID,
				MenuItemID:          r.menuItemID,
				Quantity:            r.qty,
				UnitPrice:           r.unitPrice,
				ItemTotal:           r.unitPrice * int64(r.qty),
				SpecialInstructions: r.note,
			}
			if err := s.Repo.CreateItem(tx, oi); err != nil {
				return err
			}
		}
		update := &entity.OrderStatusUpdate{
			OrderID:     order.ID,
			Status:      entity.OrderPending,
			Notes:       "Order placed",
			UpdatedByID: &customerID,
		}
		return s.Repo.AppendStatusUpdate(tx, update)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddItem appends one item to a still-pending order the customer owns
// and recomputes the derived money fields from all items.
func (s *OrderService) AddItem(customerID, orderID uint, in OrderItemIn) (*entity.Order, error) {
	if in.Quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	order, err := s.Repo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, &ValidationError{Field: "orderId", Reason: "order does not belong to you"}
	}
	if order.Status != entity.OrderPending {
		return nil, &InvalidTransitionError{
			Entity: "order", ID: order.ID, From: order.Status, To: order.Status,
			Rule: "items can only change while the order is pending", ActorID: customerID,
		}
	}
	m, err := s.Menu.GetBasics(in.MenuItemID)
	if err != nil || m.RestaurantID != order.RestaurantID {
		return nil, &ValidationError{Field: "menuItemId", Reason: "menu item not in this restaurant"}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		oi := &entity.OrderItem{
			OrderID:             order.ID,
			MenuItemID:          m.ID,
			Quantity:            in.Quantity,
			UnitPrice:           m.Price,
			ItemTotal:           m.Price * int64(in.Quantity),
			SpecialInstructions: in.SpecialInstructions,
		}
		if err := s.Repo.CreateItem(tx, oi); err != nil {
			return err
		}
		return s.recomputeTotals(tx, order)
	})
	if err != nil {
		return nil, err
	}
	return s.Repo.FindByID(order.ID)
}

// recomputeTotals rebuilds subtotal/tax/total from the order's items.
func (s *OrderService) recomputeTotals(tx *gorm.DB, order *entity.Order) error {
	var subtotal int64
	var items []entity.OrderItem
	if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return err
	}
	for _, it := range items {
		subtotal += it.ItemTotal
	}
	tax := s.taxOn(subtotal)
	return s.Repo.UpdateFields(tx, order.ID, map[string]any{
		"subtotal": subtotal,
		"tax":      tax,
		"total":    subtotal + tax + order.DeliveryFee,
	})
}

func (s *OrderService) taxOn(subtotal int64) int64 {
	return int64(math.Round(float64(subtotal) * s.TaxRate))
}

// estimatePreparationTime is the kitchen-parallelism rule: the order
// takes as long as its slowest line (per-item prep x quantity), not the
// sum of all lines.
func estimatePreparationTime(items []entity.OrderItem) int {
	est := 0
	for _, it := range items {
		prep := it.MenuItem.PreparationTime * it.Quantity
		if prep > est {
			est = prep
		}
	}
	return est
}

// ---------------- Queries ----------------

func (s *OrderService) ListForCustomer(customerID uint, limit int) ([]repository.OrderSummary, error) {
	return s.Repo.ListForCustomer(customerID, limit)
}

func (s *OrderService) ListForRestaurant(restaurantID uint, status string, limit int) ([]entity.Order, error) {
	return s.Repo.ListForRestaurant(restaurantID, status, limit)
}

type OrderDetail struct {
	Order         *entity.Order              `json:"order"`
	Items         []entity.OrderItem         `json:"items"`
	StatusHistory []entity.OrderStatusUpdate `json:"statusHistory"`
}

func (s *OrderService) Detail(orderID uint) (*OrderDetail, error) {
	o, err := s.Repo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.Items(orderID)
	if err != nil {
		return nil, err
	}
	history, err := s.Repo.StatusHistory(orderID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: o, Items: items, StatusHistory: history}, nil
}
