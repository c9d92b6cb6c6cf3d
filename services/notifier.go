package services

import (
	"log"

	"github.com/laith-prog/rms/repository"
)

// StatusEvent is one committed status transition handed to the delivery
// subsystem after the transaction commits.
type StatusEvent struct {
	Kind       string `json:"kind"` // "reservation" | "order"
	EntityID   uint   `json:"entityId"`
	UpdateID   uint   `json:"updateId"`
	CustomerID uint   `json:"customerId"`
	Status     string `json:"status"`
	Notes      string `json:"notes,omitempty"`
}

// Dispatcher delivers one event to the customer. An error leaves the
// audit row's notified flag false so the event can be retried.
type Dispatcher interface {
	Dispatch(ev StatusEvent) error
}

// Notifier decouples delivery from the state machines: transitions
// enqueue fire-and-forget, a single worker drains the queue outside any
// entity lock, and undelivered events stay discoverable through the
// is_notified flag.
type Notifier struct {
	reservations *repository.ReservationRepository
	orders       *repository.OrderRepository
	dispatcher   Dispatcher
	queue        chan StatusEvent
	done         chan struct{}
}

func NewNotifier(reservations *repository.ReservationRepository, orders *repository.OrderRepository, dispatcher Dispatcher) *Notifier {
	return &Notifier{
		reservations: reservations,
		orders:       orders,
		dispatcher:   dispatcher,
		queue:        make(chan StatusEvent, 256),
		done:         make(chan struct{}),
	}
}

func (n *Notifier) Start() {
	go func() {
		for {
			select {
			case ev := <-n.queue:
				n.deliver(ev)
			case <-n.done:
				return
			}
		}
	}()
}

func (n *Notifier) Stop() { close(n.done) }

// Enqueue never blocks the caller. A full queue just leaves the event
// for the retry path.
func (n *Notifier) Enqueue(ev StatusEvent) {
	select {
	case n.queue <- ev:
	default:
		log.Printf("notifier: queue full, %s %d update %d left for retry", ev.Kind, ev.EntityID, ev.UpdateID)
	}
}

func (n *Notifier) deliver(ev StatusEvent) {
	if n.dispatcher == nil {
		return
	}
	if err := n.dispatcher.Dispatch(ev); err != nil {
		log.Printf("notifier: dispatch %s %d failed: %v", ev.Kind, ev.EntityID, err)
		return
	}
	var err error
	switch ev.Kind {
	case "reservation":
		err = n.reservations.MarkNotified(ev.UpdateID)
	case "order":
		err = n.orders.MarkNotified(ev.UpdateID)
	}
	if err != nil {
		log.Printf("notifier: mark notified %d failed: %v", ev.UpdateID, err)
	}
}

// RetryUnnotified re-enqueues every audit row whose notification never
// went out. Exposed to staff as a manual retry.
func (n *Notifier) RetryUnnotified() (int, error) {
	count := 0

	resUpdates, err := n.reservations.UnnotifiedUpdates(100)
	if err != nil {
		return count, err
	}
	for _, u := range resUpdates {
		res, err := n.reservations.FindByID(u.ReservationID)
		if err != nil {
			continue
		}
		n.Enqueue(StatusEvent{
			Kind: "reservation", EntityID: u.ReservationID, UpdateID: u.ID,
			CustomerID: res.CustomerID, Status: u.Status, Notes: u.Notes,
		})
		count++
	}

	orderUpdates, err := n.orders.UnnotifiedUpdates(100)
	if err != nil {
		return count, err
	}
	for _, u := range orderUpdates {
		o, err := n.orders.FindByID(u.OrderID)
		if err != nil {
			continue
		}
		n.Enqueue(StatusEvent{
			Kind: "order", EntityID: u.OrderID, UpdateID: u.ID,
			CustomerID: o.CustomerID, Status: u.Status, Notes: u.Notes,
		})
		count++
	}
	return count, nil
}

// LogDispatcher is the default delivery channel when no live hub is
// wired (tests, CLI runs).
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(ev StatusEvent) error {
	log.Printf("notify customer %d: %s %d is now %s", ev.CustomerID, ev.Kind, ev.EntityID, ev.Status)
	return nil
}
