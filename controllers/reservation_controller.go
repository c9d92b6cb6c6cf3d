package controllers

import (
	"github.com/laith-prog/rms/entity"
	"github.com/laith-prog/rms/pkg/resp"
	"github.com/laith-prog/rms/repository"
	"github.com/laith-prog/rms/services"
	"github.com/laith-prog/rms/utils"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Service *services.ReservationService
	Users   *repository.UserRepository
}

func NewReservationController(service *services.ReservationService, users *repository.UserRepository) *ReservationController {
	return &ReservationController{Service: service, Users: users}
}

func (rc *ReservationController) actor(c *gin.Context) (*entity.User, bool) {
	user, err := rc.Users.FindByID(utils.CurrentUserID(c))
	if err != nil {
		resp.Unauthorized(c, "unknown user")
		return nil, false
	}
	return user, true
}

// POST /reservations (customer)
func (rc *ReservationController) Create(c *gin.Context) {
	var req services.CreateReservationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	result, err := rc.Service.CreateReservation(c.Request.Context(), utils.CurrentUserID(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.Created(c, result)
}

// GET /reservations (customer)
func (rc *ReservationController) ListMine(c *gin.Context) {
	out, err := rc.Service.ListForCustomer(utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /reservations/:id
func (rc *ReservationController) Detail(c *gin.Context) {
	actor, ok := rc.actor(c)
	if !ok {
		return
	}
	detail, err := rc.Service.Detail(paramUint(c, "id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	res := detail.Reservation
	if actor.Role == entity.RoleCustomer && res.CustomerID != actor.ID {
		resp.Forbidden(c, "not your reservation")
		return
	}
	if actor.IsStaff() && !actor.WorksAt(res.RestaurantID) {
		resp.Forbidden(c, "reservation belongs to another restaurant")
		return
	}
	resp.OK(c, detail)
}

// GET /reservations/:id/cancellation (customer): informational, no state change
func (rc *ReservationController) CancellationInfo(c *gin.Context) {
	info, err := rc.Service.CancellationInfo(paramUint(c, "id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, info)
}

type transitionReq struct {
	Notes string `json:"notes"`
}

// POST /reservations/:id/cancel (customer or manager)
func (rc *ReservationController) Cancel(c *gin.Context) {
	actor, ok := rc.actor(c)
	if !ok {
		return
	}
	var req transitionReq
	_ = c.ShouldBindJSON(&req)

	res, err := rc.Service.Cancel(actor, paramUint(c, "id"), req.Notes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, res)
}

// ---------------- Staff ----------------

// GET /staff/reservations?date=&status= (staff of the restaurant)
func (rc *ReservationController) ListForRestaurant(c *gin.Context) {
	actor, ok := rc.actor(c)
	if !ok {
		return
	}
	if actor.RestaurantID == nil {
		resp.Forbidden(c, "no restaurant affiliation")
		return
	}
	out, err := rc.Service.ListForRestaurant(*actor.RestaurantID, c.Query("date"), c.Query("status"))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

func (rc *ReservationController) transition(c *gin.Context, to string) {
	actor, ok := rc.actor(c)
	if !ok {
		return
	}
	var req transitionReq
	_ = c.ShouldBindJSON(&req)

	res, update, err := rc.Service.Transition(actor, paramUint(c, "id"), to, req.Notes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"reservation": res, "statusUpdate": update})
}

// PATCH /staff/reservations/:id/confirm (manager)
func (rc *ReservationController) Confirm(c *gin.Context) {
	rc.transition(c, entity.ReservationConfirmed)
}

// PATCH /staff/reservations/:id/reject (manager)
func (rc *ReservationController) Reject(c *gin.Context) {
	rc.transition(c, entity.ReservationRejected)
}

// PATCH /staff/reservations/:id/complete (staff)
func (rc *ReservationController) Complete(c *gin.Context) {
	rc.transition(c, entity.ReservationCompleted)
}

type reassignReq struct {
	TableID uint `json:"tableId" binding:"required"`
}

// PATCH /staff/reservations/:id/table (manager)
func (rc *ReservationController) ReassignTable(c *gin.Context) {
	actor, ok := rc.actor(c)
	if !ok {
		return
	}
	var req reassignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	res, err := rc.Service.ReassignTable(actor, paramUint(c, "id"), req.TableID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, res)
}
