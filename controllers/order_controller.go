package controllers

import (
	"strconv"

	"github.com/laith-prog/rms/entity"
	"github.com/laith-prog/rms/pkg/resp"
	"github.com/laith-prog/rms/repository"
	"github.com/laith-prog/rms/services"
	"github.com/laith-prog/rms/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Service  *services.OrderService
	Notifier *services.Notifier
	Users    *repository.UserRepository
}

func NewOrderController(service *services.OrderService, notifier *services.Notifier, users *repository.UserRepository) *OrderController {
	return &OrderController{Service: service, Notifier: notifier, Users: users}
}

func (oc *OrderController) actor(c *gin.Context) (*entity.User, bool) {
	user, err := oc.Users.FindByID(utils.CurrentUserID(c))
	if err != nil {
		resp.Unauthorized(c, "unknown user")
		return nil, false
	}
	return user, true
}

// POST /orders (customer)
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Service.Create(utils.CurrentUserID(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.Created(c, order)
}

// GET /orders (customer)
func (oc *OrderController) ListMine(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	out, err := oc.Service.ListForCustomer(utils.CurrentUserID(c), limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	actor, ok := oc.actor(c)
	if !ok {
		return
	}
	detail, err := oc.Service.Detail(paramUint(c, "id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if actor.Role == entity.RoleCustomer && detail.Order.CustomerID != actor.ID {
		resp.Forbidden(c, "not your order")
		return
	}
	if actor.IsStaff() && !actor.WorksAt(detail.Order.RestaurantID) {
		resp.Forbidden(c, "order belongs to another restaurant")
		return
	}
	resp.OK(c, detail)
}

// POST /orders/:id/items (customer, order still pending)
func (oc *OrderController) AddItem(c *gin.Context) {
	var req services.OrderItemIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Service.AddItem(utils.CurrentUserID(c), paramUint(c, "id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, order)
}

type orderNoteReq struct {
	Notes string `json:"notes"`
}

// POST /orders/:id/cancel (customer or manager)
func (oc *OrderController) Cancel(c *gin.Context) {
	actor, ok := oc.actor(c)
	if !ok {
		return
	}
	var req orderNoteReq
	_ = c.ShouldBindJSON(&req)

	order, err := oc.Service.CancelByCustomer(actor, paramUint(c, "id"), req.Notes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, order)
}

// ---------------- Staff ----------------

// GET /staff/orders?status=&limit=
func (oc *OrderController) ListForRestaurant(c *gin.Context) {
	actor, ok := oc.actor(c)
	if !ok {
		return
	}
	if actor.RestaurantID == nil {
		resp.Forbidden(c, "no restaurant affiliation")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	out, err := oc.Service.ListForRestaurant(*actor.RestaurantID, c.Query("status"), limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

func (oc *OrderController) transition(c *gin.Context, to string) {
	actor, ok := oc.actor(c)
	if !ok {
		return
	}
	var req orderNoteReq
	_ = c.ShouldBindJSON(&req)

	order, update, err := oc.Service.Transition(actor, paramUint(c, "id"), to, req.Notes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"order": order, "statusUpdate": update})
}

// PATCH /staff/orders/:id/approve (manager)
func (oc *OrderController) Approve(c *gin.Context) { oc.transition(c, entity.OrderApproved) }

// PATCH /staff/orders/:id/reject (manager)
func (oc *OrderController) Reject(c *gin.Context) { oc.transition(c, entity.OrderRejected) }

// PATCH /staff/orders/:id/prepare (chef/manager)
func (oc *OrderController) StartPreparing(c *gin.Context) { oc.transition(c, entity.OrderPreparing) }

// PATCH /staff/orders/:id/ready (assigned chef/manager)
func (oc *OrderController) MarkReady(c *gin.Context) { oc.transition(c, entity.OrderReady) }

// PATCH /staff/orders/:id/complete (assigned waiter/chef/manager)
func (oc *OrderController) Complete(c *gin.Context) { oc.transition(c, entity.OrderCompleted) }

type assignReq struct {
	StaffID uint   `json:"staffId" binding:"required"`
	Role    string `json:"role" binding:"required,oneof=chef waiter"`
}

// PATCH /staff/orders/:id/assign (manager)
func (oc *OrderController) AssignStaff(c *gin.Context) {
	actor, ok := oc.actor(c)
	if !ok {
		return
	}
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Service.AssignStaff(actor, paramUint(c, "id"), req.StaffID, req.Role)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, order)
}

// POST /staff/notifications/retry (manager): re-dispatch unnotified
// status updates
func (oc *OrderController) RetryNotifications(c *gin.Context) {
	count, err := oc.Notifier.RetryUnnotified()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"requeued": count})
}
