package routes

import (
	"github.com/laith-prog/rms/controllers"
	"github.com/laith-prog/rms/middlewares"
	"github.com/laith-prog/rms/ws"

	"github.com/gin-gonic/gin"
)

// Deps is everything the route table needs; main wires it up.
type Deps struct {
	JWTSecret string

	Auth         *controllers.AuthController
	Restaurants  *controllers.RestaurantController
	Reservations *controllers.ReservationController
	Orders       *controllers.OrderController
	Hub          *ws.StatusHub
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", d.Auth.Register)
		a.POST("/login", d.Auth.Login)
	}

	// Auth (protected)
	aAuth := a.Group("", middlewares.AuthMiddleware(d.JWTSecret))
	{
		aAuth.GET("/me", d.Auth.Me)
	}

	// Public browsing
	r.GET("/restaurants", d.Restaurants.List)
	r.GET("/restaurants/:id", d.Restaurants.Detail)
	r.GET("/restaurants/:id/menu", d.Restaurants.Menus)
	r.GET("/restaurants/:id/tables/available", d.Restaurants.AvailableTables)
	r.GET("/restaurants/:id/reviews", d.Restaurants.Reviews)

	// Customer (any authenticated user)
	u := r.Group("/", middlewares.AuthMiddleware(d.JWTSecret))
	{
		u.POST("/restaurants/:id/reviews", d.Restaurants.CreateReview)

		u.POST("/reservations", d.Reservations.Create)
		u.GET("/reservations", d.Reservations.ListMine)
		u.GET("/reservations/:id", d.Reservations.Detail)
		u.GET("/reservations/:id/cancellation", d.Reservations.CancellationInfo)
		u.POST("/reservations/:id/cancel", d.Reservations.Cancel)

		u.POST("/orders", d.Orders.Create)
		u.GET("/orders", d.Orders.ListMine)
		u.GET("/orders/:id", d.Orders.Detail)
		u.POST("/orders/:id/items", d.Orders.AddItem)
		u.POST("/orders/:id/cancel", d.Orders.Cancel)

		u.GET("/ws/status", d.Hub.HandleWebSocket)
	}

	// Staff (waiter/chef/manager of a restaurant)
	staff := r.Group("/staff", middlewares.AuthMiddleware(d.JWTSecret, "waiter", "chef", "manager"))
	{
		staff.GET("/reservations", d.Reservations.ListForRestaurant)
		staff.PATCH("/reservations/:id/complete", d.Reservations.Complete)

		staff.GET("/orders", d.Orders.ListForRestaurant)
		staff.PATCH("/orders/:id/prepare", d.Orders.StartPreparing)
		staff.PATCH("/orders/:id/ready", d.Orders.MarkReady)
		staff.PATCH("/orders/:id/complete", d.Orders.Complete)
	}

	// Manager only
	mgr := r.Group("/staff", middlewares.AuthMiddleware(d.JWTSecret, "manager"))
	{
		mgr.PATCH("/reservations/:id/confirm", d.Reservations.Confirm)
		mgr.PATCH("/reservations/:id/reject", d.Reservations.Reject)
		mgr.PATCH("/reservations/:id/table", d.Reservations.ReassignTable)

		mgr.PATCH("/orders/:id/approve", d.Orders.Approve)
		mgr.PATCH("/orders/:id/reject", d.Orders.Reject)
		mgr.PATCH("/orders/:id/assign", d.Orders.AssignStaff)

		mgr.POST("/notifications/retry", d.Orders.RetryNotifications)
	}
}
