package main

import (
	"fmt"
	"log"

	"github.com/laith-prog/rms/configs"
	"github.com/laith-prog/rms/controllers"
	"github.com/laith-prog/rms/repository"
	"github.com/laith-prog/rms/routes"
	"github.com/laith-prog/rms/services"
	"github.com/laith-prog/rms/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	configs.SetupDatabase()
	if err := configs.SeedDemo(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	db := configs.DB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	tableRepo := repository.NewTableRepository(db)
	resvRepo := repository.NewReservationRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Status streaming + notification pipeline
	hub := ws.NewStatusHub()
	go hub.Run()

	notifier := services.NewNotifier(resvRepo, orderRepo, hub)
	notifier.Start()
	defer notifier.Stop()

	// Table selection: deterministic unless an advisory backend is
	// configured. Advisory failures fall back per request, so enabling
	// it never blocks bookings.
	var selector services.TableSelector = services.DeterministicSelector{}
	if cfg.AdvisoryEnabled && cfg.AdvisoryAPIKey != "" {
		client := services.NewChatAdvisoryClient(cfg.AdvisoryBaseURL, cfg.AdvisoryAPIKey, cfg.AdvisoryModel)
		selector = services.NewAdvisorySelector(client, cfg.AdvisoryTimeout, cfg.AdvisoryMinConfidence)
	}

	policy := services.CancellationPolicy{
		MinimumAdvanceHours: cfg.MinAdvanceHours,
		AllowSameDay:        cfg.AllowSameDay,
		EmergencyContact:    cfg.EmergencyContact,
	}

	// Services
	availability := services.NewAvailabilityEngine(tableRepo, resvRepo)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	resvSvc := services.NewReservationService(db, resvRepo, tableRepo, restRepo, availability, selector, policy, notifier)
	orderSvc := services.NewOrderService(db, orderRepo, menuRepo, restRepo, userRepo, resvRepo, notifier, cfg.TaxRate, cfg.DeliveryFee)

	// HTTP
	r := gin.Default()
	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret:    cfg.JWTSecret,
		Auth:         controllers.NewAuthController(authSvc),
		Restaurants:  controllers.NewRestaurantController(db, restRepo, menuRepo, tableRepo, resvSvc),
		Reservations: controllers.NewReservationController(resvSvc, userRepo),
		Orders:       controllers.NewOrderController(orderSvc, notifier, userRepo),
		Hub:          hub,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("server running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
