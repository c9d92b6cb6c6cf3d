package controllers

import (
	"strconv"

	"github.com/laith-prog/rms/entity"
	"github.com/laith-prog/rms/pkg/resp"
	"github.com/laith-prog/rms/repository"
	"github.com/laith-prog/rms/services"
	"github.com/laith-prog/rms/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RestaurantController struct {
	DB           *gorm.DB
	Restaurants  *repository.RestaurantRepository
	Menu         *repository.MenuRepository
	Tables       *repository.TableRepository
	Reservations *services.ReservationService
}

func NewRestaurantController(db *gorm.DB, rests *repository.RestaurantRepository, menu *repository.MenuRepository, tables *repository.TableRepository, resv *services.ReservationService) *RestaurantController {
	return &RestaurantController{DB: db, Restaurants: rests, Menu: menu, Tables: tables, Reservations: resv}
}

// GET /restaurants
func (rc *RestaurantController) List(c *gin.Context) {
	rests, err := rc.Restaurants.FindAllActive()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rests)
}

// GET /restaurants/:id
func (rc *RestaurantController) Detail(c *gin.Context) {
	id := paramUint(c, "id")
	rest, err := rc.Restaurants.FindActiveByID(id)
	if err != nil {
		resp.NotFound(c, "restaurant not found")
		return
	}
	resp.OK(c, rest)
}

// GET /restaurants/:id/menu
func (rc *RestaurantController) Menus(c *gin.Context) {
	id := paramUint(c, "id")
	if _, err := rc.Restaurants.FindActiveByID(id); err != nil {
		resp.NotFound(c, "restaurant not found")
		return
	}
	items, err := rc.Menu.ListForRestaurant(id)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, items)
}

// GET /restaurants/:id/tables/available?date=&time=&duration=&partySize=
func (rc *RestaurantController) AvailableTables(c *gin.Context) {
	id := paramUint(c, "id")
	date := c.Query("date")
	startTime := c.Query("time")
	duration, _ := strconv.Atoi(c.DefaultQuery("duration", "1"))
	partySize, _ := strconv.Atoi(c.DefaultQuery("partySize", "2"))

	tables, err := rc.Reservations.ListAvailable(id, date, startTime, duration, partySize)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, tables)
}

// GET /restaurants/:id/reviews
func (rc *RestaurantController) Reviews(c *gin.Context) {
	id := paramUint(c, "id")
	var reviews []entity.Review
	if err := rc.DB.Where("restaurant_id = ?", id).Order("created_at DESC").Find(&reviews).Error; err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, reviews)
}

type createReviewReq struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// POST /restaurants/:id/reviews (customer)
func (rc *RestaurantController) CreateReview(c *gin.Context) {
	id := paramUint(c, "id")
	if _, err := rc.Restaurants.FindActiveByID(id); err != nil {
		resp.NotFound(c, "restaurant not found")
		return
	}
	var req createReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	review := entity.Review{
		Rating:       req.Rating,
		Comment:      req.Comment,
		CustomerID:   utils.CurrentUserID(c),
		RestaurantID: id,
	}
	if err := rc.DB.Create(&review).Error; err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, review)
}

func paramUint(c *gin.Context, name string) uint {
	v, _ := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(v)
}
