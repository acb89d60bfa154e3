package controllers

import (
	"context"
	"net/http"
	"strconv"

	"food-order/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type MenuService interface {
	ListDishes(ctx context.Context) ([]models.Dish, error)
	GetDish(ctx context.Context, id int) (*models.Dish, error)
	ListOffers(ctx context.Context) ([]models.Offer, error)
}

type MenuController struct {
	menu MenuService
	log  zerolog.Logger
}

func NewMenuController(menu MenuService, logger zerolog.Logger) *MenuController {
	return &MenuController{menu: menu, log: logger.With().Str("controller", "menu").Logger()}
}

// GetDishes godoc
// @Summary List dishes
// @Tags Menu
// @Produce json
// @Success 200 {object} models.DishesResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/dishes [get]
func (ctrl *MenuController) GetDishes(c *gin.Context) {
	dishes, err := ctrl.menu.ListDishes(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.DishesResponse{Success: true, Dishes: dishes})
}

// GetDish godoc
// @Summary Get dish
// @Tags Menu
// @Produce json
// @Param id path int true "Dish ID"
// @Success 200 {object} models.DishResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/dishes/{id} [get]
func (ctrl *MenuController) GetDish(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	dish, err := ctrl.menu.GetDish(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.DishResponse{Success: true, Dish: *dish})
}

// GetOffers godoc
// @Summary List offers
// @Tags Menu
// @Produce json
// @Success 200 {object} models.OffersResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/offers [get]
func (ctrl *MenuController) GetOffers(c *gin.Context) {
	offers, err := ctrl.menu.ListOffers(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.OffersResponse{Success: true, Offers: offers})
}
