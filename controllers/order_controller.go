package controllers

import (
	"context"
	"net/http"

	"food-order/middleware"
	"food-order/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, caller models.Identity, req models.PlaceOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, caller models.Identity, userID int, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, caller models.Identity, userID int) ([]models.Order, error)
}

type OrderController struct {
	orders OrderService
	log    zerolog.Logger
}

func NewOrderController(orders OrderService, logger zerolog.Logger) *OrderController {
	return &OrderController{orders: orders, log: logger.With().Str("controller", "order").Logger()}
}

// PlaceOrder godoc
// @Summary Place order
// @Description Stores the order snapshot and clears the cart in one transaction
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PlaceOrderRequest true "Order"
// @Success 201 {object} models.OrderResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/cart/orders [post]
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid order payload")
		return
	}

	order, err := ctrl.orders.PlaceOrder(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, models.OrderResponse{Success: true, Order: *order})
}

// GetOrders godoc
// @Summary List orders
// @Description Orders of the user, newest first
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} models.OrdersResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/cart/orders/{userId} [get]
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	userID, ok := intParam(c, "userId")
	if !ok {
		return
	}

	orders, err := ctrl.orders.ListOrders(c.Request.Context(), middleware.Identity(c), userID)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.OrdersResponse{Success: true, Orders: orders})
}

// GetOrder godoc
// @Summary Get order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param orderId path string true "Client order id"
// @Success 200 {object} models.OrderResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cart/orders/{userId}/{orderId} [get]
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, ok := intParam(c, "userId")
	if !ok {
		return
	}

	order, err := ctrl.orders.GetOrder(c.Request.Context(), middleware.Identity(c), userID, c.Param("orderId"))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.OrderResponse{Success: true, Order: *order})
}
