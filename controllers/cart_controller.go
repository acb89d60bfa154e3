package controllers

import (
	"context"
	"net/http"

	"food-order/middleware"
	"food-order/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type CartService interface {
	List(ctx context.Context, caller models.Identity, userID int) ([]models.CartLine, error)
	Add(ctx context.Context, caller models.Identity, req models.AddCartRequest) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, caller models.Identity, lineID, quantity int) (*models.CartLine, error)
	Remove(ctx context.Context, caller models.Identity, lineID int) error
	ClearAll(ctx context.Context, caller models.Identity, userID int) error
}

type CartController struct {
	carts CartService
	log   zerolog.Logger
}

func NewCartController(carts CartService, logger zerolog.Logger) *CartController {
	return &CartController{carts: carts, log: logger.With().Str("controller", "cart").Logger()}
}

// GetCart godoc
// @Summary List cart
// @Description All cart lines of the user, ordered by id
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} models.CartResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/cart/{userId} [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := intParam(c, "userId")
	if !ok {
		return
	}

	lines, err := ctrl.carts.List(c.Request.Context(), middleware.Identity(c), userID)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.CartResponse{Success: true, Cart: lines})
}

// AddToCart godoc
// @Summary Add to cart
// @Description Adds a product, or increases its quantity when it is already in the cart
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AddCartRequest true "Cart item"
// @Success 200 {object} models.CartItemResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/cart [post]
func (ctrl *CartController) AddToCart(c *gin.Context) {
	var req models.AddCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	line, err := ctrl.carts.Add(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.CartItemResponse{Success: true, Item: *line})
}

// UpdateQuantity godoc
// @Summary Set quantity
// @Description Replaces the quantity of a cart line
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cart line ID"
// @Param request body models.UpdateQuantityRequest true "New quantity"
// @Success 200 {object} models.CartItemResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cart/{id} [put]
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	lineID, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Quantity must be a positive integer")
		return
	}

	line, err := ctrl.carts.UpdateQuantity(c.Request.Context(), middleware.Identity(c), lineID, req.Quantity)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.CartItemResponse{Success: true, Item: *line})
}

// RemoveItem godoc
// @Summary Remove cart line
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cart line ID"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cart/{id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	lineID, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.carts.Remove(c.Request.Context(), middleware.Identity(c), lineID); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Item removed from cart"})
}

// ClearCart godoc
// @Summary Clear cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/cart/all/{userId} [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, ok := intParam(c, "userId")
	if !ok {
		return
	}

	if err := ctrl.carts.ClearAll(c.Request.Context(), middleware.Identity(c), userID); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Cart cleared"})
}
