package controllers

import (
	"context"
	"net/http"

	"food-order/middleware"
	"food-order/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AddressService interface {
	List(ctx context.Context, caller models.Identity, userID int) ([]models.Address, error)
	Add(ctx context.Context, caller models.Identity, req models.AddAddressRequest) (*models.Address, error)
}

type AddressController struct {
	addresses AddressService
	log       zerolog.Logger
}

func NewAddressController(addresses AddressService, logger zerolog.Logger) *AddressController {
	return &AddressController{addresses: addresses, log: logger.With().Str("controller", "address").Logger()}
}

// GetAddresses godoc
// @Summary List addresses
// @Tags Addresses
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} models.AddressesResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/addresses/{userId} [get]
func (ctrl *AddressController) GetAddresses(c *gin.Context) {
	userID, ok := intParam(c, "userId")
	if !ok {
		return
	}

	addresses, err := ctrl.addresses.List(c.Request.Context(), middleware.Identity(c), userID)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.AddressesResponse{Success: true, Addresses: addresses})
}

// AddAddress godoc
// @Summary Add address
// @Tags Addresses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AddAddressRequest true "Address"
// @Success 201 {object} models.AddressResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/addresses [post]
func (ctrl *AddressController) AddAddress(c *gin.Context) {
	var req models.AddAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	address, err := ctrl.addresses.Add(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, models.AddressResponse{Success: true, Address: *address})
}
