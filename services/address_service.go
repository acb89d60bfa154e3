package services

import (
	"context"
	"strings"

	"food-order/models"
)

type AddressStore interface {
	ListByUser(ctx context.Context, userID int) ([]models.Address, error)
	Create(ctx context.Context, address *models.Address) error
}

type AddressService struct {
	addresses AddressStore
}

func NewAddressService(addresses AddressStore) *AddressService {
	return &AddressService{addresses: addresses}
}

func (s *AddressService) List(ctx context.Context, caller models.Identity, userID int) ([]models.Address, error) {
	if err := authorize(caller, userID); err != nil {
		return nil, err
	}
	return s.addresses.ListByUser(ctx, userID)
}

// Add stores a new address for the caller. A user_id in the request, when
// given, must be the caller's own.
func (s *AddressService) Add(ctx context.Context, caller models.Identity, req models.AddAddressRequest) (*models.Address, error) {
	ownerID := req.UserID
	if ownerID == 0 {
		ownerID = caller.UserID
	}
	if err := authorize(caller, ownerID); err != nil {
		return nil, err
	}

	label := strings.TrimSpace(req.Label)
	text := strings.TrimSpace(req.Address)
	if label == "" || text == "" {
		return nil, invalid("label and address are required")
	}

	address := &models.Address{UserID: ownerID, Label: label, Address: text}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}
