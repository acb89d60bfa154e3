package services

import (
	"context"
	"errors"
	"strings"

	"food-order/models"

	"github.com/rs/zerolog"
)

type CartStore interface {
	ListByUser(ctx context.Context, userID int) ([]models.CartLine, error)
	Upsert(ctx context.Context, in models.NewCartLine) (*models.CartLine, error)
	FindByID(ctx context.Context, id int) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, id, userID, quantity int) (*models.CartLine, error)
	Delete(ctx context.Context, id, userID int) error
	DeleteByUser(ctx context.Context, userID int) error
}

type CartService struct {
	carts CartStore
	log   zerolog.Logger
}

func NewCartService(carts CartStore, logger zerolog.Logger) *CartService {
	return &CartService{
		carts: carts,
		log:   logger.With().Str("component", "cart_service").Logger(),
	}
}

func (s *CartService) List(ctx context.Context, caller models.Identity, userID int) ([]models.CartLine, error) {
	if err := authorize(caller, userID); err != nil {
		return nil, err
	}
	return s.carts.ListByUser(ctx, userID)
}

// Add puts a product in the caller's cart. A product already in the cart has
// its quantity increased instead of getting a second line.
func (s *CartService) Add(ctx context.Context, caller models.Identity, req models.AddCartRequest) (*models.CartLine, error) {
	if err := authorize(caller, req.UserID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.ProductName)
	switch {
	case req.ProductID <= 0:
		return nil, invalid("product_id must be positive")
	case name == "":
		return nil, invalid("product_name is required")
	case req.Price == nil:
		return nil, invalid("price is required")
	case req.Price.IsNegative():
		return nil, invalid("price cannot be negative")
	case req.Quantity <= 0:
		return nil, invalid("quantity must be a positive integer")
	}

	line, err := s.carts.Upsert(ctx, models.NewCartLine{
		UserID:      req.UserID,
		ProductID:   req.ProductID,
		ProductName: name,
		Image:       req.Image,
		IsVeg:       req.IsVeg,
		Price:       *req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Int("user_id", req.UserID).Int("product_id", req.ProductID).
		Int("quantity", line.Quantity).Msg("cart line upserted")
	return line, nil
}

// UpdateQuantity replaces the quantity of one line with an absolute value.
func (s *CartService) UpdateQuantity(ctx context.Context, caller models.Identity, lineID, quantity int) (*models.CartLine, error) {
	if quantity <= 0 {
		return nil, invalid("quantity must be a positive integer")
	}
	if _, err := s.ownedLine(ctx, caller, lineID); err != nil {
		return nil, err
	}
	return s.carts.UpdateQuantity(ctx, lineID, caller.UserID, quantity)
}

func (s *CartService) Remove(ctx context.Context, caller models.Identity, lineID int) error {
	if _, err := s.ownedLine(ctx, caller, lineID); err != nil {
		return err
	}
	return s.carts.Delete(ctx, lineID, caller.UserID)
}

// ClearAll empties the cart. Clearing an empty cart succeeds.
func (s *CartService) ClearAll(ctx context.Context, caller models.Identity, userID int) error {
	if err := authorize(caller, userID); err != nil {
		return err
	}
	return s.carts.DeleteByUser(ctx, userID)
}

func (s *CartService) ownedLine(ctx context.Context, caller models.Identity, lineID int) (*models.CartLine, error) {
	if caller.UserID <= 0 {
		return nil, models.ErrUnauthenticated
	}
	if lineID <= 0 {
		return nil, invalid("invalid cart item id")
	}

	line, err := s.carts.FindByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.log.Info().Int("line_id", lineID).Msg("cart item not found")
		}
		return nil, err
	}
	if err := authorize(caller, line.UserID); err != nil {
		s.log.Warn().Int("caller", caller.UserID).Int("line_id", lineID).Msg("cart item owned by another user")
		return nil, err
	}
	return line, nil
}
