package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"food-order/models"

	"github.com/rs/zerolog"
)

const maxOrderIDLength = 64

type OrderStore interface {
	CreateAndClearCart(ctx context.Context, order *models.Order) error
	FindByOrderID(ctx context.Context, userID int, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID int) ([]models.Order, error)
}

// OrderNotifier is told about every committed order. Failures are logged and
// never undo the order.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, customer models.Identity, order models.Order) error
}

type OrderService struct {
	orders        OrderStore
	notifiers     []OrderNotifier
	notifyTimeout time.Duration
	log           zerolog.Logger
	wg            sync.WaitGroup
}

func NewOrderService(orders OrderStore, logger zerolog.Logger, notifiers ...OrderNotifier) *OrderService {
	return &OrderService{
		orders:        orders,
		notifiers:     notifiers,
		notifyTimeout: 30 * time.Second,
		log:           logger.With().Str("component", "order_service").Logger(),
	}
}

// PlaceOrder stores an immutable snapshot of the submitted items and clears
// the caller's cart atomically.
func (s *OrderService) PlaceOrder(ctx context.Context, caller models.Identity, req models.PlaceOrderRequest) (*models.Order, error) {
	if err := authorize(caller, req.UserID); err != nil {
		return nil, err
	}

	order, err := buildOrder(req)
	if err != nil {
		return nil, err
	}

	if err := s.orders.CreateAndClearCart(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info().Int("user_id", order.UserID).Str("order_id", order.OrderID).
		Str("total", order.Total.StringFixed(2)).Int("items", len(order.Items)).Msg("order placed")

	s.notify(ctx, caller, *order)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, caller models.Identity, userID int, orderID string) (*models.Order, error) {
	if err := authorize(caller, userID); err != nil {
		return nil, err
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, invalid("order id is required")
	}
	return s.orders.FindByOrderID(ctx, userID, orderID)
}

func (s *OrderService) ListOrders(ctx context.Context, caller models.Identity, userID int) ([]models.Order, error) {
	if err := authorize(caller, userID); err != nil {
		return nil, err
	}
	return s.orders.ListByUser(ctx, userID)
}

// Wait blocks until in-flight notifications finish. Used on shutdown.
func (s *OrderService) Wait() {
	s.wg.Wait()
}

func (s *OrderService) notify(ctx context.Context, caller models.Identity, order models.Order) {
	for _, n := range s.notifiers {
		s.wg.Add(1)
		go func(n OrderNotifier) {
			defer s.wg.Done()

			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
			defer cancel()

			if err := n.OrderPlaced(nctx, caller, order); err != nil {
				s.log.Warn().Err(err).Str("order_id", order.OrderID).Msg("order notification failed")
			}
		}(n)
	}
}

func buildOrder(req models.PlaceOrderRequest) (*models.Order, error) {
	orderID := strings.TrimSpace(req.OrderID)
	address := strings.TrimSpace(req.Address)

	switch {
	case orderID == "":
		return nil, invalid("order_id is required")
	case len(orderID) > maxOrderIDLength:
		return nil, invalid("order_id is too long")
	case len(req.Items) == 0:
		return nil, invalid("items are required")
	case req.Total == nil || !req.Total.IsPositive():
		return nil, invalid("total is required")
	case address == "":
		return nil, invalid("address is required")
	}

	items := make([]models.OrderItem, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, invalid("item %d: quantity must be a positive integer", i)
		}
		if item.Price.IsNegative() {
			return nil, invalid("item %d: price cannot be negative", i)
		}
		if strings.TrimSpace(item.Name) == "" {
			return nil, invalid("item %d: name is required", i)
		}
		items[i] = item
	}

	return &models.Order{
		UserID:  req.UserID,
		OrderID: orderID,
		Items:   items,
		Total:   *req.Total,
		Address: address,
		Status:  models.OrderStatusPending,
	}, nil
}
