package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"food-order/models"

	"github.com/stretchr/testify/mock"
)

// memoryDB holds the tables the service tests need, with the same merge and
// transaction semantics as the Postgres repositories.
type memoryDB struct {
	mu        sync.Mutex
	cart      map[int]models.CartLine
	orders    []models.Order
	addresses []models.Address
	users     map[int]models.User
	nextID    int
	failOrder error
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		cart:  map[int]models.CartLine{},
		users: map[int]models.User{},
	}
}

func (db *memoryDB) id() int {
	db.nextID++
	return db.nextID
}

type memCartStore struct{ db *memoryDB }

func (s memCartStore) ListByUser(_ context.Context, userID int) ([]models.CartLine, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	lines := []models.CartLine{}
	for _, l := range s.db.cart {
		if l.UserID == userID {
			lines = append(lines, l)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines, nil
}

func (s memCartStore) Upsert(_ context.Context, in models.NewCartLine) (*models.CartLine, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, l := range s.db.cart {
		if l.UserID == in.UserID && l.ProductID == in.ProductID {
			if l.Quantity+in.Quantity <= 0 {
				return nil, fmt.Errorf("%w: quantity cannot be less than or equal to zero", models.ErrInvalidArgument)
			}
			l.Quantity += in.Quantity
			s.db.cart[id] = l
			return &l, nil
		}
	}
	line := models.CartLine{
		ID:          s.db.id(),
		UserID:      in.UserID,
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		Image:       in.Image,
		IsVeg:       in.IsVeg,
		Price:       in.Price,
		Quantity:    in.Quantity,
		CreatedAt:   time.Now(),
	}
	s.db.cart[line.ID] = line
	return &line, nil
}

func (s memCartStore) FindByID(_ context.Context, id int) (*models.CartLine, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	l, ok := s.db.cart[id]
	if !ok {
		return nil, fmt.Errorf("find cart line %d: %w", id, models.ErrNotFound)
	}
	return &l, nil
}

func (s memCartStore) UpdateQuantity(_ context.Context, id, userID, quantity int) (*models.CartLine, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	l, ok := s.db.cart[id]
	if !ok || l.UserID != userID {
		return nil, fmt.Errorf("update cart line %d: %w", id, models.ErrNotFound)
	}
	l.Quantity = quantity
	s.db.cart[id] = l
	return &l, nil
}

func (s memCartStore) Delete(_ context.Context, id, userID int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	l, ok := s.db.cart[id]
	if !ok || l.UserID != userID {
		return fmt.Errorf("delete cart line %d: %w", id, models.ErrNotFound)
	}
	delete(s.db.cart, id)
	return nil
}

func (s memCartStore) DeleteByUser(_ context.Context, userID int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.clearCartLocked(userID)
	return nil
}

func (db *memoryDB) clearCartLocked(userID int) {
	for id, l := range db.cart {
		if l.UserID == userID {
			delete(db.cart, id)
		}
	}
}

type memOrderStore struct{ db *memoryDB }

func (s memOrderStore) CreateAndClearCart(_ context.Context, order *models.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failOrder != nil {
		return s.db.failOrder
	}
	for _, o := range s.db.orders {
		if o.UserID == order.UserID && o.OrderID == order.OrderID {
			return fmt.Errorf("%w: order %s already exists", models.ErrInvalidArgument, order.OrderID)
		}
	}
	order.ID = s.db.id()
	order.CreatedAt = time.Now().Add(time.Duration(order.ID) * time.Millisecond)
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	s.db.orders = append(s.db.orders, stored)
	s.db.clearCartLocked(order.UserID)
	return nil
}

func (s memOrderStore) FindByOrderID(_ context.Context, userID int, orderID string) (*models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, o := range s.db.orders {
		if o.UserID == userID && o.OrderID == orderID {
			o.Items = append([]models.OrderItem(nil), o.Items...)
			return &o, nil
		}
	}
	return nil, fmt.Errorf("find order %s: %w", orderID, models.ErrNotFound)
}

func (s memOrderStore) ListByUser(_ context.Context, userID int) ([]models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	orders := []models.Order{}
	for _, o := range s.db.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

type memAddressStore struct{ db *memoryDB }

func (s memAddressStore) ListByUser(_ context.Context, userID int) ([]models.Address, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Address{}
	for _, a := range s.db.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s memAddressStore) Create(_ context.Context, address *models.Address) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	address.ID = s.db.id()
	address.CreatedAt = time.Now()
	s.db.addresses = append(s.db.addresses, *address)
	return nil
}

type memUserStore struct{ db *memoryDB }

func (s memUserStore) Create(_ context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	user.ID = s.db.id()
	user.CreatedAt = time.Now()
	s.db.users[user.ID] = *user
	return nil
}

func (s memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("find user: %w", models.ErrNotFound)
}

func (s memUserStore) FindByID(_ context.Context, id int) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, fmt.Errorf("find user %d: %w", id, models.ErrNotFound)
	}
	return &u, nil
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) OrderPlaced(ctx context.Context, customer models.Identity, order models.Order) error {
	args := m.Called(ctx, customer, order)
	return args.Error(0)
}
