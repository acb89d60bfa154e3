package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"food-order/controllers"
	"food-order/models"
	"food-order/services"
	"food-order/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type memUsers struct {
	mu    sync.Mutex
	users []models.User
}

func (s *memUsers) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = len(s.users) + 1
	user.CreatedAt = time.Now()
	s.users = append(s.users, *user)
	return nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("find user: %w", models.ErrNotFound)
}

func (s *memUsers) FindByID(_ context.Context, id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id <= 0 || id > len(s.users) {
		return nil, fmt.Errorf("find user %d: %w", id, models.ErrNotFound)
	}
	u := s.users[id-1]
	return &u, nil
}

type memOrders struct {
	mu     sync.Mutex
	orders []models.Order
}

func (s *memOrders) CreateAndClearCart(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.UserID == order.UserID && o.OrderID == order.OrderID {
			return fmt.Errorf("%w: order %s already exists", models.ErrInvalidArgument, order.OrderID)
		}
	}
	order.ID = len(s.orders) + 1
	order.CreatedAt = time.Now()
	s.orders = append(s.orders, *order)
	return nil
}

func (s *memOrders) FindByOrderID(_ context.Context, userID int, orderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.UserID == userID && o.OrderID == orderID {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("find order %s: %w", orderID, models.ErrNotFound)
}

func (s *memOrders) ListByUser(_ context.Context, userID int) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].UserID == userID {
			out = append(out, s.orders[i])
		}
	}
	return out, nil
}

type memAddresses struct {
	mu        sync.Mutex
	addresses []models.Address
}

func (s *memAddresses) ListByUser(_ context.Context, userID int) ([]models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Address{}
	for _, a := range s.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memAddresses) Create(_ context.Context, address *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	address.ID = len(s.addresses) + 1
	address.CreatedAt = time.Now()
	s.addresses = append(s.addresses, *address)
	return nil
}

type emptyCarts struct{}

func (emptyCarts) List(context.Context, models.Identity, int) ([]models.CartLine, error) {
	return []models.CartLine{}, nil
}

func (emptyCarts) Add(context.Context, models.Identity, models.AddCartRequest) (*models.CartLine, error) {
	return nil, models.ErrNotFound
}

func (emptyCarts) UpdateQuantity(context.Context, models.Identity, int, int) (*models.CartLine, error) {
	return nil, models.ErrNotFound
}

func (emptyCarts) Remove(context.Context, models.Identity, int) error { return models.ErrNotFound }

func (emptyCarts) ClearAll(context.Context, models.Identity, int) error { return nil }

type fixedMenu struct{}

func (fixedMenu) ListDishes(context.Context) ([]models.Dish, error) {
	return []models.Dish{{ID: 1, Name: "Paneer Tikka", Price: decimal.NewFromInt(250), IsVeg: true}}, nil
}

func (fixedMenu) GetDish(_ context.Context, id int) (*models.Dish, error) {
	if id != 1 {
		return nil, fmt.Errorf("find dish %d: %w", id, models.ErrNotFound)
	}
	return &models.Dish{ID: 1, Name: "Paneer Tikka", Price: decimal.NewFromInt(250), IsVeg: true}, nil
}

func (fixedMenu) ListOffers(context.Context) ([]models.Offer, error) {
	return []models.Offer{}, nil
}

type livePinger struct{}

func (livePinger) Ping(context.Context) error { return nil }

type RoutesSuite struct {
	suite.Suite
	router *gin.Engine
}

func TestRoutes(t *testing.T) {
	suite.Run(t, new(RoutesSuite))
}

func (s *RoutesSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *RoutesSuite) SetupTest() {
	log := zerolog.Nop()
	auth := services.NewAuthService(&memUsers{}, utils.NewTokenManager("routes-secret", time.Hour), utils.NewPasswordHasher(1, 8*1024, 1))

	s.router = gin.New()
	SetupRoutes(s.router, Handlers{
		Auth:          controllers.NewAuthController(auth, log),
		Cart:          controllers.NewCartController(emptyCarts{}, log),
		Order:         controllers.NewOrderController(services.NewOrderService(&memOrders{}, log), log),
		Address:       controllers.NewAddressController(services.NewAddressService(&memAddresses{}), log),
		Menu:          controllers.NewMenuController(fixedMenu{}, log),
		Health:        controllers.NewHealthController(livePinger{}, log),
		Authenticator: auth,
	})
}

func (s *RoutesSuite) do(method, path, token string, body any) (int, map[string]any) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		s.Require().NoError(err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := map[string]any{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

// register signs up a user and returns its id and token.
func (s *RoutesSuite) register(name string) (int, string) {
	code, body := s.do(http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Name: name, Email: name + "@example.com", Password: "secret1",
	})
	s.Require().Equal(http.StatusCreated, code, body)
	user := body["user"].(map[string]any)
	return int(user["id"].(float64)), body["token"].(string)
}

func orderBody(userID int, orderID string) map[string]any {
	return map[string]any{
		"user_id":  userID,
		"order_id": orderID,
		"items": []map[string]any{
			{"product_id": 42, "name": "Paneer Tikka", "price": 250, "quantity": 2, "is_veg": true},
		},
		"total":   575,
		"address": "12 MG Road",
	}
}

func (s *RoutesSuite) TestPublicRoutes() {
	code, body := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, code)
	s.Equal(true, body["success"])

	code, _ = s.do(http.MethodGet, "/health/db", "", nil)
	s.Equal(http.StatusOK, code)

	code, body = s.do(http.MethodGet, "/api/dishes", "", nil)
	s.Equal(http.StatusOK, code)
	s.Len(body["dishes"], 1)

	code, body = s.do(http.MethodGet, "/api/dishes/1", "", nil)
	s.Equal(http.StatusOK, code)
	s.Equal(250.0, body["dish"].(map[string]any)["price"])

	code, body = s.do(http.MethodGet, "/api/dishes/99", "", nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("Not found", body["error"])

	code, _ = s.do(http.MethodGet, "/api/offers", "", nil)
	s.Equal(http.StatusOK, code)
}

func (s *RoutesSuite) TestAuthFlow() {
	id, token := s.register("asha")

	code, body := s.do(http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Name: "asha", Email: "asha@example.com", Password: "secret1",
	})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Email already registered", body["error"])

	code, body = s.do(http.MethodPost, "/auth/login", "", models.LoginRequest{Email: "asha@example.com", Password: "wrong"})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Invalid email or password", body["error"])

	code, body = s.do(http.MethodPost, "/auth/login", "", models.LoginRequest{Email: "asha@example.com", Password: "secret1"})
	s.Equal(http.StatusOK, code)
	s.NotEmpty(body["token"])

	code, body = s.do(http.MethodGet, "/api/profile", token, nil)
	s.Equal(http.StatusOK, code)
	profile := body["profile"].(map[string]any)
	s.Equal(float64(id), profile["id"])
	s.Equal("asha@example.com", profile["email"])
	s.NotContains(profile, "password")
}

func (s *RoutesSuite) TestProtectedRoutesRequireToken() {
	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/profile"},
		{http.MethodGet, "/api/cart/1"},
		{http.MethodPost, "/api/cart"},
		{http.MethodPut, "/api/cart/1"},
		{http.MethodDelete, "/api/cart/1"},
		{http.MethodDelete, "/api/cart/all/1"},
		{http.MethodPost, "/api/cart/orders"},
		{http.MethodGet, "/api/cart/orders/1"},
		{http.MethodGet, "/api/cart/orders/1/ORD1"},
		{http.MethodGet, "/api/addresses/1"},
		{http.MethodPost, "/api/addresses"},
	} {
		code, body := s.do(r.method, r.path, "", nil)
		s.Equal(http.StatusUnauthorized, code, r.method+" "+r.path)
		s.Equal(false, body["success"], r.method+" "+r.path)
	}

	code, _ := s.do(http.MethodGet, "/api/cart/1", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, code)
}

func (s *RoutesSuite) TestOrderRoutes() {
	owner, ownerToken := s.register("ravi")
	_, otherToken := s.register("meera")
	orders := "/api/cart/orders/" + strconv.Itoa(owner)

	code, body := s.do(http.MethodPost, "/api/cart/orders", ownerToken, orderBody(owner, "ORDABC123XYZ"))
	s.Require().Equal(http.StatusCreated, code, body)
	s.Equal(true, body["success"])
	order := body["order"].(map[string]any)
	s.Equal("ORDABC123XYZ", order["order_id"])
	s.Equal(575.0, order["total"])
	s.Equal(models.OrderStatusPending, order["status"])
	s.Len(order["items"], 1)

	code, body = s.do(http.MethodPost, "/api/cart/orders", ownerToken, orderBody(owner, "ORDABC123XYZ"))
	s.Equal(http.StatusBadRequest, code)
	s.Contains(body["error"], "already exists")

	code, body = s.do(http.MethodPost, "/api/cart/orders", otherToken, orderBody(owner, "ORDOTHER0001"))
	s.Equal(http.StatusForbidden, code)
	s.Equal("Unauthorized", body["error"])

	code, body = s.do(http.MethodGet, orders, ownerToken, nil)
	s.Equal(http.StatusOK, code)
	s.Len(body["orders"], 1)

	code, body = s.do(http.MethodGet, orders+"/ORDABC123XYZ", ownerToken, nil)
	s.Equal(http.StatusOK, code)
	s.Equal("12 MG Road", body["order"].(map[string]any)["address"])

	code, body = s.do(http.MethodGet, orders+"/ORDMISSING00", ownerToken, nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("Not found", body["error"])

	code, body = s.do(http.MethodGet, orders, otherToken, nil)
	s.Equal(http.StatusForbidden, code)
	s.Equal("Unauthorized", body["error"])

	code, body = s.do(http.MethodGet, orders+"/ORDABC123XYZ", otherToken, nil)
	s.Equal(http.StatusForbidden, code)
	s.Equal("Unauthorized", body["error"])
}

func (s *RoutesSuite) TestAddressRoutes() {
	owner, ownerToken := s.register("kiran")
	_, otherToken := s.register("dev")
	list := "/api/addresses/" + strconv.Itoa(owner)

	code, body := s.do(http.MethodPost, "/api/addresses", ownerToken, models.AddAddressRequest{Address: "12 MG Road"})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Label and address are required", body["error"])

	code, body = s.do(http.MethodPost, "/api/addresses", ownerToken, models.AddAddressRequest{Label: "Home", Address: "12 MG Road"})
	s.Require().Equal(http.StatusCreated, code, body)
	address := body["address"].(map[string]any)
	s.Equal("Home", address["label"])
	s.Equal(float64(owner), address["user_id"])

	code, body = s.do(http.MethodPost, "/api/addresses", otherToken, models.AddAddressRequest{UserID: owner, Label: "Work", Address: "Elsewhere"})
	s.Equal(http.StatusForbidden, code)
	s.Equal("Unauthorized", body["error"])

	code, body = s.do(http.MethodGet, list, ownerToken, nil)
	s.Equal(http.StatusOK, code)
	s.Len(body["addresses"], 1)

	code, body = s.do(http.MethodGet, list, otherToken, nil)
	s.Equal(http.StatusForbidden, code)
	s.Equal("Unauthorized", body["error"])
}
