package repositories

import (
	"context"
	"os"
	"sync"
	"testing"

	"food-order/config"
	"food-order/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// PostgresSuite runs against the database in TEST_DATABASE_URL and is
// skipped without it.
type PostgresSuite struct {
	suite.Suite
	ctx    context.Context
	pool   *pgxpool.Pool
	carts  *CartRepository
	orders *OrderRepository
	userID int
}

func TestPostgresSuite(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	suite.Run(t, &PostgresSuite{})
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	cfg := &config.Config{
		DatabaseURL:   os.Getenv("TEST_DATABASE_URL"),
		MigrationsDir: "../database/migration",
		DBMaxConns:    10,
	}
	s.Require().NoError(config.RunMigrations(cfg))

	pool, err := config.ConnectDB(s.ctx, cfg)
	s.Require().NoError(err)
	s.pool = pool
	s.carts = NewCartRepository(pool)
	s.orders = NewOrderRepository(pool)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE users, cart, orders, addresses RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)

	user := &models.User{Name: "Asha", Email: "asha@example.com", Password: "x"}
	s.Require().NoError(NewUserRepository(s.pool).Create(s.ctx, user))
	s.userID = user.ID
}

func (s *PostgresSuite) line(productID, quantity int) models.NewCartLine {
	return models.NewCartLine{
		UserID:      s.userID,
		ProductID:   productID,
		ProductName: "Paneer Tikka",
		Price:       decimal.RequireFromString("250.50"),
		Quantity:    quantity,
	}
}

func (s *PostgresSuite) TestUpsertMergesConcurrentAdds() {
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.carts.Upsert(s.ctx, s.line(42, 1))
			s.NoError(err)
		}()
	}
	wg.Wait()

	lines, err := s.carts.ListByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Equal(10, lines[0].Quantity)
	s.Equal("250.50", lines[0].Price.StringFixed(2))
}

func (s *PostgresSuite) TestUpsertRejectsNonPositiveTotal() {
	_, err := s.carts.Upsert(s.ctx, s.line(42, 1))
	s.Require().NoError(err)

	_, err = s.carts.Upsert(s.ctx, s.line(42, -1))
	s.ErrorIs(err, models.ErrInvalidArgument)
}

func (s *PostgresSuite) TestLineOwnershipInWrites() {
	line, err := s.carts.Upsert(s.ctx, s.line(42, 1))
	s.Require().NoError(err)

	_, err = s.carts.UpdateQuantity(s.ctx, line.ID, s.userID+1, 5)
	s.ErrorIs(err, models.ErrNotFound)
	s.ErrorIs(s.carts.Delete(s.ctx, line.ID, s.userID+1), models.ErrNotFound)

	_, err = s.carts.FindByID(s.ctx, line.ID+100)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *PostgresSuite) TestOrderInsertAndCartClearAreAtomic() {
	_, err := s.carts.Upsert(s.ctx, s.line(42, 2))
	s.Require().NoError(err)

	order := &models.Order{
		UserID:  s.userID,
		OrderID: "ORDX1",
		Items:   []models.OrderItem{{ProductID: 42, Name: "Paneer Tikka", Price: decimal.RequireFromString("250.50"), Quantity: 2}},
		Total:   decimal.RequireFromString("576.05"),
		Address: "12 MG Road",
		Status:  models.OrderStatusPending,
	}
	s.Require().NoError(s.orders.CreateAndClearCart(s.ctx, order))
	s.NotZero(order.ID)

	lines, err := s.carts.ListByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Empty(lines)

	// A duplicate order id rolls back, leaving the new cart untouched.
	_, err = s.carts.Upsert(s.ctx, s.line(43, 1))
	s.Require().NoError(err)
	dup := *order
	dup.ID = 0
	s.ErrorIs(s.orders.CreateAndClearCart(s.ctx, &dup), models.ErrInvalidArgument)

	lines, err = s.carts.ListByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Len(lines, 1)

	stored, err := s.orders.FindByOrderID(s.ctx, s.userID, "ORDX1")
	s.Require().NoError(err)
	s.Equal(2, stored.Items[0].Quantity)
	s.Equal("576.05", stored.Total.StringFixed(2))
}
