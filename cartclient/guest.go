package cartclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"food-order/models"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// GuestLine is the persisted form of a cart line added before login.
type GuestLine struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Image       string          `json:"image"`
	IsVeg       bool            `json:"is_veg"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

func (g GuestLine) request(userID int) models.AddCartRequest {
	price := g.Price
	return models.AddCartRequest{
		UserID:      userID,
		ProductID:   g.ProductID,
		ProductName: g.ProductName,
		Image:       g.Image,
		IsVeg:       g.IsVeg,
		Price:       &price,
		Quantity:    g.Quantity,
	}
}

// GuestStore persists the guest cart between runs. Load on an empty store
// returns no lines and no error.
type GuestStore interface {
	Load(ctx context.Context) ([]GuestLine, error)
	Save(ctx context.Context, lines []GuestLine) error
	Clear(ctx context.Context) error
}

const guestCartKey = "cart"

// FileStore keeps the guest cart as a JSON array in <dir>/cart.json.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, guestCartKey+".json")}
}

func (s *FileStore) Load(_ context.Context) ([]GuestLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read guest cart: %w", err)
	}
	return decodeGuestLines(raw)
}

func (s *FileStore) Save(_ context.Context, lines []GuestLine) error {
	raw, err := encodeGuestLines(lines)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create guest cart dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write guest cart: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write guest cart: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear guest cart: %w", err)
	}
	return nil
}

// RedisStore keeps the guest cart of one device under cart:guest:<device>.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, device string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    guestCartKey + ":guest:" + device,
		ttl:    ttl,
	}
}

func (s *RedisStore) Load(ctx context.Context) ([]GuestLine, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read guest cart: %w", err)
	}
	return decodeGuestLines(raw)
}

func (s *RedisStore) Save(ctx context.Context, lines []GuestLine) error {
	raw, err := encodeGuestLines(lines)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("write guest cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear guest cart: %w", err)
	}
	return nil
}

func encodeGuestLines(lines []GuestLine) ([]byte, error) {
	if lines == nil {
		lines = []GuestLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode guest cart: %w", err)
	}
	return raw, nil
}

func decodeGuestLines(raw []byte) ([]GuestLine, error) {
	var lines []GuestLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode guest cart: %w", err)
	}
	return lines, nil
}
