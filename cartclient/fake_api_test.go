package cartclient

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"food-order/models"
)

// fakeAPI behaves like the cart endpoints of one signed-in user.
type fakeAPI struct {
	mu     sync.Mutex
	userID int
	lines  []models.CartLine
	nextID int
	orders []models.PlaceOrderRequest
	calls  []string

	failures map[string][]error

	gate        chan struct{}
	entered     chan int
	inFlight    map[int]int
	maxInFlight int

	// listGate holds List after it has read the server lines, so the
	// answer can go stale while it waits.
	listGate    chan struct{}
	listEntered chan struct{}
	removeGate  chan struct{}
}

func newFakeAPI(userID int) *fakeAPI {
	return &fakeAPI{
		userID:   userID,
		nextID:   100,
		failures: map[string][]error{},
		inFlight: map[int]int{},
	}
}

func (f *fakeAPI) failNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = append(f.failures[op], err)
}

func (f *fakeAPI) takeLocked(op string) error {
	f.calls = append(f.calls, op)
	queue := f.failures[op]
	if len(queue) == 0 {
		return nil
	}
	f.failures[op] = queue[1:]
	return queue[0]
}

func (f *fakeAPI) seed(line models.CartLine) models.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	line.ID = f.nextID
	line.UserID = f.userID
	f.lines = append(f.lines, line)
	return line
}

func (f *fakeAPI) serverLines() []models.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]models.CartLine(nil), f.lines...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeAPI) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeAPI) List(_ context.Context, userID int) ([]models.CartLine, error) {
	f.mu.Lock()
	err := f.takeLocked("list")
	gate, entered := f.listGate, f.listEntered
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if userID != f.userID {
		return nil, &APIError{Status: http.StatusForbidden, Message: "Unauthorized"}
	}

	lines := f.serverLines()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return lines, nil
}

func (f *fakeAPI) Add(_ context.Context, req models.AddCartRequest) (*models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeLocked("add"); err != nil {
		return nil, err
	}
	for i := range f.lines {
		if f.lines[i].ProductID == req.ProductID {
			f.lines[i].Quantity += req.Quantity
			line := f.lines[i]
			return &line, nil
		}
	}
	f.nextID++
	line := models.CartLine{
		ID:          f.nextID,
		UserID:      req.UserID,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Image:       req.Image,
		IsVeg:       req.IsVeg,
		Price:       *req.Price,
		Quantity:    req.Quantity,
	}
	f.lines = append(f.lines, line)
	return &line, nil
}

func (f *fakeAPI) UpdateQuantity(_ context.Context, lineID, quantity int) (*models.CartLine, error) {
	f.mu.Lock()
	f.inFlight[lineID]++
	if f.inFlight[lineID] > f.maxInFlight {
		f.maxInFlight = f.inFlight[lineID]
	}
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- lineID
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight[lineID]--
	if err := f.takeLocked("update"); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, &APIError{Status: http.StatusBadRequest, Message: "Quantity must be a positive integer"}
	}
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			f.lines[i].Quantity = quantity
			line := f.lines[i]
			return &line, nil
		}
	}
	return nil, &APIError{Status: http.StatusNotFound, Message: "Not found"}
}

func (f *fakeAPI) Remove(_ context.Context, lineID int) error {
	f.mu.Lock()
	gate := f.removeGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeLocked("remove"); err != nil {
		return err
	}
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: http.StatusNotFound, Message: "Not found"}
}

func (f *fakeAPI) ClearAll(_ context.Context, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeLocked("clear"); err != nil {
		return err
	}
	f.lines = nil
	return nil
}

func (f *fakeAPI) PlaceOrder(_ context.Context, req models.PlaceOrderRequest) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeLocked("order"); err != nil {
		return nil, err
	}
	f.orders = append(f.orders, req)
	f.lines = nil
	return &models.Order{
		ID:      len(f.orders),
		UserID:  req.UserID,
		OrderID: req.OrderID,
		Items:   req.Items,
		Total:   *req.Total,
		Address: req.Address,
		Status:  models.OrderStatusPending,
	}, nil
}

// memoryStore is a GuestStore that can be told to fail.
type memoryStore struct {
	mu      sync.Mutex
	lines   []GuestLine
	saveErr error
}

func (s *memoryStore) Load(context.Context) ([]GuestLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]GuestLine(nil), s.lines...), nil
}

func (s *memoryStore) Save(_ context.Context, lines []GuestLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.lines = append([]GuestLine(nil), lines...)
	return nil
}

func (s *memoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	return nil
}

func (s *memoryStore) saved() []GuestLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]GuestLine(nil), s.lines...)
}
