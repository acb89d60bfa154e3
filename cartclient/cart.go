// Package cartclient keeps a client-side mirror of a user's cart and
// synchronizes it with the cart API.
//
// Every mutation is applied to the mirror first and then sent to the server.
// A failed request rolls the line back and triggers a full resync from the
// server, so the mirror always converges on the server's state. Mutations on
// the same product are serialized; different products proceed concurrently.
package cartclient

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"food-order/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type Cart struct {
	guest GuestStore
	log   zerolog.Logger

	mu     sync.Mutex
	lines  []*Line
	api    API
	userID int
	// epoch changes on every login and logout; responses from an older
	// session are discarded.
	epoch int
	// gen counts server mutations that have finished, successfully or not.
	// A listing fetched across a change of gen may be stale.
	gen      uint64
	clearing int
	tempID   int

	locksMu sync.Mutex
	locks   map[int]*sync.Mutex

	guestMu sync.Mutex
	resyncs singleflight.Group

	newOrderID func() string
}

// New returns an empty guest cart. Call Hydrate to load persisted lines.
func New(guest GuestStore, logger zerolog.Logger) *Cart {
	return &Cart{
		guest:      guest,
		log:        logger.With().Str("component", "cartclient").Logger(),
		locks:      make(map[int]*sync.Mutex),
		newOrderID: NewOrderID,
	}
}

// Hydrate fills the mirror from the guest store, or from the server when a
// session is active.
func (c *Cart) Hydrate(ctx context.Context) error {
	if c.Authenticated() {
		return c.resync(ctx)
	}

	saved, err := c.guest.Load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = c.lines[:0]
	for _, g := range saved {
		c.lines = append(c.lines, c.guestLineLocked(g))
	}
	return nil
}

func (c *Cart) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.api != nil
}

func (c *Cart) UserID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Snapshot returns a copy of the mirror in display order.
func (c *Cart) Snapshot() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = *l
	}
	return out
}

func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return computeTotals(c.lines)
}

// AddItem puts quantity units of item in the cart. Guests merge by product
// locally; signed-in users go through the server's add.
func (c *Cart) AddItem(ctx context.Context, item Item, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer", models.ErrInvalidArgument)
	}
	if item.ProductID <= 0 || strings.TrimSpace(item.ProductName) == "" {
		return fmt.Errorf("%w: product id and name are required", models.ErrInvalidArgument)
	}

	unlock := c.lockProduct(item.ProductID)
	defer unlock()

	c.mu.Lock()
	if c.api == nil {
		if line := c.findProductLocked(item.ProductID); line != nil {
			line.Quantity += quantity
		} else {
			c.lines = append(c.lines, c.guestLineLocked(GuestLine{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Image:       item.Image,
				IsVeg:       item.IsVeg,
				Price:       item.Price,
				Quantity:    quantity,
			}))
		}
		c.mu.Unlock()
		return c.persistGuest(ctx)
	}
	api, userID, epoch := c.api, c.userID, c.epoch
	c.mu.Unlock()

	g := GuestLine{
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Image:       item.Image,
		IsVeg:       item.IsVeg,
		Price:       item.Price,
		Quantity:    quantity,
	}
	row, err := api.Add(ctx, g.request(userID))
	if err != nil {
		c.settle(epoch)
		return c.reconcile(ctx, "add", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return nil
	}
	c.gen++
	if line := c.findProductLocked(row.ProductID); line != nil {
		line.apply(*row)
	} else {
		c.lines = append(c.lines, syncedLine(*row))
	}
	return nil
}

func (c *Cart) Increment(ctx context.Context, lineID int) error {
	return c.changeQuantity(ctx, lineID, 1)
}

// Decrement lowers the quantity by one. A line at quantity 1 is removed
// instead; a zero quantity is never sent.
func (c *Cart) Decrement(ctx context.Context, lineID int) error {
	return c.changeQuantity(ctx, lineID, -1)
}

func (c *Cart) Remove(ctx context.Context, lineID int) error {
	unlock, err := c.lockLine(lineID)
	if err != nil {
		return err
	}
	defer unlock()
	return c.remove(ctx, lineID)
}

// ClearCart empties the cart. On failure the mirror is resynced rather than
// restored.
func (c *Cart) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	c.lines = nil
	api, userID, epoch := c.api, c.userID, c.epoch
	if api != nil {
		c.clearing++
	}
	c.mu.Unlock()

	if api == nil {
		c.guestMu.Lock()
		defer c.guestMu.Unlock()
		return c.guest.Clear(ctx)
	}

	err := api.ClearAll(ctx, userID)
	c.mu.Lock()
	c.clearing--
	if c.epoch == epoch {
		c.gen++
	}
	c.mu.Unlock()

	if err != nil {
		return c.reconcile(ctx, "clear", err)
	}
	return nil
}

// Login binds the cart to an authenticated API and replays every guest line
// through it, one request at a time and in the order they were added. The
// mirror is then replaced by the server's cart.
//
// If a replay fails, the lines already replayed are dropped from the guest
// store and the rest are kept for the next login. The returned error then
// matches ErrMergeIncomplete, even when the cause was transient.
func (c *Cart) Login(ctx context.Context, userID int, api API) error {
	if userID <= 0 || api == nil {
		return fmt.Errorf("%w: user id and api are required", models.ErrInvalidArgument)
	}

	c.mu.Lock()
	c.api, c.userID = api, userID
	c.epoch++
	c.mu.Unlock()

	c.guestMu.Lock()
	pending, err := c.guest.Load(ctx)
	if err != nil {
		c.guestMu.Unlock()
		c.log.Warn().Err(err).Msg("guest cart unreadable, skipping merge")
		return errors.Join(fmt.Errorf("load guest cart: %w", err), c.resync(ctx))
	}

	for i, g := range pending {
		if _, err := api.Add(ctx, g.request(userID)); err != nil {
			if serr := c.guest.Save(ctx, pending[i:]); serr != nil {
				c.log.Error().Err(serr).Msg("failed to keep unreplayed guest lines")
			}
			c.guestMu.Unlock()
			c.log.Warn().Err(err).Int("replayed", i).Int("remaining", len(pending)-i).Msg("guest cart merge interrupted")

			incomplete := fmt.Errorf("%w: %d of %d guest lines kept for the next login", ErrMergeIncomplete, len(pending)-i, len(pending))
			if rerr := c.reconcile(ctx, "merge guest cart", err); rerr != nil {
				return errors.Join(incomplete, rerr)
			}
			return fmt.Errorf("%w: %w", incomplete, err)
		}
	}

	err = c.guest.Clear(ctx)
	c.guestMu.Unlock()
	if err != nil {
		return err
	}

	c.log.Debug().Int("user_id", userID).Int("merged", len(pending)).Msg("guest cart merged")
	return c.resync(ctx)
}

// Logout drops the session, empties the mirror and clears the guest store.
func (c *Cart) Logout(ctx context.Context) error {
	c.dropSession()

	c.guestMu.Lock()
	defer c.guestMu.Unlock()
	return c.guest.Clear(ctx)
}

func (c *Cart) dropSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.api, c.userID = nil, 0
	c.epoch++
	c.lines = nil
}

// Checkout places an order for everything in the cart and empties the
// mirror once the server accepts it. Unlike the line mutations, every
// failure is returned so the caller never assumes an order exists.
func (c *Cart) Checkout(ctx context.Context, address string) (*models.Order, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", models.ErrInvalidArgument)
	}

	// Holding every line's product lock keeps in-flight changes out of the
	// snapshot: they either settle first or wait for the order.
	c.mu.Lock()
	products := make([]int, len(c.lines))
	for i, l := range c.lines {
		products[i] = l.ProductID
	}
	c.mu.Unlock()
	unlock := c.lockProducts(products)
	defer unlock()

	c.mu.Lock()
	if c.api == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: sign in to place an order", models.ErrUnauthenticated)
	}
	if len(c.lines) == 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: cart is empty", models.ErrInvalidArgument)
	}
	items := make([]models.OrderItem, len(c.lines))
	ordered := make(map[int]bool, len(c.lines))
	for i, l := range c.lines {
		items[i] = l.orderItem()
		ordered[l.ID] = true
	}
	totals := computeTotals(c.lines)
	api, userID, epoch := c.api, c.userID, c.epoch
	c.mu.Unlock()

	order, err := api.PlaceOrder(ctx, models.PlaceOrderRequest{
		UserID:  userID,
		OrderID: c.newOrderID(),
		Items:   items,
		Total:   &totals.Total,
		Address: address,
	})
	if err != nil {
		c.settle(epoch)
		if rerr := c.reconcile(ctx, "checkout", err); rerr != nil {
			return nil, rerr
		}
		return nil, err
	}

	c.mu.Lock()
	if c.epoch == epoch {
		c.gen++
		c.lines = slices.DeleteFunc(c.lines, func(l *Line) bool { return ordered[l.ID] })
	}
	c.mu.Unlock()
	return order, nil
}

func (c *Cart) changeQuantity(ctx context.Context, lineID, delta int) error {
	unlock, err := c.lockLine(lineID)
	if err != nil {
		return err
	}
	defer unlock()

	c.mu.Lock()
	line := c.findLocked(lineID)
	if line == nil {
		c.mu.Unlock()
		return lineNotFound(lineID)
	}
	target := line.Quantity + delta
	if target <= 0 {
		c.mu.Unlock()
		return c.remove(ctx, lineID)
	}
	line.Quantity = target
	if c.api == nil {
		c.mu.Unlock()
		return c.persistGuest(ctx)
	}
	line.State = StatePending
	api, epoch := c.api, c.epoch
	c.mu.Unlock()

	row, err := api.UpdateQuantity(ctx, lineID, target)

	c.mu.Lock()
	// A resync may have replaced the line while the request was in flight;
	// only the pending object itself is touched.
	current := c.findLocked(lineID)
	if c.epoch != epoch {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	if err == nil {
		if current != nil {
			current.apply(*row)
		}
		c.mu.Unlock()
		return nil
	}
	if current == line {
		line.Quantity -= delta
		line.State = StateFailed
	}
	c.mu.Unlock()
	return c.reconcile(ctx, "update quantity", err)
}

// remove expects the caller to hold the line's product lock.
func (c *Cart) remove(ctx context.Context, lineID int) error {
	c.mu.Lock()
	idx := slices.IndexFunc(c.lines, func(l *Line) bool { return l.ID == lineID })
	if idx < 0 {
		c.mu.Unlock()
		return lineNotFound(lineID)
	}
	c.lines = slices.Delete(c.lines, idx, idx+1)
	api, epoch := c.api, c.epoch
	c.mu.Unlock()

	if api == nil {
		return c.persistGuest(ctx)
	}

	err := api.Remove(ctx, lineID)
	c.mu.Lock()
	if c.epoch == epoch {
		c.gen++
		if err == nil {
			// A resync that listed the line before the delete landed may have
			// put it back.
			c.lines = slices.DeleteFunc(c.lines, func(l *Line) bool { return l.ID == lineID })
		}
	}
	c.mu.Unlock()

	if err != nil {
		return c.reconcile(ctx, "remove", err)
	}
	return nil
}

// settle records a finished server mutation that left the mirror unchanged.
func (c *Cart) settle(epoch int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch == epoch {
		c.gen++
	}
}

// reconcile brings the mirror back in line with the server after a failed
// request. A 401 ends the session. Transient failures that resync cleanly
// are absorbed; anything else is returned.
func (c *Cart) reconcile(ctx context.Context, op string, err error) error {
	if errors.Is(err, models.ErrUnauthenticated) {
		c.log.Warn().Err(err).Str("op", op).Msg("session rejected, signing out")
		c.dropSession()
		return err
	}

	if rerr := c.resync(ctx); rerr != nil {
		c.log.Error().Err(rerr).Str("op", op).Msg("resync after failed request failed")
		return errors.Join(err, fmt.Errorf("resync: %w", rerr))
	}

	if IsTransient(err) {
		c.log.Info().Err(err).Str("op", op).Msg("request failed, cart resynced")
		return nil
	}
	return err
}

// resync replaces the mirror with the server's cart. Concurrent calls share
// one request, but only while no mutation has finished in between.
func (c *Cart) resync(ctx context.Context) error {
	c.mu.Lock()
	api, userID, epoch, gen := c.api, c.userID, c.epoch, c.gen
	c.mu.Unlock()
	if api == nil {
		return nil
	}

	key := strconv.Itoa(epoch) + ":" + strconv.FormatUint(gen, 10)
	_, err, _ := c.resyncs.Do(key, func() (any, error) {
		return nil, c.refresh(ctx, api, userID, epoch)
	})
	if errors.Is(err, models.ErrUnauthenticated) {
		c.dropSession()
	}
	return err
}

const maxRefreshPasses = 3

// refresh lists the server cart and installs it. A listing that overlapped a
// finished mutation or a clear is fetched again; after maxRefreshPasses the
// mirror is left as the mutations themselves set it.
func (c *Cart) refresh(ctx context.Context, api API, userID, epoch int) error {
	for pass := 1; ; pass++ {
		c.mu.Lock()
		start := c.gen
		c.mu.Unlock()

		rows, err := api.List(ctx, userID)
		if err != nil {
			return err
		}

		c.mu.Lock()
		if c.epoch != epoch {
			c.mu.Unlock()
			return nil
		}
		if c.gen == start && c.clearing == 0 {
			c.replaceLocked(rows)
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()

		if pass == maxRefreshPasses {
			c.log.Debug().Int("passes", pass).Msg("cart kept changing during resync")
			return nil
		}
	}
}

// replaceLocked installs rows as the mirror. Lines with a request in flight
// keep their object so the request can still settle or roll it back.
func (c *Cart) replaceLocked(rows []models.CartLine) {
	lines := make([]*Line, len(rows))
	for i, row := range rows {
		if cur := c.findLocked(row.ID); cur != nil && cur.State == StatePending {
			lines[i] = cur
			continue
		}
		lines[i] = syncedLine(row)
	}
	c.lines = lines
}

func (c *Cart) persistGuest(ctx context.Context) error {
	c.guestMu.Lock()
	defer c.guestMu.Unlock()

	c.mu.Lock()
	if c.api != nil {
		c.mu.Unlock()
		return nil
	}
	lines := make([]GuestLine, len(c.lines))
	for i, l := range c.lines {
		lines[i] = l.guest()
	}
	c.mu.Unlock()

	return c.guest.Save(ctx, lines)
}

func (c *Cart) lockLine(lineID int) (func(), error) {
	c.mu.Lock()
	line := c.findLocked(lineID)
	if line == nil {
		c.mu.Unlock()
		return nil, lineNotFound(lineID)
	}
	productID := line.ProductID
	c.mu.Unlock()
	return c.lockProduct(productID), nil
}

// lockProducts takes several product locks in ascending order. Every other
// path holds at most one, so the order rules out deadlock.
func (c *Cart) lockProducts(productIDs []int) func() {
	ids := slices.Clone(productIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	unlocks := make([]func(), 0, len(ids))
	for _, id := range ids {
		unlocks = append(unlocks, c.lockProduct(id))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

func (c *Cart) lockProduct(productID int) func() {
	c.locksMu.Lock()
	l, ok := c.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[productID] = l
	}
	c.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}

func (c *Cart) guestLineLocked(g GuestLine) *Line {
	c.tempID--
	return &Line{
		ID:          c.tempID,
		ProductID:   g.ProductID,
		ProductName: g.ProductName,
		Image:       g.Image,
		IsVeg:       g.IsVeg,
		Price:       g.Price,
		Quantity:    g.Quantity,
		State:       StateLocal,
	}
}

func (c *Cart) findLocked(lineID int) *Line {
	for _, l := range c.lines {
		if l.ID == lineID {
			return l
		}
	}
	return nil
}

func (c *Cart) findProductLocked(productID int) *Line {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l
		}
	}
	return nil
}

func lineNotFound(lineID int) error {
	return fmt.Errorf("%w: cart line %d", models.ErrNotFound, lineID)
}
