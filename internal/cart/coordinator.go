// Package cart keeps the locally rendered cart consistent with server state
// across add, quantity, remove and checkout mutations that can fail.
//
// Each line moves through Idle -> Pending -> Applied or Failed. While a line
// is Pending no second mutation for it is accepted, so two rapid operations on
// the same control cannot race; whichever arrives second is refused with
// ErrMutationInFlight and the caller keeps its control disabled.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/booklane/bookstore-client/internal/api/bookstore"
	"github.com/booklane/bookstore-client/internal/logger"
	"github.com/booklane/bookstore-client/internal/models"
)

// ErrMutationInFlight reports that a mutation for the same line is already
// pending. The duplicate is suppressed, not queued.
var ErrMutationInFlight = errors.New("a mutation for this item is already in flight")

// Coordinator issues cart mutations against the bookstore API and reconciles
// the locally held lines from the optimistic result. Safe for concurrent use.
type Coordinator struct {
	client      bookstore.ClientInterface
	onNoSession func()
	log         *logger.Logger

	mu      sync.Mutex
	lines   []models.CartLine
	pending map[string]struct{}
}

// NewCoordinator creates a cart coordinator. onNoSession fires exactly once
// per mutation that fails for lack of a valid session; the caller uses it to
// send the user to the login view. It may be nil.
func NewCoordinator(client bookstore.ClientInterface, onNoSession func()) *Coordinator {
	log := logger.Get().With().Str("component", "cart").Logger()

	return &Coordinator{
		client:      client,
		onNoSession: onNoSession,
		log:         &logger.Logger{Logger: log},
		pending:     make(map[string]struct{}),
	}
}

// begin marks key Pending. It refuses when a mutation for key is in flight.
func (c *Coordinator) begin(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.pending[key]; busy {
		return ErrMutationInFlight
	}
	c.pending[key] = struct{}{}
	return nil
}

func (c *Coordinator) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, key)
}

// Pending reports whether a mutation for the given line or book is in flight.
// The UI disables the matching control while this is true.
func (c *Coordinator) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.pending[key]
	return busy
}

// finish routes a mutation outcome: on a missing or rejected session the
// redirect signal fires once alongside the returned error.
func (c *Coordinator) finish(op string, err error) error {
	if err == nil {
		return nil
	}
	c.log.Warn("Cart mutation failed", map[string]interface{}{
		"op":    op,
		"error": err.Error(),
	})
	if bookstore.IsNoSession(err) && c.onNoSession != nil {
		c.onNoSession()
	}
	return err
}

// Refresh replaces local state with the authoritative cart lines. Lines whose
// book was deleted server-side arrive with a nil snapshot and are dropped.
func (c *Coordinator) Refresh(ctx context.Context) error {
	fetched, err := c.client.GetCartItems(ctx)
	if err != nil {
		return c.finish("refresh", err)
	}

	kept := make([]models.CartLine, 0, len(fetched))
	for _, line := range fetched {
		if line.Book == nil {
			c.log.Debug("Dropping cart line without book snapshot", map[string]interface{}{
				"line_id": line.ID,
			})
			continue
		}
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		kept = append(kept, line)
	}

	c.mu.Lock()
	c.lines = kept
	c.mu.Unlock()
	return nil
}

// Lines returns a copy of the current local cart state.
func (c *Coordinator) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is the payable total, recomputed from the current lines on every
// call so it can never drift from them.
func (c *Coordinator) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, line := range c.lines {
		total += line.Book.DiscountPrice * float64(line.Quantity)
	}
	return total
}

// Savings is the sum of list-price discounts across the current lines.
func (c *Coordinator) Savings() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var savings float64
	for _, line := range c.lines {
		if d := line.Book.Price - line.Book.DiscountPrice; d > 0 {
			savings += d * float64(line.Quantity)
		}
	}
	return savings
}

// Add puts one unit of a book in the cart and re-fetches the authoritative
// lines, since the server assigns the new line's identifier.
func (c *Coordinator) Add(ctx context.Context, bookID string) error {
	if err := c.begin("book:" + bookID); err != nil {
		return err
	}
	defer c.end("book:" + bookID)

	if err := c.client.AddCartItem(ctx, bookID); err != nil {
		return c.finish("add", err)
	}
	return c.Refresh(ctx)
}

// Increment raises a line's quantity by one.
func (c *Coordinator) Increment(ctx context.Context, lineID string) error {
	return c.changeQuantity(ctx, lineID, +1)
}

// Decrement lowers a line's quantity by one. At quantity 1 it is a no-op and
// no call is issued; removal is a separate operation.
func (c *Coordinator) Decrement(ctx context.Context, lineID string) error {
	return c.changeQuantity(ctx, lineID, -1)
}

// SetQuantity sets a line's quantity to an absolute value, at least 1.
func (c *Coordinator) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	c.mu.Lock()
	found := false
	for _, line := range c.lines {
		if line.ID == lineID {
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return fmt.Errorf("no cart line with id %q", lineID)
	}

	if err := c.begin(lineID); err != nil {
		return err
	}
	defer c.end(lineID)

	if err := c.client.UpdateCartQuantity(ctx, lineID, quantity); err != nil {
		return c.finish("quantity", err)
	}

	c.mu.Lock()
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = quantity
			break
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *Coordinator) changeQuantity(ctx context.Context, lineID string, delta int) error {
	c.mu.Lock()
	idx := -1
	for i, line := range c.lines {
		if line.ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("no cart line with id %q", lineID)
	}
	next := c.lines[idx].Quantity + delta
	c.mu.Unlock()

	if next < 1 {
		return nil
	}

	if err := c.begin(lineID); err != nil {
		return err
	}
	defer c.end(lineID)

	if err := c.client.UpdateCartQuantity(ctx, lineID, next); err != nil {
		return c.finish("quantity", err)
	}

	// Patch optimistically; the next Refresh converges on server truth.
	c.mu.Lock()
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = next
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// Remove deletes a line and drops it from local state on success.
func (c *Coordinator) Remove(ctx context.Context, lineID string) error {
	if err := c.begin(lineID); err != nil {
		return err
	}
	defer c.end(lineID)

	if err := c.client.RemoveCartItem(ctx, lineID); err != nil {
		return c.finish("remove", err)
	}

	c.mu.Lock()
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
	c.mu.Unlock()
	return nil
}
