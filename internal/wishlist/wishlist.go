// Package wishlist coordinates wishlist mutations and the derived membership
// check behind the heart toggle.
//
// Whether a book is wishlisted is never trusted from the last local toggle:
// it is derived from a fetched wishlist, so state stays consistent across
// sessions. The fetch is cached for a short validity window instead of firing
// on every page load, and any mutation invalidates the window.
package wishlist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/booklane/bookstore-client/internal/api/bookstore"
	"github.com/booklane/bookstore-client/internal/logger"
	"github.com/booklane/bookstore-client/internal/models"
	"github.com/booklane/bookstore-client/pkg/cache"
)

// ErrMutationInFlight reports that a toggle for the same book is already
// pending; the duplicate is suppressed.
var ErrMutationInFlight = errors.New("a wishlist mutation for this book is already in flight")

// DefaultCacheTTL bounds how stale a derived membership answer may be.
const DefaultCacheTTL = 30 * time.Second

const entriesKey = "entries"

// Coordinator issues wishlist mutations and answers membership queries.
// Safe for concurrent use.
type Coordinator struct {
	client      bookstore.ClientInterface
	entries     *cache.Cache[[]models.WishlistEntry]
	ttl         time.Duration
	onNoSession func()
	log         *logger.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewCoordinator creates a wishlist coordinator. ttl <= 0 selects
// DefaultCacheTTL. onNoSession fires once per mutation or query that fails
// for lack of a valid session; it may be nil.
func NewCoordinator(client bookstore.ClientInterface, ttl time.Duration, onNoSession func()) *Coordinator {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	log := logger.Get().With().Str("component", "wishlist").Logger()

	return &Coordinator{
		client:      client,
		entries:     cache.New[[]models.WishlistEntry](),
		ttl:         ttl,
		onNoSession: onNoSession,
		log:         &logger.Logger{Logger: log},
		pending:     make(map[string]struct{}),
	}
}

func (c *Coordinator) finish(op string, err error) error {
	if err == nil {
		return nil
	}
	c.log.Warn("Wishlist operation failed", map[string]interface{}{
		"op":    op,
		"error": err.Error(),
	})
	if bookstore.IsNoSession(err) && c.onNoSession != nil {
		c.onNoSession()
	}
	return err
}

// Entries returns the wishlist, served from the validity window when fresh.
// Entries whose book was deleted server-side are filtered out.
func (c *Coordinator) Entries(ctx context.Context) ([]models.WishlistEntry, error) {
	entries, err := c.entries.GetWithFunc(entriesKey, c.ttl, func() ([]models.WishlistEntry, error) {
		fetched, err := c.client.GetWishlist(ctx)
		if err != nil {
			return nil, err
		}
		kept := make([]models.WishlistEntry, 0, len(fetched))
		for _, e := range fetched {
			if e.Book == nil {
				c.log.Debug("Dropping wishlist entry without book snapshot", map[string]interface{}{
					"entry_id": e.ID,
				})
				continue
			}
			kept = append(kept, e)
		}
		return kept, nil
	})
	if err != nil {
		return nil, c.finish("entries", err)
	}
	return entries, nil
}

// Contains reports whether the book is currently wishlisted, derived from a
// fetch rather than remembered from the last toggle.
func (c *Coordinator) Contains(ctx context.Context, bookID string) (bool, error) {
	entries, err := c.Entries(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Book.ID == bookID {
			return true, nil
		}
	}
	return false, nil
}

// Toggle flips the book's membership and returns the new state. The decision
// is based on derived membership, so toggling on then off always lands back
// where it started.
func (c *Coordinator) Toggle(ctx context.Context, bookID string) (bool, error) {
	c.mu.Lock()
	if _, busy := c.pending[bookID]; busy {
		c.mu.Unlock()
		return false, ErrMutationInFlight
	}
	c.pending[bookID] = struct{}{}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, bookID)
		c.mu.Unlock()
	}()

	wishlisted, err := c.Contains(ctx, bookID)
	if err != nil {
		return false, err
	}

	if wishlisted {
		if err := c.client.RemoveFromWishlist(ctx, bookID); err != nil {
			return true, c.finish("remove", err)
		}
		c.entries.Delete(entriesKey)
		return false, nil
	}

	if err := c.client.AddToWishlist(ctx, bookID); err != nil {
		return false, c.finish("add", err)
	}
	c.entries.Delete(entriesKey)
	return true, nil
}

// Remove takes a book off the wishlist directly, for the wishlist page's own
// remove control.
func (c *Coordinator) Remove(ctx context.Context, bookID string) error {
	if err := c.client.RemoveFromWishlist(ctx, bookID); err != nil {
		return c.finish("remove", err)
	}
	c.entries.Delete(entriesKey)
	return nil
}

// Invalidate discards the cached wishlist so the next query re-fetches.
func (c *Coordinator) Invalidate() {
	c.entries.Delete(entriesKey)
}
