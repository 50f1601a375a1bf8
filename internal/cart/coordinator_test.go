package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/booklane/bookstore-client/internal/api/bookstore"
	"github.com/booklane/bookstore-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient implements bookstore.ClientInterface with overridable behavior
// per method.
type fakeClient struct {
	bookstore.ClientInterface

	getCartItems       func(ctx context.Context) ([]models.CartLine, error)
	addCartItem        func(ctx context.Context, bookID string) error
	updateCartQuantity func(ctx context.Context, lineID string, quantity int) error
	removeCartItem     func(ctx context.Context, lineID string) error
}

func (f *fakeClient) GetCartItems(ctx context.Context) ([]models.CartLine, error) {
	if f.getCartItems == nil {
		return nil, nil
	}
	return f.getCartItems(ctx)
}

func (f *fakeClient) AddCartItem(ctx context.Context, bookID string) error {
	if f.addCartItem == nil {
		return nil
	}
	return f.addCartItem(ctx, bookID)
}

func (f *fakeClient) UpdateCartQuantity(ctx context.Context, lineID string, quantity int) error {
	if f.updateCartQuantity == nil {
		return nil
	}
	return f.updateCartQuantity(ctx, lineID, quantity)
}

func (f *fakeClient) RemoveCartItem(ctx context.Context, lineID string) error {
	if f.removeCartItem == nil {
		return nil
	}
	return f.removeCartItem(ctx, lineID)
}

func book(id string, price, discount float64) *models.Book {
	return &models.Book{ID: id, Title: "Book " + id, Price: price, DiscountPrice: discount}
}

func seededCoordinator(t *testing.T, client *fakeClient, lines []models.CartLine) *Coordinator {
	t.Helper()
	fetched := lines
	prev := client.getCartItems
	client.getCartItems = func(ctx context.Context) ([]models.CartLine, error) {
		return fetched, nil
	}
	c := NewCoordinator(client, nil)
	require.NoError(t, c.Refresh(context.Background()))
	client.getCartItems = prev
	return c
}

func TestRefreshDropsLinesWithoutBook(t *testing.T) {
	client := &fakeClient{
		getCartItems: func(ctx context.Context) ([]models.CartLine, error) {
			return []models.CartLine{
				{ID: "l1", Book: book("b1", 15, 10), Quantity: 2},
				{ID: "l2", Book: nil, Quantity: 1},
				{ID: "l3", Book: book("b3", 20, 20), Quantity: 0},
			}, nil
		},
	}

	c := NewCoordinator(client, nil)
	require.NoError(t, c.Refresh(context.Background()))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "l1", lines[0].ID)
	assert.Equal(t, "l3", lines[1].ID)
	// Quantity floor applies to fetched data too
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestTotalsRecomputedFromLines(t *testing.T) {
	client := &fakeClient{}
	c := seededCoordinator(t, client, []models.CartLine{
		{ID: "l1", Book: book("b1", 15, 10), Quantity: 2},
		{ID: "l2", Book: book("b2", 100, 80), Quantity: 1},
	})

	assert.Equal(t, 2*10.0+80.0, c.Total())
	assert.Equal(t, 2*5.0+20.0, c.Savings())

	require.NoError(t, c.Remove(context.Background(), "l2"))
	assert.Equal(t, 20.0, c.Total())
	assert.Equal(t, 10.0, c.Savings())
}

func TestDecrementAtFloorIssuesNoCall(t *testing.T) {
	calls := 0
	client := &fakeClient{
		updateCartQuantity: func(ctx context.Context, lineID string, quantity int) error {
			calls++
			return nil
		},
	}
	c := seededCoordinator(t, client, []models.CartLine{
		{ID: "l1", Book: book("b1", 15, 10), Quantity: 1},
	})

	require.NoError(t, c.Decrement(context.Background(), "l1"))

	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestIncrementPatchesLocalState(t *testing.T) {
	var gotQuantity int
	client := &fakeClient{
		updateCartQuantity: func(ctx context.Context, lineID string, quantity int) error {
			gotQuantity = quantity
			return nil
		},
	}
	c := seededCoordinator(t, client, []models.CartLine{
		{ID: "l1", Book: book("b1", 15, 10), Quantity: 2},
	})

	require.NoError(t, c.Increment(context.Background(), "l1"))

	assert.Equal(t, 3, gotQuantity)
	assert.Equal(t, 3, c.Lines()[0].Quantity)
}

func TestSetQuantity(t *testing.T) {
	var gotQuantity int
	client := &fakeClient{
		updateCartQuantity: func(ctx context.Context, lineID string, quantity int) error {
			gotQuantity = quantity
			return nil
		},
	}
	c := seededCoordinator(t, client, []models.CartLine{
		{ID: "l1", Book: book("b1", 15, 10), Quantity: 2},
	})

	require.NoError(t, c.SetQuantity(context.Background(), "l1", 5))
	assert.Equal(t, 5, gotQuantity)
	assert.Equal(t, 5, c.Lines()[0].Quantity)

	assert.Error(t, c.SetQuantity(context.Background(), "l1", 0))
	assert.Error(t, c.SetQuantity(context.Background(), "ghost", 2))
}

func TestQuantityChangeOnUnknownLine(t *testing.T) {
	c := seededCoordinator(t, &fakeClient{}, nil)
	assert.Error(t, c.Increment(context.Background(), "ghost"))
}

func TestFailedUpdateLeavesStateUntouched(t *testing.T) {
	client := &fakeClient{
		updateCartQuantity: func(ctx context.Context, lineID string, quantity int) error {
			return &bookstore.APIError{Status: 500, Message: "server exploded"}
		},
	}
	c := seededCoordinator(t, client, []models.CartLine{
		{ID: "l1", Book: book("b1", 15, 10), Quantity: 2},
	})

	err := c.Increment(context.Background(), "l1")
	assert.Error(t, err)
	assert.Equal(t, "server exploded", bookstore.UserMessage(err))
	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestConcurrentMutationOnSameLineSuppressed(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	client := &fakeClient{
		updateCartQuantity: func(ctx context.Context, lineID string, quantity int) error {
			close(entered)
			<-release
			return nil
		},
	}
	c := seededCoordinator(t, client, []models.CartLine{
		{ID: "l1", Book: book("b1", 15, 10), Quantity: 2},
	})

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- c.Increment(context.Background(), "l1")
	}()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("first mutation never reached the client")
	}

	assert.True(t, c.Pending("l1"))
	assert.ErrorIs(t, c.Increment(context.Background(), "l1"), ErrMutationInFlight)

	close(release)
	require.NoError(t, <-firstDone)
	assert.False(t, c.Pending("l1"))
}

func TestNoSessionFiresRedirectOnce(t *testing.T) {
	client := &fakeClient{
		removeCartItem: func(ctx context.Context, lineID string) error {
			return fmt.Errorf("session rejected: %w", bookstore.ErrNoSession)
		},
	}

	redirects := 0
	c := NewCoordinator(client, func() { redirects++ })

	fetched := []models.CartLine{{ID: "l1", Book: book("b1", 15, 10), Quantity: 1}}
	client.getCartItems = func(ctx context.Context) ([]models.CartLine, error) { return fetched, nil }
	require.NoError(t, c.Refresh(context.Background()))

	err := c.Remove(context.Background(), "l1")
	assert.ErrorIs(t, err, bookstore.ErrNoSession)
	assert.Equal(t, 1, redirects)
	assert.NotEmpty(t, bookstore.UserMessage(err))
}

func TestCheckoutClearsEveryLine(t *testing.T) {
	var removed []string
	client := &fakeClient{
		removeCartItem: func(ctx context.Context, lineID string) error {
			removed = append(removed, lineID)
			return nil
		},
	}
	c := seededCoordinator(t, client, []models.CartLine{
		{ID: "l1", Book: book("b1", 15, 10), Quantity: 1},
		{ID: "l2", Book: book("b2", 20, 18), Quantity: 2},
	})

	result, err := c.Checkout(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Complete())
	assert.Equal(t, []string{"l1", "l2"}, removed)
	assert.Empty(t, c.Lines())
}

func TestCheckoutPartialFailureKeepsRemainder(t *testing.T) {
	client := &fakeClient{
		removeCartItem: func(ctx context.Context, lineID string) error {
			if lineID == "l2" {
				return &bookstore.APIError{Status: 500, Message: "try later"}
			}
			return nil
		},
	}
	c := seededCoordinator(t, client, []models.CartLine{
		{ID: "l1", Book: book("b1", 15, 10), Quantity: 1},
		{ID: "l2", Book: book("b2", 20, 18), Quantity: 2},
		{ID: "l3", Book: book("b3", 30, 25), Quantity: 1},
	})

	result, err := c.Checkout(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Complete())
	assert.Equal(t, []string{"l1", "l3"}, result.Removed)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "l2", result.Failed[0].LineID)
	assert.Equal(t, "try later", result.Failed[0].Message)

	// The failed line is still in the cart for a retry of the remainder.
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "l2", lines[0].ID)

	// Retry succeeds once the server recovers.
	client.removeCartItem = func(ctx context.Context, lineID string) error { return nil }
	result, err = c.Checkout(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Complete())
	assert.Empty(t, c.Lines())
}

func TestCheckoutAbortsOnDeadSession(t *testing.T) {
	client := &fakeClient{
		removeCartItem: func(ctx context.Context, lineID string) error {
			return fmt.Errorf("session rejected: %w", bookstore.ErrNoSession)
		},
	}
	redirects := 0
	c := NewCoordinator(client, func() { redirects++ })
	client.getCartItems = func(ctx context.Context) ([]models.CartLine, error) {
		return []models.CartLine{
			{ID: "l1", Book: book("b1", 15, 10), Quantity: 1},
			{ID: "l2", Book: book("b2", 20, 18), Quantity: 1},
		}, nil
	}
	require.NoError(t, c.Refresh(context.Background()))

	result, err := c.Checkout(context.Background())
	assert.ErrorIs(t, err, bookstore.ErrNoSession)
	assert.False(t, result.Complete())
	assert.Equal(t, 1, redirects)
	// The second line was never attempted.
	assert.Len(t, result.Failed, 1)
}
