package bookstore

import (
	"context"

	"github.com/booklane/bookstore-client/internal/models"
)

// ClientInterface defines the interface for the bookstore API client.
// This allows for mocking in tests.
type ClientInterface interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetReviews(ctx context.Context, bookID string) ([]models.Review, error)
	AddReview(ctx context.Context, bookID, comment string, rating int) error
	AddCartItem(ctx context.Context, bookID string) error
	GetCartItems(ctx context.Context) ([]models.CartLine, error)
	UpdateCartQuantity(ctx context.Context, lineID string, quantity int) error
	RemoveCartItem(ctx context.Context, lineID string) error
	AddToWishlist(ctx context.Context, bookID string) error
	RemoveFromWishlist(ctx context.Context, bookID string) error
	GetWishlist(ctx context.Context) ([]models.WishlistEntry, error)
}

// Ensure that the Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)
