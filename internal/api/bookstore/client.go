package bookstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/booklane/bookstore-client/internal/logger"
	"github.com/booklane/bookstore-client/internal/models"
)

const (
	apiPath = "/bookstore_user"

	// authHeader is the custom header the bookstore API reads the session
	// token from.
	authHeader = "x-access-token"
)

// TokenSource provides the current session token. An empty string means there
// is no active session.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource backed by a fixed string, mainly for tests and
// one-shot tool use.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token() string { return string(s) }

// Client is a client for the bookstore API
type Client struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
	logger  *logger.Logger
}

// NewClient creates a new bookstore API client. Authenticated endpoints read
// the session token from tokens on every call, so a login performed after the
// client is built is picked up without rebuilding it.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	log := logger.Get().With().
		Str("component", "bookstore_client").
		Logger()

	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: &logger.Logger{Logger: log},
	}
}

// envelope is the response wrapper every bookstore endpoint uses. Login and
// registration leak a few fields outside result, so those ride along here.
type envelope struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Result      json.RawMessage `json:"result"`
	Token       string          `json:"token"`
	AccessToken string          `json:"accessToken"`
	FullName    string          `json:"fullName"`
}

// do issues a single API call and returns the decoded envelope. When auth is
// true the current token is attached; a missing token fails the call before
// it reaches the network, and a 401/403 response is mapped to the same
// condition.
func (c *Client) do(ctx context.Context, method, endpoint string, payload interface{}, auth bool) (*envelope, error) {
	log := c.logger.With().Str("method", method).Str("endpoint", endpoint).Logger()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPath+endpoint, body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token := ""
		if c.tokens != nil {
			token = c.tokens.Token()
		}
		if token == "" {
			log.Debug().Msg("No session token, refusing call")
			return nil, ErrNoSession
		}
		req.Header.Set(authHeader, token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read response body")
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(respBody) > 0 {
		// Tolerate non-JSON error bodies; the status check below still fires.
		_ = json.Unmarshal(respBody, &env)
	}

	// Only a rejected credential means the session is dead; a 401 on an
	// unauthenticated call (bad login) carries the server's own message.
	if auth && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		log.Warn().Int("status", resp.StatusCode).Msg("Session rejected by API")
		return nil, fmt.Errorf("session rejected (status %d): %w", resp.StatusCode, ErrNoSession)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().
			Int("status", resp.StatusCode).
			Str("response", string(respBody)).
			Msg("Unexpected status code")
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if !env.Success && env.Message != "" {
		log.Warn().Str("message", env.Message).Msg("API reported failure")
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}

// Login authenticates with email and password and returns the access token
// plus display name.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/login", req, false)
	if err != nil {
		return nil, err
	}

	var result struct {
		AccessToken string `json:"accessToken"`
		FullName    string `json:"fullName"`
	}
	if len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, &result); err != nil {
			return nil, fmt.Errorf("failed to decode login result: %w", err)
		}
	}

	if result.AccessToken == "" {
		return nil, &APIError{Status: http.StatusOK, Message: env.Message}
	}

	name := result.FullName
	if name == "" {
		name = env.FullName
	}
	if name == "" {
		name = models.DisplayNameFromEmail(req.Email)
	}

	c.logger.Info("Logged in", map[string]interface{}{"user": name})
	return &models.AuthResult{AccessToken: result.AccessToken, FullName: name}, nil
}

// Register creates a new account and returns the access token plus display
// name. The API is inconsistent about where the token lives for this call, so
// every observed location is checked.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/registration", req, false)
	if err != nil {
		return nil, err
	}

	var result struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
		FullName    string `json:"fullName"`
	}
	if len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, &result); err != nil {
			return nil, fmt.Errorf("failed to decode registration result: %w", err)
		}
	}

	token := result.Token
	if token == "" {
		token = result.AccessToken
	}
	if token == "" {
		token = env.Token
	}
	if token == "" {
		token = env.AccessToken
	}

	name := result.FullName
	if name == "" {
		name = env.FullName
	}
	if name == "" {
		name = models.DisplayNameFromEmail(req.Email)
	}

	c.logger.Info("Registered", map[string]interface{}{"user": name})
	return &models.AuthResult{AccessToken: token, FullName: name}, nil
}

// ListBooks fetches the full catalog. No session is required.
func (c *Client) ListBooks(ctx context.Context) ([]models.Book, error) {
	env, err := c.do(ctx, http.MethodGet, "/get/book", nil, false)
	if err != nil {
		return nil, err
	}

	var books []models.Book
	if err := json.Unmarshal(env.Result, &books); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	c.logger.Debug("Fetched catalog", map[string]interface{}{"count": len(books)})
	return books, nil
}

// GetReviews fetches the feedback entries for a book.
func (c *Client) GetReviews(ctx context.Context, bookID string) ([]models.Review, error) {
	if bookID == "" {
		return nil, fmt.Errorf("book ID is required")
	}

	env, err := c.do(ctx, http.MethodGet, "/get/feedback/"+bookID, nil, true)
	if err != nil {
		return nil, err
	}

	var reviews []models.Review
	if err := json.Unmarshal(env.Result, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// AddReview posts a comment and rating against a book.
func (c *Client) AddReview(ctx context.Context, bookID, comment string, rating int) error {
	if bookID == "" {
		return fmt.Errorf("book ID is required")
	}

	payload := struct {
		Comment string `json:"comment"`
		Rating  int    `json:"rating"`
	}{Comment: comment, Rating: rating}

	_, err := c.do(ctx, http.MethodPost, "/add/feedback/"+bookID, payload, true)
	return err
}

// AddCartItem adds one unit of a book to the cart. The server assigns the
// cart line and returns it on the next GetCartItems.
func (c *Client) AddCartItem(ctx context.Context, bookID string) error {
	if bookID == "" {
		return fmt.Errorf("book ID is required")
	}
	_, err := c.do(ctx, http.MethodPost, "/add_cart_item/"+bookID, struct{}{}, true)
	return err
}

// GetCartItems fetches the authoritative cart lines with their nested book
// snapshots.
func (c *Client) GetCartItems(ctx context.Context) ([]models.CartLine, error) {
	env, err := c.do(ctx, http.MethodGet, "/get_cart_items", nil, true)
	if err != nil {
		return nil, err
	}

	var lines []models.CartLine
	if err := json.Unmarshal(env.Result, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return lines, nil
}

// UpdateCartQuantity sets the quantity to buy on an existing cart line.
func (c *Client) UpdateCartQuantity(ctx context.Context, lineID string, quantity int) error {
	if lineID == "" {
		return fmt.Errorf("cart line ID is required")
	}

	payload := struct {
		QuantityToBuy int `json:"quantityToBuy"`
	}{QuantityToBuy: quantity}

	_, err := c.do(ctx, http.MethodPut, "/cart_item_quantity/"+lineID, payload, true)
	return err
}

// RemoveCartItem deletes a cart line.
func (c *Client) RemoveCartItem(ctx context.Context, lineID string) error {
	if lineID == "" {
		return fmt.Errorf("cart line ID is required")
	}
	_, err := c.do(ctx, http.MethodDelete, "/remove_cart_item/"+lineID, nil, true)
	return err
}

// AddToWishlist adds a book to the wishlist.
func (c *Client) AddToWishlist(ctx context.Context, bookID string) error {
	if bookID == "" {
		return fmt.Errorf("book ID is required")
	}

	payload := struct {
		BookID string `json:"bookId"`
	}{BookID: bookID}

	_, err := c.do(ctx, http.MethodPost, "/add_wish_list/"+bookID, payload, true)
	return err
}

// RemoveFromWishlist removes a book from the wishlist. The path parameter is
// the book ID, not the wishlist entry ID.
func (c *Client) RemoveFromWishlist(ctx context.Context, bookID string) error {
	if bookID == "" {
		return fmt.Errorf("book ID is required")
	}
	_, err := c.do(ctx, http.MethodDelete, "/remove_wishlist_item/"+bookID, nil, true)
	return err
}

// GetWishlist fetches the wishlist entries with their nested book snapshots.
func (c *Client) GetWishlist(ctx context.Context) ([]models.WishlistEntry, error) {
	env, err := c.do(ctx, http.MethodGet, "/get_wishlist_items", nil, true)
	if err != nil {
		return nil, err
	}

	var entries []models.WishlistEntry
	if err := json.Unmarshal(env.Result, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist: %w", err)
	}
	return entries, nil
}
