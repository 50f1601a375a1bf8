package models

// CartLine is one server-tracked cart entry: a book plus the quantity to buy.
// The nested book snapshot may be nil when the referenced book was deleted
// server-side; callers must filter such lines out.
type CartLine struct {
	ID       string `json:"_id"`
	Book     *Book  `json:"product_id"`
	Quantity int    `json:"quantityToBuy"`
}

// WishlistEntry is one server-tracked reference from the user to a book.
// Book may be nil for the same reason as CartLine.Book.
type WishlistEntry struct {
	ID   string `json:"_id"`
	Book *Book  `json:"product_id"`
}
