package models

// Book is a single catalog entry as returned by the bookstore API.
// Books are read-only on the client: the server creates and updates them,
// we only hold a cached copy from the catalog fetch.
type Book struct {
	ID            string  `json:"_id"`
	Title         string  `json:"bookName"`
	Author        string  `json:"author"`
	Price         float64 `json:"price"`
	DiscountPrice float64 `json:"discountPrice"`
	Quantity      int     `json:"quantity"`
	Description   string  `json:"description"`
	CoverImage    string  `json:"bookImage"`
}

// Reviewer identifies the author of a review.
type Reviewer struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName"`
}

// Review is a single piece of feedback attached to a book.
type Review struct {
	ID      string   `json:"_id"`
	User    Reviewer `json:"user_id"`
	Comment string   `json:"comment"`
	Rating  int      `json:"rating"`
}
