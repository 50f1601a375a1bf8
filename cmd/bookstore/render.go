package main

import (
	"fmt"
	"strings"

	"github.com/booklane/bookstore-client/internal/cart"
	"github.com/booklane/bookstore-client/internal/catalog"
	"github.com/booklane/bookstore-client/internal/models"
)

// price formats a rupee amount the way the storefront shows it.
func price(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("Rs. %d", int64(v))
	}
	return fmt.Sprintf("Rs. %.2f", v)
}

// renderCatalogPage renders one page of the catalog grid with its pagination
// strip.
func renderCatalogPage(v catalog.View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Books (%d items)\n\n", v.TotalItems)

	if len(v.Items) == 0 {
		b.WriteString("No books available\n")
		return b.String()
	}

	for _, book := range v.Items {
		fmt.Fprintf(&b, "  %-26s %s\n", book.ID, book.Title)
		fmt.Fprintf(&b, "  %-26s by %s\n", "", book.Author)
		line := price(book.DiscountPrice)
		if book.Price > book.DiscountPrice {
			line += "  (" + price(book.Price) + ")"
		}
		fmt.Fprintf(&b, "  %-26s %s\n\n", "", line)
	}

	if v.TotalPages > 1 {
		b.WriteString(renderControls(v.Controls))
		b.WriteString("\n")
	}
	return b.String()
}

// renderControls renders the abbreviated page strip, bracketing the current
// page and greying out a disabled prev/next.
func renderControls(c catalog.Controls) string {
	parts := make([]string, 0, len(c.Items)+2)

	if c.PrevEnabled {
		parts = append(parts, "<")
	} else {
		parts = append(parts, " ")
	}
	for _, it := range c.Items {
		switch {
		case it.Ellipsis:
			parts = append(parts, "...")
		case it.Current:
			parts = append(parts, fmt.Sprintf("[%d]", it.Page))
		default:
			parts = append(parts, fmt.Sprintf("%d", it.Page))
		}
	}
	if c.NextEnabled {
		parts = append(parts, ">")
	} else {
		parts = append(parts, " ")
	}

	return strings.Join(parts, " ")
}

// renderBookDetail renders the detail view. When the book is already in the
// cart the add action is replaced by the quantity stepper.
func renderBookDetail(book models.Book, inCart bool, cartQuantity int, wishlisted bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", book.Title)
	fmt.Fprintf(&b, "by %s\n", book.Author)
	fmt.Fprintf(&b, "%s", price(book.DiscountPrice))
	if book.Price > book.DiscountPrice {
		fmt.Fprintf(&b, "  (%s)", price(book.Price))
	}
	b.WriteString("\n")

	if book.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", book.Description)
	}

	b.WriteString("\n")
	if inCart {
		fmt.Fprintf(&b, "[-] %d [+]\n", cartQuantity)
	} else {
		b.WriteString("[ADD TO CART]\n")
	}
	if wishlisted {
		b.WriteString("[WISHLISTED]\n")
	} else {
		b.WriteString("[WISHLIST]\n")
	}
	return b.String()
}

// renderReviews renders the feedback list under the detail view.
func renderReviews(reviews []models.Review) string {
	if len(reviews) == 0 {
		return "No customer feedback yet\n"
	}

	var b strings.Builder
	b.WriteString("Customer Feedback\n\n")
	for _, r := range reviews {
		rating := r.Rating
		if rating < 0 {
			rating = 0
		}
		if rating > 5 {
			rating = 5
		}
		stars := strings.Repeat("*", rating) + strings.Repeat(".", 5-rating)
		fmt.Fprintf(&b, "  %s  %s\n", stars, r.User.FullName)
		if r.Comment != "" {
			fmt.Fprintf(&b, "      %s\n", r.Comment)
		}
	}
	return b.String()
}

// renderCart renders the cart lines with totals recomputed from the lines.
func renderCart(lines []models.CartLine, total, savings float64) string {
	if len(lines) == 0 {
		return "Your cart is empty\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "My cart (%d)\n\n", len(lines))
	for _, line := range lines {
		fmt.Fprintf(&b, "  %-26s %s\n", line.ID, line.Book.Title)
		fmt.Fprintf(&b, "  %-26s by %s\n", "", line.Book.Author)
		fmt.Fprintf(&b, "  %-26s %s  [-] %d [+]\n\n", "", price(line.Book.DiscountPrice), line.Quantity)
	}
	fmt.Fprintf(&b, "Total: %s\n", price(total))
	if savings > 0 {
		fmt.Fprintf(&b, "You save: %s\n", price(savings))
	}
	return b.String()
}

// renderWishlist renders the wishlist entries.
func renderWishlist(entries []models.WishlistEntry) string {
	if len(entries) == 0 {
		return "Your wishlist is empty\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "My wishlist (%d)\n\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "  %-26s %s\n", e.Book.ID, e.Book.Title)
		fmt.Fprintf(&b, "  %-26s by %s, %s\n\n", "", e.Book.Author, price(e.Book.DiscountPrice))
	}
	return b.String()
}

// renderCheckout summarizes a checkout attempt. A partial failure names the
// lines still in the cart so the user can retry the remainder.
func renderCheckout(result cart.CheckoutResult) string {
	var b strings.Builder

	if result.Complete() {
		fmt.Fprintf(&b, "Order placed successfully (%d items)\n", len(result.Removed))
		return b.String()
	}

	fmt.Fprintf(&b, "Checkout incomplete: %d removed, %d failed\n", len(result.Removed), len(result.Failed))
	for _, f := range result.Failed {
		fmt.Fprintf(&b, "  %s (%s): %s\n", f.Title, f.LineID, f.Message)
	}
	b.WriteString("Run `bookstore checkout` again to retry the remaining items.\n")
	return b.String()
}
