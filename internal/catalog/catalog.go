// Package catalog turns the raw fetched book list plus the user's view
// parameters into the exact slice of books to render. Everything here is a
// pure function over its inputs; the catalog is small enough that re-deriving
// the whole view on every parameter change is fine.
package catalog

import (
	"sort"
	"strings"

	"github.com/booklane/bookstore-client/internal/models"
)

// SortKey selects the catalog ordering.
type SortKey string

const (
	// SortRelevance keeps the fetch order.
	SortRelevance SortKey = "relevance"
	// SortLowToHigh orders by ascending price.
	SortLowToHigh SortKey = "lowToHigh"
	// SortHighToLow orders by descending price.
	SortHighToLow SortKey = "highToLow"
)

// ParseSortKey maps a user-supplied string to a SortKey, defaulting to
// relevance for anything unrecognized.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortLowToHigh, SortHighToLow:
		return SortKey(s)
	default:
		return SortRelevance
	}
}

// ViewParameters is the client-only (search, sort, page) tuple driving the
// catalog display. Page is 1-indexed.
type ViewParameters struct {
	Query string
	Sort  SortKey
	Page  int
}

// DefaultPageSize is the number of books per catalog page (4 columns by
// 3 rows in the storefront grid).
const DefaultPageSize = 12

// ApplySort returns a sorted copy of books. Price sorts are stable and always
// push zero-price entries to the end regardless of direction: a missing price
// means "unpriced", not "free". Relevance performs no reordering.
func ApplySort(books []models.Book, key SortKey) []models.Book {
	out := make([]models.Book, len(books))
	copy(out, books)

	switch key {
	case SortLowToHigh:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Price, out[j].Price
			if (a == 0) != (b == 0) {
				return b == 0
			}
			return a < b
		})
	case SortHighToLow:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Price, out[j].Price
			if (a == 0) != (b == 0) {
				return b == 0
			}
			return a > b
		})
	}
	return out
}

// ApplyFilter returns the books whose title contains query, case-insensitive.
// An empty query is the identity. A book without a title never matches a
// non-empty query.
func ApplyFilter(books []models.Book, query string) []models.Book {
	if query == "" {
		return books
	}

	needle := strings.ToLower(query)
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if b.Title == "" {
			continue
		}
		if strings.Contains(strings.ToLower(b.Title), needle) {
			out = append(out, b)
		}
	}
	return out
}

// TotalPages returns the number of pages needed for n items. Zero items means
// zero pages.
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate returns the 1-indexed page slice. Out-of-range pages clamp
// silently to an empty or truncated slice; callers are expected to clamp the
// page number before asking.
func Paginate(books []models.Book, pageSize, page int) []models.Book {
	if pageSize <= 0 || page < 1 {
		return nil
	}

	start := (page - 1) * pageSize
	if start >= len(books) {
		return nil
	}
	end := start + pageSize
	if end > len(books) {
		end = len(books)
	}
	return books[start:end]
}

// View is one rendered catalog page.
type View struct {
	Items      []models.Book
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
	Controls   Controls
}

// BuildView applies the fixed composition sort, then filter, then paginate,
// clamping the requested page into range first.
func BuildView(books []models.Book, params ViewParameters, pageSize int) View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	filtered := ApplyFilter(ApplySort(books, params.Sort), params.Query)

	totalPages := TotalPages(len(filtered), pageSize)
	page := params.Page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	return View{
		Items:      Paginate(filtered, pageSize, page),
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(filtered),
		TotalPages: totalPages,
		Controls:   PageControls(totalPages, page),
	}
}
