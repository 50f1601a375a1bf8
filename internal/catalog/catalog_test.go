package catalog

import (
	"testing"

	"github.com/booklane/bookstore-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(books []models.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortLowToHigh, ParseSortKey("lowToHigh"))
	assert.Equal(t, SortHighToLow, ParseSortKey("highToLow"))
	assert.Equal(t, SortRelevance, ParseSortKey("relevance"))
	assert.Equal(t, SortRelevance, ParseSortKey(""))
	assert.Equal(t, SortRelevance, ParseSortKey("cheapest"))
}

func TestApplySortPriceDirections(t *testing.T) {
	books := []models.Book{
		{Title: "Free A", Price: 0},
		{Title: "Mid", Price: 250},
		{Title: "Cheap", Price: 99},
		{Title: "Free B", Price: 0},
		{Title: "Dear", Price: 999},
	}

	lowToHigh := ApplySort(books, SortLowToHigh)
	assert.Equal(t, []string{"Cheap", "Mid", "Dear", "Free A", "Free B"}, titles(lowToHigh))

	highToLow := ApplySort(books, SortHighToLow)
	assert.Equal(t, []string{"Dear", "Mid", "Cheap", "Free A", "Free B"}, titles(highToLow))

	// Input order untouched
	assert.Equal(t, "Free A", books[0].Title)
}

func TestApplySortRelevanceKeepsFetchOrder(t *testing.T) {
	books := []models.Book{
		{Title: "B", Price: 300},
		{Title: "A", Price: 100},
		{Title: "C", Price: 200},
	}

	sorted := ApplySort(books, SortRelevance)
	assert.Equal(t, []string{"B", "A", "C"}, titles(sorted))
}

func TestApplySortZeroPriceAlwaysLast(t *testing.T) {
	books := []models.Book{
		{Title: "Unpriced 1", Price: 0},
		{Title: "Priced", Price: 10},
		{Title: "Unpriced 2", Price: 0},
	}

	for _, key := range []SortKey{SortLowToHigh, SortHighToLow} {
		sorted := ApplySort(books, key)
		require.Len(t, sorted, 3)
		assert.Equal(t, "Priced", sorted[0].Title, "key %s", key)
		assert.Zero(t, sorted[1].Price)
		assert.Zero(t, sorted[2].Price)
	}
}

func TestApplyFilterCaseInsensitiveSubstring(t *testing.T) {
	books := []models.Book{
		{Title: "The Alchemist"},
		{Title: "Atlas Shrugged"},
	}

	assert.Equal(t, []string{"The Alchemist"}, titles(ApplyFilter(books, "the")))
	assert.Equal(t, []string{"The Alchemist", "Atlas Shrugged"}, titles(ApplyFilter(books, "")))
	assert.Empty(t, ApplyFilter(books, "zebra"))
}

func TestApplyFilterMissingTitleNeverMatches(t *testing.T) {
	books := []models.Book{
		{ID: "1"},
		{ID: "2", Title: "Named"},
	}

	assert.Equal(t, []string{"Named"}, titles(ApplyFilter(books, "n")))
}

func TestPaginate(t *testing.T) {
	books := make([]models.Book, 13)
	for i := range books {
		books[i].ID = string(rune('a' + i))
	}

	page1 := Paginate(books, 12, 1)
	assert.Len(t, page1, 12)

	page2 := Paginate(books, 12, 2)
	require.Len(t, page2, 1)
	assert.Equal(t, books[12].ID, page2[0].ID)

	assert.Empty(t, Paginate(books, 12, 3))
	assert.Empty(t, Paginate(books, 12, 0))
	assert.Empty(t, Paginate(nil, 12, 1))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 2, TotalPages(13, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 0, TotalPages(0, 12))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestPageControlsSmallTotal(t *testing.T) {
	c := PageControls(2, 1)

	assert.Equal(t, []int{1, 2}, c.Pages())
	assert.False(t, c.PrevEnabled)
	assert.True(t, c.NextEnabled)

	c = PageControls(2, 2)
	assert.True(t, c.PrevEnabled)
	assert.False(t, c.NextEnabled)
}

func TestPageControlsWindowing(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		current  int
		pages    []int
		ellipses int
	}{
		{"near start", 20, 1, []int{1, 2, 3, 4, 5, 6, 20}, 1},
		{"middle", 20, 10, []int{1, 8, 9, 10, 11, 12, 20}, 2},
		{"near end", 20, 18, []int{1, 15, 16, 17, 18, 19, 20}, 1},
		{"exactly eight pages", 8, 4, []int{1, 2, 3, 4, 5, 6, 7, 8}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := PageControls(tt.total, tt.current)
			assert.Equal(t, tt.pages, c.Pages())

			gaps := 0
			for _, it := range c.Items {
				if it.Ellipsis {
					gaps++
				}
			}
			assert.Equal(t, tt.ellipses, gaps)

			for _, it := range c.Items {
				if !it.Ellipsis {
					assert.Equal(t, it.Page == tt.current, it.Current)
				}
			}
		})
	}
}

func TestBuildViewComposition(t *testing.T) {
	books := []models.Book{
		{Title: "The Alchemist", Price: 200},
		{Title: "Atlas Shrugged", Price: 100},
		{Title: "The Hobbit", Price: 0},
		{Title: "Dune", Price: 300},
	}

	v := BuildView(books, ViewParameters{Query: "the", Sort: SortLowToHigh, Page: 1}, 12)

	// Sort happens before filter: priced matches first, unpriced last.
	assert.Equal(t, []string{"The Alchemist", "The Hobbit"}, titles(v.Items))
	assert.Equal(t, 2, v.TotalItems)
	assert.Equal(t, 1, v.TotalPages)
}

func TestBuildViewThirteenItems(t *testing.T) {
	books := make([]models.Book, 13)
	for i := range books {
		books[i].Title = "Book"
		books[i].Price = float64(i + 1)
	}

	v := BuildView(books, ViewParameters{Page: 1}, 12)
	assert.Len(t, v.Items, 12)
	assert.Equal(t, []int{1, 2}, v.Controls.Pages())
	assert.True(t, v.Controls.NextEnabled)
	assert.False(t, v.Controls.PrevEnabled)

	v = BuildView(books, ViewParameters{Page: 2}, 12)
	assert.Len(t, v.Items, 1)
	assert.False(t, v.Controls.NextEnabled)
	assert.True(t, v.Controls.PrevEnabled)
}

func TestBuildViewClampsPage(t *testing.T) {
	books := []models.Book{{Title: "Only"}}

	v := BuildView(books, ViewParameters{Page: 99}, 12)
	assert.Equal(t, 1, v.Page)
	assert.Len(t, v.Items, 1)

	v = BuildView(nil, ViewParameters{Page: 3}, 12)
	assert.Empty(t, v.Items)
	assert.Equal(t, 0, v.TotalPages)
}
