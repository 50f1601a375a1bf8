package catalog

const (
	// maxVisiblePages is the largest page count rendered without abbreviation.
	maxVisiblePages = 8
	// ellipsisThreshold is how close to an edge the current page must be
	// before the window stops moving with it.
	ellipsisThreshold = 5
)

// PageItem is one entry in the abbreviated page-index strip: either a page
// number or an ellipsis gap.
type PageItem struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// Controls is the rendered pagination strip plus prev/next enablement.
type Controls struct {
	Items       []PageItem
	PrevEnabled bool
	NextEnabled bool
}

// Pages returns just the page numbers in the strip, in order.
func (c Controls) Pages() []int {
	var pages []int
	for _, it := range c.Items {
		if !it.Ellipsis {
			pages = append(pages, it.Page)
		}
	}
	return pages
}

// PageControls builds the abbreviated page-index sequence: every page when
// the total fits, otherwise the first page, a window around the current page
// (clamped near the edges), and the last page, with ellipses where the window
// is detached from an edge.
func PageControls(totalPages, current int) Controls {
	c := Controls{
		PrevEnabled: current > 1,
		NextEnabled: current < totalPages,
	}
	if totalPages < 1 {
		c.NextEnabled = false
		return c
	}

	page := func(n int) PageItem { return PageItem{Page: n, Current: n == current} }

	if totalPages <= maxVisiblePages {
		for i := 1; i <= totalPages; i++ {
			c.Items = append(c.Items, page(i))
		}
		return c
	}

	startPage := current - 2
	if startPage < 1 {
		startPage = 1
	}
	endPage := current + 2
	if endPage > totalPages {
		endPage = totalPages
	}

	if current <= ellipsisThreshold {
		endPage = maxVisiblePages - 2
	} else if current >= totalPages-ellipsisThreshold+1 {
		startPage = totalPages - (maxVisiblePages - 3)
	}

	c.Items = append(c.Items, page(1))
	if startPage > 2 {
		c.Items = append(c.Items, PageItem{Ellipsis: true})
	}
	for i := startPage; i <= endPage; i++ {
		if i != 1 && i != totalPages {
			c.Items = append(c.Items, page(i))
		}
	}
	if endPage < totalPages-1 {
		c.Items = append(c.Items, PageItem{Ellipsis: true})
	}
	c.Items = append(c.Items, page(totalPages))

	return c
}
