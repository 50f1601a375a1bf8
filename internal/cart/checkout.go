package cart

import (
	"context"

	"github.com/booklane/bookstore-client/internal/api/bookstore"
)

// LineFailure is one cart line that could not be removed during checkout.
type LineFailure struct {
	LineID  string
	Title   string
	Message string
}

// CheckoutResult reports how far a checkout got. Removals are independent
// calls, so a failure on one line does not roll back the others; the caller
// must not proceed to the confirmation view unless Complete reports true, and
// can re-run Checkout to retry just the remainder.
type CheckoutResult struct {
	Removed []string
	Failed  []LineFailure
}

// Complete reports whether every line was cleared.
func (r CheckoutResult) Complete() bool {
	return len(r.Failed) == 0
}

// Checkout empties the cart one line at a time, recording the outcome per
// line. Lines removed by an earlier partially-failed checkout are already
// gone from local state and are not retried.
func (c *Coordinator) Checkout(ctx context.Context) (CheckoutResult, error) {
	var result CheckoutResult

	for _, line := range c.Lines() {
		title := ""
		if line.Book != nil {
			title = line.Book.Title
		}

		if err := c.Remove(ctx, line.ID); err != nil {
			result.Failed = append(result.Failed, LineFailure{
				LineID:  line.ID,
				Title:   title,
				Message: bookstore.UserMessage(err),
			})
			// A dead session fails every remaining line the same way.
			if bookstore.IsNoSession(err) {
				return result, err
			}
			continue
		}
		result.Removed = append(result.Removed, line.ID)
	}

	c.log.Info("Checkout finished", map[string]interface{}{
		"removed": len(result.Removed),
		"failed":  len(result.Failed),
	})
	return result, nil
}
