package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/booklane/bookstore-client/internal/api/bookstore"
	"github.com/booklane/bookstore-client/internal/catalog"
	"github.com/booklane/bookstore-client/internal/logger"
	"github.com/booklane/bookstore-client/internal/models"
	"github.com/booklane/bookstore-client/internal/validate"
	"github.com/urfave/cli/v2"
)

// formatFieldErrors flattens a validation error map into one message, fields
// in stable order.
func formatFieldErrors(errs map[string]string) error {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+errs[f])
	}
	return fmt.Errorf("invalid input:\n  %s", strings.Join(parts, "\n  "))
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and persist the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(c *cli.Context) error {
			if errs := validate.Login(c.String("email"), c.String("password")); len(errs) > 0 {
				return formatFieldErrors(errs)
			}

			env, err := newAppEnv(c)
			if err != nil {
				return err
			}

			result, err := env.client.Login(c.Context, models.LoginRequest{
				Email:    c.String("email"),
				Password: c.String("password"),
			})
			if err != nil {
				return fmt.Errorf("login failed: %s", bookstore.UserMessage(err))
			}

			if err := env.session.Save(result.AccessToken, result.FullName); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Logged in as %s\n", env.session.DisplayName())
			return nil
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and persist the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true, Usage: "Full name"},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "phone", Required: true, Usage: "10-digit mobile number"},
		},
		Action: func(c *cli.Context) error {
			errs := validate.Registration(c.String("name"), c.String("email"), c.String("password"), c.String("phone"))
			if len(errs) > 0 {
				return formatFieldErrors(errs)
			}

			env, err := newAppEnv(c)
			if err != nil {
				return err
			}

			result, err := env.client.Register(c.Context, models.RegisterRequest{
				FullName: c.String("name"),
				Email:    c.String("email"),
				Password: c.String("password"),
				Phone:    c.String("phone"),
			})
			if err != nil {
				return fmt.Errorf("registration failed: %s", bookstore.UserMessage(err))
			}

			if result.AccessToken == "" {
				fmt.Fprintln(c.App.Writer, "Account created. Run `bookstore login` to start a session.")
				return nil
			}
			if err := env.session.Save(result.AccessToken, result.FullName); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Registered as %s\n", env.session.DisplayName())
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Clear the persisted session",
		Action: func(c *cli.Context) error {
			env, err := newAppEnv(c)
			if err != nil {
				return err
			}
			if err := env.session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "Logged out")
			return nil
		},
	}
}

func booksCommand() *cli.Command {
	return &cli.Command{
		Name:  "books",
		Usage: "List the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "Filter titles by substring"},
			&cli.StringFlag{Name: "sort", Value: "relevance", Usage: "relevance, lowToHigh or highToLow"},
			&cli.IntFlag{Name: "page", Value: 1},
		},
		Action: func(c *cli.Context) error {
			env, err := newAppEnv(c)
			if err != nil {
				return err
			}

			books, err := env.client.ListBooks(c.Context)
			if err != nil {
				return fmt.Errorf("failed to fetch catalog: %s", bookstore.UserMessage(err))
			}

			view := catalog.BuildView(books, catalog.ViewParameters{
				Query: c.String("search"),
				Sort:  catalog.ParseSortKey(c.String("sort")),
				Page:  c.Int("page"),
			}, env.cfg.Catalog.PageSize)

			fmt.Fprint(c.App.Writer, renderCatalogPage(view))
			return nil
		},
	}
}

func bookCommand() *cli.Command {
	return &cli.Command{
		Name:      "book",
		Usage:     "Show one book with feedback",
		ArgsUsage: "<book-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: bookstore book <book-id>")
			}
			bookID := c.Args().First()

			env, err := newAppEnv(c)
			if err != nil {
				return err
			}

			books, err := env.client.ListBooks(c.Context)
			if err != nil {
				return fmt.Errorf("failed to fetch catalog: %s", bookstore.UserMessage(err))
			}

			var book *models.Book
			for i := range books {
				if books[i].ID == bookID {
					book = &books[i]
					break
				}
			}
			if book == nil {
				return fmt.Errorf("no book with id %q", bookID)
			}

			// Cart and wishlist state only render for a logged-in session.
			inCart := false
			cartQuantity := 0
			wishlisted := false
			if env.session.LoggedIn() {
				if err := env.cart.Refresh(c.Context); err == nil {
					for _, line := range env.cart.Lines() {
						if line.Book.ID == bookID {
							inCart = true
							cartQuantity = line.Quantity
							break
						}
					}
				}
				var werr error
				wishlisted, werr = env.wishlist.Contains(c.Context, bookID)
				if werr != nil {
					logger.Get().Debug("Wishlist state unavailable", map[string]interface{}{
						"error": werr.Error(),
					})
				}
			}

			fmt.Fprint(c.App.Writer, renderBookDetail(*book, inCart, cartQuantity, wishlisted))

			if env.session.LoggedIn() {
				reviews, err := env.client.GetReviews(c.Context, bookID)
				if err == nil {
					fmt.Fprintln(c.App.Writer)
					fmt.Fprint(c.App.Writer, renderReviews(reviews))
				}
			}
			return nil
		},
	}
}

func cartCommand() *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "Show or change the cart",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a book to the cart",
				ArgsUsage: "<book-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("usage: bookstore cart add <book-id>")
					}
					env, err := newAppEnv(c)
					if err != nil {
						return err
					}
					if err := env.cart.Add(c.Context, c.Args().First()); err != nil {
						return fmt.Errorf("%s", bookstore.UserMessage(err))
					}
					fmt.Fprintln(c.App.Writer, "Added to cart")
					return nil
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a cart line",
				ArgsUsage: "<line-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("usage: bookstore cart remove <line-id>")
					}
					env, err := newAppEnv(c)
					if err != nil {
						return err
					}
					if err := env.cart.Refresh(c.Context); err != nil {
						return fmt.Errorf("%s", bookstore.UserMessage(err))
					}
					if err := env.cart.Remove(c.Context, c.Args().First()); err != nil {
						return fmt.Errorf("%s", bookstore.UserMessage(err))
					}
					fmt.Fprintln(c.App.Writer, "Removed from cart")
					return nil
				},
			},
			{
				Name:      "quantity",
				Usage:     "Set a line's quantity",
				ArgsUsage: "<line-id> <n>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("usage: bookstore cart quantity <line-id> <n>")
					}
					n, err := strconv.Atoi(c.Args().Get(1))
					if err != nil || n < 1 {
						return fmt.Errorf("quantity must be a positive number")
					}
					env, err := newAppEnv(c)
					if err != nil {
						return err
					}
					if err := env.cart.Refresh(c.Context); err != nil {
						return fmt.Errorf("%s", bookstore.UserMessage(err))
					}
					if err := env.cart.SetQuantity(c.Context, c.Args().First(), n); err != nil {
						return fmt.Errorf("%s", bookstore.UserMessage(err))
					}
					fmt.Fprintf(c.App.Writer, "Quantity set to %d\n", n)
					return nil
				},
			},
			{
				Name:      "inc",
				Usage:     "Raise a line's quantity by one",
				ArgsUsage: "<line-id>",
				Action:    quantityAction(+1),
			},
			{
				Name:      "dec",
				Usage:     "Lower a line's quantity by one (never below 1)",
				ArgsUsage: "<line-id>",
				Action:    quantityAction(-1),
			},
		},
		Action: func(c *cli.Context) error {
			env, err := newAppEnv(c)
			if err != nil {
				return err
			}
			if err := env.cart.Refresh(c.Context); err != nil {
				return fmt.Errorf("%s", bookstore.UserMessage(err))
			}
			fmt.Fprint(c.App.Writer, renderCart(env.cart.Lines(), env.cart.Total(), env.cart.Savings()))
			return nil
		},
	}
}

func quantityAction(delta int) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("usage: bookstore cart %s <line-id>", map[int]string{+1: "inc", -1: "dec"}[delta])
		}
		env, err := newAppEnv(c)
		if err != nil {
			return err
		}
		if err := env.cart.Refresh(c.Context); err != nil {
			return fmt.Errorf("%s", bookstore.UserMessage(err))
		}

		lineID := c.Args().First()
		if delta > 0 {
			err = env.cart.Increment(c.Context, lineID)
		} else {
			err = env.cart.Decrement(c.Context, lineID)
		}
		if err != nil {
			return fmt.Errorf("%s", bookstore.UserMessage(err))
		}

		for _, line := range env.cart.Lines() {
			if line.ID == lineID {
				fmt.Fprintf(c.App.Writer, "%s: quantity %d\n", line.Book.Title, line.Quantity)
			}
		}
		return nil
	}
}

func checkoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "checkout",
		Usage: "Place the order by clearing the cart",
		Action: func(c *cli.Context) error {
			env, err := newAppEnv(c)
			if err != nil {
				return err
			}
			if err := env.cart.Refresh(c.Context); err != nil {
				return fmt.Errorf("%s", bookstore.UserMessage(err))
			}
			if len(env.cart.Lines()) == 0 {
				fmt.Fprintln(c.App.Writer, "Your cart is empty")
				return nil
			}

			result, err := env.cart.Checkout(c.Context)
			fmt.Fprint(c.App.Writer, renderCheckout(result))
			if err != nil {
				return fmt.Errorf("%s", bookstore.UserMessage(err))
			}
			return nil
		},
	}
}

func wishlistCommand() *cli.Command {
	return &cli.Command{
		Name:  "wishlist",
		Usage: "Show or change the wishlist",
		Subcommands: []*cli.Command{
			{
				Name:      "toggle",
				Usage:     "Add or remove a book",
				ArgsUsage: "<book-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("usage: bookstore wishlist toggle <book-id>")
					}
					env, err := newAppEnv(c)
					if err != nil {
						return err
					}
					on, err := env.wishlist.Toggle(c.Context, c.Args().First())
					if err != nil {
						return fmt.Errorf("%s", bookstore.UserMessage(err))
					}
					if on {
						fmt.Fprintln(c.App.Writer, "Added to wishlist")
					} else {
						fmt.Fprintln(c.App.Writer, "Removed from wishlist")
					}
					return nil
				},
			},
		},
		Action: func(c *cli.Context) error {
			env, err := newAppEnv(c)
			if err != nil {
				return err
			}
			entries, err := env.wishlist.Entries(c.Context)
			if err != nil {
				return fmt.Errorf("%s", bookstore.UserMessage(err))
			}
			fmt.Fprint(c.App.Writer, renderWishlist(entries))
			return nil
		},
	}
}

func reviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "review",
		Usage:     "Leave feedback on a book",
		ArgsUsage: "<book-id>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rating", Required: true, Usage: "1 to 5"},
			&cli.StringFlag{Name: "comment"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: bookstore review <book-id> --rating N [--comment TEXT]")
			}
			rating := c.Int("rating")
			if rating < 1 || rating > 5 {
				return fmt.Errorf("rating must be between 1 and 5")
			}

			env, err := newAppEnv(c)
			if err != nil {
				return err
			}
			if err := env.client.AddReview(c.Context, c.Args().First(), c.String("comment"), rating); err != nil {
				return fmt.Errorf("%s", bookstore.UserMessage(err))
			}
			fmt.Fprintln(c.App.Writer, "Feedback submitted")
			return nil
		},
	}
}
