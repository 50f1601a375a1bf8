// bookstore is the command-line storefront for the bookstore API: browse the
// catalog, manage the cart and wishlist, and leave reviews.
package main

import (
	"fmt"
	"os"

	"github.com/booklane/bookstore-client/internal/logger"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "bookstore",
		Usage:   "Browse the bookstore, manage your cart and wishlist",
		Version: fmt.Sprintf("%s (%s) %s", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			registerCommand(),
			logoutCommand(),
			booksCommand(),
			bookCommand(),
			cartCommand(),
			checkoutCommand(),
			wishlistCommand(),
			reviewCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Get().Error("Error running application", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
