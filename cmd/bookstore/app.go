package main

import (
	"fmt"

	"github.com/booklane/bookstore-client/internal/api/bookstore"
	"github.com/booklane/bookstore-client/internal/cart"
	"github.com/booklane/bookstore-client/internal/config"
	"github.com/booklane/bookstore-client/internal/logger"
	"github.com/booklane/bookstore-client/internal/session"
	"github.com/booklane/bookstore-client/internal/wishlist"
	"github.com/urfave/cli/v2"
)

// appEnv wires the session store, gateway client and coordinators together
// for one command invocation.
type appEnv struct {
	cfg      *config.Config
	session  *session.Store
	client   *bookstore.Client
	cart     *cart.Coordinator
	wishlist *wishlist.Coordinator
}

// newAppEnv loads configuration and builds the component graph. The
// coordinators share a redirect signal that tells the user to log in, the
// CLI's version of navigating to the login view.
func newAppEnv(c *cli.Context) (*appEnv, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Errors before this point log with logger.Get's defaults.
	logger.Setup(logger.Config{
		Level:  cfg.Logging.Level,
		Format: logger.ParseLogFormat(cfg.Logging.Format),
	})
	log := logger.Get()

	store, err := session.Open(cfg.Session.Path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client := bookstore.NewClient(cfg.API.BaseURL, store, cfg.API.Timeout)

	redirect := func() {
		fmt.Fprintln(c.App.ErrWriter, "You are not logged in. Run `bookstore login` first.")
	}

	return &appEnv{
		cfg:      cfg,
		session:  store,
		client:   client,
		cart:     cart.NewCoordinator(client, redirect),
		wishlist: wishlist.NewCoordinator(client, cfg.Wishlist.CacheTTL, redirect),
	}, nil
}
