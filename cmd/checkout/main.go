// Command checkout serves the KozyMacro pricing page and its Papara checkout modal.
//
//	@title			Papara Checkout API
//	@version		1.0
//	@description	Starts Papara payments for KozyMacro license packages.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kozymacro/papara-checkout/internal/api"
	"github.com/kozymacro/papara-checkout/internal/catalog"
	"github.com/kozymacro/papara-checkout/internal/checkout"
	"github.com/kozymacro/papara-checkout/internal/config"
	"github.com/kozymacro/papara-checkout/internal/database"
	"github.com/kozymacro/papara-checkout/internal/handler"
	"github.com/kozymacro/papara-checkout/internal/logger"
	"github.com/kozymacro/papara-checkout/internal/middleware"
	"github.com/kozymacro/papara-checkout/internal/payment"
	"github.com/kozymacro/papara-checkout/internal/repository"
	"github.com/kozymacro/papara-checkout/internal/session"
	"github.com/kozymacro/papara-checkout/internal/template"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "checkout",
		Usage: "Pricing page with Papara checkout for KozyMacro",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "payment-url",
				Value:   config.DefaultPaymentURL,
				Usage:   "Papara checkout endpoint of the payment service",
				EnvVars: []string{"PAYMENT_URL"},
			},
			&cli.StringFlag{
				Name:    "site-url",
				Value:   config.DefaultSiteURL,
				Usage:   "Site the buyer returns to after payment",
				EnvVars: []string{"SITE_URL"},
			},
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Package catalog TOML file (embedded catalog when empty)",
				EnvVars: []string{"CATALOG_FILE"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL URL for the checkout attempt log (disabled when empty)",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.IntFlag{
				Name:    "rate-limit",
				Value:   config.DefaultRateLimit,
				Usage:   "Requests per minute per IP address",
				EnvVars: []string{"RATE_LIMIT"},
			},
			&cli.BoolFlag{
				Name:    "trust-proxy",
				Usage:   "Take client IPs from X-Forwarded-For / X-Real-IP",
				EnvVars: []string{"TRUST_PROXY"},
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   config.DefaultSessionTTL,
				Usage:   "Idle time after which a checkout session is dropped",
				EnvVars: []string{"SESSION_TTL"},
			},
			&cli.DurationFlag{
				Name:    "payment-timeout",
				Usage:   "Timeout for calls to the payment service (0 = none)",
				EnvVars: []string{"PAYMENT_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := c.String("port")
	siteURL := c.String("site-url")

	cat, err := catalog.Load(c.String("catalog"))
	if err != nil {
		return fmt.Errorf("failed to load package catalog: %w", err)
	}

	client, err := payment.NewClient(c.String("payment-url"), payment.WithTimeout(c.Duration("payment-timeout")))
	if err != nil {
		return fmt.Errorf("failed to create payment client: %w", err)
	}

	formOpts := []checkout.Option{checkout.WithSiteURL(siteURL)}

	if databaseURL := c.String("database-url"); databaseURL != "" {
		pool, err := database.Connect(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		attempts, err := repository.NewAttemptRepository(pool)
		if err != nil {
			return fmt.Errorf("failed to create attempt repository: %w", err)
		}
		formOpts = append(formOpts, checkout.WithRecorder(attempts))
		slog.Info("checkout attempt log enabled")
	}

	newForm := func() (*checkout.Form, error) {
		return checkout.NewForm(client, formOpts...)
	}

	sessions, err := session.New(c.Duration("session-ttl"), newForm)
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}
	defer sessions.Close()

	tmpl, err := template.New()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	h, err := handler.New(cat, sessions, tmpl)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	apiHandler, err := api.New(cat, newForm)
	if err != nil {
		return fmt.Errorf("failed to create API handler: %w", err)
	}

	limiter, err := middleware.New(c.Int("rate-limit"),
		middleware.WithTrustProxy(c.Bool("trust-proxy")),
		middleware.WithExemptPrefixes("/static/", "/favicon.svg", "/swagger/"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}
	defer limiter.Close()

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	apiHandler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      middleware.CacheControl(limiter.Middleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server",
			"server_addr", "http://localhost:"+port,
			"payment_url", c.String("payment-url"),
			"packages", len(cat.Packages()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}
