package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"floure-storefront/middleware"
	"floure-storefront/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownGrace = 30 * time.Second

type ServeOptions struct {
	*RootOptions
	Port      string
	RateLimit int
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront gateway",
		Long: `Run the local HTTP gateway the browser front end talks to.

The gateway proxies catalog reads, owns this installation's cart and places
orders. It stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().IntVar(&opts.RateLimit, "rate-limit", 0, "write requests per minute per client (overrides RATE_LIMIT_PER_MINUTE)")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	a, err := newApp(opts.RootOptions, false)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if opts.Port != "" {
		port = opts.Port
	}
	perMinute := a.cfg.RateLimit
	if opts.RateLimit > 0 {
		perMinute = opts.RateLimit
	}
	limiter := middleware.NewRateLimiter(perMinute, time.Minute)
	defer limiter.Close()

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newRouter(a, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// The warm-up writes the cart reference, so the state database must
	// stay open until it is done.
	warmed := warmUp(ctx, a)
	defer func() { <-warmed }()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", zap.String("port", port), zap.String("api_url", a.client.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return WrapExitError(ExitFailure, "server failed", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "server forced to shutdown", err)
	}
	a.log.Info("server exited gracefully")
	return nil
}

// warmUp initializes the cart in the background so the first page load
// does not pay for it. Failure is not fatal: GET /api/cart retries. The
// returned channel closes once initialization has finished, even when ctx
// ends first.
func warmUp(ctx context.Context, a *app) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := a.engine.Initialize(context.WithoutCancel(ctx)); err != nil {
			a.log.Warn("cart warm-up failed", zap.Error(err))
		}
	}()
	return done
}

func newRouter(a *app, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(a.log))

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if a.cfg.FrontendURL != "" {
		origins = []string{a.cfg.FrontendURL}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(r, routes.Dependencies{
		API:      a.client,
		Engine:   a.engine,
		Checkout: a.checkout,
		Limiter:  limiter,
		Log:      a.log,
	})
	return r
}
