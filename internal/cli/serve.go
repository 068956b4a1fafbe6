package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"

	"payroll-engine/internal/activity"
	"payroll-engine/internal/config"
	"payroll-engine/internal/engine"
	"payroll-engine/internal/handler"
)

// serveOptions are flags that override the loaded config for the server.
type serveOptions struct {
	port         string
	ratesFile    string
	ratesURL     string
	databasePath string
	cacheEntries int64
}

func (o *serveOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&o.ratesFile, "rates-file", "", "rate table file to load and watch")
	cmd.Flags().StringVar(&o.ratesURL, "rates-url", "", "remote rate registry base URL")
	cmd.Flags().StringVar(&o.databasePath, "db", "", "activity database path")
	cmd.Flags().Int64Var(&o.cacheEntries, "cache-entries", -1, "memoized calculation results (0 disables)")
}

func (o *serveOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = o.port
	}
	if flags.Changed("rates-file") {
		cfg.RatesFile = o.ratesFile
	}
	if flags.Changed("rates-url") {
		cfg.RatesURL = o.ratesURL
	}
	if flags.Changed("db") {
		cfg.DatabasePath = o.databasePath
	}
	if flags.Changed("cache-entries") {
		cfg.CacheEntries = o.cacheEntries
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitUsage, "invalid server options", err)
	}
	return nil
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, rootOpts *RootOptions, opts *serveOptions) error {
	cfg, err := loadConfig(cmd, rootOpts)
	if err != nil {
		return err
	}
	if err := opts.apply(cmd, cfg); err != nil {
		return err
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	eng, err := engine.New(reg, cfg.CacheEntries)
	if err != nil {
		return err
	}
	defer eng.Close()

	// A nil *activity.Store must not end up in the interface.
	var feed handler.ActivityLog
	if cfg.DatabasePath != "" {
		store, err := activity.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()
		feed = store
	}

	server := &fasthttp.Server{
		Handler:      handler.New(eng, reg, feed).Serve,
		Name:         "payroll-engine",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, server, cfg, func(ctx context.Context) error {
		if cfg.RatesFile == "" {
			return nil
		}
		return reg.Watch(ctx, cfg.RatesFile)
	})
}

// serve runs the server and watch until ctx is done or either fails.
func serve(ctx context.Context, server *fasthttp.Server, cfg *config.Config, watch func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("activity_db", cfg.DatabasePath).Infof("Payroll engine starting on port %s", cfg.Port)
		return server.ListenAndServe(cfg.Addr())
	})
	g.Go(func() error {
		return watch(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		return server.Shutdown()
	})

	return g.Wait()
}
