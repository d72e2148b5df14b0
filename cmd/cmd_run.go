package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/core/host"
	hosthttphandler "github.com/gaze-network/ticket-ledger/core/host/api/httphandler"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/core/storage"
	"github.com/gaze-network/ticket-ledger/internal/config"
	"github.com/gaze-network/ticket-ledger/internal/notifier"
	"github.com/gaze-network/ticket-ledger/internal/postgres"
	"github.com/gaze-network/ticket-ledger/internal/storage/memory"
	pgstore "github.com/gaze-network/ticket-ledger/internal/storage/postgres"
	redisstore "github.com/gaze-network/ticket-ledger/internal/storage/redis"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry"
	registryhttphandler "github.com/gaze-network/ticket-ledger/modules/eventregistry/api/httphandler"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment"
	paymenthttphandler "github.com/gaze-network/ticket-ledger/modules/ticketpayment/api/httphandler"
	"github.com/gaze-network/ticket-ledger/pkg/automaxprocs"
	"github.com/gaze-network/ticket-ledger/pkg/errorhandler"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
	"github.com/gaze-network/ticket-ledger/pkg/metrics"
	"github.com/gaze-network/ticket-ledger/pkg/middleware/requestcontext"
	"github.com/gaze-network/ticket-ledger/pkg/middleware/requestlogger"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// HttpHandler is the API surface a module mounts on the HTTP server.
type HttpHandler interface {
	Mount(router fiber.Router) error
}

// Register Modules
var Modules = do.Package(
	do.LazyNamed(common.ModuleEventRegistry.String(), func(i do.Injector) (HttpHandler, error) {
		return registryhttphandler.New(do.MustInvoke[*eventregistry.Registry](i)), nil
	}),
	do.LazyNamed(common.ModuleTicketPayment.String(), func(i do.Injector) (HttpHandler, error) {
		conf := do.MustInvoke[config.Config](i)
		return paymenthttphandler.New(do.MustInvoke[*ticketpayment.Ledger](i), conf.Payment.TokenDecimals), nil
	}),
)

var modules = []common.Module{
	common.ModuleEventRegistry,
	common.ModuleTicketPayment,
}

func NewRunCommand() *cobra.Command {
	// Create command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start ticket-ledger service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := automaxprocs.Init(); err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			defer automaxprocs.Undo()
			return runHandler(cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.String("store", "", "Store driver. E.g. `memory`, `postgres` or `redis`")
	flags.Int("port", 0, "HTTP server port")

	// Bind flags to configuration
	config.BindPFlag("store.driver", flags.Lookup("store"))
	config.BindPFlag("http_server.port", flags.Lookup("port"))

	return runCmd
}

const (
	shutdownTimeout = 60 * time.Second
)

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Validate inputs and configurations
	{
		if !conf.Network.IsSupported() {
			return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
		}
	}

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, slogx.Stringer(logger.NetworkKey, conf.Network))

	injector := do.New(Modules)
	do.ProvideValue(injector, conf)

	// Initialize store
	do.Provide(injector, func(i do.Injector) (storage.Store, error) {
		conf := do.MustInvoke[config.Config](i)
		ctx := logger.WithContext(ctx, slog.String("store", conf.Store.Driver))

		switch conf.Store.Driver {
		case "", config.StoreDriverMemory:
			logger.WarnContext(ctx, "Using in-memory store, the ledger state is lost on shutdown")
			return memory.New(), nil
		case config.StoreDriverPostgres:
			pool, err := postgres.NewPool(ctx, conf.Store.Postgres)
			if err != nil {
				return nil, errors.Wrap(err, "can't create postgres connection pool")
			}
			return pgstore.New(pool, pool.Close), nil
		case config.StoreDriverRedis:
			client, err := redisstore.NewClient(ctx, conf.Store.Redis)
			if err != nil {
				return nil, errors.Wrap(err, "can't create redis client")
			}
			return redisstore.New(client, conf.Store.Redis.KeyPrefix), nil
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q store driver is not supported", conf.Store.Driver)
		}
	})

	// Initialize metrics
	do.Provide(injector, func(i do.Injector) (*metrics.Metrics, error) {
		conf := do.MustInvoke[config.Config](i)
		if !conf.Metrics.Enabled {
			return nil, nil
		}
		return metrics.New(conf.Metrics), nil
	})

	// Initialize notifiers
	do.Provide(injector, func(i do.Injector) (notifier.Multi, error) {
		conf := do.MustInvoke[config.Config](i)
		var notifiers notifier.Multi
		if conf.Notifier.Log {
			notifiers = append(notifiers, notifier.Log{})
		}
		if conf.Notifier.Webhook.URL != "" {
			webhook, err := notifier.NewWebhook(conf.Notifier.Webhook)
			if err != nil {
				return nil, errors.Wrap(err, "invalid webhook notifier configuration")
			}
			notifiers = append(notifiers, webhook)
		}
		if conf.Notifier.AMQP.URL != "" {
			amqp, err := notifier.DialAMQP(conf.Notifier.AMQP)
			if err != nil {
				return nil, errors.Wrap(err, "can't create amqp notifier")
			}
			notifiers = append(notifiers, amqp)
		}
		return notifiers, nil
	})

	// Initialize host environment and contracts
	do.Provide(injector, func(i do.Injector) (*host.Env, error) {
		conf := do.MustInvoke[config.Config](i)
		store, err := do.Invoke[storage.Store](i)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		notifiers, err := do.Invoke[notifier.Multi](i)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return host.New(conf.Network, store,
			host.WithNotifier(notification.Notifier(notifiers)),
			host.WithMetrics(do.MustInvoke[*metrics.Metrics](i)),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (*eventregistry.Registry, error) {
		conf := do.MustInvoke[config.Config](i)
		return eventregistry.New(do.MustInvoke[*host.Env](i), conf.Registry.Name), nil
	})
	do.Provide(injector, func(i do.Injector) (*ticketpayment.Ledger, error) {
		conf := do.MustInvoke[config.Config](i)
		return ticketpayment.New(do.MustInvoke[*host.Env](i), conf.Payment.Name, do.MustInvoke[*eventregistry.Registry](i)), nil
	})

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		conf := do.MustInvoke[config.Config](i)
		withClientIP, err := requestcontext.WithClientIP(conf.HTTPServer.RequestIP)
		if err != nil {
			return nil, errors.Wrap(err, "invalid http_server.request_ip configuration")
		}

		app := fiber.New(fiber.Config{
			AppName:      "Ticket Ledger",
			ErrorHandler: errorhandler.NewHTTPErrorHandler(),
		})
		app.
			Use(favicon.New()).
			Use(cors.New()).
			Use(requestid.New()).
			Use(requestcontext.New(
				requestcontext.WithRequestId(),
				withClientIP,
			)).
			Use(requestlogger.New(conf.HTTPServer.Logger)).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024) // bufLen = 1024
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", slogx.Any("panic", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		if m := do.MustInvoke[*metrics.Metrics](i); m != nil {
			app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
		}
		if err := hosthttphandler.New(do.MustInvoke[*host.Env](i), conf.Payment.TokenDecimals).Mount(app); err != nil {
			return nil, errors.Wrap(err, "can't mount host api")
		}
		return app, nil
	})

	// Seed genesis balances
	{
		genesis, err := parseGenesis(conf.Genesis)
		if err != nil {
			return errors.Wrap(err, "invalid genesis configuration")
		}
		env, err := do.Invoke[*host.Env](injector)
		if err != nil {
			return errors.Wrap(err, "can't init host environment")
		}
		applied, err := env.ApplyGenesis(ctx, genesis)
		if err != nil {
			return errors.Wrap(err, "can't apply genesis")
		}
		if applied {
			logger.InfoContext(ctx, "Applied genesis balances", slog.String("token", genesis.Token), slog.Int("accounts", len(genesis.Balances)))
		}
	}

	// Mount modules
	httpServer, err := do.Invoke[*fiber.App](injector)
	if err != nil {
		return errors.Wrap(err, "can't init http server")
	}
	for _, module := range modules {
		ctx := logger.WithContext(ctx, slogx.Stringer("module", module))
		handler, err := do.InvokeNamed[HttpHandler](injector, module.String())
		if err != nil {
			return errors.Wrapf(err, "can't init module %q", module)
		}
		if err := handler.Mount(httpServer); err != nil {
			return errors.Wrapf(err, "can't mount module %q", module)
		}
		logger.InfoContext(ctx, "Mounted module API")
	}

	// Run API server
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.PanicContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	logger.InfoContext(ctx, "Ticket Ledger started")

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.ShutdownWithContext(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Failed while gracefully shutting down HTTP server", slogx.Error(err))
	}
	if notifiers, err := do.Invoke[notifier.Multi](injector); err == nil {
		if err := notifiers.Close(); err != nil {
			logger.ErrorContext(shutdownCtx, "Failed to close notifiers", slogx.Error(err))
		}
	}
	if store, err := do.Invoke[storage.Store](injector); err == nil {
		if err := store.Close(shutdownCtx); err != nil {
			logger.ErrorContext(shutdownCtx, "Failed to close store", slogx.Error(err))
		}
	}

	logger.InfoContext(shutdownCtx, "Ticket Ledger stopped")
	return nil
}

func parseGenesis(conf config.GenesisConfig) (host.Genesis, error) {
	genesis := host.Genesis{
		Token:    conf.Token,
		Balances: make([]host.GenesisBalance, 0, len(conf.Balances)),
	}
	for _, b := range conf.Balances {
		addr, err := common.ParseAddress(b.Address)
		if err != nil {
			return host.Genesis{}, errors.Wrapf(err, "invalid address %q", b.Address)
		}
		amount, err := uint128.FromString(b.Amount)
		if err != nil {
			return host.Genesis{}, errors.Wrapf(errs.InvalidArgument, "invalid amount %q of %s", b.Amount, addr)
		}
		genesis.Balances = append(genesis.Balances, host.GenesisBalance{Address: addr, Amount: amount})
	}
	return genesis, nil
}
