package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"goflare.io/atelier"
	"goflare.io/atelier/cart"
	"goflare.io/atelier/catalog"
	"goflare.io/atelier/config"
	"goflare.io/atelier/driver"
	"goflare.io/atelier/emailtemplate"
	"goflare.io/atelier/event"
	"goflare.io/atelier/httpapi"
	"goflare.io/atelier/mailer"
	"goflare.io/atelier/metrics"
	"goflare.io/atelier/order"
	"goflare.io/atelier/testimonial"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Storefront stopped", zap.Error(err))
	}
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. 資料庫
	if err := driver.RunMigrations(cfg.DatabaseURL); err != nil {
		return err
	}
	db, err := driver.ConnectSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Pool.Close()
	tm := driver.NewTransactionManager(db.Pool, logger)

	// 2. Redis: durable carts and the catalog cache
	var (
		cartStorage  cart.Storage = cart.NewMemoryStorage()
		catalogCache catalog.Cache
	)
	if cfg.RedisAddr != "" {
		rdb, err := driver.ConnectRedis(ctx, driver.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		cartStorage = cart.NewRedisStorage(rdb, cfg.CartTTL)
		catalogCache = catalog.NewRedisCache(rdb)
	} else {
		logger.Warn("REDIS_ADDR not set, carts are kept in memory")
	}

	// 3. NATS: background customer confirmations
	var bus atelier.NATSConn
	if cfg.NATSURL != "" {
		nc, err := driver.ConnectNATS(cfg.NATSURL, "atelier-storefront", logger)
		if err != nil {
			return err
		}
		defer nc.Close()
		bus = nc
	} else {
		logger.Warn("NATS_URL not set, customer confirmations are sent inline")
	}

	// 4. Mail
	from := cfg.SMTP.Username
	if from == "" {
		from = cfg.StoreEmail
	}
	sender, err := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     from,
		Timeout:  cfg.RequestTimeout,
	}, logger)
	if err != nil {
		return err
	}

	templates := emailtemplate.NewService(emailtemplate.NewRepository(db.Pool, logger), logger)
	products := catalog.NewService(catalog.NewRepository(db.Pool, logger), catalogCache, tm, logger)
	orderRepo := order.NewRepository(db.Pool, logger)

	if cfg.SeedCatalog {
		n, err := products.SeedDefaults(ctx)
		if err != nil {
			return err
		}
		logger.Info("Catalog seeded", zap.Int("products", n))
	}

	carts, err := cart.NewRegistry(cartStorage, cfg.CartCacheSize, cfg.CartIdleTTL, logger)
	if err != nil {
		return err
	}

	svc := atelier.NewService(atelier.Dependencies{
		Catalog:        products,
		Testimonials:   testimonial.NewService(testimonial.NewRepository(db.Pool, logger), tm, logger),
		EmailTemplates: templates,
		Orders:         order.NewService(orderRepo, logger),
		OrderRepo:      orderRepo,
		EventRepo:      event.NewRepository(db.Pool, logger),
		Carts:          carts,
		Notifier:       mailer.NewNotifier(sender, templates, cfg.StoreEmail, logger),
		Tx:             tm,
		Currency:       cfg.Currency,
	}, bus, cfg.WorkerPoolSize, logger)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(svc, httpapi.Options{
			AdminToken:     cfg.AdminToken,
			AdminEmail:     cfg.AdminEmail,
			AdminPassword:  cfg.AdminPassword,
			RequestTimeout: cfg.RequestTimeout,
			Metrics:        metrics.NewServerMetrics(),
			Logger:         logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Storefront listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return errors.Join(srv.Shutdown(shutdownCtx), svc.Shutdown(shutdownCtx))
}
