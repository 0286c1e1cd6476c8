package main

import (
	"context"
	"net/http"
	"os"

	"github.com/dreamboutique/boutique-backend/api/routes"
	"github.com/dreamboutique/boutique-backend/internal/auth"
	"github.com/dreamboutique/boutique-backend/internal/cart"
	"github.com/dreamboutique/boutique-backend/internal/checkout"
	"github.com/dreamboutique/boutique-backend/internal/discounts"
	"github.com/dreamboutique/boutique-backend/internal/favorites"
	"github.com/dreamboutique/boutique-backend/internal/notifications"
	"github.com/dreamboutique/boutique-backend/internal/orders"
	"github.com/dreamboutique/boutique-backend/internal/products"
	"github.com/dreamboutique/boutique-backend/internal/reports"
	"github.com/dreamboutique/boutique-backend/internal/users"
	"github.com/dreamboutique/boutique-backend/pkg/auth/session"
	"github.com/dreamboutique/boutique-backend/pkg/config"
	"github.com/dreamboutique/boutique-backend/pkg/db"
	"github.com/dreamboutique/boutique-backend/pkg/logger"
	"github.com/dreamboutique/boutique-backend/pkg/migrate"
	"github.com/dreamboutique/boutique-backend/pkg/redis"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	discountRepo := discounts.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	notificationRepo := notifications.NewRepository(conn)
	favoriteRepo := favorites.NewRepository(conn)
	staffRepo := users.NewRepository(conn)

	discountService, err := discounts.NewService(discountRepo)
	exitOnError(logg, "discount service", err)

	productService, err := products.NewService(productRepo)
	exitOnError(logg, "product service", err)

	cartService, err := cart.NewService(cartRepo, productRepo, discountService)
	exitOnError(logg, "cart service", err)

	orderService, err := orders.NewService(orderRepo)
	exitOnError(logg, "order service", err)

	notificationService, err := notifications.NewService(notificationRepo)
	exitOnError(logg, "notification service", err)

	checkoutService, err := checkout.NewService(
		dbClient,
		func(tx *gorm.DB) checkout.CartLedger { return cartRepo.WithTx(tx) },
		func(tx *gorm.DB) checkout.OrderWriter { return orderRepo.WithTx(tx) },
		discountService,
		notificationService,
		logg,
	)
	exitOnError(logg, "checkout service", err)

	favoriteService, err := favorites.NewService(favoriteRepo, productRepo)
	exitOnError(logg, "favorites service", err)

	staffService, err := users.NewService(staffRepo, cfg.Password)
	exitOnError(logg, "staff service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		Staff:    staffRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Logger:   logg,
	})
	exitOnError(logg, "auth service", err)

	reportService, err := reports.NewService(productRepo, orderRepo)
	exitOnError(logg, "report service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
		"site": cfg.Store.SiteName,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, routes.Services{
			Auth:          authService,
			Users:         staffService,
			Products:      productService,
			Discounts:     discountService,
			Cart:          cartService,
			Checkout:      checkoutService,
			Orders:        orderService,
			Favorites:     favoriteService,
			Notifications: notificationService,
			Reports:       reportService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnError(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
