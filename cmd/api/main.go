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

	"nutristore/internal/cache"
	"nutristore/internal/config"
	"nutristore/internal/db"
	"nutristore/internal/httpserver"
	"nutristore/internal/kvstore"
	cartrepo "nutristore/internal/repository/cart"
	customerrepo "nutristore/internal/repository/customer"
	productrepo "nutristore/internal/repository/product"
	reviewrepo "nutristore/internal/repository/review"
	tokenrepo "nutristore/internal/repository/token"
	anonymoussvc "nutristore/internal/service/anonymous"
	cartsvc "nutristore/internal/service/cart"
	catalogsvc "nutristore/internal/service/catalog"
	customersvc "nutristore/internal/service/customer"
	historysvc "nutristore/internal/service/history"
	reviewsvc "nutristore/internal/service/review"
	wishlistsvc "nutristore/internal/service/wishlist"

	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	// Redis backs the catalog snapshot cache and the wishlist/search-history
	// store. When it is unreachable the API still serves: caching is skipped
	// and the key-value features fall back to process memory.
	var (
		productCache *cache.ProductCache
		kv           kvstore.Store = kvstore.NewMemory()
	)
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Printf("redis unavailable addr=%s err=%v, using in-memory fallback", cfg.RedisAddr, err)
	} else {
		productCache = cache.NewProductCache(redisClient, cfg.CacheTTL, logger)
		kv = kvstore.NewRedis(redisClient, "nutristore:")
		defer redisClient.Close()
	}
	cancel()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	reviewRepo := reviewrepo.NewPostgres(dbpool, logger)

	catalogService := catalogsvc.New(productRepo, productCache)
	cartService := cartsvc.New(cartRepo, productRepo)
	customerService := customersvc.New(customerRepo, tokenRepo)
	anonymousService := anonymoussvc.New()
	reviewService := reviewsvc.New(reviewRepo, catalogService)
	wishlistService := wishlistsvc.New(kv, productRepo, cartService)
	historyService := historysvc.New(kv)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:   catalogService,
		CartSvc:      cartService,
		ReviewSvc:    reviewService,
		CustomerSvc:  customerService,
		AnonymousSvc: anonymousService,
		WishlistSvc:  wishlistService,
		HistorySvc:   historyService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
