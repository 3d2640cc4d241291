package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecofinds-market/internal/config"
	"github.com/iliyamo/ecofinds-market/internal/handler"
	"github.com/iliyamo/ecofinds-market/internal/middleware"
	"github.com/iliyamo/ecofinds-market/internal/queue"
	"github.com/iliyamo/ecofinds-market/internal/router"
	"github.com/iliyamo/ecofinds-market/internal/service"
	"github.com/iliyamo/ecofinds-market/internal/store"
)

func main() {
	// Load .env when present; real environments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	st := openStore(cfg)

	if cfg.SeedDemoData {
		if err := service.Seed(context.Background(), st, cfg.BcryptCost); err != nil {
			log.Printf("seed demo data failed: %v", err)
		} else {
			log.Printf("demo data available under %s", service.DemoEmail)
		}
	}

	identity := service.NewIdentity(st, cfg.BcryptCost)
	catalog := service.NewCatalog(st, identity)
	cart := service.NewCart(st)

	authH := handler.NewAuthHandler(cfg, identity)
	catH := handler.NewCatalogHandler(catalog)
	cartH := handler.NewCartHandler(cart, catalog)

	e := echo.New()

	// Rate limiting is optional: without a reachable redis the
	// middleware passes everything through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e, catH)
	router.RegisterAuth(e, authH, catH, cartH, cfg.JWTSecret)

	// Consume purchase events in the background; the consumer keeps
	// reconnecting on its own if the broker goes away.
	go func() {
		if err := queue.StartPurchaseConsumer(); err != nil {
			log.Printf("purchase consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openStore selects the persistence driver from configuration. A bad
// driver name or a failed connection is fatal at startup; running
// with silently missing persistence would be worse.
func openStore(cfg config.Config) store.Store {
	switch cfg.StoreDriver {
	case "file":
		st, err := store.NewFile(cfg.StorePath)
		if err != nil {
			log.Fatalf("open file store: %v", err)
		}
		return st
	case "memory":
		return store.NewMemory()
	case "redis":
		rdb := config.NewRedisClient()
		if rdb == nil {
			log.Fatalf("redis store selected but redis is unreachable")
		}
		return store.NewRedis(rdb, "ecofinds")
	case "mysql":
		st, err := store.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("open mysql store: %v", err)
		}
		return st
	}
	log.Fatalf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	return nil
}
