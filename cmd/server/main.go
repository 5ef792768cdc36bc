package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/potluck-organizer/internal/allocation"
	"github.com/iliyamo/potluck-organizer/internal/auth"
	"github.com/iliyamo/potluck-organizer/internal/config"
	"github.com/iliyamo/potluck-organizer/internal/database"
	"github.com/iliyamo/potluck-organizer/internal/handler"
	"github.com/iliyamo/potluck-organizer/internal/middleware"
	"github.com/iliyamo/potluck-organizer/internal/queue"
	"github.com/iliyamo/potluck-organizer/internal/repository"
	"github.com/iliyamo/potluck-organizer/internal/router"
	queuepublisher "github.com/iliyamo/potluck-organizer/internal/service"
	"github.com/iliyamo/potluck-organizer/internal/slug"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	var (
		db  *sql.DB
		err error
	)
	switch cfg.DBDriver {
	case "sqlite":
		db, err = database.OpenSQLite(cfg.DBPath)
	default:
		db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	if err != nil {
		log.Fatalf("database open failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.EnsureSchema(db, cfg.DBDriver); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}

	// The shared admin password is hashed once at startup; only the hash is
	// held in memory afterwards.
	adminHash, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("admin password hash failed: %v", err)
	}

	potlucks := repository.NewPotluckRepo(db)
	categories := repository.NewCategoryRepo(db)
	items := repository.NewItemRepo(db)
	claims := repository.NewClaimRepo(db)
	engine := allocation.NewEngine(potlucks, categories, items, claims, slug.New(potlucks))

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadViewCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	// After a mutation the stale cached view is dropped locally and the
	// eviction is fanned out over the queue so every other instance drops
	// its copy too. Both halves are best effort.
	var invalidate handler.Invalidator
	if cacheCfg.Enabled && rdb != nil {
		invalidate = func(ctx context.Context, s string) {
			if err := rdb.Del(ctx, middleware.ViewCacheKey(cacheCfg.Prefix, s)).Err(); err != nil {
				log.Printf("cache: evict %s failed: %v", s, err)
			}
			_ = queuepublisher.PublishPotluckInvalidated(ctx, s)
		}
		go queue.StartInvalidationConsumer(rdb, func(s string) string {
			return middleware.ViewCacheKey(cacheCfg.Prefix, s)
		})
	}

	authHandler := handler.NewAuthHandler(adminHash, cfg.SessionSecret)
	adminHandler := handler.NewAdminHandler(potlucks, categories, items, claims, engine, invalidate)
	publicHandler := handler.NewPublicHandler(potlucks, items, claims, engine, invalidate)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, authHandler)
	router.RegisterAdmin(e, adminHandler, cfg.SessionSecret)
	router.RegisterPublic(e, publicHandler, cacheCfg, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
