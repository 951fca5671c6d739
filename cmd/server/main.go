package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/iliyamo/resource-booking/internal/config"
    "github.com/iliyamo/resource-booking/internal/database"
    "github.com/iliyamo/resource-booking/internal/handler"
    "github.com/iliyamo/resource-booking/internal/queue"
    "github.com/iliyamo/resource-booking/internal/repository"
    "github.com/iliyamo/resource-booking/internal/router"
    "github.com/iliyamo/resource-booking/internal/service"
)

func main() {
    // .env is optional; real deployments set variables directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connection failed: %v", err)
    }
    defer db.Close()

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; response cache and rate limiting disabled")
    }

    userRepo := repository.NewUserRepo(db)
    tokenRepo := repository.NewTokenRepo(db)
    resourceRepo := repository.NewResourceRepo(db)
    bookingRepo := repository.NewBookingRepo(db)
    reservations := service.NewReservationService(db, resourceRepo, bookingRepo)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())

    router.Register(e, router.Deps{
        Cfg:       cfg,
        Auth:      handler.NewAuthHandler(cfg, userRepo, tokenRepo),
        Resources: handler.NewResourceHandler(resourceRepo),
        Bookings:  handler.NewBookingHandler(reservations, bookingRepo, resourceRepo),
        Users:     handler.NewUserHandler(userRepo),
        Redis:     rdb,
    })

    // Audit consumer runs for the lifetime of the process and reconnects
    // on broker failure.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    log.Printf("starting server on :%s (env=%s)", cfg.Port, cfg.Env)
    if err := e.Start(":" + cfg.Port); err != nil {
        log.Fatalf("server stopped: %v", err)
    }
}
