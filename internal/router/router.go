// Package router wires HTTP routes to their handlers and middleware.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/resource-booking/internal/config"
    "github.com/iliyamo/resource-booking/internal/handler"
    "github.com/iliyamo/resource-booking/internal/middleware"
    "github.com/iliyamo/resource-booking/internal/model"
)

// Deps carries everything route registration needs.  Redis is optional;
// when nil the cache and rate-limit middleware become pass-throughs.
type Deps struct {
    Cfg       config.Config
    Auth      *handler.AuthHandler
    Resources *handler.ResourceHandler
    Bookings  *handler.BookingHandler
    Users     *handler.UserHandler
    Redis     *redis.Client
}

// Register mounts all API routes on the Echo instance.  Layout:
//
//	GET  /health                      liveness probe (open)
//	POST /api/auth/*                  registration and session management
//	     /api/resources               catalogue: reads for any user, writes ADMIN
//	     /api/bookings                reservation create/cancel/read
//	     /api/users                   user administration (ADMIN)
//
// Read routes sit behind the Redis response cache; all /api routes share
// the token-bucket rate limiter.
func Register(e *echo.Echo, d Deps) {
    cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
    rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)
    authMW := middleware.JWTAuth(d.Cfg.JWTSecret)
    adminMW := middleware.RequireRole(model.RoleAdmin)

    e.GET("/health", handler.Health)

    api := e.Group("/api", rateMW)

    auth := api.Group("/auth")
    auth.POST("/register", d.Auth.Register)
    auth.POST("/login", d.Auth.Login)
    auth.POST("/refresh", d.Auth.Refresh)
    auth.POST("/logout", d.Auth.Logout)
    auth.GET("/me", d.Auth.Me, authMW)

    res := api.Group("/resources", authMW)
    res.GET("", d.Resources.List, cacheMW)
    res.GET("/:id", d.Resources.Get, cacheMW)
    res.POST("", d.Resources.Create, adminMW)
    res.PUT("/:id", d.Resources.Update, adminMW)
    res.PUT("/:id/capacity", d.Resources.UpdateCapacity, adminMW)
    res.PUT("/:id/duration", d.Resources.UpdateDuration, adminMW)
    res.PUT("/:id/available-slots", d.Resources.UpdateAvailableSlots, adminMW)
    res.DELETE("/:id", d.Resources.Delete, adminMW)

    bk := api.Group("/bookings", authMW)
    bk.GET("", d.Bookings.List)
    bk.GET("/:id", d.Bookings.Get)
    bk.POST("", d.Bookings.Create)
    bk.PUT("/:id/cancel", d.Bookings.Cancel)

    users := api.Group("/users", authMW, adminMW)
    users.GET("", d.Users.List)
    users.PUT("/:id/toggle-role", d.Users.ToggleRole)
    users.DELETE("/:id", d.Users.Delete)
}
