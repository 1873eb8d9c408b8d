package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"room-booking-backend/config"
	"room-booking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router around the handler's
// dependencies.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/health", handler.Health)
		api.POST("/login", handler.Login)

		// The room catalog only changes at boot, so responses are cached.
		api.GET("/rooms", caching, handler.GetRooms)

		api.GET("/slots", handler.GetSlots)
		api.POST("/slots", handler.PostSlot)
		api.DELETE("/slots/:id", handler.DeleteSlot)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
