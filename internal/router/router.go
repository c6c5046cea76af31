package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"menuchat/internal/chat"
	"menuchat/internal/importer"
	"menuchat/internal/middleware"
	"menuchat/internal/restaurant"
)

type Handlers struct {
	Restaurants *restaurant.Handler
	Imports     *importer.Handler
	Chat        *chat.Handler
}

func NewRouter(h Handlers, corsOrigins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		cors.New(corsConfig(corsOrigins)),
	)

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ───────────────────────── RESTAURANTS ─────────────────────────
	restaurants := r.Group("/restaurants")
	{
		restaurants.GET("", h.Restaurants.List)
		restaurants.GET("/:id", h.Restaurants.Get)
		restaurants.POST("/:id", h.Restaurants.Upsert)
		restaurants.DELETE("/:id", h.Restaurants.Delete)
		restaurants.GET("/:id/offers/active", h.Restaurants.ActiveOffers)
		restaurants.GET("/:id/context", h.Chat.Context)

		restaurants.POST("/:id/import/menu", h.Imports.ImportMenu)
		restaurants.POST("/:id/import/offers", h.Imports.ImportOffers)
		restaurants.POST("/:id/import/metadata", h.Imports.ImportMetadata)
	}

	// ───────────────────────── CHAT ─────────────────────────
	r.POST("/chat/:id", h.Chat.Chat)

	// ───────────────────────── ADMIN ─────────────────────────
	r.POST("/admin/rescan", h.Imports.Rescan)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
