package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-mrp-service/internal/app"
	inventoryHandler "github.com/fekuna/omnipos-mrp-service/internal/inventory/handler"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	orderHandler "github.com/fekuna/omnipos-mrp-service/internal/order/handler"
	partyHandler "github.com/fekuna/omnipos-mrp-service/internal/party/handler"
	productHandler "github.com/fekuna/omnipos-mrp-service/internal/product/handler"
	wipHandler "github.com/fekuna/omnipos-mrp-service/internal/wip/handler"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

type Config struct {
	AllowedOrigins []string
	// JWTSecret enables bearer-token checks on /api when non-empty.
	JWTSecret string
}

func NewRouter(uc *app.UseCases, cfg Config, log logger.ZapLogger) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(log), RequestLogger(log))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "X-Total-Count"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "online"}) })

	api := r.Group("/api")
	if cfg.JWTSecret != "" {
		api.Use(AuthMiddleware(cfg.JWTSecret))
	}

	productHandler.NewProductHandler(uc.Products, uc.Inventory, log).RegisterRoutes(api)
	inventoryHandler.NewInventoryHandler(uc.Inventory, log).RegisterRoutes(api)
	wipHandler.NewWipHandler(uc.WIP, log).RegisterRoutes(api)
	orderHandler.NewOrderHandler(uc.Orders, log).RegisterRoutes(api)
	partyHandler.NewPartyHandler(uc.Parties, model.PartyCustomer, log).RegisterRoutes(api)
	partyHandler.NewPartyHandler(uc.Parties, model.PartySupplier, log).RegisterRoutes(api)

	return r
}
