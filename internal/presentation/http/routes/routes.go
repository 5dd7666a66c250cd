package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mrstraders/paddybill/internal/config"
	domainRepo "github.com/mrstraders/paddybill/internal/domain/repository"
	"github.com/mrstraders/paddybill/internal/presentation/http/dto/response"
	"github.com/mrstraders/paddybill/internal/presentation/http/handler"
	"github.com/mrstraders/paddybill/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Bill   *handler.BillHandler
	Queue  *handler.QueueHandler
	Print  *handler.PrintHandler
	Record *handler.RecordHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Logger          *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	router := gin.New()

	// Global middleware
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		registerBillRoutes(v1, h)
		registerQueueRoutes(v1, h)
		registerPrintRoutes(v1, h)
		registerRecordRoutes(v1, h, deps)
	}

	return router
}

func registerBillRoutes(rg *gin.RouterGroup, h *Handlers) {
	bills := rg.Group("/bills")
	{
		bills.GET("/paddy/new", h.Bill.NewPaddyForm)
		bills.POST("/paddy/calculate", h.Bill.CalculatePaddy)
		bills.POST("/interest/calculate", h.Bill.CalculateInterest)
		bills.POST("/paddy/preview", h.Bill.PreviewPaddy)
		bills.POST("/interest/preview", h.Bill.PreviewInterest)
	}
}

func registerQueueRoutes(rg *gin.RouterGroup, h *Handlers) {
	queue := rg.Group("/queue")
	{
		queue.GET("", h.Queue.Get)
		queue.PUT("", h.Queue.Reorder)
		queue.DELETE("", h.Queue.Clear)
		queue.POST("/paddy", h.Queue.AddPaddy)
		queue.POST("/interest", h.Queue.AddInterest)
		queue.POST("/move", h.Queue.Move)
		queue.DELETE("/:slot", h.Queue.Remove)
		queue.GET("/:slot/edit", h.Queue.Edit)
		queue.POST("/:slot/save", h.Queue.Save)
	}
}

func registerPrintRoutes(rg *gin.RouterGroup, h *Handlers) {
	pages := rg.Group("/print")
	{
		pages.GET("/page", h.Print.Page)
		pages.GET("/page.html", h.Print.PageHTML)
		pages.GET("/page.pdf", h.Print.PagePDF)
		pages.POST("/thermal", h.Print.PrintThermal)
	}

	rg.GET("/printer/status", h.Print.GetStatus)
}

func registerRecordRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	records := rg.Group("/records")
	if deps.IdempotencyRepo != nil {
		records.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}))
	}
	{
		records.GET("", h.Record.List)
		records.POST("", h.Record.Create)
		records.GET("/export", h.Record.Export)
		records.POST("/import", h.Record.Import)
		records.GET("/:id", h.Record.Get)
		records.GET("/:id/edit", h.Record.Edit)
		records.PUT("/:id", h.Record.Update)
		records.DELETE("/:id", h.Record.Delete)
	}
}
