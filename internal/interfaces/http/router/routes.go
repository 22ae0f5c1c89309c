package router

import (
	"github.com/erp/docengine/internal/infrastructure/config"
	"github.com/erp/docengine/internal/infrastructure/logger"
	"github.com/erp/docengine/internal/infrastructure/telemetry"
	"github.com/erp/docengine/internal/interfaces/http/handler"
	"github.com/erp/docengine/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers are the endpoint groups served by the engine
type Handlers struct {
	Numbering    *handler.NumberingHandler
	Amortization *handler.AmortizationHandler
	System       *handler.SystemHandler
}

// Options configure the middleware chain of NewEngine
type Options struct {
	ServiceName   string
	HTTP          config.HTTPConfig
	Tracing       bool
	MeterProvider *telemetry.MeterProvider
	Logger        *zap.Logger
}

// NewEngine builds the gin engine with the standard middleware chain and
// every route of the API.
func NewEngine(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Actor(),
		middleware.TracingWithConfig(middleware.TracingConfig{ServiceName: opts.ServiceName, Enabled: opts.Tracing}),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(opts.MeterProvider, log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(opts.HTTP)),
	)
	if opts.HTTP.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodyBytes))
	}

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}

	r := NewRouter(engine)
	if h.Numbering != nil {
		r.Register(NewDomainGroup("numbering", "/document-numbers").
			POST("", h.Numbering.GenerateNumbers).
			POST("/preview", h.Numbering.PreviewNumber))
		r.Register(NewDomainGroup("templates", "/document-templates").
			GET("/:docCode", h.Numbering.GetTemplate).
			PUT("/:docCode", h.Numbering.SaveTemplate).
			POST("/:docCode/deactivate", h.Numbering.DeactivateTemplate))
	}
	if h.Amortization != nil {
		r.Register(NewDomainGroup("purchases", "/purchases").
			POST("/:id/amortization/recalculate", h.Amortization.Recalculate).
			POST("/:id/goods-received", h.Amortization.GoodsReceived))
	}
	r.Setup()

	return engine
}
