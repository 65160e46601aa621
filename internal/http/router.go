// Package httpapi wires the HTTP transport (Gin) to the plan service,
// middleware and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, redacted logging, panic recovery, metrics,
// compression, CORS and security headers.
//
// Routes:
//
//	GET  /                              landing page (STATIC_DIR/index.html)
//	GET  /static/*filepath              landing page assets
//	GET  /health                        integration summary
//	POST /generate                      form input
//	POST /generate-diet-from-node-data  nested JSON input
//	POST /generate-diet                 free-text JSON input
//	GET  /metrics                       Prometheus
//	GET  /swagger/*any                  API docs (SWAGGER_ENABLED)
//	GET  /debug/system                  host diagnostics (DEBUG)
package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Akshaypareek01/DietProject-samsara/docs"
	"github.com/Akshaypareek01/DietProject-samsara/internal/config"
	"github.com/Akshaypareek01/DietProject-samsara/internal/http/handlers"
	"github.com/Akshaypareek01/DietProject-samsara/internal/http/middleware"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// Deps are the application components the routes delegate to.
type Deps struct {
	Plans  handlers.PlanService
	Status handlers.Status
	// Stats is nil when the diagnostics log is disabled.
	Stats handlers.EventStats
}

// RegisterRoutes attaches all middleware and endpoints to r.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing (Logger in debug mode)
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Compression (skipped for /metrics, which negotiates its own)
//  8. CORS and security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging; debug mode keeps client ip and user agent unscrubbed
	if cfg.Debug {
		r.Use(middleware.Logger())
	} else {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{"X-API-Key"},
		}))
	}

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(maxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Plans are verbose markdown; compress them.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 8) CORS posture and security headers
	r.Use(corsMiddleware(cfg.CORS)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
		CSP:          middleware.DefaultCSP,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	h := handlers.New(deps.Plans, deps.Status, deps.Stats)

	r.GET("/health", h.Health)
	r.POST(handlers.RouteGenerate, h.GenerateFromForm)
	r.POST(handlers.RouteGenerateNode, h.GenerateFromNodeData)
	r.POST(handlers.RouteGenerateLegacy, h.GenerateFromDescription)

	// Landing page
	index := filepath.Join(cfg.StaticDir, "index.html")
	r.GET("/", func(c *gin.Context) {
		if _, err := os.Stat(index); err != nil {
			handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "landing page not found")
			return
		}
		c.File(index)
	})
	r.Static("/static", cfg.StaticDir)

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = "/"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if cfg.Debug {
		r.GET("/debug/system", h.DebugSystem)
	}
}

// corsMiddleware allows every origin when none are configured, otherwise only
// the allowlist. Credentials are never allowed.
func corsMiddleware(cc config.CORSConfig) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(cc.AllowedOrigins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			// Force ACAO: * even without an Origin header (health checks, curl).
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	base.AllowOrigins = cc.AllowedOrigins
	return []gin.HandlerFunc{cors.New(base)}
}

// limitBody caps the request body at maxBytes; reads past it fail with
// *http.MaxBytesError.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
