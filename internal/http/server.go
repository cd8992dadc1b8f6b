package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmehdipour/odata-gateway/internal/config"
	"github.com/jmehdipour/odata-gateway/internal/http/middleware"
	"github.com/jmehdipour/odata-gateway/internal/metrics"
	"github.com/jmehdipour/odata-gateway/internal/service/catalog"
	"github.com/jmehdipour/odata-gateway/internal/util"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

// NewServer wires the OData routes. rds may be nil, which turns rate limiting off.
func NewServer(cfg config.Config, svc *catalog.Service, rds *redis.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(echoLogLevel(cfg.Log.Level))
	e.Use(
		echoMid.Recover(),
		echoMid.RequestIDWithConfig(echoMid.RequestIDConfig{Generator: util.NewID}),
		echoMid.Logger(),
	)

	e.HTTPErrorHandler = jsonErrorHandler(logger)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/", indexHandler())

	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		DefaultRPS:     cfg.RateLimit.RPS,
		KeyPrefix:      "rl:ip:",
		Window:         cfg.RateLimit.Window,
		RetryAfterHint: true,
	})

	h := &handlers{svc: svc, strictFilter: cfg.OData.StrictFilter, log: logger}

	od := e.Group("/odata", rlMW)
	od.GET("/$metadata", metadataHandler())
	od.GET("/Customers", h.listCustomers)
	od.POST("/Customers", h.createCustomer)
	od.GET("/Orders", h.listOrders)
	od.GET("/:key", h.getByKey)
	od.PUT("/:key", h.replaceByKey)
	od.DELETE("/:key", h.deleteByKey)

	return &Server{e: e, log: logger}
}

func (s *Server) Start(addr string) error {
	s.log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.e.ServeHTTP(w, r) }

// jsonErrorHandler renders every unhandled error as {"error": "..."}.
func jsonErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := "internal error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprint(he.Message)
		} else {
			logger.Error("unhandled error", zap.Error(err), zap.String("path", c.Request().URL.Path))
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = errorJSON(c, code, msg)
	}
}

func echoLogLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

// ShutdownTimeout falls back to 5s when unset.
func ShutdownTimeout(cfg config.Config) time.Duration {
	if cfg.HTTP.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return cfg.HTTP.ShutdownTimeout
}
