package app

import (
	"context"
	"net/http"
	"time"

	"go-payroll/internal/audit"
	"go-payroll/internal/config"
	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the HTTP router and everything that must be closed with it.
type App struct {
	Router   *gin.Engine
	Recorder audit.Recorder
	closers  []func()
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func BuildApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	// 1. Setup Infrastructure
	db, err := connection.ConnectGORMWithRetry(cfg.DB, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = db.Close() })

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = rdb.Close() })

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a.Recorder = audit.NewLogRecorder(logger)
	writer, err := connection.ConnectKafkaWithRetry(cfg.Kafka, logger, cfg.Kafka.AuditTopic)
	if err != nil {
		logger.Warn("kafka unavailable, audit events go to the log", zap.Error(err))
	} else {
		recorder := audit.NewKafkaRecorder(writer, cfg.Kafka.AuditTopic, registry, logger)
		a.Recorder = recorder
		a.closers = append(a.closers, func() {
			recorder.Close()
			_ = writer.Close()
		})
	}

	// 2. Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.NewHTTPMetrics(registry).Middleware(),
	)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/healthz", healthz(logger,
		healthCheck{name: "database", ping: db.Ping},
		healthCheck{name: "redis", ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	))

	// 3. Register Modules & Routes
	if err := registerModules(router, cfg, db.Gorm, rdb, a.Recorder, logger); err != nil {
		a.Close()
		return nil, err
	}

	a.Router = router
	return a, nil
}

type healthCheck struct {
	name string
	ping func(context.Context) error
}

// healthz reports each dependency as ok or unavailable. Failure details go to
// the log only.
func healthz(logger *zap.Logger, checks ...healthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{}
		healthy := true
		for _, chk := range checks {
			if err := chk.ping(ctx); err != nil {
				logger.Warn("health check failed", zap.String("dependency", chk.name), zap.Error(err))
				status[chk.name] = "unavailable"
				healthy = false
				continue
			}
			status[chk.name] = "ok"
		}

		if !healthy {
			out := apperror.ToHTTP(apperror.ErrServiceUnavailable)
			response.Error(c, out.Status, out.Code, out.Message, status)
			return
		}
		response.Success(c, http.StatusOK, status, nil)
	}
}
