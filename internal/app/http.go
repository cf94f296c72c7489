package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/fercho159-aq/taskflow/internal/config"
	"github.com/fercho159-aq/taskflow/internal/delivery/http/v1"
)

func MustListenAndServeHTTP(svc Services) {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, svc)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	// Prime the workload gauges before the first scrape.
	if _, err := svc.Tasks.GetWorkload(context.Background()); err != nil {
		globalLogger.Warn().
			Err(err).
			Msg("failed to prime workload metrics")
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router *gin.Engine, svc Services) {
	v1Handler := v1.New(
		componentLogger("http"),
		svc.Tasks,
		svc.Clients,
		svc.DueDates,
		globalStore,
	)
	v1.Register(router, v1Handler)

	router.GET("/metrics", gin.WrapH(globalMetrics.Handler()))
}
