package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/docker-task-list/api/internal/config"
	v1 "github.com/docker-task-list/api/internal/delivery/http/v1"
	"github.com/docker-task-list/api/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     httpCfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
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

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
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

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT
	authService := services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.TokenTTL,
		jwtCfg.RememberMeTokenTTL,
	)
	taskService := services.NewTaskService(globalLogger, globalPostgresPool)
	handler := v1.New(globalLogger, authService, taskService)

	authRouter := router.Group("/auth")
	authRouter.POST("/register", handler.HandleRegister)
	authRouter.POST("/login", handler.HandleLogin)
	authRouter.GET("/me", handler.HandleAuthMiddleware, handler.HandleMe)

	todosRouter := router.Group("/todos", handler.HandleAuthMiddleware)
	todosRouter.GET("", handler.HandleListTasks)
	todosRouter.POST("", handler.HandleCreateTask)
	todosRouter.GET("/stats", handler.HandleTaskStats)
	todosRouter.PUT("/reorder", handler.HandleReorderTasks)
	todosRouter.PUT("/:id", handler.HandleToggleTask)
	todosRouter.PATCH("/:id", handler.HandleEditTask)
	todosRouter.DELETE("/:id", handler.HandleDeleteTask)
}
