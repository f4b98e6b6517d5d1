// Package server implements the `server` CLI command that boots the
// HTTP API.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	authApp "ctrc/internal/application/auth"
	notificationApp "ctrc/internal/application/notification"
	portalApp "ctrc/internal/application/portal"
	ticketApp "ctrc/internal/application/ticket"
	userApp "ctrc/internal/application/user"
	userDomain "ctrc/internal/domain/user"
	"ctrc/internal/infrastructure/config"
	"ctrc/internal/infrastructure/email"
	httpRouter "ctrc/internal/interfaces/http"
	"ctrc/internal/interfaces/http/handlers"
	sharedConfig "ctrc/internal/shared/config"
	"ctrc/internal/shared/logger"
	"ctrc/internal/store"
	"ctrc/internal/store/memory"
	"ctrc/internal/store/xlsx"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the CTRC Analyzer HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server", "environment", env)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	tableStore, closeStore, err := buildStore(&cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	log := logger.NewLogger()
	ids := store.NewGenerator(tableStore)
	resolver := userDomain.NewResolver(tableStore)

	mailer := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	})

	ctx := context.Background()

	authService, err := authApp.NewService(ctx, tableStore, mailer, log)
	if err != nil {
		return fmt.Errorf("failed to build auth service: %w", err)
	}
	userService, err := userApp.NewService(ctx, tableStore, ids, resolver, log)
	if err != nil {
		return fmt.Errorf("failed to build user service: %w", err)
	}
	ticketService, err := ticketApp.NewService(ctx, tableStore, ids, resolver, log)
	if err != nil {
		return fmt.Errorf("failed to build ticket service: %w", err)
	}
	notificationService, err := notificationApp.NewService(ctx, tableStore, ids, log)
	if err != nil {
		return fmt.Errorf("failed to build notification service: %w", err)
	}
	portalService := portalApp.NewService(tableStore, log)

	router := httpRouter.NewRouter(httpRouter.RouterConfig{
		AuthHandler:         handlers.NewAuthHandler(authService, log),
		UserHandler:         handlers.NewUserHandler(userService, log),
		TicketHandler:       handlers.NewTicketHandler(ticketService, log),
		NotificationHandler: handlers.NewNotificationHandler(notificationService, log),
		PortalHandler:       handlers.NewPortalHandler(portalService, log),
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		Logger:              log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
			"store", cfg.Store.Backend)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func buildStore(cfg *sharedConfig.StoreConfig) (store.TableStore, func(), error) {
	switch cfg.Backend {
	case "memory":
		return memory.NewStore(), func() {}, nil
	case "xlsx", "":
		st, err := xlsx.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {
			if err := st.Close(); err != nil {
				logger.Error("failed to close store", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
