package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/anmicius0/rule-bulk-actions/internal/client"
	"github.com/anmicius0/rule-bulk-actions/internal/config"
	"github.com/anmicius0/rule-bulk-actions/internal/server"
	"github.com/anmicius0/rule-bulk-actions/internal/service"
	"github.com/anmicius0/rule-bulk-actions/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the bulk action HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logging first
			if err := utils.Init(); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			defer utils.Sync()

			appConfig, err := config.LoadFile(configFile)
			if err != nil {
				utils.Logger.Error("Failed to load configuration", zap.Error(err))
				return err
			}
			utils.Logger.Info("Configuration loaded successfully")

			store := config.NewBoundedActionStore(appConfig.ActionHistory)
			engine := client.NewRuleEngineClient(appConfig.RuleEngineURL, appConfig.RuleEngineToken, appConfig.RuleEngineTimeout)
			manager := service.NewBulkActionManager(appConfig, store, engine)

			router := server.NewRouter(appConfig, store, manager)
			return startServer(router, appConfig)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", config.DefaultConfigFile, "Path to the env configuration file")
	return cmd
}

// startServer binds the HTTP server and handles graceful shutdown signals.
func startServer(router http.Handler, appConfig *config.Config) error {
	portStr := strconv.Itoa(appConfig.Port)
	addr := fmt.Sprintf("%s:%s", appConfig.APIHost, portStr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  config.DefaultReadTimeout,
		WriteTimeout: config.DefaultWriteTimeout,
		IdleTimeout:  config.DefaultIdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig := <-sigChan
		utils.Logger.Info("Shutdown signal received", zap.String(utils.FieldSignal, sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			utils.Logger.Error("Server shutdown error", zap.Error(err))
		}
	}()

	utils.Logger.Info("Server starting",
		zap.String(utils.FieldHost, appConfig.APIHost),
		zap.String(utils.FieldPort, portStr))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.Logger.Error("Server failed to start", zap.Error(err))
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	utils.Logger.Info("Server stopped")
	return nil
}
