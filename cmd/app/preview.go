package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/untibullet/issue-activity-report/internal/handlers"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Serve the generated site and the views API locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}

		handler := handlers.New(st, cfg.Report.OutputDir, cfg.Report.TopUsers, cfg.Report.SubgroupRoster, logger)

		// Настройка Echo сервера
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true

		// Middleware
		e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogURI:    true,
			LogStatus: true,
			LogError:  true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				if v.Error == nil {
					logger.Info("request",
						zap.String("method", c.Request().Method),
						zap.String("uri", v.URI),
						zap.Int("status", v.Status),
					)
				} else {
					logger.Error("request error",
						zap.String("method", c.Request().Method),
						zap.String("uri", v.URI),
						zap.Int("status", v.Status),
						zap.Error(v.Error),
					)
				}
				return nil
			},
		}))
		e.Use(middleware.Recover())
		e.Use(middleware.CORS())

		// Регистрация роутов
		handler.RegisterRoutes(e)

		// Graceful shutdown
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			addr := cfg.Server.GetAddress()
			logger.Info("server listening",
				zap.String("address", addr),
				zap.String("site_dir", cfg.Report.OutputDir))
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		// Ожидание сигнала завершения
		select {
		case <-ctx.Done():
		case err := <-errCh:
			return err
		}
		logger.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
		}

		logger.Info("server stopped")
		return nil
	},
}
