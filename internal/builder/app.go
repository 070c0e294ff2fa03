package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/interview-backend/internal/telegram"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// App serves the HTTP API until its context is cancelled.
type App struct {
	server *http.Server
	db     *pgxpool.Pool
	logger *zap.Logger
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		a.closeDB()
		return err
	case <-ctx.Done():
		a.logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")
	err := a.server.Shutdown(shutdownCtx)
	if err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
	}

	a.closeDB()
	a.logger.Info("Application stopped")
	return err
}

func (a *App) closeDB() {
	if a.db != nil {
		a.logger.Info("Closing database connections")
		a.db.Close()
	}
}

// BotApp runs the Telegram front end over the same pipeline as the API.
type BotApp struct {
	bot    telegram.Bot
	db     *pgxpool.Pool
	logger *zap.Logger
}

func (b *BotApp) Run(ctx context.Context) error {
	defer b.db.Close()

	errChan := make(chan error, 1)
	go func() {
		b.logger.Info("Starting telegram bot")
		if err := b.bot.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		b.logger.Error("Telegram bot error", zap.Error(err))
		return fmt.Errorf("telegram bot: %w", err)
	case <-ctx.Done():
		b.logger.Info("Received shutdown signal")
	}

	if err := b.bot.Stop(); err != nil {
		b.logger.Error("Error stopping bot", zap.Error(err))
		return err
	}
	b.logger.Info("Telegram bot stopped")
	return nil
}
