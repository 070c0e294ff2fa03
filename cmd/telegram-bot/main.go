package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/futig/interview-backend/internal/builder"
)

func main() {
	bot, err := builder.BuildTelegramBot()
	if err != nil {
		log.Fatal("Failed to build telegram bot:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(ctx); err != nil {
		log.Fatal("Telegram bot error:", err)
	}
}
