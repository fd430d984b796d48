// rescuectl - административные команды: миграции, начальный реестр спасателей и просмотр данных
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shenikar/animal_rescue_dispatch/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(logger.Options{Level: os.Getenv("LOG_LEVEL"), Service: "rescuectl", Output: os.Stderr})

	if err := RootCommand(log).ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("Command failed")
		stop()
		os.Exit(1)
	}
}
