package main

import (
	"context"
	"log"
	"os"
	"todolist/internal/app"
	"todolist/internal/config"
	"todolist/internal/logger"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	application, err := app.New(cfg).Init(context.Background())
	if err != nil {
		log.Fatalf("Ошибка инициализации приложения: %v", err)
	}

	go func() {
		if err := application.Run(); err != nil {
			logger.Error("Сервер остановлен с ошибкой", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		application.ShutdownOperations(),
	)

	exitCode := <-wait
	logger.Info("Приложение завершено")
	os.Exit(exitCode)
}
