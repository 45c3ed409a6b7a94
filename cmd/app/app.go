package main

import (
	"os"

	"github.com/shariq8055/ClosetCoach/internal/app"
	config "github.com/shariq8055/ClosetCoach/internal/cfg"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/joho/godotenv"
)

// @title			ClosetCoach API
// @version		1.0
// @description	Бэкенд fashion-рекомендаций: подбор дополняющих вещей, персональный гардероб, стилист
// @BasePath		/api/v1
func main() {
	log := logger.NewSlogLogger()

	// .env опционален: в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil {
		log.Debugf(".env file not loaded: %v", err)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	if err := app.Run(cfg, log); err != nil {
		os.Exit(1)
	}
}
