package main

import (
	"context"
	"flag"
	"os"

	config "github.com/shariq8055/ClosetCoach/internal/cfg"
	"github.com/shariq8055/ClosetCoach/internal/infrastructure/inference"
	"github.com/shariq8055/ClosetCoach/internal/repository/indexfile"
	"github.com/shariq8055/ClosetCoach/internal/usecase"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/joho/godotenv"
)

// Офлайн-построение глобального embedding-индекса по датасету.
// Индекс перезаписывается целиком, сервис подхватывает его при рестарте.
func main() {
	log := logger.NewSlogLogger()

	if err := godotenv.Load(); err != nil {
		log.Debugf(".env file not loaded: %v", err)
	}

	datasetRoot := flag.String("dataset", "data/visual", "path to the dataset root ({root}/{gender}/{category}/*.jpg)")
	flag.Parse()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	indexRepo := indexfile.NewIndexRepo(cfg.Index.Path, cfg.Index.VectorSize)
	inferenceClient := inference.NewClient(cfg.Inference, log)
	indexUC := usecase.NewIndexUC(indexRepo, inferenceClient, cfg.Index.VectorSize, log)

	count, err := indexUC.BuildIndex(context.Background(), *datasetRoot)
	if err != nil {
		log.Errorf(err, "failed to build embedding index")
		os.Exit(1)
	}

	log.Infof("Embedding index built. records: %d, path: %s", count, cfg.Index.Path)
}
