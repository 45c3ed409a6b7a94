package app

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/shariq8055/ClosetCoach/internal/cfg"
	v1Http "github.com/shariq8055/ClosetCoach/internal/delivery/v1/http"
	"github.com/shariq8055/ClosetCoach/internal/infrastructure/imaging"
	"github.com/shariq8055/ClosetCoach/internal/infrastructure/inference"
	"github.com/shariq8055/ClosetCoach/internal/infrastructure/kafka"
	minioInfra "github.com/shariq8055/ClosetCoach/internal/infrastructure/minio"
	"github.com/shariq8055/ClosetCoach/internal/repository/indexfile"
	s3Repo "github.com/shariq8055/ClosetCoach/internal/repository/minio"
	"github.com/shariq8055/ClosetCoach/internal/repository/pgdb"
	"github.com/shariq8055/ClosetCoach/internal/repository/redis"
	"github.com/shariq8055/ClosetCoach/internal/usecase"
	"github.com/shariq8055/ClosetCoach/pkg/clients"
	"github.com/shariq8055/ClosetCoach/pkg/closer"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/shariq8055/ClosetCoach/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// Run собирает зависимости и запускает HTTP-сервер и outbox worker.
// Возвращает ошибку только при фатальном сбое запуска или работы.
func Run(cfg *config.Config, logger logger.Logger) error {
	appCloser := closer.NewCloser(2 * time.Second)

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	defer shutdownCancel()

	db, err := initPGDB(logger, cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	appCloser.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		logger.Errorf(err, "failed to initialize MinIO bucket")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	appCloser.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	cacheRepo := redis.NewCacheRepo(redisClient, cfg.Redis, logger)
	wardrobeRepo := pgdb.NewWardrobeRepo(db.Pool)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool)
	indexRepo := indexfile.NewIndexRepo(cfg.Index.Path, cfg.Index.VectorSize)

	inferenceClient := inference.NewClient(cfg.Inference, logger)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, logger, shutdownCtx)
	colorExtractor := imaging.NewColorExtractor()

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	appCloser.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		logger.Errorf(err, "failed to ensure kafka topic")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	outboxWorker := kafka.NewOutboxWorker(outboxRepo, logger, producer, db.Dsn)
	outboxWorker.Start(shutdownCtx)
	appCloser.Add(func(ctx context.Context) error {
		outboxWorker.Stop()
		return nil
	})

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	cirUC := usecase.NewCirUC(indexRepo, logger)
	wardrobeUC := usecase.NewWardrobeUC(
		wardrobeRepo,
		outboxRepo,
		cacheRepo,
		db.Pool,
		inferenceClient,
		imagesInfra,
		colorExtractor,
		logger,
		rng,
	)
	stylistUC := usecase.NewStylistUC()

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(cirUC, wardrobeUC, stylistUC, inferenceClient)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	appCloser.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()

	if err := appCloser.Close(closeCtx); err != nil {
		logger.Warnf("Shutdown finished with errors: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- imagesInfra.WaitForCleanup(closeCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Warnf("MinIO cleanup error: %v", err)
		} else {
			logger.Infof("MinIO cleanup completed")
		}
	case <-time.After(5 * time.Second): // локальный таймаут ожидания cleanup
		logger.Warnf("MinIO cleanup did not finish before shutdown, some temporary objects may remain")
	}

	shutdownCancel()

	logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
