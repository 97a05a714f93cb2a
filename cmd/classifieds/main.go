package main

import (
	"net/http"

	"github.com/Totarae/ARCTraders/internal/config"
	"github.com/Totarae/ARCTraders/internal/database"
	"github.com/Totarae/ARCTraders/internal/handlers"
	"github.com/Totarae/ARCTraders/internal/repositories"
	"github.com/Totarae/ARCTraders/internal/router"
	"github.com/Totarae/ARCTraders/internal/service"
	"github.com/Totarae/ARCTraders/internal/storage"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Некорректная конфигурация", zap.Error(err))
	}

	db, err := database.NewDB(cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.DatabaseDSN, cfg.PgMigrationsPath); err != nil {
		logger.Fatal("Не удалось применить миграции", zap.Error(err))
	}

	store, err := storage.NewMinioStorage(
		cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
		cfg.MinioBucket, cfg.MinioUseSSL, logger,
	)
	if err != nil {
		logger.Fatal("Не удалось подключиться к хранилищу изображений", zap.Error(err))
	}

	users := repositories.NewUserRepository(db)
	tags := repositories.NewTagRepository(db)
	listingsRepo := repositories.NewListingRepository(db, users, tags)
	feedbackRepo := repositories.NewFeedbackRepository(db)

	listings := service.NewListingService(listingsRepo, logger)
	feedback := service.NewFeedbackService(feedbackRepo, logger)

	handler := handlers.NewHandler(listings, feedback, store, logger)
	r := router.NewRouter(handler, logger)

	logger.Info("Сервер запущен", zap.String("address", cfg.ServerAddress))
	if cfg.EnableHTTPS {
		err = http.ListenAndServeTLS(cfg.ServerAddress, cfg.TLSCertPath, cfg.TLSKeyPath, r)
	} else {
		err = http.ListenAndServe(cfg.ServerAddress, r)
	}
	if err != nil {
		logger.Fatal("Ошибка при запуске сервера: ", zap.Error(err))
	}
}
