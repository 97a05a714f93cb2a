package router

import (
	"github.com/Totarae/ARCTraders/internal/handlers"
	"github.com/Totarae/ARCTraders/internal/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(middleware.GzipMiddleware)            // Gzip-сжатие

	r.Get("/ping", handler.Ping)
	r.Route("/api", func(r chi.Router) {
		r.Post("/listings", handler.CreateListing)
		r.Get("/listings", handler.SearchListings)
		r.Get("/listings/{id}", handler.GetListing)
		r.Post("/uploads", handler.UploadImage)
		r.Post("/feedback", handler.SaveFeedback)
	})
	return r
}
