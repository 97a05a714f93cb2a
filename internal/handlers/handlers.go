package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Totarae/ARCTraders/internal/model"
	"github.com/Totarae/ARCTraders/internal/repositories"
	"github.com/Totarae/ARCTraders/internal/service"
	"github.com/Totarae/ARCTraders/internal/storage"
	"github.com/Totarae/ARCTraders/internal/util"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadSize ограничивает размер загружаемого изображения (10 МБ).
const maxUploadSize = 10 << 20

// Listings определяет методы сервиса объявлений, нужные обработчикам.
type Listings interface {
	Create(ctx context.Context, req *model.CreateListingRequest) (*model.Listing, error)
	Search(ctx context.Context, query model.SearchQuery) (*model.SearchResult, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	Ping(ctx context.Context) error
}

// Feedback определяет методы сервиса обратной связи, нужные обработчикам.
type Feedback interface {
	Submit(ctx context.Context, req *model.FeedbackRequest, userAgent string) (*model.FeedbackResponse, error)
}

// Handler связывает HTTP-слой с сервисами.
type Handler struct {
	Listings Listings
	Feedback Feedback
	Store    storage.ObjectStorage
	Logger   *zap.Logger
}

// NewHandler создаёт новый экземпляр Handler.
func NewHandler(listings Listings, feedback Feedback, store storage.ObjectStorage, logger *zap.Logger) *Handler {
	return &Handler{
		Listings: listings,
		Feedback: feedback,
		Store:    store,
		Logger:   logger,
	}
}

// CreateListing обрабатывает POST /api/listings.
func (h *Handler) CreateListing(res http.ResponseWriter, req *http.Request) {
	var body model.CreateListingRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.writeError(res, http.StatusBadRequest, "invalid body (expected JSON)")
		return
	}

	listing, err := h.Listings.Create(req.Context(), &body)
	if err != nil {
		if service.IsValidationError(err) {
			h.writeError(res, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("Ошибка создания объявления", zap.Error(err))
		h.writeError(res, http.StatusInternalServerError, "failed to create listing")
		return
	}

	h.writeJSON(res, http.StatusCreated, model.CreateListingResponse{Listing: listing})
}

// SearchListings обрабатывает GET /api/listings.
func (h *Handler) SearchListings(res http.ResponseWriter, req *http.Request) {
	params := req.URL.Query()
	query := model.SearchQuery{
		Q:      params.Get("q"),
		Region: params.Get("region"),
		Tag:    params.Get("tag"),
		Sort:   strings.TrimSpace(params.Get("sort")),
	}

	result, err := h.Listings.Search(req.Context(), query)
	if err != nil {
		h.Logger.Error("Ошибка запроса ленты", zap.Error(err))
		h.writeError(res, http.StatusInternalServerError, "failed to load listings")
		return
	}

	h.writeJSON(res, http.StatusOK, result)
}

// GetListing обрабатывает GET /api/listings/{id}.
func (h *Handler) GetListing(res http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		h.writeError(res, http.StatusBadRequest, "invalid listing id")
		return
	}

	listing, err := h.Listings.Get(req.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrListingNotFound) {
			h.writeError(res, http.StatusNotFound, "listing not found")
			return
		}
		h.Logger.Error("Ошибка чтения объявления", zap.Error(err))
		h.writeError(res, http.StatusInternalServerError, "failed to load listing")
		return
	}

	h.writeJSON(res, http.StatusOK, model.CreateListingResponse{Listing: listing})
}

// UploadImage обрабатывает POST /api/uploads: принимает multipart-файл,
// кладёт его в объектное хранилище и возвращает публичный URL.
func (h *Handler) UploadImage(res http.ResponseWriter, req *http.Request) {
	if !strings.Contains(req.Header.Get("Content-Type"), "multipart/form-data") {
		h.writeError(res, http.StatusBadRequest, "expected multipart/form-data")
		return
	}

	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		h.writeError(res, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		h.writeError(res, http.StatusBadRequest, "file is missing")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		h.writeError(res, http.StatusBadRequest, "file is too large (max 10 MB)")
		return
	}

	// Читаем на байт больше лимита: если лимит выбран целиком, файл больше
	// заявленного и сохранять обрезанные байты нельзя.
	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		h.writeError(res, http.StatusBadRequest, "failed to read file")
		return
	}
	if len(data) > maxUploadSize {
		h.writeError(res, http.StatusBadRequest, "file is too large (max 10 MB)")
		return
	}

	contentType := header.Header.Get("Content-Type")
	ext := "jpg"
	switch contentType {
	case "image/png":
		ext = "png"
	case "image/webp":
		ext = "webp"
	case "":
		contentType = "image/jpeg"
	}

	key := util.ObjectKey(ext)
	publicURL, err := h.Store.Upload(req.Context(), key, data, contentType)
	if err != nil {
		h.Logger.Error("Ошибка загрузки изображения", zap.Error(err))
		h.writeError(res, http.StatusInternalServerError, "failed to store file")
		return
	}

	h.writeJSON(res, http.StatusOK, model.UploadResponse{PublicURL: publicURL, Path: key})
}

// SaveFeedback обрабатывает POST /api/feedback.
func (h *Handler) SaveFeedback(res http.ResponseWriter, req *http.Request) {
	var body model.FeedbackRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.writeError(res, http.StatusBadRequest, "invalid body (expected JSON)")
		return
	}

	result, err := h.Feedback.Submit(req.Context(), &body, req.UserAgent())
	if err != nil {
		if service.IsValidationError(err) {
			h.writeError(res, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("Ошибка сохранения отзыва", zap.Error(err))
		h.writeError(res, http.StatusInternalServerError, "failed to save feedback")
		return
	}

	status := http.StatusCreated
	if result.Duplicated {
		status = http.StatusOK
	}
	h.writeJSON(res, status, result)
}

// Ping обрабатывает GET /ping.
func (h *Handler) Ping(res http.ResponseWriter, req *http.Request) {
	if err := h.Listings.Ping(req.Context()); err != nil {
		h.writeError(res, http.StatusInternalServerError, "database unavailable")
		return
	}
	res.WriteHeader(http.StatusOK)
}

func (h *Handler) writeJSON(res http.ResponseWriter, status int, payload any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	if err := json.NewEncoder(res).Encode(payload); err != nil {
		h.Logger.Error("Ошибка сериализации ответа", zap.Error(err))
	}
}

func (h *Handler) writeError(res http.ResponseWriter, status int, msg string) {
	h.writeJSON(res, status, model.ErrorResponse{Error: msg})
}
