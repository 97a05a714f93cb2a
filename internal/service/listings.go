package service

import (
	"context"
	"strings"
	"time"

	"github.com/Totarae/ARCTraders/internal/model"
	"github.com/Totarae/ARCTraders/internal/repositories"
	"github.com/Totarae/ARCTraders/internal/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxTags — предел числа тегов на объявление.
const maxTags = 20

// defaultExpiresIn используется, когда клиент не прислал селектор: отсутствие
// выбора не должно рождать вечное объявление.
const defaultExpiresIn = "3d"

var expiryDurations = map[string]time.Duration{
	"5m": 5 * time.Minute,
	"1d": 24 * time.Hour,
	"3d": 3 * 24 * time.Hour,
	"7d": 7 * 24 * time.Hour,
}

// Repository определяет зависимости сервиса объявлений от хранилища.
type Repository interface {
	CreateListing(ctx context.Context, params repositories.CreateListingParams) (*model.Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Search(ctx context.Context, query model.SearchQuery, now time.Time) (*model.SearchResult, error)
	Ping(ctx context.Context) error
}

// ListingService реализует жизненный цикл объявления: валидацию, расчёт
// срока жизни, создание, чтение ленты и точечное чтение. Чистка истёкших
// выполняется попутно на каждой точке входа — фонового планировщика нет.
type ListingService struct {
	Repo   Repository
	Logger *zap.Logger
	now    func() time.Time
}

// NewListingService создаёт новый экземпляр ListingService.
func NewListingService(repo Repository, logger *zap.Logger) *ListingService {
	return &ListingService{Repo: repo, Logger: logger, now: time.Now}
}

// Create валидирует запрос и создаёт объявление. Ошибки валидации выходят
// до любого обращения к базе.
func (s *ListingService) Create(ctx context.Context, req *model.CreateListingRequest) (*model.Listing, error) {
	imageURL := strings.TrimSpace(req.ImageURL)
	offerText := strings.TrimSpace(req.OfferText)
	wantText := strings.TrimSpace(req.WantText)
	steamURL := strings.TrimSpace(req.SteamProfileURL)
	discordHandle := strings.TrimSpace(req.DiscordHandle)

	switch {
	case imageURL == "":
		return nil, ErrImageRequired
	case offerText == "":
		return nil, ErrOfferRequired
	case wantText == "":
		return nil, ErrWantRequired
	case steamURL == "" && discordHandle == "":
		return nil, ErrContactRequired
	}

	key, err := pickExpiresIn(req)
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(expiryDurations[key])

	params := repositories.CreateListingParams{
		ImageURL:         imageURL,
		OfferText:        offerText,
		WantText:         wantText,
		Region:           strings.TrimSpace(req.Region),
		AvailabilityNote: strings.TrimSpace(req.AvailabilityNote),
		ExpiresAt:        &expiresAt,
		TagNames:         util.NormalizeTags(req.Tags, maxTags),
		SteamProfileURL:  steamURL,
		DiscordHandle:    discordHandle,
	}

	listing, err := s.Repo.CreateListing(ctx, params)
	if err != nil {
		s.Logger.Error("Не удалось создать объявление", zap.Error(err))
		return nil, err
	}
	return listing, nil
}

// Search чистит истёкшие объявления и выполняет запрос ленты.
func (s *ListingService) Search(ctx context.Context, query model.SearchQuery) (*model.SearchResult, error) {
	now := s.now()
	if _, err := s.Repo.DeleteExpired(ctx, now); err != nil {
		s.Logger.Error("Не удалось вычистить истёкшие объявления", zap.Error(err))
		return nil, err
	}

	query.Q = strings.TrimSpace(query.Q)
	query.Region = strings.TrimSpace(query.Region)
	query.Tag = strings.TrimSpace(query.Tag)
	if query.Sort != "expiring" {
		query.Sort = "new"
	}

	return s.Repo.Search(ctx, query, now)
}

// Get возвращает одно объявление; перед чтением выполняется sweep, поэтому
// истёкшая запись недоступна и по прямой ссылке. Запись, истёкшая в окне
// между sweep и чтением, тоже считается отсутствующей.
func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	now := s.now()
	if _, err := s.Repo.DeleteExpired(ctx, now); err != nil {
		s.Logger.Error("Не удалось вычистить истёкшие объявления", zap.Error(err))
		return nil, err
	}

	listing, err := s.Repo.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Expired(now) {
		return nil, repositories.ErrListingNotFound
	}
	return listing, nil
}

// Ping проверяет доступность хранилища.
func (s *ListingService) Ping(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}

// pickExpiresIn разбирает селектор срока жизни. Новый формат — expiresIn:
// "5m" | "1d" | "3d" | "7d" (неизвестное значение — ошибка). Старый формат —
// expiresInDays: 1 | 3 | 7; всё остальное падает в безопасный default.
func pickExpiresIn(req *model.CreateListingRequest) (string, error) {
	if v := strings.ToLower(strings.TrimSpace(req.ExpiresIn)); v != "" {
		if _, ok := expiryDurations[v]; !ok {
			return "", ErrInvalidExpiry
		}
		return v, nil
	}

	switch req.ExpiresInDays {
	case 1:
		return "1d", nil
	case 3:
		return "3d", nil
	case 7:
		return "7d", nil
	}

	return defaultExpiresIn, nil
}
