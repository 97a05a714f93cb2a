package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Totarae/ARCTraders/internal/mocks"
	"github.com/Totarae/ARCTraders/internal/model"
	"github.com/Totarae/ARCTraders/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newListingService(t *testing.T) (*ListingService, *mocks.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	s := NewListingService(repo, zap.NewNop())
	return s, repo
}

func validCreateRequest() *model.CreateListingRequest {
	return &model.CreateListingRequest{
		ImageURL:        "https://cdn.example.com/listings/1.jpg",
		OfferText:       "Sniper rifle, tier 3",
		WantText:        "Red keycard",
		SteamProfileURL: "https://steamcommunity.com/id/player",
	}
}

// TestCreate_Validation проверяет, что нарушенные ограничения дают ошибку
// валидации до единого обращения к репозиторию: EXPECT на моке не задан,
// любой вызов провалит тест.
func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.CreateListingRequest)
		wantErr error
	}{
		{"missing image", func(r *model.CreateListingRequest) { r.ImageURL = "   " }, ErrImageRequired},
		{"missing offer", func(r *model.CreateListingRequest) { r.OfferText = "" }, ErrOfferRequired},
		{"missing want", func(r *model.CreateListingRequest) { r.WantText = "\t" }, ErrWantRequired},
		{"no contacts", func(r *model.CreateListingRequest) { r.SteamProfileURL = "" }, ErrContactRequired},
		{"bad expiry", func(r *model.CreateListingRequest) { r.ExpiresIn = "2w" }, ErrInvalidExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newListingService(t)
			req := validCreateRequest()
			tt.mutate(req)

			_, err := s.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestCreate_ExpirySelector(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresIn string
		legacy    int
		want      time.Time
	}{
		{"5m", "5m", 0, base.Add(5 * time.Minute)},
		{"1d", "1d", 0, base.Add(24 * time.Hour)},
		{"3d", "3d", 0, base.Add(3 * 24 * time.Hour)},
		{"7d", "7d", 0, base.Add(7 * 24 * time.Hour)},
		{"upper case", " 7D ", 0, base.Add(7 * 24 * time.Hour)},
		{"default", "", 0, base.Add(3 * 24 * time.Hour)},
		{"legacy 1 day", "", 1, base.Add(24 * time.Hour)},
		{"legacy 7 days", "", 7, base.Add(7 * 24 * time.Hour)},
		{"legacy unknown falls to default", "", 5, base.Add(3 * 24 * time.Hour)},
		{"selector wins over legacy", "5m", 7, base.Add(5 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newListingService(t)
			s.now = func() time.Time { return base }

			var got repositories.CreateListingParams
			repo.EXPECT().
				CreateListing(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, params repositories.CreateListingParams) (*model.Listing, error) {
					got = params
					return &model.Listing{ID: uuid.New()}, nil
				})

			req := validCreateRequest()
			req.ExpiresIn = tt.expiresIn
			req.ExpiresInDays = tt.legacy

			_, err := s.Create(context.Background(), req)
			require.NoError(t, err)
			require.NotNil(t, got.ExpiresAt)
			assert.Equal(t, tt.want, *got.ExpiresAt)
		})
	}
}

// TestCreate_NormalizesInput проверяет обрезку полей и нормализацию тегов
// перед передачей в репозиторий.
func TestCreate_NormalizesInput(t *testing.T) {
	s, repo := newListingService(t)

	var got repositories.CreateListingParams
	repo.EXPECT().
		CreateListing(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params repositories.CreateListingParams) (*model.Listing, error) {
			got = params
			return &model.Listing{ID: uuid.New()}, nil
		})

	req := validCreateRequest()
	req.OfferText = "  Sniper rifle  "
	req.Region = " EU West "
	req.Tags = []string{" Rare ", "rare", "RARE", "Keycard"}

	_, err := s.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Sniper rifle", got.OfferText)
	assert.Equal(t, "EU West", got.Region)
	assert.Equal(t, []string{"rare", "keycard"}, got.TagNames)
}

func TestCreate_RepositoryError(t *testing.T) {
	s, repo := newListingService(t)

	repo.EXPECT().
		CreateListing(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	_, err := s.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}

// TestSearch_SweepBeforeQuery проверяет, что чистка истёкших выполняется до
// запроса ленты и с тем же моментом времени.
func TestSearch_SweepBeforeQuery(t *testing.T) {
	s, repo := newListingService(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	want := &model.SearchResult{TotalCount: 2}
	gomock.InOrder(
		repo.EXPECT().DeleteExpired(gomock.Any(), now).Return(int64(3), nil),
		repo.EXPECT().
			Search(gomock.Any(), model.SearchQuery{Q: "sniper", Sort: "new"}, now).
			Return(want, nil),
	)

	got, err := s.Search(context.Background(), model.SearchQuery{Q: " sniper ", Sort: "oldest"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSearch_SweepError(t *testing.T) {
	s, repo := newListingService(t)

	repo.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("deadlock"))

	_, err := s.Search(context.Background(), model.SearchQuery{})
	assert.Error(t, err)
}

func TestGet_SweepsFirst(t *testing.T) {
	s, repo := newListingService(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	id := uuid.New()
	want := &model.Listing{ID: id}
	gomock.InOrder(
		repo.EXPECT().DeleteExpired(gomock.Any(), now).Return(int64(1), nil),
		repo.EXPECT().GetListing(gomock.Any(), id).Return(want, nil),
	)

	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TestGet_ExpiredBetweenSweepAndFetch: запись, истёкшая после sweep, но до
// чтения, неотличима от отсутствующей.
func TestGet_ExpiredBetweenSweepAndFetch(t *testing.T) {
	s, repo := newListingService(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	id := uuid.New()
	expired := now.Add(-time.Second)
	repo.EXPECT().DeleteExpired(gomock.Any(), now).Return(int64(0), nil)
	repo.EXPECT().GetListing(gomock.Any(), id).Return(&model.Listing{ID: id, ExpiresAt: &expired}, nil)

	_, err := s.Get(context.Background(), id)
	assert.ErrorIs(t, err, repositories.ErrListingNotFound)
}

func TestGet_NotFoundAfterSweep(t *testing.T) {
	s, repo := newListingService(t)

	id := uuid.New()
	repo.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(1), nil)
	repo.EXPECT().GetListing(gomock.Any(), id).Return(nil, repositories.ErrListingNotFound)

	_, err := s.Get(context.Background(), id)
	assert.ErrorIs(t, err, repositories.ErrListingNotFound)
}
