package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Totarae/ARCTraders/internal/handlers"
	"github.com/Totarae/ARCTraders/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type benchListings struct{}

func (b *benchListings) Create(ctx context.Context, req *model.CreateListingRequest) (*model.Listing, error) {
	return &model.Listing{ID: uuid.New(), OfferText: req.OfferText}, nil
}

func (b *benchListings) Search(ctx context.Context, query model.SearchQuery) (*model.SearchResult, error) {
	return &model.SearchResult{
		Listings:   []*model.Listing{},
		TotalCount: 0,
		Regions:    []string{"EU West"},
		TopTags:    []*model.TagCount{{Name: "rare", Count: 3}},
	}, nil
}

func (b *benchListings) Get(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	return &model.Listing{ID: id}, nil
}

func (b *benchListings) Ping(ctx context.Context) error { return nil }

type benchFeedback struct{}

func (b *benchFeedback) Submit(ctx context.Context, req *model.FeedbackRequest, userAgent string) (*model.FeedbackResponse, error) {
	return &model.FeedbackResponse{OK: true}, nil
}

func setupBenchHandler() *handlers.Handler {
	return handlers.NewHandler(&benchListings{}, &benchFeedback{}, nil, zap.NewNop())
}

func BenchmarkCreateListing(b *testing.B) {
	handler := setupBenchHandler()
	body := `{"imageUrl":"https://cdn.local/1.jpg","offerText":"Sniper","wantText":"Keycard","steamProfileUrl":"https://steamcommunity.com/id/p"}`

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.CreateListing(rec, req)
	}
}

func BenchmarkSearchListings(b *testing.B) {
	handler := setupBenchHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/listings?q=sniper&sort=expiring", nil)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		handler.SearchListings(rec, req.Clone(context.Background()))
	}
}

func BenchmarkSaveFeedback(b *testing.B) {
	handler := setupBenchHandler()
	body := `{"kind":"bug","message":"the search box eats my query"}`

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.SaveFeedback(rec, req)
	}
}
