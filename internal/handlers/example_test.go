package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/Totarae/ARCTraders/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExampleHandler_CreateListing демонстрирует создание объявления.
func ExampleHandler_CreateListing() {
	listings := &mockListings{
		createFn: func(ctx context.Context, req *model.CreateListingRequest) (*model.Listing, error) {
			return &model.Listing{ID: uuid.New(), OfferText: req.OfferText}, nil
		},
	}
	h := NewHandler(listings, nil, nil, zap.NewNop())

	body := `{"imageUrl":"https://cdn.local/1.jpg","offerText":"Sniper","wantText":"Keycard","discordHandle":"player#0001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.CreateListing(rec, req)

	var result model.CreateListingResponse
	_ = json.NewDecoder(rec.Body).Decode(&result)

	fmt.Println(rec.Code)
	fmt.Println(result.Listing.OfferText)

	// Output:
	// 201
	// Sniper
}

// ExampleHandler_SearchListings демонстрирует запрос ленты с фасетами.
func ExampleHandler_SearchListings() {
	listings := &mockListings{
		searchFn: func(ctx context.Context, query model.SearchQuery) (*model.SearchResult, error) {
			return &model.SearchResult{
				Listings:   []*model.Listing{},
				TotalCount: 2,
				Regions:    []string{"EU West", "NA East"},
				TopTags:    []*model.TagCount{{Name: "rare", Count: 5}},
			}, nil
		},
	}
	h := NewHandler(listings, nil, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/listings?sort=expiring", nil)
	rec := httptest.NewRecorder()

	h.SearchListings(rec, req)

	var result model.SearchResult
	_ = json.NewDecoder(rec.Body).Decode(&result)

	fmt.Println(rec.Code)
	fmt.Println(result.TotalCount)
	fmt.Println(result.Regions[0])

	// Output:
	// 200
	// 2
	// EU West
}
