package model

// CreateListingRequest представляет тело запроса на создание объявления.
// ExpiresInDays — устаревший вариант селектора (1|3|7), оставлен для
// совместимости со старыми клиентами.
type CreateListingRequest struct {
	ImageURL         string   `json:"imageUrl"`
	OfferText        string   `json:"offerText"`
	WantText         string   `json:"wantText"`
	Region           string   `json:"region"`
	AvailabilityNote string   `json:"availabilityNote"`
	Tags             []string `json:"tags"`
	SteamProfileURL  string   `json:"steamProfileUrl"`
	DiscordHandle    string   `json:"discordHandle"`
	ExpiresIn        string   `json:"expiresIn"`
	ExpiresInDays    int      `json:"expiresInDays"`
}

// CreateListingResponse — ответ на успешное создание.
type CreateListingResponse struct {
	Listing *Listing `json:"listing"`
}

// SearchQuery — разобранные параметры запроса ленты.
type SearchQuery struct {
	Q      string
	Region string
	Tag    string
	Sort   string // "new" | "expiring"
}

// SearchResult — лента с фасетами для UI.
type SearchResult struct {
	Listings   []*Listing  `json:"listings"`
	TotalCount int         `json:"totalCount"`
	Regions    []string    `json:"regions"`
	TopTags    []*TagCount `json:"topTags"`
}

// FeedbackRequest представляет тело запроса формы обратной связи.
type FeedbackRequest struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Contact string `json:"contact"`
	PageURL string `json:"pageUrl"`
	Lang    string `json:"lang"`
}

// FeedbackResponse — ответ формы обратной связи. Duplicated выставляется,
// если такое же сообщение уже приходило за последние 10 минут.
type FeedbackResponse struct {
	OK         bool `json:"ok"`
	Duplicated bool `json:"duplicated,omitempty"`
}

// UploadResponse — ответ на загрузку изображения.
type UploadResponse struct {
	PublicURL string `json:"publicUrl"`
	Path      string `json:"path"`
}

// ErrorResponse — единый формат ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}
