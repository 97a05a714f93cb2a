package model

import "time"

// Виды обратной связи.
const (
	FeedbackKindBug        = "BUG"
	FeedbackKindSuggestion = "SUGGESTION"
)

// Feedback — сообщение из формы обратной связи.
type Feedback struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Contact   *string   `json:"contact"`
	PageURL   *string   `json:"pageUrl"`
	Lang      *string   `json:"lang"`
	UserAgent *string   `json:"-"`
	Status    string    `json:"status"`
	Created   time.Time `json:"createdAt"`
}
