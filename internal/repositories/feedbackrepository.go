package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Totarae/ARCTraders/internal/database"
	"github.com/Totarae/ARCTraders/internal/model"
	"github.com/jackc/pgx/v5"
)

// FeedbackRepository хранит сообщения формы обратной связи.
type FeedbackRepository struct {
	DB *database.DB
}

// NewFeedbackRepository создаёт новый экземпляр FeedbackRepository.
func NewFeedbackRepository(db *database.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

// HasRecentDuplicate сообщает, приходило ли точно такое же сообщение после
// since. Используется для защиты от даблкликов по кнопке отправки.
func (r *FeedbackRepository) HasRecentDuplicate(ctx context.Context, message string, since time.Time) (bool, error) {
	var id int64
	query := `SELECT id FROM feedback WHERE message = $1 AND created >= $2 LIMIT 1`
	err := r.DB.Pool.QueryRow(ctx, query, message, since).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("database query error: %w", err)
	}
	return true, nil
}

// Save сохраняет сообщение обратной связи.
func (r *FeedbackRepository) Save(ctx context.Context, fb *model.Feedback) error {
	query := `INSERT INTO feedback (kind, message, contact, page_url, lang, user_agent, status, created)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              RETURNING id`
	err := r.DB.Pool.QueryRow(ctx, query,
		fb.Kind, fb.Message, fb.Contact, fb.PageURL, fb.Lang, fb.UserAgent, fb.Status, fb.Created,
	).Scan(&fb.ID)
	if err != nil {
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}
