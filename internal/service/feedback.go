package service

import (
	"context"
	"strings"
	"time"

	"github.com/Totarae/ARCTraders/internal/model"
	"go.uber.org/zap"
)

// Ограничения формы обратной связи.
const (
	feedbackMinMessage = 10
	feedbackMaxMessage = 2000
	feedbackMaxContact = 200
	feedbackMaxPageURL = 500

	// Повтор того же текста в этом окне считается даблкликом, а не новым
	// сообщением.
	feedbackDedupWindow = 10 * time.Minute
)

// FeedbackRepository определяет зависимости сервиса обратной связи.
type FeedbackRepository interface {
	HasRecentDuplicate(ctx context.Context, message string, since time.Time) (bool, error)
	Save(ctx context.Context, fb *model.Feedback) error
}

// FeedbackService принимает сообщения формы обратной связи.
type FeedbackService struct {
	Repo   FeedbackRepository
	Logger *zap.Logger
	now    func() time.Time
}

// NewFeedbackService создаёт новый экземпляр FeedbackService.
func NewFeedbackService(repo FeedbackRepository, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{Repo: repo, Logger: logger, now: time.Now}
}

// Submit валидирует и сохраняет сообщение. Дубликат за последние 10 минут
// подтверждается без повторной записи.
func (s *FeedbackService) Submit(ctx context.Context, req *model.FeedbackRequest, userAgent string) (*model.FeedbackResponse, error) {
	kind, err := feedbackKind(req.Kind)
	if err != nil {
		return nil, err
	}

	message := strings.TrimSpace(req.Message)
	contact := strings.TrimSpace(req.Contact)
	pageURL := strings.TrimSpace(req.PageURL)
	lang := strings.TrimSpace(req.Lang)

	switch {
	case len([]rune(message)) < feedbackMinMessage:
		return nil, ErrMessageTooShort
	case len([]rune(message)) > feedbackMaxMessage:
		return nil, ErrMessageTooLong
	case len([]rune(contact)) > feedbackMaxContact:
		return nil, ErrContactTooLong
	case len([]rune(pageURL)) > feedbackMaxPageURL:
		return nil, ErrPageURLTooLong
	}

	now := s.now()
	duplicated, err := s.Repo.HasRecentDuplicate(ctx, message, now.Add(-feedbackDedupWindow))
	if err != nil {
		s.Logger.Error("Не удалось проверить дубликат отзыва", zap.Error(err))
		return nil, err
	}
	if duplicated {
		return &model.FeedbackResponse{OK: true, Duplicated: true}, nil
	}

	fb := &model.Feedback{
		Kind:    kind,
		Message: message,
		Status:  "OPEN",
		Created: now,
	}
	if contact != "" {
		fb.Contact = &contact
	}
	if pageURL != "" {
		fb.PageURL = &pageURL
	}
	if lang != "" {
		fb.Lang = &lang
	}
	if userAgent != "" {
		fb.UserAgent = &userAgent
	}

	if err := s.Repo.Save(ctx, fb); err != nil {
		s.Logger.Error("Не удалось сохранить отзыв", zap.Error(err))
		return nil, err
	}
	return &model.FeedbackResponse{OK: true}, nil
}

func feedbackKind(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bug":
		return model.FeedbackKindBug, nil
	case "suggestion":
		return model.FeedbackKindSuggestion, nil
	}
	return "", ErrInvalidFeedbackKind
}
