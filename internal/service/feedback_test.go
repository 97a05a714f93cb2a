package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Totarae/ARCTraders/internal/mocks"
	"github.com/Totarae/ARCTraders/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newFeedbackService(t *testing.T) (*FeedbackService, *mocks.MockFeedbackRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockFeedbackRepository(ctrl)
	s := NewFeedbackService(repo, zap.NewNop())
	return s, repo
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *model.FeedbackRequest
		wantErr error
	}{
		{
			"unknown kind",
			&model.FeedbackRequest{Kind: "rant", Message: "something broke badly"},
			ErrInvalidFeedbackKind,
		},
		{
			"message too short",
			&model.FeedbackRequest{Kind: "bug", Message: "short"},
			ErrMessageTooShort,
		},
		{
			"message too long",
			&model.FeedbackRequest{Kind: "bug", Message: strings.Repeat("x", 2001)},
			ErrMessageTooLong,
		},
		{
			"contact too long",
			&model.FeedbackRequest{Kind: "bug", Message: "something broke badly", Contact: strings.Repeat("c", 201)},
			ErrContactTooLong,
		},
		{
			"page url too long",
			&model.FeedbackRequest{Kind: "bug", Message: "something broke badly", PageURL: strings.Repeat("u", 501)},
			ErrPageURLTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newFeedbackService(t)

			_, err := s.Submit(context.Background(), tt.req, "")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestSubmit_Saves(t *testing.T) {
	s, repo := newFeedbackService(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	repo.EXPECT().
		HasRecentDuplicate(gomock.Any(), "the search box eats my query", now.Add(-10*time.Minute)).
		Return(false, nil)

	var saved *model.Feedback
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fb *model.Feedback) error {
			saved = fb
			return nil
		})

	resp, err := s.Submit(context.Background(), &model.FeedbackRequest{
		Kind:    " Bug ",
		Message: "  the search box eats my query  ",
		Contact: "@player",
		PageURL: "https://arc.example.com/listings",
		Lang:    "pt",
	}, "Mozilla/5.0")
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.False(t, resp.Duplicated)

	require.NotNil(t, saved)
	assert.Equal(t, model.FeedbackKindBug, saved.Kind)
	assert.Equal(t, "the search box eats my query", saved.Message)
	assert.Equal(t, "OPEN", saved.Status)
	assert.Equal(t, now, saved.Created)
	require.NotNil(t, saved.Contact)
	assert.Equal(t, "@player", *saved.Contact)
	require.NotNil(t, saved.UserAgent)
	assert.Equal(t, "Mozilla/5.0", *saved.UserAgent)
}

// TestSubmit_Duplicate проверяет, что повтор того же текста в окне 10 минут
// подтверждается без записи: Save на моке не ожидается.
func TestSubmit_Duplicate(t *testing.T) {
	s, repo := newFeedbackService(t)

	repo.EXPECT().
		HasRecentDuplicate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)

	resp, err := s.Submit(context.Background(), &model.FeedbackRequest{
		Kind:    "suggestion",
		Message: "please add a dark theme",
	}, "")
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.True(t, resp.Duplicated)
}

func TestSubmit_OptionalFieldsOmitted(t *testing.T) {
	s, repo := newFeedbackService(t)

	repo.EXPECT().HasRecentDuplicate(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

	var saved *model.Feedback
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fb *model.Feedback) error {
			saved = fb
			return nil
		})

	_, err := s.Submit(context.Background(), &model.FeedbackRequest{
		Kind:    "suggestion",
		Message: "please add a dark theme",
	}, "")
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, model.FeedbackKindSuggestion, saved.Kind)
	assert.Nil(t, saved.Contact)
	assert.Nil(t, saved.PageURL)
	assert.Nil(t, saved.Lang)
	assert.Nil(t, saved.UserAgent)
}

func TestSubmit_RepositoryError(t *testing.T) {
	s, repo := newFeedbackService(t)

	repo.EXPECT().
		HasRecentDuplicate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(false, errors.New("connection refused"))

	_, err := s.Submit(context.Background(), &model.FeedbackRequest{
		Kind:    "bug",
		Message: "something broke badly",
	}, "")
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}
