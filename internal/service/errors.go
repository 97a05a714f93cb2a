package service

import "errors"

// Ошибки валидации входа. Каждое нарушенное ограничение даёт отдельную
// ошибку с понятным пользователю текстом; все они превращаются в 4xx до
// открытия транзакции.
var (
	ErrImageRequired   = errors.New("imageUrl is required")
	ErrOfferRequired   = errors.New("offerText is required")
	ErrWantRequired    = errors.New("wantText is required")
	ErrContactRequired = errors.New("at least one contact is required (Steam or Discord)")
	ErrInvalidExpiry   = errors.New("invalid expiry (use 5m, 1d, 3d or 7d)")

	ErrInvalidFeedbackKind = errors.New("invalid feedback kind (use bug or suggestion)")
	ErrMessageTooShort     = errors.New("message is too short, write a bit more")
	ErrMessageTooLong      = errors.New("message is too long")
	ErrContactTooLong      = errors.New("contact is too long")
	ErrPageURLTooLong      = errors.New("page link is too long")
)

var validationErrors = []error{
	ErrImageRequired,
	ErrOfferRequired,
	ErrWantRequired,
	ErrContactRequired,
	ErrInvalidExpiry,
	ErrInvalidFeedbackKind,
	ErrMessageTooShort,
	ErrMessageTooLong,
	ErrContactTooLong,
	ErrPageURLTooLong,
}

// IsValidationError сообщает, относится ли ошибка к ошибкам валидации
// пользовательского ввода (ответ 400, а не 500).
func IsValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
