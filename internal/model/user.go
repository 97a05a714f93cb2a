package model

import (
	"time"

	"github.com/google/uuid"
)

// User — лёгкая запись контактов автора объявления.
// Это не аккаунт: ни пароля, ни сессий. Запись переиспользуется,
// если кто-то уже постил с тем же Steam-профилем или Discord-ником.
type User struct {
	ID              uuid.UUID `json:"id"`
	DisplayName     *string   `json:"displayName"`
	SteamProfileURL *string   `json:"steamProfileUrl"`
	DiscordHandle   *string   `json:"discordHandle"`
	ProfileURL      *string   `json:"profileUrl"`
	Created         time.Time `json:"-"`
}
