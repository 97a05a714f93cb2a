package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Totarae/ARCTraders/internal/database"
	"github.com/Totarae/ARCTraders/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository хранит лёгкие контактные записи авторов объявлений.
type UserRepository struct {
	DB *database.DB
}

// NewUserRepository создаёт новый экземпляр UserRepository.
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Resolve находит контактную запись по Steam-профилю или Discord-нику либо
// создаёт новую. Дедупликация best-effort: первая совпавшая запись
// переиспользуется, совпадение ника у двух разных людей — известная
// неточность, а не ошибка.
func (r *UserRepository) Resolve(ctx context.Context, q database.Querier, steamURL, discordHandle string) (*model.User, error) {
	if steamURL == "" && discordHandle == "" {
		return nil, errors.New("at least one contact field is required")
	}

	query, args, err := sq.Select("id", "display_name", "steam_profile_url", "discord_handle", "profile_url", "created").
		From("users").
		Where(contactMatch(steamURL, discordHandle)).
		OrderBy("created ASC").
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	user := &model.User{}
	err = q.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.DisplayName, &user.SteamProfileURL, &user.DiscordHandle, &user.ProfileURL, &user.Created,
	)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("database query error: %w", err)
	}

	return r.create(ctx, q, steamURL, discordHandle)
}

// contactMatch строит условие поиска контактной записи: совпадение любого из
// переданных контактов.
func contactMatch(steamURL, discordHandle string) sq.Or {
	match := sq.Or{}
	if steamURL != "" {
		match = append(match, sq.Eq{"steam_profile_url": steamURL})
	}
	if discordHandle != "" {
		match = append(match, sq.Eq{"discord_handle": discordHandle})
	}
	return match
}

func (r *UserRepository) create(ctx context.Context, q database.Querier, steamURL, discordHandle string) (*model.User, error) {
	user := &model.User{
		ID:      uuid.New(),
		Created: time.Now(),
	}
	if steamURL != "" {
		user.SteamProfileURL = &steamURL
	}
	if discordHandle != "" {
		user.DiscordHandle = &discordHandle
	}

	query := `INSERT INTO users (id, steam_profile_url, discord_handle, created)
              VALUES ($1, $2, $3, $4)`
	if _, err := q.Exec(ctx, query, user.ID, user.SteamProfileURL, user.DiscordHandle, user.Created); err != nil {
		return nil, fmt.Errorf("database insert error: %w", err)
	}
	return user, nil
}
