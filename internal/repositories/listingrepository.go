package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Totarae/ARCTraders/internal/database"
	"github.com/Totarae/ARCTraders/internal/model"
	"github.com/Totarae/ARCTraders/internal/util"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Пределы выдачи ленты, как в исходном UI.
const (
	searchPageSize = 30
	regionsLimit   = 80
	topTagsLimit   = 12
)

// ErrListingNotFound возвращается, когда объявление отсутствует или уже
// вычищено как истёкшее.
var ErrListingNotFound = errors.New("listing not found")

// CreateListingParams — прошедшие валидацию данные нового объявления.
// Expiry уже вычислен сервисом, теги нормализованы и дедуплицированы.
type CreateListingParams struct {
	ImageURL         string
	OfferText        string
	WantText         string
	Region           string
	AvailabilityNote string
	ExpiresAt        *time.Time
	TagNames         []string
	SteamProfileURL  string
	DiscordHandle    string
}

// ListingRepositoryInterface определяет методы репозитория объявлений.
type ListingRepositoryInterface interface {
	CreateListing(ctx context.Context, params CreateListingParams) (*model.Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Search(ctx context.Context, query model.SearchQuery, now time.Time) (*model.SearchResult, error)
	Ping(ctx context.Context) error
}

// ListingRepository реализует ListingRepositoryInterface поверх PostgreSQL.
type ListingRepository struct {
	DB    *database.DB
	Users *UserRepository
	Tags  *TagRepository
}

// NewListingRepository создаёт новый экземпляр ListingRepository.
func NewListingRepository(db *database.DB, users *UserRepository, tags *TagRepository) *ListingRepository {
	return &ListingRepository{DB: db, Users: users, Tags: tags}
}

// Ping проверяет доступность базы данных.
func (r *ListingRepository) Ping(ctx context.Context) error {
	_, err := r.DB.Pool.Exec(ctx, "SELECT 1")
	return err
}

// CreateListing сохраняет объявление в одной транзакции: чистка истёкших,
// подбор контактной записи, вставка объявления, привязка тегов, финальное
// чтение полной записи. Любая ошибка откатывает всё: частичное объявление
// (например, без тегов) не должно быть видимо никогда.
func (r *ListingRepository) CreateListing(ctx context.Context, params CreateListingParams) (*model.Listing, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	if _, err := r.deleteExpired(ctx, tx, now); err != nil {
		return nil, err
	}

	user, err := r.Users.Resolve(ctx, tx, params.SteamProfileURL, params.DiscordHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve contact: %w", err)
	}

	id := uuid.New()
	query := `INSERT INTO listings (id, user_id, image_url, offer_text, want_text, region, availability_note, created, expires_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.Exec(ctx, query,
		id, user.ID, params.ImageURL, params.OfferText, params.WantText,
		nullable(params.Region), nullable(params.AvailabilityNote), now, params.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("database insert error: %w", err)
	}

	for _, name := range params.TagNames {
		tag, err := r.Tags.Resolve(ctx, tx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tag %q: %w", name, err)
		}
		// Повторная привязка той же пары (listing, tag) молча игнорируется.
		_, err = tx.Exec(ctx,
			`INSERT INTO listing_tags (listing_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, tag.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to link tag %q: %w", name, err)
		}
	}

	listing, err := r.getListing(ctx, tx, id, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return listing, nil
}

// GetListing возвращает живое объявление с автором и тегами. Истёкшее, но
// ещё не вычищенное объявление неотличимо от отсутствующего.
func (r *ListingRepository) GetListing(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	return r.getListing(ctx, r.DB.Pool, id, time.Now())
}

// DeleteExpired физически удаляет все объявления с истёкшим expires_at.
// Связки с тегами уходят каскадом. Вызов идемпотентен и безопасен из
// параллельных запросов: удаление уже удалённой строки — no-op.
func (r *ListingRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.deleteExpired(ctx, r.DB.Pool, now)
}

func (r *ListingRepository) deleteExpired(ctx context.Context, q database.Querier, now time.Time) (int64, error) {
	tag, err := q.Exec(ctx, `DELETE FROM listings WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired listings: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Search выполняет запрос ленты: фильтрация, сортировка, страница до 30
// записей с авторами и тегами, общее число совпадений и фасеты для UI.
func (r *ListingRepository) Search(ctx context.Context, query model.SearchQuery, now time.Time) (*model.SearchResult, error) {
	conds := searchConditions(query, now)

	listings, err := r.queryListings(ctx, conds, searchOrder(query.Sort))
	if err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, listings); err != nil {
		return nil, err
	}

	total, err := r.countListings(ctx, conds)
	if err != nil {
		return nil, err
	}

	regions, err := r.activeRegions(ctx, now)
	if err != nil {
		return nil, err
	}

	topTags, err := r.topTags(ctx, now)
	if err != nil {
		return nil, err
	}

	return &model.SearchResult{
		Listings:   listings,
		TotalCount: total,
		Regions:    regions,
		TopTags:    topTags,
	}, nil
}

// searchConditions строит WHERE ленты. Пустые q/region/tag фильтра не
// накладывают. Базовый предикат отсекает истёкшие записи даже до того, как
// их вычистит ближайший sweep.
func searchConditions(query model.SearchQuery, now time.Time) sq.And {
	conds := sq.And{
		sq.Or{
			sq.Eq{"l.expires_at": nil},
			sq.Gt{"l.expires_at": now},
		},
	}

	if query.Region != "" {
		conds = append(conds, sq.ILike{"l.region": "%" + query.Region + "%"})
	}

	if query.Tag != "" {
		name := util.NormalizeTagName(query.Tag)
		conds = append(conds, sq.Expr(
			`EXISTS (SELECT 1 FROM listing_tags lt
                     JOIN tags t ON t.id = lt.tag_id
                     WHERE lt.listing_id = l.id AND (lower(t.name) = ? OR t.slug = ?))`,
			name, util.Slugify(name),
		))
	}

	if query.Q != "" {
		pattern := "%" + query.Q + "%"
		conds = append(conds, sq.Or{
			sq.ILike{"l.offer_text": pattern},
			sq.ILike{"l.want_text": pattern},
			sq.ILike{"l.availability_note": pattern},
			sq.ILike{"l.region": pattern},
			sq.Expr(
				`EXISTS (SELECT 1 FROM listing_tags lt
                         JOIN tags t ON t.id = lt.tag_id
                         WHERE lt.listing_id = l.id AND (t.name ILIKE ? OR t.slug ILIKE ?))`,
				"%"+util.NormalizeTagName(query.Q)+"%", "%"+util.Slugify(query.Q)+"%",
			),
		})
	}

	return conds
}

// searchOrder возвращает порядок сортировки ленты. Для "expiring" вечные
// объявления (expires_at IS NULL) уходят в конец, внутри равных — новее
// выше.
func searchOrder(sort string) []string {
	if sort == "expiring" {
		return []string{"l.expires_at ASC NULLS LAST", "l.created DESC"}
	}
	return []string{"l.created DESC"}
}

func (r *ListingRepository) queryListings(ctx context.Context, conds sq.And, orderBy []string) ([]*model.Listing, error) {
	query, args, err := sq.Select(
		"l.id", "l.user_id", "l.image_url", "l.offer_text", "l.want_text",
		"l.region", "l.availability_note", "l.created", "l.expires_at",
		"u.display_name", "u.steam_profile_url", "u.discord_handle", "u.profile_url", "u.created",
	).
		From("listings l").
		Join("users u ON u.id = l.user_id").
		Where(conds).
		OrderBy(orderBy...).
		Limit(searchPageSize).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	defer rows.Close()

	listings := make([]*model.Listing, 0, searchPageSize)
	for rows.Next() {
		l := &model.Listing{User: &model.User{}, Tags: []*model.Tag{}}
		err := rows.Scan(
			&l.ID, &l.UserID, &l.ImageURL, &l.OfferText, &l.WantText,
			&l.Region, &l.AvailabilityNote, &l.Created, &l.ExpiresAt,
			&l.User.DisplayName, &l.User.SteamProfileURL, &l.User.DiscordHandle, &l.User.ProfileURL, &l.User.Created,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		l.User.ID = l.UserID
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	return listings, nil
}

func (r *ListingRepository) countListings(ctx context.Context, conds sq.And) (int, error) {
	query, args, err := sq.Select("count(*)").
		From("listings l").
		Where(conds).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.DB.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("database query error: %w", err)
	}
	return count, nil
}

// attachTags дозагружает теги для выбранной страницы одним запросом.
func (r *ListingRepository) attachTags(ctx context.Context, listings []*model.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(listings))
	byID := make(map[uuid.UUID]*model.Listing, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
		byID[l.ID] = l
	}

	query := `SELECT lt.listing_id, t.id, t.name, t.slug
              FROM listing_tags lt
              JOIN tags t ON t.id = lt.tag_id
              WHERE lt.listing_id = ANY($1)
              ORDER BY t.name`
	rows, err := r.DB.Pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("database query error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listingID uuid.UUID
		tag := &model.Tag{}
		if err := rows.Scan(&listingID, &tag.ID, &tag.Name, &tag.Slug); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		if l, ok := byID[listingID]; ok {
			l.Tags = append(l.Tags, tag)
		}
	}
	return rows.Err()
}

// activeRegions возвращает отсортированный список непустых регионов среди
// живых объявлений — для селектора региона в UI.
func (r *ListingRepository) activeRegions(ctx context.Context, now time.Time) ([]string, error) {
	query := `SELECT DISTINCT btrim(region)
              FROM listings
              WHERE (expires_at IS NULL OR expires_at > $1)
                AND region IS NOT NULL AND btrim(region) <> ''
              ORDER BY 1
              LIMIT $2`
	rows, err := r.DB.Pool.Query(ctx, query, now, regionsLimit)
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	defer rows.Close()

	regions := make([]string, 0, 16)
	for rows.Next() {
		var region string
		if err := rows.Scan(&region); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		regions = append(regions, region)
	}
	return regions, rows.Err()
}

// topTags считает глобальную популярность тегов по живым объявлениям.
// Популярность нарочно не сужается текущим фильтром ленты.
func (r *ListingRepository) topTags(ctx context.Context, now time.Time) ([]*model.TagCount, error) {
	query := `SELECT t.name, count(*) AS cnt
              FROM listing_tags lt
              JOIN tags t ON t.id = lt.tag_id
              JOIN listings l ON l.id = lt.listing_id
              WHERE l.expires_at IS NULL OR l.expires_at > $1
              GROUP BY t.name
              ORDER BY cnt DESC, t.name
              LIMIT $2`
	rows, err := r.DB.Pool.Query(ctx, query, now, topTagsLimit)
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	defer rows.Close()

	tags := make([]*model.TagCount, 0, topTagsLimit)
	for rows.Next() {
		tc := &model.TagCount{}
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		tags = append(tags, tc)
	}
	return tags, rows.Err()
}

func (r *ListingRepository) getListing(ctx context.Context, q database.Querier, id uuid.UUID, now time.Time) (*model.Listing, error) {
	query := `SELECT l.id, l.user_id, l.image_url, l.offer_text, l.want_text,
                     l.region, l.availability_note, l.created, l.expires_at,
                     u.display_name, u.steam_profile_url, u.discord_handle, u.profile_url, u.created
              FROM listings l
              JOIN users u ON u.id = l.user_id
              WHERE l.id = $1
                AND (l.expires_at IS NULL OR l.expires_at > $2)`

	l := &model.Listing{User: &model.User{}, Tags: []*model.Tag{}}
	err := q.QueryRow(ctx, query, id, now).Scan(
		&l.ID, &l.UserID, &l.ImageURL, &l.OfferText, &l.WantText,
		&l.Region, &l.AvailabilityNote, &l.Created, &l.ExpiresAt,
		&l.User.DisplayName, &l.User.SteamProfileURL, &l.User.DiscordHandle, &l.User.ProfileURL, &l.User.Created,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("database query error: %w", err)
	}
	l.User.ID = l.UserID

	tagQuery := `SELECT t.id, t.name, t.slug
                 FROM listing_tags lt
                 JOIN tags t ON t.id = lt.tag_id
                 WHERE lt.listing_id = $1
                 ORDER BY t.name`
	rows, err := q.Query(ctx, tagQuery, id)
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tag := &model.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		l.Tags = append(l.Tags, tag)
	}
	return l, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
