package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Totarae/ARCTraders/internal/database"
	"github.com/Totarae/ARCTraders/internal/model"
	"github.com/Totarae/ARCTraders/internal/util"
	"github.com/jackc/pgx/v5"
)

// TagRepository отвечает за реестр тегов: поиск существующего тега по имени
// или slug и создание нового с восстановлением после гонки на уникальном
// индексе.
type TagRepository struct {
	DB *database.DB
}

// NewTagRepository создаёт новый экземпляр TagRepository.
func NewTagRepository(db *database.DB) *TagRepository {
	return &TagRepository{DB: db}
}

// Resolve возвращает тег для сырого пользовательского ввода, создавая его при
// необходимости. Порядок: точное имя -> slug -> вставка. Два разных написания
// ("café" и "cafe") дают один slug и обязаны сойтись в одну запись.
// Выполняется на переданном Querier, поэтому участвует в транзакции записи
// объявления.
func (r *TagRepository) Resolve(ctx context.Context, q database.Querier, raw string) (*model.Tag, error) {
	name := util.NormalizeTagName(raw)
	slug := util.Slugify(name)
	if name == "" || slug == "" {
		return nil, fmt.Errorf("tag %q normalizes to empty", raw)
	}

	if tag, err := r.getByName(ctx, q, name); err != nil {
		return nil, err
	} else if tag != nil {
		return tag, nil
	}

	if tag, err := r.getBySlug(ctx, q, slug); err != nil {
		return nil, err
	} else if tag != nil {
		return tag, nil
	}

	query := `INSERT INTO tags (name, slug)
              VALUES ($1, $2)
              ON CONFLICT DO NOTHING
              RETURNING id`

	tag := &model.Tag{Name: name, Slug: slug}
	err := q.QueryRow(ctx, query, name, slug).Scan(&tag.ID)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("database insert error: %w", err)
	}

	// Конфликт: параллельный запрос успел создать тег с тем же именем или
	// slug в окне между выборкой и вставкой. Перечитываем.
	if tag, lookupErr := r.getByName(ctx, q, name); lookupErr != nil {
		return nil, lookupErr
	} else if tag != nil {
		return tag, nil
	}
	if tag, lookupErr := r.getBySlug(ctx, q, slug); lookupErr != nil {
		return nil, lookupErr
	} else if tag != nil {
		return tag, nil
	}

	// Конфликт был, а записи нет — состояние, которого быть не должно.
	return nil, fmt.Errorf("tag %q conflicted on insert but is not readable", name)
}

func (r *TagRepository) getByName(ctx context.Context, q database.Querier, name string) (*model.Tag, error) {
	tag := &model.Tag{}
	query := `SELECT id, name, slug FROM tags WHERE lower(name) = $1`
	err := q.QueryRow(ctx, query, name).Scan(&tag.ID, &tag.Name, &tag.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("database query error: %w", err)
	}
	return tag, nil
}

func (r *TagRepository) getBySlug(ctx context.Context, q database.Querier, slug string) (*model.Tag, error) {
	tag := &model.Tag{}
	query := `SELECT id, name, slug FROM tags WHERE slug = $1`
	err := q.QueryRow(ctx, query, slug).Scan(&tag.ID, &tag.Name, &tag.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("database query error: %w", err)
	}
	return tag, nil
}
