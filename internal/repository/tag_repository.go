package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"charavault/internal/model"
)

// TagRepository is the tag registry: a get-or-create mapping from normalized
// tag text to a stable tag id.
type TagRepository interface {
	GetOrCreate(ctx context.Context, text string) (uint, error)
}

// tagStore is the minimal store surface getOrCreate needs. Split out so the
// race-resolution path can be exercised without a live database.
type tagStore interface {
	find(ctx context.Context, text string) (*model.Tag, error)
	create(ctx context.Context, tag *model.Tag) error
}

type tagRepository struct {
	db *gorm.DB
}

var _ tagStore = (*tagRepository)(nil)

// NewTagRepository builds a GORM-backed tag registry.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) find(ctx context.Context, text string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).Where("tag = ?", text).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// GetOrCreate resolves normalized tag text to its id, creating the tag on
// first use.
func (r *tagRepository) GetOrCreate(ctx context.Context, text string) (uint, error) {
	return getOrCreate(ctx, r, text)
}

// getOrCreate looks the text up and inserts on a miss. Two concurrent calls
// for a new text may both miss the lookup and both insert; the unique index
// on the text column makes one insert lose with a duplicate-key error, and
// the loser re-reads the winner's row.
func getOrCreate(ctx context.Context, store tagStore, text string) (uint, error) {
	tag, err := store.find(ctx, text)
	if err == nil {
		return tag.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	fresh := &model.Tag{Text: text}
	if err := store.create(ctx, fresh); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, err := store.find(ctx, text)
			if err != nil {
				return 0, err
			}
			return existing.ID, nil
		}
		return 0, err
	}
	return fresh.ID, nil
}
