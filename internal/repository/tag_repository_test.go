package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"charavault/internal/model"
)

// fakeTagStore scripts the find/create responses getOrCreate sees, standing
// in for the database so the insert-race path can be driven deterministically.
type fakeTagStore struct {
	findResults []findResult
	createErr   error

	findCalls   int
	createCalls int
	created     *model.Tag
}

type findResult struct {
	tag *model.Tag
	err error
}

func (f *fakeTagStore) find(ctx context.Context, text string) (*model.Tag, error) {
	res := f.findResults[f.findCalls]
	f.findCalls++
	return res.tag, res.err
}

func (f *fakeTagStore) create(ctx context.Context, tag *model.Tag) error {
	f.createCalls++
	f.created = tag
	if f.createErr != nil {
		return f.createErr
	}
	tag.ID = 99
	return nil
}

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("existing tag resolves without insert", func(t *testing.T) {
		store := &fakeTagStore{findResults: []findResult{
			{tag: &model.Tag{ID: 3, Text: "fantasy"}},
		}}

		id, err := getOrCreate(ctx, store, "fantasy")

		assert.NoError(t, err)
		assert.Equal(t, uint(3), id)
		assert.Zero(t, store.createCalls)
	})

	t.Run("missing tag is created", func(t *testing.T) {
		store := &fakeTagStore{findResults: []findResult{
			{err: gorm.ErrRecordNotFound},
		}}

		id, err := getOrCreate(ctx, store, "fantasy")

		assert.NoError(t, err)
		assert.Equal(t, uint(99), id)
		assert.Equal(t, 1, store.createCalls)
		assert.Equal(t, "fantasy", store.created.Text)
	})

	t.Run("lost insert race re-reads the winner's row", func(t *testing.T) {
		store := &fakeTagStore{
			findResults: []findResult{
				{err: gorm.ErrRecordNotFound},
				{tag: &model.Tag{ID: 7, Text: "fantasy"}},
			},
			createErr: gorm.ErrDuplicatedKey,
		}

		id, err := getOrCreate(ctx, store, "fantasy")

		assert.NoError(t, err)
		assert.Equal(t, uint(7), id)
		assert.Equal(t, 2, store.findCalls)
		assert.Equal(t, 1, store.createCalls)
	})

	t.Run("re-read failure after lost race propagates", func(t *testing.T) {
		store := &fakeTagStore{
			findResults: []findResult{
				{err: gorm.ErrRecordNotFound},
				{err: gorm.ErrInvalidDB},
			},
			createErr: gorm.ErrDuplicatedKey,
		}

		_, err := getOrCreate(ctx, store, "fantasy")

		assert.ErrorIs(t, err, gorm.ErrInvalidDB)
	})

	t.Run("non-duplicate insert error propagates", func(t *testing.T) {
		store := &fakeTagStore{
			findResults: []findResult{{err: gorm.ErrRecordNotFound}},
			createErr:   gorm.ErrInvalidTransaction,
		}

		_, err := getOrCreate(ctx, store, "fantasy")

		assert.ErrorIs(t, err, gorm.ErrInvalidTransaction)
	})

	t.Run("lookup failure propagates without insert", func(t *testing.T) {
		store := &fakeTagStore{findResults: []findResult{{err: gorm.ErrInvalidDB}}}

		_, err := getOrCreate(ctx, store, "fantasy")

		assert.ErrorIs(t, err, gorm.ErrInvalidDB)
		assert.Zero(t, store.createCalls)
	})
}
