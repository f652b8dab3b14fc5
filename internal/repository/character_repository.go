package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"charavault/internal/model"
)

const summaryColumns = "oc.id, oc.name, oc.headshot_image, u.username AS artist_username"

// CharacterRepository defines character persistence operations, including the
// tag associations owned by the character store.
type CharacterRepository interface {
	Create(ctx context.Context, character *model.Character) error
	FindByID(ctx context.Context, id uint) (*model.Character, error)
	UpdateAssets(ctx context.Context, id uint, headshot, turnaround string) error
	LinkTag(ctx context.Context, characterID, tagID uint) error
	TagsFor(ctx context.Context, characterID uint) ([]string, error)
	ListAll(ctx context.Context) ([]model.CharacterSummary, error)
	ListByArtist(ctx context.Context, artistID uint) ([]model.CharacterSummary, error)
	SearchByName(ctx context.Context, term string) ([]model.CharacterSummary, error)
	SearchByTag(ctx context.Context, term string) ([]model.CharacterSummary, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CharacterRepository) error) error
}

type characterRepository struct {
	db *gorm.DB
}

// NewCharacterRepository creates a new character repository.
func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) Create(ctx context.Context, character *model.Character) error {
	return r.db.WithContext(ctx).Create(character).Error
}

func (r *characterRepository) FindByID(ctx context.Context, id uint) (*model.Character, error) {
	var character model.Character
	if err := r.db.WithContext(ctx).First(&character, id).Error; err != nil {
		return nil, err
	}
	return &character, nil
}

// UpdateAssets writes the derived asset filenames back onto the row.
func (r *characterRepository) UpdateAssets(ctx context.Context, id uint, headshot, turnaround string) error {
	return r.db.WithContext(ctx).Model(&model.Character{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"headshot_image":   headshot,
			"turnaround_image": turnaround,
		}).Error
}

func (r *characterRepository) LinkTag(ctx context.Context, characterID, tagID uint) error {
	return r.db.WithContext(ctx).Create(&model.CharacterTag{
		CharacterID: characterID,
		TagID:       tagID,
	}).Error
}

// TagsFor returns the tag texts linked to a character, in join order.
func (r *characterRepository) TagsFor(ctx context.Context, characterID uint) ([]string, error) {
	var tags []string
	err := r.db.WithContext(ctx).
		Table("Tags AS t").
		Joins("JOIN OC_Tags ct ON ct.tag_id = t.id").
		Where("ct.oc_id = ?", characterID).
		Pluck("t.tag", &tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *characterRepository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("Original_Characters AS oc").
		Joins("JOIN users u ON u.id = oc.artist_id").
		Order("oc.id DESC")
}

func (r *characterRepository) ListAll(ctx context.Context) ([]model.CharacterSummary, error) {
	var out []model.CharacterSummary
	err := r.summaries(ctx).Select(summaryColumns).Scan(&out).Error
	return out, err
}

func (r *characterRepository) ListByArtist(ctx context.Context, artistID uint) ([]model.CharacterSummary, error) {
	var out []model.CharacterSummary
	err := r.summaries(ctx).Select(summaryColumns).
		Where("oc.artist_id = ?", artistID).
		Scan(&out).Error
	return out, err
}

// SearchByName matches a case-insensitive substring of the character name.
func (r *characterRepository) SearchByName(ctx context.Context, term string) ([]model.CharacterSummary, error) {
	var out []model.CharacterSummary
	err := r.summaries(ctx).Select(summaryColumns).
		Where("LOWER(oc.name) LIKE ?", likePattern(term)).
		Scan(&out).Error
	return out, err
}

// SearchByTag matches a case-insensitive substring of any linked tag text.
// DISTINCT keeps a character that matches through several tags to one row.
func (r *characterRepository) SearchByTag(ctx context.Context, term string) ([]model.CharacterSummary, error) {
	var out []model.CharacterSummary
	err := r.summaries(ctx).Select("DISTINCT " + summaryColumns).
		Joins("JOIN OC_Tags ct ON ct.oc_id = oc.id").
		Joins("JOIN Tags t ON t.id = ct.tag_id").
		Where("LOWER(t.tag) LIKE ?", likePattern(term)).
		Scan(&out).Error
	return out, err
}

// WithTransaction executes fn against a repository bound to one transaction.
// The transaction is committed when fn returns nil and rolled back otherwise,
// so the scope is released on every exit path.
func (r *characterRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CharacterRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &characterRepository{db: tx})
	})
}

func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.ToLower(term))
	return "%" + escaped + "%"
}
