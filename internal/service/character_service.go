package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"charavault/internal/cache"
	apperrors "charavault/internal/errors"
	"charavault/internal/model"
	"charavault/internal/repository"
	"charavault/internal/storage"
)

// CreateCharacterInput carries the multipart creation request.
type CreateCharacterInput struct {
	Name        string
	ArtistID    uint
	Description string
	RawTags     string
	Headshot    *multipart.FileHeader
	Turnarounds []*multipart.FileHeader
}

// CharacterService creates character records with their assets and tags.
type CharacterService interface {
	Create(ctx context.Context, in CreateCharacterInput) (uint, error)
}

type characterService struct {
	characters repository.CharacterRepository
	users      repository.UserRepository
	tags       repository.TagRepository
	assets     storage.Placer
	cache      *cache.Client
}

// NewCharacterService creates a new character service.
func NewCharacterService(
	characters repository.CharacterRepository,
	users repository.UserRepository,
	tags repository.TagRepository,
	assets storage.Placer,
	cache *cache.Client,
) CharacterService {
	return &characterService{
		characters: characters,
		users:      users,
		tags:       tags,
		assets:     assets,
		cache:      cache,
	}
}

// Create validates the request, then inserts the character row, places the
// uploaded assets, writes the derived filenames back and links the tags, all
// inside one transaction. Files are written before the commit point; if the
// transaction aborts they are deleted again, since filesystem writes cannot
// join the store transaction.
func (s *characterService) Create(ctx context.Context, in CreateCharacterInput) (uint, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return 0, apperrors.NewValidationError("character name is required")
	}
	// limits count characters, not bytes, matching the varchar columns
	if utf8.RuneCountInString(name) > model.MaxNameLength {
		return 0, apperrors.NewValidationError(fmt.Sprintf("character name must be %d characters or less", model.MaxNameLength))
	}
	if in.Description == "" {
		return 0, apperrors.NewValidationError("description is required")
	}
	if utf8.RuneCountInString(in.Description) > model.MaxDescriptionLength {
		return 0, apperrors.NewValidationError(fmt.Sprintf("description must be %d characters or less", model.MaxDescriptionLength))
	}

	normalizedTags, err := NormalizeTags(ParseTags(in.RawTags))
	if err != nil {
		return 0, err
	}

	exists, err := s.users.Exists(ctx, in.ArtistID)
	if err != nil {
		return 0, fmt.Errorf("check artist: %w", err)
	}
	if !exists {
		return 0, apperrors.ErrArtistNotFound
	}

	// Tags are global, created lazily and never deleted, so resolving them
	// before the character transaction opens is safe and keeps it short.
	tagIDs := make([]uint, len(normalizedTags))
	for i, text := range normalizedTags {
		id, err := s.tags.GetOrCreate(ctx, text)
		if err != nil {
			return 0, fmt.Errorf("resolve tag %q: %w", text, err)
		}
		tagIDs[i] = id
	}

	var characterID uint
	var placedFiles []string
	err = s.characters.WithTransaction(ctx, func(ctx context.Context, repo repository.CharacterRepository) error {
		character := &model.Character{
			Name:        name,
			ArtistID:    in.ArtistID,
			Description: in.Description,
		}
		if err := repo.Create(ctx, character); err != nil {
			return fmt.Errorf("insert character: %w", err)
		}
		characterID = character.ID

		headshotName, turnaroundNames, err := s.assets.Place(character.ID, in.Headshot, in.Turnarounds)
		if err != nil {
			return err
		}
		placedFiles = append([]string{headshotName}, turnaroundNames...)

		if err := repo.UpdateAssets(ctx, character.ID, headshotName, strings.Join(turnaroundNames, ",")); err != nil {
			return fmt.Errorf("update asset fields: %w", err)
		}

		for _, tagID := range tagIDs {
			if err := repo.LinkTag(ctx, character.ID, tagID); err != nil {
				// the composite key makes a duplicate pair harmless
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					continue
				}
				return fmt.Errorf("link tag %d: %w", tagID, err)
			}
		}
		return nil
	})
	if err != nil {
		if len(placedFiles) > 0 {
			s.assets.Remove(placedFiles)
		}
		return 0, err
	}

	_ = s.cache.Delete(ctx, characterCacheKey(characterID))
	return characterID, nil
}

func characterCacheKey(id uint) string {
	return fmt.Sprintf("character:%d", id)
}
