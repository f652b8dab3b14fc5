package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"charavault/internal/cache"
	apperrors "charavault/internal/errors"
	"charavault/internal/model"
	"charavault/internal/repository"
)

const characterCacheTTL = 5 * time.Minute

// SearchMode selects which field a catalog search matches against.
type SearchMode string

const (
	// SearchByName matches a substring of the character name.
	SearchByName SearchMode = "name"
	// SearchByTags matches a substring of any linked tag text.
	SearchByTags SearchMode = "tags"
)

// CatalogService exposes listing, search and detail queries over characters.
type CatalogService interface {
	ListAll(ctx context.Context) ([]model.CharacterSummary, error)
	Search(ctx context.Context, term string, mode SearchMode) ([]model.CharacterSummary, error)
	GetDetail(ctx context.Context, id uint) (*model.CharacterDetail, error)
	ListByArtist(ctx context.Context, artistID uint) ([]model.CharacterSummary, error)
}

type catalogService struct {
	characters repository.CharacterRepository
	users      repository.UserRepository
	cache      *cache.Client
}

// NewCatalogService creates a new catalog query service.
func NewCatalogService(characters repository.CharacterRepository, users repository.UserRepository, cache *cache.Client) CatalogService {
	return &catalogService{
		characters: characters,
		users:      users,
		cache:      cache,
	}
}

// ListAll returns every character, newest first.
func (s *catalogService) ListAll(ctx context.Context) ([]model.CharacterSummary, error) {
	return s.characters.ListAll(ctx)
}

// Search runs a case-insensitive substring search. Unrecognized modes fall
// back to name search.
func (s *catalogService) Search(ctx context.Context, term string, mode SearchMode) ([]model.CharacterSummary, error) {
	if mode == SearchByTags {
		return s.characters.SearchByTag(ctx, term)
	}
	return s.characters.SearchByName(ctx, term)
}

// GetDetail returns the full character record with resolved tag texts and the
// split turnaround filename list, read through the cache.
func (s *catalogService) GetDetail(ctx context.Context, id uint) (*model.CharacterDetail, error) {
	key := characterCacheKey(id)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached model.CharacterDetail
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	character, err := s.characters.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCharacterNotFound
		}
		return nil, err
	}

	tags, err := s.characters.TagsFor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}

	artist, err := s.users.FindByID(ctx, character.ArtistID)
	if err != nil {
		return nil, fmt.Errorf("load artist: %w", err)
	}

	detail := &model.CharacterDetail{
		ID:               character.ID,
		Name:             character.Name,
		Description:      character.Description,
		HeadshotImage:    character.HeadshotImage,
		TurnaroundImages: character.TurnaroundImages(),
		Tags:             tags,
		ArtistID:         character.ArtistID,
		ArtistUsername:   artist.Username,
	}

	if payload, err := json.Marshal(detail); err == nil {
		_ = s.cache.Set(ctx, key, payload, characterCacheTTL)
	}
	return detail, nil
}

// ListByArtist returns the characters owned by one artist, newest first.
func (s *catalogService) ListByArtist(ctx context.Context, artistID uint) ([]model.CharacterSummary, error) {
	return s.characters.ListByArtist(ctx, artistID)
}
