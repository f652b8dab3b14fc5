package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "charavault/internal/errors"
)

const (
	// MaxTagsPerCharacter is the maximum number of distinct tags per character.
	MaxTagsPerCharacter = 5
	// MaxTagLength is the maximum length of a single tag after trimming.
	MaxTagLength = 20
)

// ParseTags splits a comma-separated tag string into raw entries. Multipart
// forms submit tags as one comma-joined field; JSON clients may send a native
// list instead and skip this step. Both representations normalize the same.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// NormalizeTags trims each entry, drops empties, lowercases the survivors and
// deduplicates them preserving first-occurrence order. It fails if any entry
// exceeds MaxTagLength after trimming or if more than MaxTagsPerCharacter
// distinct tags remain.
func NormalizeTags(rawTags []string) ([]string, error) {
	normalized := make([]string, 0, len(rawTags))
	seen := make(map[string]bool, len(rawTags))
	for _, raw := range rawTags {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return nil, apperrors.NewValidationError(fmt.Sprintf("tags must be %d characters or less", MaxTagLength))
		}
		tag = strings.ToLower(tag)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	if len(normalized) > MaxTagsPerCharacter {
		return nil, apperrors.NewValidationError(fmt.Sprintf("at most %d tags allowed", MaxTagsPerCharacter))
	}
	return normalized, nil
}
