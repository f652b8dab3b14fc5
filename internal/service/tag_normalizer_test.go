package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "charavault/internal/errors"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty string", raw: "", want: nil},
		{name: "whitespace only", raw: "   ", want: nil},
		{name: "single tag", raw: "fantasy", want: []string{"fantasy"}},
		{name: "comma separated", raw: "fantasy,elf, warrior", want: []string{"fantasy", "elf", " warrior"}},
		{name: "trailing comma keeps empty entry", raw: "fantasy,", want: []string{"fantasy", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []string
		wantErr bool
	}{
		{
			name:  "trims and lowercases",
			input: []string{"  Fantasy ", "ELF"},
			want:  []string{"fantasy", "elf"},
		},
		{
			name:  "drops empty entries",
			input: []string{"fantasy", "", "   ", "elf"},
			want:  []string{"fantasy", "elf"},
		},
		{
			name:  "dedup preserves first-occurrence order",
			input: []string{"Elf", "Fantasy", "elf", "FANTASY"},
			want:  []string{"elf", "fantasy"},
		},
		{
			name:  "exactly five tags allowed",
			input: []string{"a", "b", "c", "d", "e"},
			want:  []string{"a", "b", "c", "d", "e"},
		},
		{
			name:    "six tags rejected",
			input:   []string{"a", "b", "c", "d", "e", "f"},
			wantErr: true,
		},
		{
			name:  "six entries collapsing to five distinct allowed",
			input: []string{"a", "b", "c", "d", "e", "E"},
			want:  []string{"a", "b", "c", "d", "e"},
		},
		{
			name:  "twenty character tag allowed",
			input: []string{strings.Repeat("x", 20)},
			want:  []string{strings.Repeat("x", 20)},
		},
		{
			name:    "twenty-one character tag rejected",
			input:   []string{strings.Repeat("x", 21)},
			wantErr: true,
		},
		{
			name:  "twenty rune multibyte tag allowed",
			input: []string{strings.Repeat("竜", 20)},
			want:  []string{strings.Repeat("竜", 20)},
		},
		{
			name:    "twenty-one rune multibyte tag rejected",
			input:   []string{strings.Repeat("竜", 21)},
			wantErr: true,
		},
		{
			name:  "oversized entry shrinks within limit after trim",
			input: []string{"  " + strings.Repeat("y", 20) + "  "},
			want:  []string{strings.Repeat("y", 20)},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTags(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTags_CommaStringAndListAgree(t *testing.T) {
	fromString, err := NormalizeTags(ParseTags(" Fantasy, ELF ,fantasy"))
	assert.NoError(t, err)

	fromList, err := NormalizeTags([]string{" Fantasy", " ELF ", "fantasy"})
	assert.NoError(t, err)

	assert.Equal(t, fromList, fromString)
	assert.Equal(t, []string{"fantasy", "elf"}, fromString)
}
