package sanitize

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func TestCollectionName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain ascii",
			input:    "nutrition_tips",
			expected: "nutrition_tips",
		},
		{
			name:     "case preserved",
			input:    "MyNotes",
			expected: "MyNotes",
		},
		{
			name:     "cyrillic transliterated",
			input:    "ужин",
			expected: "uzhin",
		},
		{
			name:     "shch cluster",
			input:    "борщ",
			expected: "borshch",
		},
		{
			name:     "whitespace runs collapse to underscore",
			input:    "hello   world\tfoo",
			expected: "hello_world_foo",
		},
		{
			name:     "special characters stripped",
			input:    "my-file (final).txt",
			expected: "myfile_finaltxt",
		},
		{
			name:     "leading digit gets prefix",
			input:    "2024 notes",
			expected: "coll_2024_notes",
		},
		{
			name:     "empty input",
			input:    "",
			expected: DefaultCollectionName,
		},
		{
			name:     "only punctuation",
			input:    "!!! ???",
			expected: DefaultCollectionName,
		},
		{
			name:     "mixed script",
			input:    "Легенды о Шавкате ep1",
			expected: "Legendy_o_Shavkate_ep1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CollectionName(tt.input))
		})
	}
}

func TestCollectionName_OutputGrammar(t *testing.T) {
	inputs := []string{
		"", "123", "   ", "ужин размышлений", "a.b/c\\d", "файл-42",
		strings.Repeat("документ ", 40), strings.Repeat("x", 200),
	}
	for _, in := range inputs {
		got := CollectionName(in)
		assert.Regexp(t, namePattern, got, "input %q", in)
		assert.LessOrEqual(t, len(got), MaxNameLength, "input %q", in)
		assert.NotEmpty(t, got)
	}
}

func TestCollectionName_Idempotent(t *testing.T) {
	inputs := []string{
		"ужин", "2024 notes", "hello world", "", strings.Repeat("long name ", 20),
	}
	for _, in := range inputs {
		once := CollectionName(in)
		assert.Equal(t, once, CollectionName(once), "input %q", in)
	}
}

func TestCollectionName_TruncationKeepsDistinct(t *testing.T) {
	// Same prefix beyond the truncation point, different tails.
	a := strings.Repeat("a", 80) + "one"
	b := strings.Repeat("a", 80) + "two"

	na := CollectionName(a)
	nb := CollectionName(b)

	assert.LessOrEqual(t, len(na), MaxNameLength)
	assert.LessOrEqual(t, len(nb), MaxNameLength)
	assert.NotEqual(t, na, nb)
	assert.Equal(t, na[:MaxNameLength-9], nb[:MaxNameLength-9],
		"truncated prefixes should match, only the hash suffix differs")
}

func TestCollectionNameMax(t *testing.T) {
	got := CollectionNameMax(strings.Repeat("b", 100), 32)
	assert.Len(t, got, 32)
	assert.Regexp(t, namePattern, got)
}

func TestCollectionNameMax_SmallBounds(t *testing.T) {
	// Bounds too small for a hash suffix degrade to plain truncation.
	assert.Equal(t, "aaaaa", CollectionNameMax(strings.Repeat("a", 40), 5))

	for _, max := range []int{1, 2, 8, 9} {
		got := CollectionNameMax(strings.Repeat("документ ", 10), max)
		assert.LessOrEqual(t, len(got), max, "max %d", max)
		assert.Regexp(t, namePattern, got, "max %d", max)
	}

	// Non-positive bounds fall back to the default limit.
	got := CollectionNameMax(strings.Repeat("c", 100), 0)
	assert.Len(t, got, MaxNameLength)
	got = CollectionNameMax(strings.Repeat("c", 100), -7)
	assert.Len(t, got, MaxNameLength)
}

func TestTransliterate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ужин", "uzhin"},
		{"щи", "shchi"},
		{"подъезд", "podezd"},
		{"latin stays", "latin stays"},
		{"Ёлка и ёж", "Yolka i yozh"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Transliterate(tt.input))
	}
}
