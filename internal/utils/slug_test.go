package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Hello, World!", "hello-world"},
		{"surrounding whitespace", "  Go   Generics  ", "go-generics"},
		{"underscores and dashes collapse", "snake_case -- and   dashes", "snake-case-and-dashes"},
		{"leading and trailing separators", "--Edge Case--", "edge-case"},
		{"punctuation removed", "What's new in Go 1.25?", "whats-new-in-go-125"},
		{"already a slug", "already-a-slug", "already-a-slug"},
		{"only punctuation", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.input))
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	for _, in := range []string{"Hello, World!", "A  B_C", "x"} {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once))
	}
}

func TestSuffixSlug(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	got := SuffixSlug("my-post", now)

	assert.Equal(t, "my-post-1700000000123", got)
	assert.True(t, strings.HasPrefix(got, "my-post-"))
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 0, ReadTime(""))
	assert.Equal(t, 1, ReadTime("one two three"))
	assert.Equal(t, 1, ReadTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadTime(strings.Repeat("word ", 201)))
	assert.Equal(t, 3, ReadTime(strings.Repeat("word\n", 450)))
}

func TestExcerpt(t *testing.T) {
	short := "Short content"
	assert.Equal(t, short, Excerpt(short))

	exact := strings.Repeat("a", 200)
	assert.Equal(t, exact, Excerpt(exact))

	long := strings.Repeat("b", 250)
	got := Excerpt(long)
	assert.Equal(t, strings.Repeat("b", 200)+"...", got)
}
