package utils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	nonWordRegex   = regexp.MustCompile(`[^\w\s-]`)
	separatorRegex = regexp.MustCompile(`[\s_-]+`)
	edgeDashRegex  = regexp.MustCompile(`^-+|-+$`)
	whitespace     = regexp.MustCompile(`\s+`)
)

const (
	wordsPerMinute = 200
	excerptLength  = 200
)

// Slugify turns a title into a URL slug: "Hello, World!" -> "hello-world".
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonWordRegex.ReplaceAllString(s, "")
	s = separatorRegex.ReplaceAllString(s, "-")
	return edgeDashRegex.ReplaceAllString(s, "")
}

// SuffixSlug makes a slug distinct from an existing one with a millisecond timestamp.
func SuffixSlug(slug string, now time.Time) string {
	return fmt.Sprintf("%s-%d", slug, now.UnixMilli())
}

// ReadTime estimates minutes to read content at 200 words per minute.
func ReadTime(content string) int {
	words := len(whitespace.Split(strings.TrimSpace(content), -1))
	if strings.TrimSpace(content) == "" {
		words = 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// Excerpt returns the first 200 characters of content, with "..." appended when truncated.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:excerptLength]) + "..."
}
