package storage

import (
	"regexp"
	"strings"
)

var (
	invalidSlugChars = regexp.MustCompile(`[^a-z0-9\-_]`)
	repeatedHyphens  = regexp.MustCompile(`-+`)
)

// Slugify converts an animal name to a filesystem-safe identifier:
// lowercase, spaces to hyphens, characters outside [a-z0-9-_] stripped,
// repeated hyphens collapsed, leading/trailing hyphens trimmed.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = invalidSlugChars.ReplaceAllString(slug, "")
	slug = repeatedHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
