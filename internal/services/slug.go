// internal/services/slug.go
package services

import (
	"errors"
	"strings"

	"github.com/gosimple/slug"
)

var (
	// ErrSlugUnderivable is returned when a create request omits the slug
	// and none can be built from the name or title.
	ErrSlugUnderivable = errors.New("slug could not be derived")

	// ErrUnknownCategory is returned when a write references a category id
	// that does not exist.
	ErrUnknownCategory = errors.New("category does not exist")
)

// resolveSlug returns explicit when set, otherwise a slug of at most maxLen
// bytes built from source. The result only uses lowercase letters, digits and
// single hyphens.
func resolveSlug(explicit, source string, maxLen int) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	s := strings.ReplaceAll(slug.MakeLang(source, "en"), "_", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	s = strings.Trim(s, "-")

	if s == "" {
		return "", ErrSlugUnderivable
	}
	return s, nil
}
