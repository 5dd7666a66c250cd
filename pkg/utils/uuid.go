package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID generates a new random identifier in string form
func NewID() string {
	return uuid.New().String()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

var (
	nonSlug   = regexp.MustCompile("[^a-z0-9-]")
	multiDash = regexp.MustCompile("-+")
)

// Slugify converts a string to a file-name friendly slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlug.ReplaceAllString(s, "")
	s = multiDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ExportFileName builds a download name such as "records-2026-10-19.xlsx".
func ExportFileName(prefix, ext string, at time.Time) string {
	name := Slugify(prefix)
	if name == "" {
		name = "export"
	}
	return name + "-" + at.Format("2006-01-02") + "." + strings.TrimPrefix(ext, ".")
}
