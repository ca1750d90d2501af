// Package inputval holds predicate validators for client-supplied
// command fields. Commands check these before any core logic runs.
package inputval

import (
	"net/mail"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field limits, enforced alongside the collection schemas in
// system/validators.
const (
	GardenKeyMinLen   = 4
	GardenKeyMaxLen   = 64
	GardenNameMaxLen  = 100
	DescriptionMaxLen = 1400
	UsernameMinLen    = 3
	UsernameMaxLen    = 30
	PasswordMinLen    = 8
)

var (
	gardenKeyRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	usernameRe  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// IsValidGardenKey reports whether s can serve as a garden's immutable
// human-facing key: lowercase slug, no leading/trailing/doubled hyphens.
func IsValidGardenKey(s string) bool {
	if len(s) < GardenKeyMinLen || len(s) > GardenKeyMaxLen {
		return false
	}
	return gardenKeyRe.MatchString(s)
}

// IsValidUsername reports whether s is an acceptable profile username.
func IsValidUsername(s string) bool {
	if len(s) < UsernameMinLen || len(s) > UsernameMaxLen {
		return false
	}
	return usernameRe.MatchString(s)
}

// IsValidEmail parses s as a bare RFC 5322 address. Display-name forms
// ("Name <a@b>") are rejected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && addr.Name == ""
}

// IsValidObjectID reports whether s is a well-formed Mongo ObjectID hex.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
