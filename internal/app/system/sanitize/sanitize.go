// Package sanitize strips unsafe markup from client-supplied text
// before it is persisted. Garden descriptions may carry limited rich
// text; names and usernames are plain text only.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Description keeps user-generated-content HTML (formatting, links) and
// removes scripts, event handlers, and javascript: URLs.
func Description(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}

// Plain strips all markup, leaving text content only.
func Plain(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
