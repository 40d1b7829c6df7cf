package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips all markup from message text before it is persisted or
// broadcast. Messages that sanitize down to nothing are dropped upstream.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize removes all HTML elements from the text and trims surrounding
// whitespace. Sanitizing already-sanitized text is a no-op.
func (s *Sanitizer) Sanitize(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}
