// Package sanitize strips markup from user supplied text before it is stored.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes every HTML element from its input.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a sanitizer backed by bluemonday's strict policy.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean trims s and removes any markup from it.
func (s *Sanitizer) Clean(in string) string {
	return strings.TrimSpace(s.policy.Sanitize(strings.TrimSpace(in)))
}

// CleanOptional is Clean for nullable fields. Empty results collapse to nil.
func (s *Sanitizer) CleanOptional(in *string) *string {
	if in == nil {
		return nil
	}
	out := s.Clean(*in)
	if out == "" {
		return nil
	}
	return &out
}
