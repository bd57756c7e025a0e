// Package locale decides which language a catalog request is served in
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Negotiator resolves the effective language of a request
// It holds no mutable state and is safe for concurrent use
type Negotiator struct {
	def string
}

// NewNegotiator validates and canonicalizes the process default language
func NewNegotiator(defaultLang string) (Negotiator, error) {
	def, err := Canonical(defaultLang)
	if err != nil {
		return Negotiator{}, fmt.Errorf("locale: default language: %w", err)
	}
	return Negotiator{def: def}, nil
}

// Default returns the canonical default language
func (n Negotiator) Default() string { return n.def }

// Resolve returns requested verbatim when present, else the default
// requested is not validated: an unknown tag simply matches no translations
func (n Negotiator) Resolve(requested string) string {
	if requested != "" {
		return requested
	}
	return n.def
}

// Canonical returns the BCP 47 canonical form of tag, eg en-us -> en-US
func Canonical(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", fmt.Errorf("empty language tag")
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("invalid language tag %q: %w", tag, err)
	}
	return t.String(), nil
}
