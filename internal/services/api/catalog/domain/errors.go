package domain

import (
	"errors"

	perr "lorebook/internal/platform/errors"
)

// Causes of a NotFound, kept for logs and metrics only
// Callers see the same NotFound for both
var (
	ErrUnknownResource    = errors.New("unknown resource id")
	ErrUnknownTranslation = errors.New("unknown translation")
)

// NotFound wraps cause into the single wire visible NotFound error of kind
func NotFound(k Kind, cause error) error {
	return perr.Wrapf(cause, perr.ErrorCodeNotFound, "%s not found", k.Singular)
}

// MissCause returns the label of the internal NotFound cause of err
func MissCause(err error) string {
	switch {
	case errors.Is(err, ErrUnknownTranslation):
		return "unknown_translation"
	case errors.Is(err, ErrUnknownResource):
		return "unknown_id"
	}
	return ""
}
