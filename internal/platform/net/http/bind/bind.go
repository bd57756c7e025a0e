// Package bind decodes and validates JSON request bodies for handlers
package bind

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "lorebook/internal/platform/errors"
	"lorebook/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	json "github.com/goccy/go-json"
)

// MaxBody caps how much of a request body ParseJSON reads
const MaxBody = 1 << 20

type checker struct {
	v     *validator.Validate
	trans ut.Translator
}

// short messages replacing the stock english ones; {0} is the field, {1} the param
var messages = map[string]string{
	"min":                "{0} must be at least {1}",
	"max":                "{0} must be at most {1}",
	"bcp47_language_tag": "{0} must be a language tag like en-US",
}

var get = sync.OnceValue(func() checker {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	for tag, text := range messages {
		_ = v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(tag, fe.Field(), fe.Param())
				return msg
			},
		)
	}
	return checker{v: v, trans: trans}
})

// ParseJSON decodes the body into T and validates struct payloads
// numbers land in interface values as json.Number
// unknown fields, trailing data and bodies past MaxBody are JSON errors
// an empty body is a JSON error except on GET, HEAD, DELETE and OPTIONS where T stays zero
func ParseJSON[T any](r *http.Request) (T, error) {
	var zero T
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	first := make([]byte, 1)
	if n, _ := r.Body.Read(first); n == 0 {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}
	body := io.LimitReader(io.MultiReader(bytes.NewReader(first), r.Body), MaxBody)

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	dec.UseNumber()
	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if reflect.Indirect(reflect.ValueOf(dst)).Kind() != reflect.Struct {
		return dst, nil
	}
	if err := get().v.Struct(dst); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			logger.Get().Error().Err(inv).Msg("validator internal error")
			return zero, perr.JSONErrf("validation error")
		}
		field, msg := firstFailure(err)
		return zero, perr.WithField(perr.Validationf("%s", msg), field)
	}
	return dst, nil
}

// Var validates one named value against rules such as "min=1,max=200"
// failures are Validation errors carrying name as the field
func Var(name string, value any, rules string) error {
	if rules == "" {
		return nil
	}
	err := get().v.Var(value, rules)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Str("field", name).Msg("validator internal error")
		return perr.Wrapf(inv, perr.ErrorCodeUnknown, "cannot validate %s", name)
	}
	_, msg := firstFailure(err)
	return perr.WithField(perr.Validationf("%s %s", name, strings.TrimSpace(msg)), name)
}

func firstFailure(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(get().trans)
	}
	return "", err.Error()
}
