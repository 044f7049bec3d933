// Package form validates create and update payloads locally, before any
// request is sent. Field errors are keyed by JSON field name.
package form

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// DateLayout is the calendar date format accepted by forms.
const DateLayout = "2006-01-02"

var (
	validate   *validator.Validate
	translator ut.Translator
)

const (
	requiredTag   = "required"
	requiredText  = "{0} is required"
	endBeforeTag  = "end_before_start"
	endBeforeText = "{0} must not be before startDate"
	datetimeTag   = "datetime"
	datetimeText  = "{0} must be a date (YYYY-MM-DD)"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterStructValidation(assignmentStructValidation, AssignmentInput{})
	validate.RegisterStructValidation(projectStructValidation, ProjectInput{})

	registerTranslation(requiredTag, requiredText, true)
	registerTranslation(datetimeTag, datetimeText, true)
	registerTranslation(endBeforeTag, endBeforeText, false)
}

func registerTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// FieldError is a single rejected field.
type FieldError struct {
	Field   string
	Message string
}

// Errors is the set of field errors from one validation pass.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, f := range e {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Get returns the message for field, or "" when it passed.
func (e Errors) Get(field string) string {
	for _, f := range e {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Check validates v and returns Errors, or nil when v is valid.
func Check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fe.Translate(translator)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// endBeforeStart reports whether both dates parse and end precedes start.
func endBeforeStart(start, end string) bool {
	if start == "" || end == "" {
		return false
	}
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return false
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return false
	}
	return e.Before(s)
}

// SplitList splits a comma-separated list, trimming blanks and dropping
// duplicates while keeping first-seen order.
func SplitList(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		p := strings.TrimSpace(part)
		if p == "" || seen[strings.ToLower(p)] {
			continue
		}
		seen[strings.ToLower(p)] = true
		out = append(out, p)
	}
	return out
}
