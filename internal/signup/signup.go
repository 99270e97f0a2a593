package signup

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var messages = map[string]string{
	"Name":  "Please enter your name",
	"Email": "Please enter a valid email address",
}

type Form struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,storeemail"`
}

// ValidationError carries one message per invalid field, keyed by the
// field's form name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid signup: " + strings.Join(parts, "; ")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		err := validate.RegisterValidation("storeemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("signup: registering storeemail: %v", err))
		}
	})
	return validate
}

// Normalize trims surrounding whitespace from every field.
func (f Form) Normalize() Form {
	return Form{
		Name:  strings.TrimSpace(f.Name),
		Email: strings.TrimSpace(f.Email),
	}
}

// Validate checks a normalized form. It returns a *ValidationError when any
// field is rejected.
func Validate(f Form) error {
	err := formValidator().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating signup: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = messages[fe.Field()]
	}
	return &ValidationError{Fields: fields}
}

// Overlay is the open/closed state of the signup form.
type Overlay struct {
	open bool
}

func (o *Overlay) Open()        { o.open = true }
func (o *Overlay) Close()       { o.open = false }
func (o *Overlay) IsOpen() bool { return o.open }
