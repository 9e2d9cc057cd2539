// Package forms validates raw user input before it becomes a model.
package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	FieldAuthor = "author"
	FieldBody   = "body"

	AuthorMaxLength = 60

	msgRequired = "This field is required."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

// FieldErrors maps a form field name to the reason it was rejected.
type FieldErrors map[string]string

// CleanedComment holds comment input that passed validation.
type CleanedComment struct {
	Author string `form:"author" validate:"required,max=60"`
	Body   string `form:"body" validate:"required"`
}

// ValidateComment checks raw author and body values. Exactly one of the
// results is meaningful: a cleaned comment with nil errors, or a non-empty
// FieldErrors.
func ValidateComment(author, body string) (CleanedComment, FieldErrors) {
	cleaned := CleanedComment{
		Author: strings.TrimSpace(author),
		Body:   strings.TrimSpace(body),
	}

	err := validate.Struct(cleaned)
	if err == nil {
		return cleaned, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return CleanedComment{}, FieldErrors{FieldAuthor: err.Error()}
	}

	fieldErrs := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		fieldErrs[fe.Field()] = message(fe)
	}
	return CleanedComment{}, fieldErrs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		value, _ := fe.Value().(string)
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).",
			fe.Param(), utf8.RuneCountInString(value))
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}

// CommentForm is the comment form as shown to the reader: the raw values
// they typed plus any diagnostics.
type CommentForm struct {
	Author string
	Body   string
	Errors FieldErrors

	cleaned *CleanedComment
}

// NewCommentForm returns an empty, unbound form.
func NewCommentForm() *CommentForm {
	return &CommentForm{}
}

// BindCommentForm builds a form from submitted values and validates it.
func BindCommentForm(values url.Values) *CommentForm {
	form := &CommentForm{
		Author: values.Get(FieldAuthor),
		Body:   values.Get(FieldBody),
	}
	cleaned, errs := ValidateComment(form.Author, form.Body)
	if errs != nil {
		form.Errors = errs
		return form
	}
	form.cleaned = &cleaned
	return form
}

// Valid reports whether the form was bound and passed validation.
func (f *CommentForm) Valid() bool {
	return f.cleaned != nil
}

// Cleaned returns the validated values. It is only meaningful when Valid
// returns true.
func (f *CommentForm) Cleaned() CleanedComment {
	if f.cleaned == nil {
		return CleanedComment{}
	}
	return *f.cleaned
}

// Error returns the diagnostic for field, or "".
func (f *CommentForm) Error(field string) string {
	return f.Errors[field]
}

// HasErrors reports whether any field was rejected.
func (f *CommentForm) HasErrors() bool {
	return len(f.Errors) > 0
}

// AuthorPlaceholder and BodyPlaceholder are rendered into the inputs.
func (f *CommentForm) AuthorPlaceholder() string { return "Write your name here." }
func (f *CommentForm) BodyPlaceholder() string   { return "Write your comment here." }

// AuthorMaxLen is exposed for the input's maxlength attribute.
func (f *CommentForm) AuthorMaxLen() int { return AuthorMaxLength }
