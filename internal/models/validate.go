package models

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/contacthub/internal/apperr"
)

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var notBlank = validation.By(func(value any) error {
	if s, ok := value.(*string); ok && s != nil && strings.TrimSpace(*s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

var validEmail = validation.Match(emailRe).Error("must be a valid email address")

// ValidateCreate enforces the contact form rules for a new contact: names,
// email, phone and company are required and email must look like an address.
func (in *ContactInput) ValidateCreate() error {
	return fieldErrors(validation.ValidateStruct(in,
		validation.Field(&in.FirstName, validation.Required, notBlank),
		validation.Field(&in.LastName, validation.Required, notBlank),
		validation.Field(&in.Email, validation.Required, notBlank, validEmail),
		validation.Field(&in.Phone, validation.Required, notBlank),
		validation.Field(&in.Company, validation.Required, notBlank),
	))
}

// ValidateUpdate applies the same rules to the fields that are present.
func (in *ContactInput) ValidateUpdate() error {
	return fieldErrors(validation.ValidateStruct(in,
		validation.Field(&in.FirstName, notBlank),
		validation.Field(&in.LastName, notBlank),
		validation.Field(&in.Email, notBlank, validEmail),
		validation.Field(&in.Phone, notBlank),
		validation.Field(&in.Company, notBlank),
	))
}

// Normalize cleans tag input the way the contact form does.
func (in *ContactInput) Normalize() {
	if in.Tags != nil {
		tags := Tags(NormalizeTags(*in.Tags))
		in.Tags = &tags
	}
}

// fieldErrors converts ozzo errors into a field error list sorted by field.
func fieldErrors(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(apperr.ValidationErrors, 0, len(verrs))
	for field, e := range verrs {
		out = append(out, apperr.FieldError{Field: field, Message: e.Error()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return errors.Join(apperr.ErrInvalidInput, out)
}
