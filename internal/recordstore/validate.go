package recordstore

import (
	"regexp"
	"strings"

	"github.com/starford/contacthub/internal/apperr"
	"github.com/starford/contacthub/internal/models"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// validatePatch mimics the hosted store's column checks: name and email
// columns are required on create and may not be blanked on update.
func validatePatch(p models.RecordPatch, create bool) []apperr.FieldError {
	var errs []apperr.FieldError
	required := func(label string, v *string) {
		switch {
		case v == nil && create:
			errs = append(errs, apperr.FieldError{Field: label, Message: "is required"})
		case v != nil && strings.TrimSpace(*v) == "":
			errs = append(errs, apperr.FieldError{Field: label, Message: "cannot be blank"})
		}
	}
	required("First Name", p.FirstName)
	required("Last Name", p.LastName)
	required("Email", p.Email)
	if p.Email != nil && strings.TrimSpace(*p.Email) != "" && !emailPattern.MatchString(*p.Email) {
		errs = append(errs, apperr.FieldError{Field: "Email", Message: "invalid format"})
	}
	return errs
}

func failed(errs []apperr.FieldError) Result {
	return Result{Success: false, Errors: errs, Message: "validation failed"}
}
