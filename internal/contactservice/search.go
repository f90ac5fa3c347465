package contactservice

import (
	"context"
	"strings"

	"github.com/starford/contacthub/internal/models"
)

// Search lists contacts matching term. An empty term matches everything.
func (s *Service) Search(ctx context.Context, term string) ([]models.Contact, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, term), nil
}

// Filter returns the contacts matching term, keeping their order.
// Surrounding whitespace in term is ignored and a blank term keeps all.
func Filter(contacts []models.Contact, term string) []models.Contact {
	term = strings.TrimSpace(term)
	if term == "" {
		return contacts
	}
	out := []models.Contact{}
	for _, c := range contacts {
		if Match(c, term) {
			out = append(out, c)
		}
	}
	return out
}

// Match reports whether term is a case-insensitive substring of the
// contact's full name, email, phone, company, position or any tag.
func Match(c models.Contact, term string) bool {
	term = strings.ToLower(term)
	fields := []string{c.FirstName + " " + c.LastName, c.Email, c.Phone, c.Company, c.Position}
	fields = append(fields, c.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
