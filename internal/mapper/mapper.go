// Package mapper translates between the UI contact shape and the record
// store's column-named schema.
package mapper

import "github.com/starford/contacthub/internal/models"

// FromStore maps a store record to a contact. Missing text columns are
// empty strings and a missing tag column is an empty list.
func FromStore(r models.Record) models.Contact {
	return models.Contact{
		ID:          r.ID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Company:     r.Company,
		Position:    r.Position,
		Photo:       r.Photo,
		Notes:       r.Notes,
		Tags:        models.SplitTags(r.Tags),
		EmailStatus: r.EmailStatus,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// FromStoreAll maps a slice of records, preserving order.
func FromStoreAll(records []models.Record) []models.Contact {
	out := make([]models.Contact, len(records))
	for i, r := range records {
		out[i] = FromStore(r)
	}
	return out
}

// ToStore copies only the fields present in the input.
func ToStore(in models.ContactInput) models.RecordPatch {
	p := models.RecordPatch{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		Company:     in.Company,
		Position:    in.Position,
		Photo:       in.Photo,
		Notes:       in.Notes,
		EmailStatus: in.EmailStatus,
	}
	if in.Tags != nil {
		joined := models.JoinTags(*in.Tags)
		p.Tags = &joined
	}
	return p
}

// ToStoreFull maps every field of c, including id and timestamps.
func ToStoreFull(c models.Contact) models.Record {
	return models.Record{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Company:     c.Company,
		Position:    c.Position,
		Photo:       c.Photo,
		Tags:        models.JoinTags(c.Tags),
		Notes:       c.Notes,
		EmailStatus: c.EmailStatus,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
