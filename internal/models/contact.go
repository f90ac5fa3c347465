// Package models defines the domain types for Contact Hub.
package models

import "time"

// DefaultEmailStatus is assigned to contacts created without an email status.
const DefaultEmailStatus = "New"

// Contact is the UI-facing shape of a contact record.
type Contact struct {
	ID          int       `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	Photo       string    `json:"photo"`
	Notes       string    `json:"notes"`
	Tags        []string  `json:"tags"`
	EmailStatus string    `json:"emailStatus"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FullName returns "first last" as displayed in list views.
func (c Contact) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ContactInput carries the fields of a create or partial update.
// A nil field is absent and leaves the stored value untouched.
type ContactInput struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Company     *string `json:"company,omitempty"`
	Position    *string `json:"position,omitempty"`
	Photo       *string `json:"photo,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Tags        *Tags   `json:"tags,omitempty"`
	EmailStatus *string `json:"emailStatus,omitempty"`
}

// InputFrom builds a fully populated input from an existing contact.
func InputFrom(c Contact) ContactInput {
	tags := Tags(append([]string(nil), c.Tags...))
	return ContactInput{
		FirstName:   &c.FirstName,
		LastName:    &c.LastName,
		Email:       &c.Email,
		Phone:       &c.Phone,
		Company:     &c.Company,
		Position:    &c.Position,
		Photo:       &c.Photo,
		Notes:       &c.Notes,
		Tags:        &tags,
		EmailStatus: &c.EmailStatus,
	}
}

// String returns a pointer to s. Handy for building inputs.
func String(s string) *string { return &s }
