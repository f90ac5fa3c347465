package api

import "github.com/starford/contacthub/internal/models"

// Contact is the contact response type (aliased from the domain layer).
type Contact = models.Contact

// ContactRequest is the request body for create and update. Absent fields
// are left untouched on update.
type ContactRequest = models.ContactInput

// ContactListResponse wraps contact listings. Matched is len(Contacts);
// Total counts all contacts regardless of the search term.
type ContactListResponse struct {
	Contacts []Contact `json:"contacts" validate:"required"`
	Matched  int       `json:"matched" example:"3" validate:"required"`
	Total    int       `json:"total" example:"42" validate:"required"`
}

// PhotoUploadResponse is returned after a successful photo upload.
type PhotoUploadResponse struct {
	Filename string `json:"filename" example:"3f2a9c1d4b5e6f70.png" validate:"required"`
	Size     int64  `json:"size" example:"12345" validate:"required"`
	URL      string `json:"url" example:"/photos/3f2a9c1d4b5e6f70.png" validate:"required"`
}
