package models

import "time"

// Store column names for the contact entity.
const (
	ColID          = "Id"
	ColFirstName   = "First_Name_c"
	ColLastName    = "Last_Name_c"
	ColEmail       = "Email_c"
	ColPhone       = "Phone_c"
	ColCompany     = "Company_c"
	ColPosition    = "Position_c"
	ColPhoto       = "Photo_c"
	ColTags        = "Tags_c"
	ColNotes       = "Notes_c"
	ColEmailStatus = "Email_Status_c"
	ColCreatedAt   = "createdAt"
	ColUpdatedAt   = "updatedAt"
)

// Columns lists every contact column in store order.
var Columns = []string{
	ColID, ColFirstName, ColLastName, ColEmail, ColPhone, ColCompany, ColPosition,
	ColPhoto, ColTags, ColNotes, ColEmailStatus, ColCreatedAt, ColUpdatedAt,
}

// Record is a contact row as the record store holds it. Null or missing
// columns decode to their zero value.
type Record struct {
	ID          int       `json:"Id" yaml:"Id"`
	FirstName   string    `json:"First_Name_c" yaml:"First_Name_c"`
	LastName    string    `json:"Last_Name_c" yaml:"Last_Name_c"`
	Email       string    `json:"Email_c" yaml:"Email_c"`
	Phone       string    `json:"Phone_c" yaml:"Phone_c"`
	Company     string    `json:"Company_c" yaml:"Company_c"`
	Position    string    `json:"Position_c" yaml:"Position_c"`
	Photo       string    `json:"Photo_c" yaml:"Photo_c"`
	Tags        string    `json:"Tags_c" yaml:"Tags_c"`
	Notes       string    `json:"Notes_c" yaml:"Notes_c"`
	EmailStatus string    `json:"Email_Status_c" yaml:"Email_Status_c"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// RecordPatch is a partial record sent to the store. Nil columns are not
// written.
type RecordPatch struct {
	ID          int        `json:"Id,omitempty"`
	FirstName   *string    `json:"First_Name_c,omitempty"`
	LastName    *string    `json:"Last_Name_c,omitempty"`
	Email       *string    `json:"Email_c,omitempty"`
	Phone       *string    `json:"Phone_c,omitempty"`
	Company     *string    `json:"Company_c,omitempty"`
	Position    *string    `json:"Position_c,omitempty"`
	Photo       *string    `json:"Photo_c,omitempty"`
	Tags        *string    `json:"Tags_c,omitempty"`
	Notes       *string    `json:"Notes_c,omitempty"`
	EmailStatus *string    `json:"Email_Status_c,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Apply merges the present columns of p onto r. The id is never changed.
func (p RecordPatch) Apply(r *Record) {
	for _, c := range p.Values() {
		switch c.Name {
		case ColFirstName:
			r.FirstName = c.Value.(string)
		case ColLastName:
			r.LastName = c.Value.(string)
		case ColEmail:
			r.Email = c.Value.(string)
		case ColPhone:
			r.Phone = c.Value.(string)
		case ColCompany:
			r.Company = c.Value.(string)
		case ColPosition:
			r.Position = c.Value.(string)
		case ColPhoto:
			r.Photo = c.Value.(string)
		case ColTags:
			r.Tags = c.Value.(string)
		case ColNotes:
			r.Notes = c.Value.(string)
		case ColEmailStatus:
			r.EmailStatus = c.Value.(string)
		case ColCreatedAt:
			r.CreatedAt = c.Value.(time.Time)
		case ColUpdatedAt:
			r.UpdatedAt = c.Value.(time.Time)
		}
	}
}

// ColumnValue is one present column of a patch.
type ColumnValue struct {
	Name  string
	Value any
}

// Values returns the present columns of p in store order, excluding the id.
func (p RecordPatch) Values() []ColumnValue {
	var out []ColumnValue
	add := func(name string, s *string) {
		if s != nil {
			out = append(out, ColumnValue{Name: name, Value: *s})
		}
	}
	add(ColFirstName, p.FirstName)
	add(ColLastName, p.LastName)
	add(ColEmail, p.Email)
	add(ColPhone, p.Phone)
	add(ColCompany, p.Company)
	add(ColPosition, p.Position)
	add(ColPhoto, p.Photo)
	add(ColTags, p.Tags)
	add(ColNotes, p.Notes)
	add(ColEmailStatus, p.EmailStatus)
	if p.CreatedAt != nil {
		out = append(out, ColumnValue{Name: ColCreatedAt, Value: *p.CreatedAt})
	}
	if p.UpdatedAt != nil {
		out = append(out, ColumnValue{Name: ColUpdatedAt, Value: *p.UpdatedAt})
	}
	return out
}
