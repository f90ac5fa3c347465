// Package recordstore defines the record store client boundary and the
// stores that implement it: an in-memory local substitute and SQLite.
//
// A returned Go error means the store could not be reached. A response with
// Success=false means the store answered and reported a failure.
package recordstore

import (
	"context"

	"github.com/starford/contacthub/internal/apperr"
	"github.com/starford/contacthub/internal/models"
)

// EntityContact is the entity name contact rows are stored under.
const EntityContact = "contact_c"

// Sort directions.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

// Client is the record store boundary consumed by the contact repository.
type Client interface {
	FetchRecords(ctx context.Context, entity string, params FetchParams) (*FetchResponse, error)
	GetRecordByID(ctx context.Context, entity string, id int, params GetParams) (*GetResponse, error)
	CreateRecord(ctx context.Context, entity string, req BatchRequest) (*BatchResponse, error)
	UpdateRecord(ctx context.Context, entity string, req BatchRequest) (*BatchResponse, error)
	DeleteRecord(ctx context.Context, entity string, req DeleteRequest) (*DeleteResponse, error)
}

// OrderBy is one sort key of a fetch.
type OrderBy struct {
	Field     string `json:"fieldName"`
	Direction string `json:"sorttype"`
}

// FetchParams selects fields and ordering for FetchRecords. Fields is
// advisory; stores return whole records.
type FetchParams struct {
	Fields  []string  `json:"fields"`
	OrderBy []OrderBy `json:"orderBy,omitempty"`
}

// GetParams selects fields for GetRecordByID.
type GetParams struct {
	Fields []string `json:"fields"`
}

// FetchResponse is the envelope returned by FetchRecords.
type FetchResponse struct {
	Success bool            `json:"success"`
	Data    []models.Record `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// GetResponse is the envelope returned by GetRecordByID.
type GetResponse struct {
	Success bool           `json:"success"`
	Data    *models.Record `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
}

// BatchRequest carries records for create and update.
type BatchRequest struct {
	Records []models.RecordPatch `json:"records"`
}

// Result is the per-record outcome of a create or update.
type Result struct {
	Success bool                `json:"success"`
	Data    *models.Record      `json:"data,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

// BatchResponse is the envelope returned by create and update.
type BatchResponse struct {
	Success bool     `json:"success"`
	Results []Result `json:"results,omitempty"`
	Message string   `json:"message,omitempty"`
}

// DeleteRequest names the records to delete.
type DeleteRequest struct {
	RecordIDs []int `json:"RecordIds"`
}

// DeleteResult is the per-record outcome of a delete.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// DeleteResponse is the envelope returned by DeleteRecord.
type DeleteResponse struct {
	Success bool           `json:"success"`
	Results []DeleteResult `json:"results,omitempty"`
	Message string         `json:"message,omitempty"`
}

// MsgNotFound is the result message for an id the store does not hold.
const MsgNotFound = "record not found"

const msgUnknownEntity = "unknown entity"
