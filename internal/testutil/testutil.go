// Package testutil provides shared test helpers for record stores and
// repositories.
package testutil

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/starford/contacthub/internal/apperr"
	"github.com/starford/contacthub/internal/contactservice"
	"github.com/starford/contacthub/internal/models"
	"github.com/starford/contacthub/internal/recordstore"
)

// Epoch is the fixed clock used by TestService.
var Epoch = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

// TestSQLite creates a temporary SQLite record store that is automatically cleaned up.
func TestSQLite(t *testing.T) *recordstore.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "contacthub-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := recordstore.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// SampleRecords returns three seeded contacts with ids 1, 2 and 5.
func SampleRecords() []models.Record {
	return []models.Record{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@engines.io", Phone: "555-0101",
			Company: "Analytical Engines", Position: "Engineer", Tags: "vip,math", EmailStatus: "New",
			CreatedAt: Epoch, UpdatedAt: Epoch},
		{ID: 2, FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil", Phone: "555-0102",
			Company: "US Navy", Position: "Admiral", Tags: "compilers", EmailStatus: "Sent",
			CreatedAt: Epoch, UpdatedAt: Epoch},
		{ID: 5, FirstName: "Alan", LastName: "Turing", Email: "alan@bletchley.uk", Phone: "555-0105",
			Company: "Bletchley Park", Tags: "", CreatedAt: Epoch, UpdatedAt: Epoch},
	}
}

// TestService returns a repository over a seeded in-memory store with a fixed clock.
func TestService(t *testing.T, opts ...contactservice.Option) (*contactservice.Service, *recordstore.Memory) {
	t.Helper()
	store := recordstore.NewMemory(recordstore.WithRecords(SampleRecords()))
	base := []contactservice.Option{
		contactservice.WithClock(func() time.Time { return Epoch.Add(time.Hour) }),
		contactservice.WithLogger(slog.New(slog.DiscardHandler)),
	}
	return contactservice.New(store, append(base, opts...)...), store
}

// ErrUnreachable is returned by FailingClient in transport mode.
var ErrUnreachable = errors.New("dial tcp: connection refused")

// FailingClient is a record store that either cannot be reached
// (Transport=true) or answers every call with a failure envelope.
type FailingClient struct {
	Transport bool
	Message   string
	Fields    []apperr.FieldError
}

var _ recordstore.Client = FailingClient{}

func (f FailingClient) FetchRecords(context.Context, string, recordstore.FetchParams) (*recordstore.FetchResponse, error) {
	if f.Transport {
		return nil, ErrUnreachable
	}
	return &recordstore.FetchResponse{Success: false, Message: f.Message}, nil
}

func (f FailingClient) GetRecordByID(context.Context, string, int, recordstore.GetParams) (*recordstore.GetResponse, error) {
	if f.Transport {
		return nil, ErrUnreachable
	}
	return &recordstore.GetResponse{Success: false, Message: f.Message}, nil
}

func (f FailingClient) CreateRecord(_ context.Context, _ string, req recordstore.BatchRequest) (*recordstore.BatchResponse, error) {
	return f.batch(req)
}

func (f FailingClient) UpdateRecord(_ context.Context, _ string, req recordstore.BatchRequest) (*recordstore.BatchResponse, error) {
	return f.batch(req)
}

func (f FailingClient) DeleteRecord(_ context.Context, _ string, req recordstore.DeleteRequest) (*recordstore.DeleteResponse, error) {
	if f.Transport {
		return nil, ErrUnreachable
	}
	results := make([]recordstore.DeleteResult, len(req.RecordIDs))
	for i := range results {
		results[i] = recordstore.DeleteResult{Message: f.Message}
	}
	return &recordstore.DeleteResponse{Success: true, Results: results}, nil
}

func (f FailingClient) batch(req recordstore.BatchRequest) (*recordstore.BatchResponse, error) {
	if f.Transport {
		return nil, ErrUnreachable
	}
	results := make([]recordstore.Result, len(req.Records))
	for i := range results {
		results[i] = recordstore.Result{Errors: f.Fields, Message: f.Message}
	}
	return &recordstore.BatchResponse{Success: true, Results: results}, nil
}
