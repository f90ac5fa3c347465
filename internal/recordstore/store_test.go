package recordstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/starford/contacthub/internal/models"
)

func testSQLite(t *testing.T) *SQLite {
	t.Helper()
	f, err := os.CreateTemp("", "contacthub-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	s, err := OpenSQLite(f.Name())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func patch(first, last, email string) models.RecordPatch {
	return models.RecordPatch{FirstName: &first, LastName: &last, Email: &email}
}

// eachStore runs fn against every Client implementation.
func eachStore(t *testing.T, fn func(t *testing.T, c Client)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemory()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, testSQLite(t)) })
}

func TestCreateGetRoundTrip(t *testing.T) {
	eachStore(t, func(t *testing.T, c Client) {
		ctx := context.Background()
		now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		p := patch("Ada", "Lovelace", "ada@example.com")
		p.Tags = models.String("a,b")
		p.CreatedAt = &now
		p.UpdatedAt = &now

		resp, err := c.CreateRecord(ctx, EntityContact, BatchRequest{Records: []models.RecordPatch{p}})
		if err != nil {
			t.Fatalf("CreateRecord: %v", err)
		}
		if !resp.Success || len(resp.Results) != 1 || !resp.Results[0].Success {
			t.Fatalf("create response = %+v", resp)
		}
		id := resp.Results[0].Data.ID
		if id == 0 {
			t.Fatal("id not assigned")
		}

		got, err := c.GetRecordByID(ctx, EntityContact, id, GetParams{Fields: models.Columns})
		if err != nil {
			t.Fatalf("GetRecordByID: %v", err)
		}
		if !got.Success || got.Data.FirstName != "Ada" || got.Data.Tags != "a,b" {
			t.Fatalf("get response = %+v", got)
		}
		if got.Data.Position != "" {
			t.Errorf("position = %q, want empty", got.Data.Position)
		}
		if !got.Data.CreatedAt.Equal(now) {
			t.Errorf("createdAt = %v, want %v", got.Data.CreatedAt, now)
		}
	})
}

func TestCreateValidationErrors(t *testing.T) {
	eachStore(t, func(t *testing.T, c Client) {
		p := patch("Ada", "", "not-an-email")
		resp, err := c.CreateRecord(context.Background(), EntityContact, BatchRequest{Records: []models.RecordPatch{p}})
		if err != nil {
			t.Fatalf("CreateRecord: %v", err)
		}
		r := resp.Results[0]
		if r.Success {
			t.Fatal("expected failed result")
		}
		if len(r.Errors) != 2 {
			t.Fatalf("errors = %+v", r.Errors)
		}
		if r.Errors[0].Field != "Last Name" || r.Errors[1].Field != "Email" || r.Errors[1].Message != "invalid format" {
			t.Errorf("errors = %+v", r.Errors)
		}
	})
}

func TestUpdateMergesPresentColumns(t *testing.T) {
	eachStore(t, func(t *testing.T, c Client) {
		ctx := context.Background()
		p := patch("A", "B", "a@b.co")
		p.Company = models.String("C")
		resp, _ := c.CreateRecord(ctx, EntityContact, BatchRequest{Records: []models.RecordPatch{p}})
		id := resp.Results[0].Data.ID

		up, err := c.UpdateRecord(ctx, EntityContact, BatchRequest{Records: []models.RecordPatch{
			{ID: id, Company: models.String("D")},
		}})
		if err != nil {
			t.Fatalf("UpdateRecord: %v", err)
		}
		r := up.Results[0]
		if !r.Success {
			t.Fatalf("update result = %+v", r)
		}
		if r.Data.FirstName != "A" || r.Data.LastName != "B" || r.Data.Company != "D" {
			t.Errorf("merged = %+v", r.Data)
		}
	})
}

func TestUpdateMissingRecord(t *testing.T) {
	eachStore(t, func(t *testing.T, c Client) {
		up, err := c.UpdateRecord(context.Background(), EntityContact, BatchRequest{Records: []models.RecordPatch{
			{ID: 404, Company: models.String("D")},
		}})
		if err != nil {
			t.Fatalf("UpdateRecord: %v", err)
		}
		if up.Results[0].Success {
			t.Error("expected failure for missing record")
		}
	})
}

func TestDeleteTwice(t *testing.T) {
	eachStore(t, func(t *testing.T, c Client) {
		ctx := context.Background()
		resp, _ := c.CreateRecord(ctx, EntityContact, BatchRequest{Records: []models.RecordPatch{patch("A", "B", "a@b.co")}})
		id := resp.Results[0].Data.ID

		del, err := c.DeleteRecord(ctx, EntityContact, DeleteRequest{RecordIDs: []int{id}})
		if err != nil || !del.Results[0].Success {
			t.Fatalf("first delete = %+v, %v", del, err)
		}
		del, err = c.DeleteRecord(ctx, EntityContact, DeleteRequest{RecordIDs: []int{id}})
		if err != nil {
			t.Fatal(err)
		}
		if del.Results[0].Success {
			t.Error("second delete should fail")
		}
		got, _ := c.GetRecordByID(ctx, EntityContact, id, GetParams{})
		if got.Success {
			t.Error("record still readable after delete")
		}
	})
}

func TestFetchOrdersByIDDesc(t *testing.T) {
	eachStore(t, func(t *testing.T, c Client) {
		ctx := context.Background()
		for _, name := range []string{"A", "B", "C"} {
			_, _ = c.CreateRecord(ctx, EntityContact, BatchRequest{Records: []models.RecordPatch{patch(name, "X", "x@y.io")}})
		}
		resp, err := c.FetchRecords(ctx, EntityContact, FetchParams{Fields: models.Columns})
		if err != nil {
			t.Fatal(err)
		}
		if len(resp.Data) != 3 {
			t.Fatalf("got %d records", len(resp.Data))
		}
		for i := 1; i < len(resp.Data); i++ {
			if resp.Data[i-1].ID <= resp.Data[i].ID {
				t.Fatalf("not descending: %d then %d", resp.Data[i-1].ID, resp.Data[i].ID)
			}
		}

		resp, _ = c.FetchRecords(ctx, EntityContact, FetchParams{OrderBy: []OrderBy{{Field: models.ColFirstName, Direction: Asc}}})
		if resp.Data[0].FirstName != "A" || resp.Data[2].FirstName != "C" {
			t.Errorf("name order = %s..%s", resp.Data[0].FirstName, resp.Data[2].FirstName)
		}
	})
}

func TestFetchRejectsUnknownSortField(t *testing.T) {
	eachStore(t, func(t *testing.T, c Client) {
		resp, err := c.FetchRecords(context.Background(), EntityContact, FetchParams{OrderBy: []OrderBy{{Field: "Nope"}}})
		if err != nil {
			t.Fatal(err)
		}
		if resp.Success {
			t.Error("expected failure for unknown sort field")
		}
	})
}

func TestUnknownEntity(t *testing.T) {
	eachStore(t, func(t *testing.T, c Client) {
		resp, err := c.FetchRecords(context.Background(), "lead_c", FetchParams{})
		if err != nil {
			t.Fatal(err)
		}
		if resp.Success {
			t.Error("expected failure for unknown entity")
		}
	})
}

func TestSQLiteSeedKeepsIDs(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()
	n, err := s.Seed(ctx, []models.Record{
		{ID: 1, FirstName: "A", LastName: "A", Email: "a@a.io"},
		{ID: 5, FirstName: "E", LastName: "E", Email: "e@e.io"},
	})
	if err != nil || n != 2 {
		t.Fatalf("Seed = %d, %v", n, err)
	}
	resp, _ := s.CreateRecord(ctx, EntityContact, BatchRequest{Records: []models.RecordPatch{patch("F", "F", "f@f.io")}})
	if got := resp.Results[0].Data.ID; got != 6 {
		t.Errorf("id = %d, want 6", got)
	}

	// A second seed on a populated table is a no-op.
	n, err = s.Seed(ctx, []models.Record{{ID: 9}})
	if err != nil || n != 0 {
		t.Errorf("reseed = %d, %v", n, err)
	}
}
