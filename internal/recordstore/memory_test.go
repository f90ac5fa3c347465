package recordstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/starford/contacthub/internal/models"
)

func TestMemoryAssignsMaxPlusOne(t *testing.T) {
	m := NewMemory(WithRecords([]models.Record{{ID: 1}, {ID: 2}, {ID: 5}}))
	resp, err := m.CreateRecord(context.Background(), EntityContact, BatchRequest{Records: []models.RecordPatch{patch("A", "B", "a@b.co")}})
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Results[0].Data.ID; got != 6 {
		t.Errorf("id = %d, want 6", got)
	}
}

func TestMemoryEmptyStoreStartsAtFloor(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	resp, _ := m.CreateRecord(ctx, EntityContact, BatchRequest{Records: []models.RecordPatch{patch("A", "B", "a@b.co")}})
	if got := resp.Results[0].Data.ID; got != 1 {
		t.Errorf("first id = %d, want 1", got)
	}

	m = NewMemory(WithIDFloor(100))
	resp, _ = m.CreateRecord(ctx, EntityContact, BatchRequest{Records: []models.RecordPatch{patch("A", "B", "a@b.co")}})
	if got := resp.Results[0].Data.ID; got != 101 {
		t.Errorf("first id = %d, want 101", got)
	}
}

func TestMemoryNeverReusesDeletedID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(WithRecords([]models.Record{{ID: 1}, {ID: 2}}))
	_, _ = m.DeleteRecord(ctx, EntityContact, DeleteRequest{RecordIDs: []int{2}})
	resp, _ := m.CreateRecord(ctx, EntityContact, BatchRequest{Records: []models.RecordPatch{patch("A", "B", "a@b.co")}})
	if got := resp.Results[0].Data.ID; got != 3 {
		t.Errorf("id = %d, want 3", got)
	}
}

func TestMemoryConcurrentCreateUniqueIDs(t *testing.T) {
	m := NewMemory(WithRecords([]models.Record{{ID: 1}}))
	const n = 50

	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := m.CreateRecord(context.Background(), EntityContact, BatchRequest{Records: []models.RecordPatch{patch("A", "B", "a@b.co")}})
			if err != nil {
				t.Error(err)
				return
			}
			ids <- resp.Results[0].Data.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if m.Len() != n+1 {
		t.Errorf("len = %d, want %d", m.Len(), n+1)
	}
}

func TestMemoryLatencyHonoursContext(t *testing.T) {
	m := NewMemory(WithLatency(time.Second, 2*time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := m.FetchRecords(ctx, EntityContact, FetchParams{})
	if err == nil {
		t.Fatal("expected context error")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("latency not interrupted by context")
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(WithRecords([]models.Record{{ID: 1, FirstName: "A"}}))
	got, _ := m.GetRecordByID(ctx, EntityContact, 1, GetParams{})
	got.Data.FirstName = "mutated"

	again, _ := m.GetRecordByID(ctx, EntityContact, 1, GetParams{})
	if again.Data.FirstName != "A" {
		t.Errorf("backing record mutated: %q", again.Data.FirstName)
	}
}

func TestMemorySeedWithoutIDs(t *testing.T) {
	m := NewMemory(WithRecords([]models.Record{
		{ID: 3, FirstName: "A"},
		{FirstName: "B"},
		{FirstName: "C"},
	}))
	if m.Len() != 3 {
		t.Fatalf("len = %d, want 3", m.Len())
	}
	resp, err := m.GetRecordByID(context.Background(), EntityContact, 5, GetParams{})
	if err != nil || !resp.Success || resp.Data.FirstName != "C" {
		t.Fatalf("record 5 = %+v, %v", resp, err)
	}
}
