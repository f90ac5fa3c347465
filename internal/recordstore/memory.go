package recordstore

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/starford/contacthub/internal/models"
)

// Memory is the local substitute store. Records live in a process-local map
// guarded by a single mutex; id assignment happens under the same lock.
type Memory struct {
	mu      sync.Mutex
	records map[int]models.Record
	// lastID is the highest id ever assigned or seeded, so deleted ids are
	// never handed out again.
	lastID int

	minDelay time.Duration
	maxDelay time.Duration
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithRecords seeds the store. Later records with a duplicate id win and
// records without an id are numbered after the highest id seen so far.
func WithRecords(records []models.Record) MemoryOption {
	return func(m *Memory) {
		for _, r := range records {
			if r.ID <= 0 {
				r.ID = m.lastID + 1
			}
			m.records[r.ID] = r
			m.lastID = max(m.lastID, r.ID)
		}
	}
}

// WithIDFloor makes the store assign ids strictly above floor. It defines
// the first id of an empty store.
func WithIDFloor(floor int) MemoryOption {
	return func(m *Memory) {
		m.lastID = max(m.lastID, floor)
	}
}

// WithLatency delays every call by a random duration in [min, max] to
// simulate a remote store.
func WithLatency(minDelay, maxDelay time.Duration) MemoryOption {
	return func(m *Memory) {
		m.minDelay = minDelay
		m.maxDelay = max(minDelay, maxDelay)
	}
}

// NewMemory creates an in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{records: make(map[int]models.Record)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ Client = (*Memory)(nil)

// FetchRecords returns every record, ordered by params.OrderBy (Id DESC by default).
func (m *Memory) FetchRecords(ctx context.Context, entity string, params FetchParams) (*FetchResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if entity != EntityContact {
		return &FetchResponse{Success: false, Message: msgUnknownEntity}, nil
	}

	m.mu.Lock()
	out := make([]models.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	m.mu.Unlock()

	orderBy := params.OrderBy
	if len(orderBy) == 0 {
		orderBy = []OrderBy{{Field: models.ColID, Direction: Desc}}
	}
	for _, o := range orderBy {
		if _, ok := sortColumns[o.Field]; !ok {
			return &FetchResponse{Success: false, Message: "cannot order by " + o.Field}, nil
		}
	}
	slices.SortStableFunc(out, func(a, b models.Record) int {
		for _, o := range orderBy {
			c := sortColumns[o.Field](a, b)
			if strings.EqualFold(o.Direction, Desc) {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return &FetchResponse{Success: true, Data: out}, nil
}

// GetRecordByID returns one record.
func (m *Memory) GetRecordByID(ctx context.Context, entity string, id int, _ GetParams) (*GetResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if entity != EntityContact {
		return &GetResponse{Success: false, Message: msgUnknownEntity}, nil
	}

	m.mu.Lock()
	r, ok := m.records[id]
	m.mu.Unlock()
	if !ok {
		return &GetResponse{Success: false, Message: MsgNotFound}, nil
	}
	return &GetResponse{Success: true, Data: &r}, nil
}

// CreateRecord inserts each record under a fresh id.
func (m *Memory) CreateRecord(ctx context.Context, entity string, req BatchRequest) (*BatchResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if entity != EntityContact {
		return &BatchResponse{Success: false, Message: msgUnknownEntity}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	results := make([]Result, len(req.Records))
	for i, p := range req.Records {
		if errs := validatePatch(p, true); len(errs) > 0 {
			results[i] = failed(errs)
			continue
		}
		m.lastID++
		r := models.Record{ID: m.lastID}
		p.Apply(&r)
		m.records[r.ID] = r
		results[i] = Result{Success: true, Data: &r}
	}
	return &BatchResponse{Success: true, Results: results}, nil
}

// UpdateRecord merges each patch onto the stored record with the same id.
func (m *Memory) UpdateRecord(ctx context.Context, entity string, req BatchRequest) (*BatchResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if entity != EntityContact {
		return &BatchResponse{Success: false, Message: msgUnknownEntity}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	results := make([]Result, len(req.Records))
	for i, p := range req.Records {
		r, ok := m.records[p.ID]
		if !ok {
			results[i] = Result{Success: false, Message: MsgNotFound}
			continue
		}
		if errs := validatePatch(p, false); len(errs) > 0 {
			results[i] = failed(errs)
			continue
		}
		p.Apply(&r)
		m.records[r.ID] = r
		results[i] = Result{Success: true, Data: &r}
	}
	return &BatchResponse{Success: true, Results: results}, nil
}

// DeleteRecord removes the named records.
func (m *Memory) DeleteRecord(ctx context.Context, entity string, req DeleteRequest) (*DeleteResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if entity != EntityContact {
		return &DeleteResponse{Success: false, Message: msgUnknownEntity}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	results := make([]DeleteResult, len(req.RecordIDs))
	for i, id := range req.RecordIDs {
		if _, ok := m.records[id]; !ok {
			results[i] = DeleteResult{Success: false, Message: MsgNotFound}
			continue
		}
		delete(m.records, id)
		results[i] = DeleteResult{Success: true}
	}
	return &DeleteResponse{Success: true, Results: results}, nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *Memory) wait(ctx context.Context) error {
	if m.maxDelay <= 0 {
		return ctx.Err()
	}
	d := m.minDelay
	if span := m.maxDelay - m.minDelay; span > 0 {
		d += rand.N(span)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var sortColumns = map[string]func(a, b models.Record) int{
	models.ColID:        func(a, b models.Record) int { return cmp.Compare(a.ID, b.ID) },
	models.ColFirstName: func(a, b models.Record) int { return strings.Compare(a.FirstName, b.FirstName) },
	models.ColLastName:  func(a, b models.Record) int { return strings.Compare(a.LastName, b.LastName) },
	models.ColCompany:   func(a, b models.Record) int { return strings.Compare(a.Company, b.Company) },
	models.ColCreatedAt: func(a, b models.Record) int { return a.CreatedAt.Compare(b.CreatedAt) },
	models.ColUpdatedAt: func(a, b models.Record) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
}
