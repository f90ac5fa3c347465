// Package contactservice is the contact repository: the single entry point
// for contact CRUD on top of a record store client.
package contactservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/contacthub/internal/apperr"
	"github.com/starford/contacthub/internal/mapper"
	"github.com/starford/contacthub/internal/models"
	"github.com/starford/contacthub/internal/recordstore"
)

// List failure modes.
const (
	// ListFailEmpty degrades a failed list to an empty result.
	ListFailEmpty = "empty"
	// ListFailError propagates list failures to the caller.
	ListFailError = "error"
)

// Service implements contact CRUD against a record store.
type Service struct {
	client      recordstore.Client
	entity      string
	logger      *slog.Logger
	reporter    Reporter
	hooks       []Hook
	listFailure string
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithReporter sets the collaborator that surfaces notices to users.
func WithReporter(r Reporter) Option {
	return func(s *Service) { s.reporter = r }
}

// WithHooks appends post-commit hooks.
func WithHooks(hooks ...Hook) Option {
	return func(s *Service) { s.hooks = append(s.hooks, hooks...) }
}

// WithListFailure selects ListFailEmpty or ListFailError.
func WithListFailure(mode string) Option {
	return func(s *Service) { s.listFailure = mode }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithEntity overrides the store entity name.
func WithEntity(entity string) Option {
	return func(s *Service) { s.entity = entity }
}

// New creates a contact service.
func New(client recordstore.Client, opts ...Option) *Service {
	s := &Service{
		client:      client,
		entity:      recordstore.EntityContact,
		logger:      slog.Default(),
		listFailure: ListFailError,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reporter == nil {
		s.reporter = logReporter{logger: s.logger}
	}
	return s
}

// List returns every contact in store order (newest id first).
func (s *Service) List(ctx context.Context) ([]models.Contact, error) {
	resp, err := s.client.FetchRecords(ctx, s.entity, recordstore.FetchParams{
		Fields:  models.Columns,
		OrderBy: []recordstore.OrderBy{{Field: models.ColID, Direction: recordstore.Desc}},
	})
	if err == nil && !resp.Success {
		err = errors.New(resp.Message)
	} else if err != nil {
		err = errors.Join(apperr.ErrTransport, err)
	}
	if err != nil {
		s.logger.Error("list contacts failed", slog.String("error", err.Error()))
		s.reporter.Report(ctx, Notice{Severity: SeverityError, Message: "Failed to load contacts"})
		if s.listFailure == ListFailEmpty {
			return []models.Contact{}, nil
		}
		return nil, fmt.Errorf("contactservice: list: %w", errors.Join(apperr.ErrListFailed, err))
	}
	return mapper.FromStoreAll(resp.Data), nil
}

// Get returns the contact with the given id.
func (s *Service) Get(ctx context.Context, id int) (*models.Contact, error) {
	r, err := s.fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("contactservice: get %d: %w", id, err)
	}
	c := mapper.FromStore(*r)
	return &c, nil
}

// Create stores a new contact. The store assigns the id; emailStatus
// defaults to "New" and both timestamps are set to now.
func (s *Service) Create(ctx context.Context, in models.ContactInput) (*models.Contact, error) {
	p := mapper.ToStore(in)
	if p.EmailStatus == nil || *p.EmailStatus == "" {
		p.EmailStatus = models.String(models.DefaultEmailStatus)
	}
	now := s.now().UTC()
	p.CreatedAt = &now
	p.UpdatedAt = &now

	resp, err := s.client.CreateRecord(ctx, s.entity, recordstore.BatchRequest{Records: []models.RecordPatch{p}})
	r, err := s.single(ctx, resp, err)
	if err != nil {
		return nil, fmt.Errorf("contactservice: create: %w", errors.Join(apperr.ErrCreateFailed, err))
	}

	c := mapper.FromStore(*r)
	s.logger.Info("contact created", slog.Int("id", c.ID))
	s.emit(ctx, Event{Kind: EventCreated, Contact: c})
	return &c, nil
}

// Update merges the present fields of in onto the stored contact and
// refreshes updatedAt. emailStatus falls back from the input to the stored
// value to "New". Concurrent updates are last-write-wins.
func (s *Service) Update(ctx context.Context, id int, in models.ContactInput) (*models.Contact, error) {
	p := mapper.ToStore(in)
	p.ID = id
	if p.EmailStatus != nil && *p.EmailStatus == "" {
		p.EmailStatus = nil
	}
	if p.EmailStatus == nil {
		prev, err := s.fetch(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("contactservice: update %d: %w", id, errors.Join(apperr.ErrUpdateFailed, err))
		}
		if prev.EmailStatus == "" {
			p.EmailStatus = models.String(models.DefaultEmailStatus)
		}
	}
	now := s.now().UTC()
	p.UpdatedAt = &now

	resp, err := s.client.UpdateRecord(ctx, s.entity, recordstore.BatchRequest{Records: []models.RecordPatch{p}})
	r, err := s.single(ctx, resp, err)
	if err != nil {
		return nil, fmt.Errorf("contactservice: update %d: %w", id, errors.Join(apperr.ErrUpdateFailed, err))
	}

	c := mapper.FromStore(*r)
	s.logger.Info("contact updated", slog.Int("id", c.ID))
	s.emit(ctx, Event{Kind: EventUpdated, Contact: c})
	return &c, nil
}

// Delete removes the contact. Deleting an absent id fails.
func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	resp, err := s.client.DeleteRecord(ctx, s.entity, recordstore.DeleteRequest{RecordIDs: []int{id}})
	switch {
	case err != nil:
		err = errors.Join(apperr.ErrTransport, err)
	case !resp.Success:
		err = errors.New(resp.Message)
	case len(resp.Results) == 0:
		err = errors.New("store returned no results")
	default:
		for _, r := range resp.Results {
			if r.Success {
				continue
			}
			s.reporter.Report(ctx, Notice{Severity: SeverityError, Message: r.Message})
			err = errors.Join(err, resultError(r.Message))
		}
	}
	if err != nil {
		return false, fmt.Errorf("contactservice: delete %d: %w", id, errors.Join(apperr.ErrDeleteFailed, err))
	}

	s.logger.Info("contact deleted", slog.Int("id", id))
	s.emit(ctx, Event{Kind: EventDeleted, Contact: models.Contact{ID: id}})
	return true, nil
}

// fetch reads one record, mapping a store-reported failure to ErrNotFound.
func (s *Service) fetch(ctx context.Context, id int) (*models.Record, error) {
	resp, err := s.client.GetRecordByID(ctx, s.entity, id, recordstore.GetParams{Fields: models.Columns})
	if err != nil {
		return nil, errors.Join(apperr.ErrTransport, err)
	}
	if !resp.Success || resp.Data == nil {
		return nil, apperr.ErrNotFound
	}
	return resp.Data, nil
}

// single unwraps a one-record batch response. Every field error of a
// failed result is reported before the aggregate error is returned.
func (s *Service) single(ctx context.Context, resp *recordstore.BatchResponse, err error) (*models.Record, error) {
	if err != nil {
		return nil, errors.Join(apperr.ErrTransport, err)
	}
	if !resp.Success {
		s.reporter.Report(ctx, Notice{Severity: SeverityError, Message: resp.Message})
		return nil, errors.New(resp.Message)
	}

	var (
		rec    *models.Record
		fields apperr.ValidationErrors
		errs   []error
	)
	for _, r := range resp.Results {
		if r.Success {
			if rec == nil {
				rec = r.Data
			}
			continue
		}
		for _, fe := range r.Errors {
			s.reporter.Report(ctx, Notice{Severity: SeverityError, Field: fe.Field, Message: fe.Error()})
			fields = append(fields, fe)
		}
		if len(r.Errors) == 0 && r.Message != "" {
			s.reporter.Report(ctx, Notice{Severity: SeverityError, Message: r.Message})
		}
		errs = append(errs, resultError(r.Message))
	}
	if len(fields) > 0 {
		errs = append(errs, fields)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if rec == nil {
		return nil, errors.New("store returned no record")
	}
	return rec, nil
}

func resultError(msg string) error {
	if msg == recordstore.MsgNotFound {
		return apperr.ErrNotFound
	}
	if msg == "" {
		msg = "store reported failure"
	}
	return errors.New(msg)
}
