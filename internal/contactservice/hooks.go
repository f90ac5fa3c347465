package contactservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/contacthub/internal/models"
)

// EventKind names a committed repository change.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// Event describes a change the record store has committed. For deletes only
// Contact.ID is set.
type Event struct {
	Kind    EventKind
	Contact models.Contact
}

// Hook observes committed changes. Hooks cannot fail the operation that
// triggered them; long-running work belongs in the hook's own goroutine.
type Hook interface {
	OnCommit(ctx context.Context, ev Event)
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, ev Event)

// OnCommit implements Hook.
func (f HookFunc) OnCommit(ctx context.Context, ev Event) { f(ctx, ev) }

func (s *Service) emit(ctx context.Context, ev Event) {
	for _, h := range s.hooks {
		s.runHook(ctx, h, ev)
	}
}

func (s *Service) runHook(ctx context.Context, h Hook, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("post-commit hook panicked",
				slog.String("event", string(ev.Kind)),
				slog.Int("id", ev.Contact.ID),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	h.OnCommit(ctx, ev)
}
