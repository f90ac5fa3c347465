package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/contacthub/internal/contactservice"
)

// Hook sends a notification for every committed update. Each delivery runs
// in its own goroutine with a context detached from the caller's, so a
// finished or cancelled request does not abort it. Failures are logged only.
type Hook struct {
	invoker  Invoker
	function string
	timeout  time.Duration
	logger   *slog.Logger

	wg sync.WaitGroup
}

// HookOption configures a Hook.
type HookOption func(*Hook)

// WithFunction overrides the invoked function name.
func WithFunction(name string) HookOption {
	return func(h *Hook) { h.function = name }
}

// WithTimeout bounds each delivery.
func WithTimeout(d time.Duration) HookOption {
	return func(h *Hook) { h.timeout = d }
}

// WithLogger sets the logger failures are written to.
func WithLogger(l *slog.Logger) HookOption {
	return func(h *Hook) { h.logger = l }
}

// NewHook creates an update notification hook.
func NewHook(invoker Invoker, opts ...HookOption) *Hook {
	h := &Hook{
		invoker:  invoker,
		function: DefaultFunction,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ contactservice.Hook = (*Hook)(nil)

// OnCommit implements contactservice.Hook.
func (h *Hook) OnCommit(ctx context.Context, ev contactservice.Event) {
	if ev.Kind != contactservice.EventUpdated {
		return
	}
	payload := PayloadFrom(ev.Contact)
	detached := context.WithoutCancel(ctx)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.deliver(detached, payload)
	}()
}

// Wait blocks until in-flight deliveries finish.
func (h *Hook) Wait() {
	h.wg.Wait()
}

func (h *Hook) deliver(ctx context.Context, p Payload) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("notify: delivery panicked",
				slog.Int("contact_id", p.ContactID),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	res, err := h.invoker.Invoke(ctx, h.function, p)
	switch {
	case err != nil:
		h.logger.Warn("notify: update email failed",
			slog.Int("contact_id", p.ContactID),
			slog.String("function", h.function),
			slog.String("error", err.Error()))
	case res == nil || !res.Success:
		msg := ""
		if res != nil {
			msg = res.Message
		}
		h.logger.Warn("notify: update email rejected",
			slog.Int("contact_id", p.ContactID),
			slog.String("function", h.function),
			slog.String("message", msg))
	default:
		h.logger.Debug("notify: update email sent", slog.Int("contact_id", p.ContactID))
	}
}
