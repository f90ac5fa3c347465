package internal

import (
	"github.com/starford/contacthub/internal/contactservice"
	"github.com/starford/contacthub/internal/notify"
	"github.com/starford/contacthub/internal/recordstore"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	client   recordstore.Client
	invoker  notify.Invoker
	reporter contactservice.Reporter
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithRecordStore replaces the configured store with client, e.g. an adapter
// for a hosted record store. store.driver and seeding are then ignored.
func WithRecordStore(client recordstore.Client) Option {
	return func(a *application) {
		a.client = client
	}
}

// WithInvoker replaces the HTTP function invoker used for update
// notifications.
func WithInvoker(inv notify.Invoker) Option {
	return func(a *application) {
		a.invoker = inv
	}
}

// WithReporter sets the collaborator that surfaces repository notices.
func WithReporter(r contactservice.Reporter) Option {
	return func(a *application) {
		a.reporter = r
	}
}
