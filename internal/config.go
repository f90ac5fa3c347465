package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/contacthub/internal/contactservice"
	"github.com/starford/contacthub/internal/notify"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Store      StoreConfig       `yaml:"store"`
	Repository RepositoryConfig  `yaml:"repository"`
	Notify     NotifyConfig      `yaml:"notify"`
	Auth       AuthConfig        `yaml:"auth"`
	Photos     PhotosConfig      `yaml:"photos"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Repository.Validate(); err != nil {
		return fmt.Errorf("repository: %w", err)
	}
	if err := c.Notify.Validate(); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	if err := c.Photos.Validate(); err != nil {
		return fmt.Errorf("photos: %w", err)
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig selects and configures the record store backing the repository.
//
// Driver "memory" keeps records in process and is lost on restart; "sqlite"
// persists them to SQLite.Path. SeedFile, if set, is a JSON or YAML list of
// records loaded at startup (SQLite only seeds an empty table).
type StoreConfig struct {
	Driver   string        `yaml:"driver"`
	SQLite   SQLiteConfig  `yaml:"sqlite"`
	SeedFile string        `yaml:"seed_file"`
	Latency  LatencyConfig `yaml:"latency"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = StoreMemory
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(StoreMemory, StoreSQLite)),
	); err != nil {
		return err
	}
	if c.Driver == StoreSQLite {
		if err := c.SQLite.Validate(); err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
	}
	return c.Latency.Validate()
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// LatencyConfig adds a random delay to every in-memory store call, to
// mimic a remote backend in demos.
type LatencyConfig struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// Validate validates the latency range.
func (c *LatencyConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Min, validation.Min(time.Duration(0))),
		validation.Field(&c.Max, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	if c.Max < c.Min {
		return errors.New("latency: max must not be less than min")
	}
	return nil
}

// RepositoryConfig holds contact repository behaviour.
type RepositoryConfig struct {
	// ListFailure is "error" (surface list failures) or "empty" (report them
	// and return an empty list).
	ListFailure string `yaml:"list_failure"`
}

// Validate validates the repository configuration.
func (c *RepositoryConfig) Validate() error {
	if c.ListFailure == "" {
		c.ListFailure = contactservice.ListFailError
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.ListFailure, validation.In(contactservice.ListFailError, contactservice.ListFailEmpty)),
	)
}

// NotifyConfig configures the contact update email function.
type NotifyConfig struct {
	Enabled  bool          `yaml:"enabled"`
	URL      string        `yaml:"url"`
	Function string        `yaml:"function"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Validate validates the notification configuration.
func (c *NotifyConfig) Validate() error {
	if c.Function == "" {
		c.Function = notify.DefaultFunction
	}
	if c.Timeout == 0 {
		c.Timeout = notify.DefaultTimeout
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.When(c.Enabled, validation.Required), is.URL),
		validation.Field(&c.Timeout, validation.Min(time.Millisecond)),
	)
}

// PhotosConfig holds the directory uploaded contact photos are stored in.
type PhotosConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the photos configuration.
func (c *PhotosConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Driver: StoreMemory,
			SQLite: SQLiteConfig{
				Path: "./contacthub.db",
			},
		},
		Repository: RepositoryConfig{
			ListFailure: contactservice.ListFailError,
		},
		Notify: NotifyConfig{
			Function: notify.DefaultFunction,
			Timeout:  notify.DefaultTimeout,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Photos: PhotosConfig{
			Path: "./photos",
		},
	}
}
