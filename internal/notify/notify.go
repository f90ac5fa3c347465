// Package notify delivers best-effort contact update emails through a
// serverless function. Delivery never blocks or fails the update that
// triggered it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/contacthub/internal/models"
)

const (
	// DefaultFunction is the serverless function invoked after an update.
	DefaultFunction = "send-contact-update-email"
	// DefaultTimeout bounds a single delivery.
	DefaultTimeout = 10 * time.Second
)

// Payload is the fixed subset of contact fields sent with a notification.
type Payload struct {
	ContactID int    `json:"contactId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Position  string `json:"position"`
}

// PayloadFrom builds the notification payload for c.
func PayloadFrom(c models.Contact) Payload {
	return Payload{
		ContactID: c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Company:   c.Company,
		Position:  c.Position,
	}
}

// Result is the function's response body.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Invoker calls a named function with a payload.
type Invoker interface {
	Invoke(ctx context.Context, function string, p Payload) (*Result, error)
}

// HTTPInvoker invokes functions as POST {baseURL}/{function} with a JSON body.
type HTTPInvoker struct {
	baseURL string
	client  *http.Client
}

// NewHTTPInvoker creates an invoker. timeout bounds each request.
func NewHTTPInvoker(baseURL string, timeout time.Duration) *HTTPInvoker {
	return &HTTPInvoker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Invoke implements Invoker.
func (h *HTTPInvoker) Invoke(ctx context.Context, function string, p Payload) (*Result, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("notify: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+url.PathEscape(function), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notify: invoke %s: %w", function, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("notify: invoke %s: status %d", function, resp.StatusCode)
	}
	var res Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&res); err != nil {
		return nil, fmt.Errorf("notify: decode response: %w", err)
	}
	return &res, nil
}
