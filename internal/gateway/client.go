// Package gateway is the HTTP boundary through which form submissions reach
// the clinic backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/silverrose/clinicforms/internal/form"
	"github.com/silverrose/clinicforms/pkg/logging"
)

// Fixed resource paths owned by the backend.
const (
	appointmentsPath = "/api/appointments/"
	contactsPath     = "/api/contacts/"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from the backend error body.
type APIError struct {
	Status  int
	Code    string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("backend rejected request: %s (%s)", e.Code, e.Details)
	}
	return fmt.Sprintf("backend rejected request: %s (status %d)", e.Code, e.Status)
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Client issues create requests against the backend. It satisfies
// form.Gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient builds a client for the given base URL. A non-positive timeout
// falls back to the default.
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("gateway"),
	}
}

// CreateAppointment posts a booking request. The time field must already be
// normalized to HH:MM:SS by the caller.
func (c *Client) CreateAppointment(ctx context.Context, req form.AppointmentRequest) error {
	return c.post(ctx, appointmentsPath, req)
}

// CreateContact posts a general inquiry.
func (c *Client) CreateContact(ctx context.Context, req form.ContactRequest) error {
	return c.post(ctx, contactsPath, req)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode, Code: "unexpected_status"}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if readErr == nil && len(raw) > 0 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
			apiErr.Code = eb.Error
			apiErr.Details = eb.Details
		}
	}

	c.logger.Warn("create request rejected", "path", path, "status", resp.StatusCode, "code", apiErr.Code)
	return apiErr
}
