package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"startime/config"
)

// ErrNotAuthenticated is returned before any request is sent when no session token is set
var ErrNotAuthenticated = errors.New("not authenticated")

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the backend rejected the session
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsUnauthorized reports whether err means the user has to log in again
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

// Client talks to the StarTime REST API. It holds no retry policy: a failed
// call is final until the user triggers it again.
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	c := &Client{}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", "StarTime-TUI/1.0").
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			req.SetHeader("X-Request-ID", uuid.New().String())
			return nil
		})

	return c
}

// SetToken sets the backend session token sent with every call
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) authed(ctx context.Context) (*resty.Request, string, error) {
	token := c.Token()
	if token == "" {
		return nil, "", ErrNotAuthenticated
	}
	return c.http.R().SetContext(ctx), token, nil
}

// check turns transport failures and error statuses into errors
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Backend] %s failed: %v", op, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Backend] %s %s -> %d", resp.Request.Method, resp.Request.URL, resp.StatusCode())
		}
		return fmt.Errorf("%s: %w", op, apiErr)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Backend] %s %s -> %d (%s)", resp.Request.Method, resp.Request.URL, resp.StatusCode(), resp.Time())
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func errorMessage(resp *resty.Response) string {
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		for _, msg := range []string{body.Error, body.Detail, body.Message} {
			if msg != "" {
				return msg
			}
		}
	}
	return strings.TrimSpace(resp.String())
}
