package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"salao/terminal/internal/logger"
	"salao/terminal/internal/notify"
	"salao/terminal/internal/session"

	"github.com/google/uuid"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks JSON to the restaurant backend on behalf of the logged-in
// operator.
type Client struct {
	baseURL  string
	client   HTTPClient
	session  *session.Session
	notifier notify.Notifier
	log      *logger.Logger
}

func New(baseURL string, client HTTPClient, sess *session.Session, notifier notify.Notifier, log *logger.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		session:  sess,
		notifier: notifier,
		log:      log,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Method: method, Path: path, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Method: method, Path: path, Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	authSent := false
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		authSent = true
	}
	if token := c.session.IfoodToken(); token != "" {
		req.Header.Set("Ifood-Authorization", "Bearer "+token)
	}

	c.log.Debug("api_request", requestID, method+" "+path)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("api_request", requestID, "request failed", err, slog.String("path", path))
		return &Error{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Method: method, Path: path, Status: resp.StatusCode, Message: errorMessage(data)}
		c.log.Warn("api_request", requestID, apiErr.Error(), slog.Int("status", resp.StatusCode))
		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized(path, authSent)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	return nil
}

// handleUnauthorized drops whichever credential the backend rejected. iFood
// routes only invalidate the iFood token; any other 401 on an authenticated
// request ends the operator's session.
func (c *Client) handleUnauthorized(path string, authSent bool) {
	if strings.Contains(strings.ToLower(path), "/ifood/") {
		c.session.ClearIfoodToken()
		c.notifier.Error(MsgIfoodExpired)
		return
	}
	if authSent {
		c.log.Info("session", "", "backend rejected token, logging out")
		c.session.Clear()
	}
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
