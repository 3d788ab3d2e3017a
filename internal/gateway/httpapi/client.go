// Package httpapi implements quiz.Gateway against the quiz REST API.
//
// Endpoints:
//
//	GET    {base}/quizzes        list
//	PATCH  {base}/quizzes/{id}   {"status": "published"}
//	DELETE {base}/quizzes/{id}
//
// Responses use [Envelope]. A non-2xx status or success=false becomes a
// *errors.GatewayError whose Reason is the envelope message.
package httpapi

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

	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/logging"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
)

// DefaultTimeout bounds a request when Config.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Config holds the client settings.
type Config struct {
	BaseURL string
	// Token is sent as a bearer token when set.
	Token   string
	Timeout time.Duration
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client is a quiz.Gateway over HTTP.
type Client struct {
	base   *url.URL
	token  string
	http   *http.Client
	logger *logging.Logger
}

// New validates cfg and returns a client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.NewValidationError("base URL is required").WithField("api.base_url")
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.NewValidationError("base URL must be absolute").
			WithField("api.base_url").WithValue(raw)
	}
	base.Path = strings.TrimRight(base.Path, "/")

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	return &Client{
		base:   base,
		token:  cfg.Token,
		http:   hc,
		logger: logger.WithComponent("httpapi"),
	}, nil
}

// List implements quiz.Gateway.
func (c *Client) List(ctx context.Context) ([]quiz.Quiz, error) {
	var payload []QuizPayload
	if err := c.do(ctx, "list", "", http.MethodGet, c.endpoint("quizzes"), nil, &payload); err != nil {
		return nil, err
	}
	quizzes := make([]quiz.Quiz, len(payload))
	for i, p := range payload {
		quizzes[i] = p.Quiz()
	}
	return quizzes, nil
}

// SetStatus implements quiz.Gateway.
func (c *Client) SetStatus(ctx context.Context, id string, target lifecycle.State) error {
	body := StatusRequest{Status: string(target)}
	return c.do(ctx, "set_status", id, http.MethodPatch, c.endpoint("quizzes", id), body, nil)
}

// Delete implements quiz.Gateway.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", id, http.MethodDelete, c.endpoint("quizzes", id), nil, nil)
}

func (c *Client) endpoint(parts ...string) string {
	return c.base.JoinPath(parts...).String()
}

func (c *Client) do(ctx context.Context, op, quizID, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encode %s request", op)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrapf(err, "build %s request", op)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithOperation(op).Warn("request failed", "quiz_id", quizID, "error", err)
		return errors.NewGatewayTransportError(op, err).WithQuizID(quizID)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return errors.NewGatewayTransportError(op, err).WithQuizID(quizID).WithStatusCode(resp.StatusCode)
	}
	c.logger.WithOperation(op).Debug("response",
		"quiz_id", quizID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if ok && len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if !ok || (decodeErr == nil && !env.Success) {
		if decodeErr != nil {
			cause := fmt.Errorf("unexpected response %s", resp.Status)
			return errors.NewGatewayTransportError(op, cause).WithQuizID(quizID).WithStatusCode(resp.StatusCode)
		}
		return errors.NewGatewayError(op, env.Message).
			WithQuizID(quizID).WithStatusCode(resp.StatusCode)
	}
	if decodeErr != nil {
		return errors.NewGatewayTransportError(op, decodeErr).WithQuizID(quizID).WithStatusCode(resp.StatusCode)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.NewGatewayTransportError(op, err).WithQuizID(quizID).WithStatusCode(resp.StatusCode)
	}
	return nil
}
