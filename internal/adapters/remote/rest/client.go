package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/robotctl/internal/domain"
	"github.com/bnema/robotctl/internal/ports"
)

const (
	maxResponseBytes = 1 << 20

	robotPositionsPath = "robot-positions"
	currentPath        = "robot-positions/current"
)

// Client talks to the robot backend's REST API rooted at BaseURL (for example
// http://host:8080/api).
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.RemoteStore = (*Client)(nil)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

type robotPositionPayload struct {
	FromKey      string `json:"fromKey"`
	ToKey        string `json:"toKey"`
	MovementJSON string `json:"movementJson"`
}

type robotPositionKey struct {
	FromKey string `json:"fromKey"`
	ToKey   string `json:"toKey"`
}

type movementPayload struct {
	Steps []movementStepPayload `json:"steps"`
}

type movementStepPayload struct {
	Action  int     `json:"action"`
	Seconds float64 `json:"seconds"`
}

func (c Client) SaveRoute(ctx context.Context, origin, destination domain.Place, movement domain.Movement) error {
	encoded, err := encodeMovement(movement)
	if err != nil {
		return err
	}

	body, err := json.Marshal(robotPositionPayload{
		FromKey:      string(origin),
		ToKey:        string(destination),
		MovementJSON: encoded,
	})
	if err != nil {
		return fmt.Errorf("encode route payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, robotPositionsPath, nil, body)
	if err != nil {
		return fmt.Errorf("save route: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	return nil
}

func (c Client) DeleteRoute(ctx context.Context, origin, destination domain.Place) error {
	body, err := json.Marshal(robotPositionKey{FromKey: string(origin), ToKey: string(destination)})
	if err != nil {
		return fmt.Errorf("encode route key: %w", err)
	}

	resp, err := c.do(ctx, http.MethodDelete, robotPositionsPath, nil, body)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	return nil
}

func (c Client) ListRoutes(ctx context.Context) ([]ports.RemoteRoute, error) {
	resp, err := c.do(ctx, http.MethodGet, robotPositionsPath, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload []robotPositionPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode routes response: %w", err)
	}

	routes := make([]ports.RemoteRoute, 0, len(payload))
	for _, entry := range payload {
		routes = append(routes, ports.RemoteRoute{
			Origin:       entry.FromKey,
			Destination:  entry.ToKey,
			MovementJSON: entry.MovementJSON,
		})
	}

	return routes, nil
}

func (c Client) CurrentPosition(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, currentPath, nil, nil)
	if err != nil {
		return "", fmt.Errorf("get current position: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read current position: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

func (c Client) UpdateCurrentPosition(ctx context.Context, place domain.Place) error {
	query := url.Values{}
	query.Set("position", string(place))

	resp, err := c.do(ctx, http.MethodPut, currentPath, query, nil)
	if err != nil {
		return fmt.Errorf("update current position: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	return nil
}

func (c Client) do(ctx context.Context, method string, path string, query url.Values, body []byte) (*http.Response, error) {
	endpoint, err := buildAPIURL(c.BaseURL, path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	requestCtx, cancel := c.requestContext(ctx)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		cancel()
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		cancel()
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	resp.Body = cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func encodeMovement(movement domain.Movement) (string, error) {
	payload := movementPayload{Steps: make([]movementStepPayload, 0, len(movement.Steps))}
	for _, step := range movement.Steps {
		payload.Steps = append(payload.Steps, movementStepPayload{Action: int(step.Action), Seconds: step.Seconds})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode movement: %w", err)
	}

	return string(data), nil
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
