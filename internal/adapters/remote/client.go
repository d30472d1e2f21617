// Package remote provides the HTTP client for the chore status store.
package remote

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

	"github.com/google/uuid"
	"github.com/hylla/choreboard/internal/adapters/server/common"
	"github.com/hylla/choreboard/internal/app"
	"github.com/hylla/choreboard/internal/domain"
)

// ErrTransport reports a request that produced no structured reply.
var ErrTransport = errors.New("transport failure")

const (
	defaultBaseURL     = "http://127.0.0.1:5000"
	defaultAPIEndpoint = "/api"
	defaultTimeout     = 5 * time.Second
	maxReplyBytes      = 1 << 20
)

// Config captures client connection settings.
type Config struct {
	BaseURL     string
	APIEndpoint string
	Timeout     time.Duration
}

// Client talks to one chore status store over HTTP.
type Client struct {
	apiURL     string
	httpClient *http.Client
	newID      func() string
}

// NewClient builds a client, applying defaults for blank settings.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse remote base url %q: %w", cfg.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("remote base url %q must use http or https", cfg.BaseURL)
	}
	endpoint := "/" + strings.Trim(strings.TrimSpace(cfg.APIEndpoint), "/")
	if endpoint == "/" {
		endpoint = defaultAPIEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiURL:     base + endpoint,
		httpClient: &http.Client{Timeout: timeout},
		newID:      func() string { return uuid.NewString() },
	}, nil
}

// statusReply accepts both error shapes the store has used: a bare string and
// the structured envelope object.
type statusReply struct {
	OK     bool            `json:"ok"`
	Error  json.RawMessage `json:"error"`
	TaskID int64           `json:"task_id"`
	Status string          `json:"status"`
}

// errorText extracts a readable message from one reply error field.
func (r statusReply) errorText() string {
	if len(r.Error) == 0 || string(r.Error) == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(r.Error, &text); err == nil {
		return text
	}
	var apiErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.Error, &apiErr); err == nil {
		switch {
		case apiErr.Code != "" && apiErr.Message != "":
			return apiErr.Code + ": " + apiErr.Message
		case apiErr.Message != "":
			return apiErr.Message
		default:
			return apiErr.Code
		}
	}
	return string(r.Error)
}

// UpdateStatus sends one status change. Any decodable JSON reply is returned as
// the ack, whatever its HTTP status; everything else wraps ErrTransport.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.StatusAck, error) {
	body, err := json.Marshal(common.UpdateStatusRequest{TaskID: id, Status: string(status)})
	if err != nil {
		return domain.StatusAck{}, fmt.Errorf("encode update_status request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/update_status", bytes.NewReader(body))
	if err != nil {
		return domain.StatusAck{}, fmt.Errorf("build update_status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.RequestIDHeader, c.newID())

	raw, _, err := c.do(req)
	if err != nil {
		return domain.StatusAck{}, err
	}
	var reply statusReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return domain.StatusAck{}, fmt.Errorf("%w: decode update_status reply: %v", ErrTransport, err)
	}
	ack := domain.StatusAck{OK: reply.OK, ChoreID: reply.TaskID, Status: domain.Status(reply.Status)}
	if !reply.OK {
		ack.Error = reply.errorText()
		if ack.Error == "" {
			ack.Error = "update rejected"
		}
		return ack, nil
	}
	if ack.Mismatch(id, status) {
		ack.OK = false
		ack.Error = fmt.Sprintf("status mismatch: sent chore %d %s, store applied chore %d %q", id, status, reply.TaskID, reply.Status)
	}
	return ack, nil
}

// Board fetches today's board, optionally scoped to one kid.
func (c *Client) Board(ctx context.Context, kid string) (app.BoardView, error) {
	target := c.apiURL + "/board"
	if kid = strings.TrimSpace(kid); kid != "" {
		target += "?" + url.Values{"kid": []string{kid}}.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return app.BoardView{}, fmt.Errorf("build board request: %w", err)
	}
	req.Header.Set(common.RequestIDHeader, c.newID())

	raw, code, err := c.do(req)
	if err != nil {
		return app.BoardView{}, err
	}
	if code != http.StatusOK {
		var reply statusReply
		if json.Unmarshal(raw, &reply) == nil && reply.errorText() != "" {
			return app.BoardView{}, fmt.Errorf("board request: status %d: %s", code, reply.errorText())
		}
		return app.BoardView{}, fmt.Errorf("board request: status %d", code)
	}
	var view app.BoardView
	if err := json.Unmarshal(raw, &view); err != nil {
		return app.BoardView{}, fmt.Errorf("%w: decode board reply: %v", ErrTransport, err)
	}
	return view, nil
}

// do runs one request and reads a bounded reply body.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s %s: %v", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read reply: %v", ErrTransport, err)
	}
	return raw, resp.StatusCode, nil
}
