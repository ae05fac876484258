// Package remote is the HTTP client for the remote edge service that holds
// the admin credential and stores uploaded images.
//
// Credential calls never return errors: transport failures, non-2xx
// responses and undecodable bodies are logged and collapse to false, so the
// gate always lands in a state the user can retry from.
package remote

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

	"go.uber.org/zap"
)

// Protocol actions, sent as the "action" query parameter.
const (
	ActionCheck  = "auth-check"
	ActionSetup  = "auth-setup"
	ActionVerify = "auth-verify"
)

// SecretKeyHeader carries the shared upload key.
const SecretKeyHeader = "X-Secret-Key"

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 8 << 10
)

// Options configures an Authority.
type Options struct {
	// BaseURL is the edge service endpoint. Empty means not configured.
	BaseURL string
	// SecretKey is sent on uploads.
	SecretKey string
	// Timeout bounds every call; defaults to 10s.
	Timeout time.Duration
	// Transport overrides the default round tripper.
	Transport http.RoundTripper
	Logger    *zap.Logger
}

// Authority is the remote credential backend.
type Authority struct {
	client    *http.Client
	baseURL   string
	secretKey string
	log       *zap.Logger
}

// New builds an Authority. It does not contact the service.
func New(opts Options) *Authority {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	if opts.Transport != nil {
		client.Transport = opts.Transport
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Authority{
		client:    client,
		baseURL:   strings.TrimSpace(opts.BaseURL),
		secretKey: opts.SecretKey,
		log:       log.Named("remote"),
	}
}

// Configured reports whether a base URL is set.
func (a *Authority) Configured() bool {
	return a.baseURL != ""
}

type checkResponse struct {
	IsSetup bool `json:"isSetup"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// Exists asks the service whether a credential has been set.
func (a *Authority) Exists(ctx context.Context) (bool, error) {
	if !a.Configured() {
		return false, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.actionURL(ActionCheck), http.NoBody)
	if err != nil {
		a.degrade(ActionCheck, err)
		return false, nil
	}
	resp, err := a.client.Do(req)
	if err != nil {
		a.degrade(ActionCheck, err)
		return false, nil
	}
	defer resp.Body.Close()

	var out checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		a.degrade(ActionCheck, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err))
		return false, nil
	}
	return out.IsSetup, nil
}

// Create sets the remote credential.
func (a *Authority) Create(ctx context.Context, password string) (bool, error) {
	return a.postPassword(ctx, ActionSetup, password), nil
}

// Verify checks password against the remote credential.
func (a *Authority) Verify(ctx context.Context, password string) (bool, error) {
	return a.postPassword(ctx, ActionVerify, password), nil
}

func (a *Authority) postPassword(ctx context.Context, action, password string) bool {
	if !a.Configured() {
		return false
	}
	body, err := json.Marshal(passwordRequest{Password: password})
	if err != nil {
		a.degrade(action, err)
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.actionURL(action), bytes.NewReader(body))
	if err != nil {
		a.degrade(action, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.degrade(action, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.degrade(action, fmt.Errorf("server error: %s", readBody(resp.Body)))
		return false
	}
	var out successResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		a.degrade(action, fmt.Errorf("invalid response: %w", err))
		return false
	}
	return out.Success
}

func (a *Authority) actionURL(action string) string {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return a.baseURL + "?action=" + url.QueryEscape(action)
	}
	q := u.Query()
	q.Set("action", action)
	u.RawQuery = q.Encode()
	return u.String()
}

func (a *Authority) degrade(action string, err error) {
	a.log.Warn("remote call failed", zap.String("action", action), zap.Error(err))
}

func readBody(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(data))
}
