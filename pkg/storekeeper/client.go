package storekeeper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/logger"
)

const defaultTimeout = 30 * time.Second

var errLoggerRequired = errors.New("storekeeper logger is required")

// Client speaks the remote platform's module RPC protocol: one JSON POST per
// module::function call against the account-scoped endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	auth       Auth
	logger     *logger.Logger
}

// Option tweaks client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the account-derived endpoint (tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// NewClient validates the credentials and builds a short-lived client. Callers
// construct one per operation; no auth state is cached across requests.
func NewClient(auth Auth, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if err := auth.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    auth.BaseURL(),
		auth:       auth,
		logger:     logg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ShopModule returns the shop-scoped remote operation group.
func (c *Client) ShopModule() *ShopModule {
	return &ShopModule{client: c}
}

type callRequest struct {
	Module   string `json:"module"`
	Function string `json:"function"`
	Params   []any  `json:"params"`
	Auth     Auth   `json:"auth"`
}

type callEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *remoteError    `json:"error"`
}

type remoteError struct {
	Message string `json:"message"`
	Class   string `json:"class"`
}

// Call posts module::function with the given positional params and decodes
// the data payload into out (which may be nil).
func (c *Client) Call(ctx context.Context, module, function string, params []any, out any) error {
	body, err := json.Marshal(callRequest{
		Module:   module,
		Function: function,
		Params:   params,
		Auth:     c.auth,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding remote call")
	}

	c.log(ctx, "request", module, function, nil)

	url := strings.TrimRight(c.baseURL, "/") + "/?action=request"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building remote request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", module, function, err)
		return pkgerrors.Wrap(pkgerrors.CodeRemote, err, fmt.Sprintf("calling %s::%s", module, function))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log(ctx, "error", module, function, err)
		return pkgerrors.Wrap(pkgerrors.CodeRemote, err, fmt.Sprintf("reading %s::%s response", module, function))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("remote returned status %d", resp.StatusCode)
		c.log(ctx, "error", module, function, err)
		return pkgerrors.Wrap(codeForStatus(resp.StatusCode), err, fmt.Sprintf("calling %s::%s", module, function))
	}

	var envelope callEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.log(ctx, "error", module, function, err)
		return pkgerrors.Wrap(pkgerrors.CodeRemote, err, fmt.Sprintf("decoding %s::%s envelope", module, function))
	}

	if !envelope.Success {
		err := c.mapRemoteError(envelope.Error, module, function)
		c.log(ctx, "error", module, function, err)
		return err
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeRemote, err, fmt.Sprintf("decoding %s::%s data", module, function))
		}
	}

	c.log(ctx, "response", module, function, nil)
	return nil
}

// mapRemoteError classifies the remote failure: not-found exception classes
// become CodeNotFound so callers can distinguish "absent" from "broken"; the
// human-readable remote message is preserved either way.
func (c *Client) mapRemoteError(remote *remoteError, module, function string) error {
	message := "remote call failed"
	class := ""
	if remote != nil {
		if remote.Message != "" {
			message = remote.Message
		}
		class = remote.Class
	}
	code := pkgerrors.CodeRemote
	if strings.Contains(class, "NotFound") {
		code = pkgerrors.CodeNotFound
	}
	return pkgerrors.New(code, fmt.Sprintf("%s::%s: %s", module, function, message))
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.CodeUnauthorized
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	default:
		return pkgerrors.CodeRemote
	}
}

func (c *Client) log(ctx context.Context, phase, module, function string, err error) {
	if c == nil || c.logger == nil {
		return
	}
	ctx = c.logger.WithFields(ctx, map[string]any{
		"module":   module,
		"function": function,
		"phase":    phase,
		"account":  c.redactAccount(),
	})
	if phase == "error" {
		c.logger.Error(ctx, "storekeeper call failed", err)
		return
	}
	c.logger.Info(ctx, fmt.Sprintf("storekeeper %s", phase))
}

// redactAccount keeps logs correlatable without exposing the full tenant name.
func (c *Client) redactAccount() string {
	account := c.auth.Account
	if len(account) <= 3 {
		return "***"
	}
	return account[:3] + "***"
}
