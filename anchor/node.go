package anchor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/buger/jsonparser"
)

const defaultMaxResponseBytes = 1 << 20

// NodeClient resolves anchored codes through a Waves node REST API.
//
// The code is the value of the first data entry of the transaction returned
// by GET {nodeURL}/transactions/info/{txID}.
type NodeClient struct {
	nodeURL          string
	client           *nethttp.Client
	headers          nethttp.Header
	maxResponseBytes int64
	logger           *slog.Logger
}

// Option configures a NodeClient.
type Option func(*NodeClient)

// WithClient sets the HTTP client used for requests.
func WithClient(client *nethttp.Client) Option {
	return func(c *NodeClient) {
		c.client = client
	}
}

// WithHeaders sets additional headers on each request.
func WithHeaders(headers nethttp.Header) Option {
	return func(c *NodeClient) {
		if headers == nil {
			return
		}
		c.headers = headers.Clone()
	}
}

// WithHeader sets a single header on each request.
func WithHeader(key, value string) Option {
	return func(c *NodeClient) {
		if c.headers == nil {
			c.headers = make(nethttp.Header)
		}
		c.headers.Set(key, value)
	}
}

// WithMaxResponseBytes limits how much of a response body is read.
// Values <= 0 keep the default of 1 MiB.
func WithMaxResponseBytes(n int64) Option {
	return func(c *NodeClient) {
		if n > 0 {
			c.maxResponseBytes = n
		}
	}
}

// WithLogger sets the logger for lookup diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *NodeClient) {
		c.logger = logger
	}
}

// NewNodeClient creates a client for the node at nodeURL.
func NewNodeClient(nodeURL string, opts ...Option) (*NodeClient, error) {
	if nodeURL == "" {
		return nil, errors.New("anchor: node URL is empty")
	}
	if _, err := url.Parse(nodeURL); err != nil {
		return nil, fmt.Errorf("anchor: parse node URL: %w", err)
	}
	c := &NodeClient{
		nodeURL:          strings.TrimRight(nodeURL, "/"),
		client:           nethttp.DefaultClient,
		maxResponseBytes: defaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = nethttp.DefaultClient
	}
	return c, nil
}

// NodeURL returns the node base URL without a trailing slash.
func (c *NodeClient) NodeURL() string {
	return c.nodeURL
}

func (c *NodeClient) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// VerificationCode fetches the code anchored in transaction txID.
// Any transport failure, non-2xx status or response without a data entry
// is reported as ErrUnavailable.
func (c *NodeClient) VerificationCode(ctx context.Context, txID string) (string, error) {
	if txID == "" {
		return "", fmt.Errorf("%w: empty transaction id", ErrUnavailable)
	}
	endpoint := c.nodeURL + "/transactions/info/" + url.PathEscape(txID)

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, endpoint, nethttp.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log().Warn("node request failed", "transaction", txID, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // best-effort drain for connection reuse
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log().Warn("node returned error status", "transaction", txID, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if int64(len(body)) > c.maxResponseBytes {
		return "", fmt.Errorf("%w: response exceeds %d bytes", ErrUnavailable, c.maxResponseBytes)
	}

	code, err := dataValue(body)
	if err != nil {
		c.log().Warn("node response has no verification code", "transaction", txID, "error", err)
		return "", fmt.Errorf("%w: transaction %s: %v", ErrUnavailable, txID, err)
	}
	c.log().Debug("fetched anchored code", "transaction", txID)
	return code, nil
}

// dataValue extracts data[0].value from a transaction info response.
func dataValue(body []byte) (string, error) {
	value, typ, _, err := jsonparser.Get(body, "data", "[0]", "value")
	if err != nil {
		return "", err
	}
	if typ != jsonparser.String {
		return "", fmt.Errorf("data value is %s, want string", typ)
	}
	return jsonparser.ParseString(value)
}
