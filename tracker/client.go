package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout is used when a Client is constructed with no
// explicit timeout.
const DefaultTimeout = 30 * time.Second

// Client announces to a single BitTorrent tracker over HTTP. It wraps
// a pooled *http.Client rather than using http.DefaultClient, so
// callers get a configurable timeout and transport reuse across
// repeated announces.
type Client struct {
	httpClient *http.Client
	log        logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client, e.g. to plug
// in a custom transport for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the client's request timeout, overriding
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger overrides the client's logger. The default is
// logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient builds a Client ready to announce.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Announce sends a single announce request to announceURL and
// returns the decoded response. Log lines never include the raw
// InfoHash or PeerID bytes, which would print as unreadable binary
// garbage in structured output.
func (c *Client) Announce(ctx context.Context, announceURL string, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fullURL := announceURL + "?" + req.Encode()
	entry := c.log.WithFields(logrus.Fields{
		"announce": announceURL,
		"event":    string(req.Event),
	})
	entry.Debug("announcing to tracker")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, newErr(ErrInvalidRequest, "could not build http request", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, newErr(ErrCanceled, "", err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, newErr(ErrTimeout, "", err)
		}
		logErr := err
		var uErr *url.Error
		if errors.As(err, &uErr) {
			// url.Error's text repeats the full query string, which
			// carries the info-hash and peer id.
			logErr = uErr.Err
		}
		entry.WithError(logErr).Warn("tracker announce failed")
		return nil, newErr(ErrTransport, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newErr(ErrTransport, "reading response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newErr(ErrBadStatus, fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	out, err := decodeResponse(body)
	if err != nil {
		entry.WithError(err).Warn("tracker response rejected")
		return nil, err
	}

	entry.WithFields(logrus.Fields{
		"interval": out.Interval,
		"peers":    len(out.Peers),
	}).Debug("announce succeeded")
	return out, nil
}
