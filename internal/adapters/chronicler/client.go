// Package chronicler is a small client for the Chronicler v1 game history API.
// It issues exactly one request per call; retry policy belongs to the caller
package chronicler

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/platform/logger"
)

const (
	baseURLDefault = "https://api.sibr.dev/chronicler/v1"
	defaultTimeout = 15 * time.Second
	defaultUA      = "steakfeed-ingest"
	maxBody        = 16 << 20
)

// numbers stay json.Number so decimal text reaches the store unchanged
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client reads games and game updates from Chronicler
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a Client with defaults for empty options
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("chronicler"),
		now:  time.Now,
	}
}

// getJSON performs one GET and decodes a 200 body into out.
// Failures are classified so the caller can tell transient from fatal
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.opts.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "chronicler new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "chronicler %s failed", path)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("chronicler close body failed")
		}
	}()

	c.log.Debug().
		Str("path", path).
		Str("query", q.Encode()).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("chronicler http response")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{Status: resp.StatusCode, Path: path, Body: string(body)}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "chronicler read %s", path)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "chronicler decode %s", path)
	}
	return nil
}
