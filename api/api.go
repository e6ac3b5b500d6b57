package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/mtgto/jasper/errors"
	"github.com/mtgto/jasper/logger"
	"github.com/mtgto/jasper/rate"
)

// Config carries everything the round-trip core needs. All fields except
// BaseURL and AccessToken have working defaults applied by NewClient.
type Config struct {
	// AccessToken is sent as "Authorization: token <value>".
	AccessToken string

	// BaseURL is "scheme://host:port", no trailing slash.
	BaseURL string

	// PathPrefix is prepended to every relative path before
	// normalization. May be empty.
	PathPrefix string

	// UserAgent is the fully rendered User-Agent value.
	UserAgent string

	HTTPClient *http.Client
	Logger     logger.Logger
	Limiter    rate.Limiter
	Sleeper    Sleeper

	// Now is the clock used for quota-reset math.
	// default: time.Now
	Now func() time.Time
}

// Client performs single authenticated GET round trips against one host,
// honoring the server's quota headers. It holds no mutable state across
// calls; every call gets its own request/response lifecycle.
type Client struct {
	config Config
}

func NewClient(config Config) *Client {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}
	if config.Logger == nil {
		config.Logger = &logger.Noop{}
	}
	if config.Limiter == nil {
		config.Limiter = &rate.NoopLimiter{}
	}
	if config.Sleeper == nil {
		config.Sleeper = NewSleeper()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Client{config: config}
}

// Get issues one GET round trip and frames the response.
//
// The quota headers are inspected as soon as the response headers arrive,
// before the body is consumed: if the window is exhausted the call suspends
// cooperatively until the server's reset instant (or ctx is done), then
// resumes with the body read. There is no retry; every call produces exactly
// one terminal outcome.
func (c *Client) Get(ctx context.Context, relPath string, query Query) (*Response, error) {
	return toNilErr(c.get(ctx, relPath, query))
}

func (c *Client) get(ctx context.Context, relPath string, query Query) (*Response, *errors.RequestError) {
	finalPath := BuildPath(c.config.PathPrefix, relPath)
	c.config.Logger.Infof("api: GET %s%s", finalPath, DecodedQuery(query))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.config.BaseURL+finalPath+EncodeQuery(query),
		nil,
	)
	if err != nil {
		return nil, &errors.RequestError{
			Stage:     errors.STAGE_BEFORE_REQUEST,
			Type:      errors.TYPE_REQUEST_PREP,
			SourceErr: err,
		}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Authorization", "token "+c.config.AccessToken)

	if err := c.config.Limiter.Limit(ctx, req); err != nil {
		return nil, &errors.RequestError{
			Stage:     errors.STAGE_BEFORE_REQUEST,
			Type:      errors.TYPE_CANCELED,
			SourceErr: err,
		}
	}

	res, err := c.config.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &errors.RequestError{
				Stage:     errors.STAGE_REQUEST,
				Type:      errors.TYPE_CANCELED,
				SourceErr: err,
			}
		}
		return nil, &errors.RequestError{
			Stage:     errors.STAGE_REQUEST,
			Type:      errors.TYPE_IO,
			SourceErr: err,
		}
	}
	defer func() { _ = res.Body.Close() }()

	// Quota check runs on the headers alone, before any body bytes
	// are consumed. The connection stays open across the wait.
	if err := c.awaitQuota(ctx, res.Header); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &errors.RequestError{
			Stage:          errors.STAGE_AFTER_REQUEST,
			Type:           errors.TYPE_IO,
			SourceErr:      err,
			HttpStatusCode: res.StatusCode,
		}
	}

	if res.StatusCode != http.StatusOK {
		return nil, &errors.RequestError{
			Stage:          errors.STAGE_AFTER_REQUEST,
			Type:           errors.TYPE_HTTP_STATUS,
			Body:           body,
			HttpStatusCode: res.StatusCode,
		}
	}

	var parsed any
	if jsonErr := json.Unmarshal(body, &parsed); jsonErr != nil {
		return nil, &errors.RequestError{
			Stage:          errors.STAGE_AFTER_REQUEST,
			Type:           errors.TYPE_JSON_PARSE,
			SourceErr:      jsonErr,
			Body:           body,
			HttpStatusCode: res.StatusCode,
		}
	}

	return &Response{
		Body:       parsed,
		StatusCode: res.StatusCode,
		Header:     res.Header,
	}, nil
}

// awaitQuota suspends until the quota window resets when the response says
// the quota is exhausted. Servers that don't enforce quotas, and responses
// with remaining budget, proceed without delay.
func (c *Client) awaitQuota(ctx context.Context, h http.Header) *errors.RequestError {
	status := rate.ParseStatus(h)
	if !status.Enforced {
		return nil
	}
	if !status.Exhausted() {
		c.config.Logger.Infof("api: rate limit remaining: %d", status.Remaining)
		return nil
	}

	wait := status.Wait(c.config.Now())
	if wait <= 0 {
		return nil
	}

	c.config.Logger.Infof("api: rate limit exhausted, waiting %v until reset", wait)
	if err := c.config.Sleeper.Sleep(ctx, wait); err != nil {
		return &errors.RequestError{
			Stage:     errors.STAGE_AFTER_REQUEST,
			Type:      errors.TYPE_CANCELED,
			SourceErr: err,
		}
	}
	return nil
}

// toNilErr converts a *errors.RequestError type to be a true nil interface.
// Internally, a Go interface has a Type and Value.
// An interface value is nil only if the V and T are both unset.
// See: https://go.dev/doc/faq#nil_error
func toNilErr[T any](r T, e *errors.RequestError) (T, error) {
	if e != nil {
		return r, e
	}
	return r, nil
}
