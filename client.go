package jasper

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mtgto/jasper/api"
	"github.com/mtgto/jasper/errors"
	"github.com/mtgto/jasper/queue"
)

// Client is a rate-limit-aware client for one REST API host. Every request
// is dispatched through a queue.Queue under this client's unique owner key,
// so Cancel abandons exactly this client's pending and in-flight work.
//
// Request and RequestImmediate share one internal round-trip routine; the
// only difference between them is queue ordering.
type Client struct {
	api      *api.Client
	queue    queue.Queue
	ownQueue *queue.Dispatcher
	ownerKey string
}

// New constructs a Client. accessToken and host are required; an empty
// value for either is a configuration error and no network call is ever
// issued for such a client.
func New(accessToken, host string, opts ...ConfigOption) (*Client, error) {
	if accessToken == "" || host == "" {
		return nil, &errors.RequestError{
			Stage:     errors.STAGE_CONFIG,
			Type:      errors.TYPE_CONFIG,
			SourceErr: fmt.Errorf("access token and host are required"),
		}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	scheme, port := "https", 443
	if !cfg.tls {
		scheme, port = "http", 80
	}
	if cfg.port > 0 {
		port = cfg.port
	}

	httpClient := &http.Client{}
	httpClient.Transport = cfg.transport
	httpClient.Timeout = cfg.timeout

	c := &Client{
		api: api.NewClient(api.Config{
			AccessToken: accessToken,
			BaseURL:     fmt.Sprintf("%s://%s:%d", scheme, host, port),
			PathPrefix:  cfg.pathPrefix,
			UserAgent:   cfg.env.UserAgent(),
			HTTPClient:  httpClient,
			Logger:      cfg.logger,
			Limiter:     cfg.limiter,
			Sleeper:     cfg.sleeper,
		}),
		queue:    cfg.queue,
		ownerKey: uuid.NewString(),
	}

	if c.queue == nil {
		c.ownQueue = queue.NewDispatcher(queue.DispatcherConfig{
			Logger: cfg.logger,
		})
		c.ownQueue.Start()
		c.queue = c.ownQueue
	}

	return c, nil
}

// Request submits a GET through the queue's normal ordering and blocks
// until the call settles.
func (c *Client) Request(ctx context.Context, path string, query api.Query) (*api.Response, error) {
	return c.queue.Push(ctx, c.ownerKey, c.task(path, query))
}

// RequestImmediate bypasses the queue's ordering and dispatches the GET as
// soon as possible.
func (c *Client) RequestImmediate(ctx context.Context, path string, query api.Query) (*api.Response, error) {
	return c.queue.PushImmediate(ctx, c.ownerKey, c.task(path, query))
}

// Cancel abandons all of this client's pending and in-flight work,
// including calls suspended in a rate-limit wait. Other clients sharing the
// same queue are unaffected; calls that already settled keep their result.
func (c *Client) Cancel() {
	c.queue.Cancel(c.ownerKey)
}

// OwnerKey is the identity string scoping this client's queued work.
func (c *Client) OwnerKey() string {
	return c.ownerKey
}

// Close cancels outstanding work and, when the client owns its queue,
// stops it. A client constructed with WithQueue leaves the shared queue
// running.
func (c *Client) Close() {
	c.Cancel()
	if c.ownQueue != nil {
		c.ownQueue.Stop()
	}
}

// task adapts one GET call into the queue's executor shape. Both entry
// points funnel through here, so path building, headers, quota handling,
// and framing are identical regardless of dispatch priority.
func (c *Client) task(path string, query api.Query) queue.Task {
	return func(ctx context.Context) (*api.Response, error) {
		return c.api.Get(ctx, path, query)
	}
}
