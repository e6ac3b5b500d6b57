package jasper

import (
	"net/http"
	"time"

	"github.com/mtgto/jasper/api"
	"github.com/mtgto/jasper/envinfo"
	"github.com/mtgto/jasper/logger"
	"github.com/mtgto/jasper/queue"
	"github.com/mtgto/jasper/rate"
)

type config struct {
	// pathPrefix is prepended to every request path.
	// Useful for APIs mounted under a sub-path, e.g. "api/v3".
	// default: ""
	pathPrefix string

	// tls selects https (port 443) over plain http (port 80).
	// default: true
	tls bool

	// port overrides the scheme-derived port when > 0.
	// default: 0 (443 for https, 80 for http)
	port int

	// transport specifies the HTTP transport mechanism
	// for making requests.
	// It's useful for mocking or if callers
	// want to add extra logging, headers, etc.
	// default: http.DefaultTransport
	transport http.RoundTripper

	// timeout sets the maximum duration for HTTP requests
	// before they are cancelled.
	// A quota suspension keeps the response open, so the default
	// is no timeout; callers bound individual calls with a context.
	// default: 0 (no timeout)
	timeout time.Duration

	// logger provides logging functionality for all internal
	// client operations
	// default: logger.Noop
	logger logger.Logger

	// limiter is an optional client-side throttle applied before
	// each request, independent of the server's quota headers
	// default: rate.NoopLimiter
	limiter rate.Limiter

	// queue schedules this client's requests. Several clients may
	// share one queue; each client's work stays scoped to its owner key.
	// default: a dedicated queue.Dispatcher started by New
	queue queue.Queue

	// env identifies the host environment in the User-Agent header
	// default: envinfo.Default()
	env envinfo.Info

	// sleeper is the suspension primitive for quota backoff
	// default: api.NewSleeper()
	sleeper api.Sleeper
}

func defaultConfig() *config {
	return &config{
		tls:       true,
		transport: http.DefaultTransport,
		logger:    &logger.Noop{},
		limiter:   &rate.NoopLimiter{},
		env:       envinfo.Default(),
		sleeper:   api.NewSleeper(),
	}
}

type ConfigOption func(c *config)

func WithPathPrefix(prefix string) ConfigOption {
	return func(c *config) {
		c.pathPrefix = prefix
	}
}

// WithoutTLS switches to plain http on port 80, e.g. for an
// on-premises API behind a private network.
func WithoutTLS() ConfigOption {
	return func(c *config) {
		c.tls = false
	}
}

func WithPort(port int) ConfigOption {
	return func(c *config) {
		c.port = port
	}
}

func WithTransport(transport http.RoundTripper) ConfigOption {
	return func(c *config) {
		c.transport = transport
	}
}

func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *config) {
		c.timeout = timeout
	}
}

func WithLogger(logger logger.Logger) ConfigOption {
	return func(c *config) {
		c.logger = logger
	}
}

func WithRateLimiter(limiter rate.Limiter) ConfigOption {
	return func(c *config) {
		c.limiter = limiter
	}
}

func WithQueue(q queue.Queue) ConfigOption {
	return func(c *config) {
		c.queue = q
	}
}

func WithEnvInfo(env envinfo.Info) ConfigOption {
	return func(c *config) {
		c.env = env
	}
}

func WithSleeper(sleeper api.Sleeper) ConfigOption {
	return func(c *config) {
		c.sleeper = sleeper
	}
}
