package installer

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/flykit-labs/flykit/internal/logging"
)

// Progress is one message from a running download. The last message has
// Done set and carries either Path or Err.
type Progress struct {
	Downloaded int64
	Total      int64 // -1 when the server sent no length
	Percent    int   // -1 when Total is unknown
	Done       bool
	Path       string
	Err        error
}

// Downloader fetches files over HTTP with retries.
type Downloader struct {
	httpClient *http.Client
	logger     *zap.Logger
	retryMax   int
	retryWait  time.Duration
	checksum   string
	userAgent  string
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient sets the underlying HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(d *Downloader) {
		d.httpClient = c
	}
}

// WithLogger sets the logger used for request and retry logs.
func WithLogger(l *zap.Logger) Option {
	return func(d *Downloader) {
		d.logger = logging.OrNop(l)
	}
}

// WithRetryMax sets how many times a failed request is retried.
func WithRetryMax(n int) Option {
	return func(d *Downloader) {
		d.retryMax = n
	}
}

// WithRetryWait sets the minimum wait between retries.
func WithRetryWait(wait time.Duration) Option {
	return func(d *Downloader) {
		d.retryWait = wait
	}
}

// WithChecksum requires the download to match a hex SHA-256 digest.
func WithChecksum(sha256Hex string) Option {
	return func(d *Downloader) {
		d.checksum = sha256Hex
	}
}

// New creates a Downloader.
func New(opts ...Option) *Downloader {
	d := &Downloader{
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
		retryMax:   3,
		retryWait:  time.Second,
		userAgent:  userAgent(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Downloader) client() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.HTTPClient = d.httpClient
	c.RetryMax = d.retryMax
	c.RetryWaitMin = d.retryWait
	if c.RetryWaitMax < d.retryWait {
		c.RetryWaitMax = d.retryWait
	}
	c.Logger = leveledLogger{d.logger.Sugar()}
	return c
}

// leveledLogger routes retryablehttp logs into zap.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
