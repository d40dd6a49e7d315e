package sisverify

import (
	"errors"
	"log/slog"
	nethttp "net/http"

	"github.com/meigma/sisverify/anchor"
	"github.com/meigma/sisverify/anchor/cache"
	"github.com/meigma/sisverify/anchor/cache/disk"
	"github.com/meigma/sisverify/container"
)

// Option configures a Client.
type Option func(*Client) error

// DefaultCacheSize is the size limit of the anchored code cache created by
// WithCacheDir.
const DefaultCacheSize int64 = 10 << 20 // 10 MB

// WithLogger sets a logger for the client.
// Load failures are logged at Warn, lookup failures at Warn and per-event
// results at Debug.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithExtractor sets the extractor used for PDF exports.
func WithExtractor(ext container.Extractor) Option {
	return func(c *Client) error {
		if ext == nil {
			return errors.New("extractor is nil")
		}
		c.extractor = ext
		return nil
	}
}

// WithHTTPClient sets the HTTP client used to query blockchain nodes.
func WithHTTPClient(client *nethttp.Client) Option {
	return func(c *Client) error {
		c.httpClient = client
		return nil
	}
}

// WithHeader sets a header sent with every node request.
func WithHeader(key, value string) Option {
	return func(c *Client) error {
		if c.headers == nil {
			c.headers = make(nethttp.Header)
		}
		c.headers.Set(key, value)
		return nil
	}
}

// WithNodeURL queries the node at url instead of the one named by the
// document's anchor.
func WithNodeURL(url string) Option {
	return func(c *Client) error {
		c.nodeURL = url
		return nil
	}
}

// WithResolver uses r for every anchored code lookup. Node settings are
// ignored when a resolver is set.
func WithResolver(r anchor.Resolver) Option {
	return func(c *Client) error {
		c.resolver = r
		return nil
	}
}

// WithCache caches anchored codes in ch.
func WithCache(ch cache.Cache) Option {
	return func(c *Client) error {
		c.cache = ch
		return nil
	}
}

// WithCacheDir caches anchored codes on disk in dir with the default size
// limit ([DefaultCacheSize]).
func WithCacheDir(dir string) Option {
	return WithCacheDirSize(dir, DefaultCacheSize)
}

// WithCacheDirSize caches anchored codes on disk in dir, keeping at most
// maxBytes. Use 0 for no limit.
func WithCacheDirSize(dir string, maxBytes int64) Option {
	return func(c *Client) error {
		ch, err := disk.New(dir, disk.WithMaxBytes(maxBytes))
		if err != nil {
			return err
		}
		c.cache = ch
		return nil
	}
}

// WithCodeVersion sets the version suffix of computed verification codes.
func WithCodeVersion(version string) Option {
	return func(c *Client) error {
		if version == "" {
			return errors.New("code version must not be empty")
		}
		c.codeVersion = version
		return nil
	}
}

// WithConcurrency sets how many anchored codes Verify fetches in parallel.
// Zero keeps the default; negative values are rejected.
func WithConcurrency(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return errors.New("concurrency must be non-negative")
		}
		if n > 0 {
			c.concurrency = n
		}
		return nil
	}
}
