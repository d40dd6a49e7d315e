package sisverify

import (
	"log/slog"
	nethttp "net/http"

	"github.com/meigma/sisverify/anchor"
	"github.com/meigma/sisverify/anchor/cache"
	"github.com/meigma/sisverify/container"
	"github.com/meigma/sisverify/metadata"
	"github.com/meigma/sisverify/verification"
)

// DefaultConcurrency is the number of anchored codes fetched in parallel by
// Verify unless WithConcurrency says otherwise.
const DefaultConcurrency = 4

// Client loads and verifies metadata documents.
//
// A Client is safe for concurrent use once constructed.
type Client struct {
	logger      *slog.Logger
	extractor   container.Extractor
	httpClient  *nethttp.Client
	headers     nethttp.Header
	resolver    anchor.Resolver // replaces per-document node clients when set
	nodeURL     string          // overrides the node URL of the document anchor
	cache       cache.Cache     // anchored codes, keyed by chain id and transaction id
	codeVersion string
	concurrency int
}

// NewClient creates a client with the given options.
//
// Without options, PDF exports are read with pdfcpu, anchored codes are
// fetched from the node named by each document and nothing is cached.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		codeVersion: verification.DefaultVersion,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.extractor == nil {
		c.extractor = container.NewPDFExtractor()
	}
	return c, nil
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Document is a loaded, checksum-verified metadata document.
type Document = metadata.Document

// Event is a lifecycle event of a document.
type Event = metadata.Event

// Transaction is the anchoring transaction of an event.
type Transaction = metadata.Transaction
