package sisverify

import (
	"context"
	"fmt"
	"os"

	"github.com/meigma/sisverify/container"
	"github.com/meigma/sisverify/metadata"
)

// Load reads a document from data, which is a PDF export with an embedded
// metadata.json, a zstd-compressed export or the raw JSON document.
//
// Any failure yields a nil document. The error says why: the container
// could not be read, the JSON is malformed, the checksum is missing or does
// not match, or the document type or version is not supported.
func (c *Client) Load(ctx context.Context, data []byte) (*Document, error) {
	raw, err := container.Unwrap(ctx, data, c.extractor)
	if err != nil {
		c.log().Warn("failed to extract document", "kind", container.Detect(data).String(), "error", err)
		return nil, err
	}
	doc, err := metadata.Parse(raw)
	if err != nil {
		c.log().Warn("failed to load document", "error", err)
		return nil, err
	}
	c.log().Debug("loaded document",
		"type", string(doc.Variant()),
		"id", doc.ID(),
		"events", len(doc.Events()),
	)
	return doc, nil
}

// LoadFile reads the file at path and loads it with Load.
func (c *Client) LoadFile(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // caller chooses the file to verify
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c.Load(ctx, data)
}
