// Package container extracts the raw metadata document from the file a user
// supplies.
//
// Three inputs are recognized by their leading bytes:
//   - PDF ("%PDF"): the document is the embedded file named metadata.json
//   - zstd frames: decompressed, then detected again
//   - anything else: the bytes are the document itself
package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// AttachmentName is the name of the embedded metadata file.
const AttachmentName = "metadata.json"

// Sentinel errors.
var (
	// ErrMissingAttachment is returned when a container has no metadata.json.
	ErrMissingAttachment = errors.New("container: document does not include metadata file")

	// ErrInvalidContainer is returned when a container cannot be read.
	ErrInvalidContainer = errors.New("container: unreadable container")
)

const maxDecodedSize = 64 << 20

var (
	pdfMagic  = []byte("%PDF")
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Kind identifies the format of an input buffer.
type Kind uint8

const (
	KindJSON Kind = iota
	KindPDF
	KindZstd
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindPDF:
		return "pdf"
	case KindZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Detect classifies data by its first four bytes.
func Detect(data []byte) Kind {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return KindPDF
	case bytes.HasPrefix(data, zstdMagic):
		return KindZstd
	default:
		return KindJSON
	}
}

// Extractor returns the content of a named file embedded in a container.
type Extractor interface {
	Extract(ctx context.Context, data []byte, name string) ([]byte, error)
}

// Unwrap returns the metadata document bytes carried by data.
//
// PDF input is passed to ext, which must find AttachmentName; a PDF without
// it fails with ErrMissingAttachment rather than being parsed as JSON.
// A zstd frame is decompressed once and the result unwrapped again.
func Unwrap(ctx context.Context, data []byte, ext Extractor) ([]byte, error) {
	return unwrap(ctx, data, ext, true)
}

func unwrap(ctx context.Context, data []byte, ext Extractor, allowZstd bool) ([]byte, error) {
	switch Detect(data) {
	case KindPDF:
		if ext == nil {
			return nil, fmt.Errorf("%w: no PDF extractor configured", ErrInvalidContainer)
		}
		return ext.Extract(ctx, data, AttachmentName)
	case KindZstd:
		if !allowZstd {
			return nil, fmt.Errorf("%w: nested zstd frame", ErrInvalidContainer)
		}
		decoded, err := decompress(data)
		if err != nil {
			return nil, err
		}
		return unwrap(ctx, decoded, ext, false)
	default:
		return data, nil
	}
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxDecodedSize),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrInvalidContainer, err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrInvalidContainer, err)
	}
	return out, nil
}
