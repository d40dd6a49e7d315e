package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFExtractor reads embedded files from PDF documents.
type PDFExtractor struct{}

var disableConfigDir sync.Once

// NewPDFExtractor returns an extractor that tolerates minor PDF
// conformance issues. It never reads or writes a pdfcpu config directory.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// PDFConfiguration returns a fresh relaxed pdfcpu configuration. pdfcpu
// mutates the configuration it is handed, so every operation needs its own.
func PDFConfiguration() *model.Configuration {
	disableConfigDir.Do(func() { model.ConfigPath = "disable" })
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Extract returns the content of the embedded file called name.
//
// Data that pdfcpu cannot read as a PDF fails with ErrInvalidContainer. A
// readable PDF without an embedded file called name fails with
// ErrMissingAttachment.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conf := PDFConfiguration()
	conf.Cmd = model.EXTRACTATTACHMENTS
	pdf, err := api.ReadAndValidate(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: pdf: %v", ErrInvalidContainer, err)
	}

	listed, err := pdf.ListAttachments()
	if err != nil {
		return nil, fmt.Errorf("%w: pdf: %v", ErrInvalidContainer, err)
	}
	if !slices.ContainsFunc(listed, func(a model.Attachment) bool { return a.FileName == name }) {
		return nil, ErrMissingAttachment
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	attachments, err := pdf.ExtractAttachments(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: pdf: %v", ErrInvalidContainer, err)
	}
	for _, a := range attachments {
		if a.FileName != name {
			continue
		}
		content, err := io.ReadAll(a)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidContainer, name, err)
		}
		return content, nil
	}
	return nil, ErrMissingAttachment
}
