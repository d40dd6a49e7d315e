package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/meigma/sisverify/container"
)

var pdfObjects = []string{
	"<< /Type /Catalog /Pages 2 0 R >>",
	"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
	"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>",
}

// BlankPDF returns a single empty page PDF with no embedded files.
func BlankPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(pdfObjects))
	for i, obj := range pdfObjects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(pdfObjects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(pdfObjects)+1, xref)
	return buf.Bytes()
}

// PDF returns a blank PDF carrying attachments as embedded files, keyed by
// file name.
func PDF(tb testing.TB, attachments map[string][]byte) []byte {
	tb.Helper()

	blank := BlankPDF()
	if len(attachments) == 0 {
		return blank
	}

	dir := tb.TempDir()
	files := make([]string, 0, len(attachments))
	for name, content := range attachments {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, 0o600); err != nil {
			tb.Fatalf("write attachment %s: %v", name, err)
		}
		files = append(files, path)
	}
	slices.Sort(files)

	var out bytes.Buffer
	if err := api.AddAttachments(bytes.NewReader(blank), &out, files, false, container.PDFConfiguration()); err != nil {
		tb.Fatalf("add attachments: %v", err)
	}
	return out.Bytes()
}
