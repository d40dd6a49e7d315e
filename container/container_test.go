package container_test

import (
	"context"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/sisverify/container"
)

type stubExtractor struct {
	files map[string][]byte
	calls int
}

func (s *stubExtractor) Extract(_ context.Context, _ []byte, name string) ([]byte, error) {
	s.calls++
	content, ok := s.files[name]
	if !ok {
		return nil, container.ErrMissingAttachment
	}
	return content, nil
}

func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want container.Kind
	}{
		{"pdf", []byte("%PDF-1.7\n..."), container.KindPDF},
		{"zstd", []byte{0x28, 0xb5, 0x2f, 0xfd, 0x00}, container.KindZstd},
		{"json", []byte(`{"type":"folder"}`), container.KindJSON},
		{"short", []byte("%P"), container.KindJSON},
		{"empty", nil, container.KindJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, container.Detect(tt.data))
		})
	}
}

func TestUnwrap_JSONPassthrough(t *testing.T) {
	t.Parallel()

	data := []byte(`{"checksum":"x"}`)
	ext := &stubExtractor{}
	got, err := container.Unwrap(context.Background(), data, ext)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Zero(t, ext.calls)
}

func TestUnwrap_PDF(t *testing.T) {
	t.Parallel()

	want := []byte(`{"type":"voting"}`)
	ext := &stubExtractor{files: map[string][]byte{container.AttachmentName: want}}
	got, err := container.Unwrap(context.Background(), []byte("%PDF-1.4 body"), ext)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, ext.calls)
}

func TestUnwrap_PDFMissingAttachment(t *testing.T) {
	t.Parallel()

	ext := &stubExtractor{files: map[string][]byte{"other.json": []byte("{}")}}
	_, err := container.Unwrap(context.Background(), []byte("%PDF-1.4 body"), ext)
	assert.ErrorIs(t, err, container.ErrMissingAttachment)
}

func TestUnwrap_PDFWithoutExtractor(t *testing.T) {
	t.Parallel()

	_, err := container.Unwrap(context.Background(), []byte("%PDF-1.4 body"), nil)
	assert.ErrorIs(t, err, container.ErrInvalidContainer)
}

func TestUnwrap_Zstd(t *testing.T) {
	t.Parallel()

	want := []byte(`{"type":"folder","checksum":"abc"}`)
	got, err := container.Unwrap(context.Background(), compress(t, want), nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnwrap_ZstdWrappedPDF(t *testing.T) {
	t.Parallel()

	want := []byte(`{"type":"voting"}`)
	ext := &stubExtractor{files: map[string][]byte{container.AttachmentName: want}}
	got, err := container.Unwrap(context.Background(), compress(t, []byte("%PDF-1.7 body")), ext)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnwrap_NestedZstdRejected(t *testing.T) {
	t.Parallel()

	inner := compress(t, []byte(`{}`))
	_, err := container.Unwrap(context.Background(), compress(t, inner), nil)
	assert.ErrorIs(t, err, container.ErrInvalidContainer)
}

func TestUnwrap_CorruptZstd(t *testing.T) {
	t.Parallel()

	data := []byte{0x28, 0xb5, 0x2f, 0xfd, 0xff, 0xff, 0xff}
	_, err := container.Unwrap(context.Background(), data, nil)
	assert.ErrorIs(t, err, container.ErrInvalidContainer)
}
