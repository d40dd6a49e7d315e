package metadata

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meigma/sisverify/primitive"
)

// ChecksumPlaceholder is the value a document's checksum is replaced with
// before the document text is digested.
const ChecksumPlaceholder = "SHA256CHECKSUM"

// checksumField renders the exact key-value text the checksum is located by.
func checksumField(value string) string {
	return `"checksum": "` + value + `"`
}

// NeutralizeChecksum replaces the first occurrence of the literal text
// `"checksum": "<checksum>"` in text with the placeholder form. The
// substitution is textual; the rest of the document is left byte for byte.
func NeutralizeChecksum(text, checksum string) string {
	return strings.Replace(text, checksumField(checksum), checksumField(ChecksumPlaceholder), 1)
}

// ValidateChecksum checks the embedded checksum of a raw metadata document.
//
// It returns ErrInvalidJSON if data is not a JSON document, ErrMissingChecksum
// if it has no checksum field, and ErrChecksumMismatch if the SHA-256 of the
// neutralized text differs from the checksum.
func ValidateChecksum(data []byte) error {
	text, err := primitive.DecodeText(data)
	if err != nil {
		return err
	}
	var raw struct {
		Checksum json.RawMessage `json:"checksum"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return validateChecksum(text, raw.Checksum)
}

func validateChecksum(text string, field json.RawMessage) error {
	if len(field) == 0 {
		return ErrMissingChecksum
	}
	var actual string
	if err := json.Unmarshal(field, &actual); err != nil {
		return fmt.Errorf("%w: checksum is not a string: %s", ErrChecksumMismatch, field)
	}

	expected := primitive.Digest(primitive.Bytes(NeutralizeChecksum(text, actual)))
	if expected != actual {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, expected, actual)
	}
	return nil
}
