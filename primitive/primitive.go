// Package primitive provides the hashing and encoding helpers that document
// checksums and event verification codes are built from.
//
// All functions are pure. Digests are SHA-256 rendered as lower-case hex;
// signatures are HMAC-SHA256.
package primitive

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opencontainers/go-digest"
	"golang.org/x/text/encoding/unicode"
)

// ErrPrimitive is returned when a hashing, signing or decoding step fails.
var ErrPrimitive = errors.New("primitive: operation failed")

var urlSafe = strings.NewReplacer("+", "-", "/", "_")

// Bytes returns the UTF-8 encoding of text without a byte order mark.
// Invalid sequences are replaced with U+FFFD.
func Bytes(text string) []byte {
	return []byte(strings.ToValidUTF8(text, "\uFFFD"))
}

// DecodeText decodes UTF-8 bytes into text. A leading byte order mark is
// dropped and invalid sequences are replaced with U+FFFD.
func DecodeText(data []byte) (string, error) {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: decode text: %v", ErrPrimitive, err)
	}
	return string(out), nil
}

// Digest returns the lower-case hex SHA-256 of data.
func Digest(data []byte) string {
	return digest.SHA256.FromBytes(data).Encoded()
}

// DigestReader returns the lower-case hex SHA-256 of everything read from r.
func DigestReader(r io.Reader) (string, error) {
	d, err := digest.SHA256.FromReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: digest: %v", ErrPrimitive, err)
	}
	return d.Encoded(), nil
}

// Sign returns the HMAC-SHA256 of message under key.
// An empty key is rejected.
func Sign(key, message []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: sign: empty key", ErrPrimitive)
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil), nil
}

// Base64URL encodes data as standard base64 with '+' and '/' replaced by
// '-' and '_'. Trailing '=' padding is kept.
func Base64URL(data []byte) string {
	return urlSafe.Replace(base64.StdEncoding.EncodeToString(data))
}

// SignAndEncode signs message with key and returns the Base64URL form of
// the signature.
func SignAndEncode(key, message []byte) (string, error) {
	sig, err := Sign(key, message)
	if err != nil {
		return "", err
	}
	return Base64URL(sig), nil
}
