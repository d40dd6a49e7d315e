package metadata

import "errors"

// Sentinel errors for document loading.
var (
	// ErrInvalidJSON is returned when the document is not well-formed JSON or a
	// field has the wrong JSON type.
	ErrInvalidJSON = errors.New("metadata: invalid JSON")

	// ErrMissingChecksum is returned when the document has no checksum field.
	ErrMissingChecksum = errors.New("metadata: missing checksum")

	// ErrChecksumMismatch is returned when the checksum does not match the
	// document text.
	ErrChecksumMismatch = errors.New("metadata: checksum mismatch")

	// ErrInvalidVariant is returned when the document type is neither folder
	// nor voting.
	ErrInvalidVariant = errors.New("metadata: invalid metadata type")

	// ErrUnsupportedVersion is returned for any format version other than
	// FormatVersion.
	ErrUnsupportedVersion = errors.New("metadata: unsupported metadata format version")

	// ErrMissingList is returned when the files or users list is absent or
	// null.
	ErrMissingList = errors.New("metadata: missing required list")
)
