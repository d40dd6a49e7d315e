package sisverify

import (
	"github.com/meigma/sisverify/anchor"
	"github.com/meigma/sisverify/container"
	"github.com/meigma/sisverify/metadata"
	"github.com/meigma/sisverify/primitive"
	"github.com/meigma/sisverify/verification"
)

// Errors re-exported from metadata.
var (
	// ErrInvalidJSON is returned when the document is not valid JSON.
	ErrInvalidJSON = metadata.ErrInvalidJSON

	// ErrMissingChecksum is returned when the document has no checksum field.
	ErrMissingChecksum = metadata.ErrMissingChecksum

	// ErrChecksumMismatch is returned when the document bytes do not match
	// their embedded checksum.
	ErrChecksumMismatch = metadata.ErrChecksumMismatch

	// ErrInvalidVariant is returned for documents that are neither folders
	// nor votings.
	ErrInvalidVariant = metadata.ErrInvalidVariant

	// ErrUnsupportedVersion is returned for unknown metadata format versions.
	ErrUnsupportedVersion = metadata.ErrUnsupportedVersion

	// ErrMissingList is returned when a document lacks its files or users list.
	ErrMissingList = metadata.ErrMissingList
)

// Errors re-exported from container.
var (
	// ErrMissingAttachment is returned when a PDF carries no metadata.json.
	ErrMissingAttachment = container.ErrMissingAttachment

	// ErrInvalidContainer is returned when a PDF or zstd input is unreadable.
	ErrInvalidContainer = container.ErrInvalidContainer
)

// Errors re-exported from verification and primitive.
var (
	// ErrUnknownFormat is returned when an event type has no verification format.
	ErrUnknownFormat = verification.ErrUnknownFormat

	// ErrPrimitive is returned when hashing or signing fails.
	ErrPrimitive = primitive.ErrPrimitive
)

// Errors re-exported from anchor.
var (
	// ErrUnavailable is returned when an anchored code cannot be fetched.
	ErrUnavailable = anchor.ErrUnavailable

	// ErrNoAnchor is returned when a document has no usable blockchain anchor.
	ErrNoAnchor = anchor.ErrNoAnchor
)
