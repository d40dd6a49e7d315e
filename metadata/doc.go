// Package metadata parses and authenticates folder and voting metadata
// documents.
//
// A document is accepted only if its embedded checksum matches the SHA-256 of
// its own text with the checksum value replaced by a fixed placeholder (see
// [ValidateChecksum]). Accepted documents are immutable: every accessor
// returns copies, and lookups built at construction never change.
//
// For each lifecycle event a document derives the [EventData] that feeds the
// verification code algorithm in the verification package, and the
// [Transaction] anchoring that event on the document's blockchain.
package metadata
