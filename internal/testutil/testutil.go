// Package testutil builds sealed metadata documents and fake collaborators
// for tests.
package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// Key is the hashKey of the fixture documents.
const Key = "secret-key"

// NodeChainID is the id of the waves anchor of the fixture documents.
const NodeChainID = "W"

const placeholderField = `"checksum": "SHA256CHECKSUM"`

// Seal replaces the checksum placeholder field in text with the SHA-256 of
// text, producing a document whose checksum verifies.
func Seal(text string) string {
	sum := sha256.Sum256([]byte(text))
	return strings.Replace(text, placeholderField, `"checksum": "`+hex.EncodeToString(sum[:])+`"`, 1)
}

// MarshalSealed renders doc as indented JSON with a placeholder checksum and
// seals it.
func MarshalSealed(tb testing.TB, doc map[string]any) []byte {
	tb.Helper()

	doc = maps.Clone(doc)
	doc["checksum"] = "SHA256CHECKSUM"
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		tb.Fatalf("MarshalIndent() error = %v", err)
	}
	return []byte(Seal(string(out)))
}

func waves(nodeURL string) []any {
	return []any{
		map[string]any{"type": "ethereum", "id": "E", "details": map[string]any{"nodeUrl": "http://eth.invalid"}},
		map[string]any{"type": "waves", "id": NodeChainID, "details": map[string]any{
			"nodeUrl":            nodeURL,
			"explorerUrlPattern": "https://explorer.invalid/tx/${transactionId}",
		}},
	}
}

func tx(id string) []any {
	return []any{
		map[string]any{"blockchainId": "E", "transactionId": "0x" + id},
		map[string]any{"blockchainId": NodeChainID, "transactionId": id},
	}
}

func users() []any {
	return []any{
		map[string]any{"id": "u1", "name": "u1@example.com"},
		map[string]any{"id": "u2", "name": "u2@example.com"},
		map[string]any{"id": "u3", "name": "u3@example.com"},
	}
}

// FolderDocument returns a folder document with creation, accepting and
// archiving events anchored on nodeURL.
func FolderDocument(nodeURL string) map[string]any {
	return map[string]any{
		"type":           "folder",
		"version":        "1",
		"hashKey":        Key,
		"name":           "Q1",
		"id":             "F1",
		"deadline":       "2024-01-01",
		"administrators": []any{"u2"},
		"eligibleVoters": []any{"u1"},
		"files":          []any{
			map[string]any{"hash": "h2", "name": "b.pdf"},
			map[string]any{"hash": "h1", "name": "a.pdf"},
		},
		"users":       users(),
		"blockchains": waves(nodeURL),
		"events":      []any{
			map[string]any{"type": "creation", "date": "2024-01-01T10:00:00Z", "invokerId": "u3", "transactions": tx("tx-create")},
			map[string]any{"type": "accepting", "date": "2024-01-02T10:00:00Z", "invokerId": "u1", "vote": "in-favour", "transactions": tx("tx-accept")},
			map[string]any{"type": "archiving", "date": "2024-01-03T10:00:00Z", "invokerId": "u2", "folderIds": []any{"F2", "F1", "F2"}, "transactions": tx("tx-archive")},
		},
	}
}

// VotingDocument returns a voting document with creation, voteCasting,
// cancellation and one unknown event anchored on nodeURL.
func VotingDocument(nodeURL string) map[string]any {
	return map[string]any{
		"type":           "voting",
		"version":        "1",
		"hashKey":        Key,
		"name":           "Budget",
		"id":             "V1",
		"proceedingsId":  "P-7",
		"eligibleVoters": []any{"u2", "u1"},
		"files":          []any{
			map[string]any{"hash": "h1", "name": "agenda.pdf"},
		},
		"users":       users(),
		"blockchains": waves(nodeURL),
		"events":      []any{
			map[string]any{"type": "creation", "date": "2024-02-01T10:00:00Z", "invokerId": "u9", "transactions": tx("tx-create")},
			map[string]any{"type": "voteCasting", "date": "2024-02-02T10:00:00Z", "invokerId": "u9", "transactions": tx("tx-vote"), "vote": map[string]any{
				"type":              "in_favour",
				"inFavourCommon":    3,
				"inFavourPreferred": 2,
				"abstainCommon":     0,
				"abstainPreferred":  0,
				"againstCommon":     1,
				"againstPreferred":  0,
				"amount":            6,
			}},
			map[string]any{"type": "cancellation", "date": "2024-02-03T10:00:00Z", "invokerId": "u9", "transactions": tx("tx-cancel")},
			map[string]any{"type": "unknownType", "date": "2024-02-04T10:00:00Z", "invokerId": "u9", "transactions": tx("tx-unknown")},
		},
	}
}

// ErrNotAnchored is returned by MockResolver for unknown transactions.
var ErrNotAnchored = errors.New("testutil: transaction not anchored")

// MockResolver serves verification codes from a map and counts lookups.
// It is safe for concurrent use.
type MockResolver struct {
	mu    sync.RWMutex
	codes map[string]string
	calls atomic.Int64
}

// NewMockResolver returns a resolver serving codes keyed by transaction id.
func NewMockResolver(codes map[string]string) *MockResolver {
	return &MockResolver{codes: maps.Clone(codes)}
}

// VerificationCode returns the code anchored by transactionID.
func (m *MockResolver) VerificationCode(ctx context.Context, transactionID string) (string, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.codes[transactionID]
	if !ok {
		return "", ErrNotAnchored
	}
	return code, nil
}

// Calls returns the number of lookups served.
func (m *MockResolver) Calls() int64 {
	return m.calls.Load()
}

// FolderCodes are the verification codes of FolderDocument's events, keyed
// by transaction id.
var FolderCodes = map[string]string{
	"tx-create":  "creation|u3|8jM-NA8VuMAWT9RT7_PdGJkyNxd4JuQo2LT3BC5UHwM=@0",
	"tx-accept":  "accepting|u1|F1|1@0",
	"tx-archive": "archiving|u2|F1,F2@0",
}

// VotingCodes are the verification codes of VotingDocument's verifiable
// events, keyed by transaction id.
var VotingCodes = map[string]string{
	"tx-create": "creation|u9|4MH0b-4xIC1C4x9zZCgIREoBPmmE-T8oNfFGb-bh4ns=@0",
	"tx-vote":   "voteCasting|u9|d8F48lIK3trm2Io71AY-HXNq0xu4V9Jy9qPXgG8rTAU=@0",
	"tx-cancel": "cancellation|u9|V1@0",
}
