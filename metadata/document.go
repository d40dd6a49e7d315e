package metadata

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/meigma/sisverify/primitive"
)

// FormatVersion is the only metadata format version accepted.
const FormatVersion = "1"

// ChainWaves is the only blockchain type a document can be anchored to.
const ChainWaves = "waves"

// Variant identifies the workflow a document describes.
type Variant string

const (
	VariantFolder Variant = "folder"
	VariantVoting Variant = "voting"
)

func (v Variant) valid() bool {
	return v == VariantFolder || v == VariantVoting
}

// File is a document attachment identified by its content hash.
type File struct {
	// Hash is the lower-case hex SHA-256 of the file content.
	Hash string
	Name string
}

// User maps an opaque user id to an email address.
type User struct {
	ID    string
	Email string
}

// Anchor describes the blockchain a document's events are anchored on.
type Anchor struct {
	Type string
	ID   string

	// NodeURL is the base URL of a node serving transaction lookups.
	NodeURL string

	// ExplorerURLPattern is an optional transaction explorer URL containing
	// a ${transactionId} placeholder.
	ExplorerURLPattern string
}

// Document is a parsed and checksum-verified metadata document.
// A Document is immutable and safe for concurrent use.
type Document struct {
	variant        Variant
	version        string
	checksum       string
	hashKey        string
	name           string
	id             string
	deadline       string
	proceedingsID  string
	administrators []string
	eligibleVoters []string
	files          []File
	users          []User
	events         []Event
	anchor         *Anchor

	filesByHash map[string]string
	usersByID   map[string]string
}

type rawDocument struct {
	Type           json.RawMessage `json:"type"`
	Version        json.RawMessage `json:"version"`
	Checksum       json.RawMessage `json:"checksum"`
	HashKey        scalar          `json:"hashKey"`
	Name           scalar          `json:"name"`
	ID             scalar          `json:"id"`
	Deadline       scalar          `json:"deadline"`
	ProceedingsID  scalar          `json:"proceedingsId"`
	Administrators []scalar        `json:"administrators"`
	EligibleVoters []scalar        `json:"eligibleVoters"`
	Files          []rawFile       `json:"files"`
	Users          []rawUser       `json:"users"`
	Blockchains    []rawBlockchain `json:"blockchains"`
	Events         []rawEvent      `json:"events"`
}

type rawFile struct {
	Hash scalar `json:"hash"`
	Name scalar `json:"name"`
}

type rawUser struct {
	ID   scalar `json:"id"`
	Name scalar `json:"name"`
}

type rawBlockchain struct {
	Type    scalar `json:"type"`
	ID      scalar `json:"id"`
	Details struct {
		NodeURL            scalar `json:"nodeUrl"`
		ExplorerURLPattern scalar `json:"explorerUrlPattern"`
	} `json:"details"`
}

// Parse authenticates and parses a metadata document from its raw JSON bytes.
//
// The bytes are decoded as UTF-8 text, parsed, checked against the embedded
// checksum and finally validated for type and format version. No Document is
// returned unless every step succeeds.
func Parse(data []byte) (*Document, error) {
	text, err := primitive.DecodeText(data)
	if err != nil {
		return nil, err
	}

	var raw rawDocument
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := validateChecksum(text, raw.Checksum); err != nil {
		return nil, err
	}
	return newDocument(&raw)
}

func newDocument(raw *rawDocument) (*Document, error) {
	var typ, version string
	if json.Unmarshal(raw.Type, &typ) != nil || !Variant(typ).valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidVariant, orNull(raw.Type))
	}
	if json.Unmarshal(raw.Version, &version) != nil || version != FormatVersion {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, orNull(raw.Version))
	}
	if raw.Files == nil {
		return nil, fmt.Errorf("%w: files", ErrMissingList)
	}
	if raw.Users == nil {
		return nil, fmt.Errorf("%w: users", ErrMissingList)
	}

	var checksum string
	_ = json.Unmarshal(raw.Checksum, &checksum) //nolint:errcheck // validated by validateChecksum

	d := &Document{
		variant:        Variant(typ),
		version:        version,
		checksum:       checksum,
		hashKey:        string(raw.HashKey),
		name:           string(raw.Name),
		id:             string(raw.ID),
		deadline:       string(raw.Deadline),
		proceedingsID:  string(raw.ProceedingsID),
		administrators: texts(raw.Administrators),
		eligibleVoters: texts(raw.EligibleVoters),
		filesByHash:    make(map[string]string, len(raw.Files)),
		usersByID:      make(map[string]string, len(raw.Users)),
	}

	for _, bc := range raw.Blockchains {
		if string(bc.Type) != ChainWaves {
			continue
		}
		d.anchor = &Anchor{
			Type:               string(bc.Type),
			ID:                 string(bc.ID),
			NodeURL:            string(bc.Details.NodeURL),
			ExplorerURLPattern: string(bc.Details.ExplorerURLPattern),
		}
		break
	}

	d.files = make([]File, len(raw.Files))
	for i, f := range raw.Files {
		d.files[i] = File{Hash: string(f.Hash), Name: string(f.Name)}
		d.filesByHash[d.files[i].Hash] = d.files[i].Name
	}
	d.users = make([]User, len(raw.Users))
	for i, u := range raw.Users {
		d.users[i] = User{ID: string(u.ID), Email: string(u.Name)}
		d.usersByID[d.users[i].ID] = d.users[i].Email
	}

	d.events = make([]Event, len(raw.Events))
	for i := range raw.Events {
		ev, err := decodeEvent(d.variant, &raw.Events[i])
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		d.events[i] = ev
	}

	return d, nil
}

func orNull(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}

// Variant returns the document's workflow type.
func (d *Document) Variant() Variant { return d.variant }

// Version returns the metadata format version.
func (d *Document) Version() string { return d.version }

// Checksum returns the verified checksum.
func (d *Document) Checksum() string { return d.checksum }

// HashKey returns the shared secret that keys grouped verification components.
func (d *Document) HashKey() string { return d.hashKey }

// Name returns the folder or voting name.
func (d *Document) Name() string { return d.name }

// ID returns the folder or voting id.
func (d *Document) ID() string { return d.id }

// Deadline returns the folder deadline. It is empty for voting documents.
func (d *Document) Deadline() string { return d.deadline }

// ProceedingsID returns the proceedings id of a voting document.
func (d *Document) ProceedingsID() string { return d.proceedingsID }

// Administrators returns the administrator user ids of a folder document.
func (d *Document) Administrators() []string { return slices.Clone(d.administrators) }

// EligibleVoters returns the eligible voter user ids.
func (d *Document) EligibleVoters() []string { return slices.Clone(d.eligibleVoters) }

// Files returns the document files in order.
func (d *Document) Files() []File { return slices.Clone(d.files) }

// Users returns the known users in order.
func (d *Document) Users() []User { return slices.Clone(d.users) }

// Events returns the lifecycle events in order.
func (d *Document) Events() []Event {
	out := make([]Event, len(d.events))
	for i, ev := range d.events {
		out[i] = ev.clone()
	}
	return out
}

// Anchor returns the selected blockchain anchor: the first "waves" entry of
// the document's blockchains. It returns false when there is none.
func (d *Document) Anchor() (Anchor, bool) {
	if d.anchor == nil {
		return Anchor{}, false
	}
	return *d.anchor, true
}

// Filename returns the name of the file with the given content hash.
func (d *Document) Filename(hash string) (string, bool) {
	name, ok := d.filesByHash[hash]
	return name, ok
}

// UserEmail returns the email of the user with the given id.
func (d *Document) UserEmail(id string) (string, bool) {
	email, ok := d.usersByID[id]
	return email, ok
}

func (d *Document) fileHashes() []string {
	out := make([]string, len(d.files))
	for i, f := range d.files {
		out[i] = f.Hash
	}
	return out
}
