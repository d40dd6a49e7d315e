package metadata

import (
	"encoding/json"
	"fmt"
	"slices"
)

// EventType is the type tag of a lifecycle event.
type EventType string

// Folder events.
const (
	EventCreation  EventType = "creation"
	EventAccepting EventType = "accepting"
	EventArchiving EventType = "archiving"
)

// Voting events. Voting documents share EventCreation.
const (
	EventVoteCasting   EventType = "voteCasting"
	EventCancellation  EventType = "cancellation"
	EventForcedClosing EventType = "forcedClosing"
)

var eventNames = map[EventType]string{
	EventCreation:      "Creation",
	EventAccepting:     "Accepting",
	EventArchiving:     "Archiving",
	EventVoteCasting:   "Vote Casting",
	EventCancellation:  "Cancellation",
	EventForcedClosing: "Forced Closing",
}

// DisplayName returns a human-readable name for the event type.
func (t EventType) DisplayName() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return string(t)
}

// EventTypes returns the event types a document variant defines, in
// lifecycle order.
func EventTypes(v Variant) []EventType {
	switch v {
	case VariantFolder:
		return []EventType{EventCreation, EventAccepting, EventArchiving}
	case VariantVoting:
		return []EventType{EventCreation, EventVoteCasting, EventCancellation, EventForcedClosing}
	default:
		return nil
	}
}

// TransactionRecord links an event to a transaction on one blockchain.
type TransactionRecord struct {
	BlockchainID  string
	TransactionID string
}

// Event is a lifecycle event of a document.
type Event struct {
	Type         EventType
	Date         string
	InvokerID    string
	Transactions []TransactionRecord

	// Payload carries the type-specific fields. It is nil for events
	// without extra fields and for event types the document variant does
	// not define.
	Payload Payload
}

// Payload is the type-specific part of an event: Acceptance, Archival or
// Ballot.
type Payload interface {
	payload()
}

// Acceptance is the payload of a folder accepting event.
type Acceptance struct {
	// Vote is the recorded vote, "in-favour" for acceptance.
	Vote string
}

// Archival is the payload of a folder archiving event.
type Archival struct {
	FolderIDs []string
}

// Ballot is the payload of a voting voteCasting event. Tallies keep the
// text they are displayed with.
type Ballot struct {
	Type              string
	InFavourCommon    string
	InFavourPreferred string
	AbstainCommon     string
	AbstainPreferred  string
	AgainstCommon     string
	AgainstPreferred  string
	Amount            string
}

func (Acceptance) payload() {}
func (Archival) payload() {}
func (Ballot) payload() {}

type rawEvent struct {
	Type         string           `json:"type"`
	Date         scalar           `json:"date"`
	InvokerID    scalar           `json:"invokerId"`
	Transactions []rawTransaction `json:"transactions"`
	Vote         json.RawMessage  `json:"vote"`
	FolderIDs    []scalar         `json:"folderIds"`
}

type rawTransaction struct {
	BlockchainID  scalar `json:"blockchainId"`
	TransactionID scalar `json:"transactionId"`
}

type rawBallot struct {
	Type              scalar `json:"type"`
	InFavourCommon    scalar `json:"inFavourCommon"`
	InFavourPreferred scalar `json:"inFavourPreferred"`
	AbstainCommon     scalar `json:"abstainCommon"`
	AbstainPreferred  scalar `json:"abstainPreferred"`
	AgainstCommon     scalar `json:"againstCommon"`
	AgainstPreferred  scalar `json:"againstPreferred"`
	Amount            scalar `json:"amount"`
}

func decodeEvent(v Variant, raw *rawEvent) (Event, error) {
	ev := Event{
		Type:      EventType(raw.Type),
		Date:      string(raw.Date),
		InvokerID: string(raw.InvokerID),
	}
	if raw.Transactions != nil {
		ev.Transactions = make([]TransactionRecord, len(raw.Transactions))
		for i, tx := range raw.Transactions {
			ev.Transactions[i] = TransactionRecord{
				BlockchainID:  string(tx.BlockchainID),
				TransactionID: string(tx.TransactionID),
			}
		}
	}

	switch {
	case v == VariantFolder && ev.Type == EventAccepting:
		var vote scalar
		if err := decodeOptional(raw.Vote, &vote); err != nil {
			return ev, fmt.Errorf("%w: vote: %v", ErrInvalidJSON, err)
		}
		ev.Payload = Acceptance{Vote: string(vote)}
	case v == VariantFolder && ev.Type == EventArchiving:
		ev.Payload = Archival{FolderIDs: texts(raw.FolderIDs)}
	case v == VariantVoting && ev.Type == EventVoteCasting:
		var b rawBallot
		if err := decodeOptional(raw.Vote, &b); err != nil {
			return ev, fmt.Errorf("%w: vote: %v", ErrInvalidJSON, err)
		}
		ev.Payload = Ballot{
			Type:              string(b.Type),
			InFavourCommon:    string(b.InFavourCommon),
			InFavourPreferred: string(b.InFavourPreferred),
			AbstainCommon:     string(b.AbstainCommon),
			AbstainPreferred:  string(b.AbstainPreferred),
			AgainstCommon:     string(b.AgainstCommon),
			AgainstPreferred:  string(b.AgainstPreferred),
			Amount:            string(b.Amount),
		}
	}
	return ev, nil
}

func decodeOptional(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func (e Event) clone() Event {
	e.Transactions = slices.Clone(e.Transactions)
	if a, ok := e.Payload.(Archival); ok {
		e.Payload = Archival{FolderIDs: slices.Clone(a.FolderIDs)}
	}
	return e
}

// EventCounts returns the number of events of each type. Every type the
// document variant defines is present, with zero if no event has it.
func (d *Document) EventCounts() map[EventType]int {
	counts := make(map[EventType]int)
	for _, t := range EventTypes(d.variant) {
		counts[t] = 0
	}
	for _, ev := range d.events {
		counts[ev.Type]++
	}
	return counts
}
