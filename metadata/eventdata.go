package metadata

import (
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/meigma/sisverify/verification"
)

// voteInFavour is the recorded vote of an accepting event in favour of the
// folder.
const voteInFavour = "in-favour"

// Field is one named value of an event's verification payload.
type Field struct {
	Name string

	// Items holds the entries of a list field in document order. It is nil
	// for scalar fields.
	Items []string

	// Raw is the recorded value of a scalar field.
	Raw string

	// Value is the text the field contributes to a verification code.
	Value string
}

// IsList reports whether the field holds a list.
func (f Field) IsList() bool {
	return f.Items != nil
}

// EventData is the set of fields that re-derives an event's verification
// code. Fields are fixed per document variant and event type.
type EventData struct {
	Variant Variant
	Type    EventType
	Fields  []Field

	// Key is the document's shared secret used to sign grouped components.
	// It is not part of any signed message.
	Key string

	// Invoker is the id of the user who triggered the event.
	Invoker string
}

// Field returns the named field.
func (e *EventData) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Values returns the code text of every field, keyed by field name, plus
// operation, invoker and key.
func (e *EventData) Values() map[string]string {
	values := make(map[string]string, len(e.Fields)+3)
	for _, f := range e.Fields {
		values[f.Name] = f.Value
	}
	values[verification.FieldOperation] = string(e.Type)
	values[verification.FieldInvoker] = e.Invoker
	values[verification.FieldKey] = e.Key
	return values
}

// Format returns the verification format for the event.
func (e *EventData) Format() (verification.Format, bool) {
	return verification.FormatFor(string(e.Variant), string(e.Type))
}

// Code computes the event's verification code with the given code version.
func (e *EventData) Code(version string) (string, error) {
	format, ok := e.Format()
	if !ok {
		return "", verification.ErrUnknownFormat
	}
	return verification.Calculate(e.Key, format, version, e.Values())
}

// EventData derives the verification payload of ev. It returns false for
// event types the document variant does not define.
func (d *Document) EventData(ev Event) (*EventData, bool) {
	var fields []Field

	switch d.variant {
	case VariantFolder:
		switch ev.Type {
		case EventCreation:
			fields = []Field{
				textField(verification.FieldName, d.name),
				textField(verification.FieldDeadline, d.deadline),
				setField(verification.FieldAdministrators, d.administrators),
				setField(verification.FieldVoters, d.eligibleVoters),
				listField(verification.FieldFiles, d.fileHashes()),
			}
		case EventAccepting:
			var vote string
			if a, ok := ev.Payload.(Acceptance); ok {
				vote = a.Vote
			}
			acceptance := "0"
			if vote == voteInFavour {
				acceptance = "1"
			}
			fields = []Field{
				textField(verification.FieldID, d.id),
				{Name: verification.FieldVote, Raw: vote, Value: acceptance},
			}
		case EventArchiving:
			var folders []string
			if a, ok := ev.Payload.(Archival); ok {
				folders = a.FolderIDs
			}
			fields = []Field{setField(verification.FieldFolders, folders)}
		default:
			return nil, false
		}
	case VariantVoting:
		switch ev.Type {
		case EventCreation:
			fields = []Field{
				textField(verification.FieldProceedings, d.proceedingsID),
				textField(verification.FieldName, d.name),
				listField(verification.FieldFiles, d.fileHashes()),
				setField(verification.FieldVoters, d.eligibleVoters),
			}
		case EventVoteCasting:
			var b Ballot
			if p, ok := ev.Payload.(Ballot); ok {
				b = p
			}
			fields = []Field{
				textField(verification.FieldID, d.id),
				{Name: verification.FieldVote, Raw: b.Type, Value: strings.ToUpper(b.Type)},
				textField(verification.FieldInFavourCommon, b.InFavourCommon),
				textField(verification.FieldInFavourPreferred, b.InFavourPreferred),
				textField(verification.FieldAbstainCommon, b.AbstainCommon),
				textField(verification.FieldAbstainPreferred, b.AbstainPreferred),
				textField(verification.FieldAgainstCommon, b.AgainstCommon),
				textField(verification.FieldAgainstPreferred, b.AgainstPreferred),
				textField(verification.FieldAmount, b.Amount),
			}
		case EventCancellation, EventForcedClosing:
			fields = []Field{textField(verification.FieldID, d.id)}
		default:
			return nil, false
		}
	default:
		return nil, false
	}

	return &EventData{
		Variant: d.variant,
		Type:    ev.Type,
		Fields:  fields,
		Key:     d.hashKey,
		Invoker: ev.InvokerID,
	}, true
}

func textField(name, value string) Field {
	return Field{Name: name, Raw: value, Value: value}
}

// setField renders a list of ids: duplicates dropped, sorted, comma-joined.
func setField(name string, items []string) Field {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, compareUTF16)
	return Field{
		Name:  name,
		Items: append([]string{}, items...),
		Value: strings.Join(slices.Compact(sorted), ","),
	}
}

// listField renders a list that may repeat entries: sorted, comma-joined.
func listField(name string, items []string) Field {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, compareUTF16)
	return Field{
		Name:  name,
		Items: append([]string{}, items...),
		Value: strings.Join(sorted, ","),
	}
}

// compareUTF16 orders strings by UTF-16 code unit, the order issuers sort
// list values in when computing verification codes. It differs from byte
// order only when supplementary characters meet U+E000 through U+FFFF.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
