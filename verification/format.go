// Package verification computes event verification codes.
//
// A code is built from a [Format]: an ordered list of components, each either
// a single field passed through in clear or a group of fields whose values are
// joined with "|" and replaced by their keyed signature. The components are
// joined with "|" and suffixed with "@" and the code version:
//
//	creation|u3|bG9uZ3NpZ25hdHVyZQ==@0
//
// Codes are compared by exact string equality against the anchored value, so
// field order, separators and value text must be reproduced byte for byte.
package verification

import (
	"slices"
	"strings"
)

// Field names used by verification formats.
const (
	FieldOperation         = "operation"
	FieldInvoker           = "invoker"
	FieldKey               = "key"
	FieldID                = "id"
	FieldName              = "name"
	FieldDeadline          = "deadline"
	FieldFiles             = "files"
	FieldVoters            = "voters"
	FieldAdministrators    = "administrators"
	FieldFolders           = "folders"
	FieldProceedings       = "proceedings"
	FieldVote              = "vote"
	FieldInFavourCommon    = "inFavourCommon"
	FieldInFavourPreferred = "inFavourPreferred"
	FieldAbstainCommon     = "abstainCommon"
	FieldAbstainPreferred  = "abstainPreferred"
	FieldAgainstCommon     = "againstCommon"
	FieldAgainstPreferred  = "againstPreferred"
	FieldAmount            = "amount"
)

// Component is one element of a Format: either a plain field or a group of
// fields that is signed as a unit.
type Component struct {
	field string
	group []string
}

// Plain returns a component that copies the named field into the code.
func Plain(field string) Component {
	return Component{field: field}
}

// Grouped returns a component that signs the named fields together.
// Order matters: it determines the signed message.
func Grouped(fields ...string) Component {
	return Component{group: slices.Clone(fields)}
}

// IsGroup reports whether the component is signed.
func (c Component) IsGroup() bool {
	return c.group != nil
}

// Field returns the field name of a plain component.
func (c Component) Field() string {
	return c.field
}

// Fields returns the fields the component reads, in order.
func (c Component) Fields() []string {
	if c.group == nil {
		return []string{c.field}
	}
	return slices.Clone(c.group)
}

func (c Component) String() string {
	if c.group == nil {
		return c.field
	}
	return "[" + strings.Join(c.group, ", ") + "]"
}

// Format is an ordered list of components.
type Format []Component

// Fields returns every field referenced by the format, in first-use order
// and without repeats.
func (f Format) Fields() []string {
	var out []string
	for _, c := range f {
		for _, name := range c.Fields() {
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}

func (f Format) String() string {
	parts := make([]string, len(f))
	for i, c := range f {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

type formatKey struct {
	category  string
	eventType string
}

var formats = map[formatKey]Format{
	{"folder", "creation"}: {
		Plain(FieldOperation), Plain(FieldInvoker),
		Grouped(FieldName, FieldDeadline, FieldFiles, FieldVoters, FieldAdministrators),
	},
	{"folder", "accepting"}: {
		Plain(FieldOperation), Plain(FieldInvoker), Plain(FieldID), Plain(FieldVote),
	},
	{"folder", "archiving"}: {
		Plain(FieldOperation), Plain(FieldInvoker), Plain(FieldFolders),
	},
	{"voting", "creation"}: {
		Plain(FieldOperation), Plain(FieldInvoker),
		Grouped(FieldProceedings, FieldName, FieldFiles, FieldVoters),
	},
	{"voting", "voteCasting"}: {
		Plain(FieldOperation), Plain(FieldInvoker),
		Grouped(
			FieldID,
			FieldInFavourCommon, FieldAbstainCommon, FieldAgainstCommon,
			FieldInFavourPreferred, FieldAbstainPreferred, FieldAgainstPreferred,
			FieldAmount, FieldVote, FieldInvoker,
		),
	},
	{"voting", "cancellation"}: {
		Plain(FieldOperation), Plain(FieldInvoker), Plain(FieldID),
	},
	{"voting", "forcedClosing"}: {
		Plain(FieldOperation), Plain(FieldInvoker), Plain(FieldID),
	},
}

// FormatFor returns the verification format for an event of the given type
// in a document of the given category ("folder" or "voting").
// It returns false when events of that kind cannot be verified.
func FormatFor(category, eventType string) (Format, bool) {
	f, ok := formats[formatKey{category, eventType}]
	if !ok {
		return nil, false
	}
	return slices.Clone(f), true
}
