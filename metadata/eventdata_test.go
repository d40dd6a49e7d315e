package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/sisverify/internal/testutil"
	"github.com/meigma/sisverify/metadata"
	"github.com/meigma/sisverify/verification"
)

func TestEventDataFolder(t *testing.T) {
	t.Parallel()

	doc := parseFixture(t, testutil.FolderDocument("http://node.invalid"))
	events := doc.Events()

	creation, ok := doc.EventData(events[0])
	require.True(t, ok)
	assert.Equal(t, testutil.Key, creation.Key)
	assert.Equal(t, "u3", creation.Invoker)
	names := make([]string, len(creation.Fields))
	for i, f := range creation.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"name", "deadline", "administrators", "voters", "files"}, names)

	files, ok := creation.Field(verification.FieldFiles)
	require.True(t, ok)
	assert.True(t, files.IsList())
	assert.Equal(t, []string{"h2", "h1"}, files.Items)
	assert.Equal(t, "h1,h2", files.Value)

	accepting, ok := doc.EventData(events[1])
	require.True(t, ok)
	vote, ok := accepting.Field(verification.FieldVote)
	require.True(t, ok)
	assert.Equal(t, "in-favour", vote.Raw)
	assert.Equal(t, "1", vote.Value)

	archiving, ok := doc.EventData(events[2])
	require.True(t, ok)
	folders, ok := archiving.Field(verification.FieldFolders)
	require.True(t, ok)
	assert.Equal(t, "F1,F2", folders.Value)
}

func TestEventDataValues(t *testing.T) {
	t.Parallel()

	doc := parseFixture(t, testutil.FolderDocument("http://node.invalid"))
	data, ok := doc.EventData(doc.Events()[0])
	require.True(t, ok)

	assert.Equal(t, map[string]string{
		"operation":      "creation",
		"invoker":        "u3",
		"key":            testutil.Key,
		"name":           "Q1",
		"deadline":       "2024-01-01",
		"administrators": "u2",
		"voters":         "u1",
		"files":          "h1,h2",
	}, data.Values())
}

func TestEventDataCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		doc   map[string]any
		codes map[string]string
	}{
		{name: "folder", doc: testutil.FolderDocument("http://node.invalid"), codes: testutil.FolderCodes},
		{name: "voting", doc: testutil.VotingDocument("http://node.invalid"), codes: testutil.VotingCodes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseFixture(t, tt.doc)
			verified := 0
			for _, ev := range doc.Events() {
				tx, ok := doc.Transaction(ev)
				require.True(t, ok)
				want, known := tt.codes[tx.ID]

				data, ok := doc.EventData(ev)
				if !known {
					assert.False(t, ok, "event %s", ev.Type)
					continue
				}
				require.True(t, ok)
				got, err := data.Code(verification.DefaultVersion)
				require.NoError(t, err)
				assert.Equal(t, want, got, "event %s", ev.Type)
				verified++
			}
			assert.Equal(t, len(tt.codes), verified)
		})
	}
}

func TestEventDataUnknownType(t *testing.T) {
	t.Parallel()

	doc := parseFixture(t, testutil.VotingDocument("http://node.invalid"))
	unknown := doc.Events()[3]

	data, ok := doc.EventData(unknown)
	assert.False(t, ok)
	assert.Nil(t, data)

	_, ok = verification.FormatFor(string(doc.Variant()), string(unknown.Type))
	assert.False(t, ok)

	// Folder event types are not defined for voting documents.
	_, ok = doc.EventData(metadata.Event{Type: metadata.EventAccepting})
	assert.False(t, ok)
}

func TestEventDataAcceptingAgainst(t *testing.T) {
	t.Parallel()

	fixture := testutil.FolderDocument("http://node.invalid")
	events := fixture["events"].([]any)
	events[1].(map[string]any)["vote"] = "against"
	doc := parseFixture(t, fixture)

	data, ok := doc.EventData(doc.Events()[1])
	require.True(t, ok)
	got, err := data.Code("0")
	require.NoError(t, err)
	assert.Equal(t, "accepting|u1|F1|0@0", got)
}

func TestEventDataSetsDropDuplicates(t *testing.T) {
	t.Parallel()

	fixture := testutil.FolderDocument("http://node.invalid")
	fixture["eligibleVoters"] = []any{"u3", "u1", "u3"}
	fixture["files"] = []any{
		map[string]any{"hash": "h2", "name": "b.pdf"},
		map[string]any{"hash": "h1", "name": "a.pdf"},
		map[string]any{"hash": "h2", "name": "b-copy.pdf"},
	}
	doc := parseFixture(t, fixture)

	data, ok := doc.EventData(doc.Events()[0])
	require.True(t, ok)
	values := data.Values()
	assert.Equal(t, "u1,u3", values["voters"])
	assert.Equal(t, "h1,h2,h2", values["files"])

	name, ok := doc.Filename("h2")
	require.True(t, ok)
	assert.Equal(t, "b-copy.pdf", name)
}

func TestEventDataEmptyLists(t *testing.T) {
	t.Parallel()

	fixture := testutil.FolderDocument("http://node.invalid")
	delete(fixture, "administrators")
	doc := parseFixture(t, fixture)

	data, ok := doc.EventData(doc.Events()[0])
	require.True(t, ok)
	admins, ok := data.Field(verification.FieldAdministrators)
	require.True(t, ok)
	assert.True(t, admins.IsList())
	assert.Empty(t, admins.Value)
}
