package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category  string
		eventType string
		want      string
	}{
		{"folder", "creation", "operation, invoker, [name, deadline, files, voters, administrators]"},
		{"folder", "accepting", "operation, invoker, id, vote"},
		{"folder", "archiving", "operation, invoker, folders"},
		{"voting", "creation", "operation, invoker, [proceedings, name, files, voters]"},
		{"voting", "voteCasting", "operation, invoker, [id, inFavourCommon, abstainCommon, againstCommon, inFavourPreferred, abstainPreferred, againstPreferred, amount, vote, invoker]"},
		{"voting", "cancellation", "operation, invoker, id"},
		{"voting", "forcedClosing", "operation, invoker, id"},
	}
	for _, tt := range tests {
		t.Run(tt.category+"."+tt.eventType, func(t *testing.T) {
			t.Parallel()

			f, ok := FormatFor(tt.category, tt.eventType)
			require.True(t, ok)
			assert.Equal(t, tt.want, f.String())
			assert.Equal(t, FieldOperation, f[0].Field())
			assert.Equal(t, FieldInvoker, f[1].Field())
		})
	}
}

func TestFormatForUnknown(t *testing.T) {
	t.Parallel()

	for _, tc := range [][2]string{
		{"voting", "unknownType"},
		{"voting", "accepting"},
		{"folder", "voteCasting"},
		{"archive", "creation"},
	} {
		f, ok := FormatFor(tc[0], tc[1])
		assert.False(t, ok, "%s.%s", tc[0], tc[1])
		assert.Nil(t, f)
	}
}

func TestFormatForReturnsCopy(t *testing.T) {
	t.Parallel()

	f, ok := FormatFor("folder", "accepting")
	require.True(t, ok)
	f[0] = Plain("tampered")

	again, ok := FormatFor("folder", "accepting")
	require.True(t, ok)
	assert.Equal(t, FieldOperation, again[0].Field())

	g, _ := FormatFor("folder", "creation")
	fields := g[2].Fields()
	fields[0] = "tampered"
	assert.Equal(t, FieldName, g[2].Fields()[0])
}

func TestFormatFields(t *testing.T) {
	t.Parallel()

	f, ok := FormatFor("voting", "voteCasting")
	require.True(t, ok)
	fields := f.Fields()
	assert.Equal(t, []string{
		"operation", "invoker", "id",
		"inFavourCommon", "abstainCommon", "againstCommon",
		"inFavourPreferred", "abstainPreferred", "againstPreferred",
		"amount", "vote",
	}, fields)
}

func TestComponent(t *testing.T) {
	t.Parallel()

	p := Plain("id")
	assert.False(t, p.IsGroup())
	assert.Equal(t, []string{"id"}, p.Fields())

	g := Grouped("a", "b")
	assert.True(t, g.IsGroup())
	assert.Equal(t, "", g.Field())
	assert.Equal(t, "[a, b]", g.String())
}
