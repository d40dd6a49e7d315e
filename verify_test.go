package sisverify_test

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/sisverify"
	"github.com/meigma/sisverify/anchor/cache"
	"github.com/meigma/sisverify/internal/testutil"
	"github.com/meigma/sisverify/metadata"
)

// node serves codes like a Waves node and counts requests.
type node struct {
	*httptest.Server
	codes    map[string]string
	requests atomic.Int32
}

func newNode(t *testing.T, codes map[string]string) *node {
	t.Helper()
	n := &node{codes: codes}
	n.Server = httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		n.requests.Add(1)
		txID, ok := strings.CutPrefix(r.URL.Path, "/transactions/info/")
		code, found := n.codes[txID]
		if !ok || !found {
			w.WriteHeader(nethttp.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":311,"message":"transactions does not exist"}`))
			return
		}
		body, _ := json.Marshal(map[string]any{
			"type": 12,
			"id":   txID,
			"data": []any{map[string]any{"key": "code", "type": "string", "value": code}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(n.Close)
	return n
}

func loadDoc(t *testing.T, client *sisverify.Client, doc map[string]any) *sisverify.Document {
	t.Helper()
	loaded, err := client.Load(context.Background(), testutil.MarshalSealed(t, doc))
	require.NoError(t, err)
	return loaded
}

func statuses(report *sisverify.Report) []sisverify.Status {
	out := make([]sisverify.Status, len(report.Results))
	for i, r := range report.Results {
		out[i] = r.Status
	}
	return out
}

func TestVerify_FolderAgainstNode(t *testing.T) {
	t.Parallel()

	n := newNode(t, testutil.FolderCodes)
	client := newClient(t)
	doc := loadDoc(t, client, testutil.FolderDocument(n.URL))

	report, err := client.Verify(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, []sisverify.Status{
		sisverify.StatusMatch,
		sisverify.StatusMatch,
		sisverify.StatusMatch,
	}, statuses(report))
	assert.True(t, report.OK())
	assert.Equal(t, 3, report.Count(sisverify.StatusMatch))

	first := report.Results[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, metadata.EventCreation, first.Event.Type)
	assert.Equal(t, testutil.FolderCodes["tx-create"], first.Code)
	assert.Equal(t, first.Code, first.Anchored)
	assert.Equal(t, "tx-create", first.Transaction.ID)
	assert.Equal(t, "https://explorer.invalid/tx/tx-create", first.Transaction.URL)
}

func TestVerify_VotingWithResolver(t *testing.T) {
	t.Parallel()

	resolver := testutil.NewMockResolver(testutil.VotingCodes)
	client := newClient(t, sisverify.WithResolver(resolver), sisverify.WithConcurrency(1))
	doc := loadDoc(t, client, testutil.VotingDocument("http://node.invalid"))

	report, err := client.Verify(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, []sisverify.Status{
		sisverify.StatusMatch,
		sisverify.StatusMatch,
		sisverify.StatusMatch,
		sisverify.StatusUnverifiable,
	}, statuses(report))
	assert.EqualValues(t, 3, resolver.Calls())
	assert.Empty(t, report.Results[3].Code)
}

func TestVerify_Mismatch(t *testing.T) {
	t.Parallel()

	codes := map[string]string{
		"tx-create":  testutil.FolderCodes["tx-create"],
		"tx-accept":  "accepting|u1|F1|0@0",
		"tx-archive": testutil.FolderCodes["tx-archive"],
	}
	client := newClient(t, sisverify.WithResolver(testutil.NewMockResolver(codes)))
	doc := loadDoc(t, client, testutil.FolderDocument("http://node.invalid"))

	report, err := client.Verify(context.Background(), doc)
	require.NoError(t, err)

	accept := report.Results[1]
	assert.Equal(t, sisverify.StatusMismatch, accept.Status)
	assert.Equal(t, "accepting|u1|F1|1@0", accept.Code)
	assert.Equal(t, "accepting|u1|F1|0@0", accept.Anchored)
	assert.False(t, report.OK())
}

func TestVerify_UnavailableIsNotFatal(t *testing.T) {
	t.Parallel()

	n := newNode(t, map[string]string{"tx-create": testutil.FolderCodes["tx-create"]})
	client := newClient(t)
	doc := loadDoc(t, client, testutil.FolderDocument(n.URL))

	report, err := client.Verify(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, []sisverify.Status{
		sisverify.StatusMatch,
		sisverify.StatusUnavailable,
		sisverify.StatusUnavailable,
	}, statuses(report))
	assert.ErrorIs(t, report.Results[1].Err, sisverify.ErrUnavailable)
	assert.Equal(t, testutil.FolderCodes["tx-accept"], report.Results[1].Code, "local code stays available for manual comparison")
	assert.True(t, report.OK())
}

func TestVerify_NodeURLOverride(t *testing.T) {
	t.Parallel()

	n := newNode(t, testutil.FolderCodes)
	client := newClient(t, sisverify.WithNodeURL(n.URL))
	doc := loadDoc(t, client, testutil.FolderDocument("http://node.invalid"))

	report, err := client.Verify(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Count(sisverify.StatusMatch))
}

func TestVerify_CachesAnchoredCodes(t *testing.T) {
	t.Parallel()

	n := newNode(t, testutil.FolderCodes)
	mem := cache.NewMemory(0)
	client := newClient(t, sisverify.WithCache(mem))
	doc := loadDoc(t, client, testutil.FolderDocument(n.URL))

	for range 2 {
		report, err := client.Verify(context.Background(), doc)
		require.NoError(t, err)
		assert.Equal(t, 3, report.Count(sisverify.StatusMatch))
	}
	assert.EqualValues(t, 3, n.requests.Load())

	code, ok := mem.Get(testutil.NodeChainID + "/tx-accept")
	require.True(t, ok)
	assert.Equal(t, testutil.FolderCodes["tx-accept"], string(code))
}

func TestVerify_WithoutAnchor(t *testing.T) {
	t.Parallel()

	raw := testutil.FolderDocument("")
	delete(raw, "blockchains")
	client := newClient(t)
	doc := loadDoc(t, client, raw)

	report, err := client.Verify(context.Background(), doc)
	require.NoError(t, err)
	for _, r := range report.Results {
		assert.Equal(t, sisverify.StatusNoTransaction, r.Status)
		assert.NotEmpty(t, r.Code)
	}
}

func TestVerify_EmptyKeyFailsLocally(t *testing.T) {
	t.Parallel()

	raw := testutil.VotingDocument("http://node.invalid")
	raw["hashKey"] = ""
	client := newClient(t, sisverify.WithResolver(testutil.NewMockResolver(testutil.VotingCodes)))
	doc := loadDoc(t, client, raw)

	report, err := client.Verify(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, sisverify.StatusError, report.Results[0].Status)
	assert.ErrorIs(t, report.Results[0].Err, sisverify.ErrPrimitive)
	assert.Equal(t, sisverify.StatusMatch, report.Results[2].Status, "cancellation has no signed component")
	assert.False(t, report.OK())
}

func TestVerify_CanceledContext(t *testing.T) {
	t.Parallel()

	client := newClient(t, sisverify.WithResolver(testutil.NewMockResolver(testutil.FolderCodes)))
	doc := loadDoc(t, client, testutil.FolderDocument("http://node.invalid"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := client.Verify(ctx, doc)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 3, report.Count(sisverify.StatusUnavailable))
}

func TestVerifyEvent(t *testing.T) {
	t.Parallel()

	client := newClient(t, sisverify.WithResolver(testutil.NewMockResolver(testutil.VotingCodes)))
	doc := loadDoc(t, client, testutil.VotingDocument("http://node.invalid"))

	res, err := client.VerifyEvent(context.Background(), doc, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, metadata.EventVoteCasting, res.Event.Type)
	assert.Equal(t, sisverify.StatusMatch, res.Status)

	_, err = client.VerifyEvent(context.Background(), doc, 4)
	require.Error(t, err)
	_, err = client.VerifyEvent(context.Background(), nil, 0)
	require.Error(t, err)
}

func TestComputeCode(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	doc := loadDoc(t, client, testutil.VotingDocument("http://node.invalid"))
	events := doc.Events()

	code, err := client.ComputeCode(doc, events[2])
	require.NoError(t, err)
	assert.Equal(t, testutil.VotingCodes["tx-cancel"], code)

	_, err = client.ComputeCode(doc, events[3])
	assert.ErrorIs(t, err, sisverify.ErrUnknownFormat)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "match", sisverify.StatusMatch.String())
	assert.Equal(t, "no transaction", sisverify.StatusNoTransaction.String())
	assert.Equal(t, "Status(42)", sisverify.Status(42).String())
}
