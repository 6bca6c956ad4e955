package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/xmsctl/filter"
	"github.com/s0up4200/xmsctl/store"
	"github.com/s0up4200/xmsctl/xms"
)

func TestSendFlagsBuild(t *testing.T) {
	t.Run("text batch with parameters", func(t *testing.T) {
		f := sendFlags{
			from:   "12345",
			to:     []string{"+4611", "+4622"},
			body:   "Hi ${name}",
			params: []string{"name=friend"},
			tags:   []string{"promo"},
		}
		batch, err := f.build()
		require.NoError(t, err)

		text, ok := batch.(*xms.TextBatch)
		require.True(t, ok)
		assert.Equal(t, "friend", text.Parameters["name"][xms.DefaultKey])
		assert.Len(t, text.ClientReference, 36, "a UUID reference is generated")
		assert.Equal(t, []string{"promo"}, text.Tags)
	})

	t.Run("explicit reference and schedule", func(t *testing.T) {
		f := sendFlags{from: "1", to: []string{"2"}, body: "x", ref: "order-7", sendAt: "2030-01-02T15:04:05Z"}
		batch, err := f.build()
		require.NoError(t, err)

		text := batch.(*xms.TextBatch)
		assert.Equal(t, "order-7", text.ClientReference)
		require.NotNil(t, text.SendAt)
		assert.Equal(t, 2030, text.SendAt.Year())
	})

	t.Run("binary batch", func(t *testing.T) {
		f := sendFlags{from: "1", to: []string{"2"}, binaryBody: "010203", udh: "050003"}
		batch, err := f.build()
		require.NoError(t, err)

		bin, ok := batch.(*xms.BinaryBatch)
		require.True(t, ok)
		assert.Equal(t, []byte{1, 2, 3}, bin.Body)
		assert.Equal(t, xms.HexBytes{5, 0, 3}, bin.UDH)
	})

	errCases := []struct {
		name  string
		flags sendFlags
		want  string
	}{
		{"missing sender", sendFlags{to: []string{"2"}, body: "x"}, "--from"},
		{"missing recipients", sendFlags{from: "1", body: "x"}, "--to"},
		{"missing body", sendFlags{from: "1", to: []string{"2"}}, "--body"},
		{"both bodies", sendFlags{from: "1", to: []string{"2"}, body: "x", binaryBody: "01"}, "mutually exclusive"},
		{"bad hex", sendFlags{from: "1", to: []string{"2"}, binaryBody: "zz"}, "--binary-body"},
		{"bad param", sendFlags{from: "1", to: []string{"2"}, body: "x", params: []string{"novalue"}}, "--param"},
		{"bad time", sendFlags{from: "1", to: []string{"2"}, body: "x", sendAt: "tomorrow"}, "--send-at"},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.flags.build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRender(t *testing.T) {
	batch := xms.Batch{ID: "b1", Type: xms.BatchTypeText, ClientReference: "ref"}
	table := func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "ID:\t%s\n", batch.ID)
	}

	tests := []struct {
		format string
		want   []string
	}{
		{"json", []string{`"id": "b1"`, `"client_reference": "ref"`}},
		{"yaml", []string{"id: b1", "client_reference: ref", "type: mt_text"}},
		{"table", []string{"ID:  b1"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, render(&buf, tt.format, batch, table))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("start", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("start", "")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseDate("end", "March")
	assert.ErrorContains(t, err, "--end")
}

func TestConfirm(t *testing.T) {
	noConfirm = false
	assert.True(t, confirm(strings.NewReader("y\n"), "Go?"))
	assert.False(t, confirm(strings.NewReader("\n"), "Go?"))

	noConfirm = true
	defer func() { noConfirm = false }()
	assert.True(t, confirm(strings.NewReader(""), "Go?"))
}

func TestFetchReports(t *testing.T) {
	var inFlight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)

		parts := strings.Split(r.URL.Path, "/")
		batchID := parts[len(parts)-2]
		if batchID == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "type=summary", r.URL.RawQuery)
		fmt.Fprintf(w, `{"batch_id":%q,"total_message_count":1,"statuses":[{"code":0,"status":"Delivered","count":1}]}`, batchID)
	}))
	defer server.Close()

	var clients atomic.Int32
	factory := func() (*xms.Client, error) {
		clients.Add(1)
		return xms.NewClient("plan", "token", xms.WithEndpoint(server.URL))
	}
	f := xms.DeliveryReportFilter{Type: xms.ReportSummary}

	ids := []string{"b1", "b2", "b3", "b4", "b5"}
	reports, err := fetchReports(context.Background(), ids, f, 2, factory)
	require.NoError(t, err)
	require.Len(t, reports, len(ids))
	for i, r := range reports {
		assert.Equal(t, ids[i], r.BatchID)
		assert.Equal(t, 1, r.Count(xms.StatusDelivered))
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, int32(len(ids)), clients.Load())

	_, err = fetchReports(context.Background(), []string{"b1", "missing"}, f, 2, factory)
	require.Error(t, err)
	assert.True(t, xms.IsNotFound(err))
	assert.Contains(t, err.Error(), "missing")
}

func inboundSeq(ids ...string) func(yield func(xms.Inbound, error) bool) {
	return func(yield func(xms.Inbound, error) bool) {
		for _, id := range ids {
			if !yield(xms.Inbound{ID: id, Body: "msg " + id}, nil) {
				return
			}
		}
	}
}

func TestSyncInbounds(t *testing.T) {
	seen, err := store.Open(store.BackendBbolt, filepath.Join(t.TempDir(), "seen.db"), store.Options{TTL: time.Hour})
	require.NoError(t, err)
	defer seen.Close()

	fresh, err := syncInbounds(inboundSeq("a", "b"), nil, seen, false, 0)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)

	fresh, err = syncInbounds(inboundSeq("a", "b", "c", "d"), nil, seen, true, 0)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "c", fresh[0].ID)

	fresh, err = syncInbounds(inboundSeq("a", "b", "c", "d"), nil, seen, false, 1)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "c", fresh[0].ID)

	f, err := filter.NewExprCompiler().Compile(`ID != "e"`)
	require.NoError(t, err)
	fresh, err = syncInbounds(inboundSeq("c", "d", "e"), f, seen, false, 0)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "d", fresh[0].ID)
}

func TestCollectStopsPaging(t *testing.T) {
	var fetched atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		fetched.Add(1)
		fmt.Fprintf(w, `{"page":%s,"page_size":2,"count":6,"batches":[{"id":"p%s-1","to":["1"]},{"id":"p%s-2","to":["1","2"]}]}`, page, page, page)
	}))
	defer server.Close()

	client, err := xms.NewClient("plan", "token", xms.WithEndpoint(server.URL), xms.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer client.Close()

	f, err := filter.NewExprCompiler().Compile(`Recipients == 2`)
	require.NoError(t, err)

	pages := client.ListBatches(xms.BatchFilter{PageSize: 2})
	batches, err := collect(pages.All(context.Background()), f, filter.BatchRecord, 2)
	require.NoError(t, err)

	require.Len(t, batches, 2)
	assert.Equal(t, "p0-2", batches[0].ID)
	assert.Equal(t, "p1-2", batches[1].ID)
	assert.Equal(t, int32(2), fetched.Load(), "the third page is never requested")
}
