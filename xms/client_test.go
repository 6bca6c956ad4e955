package xms

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithEndpoint(server.URL)}, opts...)
	client, err := NewClient(testPlan, testToken, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, server
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		plan     string
		token    string
		endpoint string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "valid config",
			plan:     "plan-1",
			token:    "token",
			endpoint: "https://api.example.com/xms",
		},
		{
			name:     "missing service plan",
			token:    "token",
			endpoint: DefaultEndpoint,
			wantErr:  true,
			errMsg:   "service plan id is required",
		},
		{
			name:     "missing token",
			plan:     "plan-1",
			endpoint: DefaultEndpoint,
			wantErr:  true,
			errMsg:   "token is required",
		},
		{
			name:     "relative endpoint",
			plan:     "plan-1",
			token:    "token",
			endpoint: "/xms",
			wantErr:  true,
			errMsg:   "invalid endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.plan, tt.token, WithEndpoint(tt.endpoint))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.endpoint, client.endpoint)
			assert.Equal(t, tt.plan, client.ServicePlanID())
		})
	}
}

// closeCountingTransport records CloseIdleConnections calls.
type closeCountingTransport struct {
	closed atomic.Int32
}

func (t *closeCountingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	return http.DefaultTransport.RoundTrip(r)
}

func (t *closeCountingTransport) CloseIdleConnections() {
	t.closed.Add(1)
}

func TestClientOptions(t *testing.T) {
	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("plan", "token", WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.http.GetClient().Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		transport := &closeCountingTransport{}
		custom := &http.Client{Transport: transport, Timeout: time.Minute}
		client, err := NewClient("plan", "token", WithHTTPClient(custom), WithTimeout(time.Second))
		require.NoError(t, err)

		assert.NotSame(t, custom, client.http.GetClient())
		assert.Same(t, transport, client.http.GetClient().Transport)
		assert.Equal(t, time.Second, client.http.GetClient().Timeout)
		assert.Equal(t, time.Minute, custom.Timeout, "caller's client is not modified")

		require.NoError(t, client.Close())
		assert.Zero(t, transport.closed.Load(), "caller's idle connections stay open")
	})

	t.Run("default endpoint", func(t *testing.T) {
		client, err := NewClient("plan", "token")
		require.NoError(t, err)
		assert.Equal(t, DefaultEndpoint+"/v1/plan/batches", client.url("/batches"))
	})
}

func TestRequestHeaders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "gzip, deflate", r.Header.Get("Accept-Encoding"))
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, Version, r.Header.Get("XMS-SDK-Version"))
		assert.Contains(t, r.Header.Get("User-Agent"), "resty/"+resty.Version)
		assert.Contains(t, r.Header.Get("User-Agent"), runtime.Version())

		switch r.Method {
		case http.MethodGet:
			assert.Empty(t, r.Header.Get("Content-Type"))
			w.Write([]byte(`{"tags":["a"]}`))
		case http.MethodPut:
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"tags":["x","y"]}`, string(body))
			w.Write(body)
		}
	})

	tags, err := client.GetBatchTags(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, tags)

	tags, err = client.ReplaceBatchTags(context.Background(), "b1", []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tags)
}

func TestSuccessBodyPassthrough(t *testing.T) {
	payload := []byte("{\"id\": \"x\",   \"odd\":\t[1,2]}\n")
	for _, status := range []int{http.StatusOK, http.StatusCreated} {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write(payload)
		})

		body, err := client.do(context.Background(), http.MethodGet, server.URL+"/raw", nil)
		require.NoError(t, err)
		assert.Equal(t, payload, body)
	}
}

func compress(t *testing.T, encoding string, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "deflate":
		w = zlib.NewWriter(&buf)
	case "raw-deflate":
		fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		require.NoError(t, err)
		w = fw
	default:
		return payload
	}
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestCompressedResponses(t *testing.T) {
	payload := []byte(`{"id":"b-42","to":["123"],"from":"456","body":"hi"}`)

	tests := []struct {
		name     string
		encoding string
		header   string
	}{
		{name: "identity", encoding: "identity"},
		{name: "gzip", encoding: "gzip", header: "gzip"},
		{name: "deflate", encoding: "deflate", header: "deflate"},
		{name: "raw deflate stream", encoding: "raw-deflate", header: "deflate"},
		{name: "header case", encoding: "deflate", header: "Deflate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.header != "" {
					w.Header().Set("Content-Encoding", tt.header)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write(compress(t, tt.encoding, payload))
			})

			batch, err := client.GetBatch(context.Background(), "b-42")
			require.NoError(t, err)
			assert.Equal(t, "b-42", batch.ID)
		})
	}

	t.Run("corrupt deflate body", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "deflate")
			w.Write([]byte("not compressed at all"))
		})

		_, err := client.GetBatch(context.Background(), "b-42")
		var transport *TransportError
		require.True(t, errors.As(err, &transport), "got %v", err)
		assert.Contains(t, transport.Error(), "inflate")
	})
}

func TestCreateTextBatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/"+testPlan+"/batches", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mt_text", body["type"])
		assert.Equal(t, "12345", body["from"])
		assert.Equal(t, []any{"111", "222"}, body["to"])
		assert.Equal(t, "Hi ${name}!", body["body"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"abc123","type":"mt_text","from":"12345","to":["111","222"],"body":"Hi ${name}!","canceled":false}`))
	})

	batch, err := client.CreateBatch(context.Background(), &TextBatch{
		From: "12345",
		To:   []string{"111", "222"},
		Body: "Hi ${name}!",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", batch.ID)
	assert.Equal(t, BatchTypeText, batch.Type)
	assert.Equal(t, []string{"111", "222"}, batch.To)
}

func TestCreateBinaryBatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mt_binary", body["type"])
		assert.Equal(t, "AQID", body["body"])
		assert.Equal(t, "050003", body["udh"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"bin1","type":"mt_binary","body":"AQID","udh":"050003"}`))
	})

	batch, err := client.CreateBatch(context.Background(), &BinaryBatch{
		From: "12345",
		To:   []string{"111"},
		Body: []byte{1, 2, 3},
		UDH:  HexBytes{0x05, 0x00, 0x03},
	})
	require.NoError(t, err)
	assert.Equal(t, "bin1", batch.ID)
	assert.True(t, batch.Type.IsBinary())
}

// foreignBatch satisfies BatchCreate through embedding but is not one of
// the supported variants.
type foreignBatch struct {
	*TextBatch
}

func TestCreateBatchInvalidVariant(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	for _, batch := range []BatchCreate{nil, (*TextBatch)(nil), (*BinaryBatch)(nil), foreignBatch{&TextBatch{}}} {
		_, err := client.CreateBatch(context.Background(), batch)
		var invalid *InvalidArgumentError
		require.True(t, errors.As(err, &invalid), "%T", batch)
		assert.Equal(t, "batch", invalid.Argument)
	}

	_, err := client.UpdateBatch(context.Background(), "b1", nil)
	var invalid *InvalidArgumentError
	require.True(t, errors.As(err, &invalid))

	_, err = client.GetBatch(context.Background(), "")
	require.True(t, errors.As(err, &invalid))

	assert.Zero(t, requests.Load())
}

func TestGetBatchNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetBatch(context.Background(), "missing-1")
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.True(t, strings.HasSuffix(notFound.URL, "/batches/missing-1"), notFound.URL)
}

func TestUnauthorizedAndAPIErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":"missing_body","text":"body is required"}`))
		}
	})

	_, err := client.GetGroup(context.Background(), "g1")
	assert.True(t, IsUnauthorized(err))

	_, err = client.CreateGroup(context.Background(), GroupCreate{Name: "x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "missing_body", apiErr.Code)
	assert.Equal(t, "body is required", apiErr.Text)
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	observed := 0
	client, err := NewClient(testPlan, testToken,
		WithEndpoint(endpoint),
		WithObserver(func(Exchange) { observed++ }),
	)
	require.NoError(t, err)

	_, err = client.GetBatch(context.Background(), "b1")
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.MethodGet, transportErr.Method)
	assert.Zero(t, observed)
}

func TestObserverAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	var exchanges []Exchange
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"g1","size":2}`))
	}, WithLogger(logger), WithObserver(func(e Exchange) { exchanges = append(exchanges, e) }))

	_, err := client.CreateGroup(context.Background(), GroupCreate{Name: "friends"})
	require.NoError(t, err)

	require.Len(t, exchanges, 1)
	assert.Equal(t, http.MethodPost, exchanges[0].Method)
	assert.Equal(t, http.StatusCreated, exchanges[0].StatusCode)
	assert.JSONEq(t, `{"name":"friends"}`, string(exchanges[0].RequestBody))
	assert.Equal(t, `{"id":"g1","size":2}`, string(exchanges[0].ResponseBody))
	assert.True(t, strings.HasSuffix(exchanges[0].URL, "/groups"))

	out := buf.String()
	assert.Contains(t, out, "XMS API exchange")
	assert.Contains(t, out, `"status":201`)
	assert.Contains(t, out, "friends")
	assert.NotContains(t, out, testToken)
}

func TestClose(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err := client.GetInbound(context.Background(), "in1")
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestListBatches(t *testing.T) {
	var queries []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/"+testPlan+"/batches", r.URL.Path)
		queries = append(queries, r.URL.RawQuery)

		pages := map[string]string{
			"0": `{"page":0,"page_size":2,"count":5,"batches":[{"id":"b1"},{"id":"b2"}]}`,
			"1": `{"page":1,"page_size":2,"count":5,"batches":[{"id":"b3"},{"id":"b4"}]}`,
			"2": `{"page":2,"page_size":1,"count":5,"batches":[{"id":"b5"}]}`,
		}
		w.Write([]byte(pages[r.URL.Query().Get("page")]))
	})

	p := client.ListBatches(BatchFilter{PageSize: 2, Tags: []string{"a", "b"}})
	assert.Empty(t, queries, "listing must not perform I/O")

	batches, err := p.Collect(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(batches))
	for _, b := range batches {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"b1", "b2", "b3", "b4", "b5"}, ids)
	assert.Equal(t, []string{
		"page=0&page_size=2&tags=a%2Cb",
		"page=1&page_size=2&tags=a%2Cb",
		"page=2&page_size=2&tags=a%2Cb",
	}, queries)
}

// cappedBatchServer serves total batches, defaulting the page size to 30 and
// capping it at 100. Each page reports its own length as page_size.
func cappedBatchServer(t *testing.T, total int, requests *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		assert.NoError(t, err)
		size := 30
		if v := r.URL.Query().Get("page_size"); v != "" {
			size, err = strconv.Atoi(v)
			assert.NoError(t, err)
		}
		size = min(size, 100)

		batches := []map[string]string{}
		for i := page * size; i < min((page+1)*size, total); i++ {
			batches = append(batches, map[string]string{"id": fmt.Sprintf("b%d", i)})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"page":      page,
			"page_size": len(batches),
			"count":     total,
			"batches":   batches,
		})
	}
}

func TestListBatchesPageSizing(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		requests int32
	}{
		{name: "server caps the requested size", total: 250, pageSize: 500, requests: 3},
		{name: "default size with short last page", total: 65, requests: 3},
		{name: "single short page", total: 7, requests: 1},
		{name: "exact multiple of the default", total: 60, requests: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			client, _ := newTestClient(t, cappedBatchServer(t, tt.total, &requests))

			batches, err := client.ListBatches(BatchFilter{PageSize: tt.pageSize}).Collect(context.Background())
			require.NoError(t, err)
			require.Len(t, batches, tt.total)
			assert.Equal(t, "b0", batches[0].ID)
			assert.Equal(t, fmt.Sprintf("b%d", tt.total-1), batches[tt.total-1].ID)
			assert.Equal(t, tt.requests, requests.Load())
		})
	}
}

func TestListInboundsAndGroups(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/" + testPlan + "/inbounds":
			assert.Equal(t, "page=0&to=555", r.URL.RawQuery)
			w.Write([]byte(`{"page":0,"page_size":1,"count":1,"inbounds":[{"id":"in1","type":"mo_text","from":"111","to":"555","body":"STOP"}]}`))
		case "/v1/" + testPlan + "/groups":
			w.Write([]byte(`{"page":0,"page_size":0,"count":0,"groups":[]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	inbounds, err := client.ListInbounds(InboundFilter{Recipients: []string{"555"}}).Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, inbounds, 1)
	assert.Equal(t, "STOP", inbounds[0].Body)
	assert.Equal(t, InboundTypeText, inbounds[0].Type)

	groups, err := client.ListGroups(GroupFilter{}).Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestListNegativePageSizeFailsWithoutIO(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	_, err := client.ListBatches(BatchFilter{PageSize: -1}).Collect(context.Background())
	var invalid *InvalidArgumentError
	require.True(t, errors.As(err, &invalid))
	assert.Zero(t, requests.Load())
}

func TestBatchOperations(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/v1/"+testPlan+"/batches/b1":
			assert.Contains(t, string(body), `"type":"mt_text"`)
			w.Write([]byte(`{"id":"b1","body":"replaced"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v1/"+testPlan+"/batches/b1":
			assert.JSONEq(t, `{"type":"mt_text","to_add":["333"],"body":"new"}`, string(body))
			w.Write([]byte(`{"id":"b1","body":"new","to":["111","333"]}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/v1/"+testPlan+"/batches/b1":
			assert.Empty(t, body)
			w.Write([]byte(`{"id":"b1","canceled":true}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v1/"+testPlan+"/batches/dry_run":
			assert.Equal(t, "per_recipient=true&number_of_recipients=2", r.URL.RawQuery)
			w.Write([]byte(`{"number_of_recipients":2,"number_of_messages":2,"per_recipient":[{"recipient":"111","body":"Hi","encoding":"text"}]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v1/"+testPlan+"/batches/b1/tags":
			assert.JSONEq(t, `{"add":["x"],"remove":["y"]}`, string(body))
			w.Write([]byte(`{"tags":["x"]}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})
	ctx := context.Background()

	b, err := client.ReplaceBatch(ctx, "b1", &TextBatch{From: "1", To: []string{"2"}, Body: "replaced"})
	require.NoError(t, err)
	assert.Equal(t, "replaced", b.Body)

	newBody := "new"
	b, err = client.UpdateBatch(ctx, "b1", &TextBatchUpdate{ToAdd: []string{"333"}, Body: &newBody})
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "333"}, b.To)

	b, err = client.CancelBatch(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, b.Canceled)

	dry, err := client.DryRunBatch(ctx, &TextBatch{From: "1", To: []string{"111", "222"}, Body: "Hi"},
		DryRunOptions{PerRecipient: true, NumberOfRecipients: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, dry.NumberOfMessages)
	require.Len(t, dry.PerRecipient, 1)

	tags, err := client.UpdateBatchTags(ctx, "b1", TagsUpdate{Add: []string{"x"}, Remove: []string{"y"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, tags)
}

func TestDeliveryReports(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/" + testPlan + "/batches/b1/delivery_report":
			assert.Equal(t, "type=full&status=Delivered", r.URL.RawQuery)
			w.Write([]byte(`{"batch_id":"b1","type":"delivery_report_sms","total_message_count":3,
				"statuses":[{"code":0,"status":"Delivered","count":2,"recipients":["111","222"]},
				{"code":402,"status":"Failed","count":1}]}`))
		case "/v1/" + testPlan + "/batches/b1/delivery_report/+4611":
			w.Write([]byte(`{"batch_id":"b1","recipient":"+4611","code":0,"status":"Delivered","at":"2024-01-02T10:00:00Z"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	report, err := client.GetDeliveryReport(ctx, "b1", DeliveryReportFilter{
		Type:     ReportFull,
		Statuses: []DeliveryStatus{StatusDelivered},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalMessageCount)
	assert.Equal(t, 2, report.Count(StatusDelivered))
	assert.Equal(t, 1, report.Count(StatusFailed))

	rr, err := client.GetRecipientDeliveryReport(ctx, "b1", "+4611")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, rr.Status)
	assert.True(t, rr.Status.IsFinal())
}

func TestGroupOperations(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		base := "/v1/" + testPlan + "/groups/g1"
		switch {
		case r.Method == http.MethodGet && r.URL.Path == base+"/members":
			w.Write([]byte(`["111","222"]`))
		case r.Method == http.MethodDelete && r.URL.Path == base:
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == base:
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"name":"renamed","add":["333"]}`, string(body))
			w.Write([]byte(`{"id":"g1","name":"renamed","size":3}`))
		case r.Method == http.MethodPut && r.URL.Path == base:
			w.Write([]byte(`{"id":"g1","name":"replaced","size":1}`))
		case r.Method == http.MethodPut && r.URL.Path == base+"/tags":
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"tags":[]}`, string(body))
			w.Write(body)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	members, err := client.GetGroupMembers(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222"}, members)

	name := "renamed"
	g, err := client.UpdateGroup(ctx, "g1", GroupUpdate{Name: &name, Add: []string{"333"}})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Size)

	g, err = client.ReplaceGroup(ctx, "g1", GroupCreate{Name: "replaced", Members: []string{"111"}})
	require.NoError(t, err)
	assert.Equal(t, "replaced", g.Name)

	tags, err := client.ReplaceGroupTags(ctx, "g1", nil)
	require.NoError(t, err)
	assert.Empty(t, tags)

	require.NoError(t, client.DeleteGroup(ctx, "g1"))
}
