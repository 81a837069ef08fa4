package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maestro-dashboard/domain/knowledge"
	"maestro-dashboard/logging"
	"maestro-dashboard/repository/axon"
	"maestro-dashboard/server/common"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
)

type stubLoader struct {
	mu     sync.Mutex
	table  *knowledge.Table
	errMsg string
	calls  int
}

func (l *stubLoader) Load(_ context.Context, reporter knowledge.Reporter) *knowledge.Table {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++

	if len(l.errMsg) != 0 {
		reporter.ReportError(l.errMsg)
		return knowledge.EmptyTable()
	}
	return l.table
}

func sampleTable() *knowledge.Table {
	targets := []string{"mettl3", "KRAS", " egfr "}
	records := make([]axon.Record, 0, len(targets))
	for i, target := range targets {
		record := axon.NewRecord()
		record.Set("id", json.Number(strconv.Itoa(i+1)))
		record.Set("source_id", "X")
		record.Set("target_id", target)
		record.Set("action_verb", "INHIBIT")
		record.Set("description_l0", "desc, with comma")
		record.Set("pdb_id", "5IL0")
		record.Set("initial_score", "0.9")
		record.Set("toxicity_index", "0.2")
		records = append(records, record)
	}
	return knowledge.Normalize(records)
}

func newTestServer(t *testing.T, loader *stubLoader, config *Config) *Server {
	logging.SetDefaultConfig(logging.GenerateTestConfig(t))
	if config == nil {
		config = &Config{Port: 8003}
	}

	s, err := New(config, loader)
	require.Nil(t, err)
	return s
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (*common.Resp, map[string]any) {
	var resp common.Resp
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp))

	data, _ := resp.Data.(map[string]any)
	return &resp, data
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: sampleTable()}, nil)

	w := get(s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: sampleTable()}, nil)

	w := get(s, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)

	resp, data := decode(t, w)
	assert.Equal(t, common.CodeSuccess, resp.Code)
	assert.Equal(t, float64(3), data["rows"])
	assert.Equal(t, []any{}, data["errors"])
}

func TestLookup_Match(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: sampleTable()}, nil)

	w := get(s, "/api/lookup?target=%20mettl3%20")
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decode(t, w)
	assert.Equal(t, "match", data["kind"])
	assert.Equal(t, "METTL3", data["query"])

	target, ok := data["target"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0.72", target["ces_score"])
	assert.Equal(t, "MAESTRO_METTL3_Report.csv", target["download"])
}

func TestLookup_NoMatchAndNoQuery(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: sampleTable()}, nil)

	_, data := decode(t, get(s, "/api/lookup?target=XYZ"))
	assert.Equal(t, "no_match", data["kind"])
	assert.Equal(t, []any{"METTL3", "KRAS", "EGFR"}, data["preview"])

	_, data = decode(t, get(s, "/api/lookup"))
	assert.Equal(t, "no_query", data["kind"])
	assert.Len(t, data["welcome"], 3)
}

func TestLookup_RemoteFailure(t *testing.T) {
	s := newTestServer(t, &stubLoader{errMsg: "Connection to AXON failed: refused"}, nil)

	w := get(s, "/api/lookup?target=KRAS")
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decode(t, w)
	assert.Equal(t, "empty_table", data["kind"])
	assert.Equal(t, []any{"Connection to AXON failed: refused"}, data["errors"])
}

func TestLookup_TargetTooLong(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: sampleTable()}, nil)

	w := get(s, "/api/lookup?target="+string(bytes.Repeat([]byte("A"), 200)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: sampleTable()}, nil)

	w := get(s, "/api/export?target=mettl3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="MAESTRO_METTL3_Report.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	records, err := csv.NewReader(bytes.NewReader(w.Body.Bytes())).ReadAll()
	require.Nil(t, err)
	require.Len(t, records, 2)
	assert.Contains(t, records[0], "ces_score")
	assert.Contains(t, records[1], "desc, with comma")
}

func TestExport_Errors(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: sampleTable()}, nil)

	assert.Equal(t, http.StatusBadRequest, get(s, "/api/export").Code)
	assert.Equal(t, http.StatusBadRequest, get(s, "/api/export?target=%20%20").Code)

	w := get(s, "/api/export?target=XYZ")
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp, data := decode(t, w)
	assert.Equal(t, common.CodeNotFound, resp.Code)
	assert.Equal(t, "no_match", data["kind"])

	empty := newTestServer(t, &stubLoader{table: knowledge.EmptyTable()}, nil)
	assert.Equal(t, http.StatusNotFound, get(empty, "/api/export?target=KRAS").Code)
}

func TestPage(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: sampleTable()}, nil)

	w := get(s, "/?target=kras")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "AXON connected: 3 records loaded")
	assert.Contains(t, body, "MAESTRO_KRAS_Report.csv")
	assert.Contains(t, body, "0.72")

	w = get(s, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome to MAESTRO")

	failing := newTestServer(t, &stubLoader{errMsg: "Connection to AXON failed: <refused>"}, nil)
	w = get(failing, "/?target=kras")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Connection to AXON failed: &lt;refused&gt;")
	assert.Contains(t, w.Body.String(), "RLS")
}

func TestPage_LongMultiByteTarget(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: sampleTable()}, nil)

	target := "a" + strings.Repeat("é", 100)
	w := get(s, "/?target="+url.QueryEscape(target))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, utf8.Valid(w.Body.Bytes()))
	assert.Contains(t, w.Body.String(), "a"+strings.Repeat("é", 63))
}

func TestRateLimited(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: sampleTable()}, &Config{RateLimit: 0.001, RateBurst: 1})

	assert.Equal(t, http.StatusOK, get(s, "/api/status").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(s, "/api/status").Code)
	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)
}

func TestRunServer_Shutdown(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: sampleTable()}, &Config{Host: "127.0.0.1", Port: 0})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.RunServer(ctx)
	}()

	cancel()
	assert.Nil(t, <-done)
}
