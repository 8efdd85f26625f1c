package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/antopio26/graph-js/pkg/cache"
	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/pipeline"
	"github.com/antopio26/graph-js/pkg/store"
)

const testSpec = `{
	"nodes": [
		{"id": "a", "label": "Service A"},
		{"id": "b", "label": "Service B"},
		{"id": "c", "label": "Service C"}
	],
	"edges": [
		{"from": "a", "to": "b"},
		{"from": "b", "to": "c"}
	]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	t.Cleanup(func() { runner.Close() })

	srv := newServer(runner, store.NewMemoryStore(), logger)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestServerHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("ok")) {
		t.Errorf("body = %s, want it to contain %q", body, "ok")
	}
}

func TestServerRender(t *testing.T) {
	ts := newTestServer(t)

	reqBody := `{"spec": ` + testSpec + `}`
	resp, err := http.Post(ts.URL+"/api/render", "application/json", strings.NewReader(reqBody))
	if err != nil {
		t.Fatalf("POST /api/render: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, http.StatusOK, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want %q", ct, "image/svg+xml")
	}

	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("<svg")) {
		t.Error("response should contain an svg element")
	}
}

func TestServerRenderRejectsMultipleFormats(t *testing.T) {
	ts := newTestServer(t)

	reqBody := `{"spec": ` + testSpec + `, "formats": ["svg", "json"]}`
	resp, err := http.Post(ts.URL+"/api/render", "application/json", strings.NewReader(reqBody))
	if err != nil {
		t.Fatalf("POST /api/render: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestServerRenderBadJSON(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/render", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("POST /api/render: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestServerRenderInvalidSpec(t *testing.T) {
	ts := newTestServer(t)

	// Edge references a node that does not exist
	reqBody := `{"spec": {"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "ghost"}]}}`
	resp, err := http.Post(ts.URL+"/api/render", "application/json", strings.NewReader(reqBody))
	if err != nil {
		t.Fatalf("POST /api/render: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestServerLayout(t *testing.T) {
	ts := newTestServer(t)

	reqBody := `{"spec": ` + testSpec + `}`
	resp, err := http.Post(ts.URL+"/api/layout", "application/json", strings.NewReader(reqBody))
	if err != nil {
		t.Fatalf("POST /api/layout: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, http.StatusOK, body)
	}

	var doc struct {
		Nodes map[string]json.RawMessage `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decoding layout response: %v", err)
	}
	if len(doc.Nodes) != 3 {
		t.Errorf("layout nodes = %d, want 3", len(doc.Nodes))
	}
}

func TestServerScenes(t *testing.T) {
	ts := newTestServer(t)

	// Create
	reqBody := `{"name": "pipeline", "options": {"spec": ` + testSpec + `}}`
	resp, err := http.Post(ts.URL+"/api/scenes", "application/json", strings.NewReader(reqBody))
	if err != nil {
		t.Fatalf("POST /api/scenes: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("create status = %d, want %d (body: %s)", resp.StatusCode, http.StatusCreated, body)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	resp.Body.Close()
	if created.ID == "" {
		t.Fatal("create response has empty id")
	}

	// List
	resp, err = http.Get(ts.URL + "/api/scenes")
	if err != nil {
		t.Fatalf("GET /api/scenes: %v", err)
	}
	var infos []store.RecordInfo
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	resp.Body.Close()
	if len(infos) != 1 {
		t.Fatalf("listed scenes = %d, want 1", len(infos))
	}
	if infos[0].Name != "pipeline" {
		t.Errorf("scene name = %q, want %q", infos[0].Name, "pipeline")
	}

	// Get
	resp, err = http.Get(ts.URL + "/api/scenes/" + created.ID)
	if err != nil {
		t.Fatalf("GET /api/scenes/%s: %v", created.ID, err)
	}
	var rec store.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("decoding get response: %v", err)
	}
	resp.Body.Close()
	if rec.ID != created.ID {
		t.Errorf("record ID = %q, want %q", rec.ID, created.ID)
	}
	if len(rec.SVG) == 0 {
		t.Error("record should carry the rendered svg")
	}
	if rec.Graph == nil || rec.Layout == nil {
		t.Error("record should carry graph and layout documents")
	}

	// Delete
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/scenes/"+created.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE /api/scenes/%s: %v", created.ID, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	// Gone
	resp, err = http.Get(ts.URL + "/api/scenes/" + created.ID)
	if err != nil {
		t.Fatalf("GET after delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestServerSceneNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/scenes/does-not-exist")
	if err != nil {
		t.Fatalf("GET /api/scenes/does-not-exist: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "invalid input",
			err:  errors.New(errors.ErrCodeInvalidInput, "bad request"),
			want: http.StatusBadRequest,
		},
		{
			name: "structural",
			err:  errors.New(errors.ErrCodeStructural, "dangling edge"),
			want: http.StatusBadRequest,
		},
		{
			name: "scene not found",
			err:  errors.New(errors.ErrCodeSceneNotFound, "no such scene"),
			want: http.StatusNotFound,
		},
		{
			name: "timeout",
			err:  errors.New(errors.ErrCodeTimeout, "deadline"),
			want: http.StatusGatewayTimeout,
		},
		{
			name: "store error",
			err:  errors.New(errors.ErrCodeStore, "down"),
			want: http.StatusInternalServerError,
		},
		{name: "plain error", err: io.EOF, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: "svg", want: "image/svg+xml"},
		{format: "png", want: "image/png"},
		{format: "pdf", want: "application/pdf"},
		{format: "json", want: "application/json"},
		{format: "dot", want: "text/vnd.graphviz"},
		{format: "bogus", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := contentType(tt.format); got != tt.want {
				t.Errorf("contentType(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}
