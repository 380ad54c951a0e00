package es

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestClient points a Client at an httptest server standing in for the
// engine. The product header is required by the official client.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"present", http.StatusOK, true},
		{"absent", http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Errorf("method = %s, want HEAD", r.Method)
				}
				w.WriteHeader(tt.status)
			})

			got, err := client.IndexExists(context.Background(), "live_news")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IndexExists = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateIndex_SendsBody(t *testing.T) {
	var gotPath, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	})

	settings := []byte(`{"settings":{"number_of_shards":1}}`)
	if err := client.CreateIndex(context.Background(), "live_news", settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/live_news" {
		t.Errorf("path = %q, want %q", gotPath, "/live_news")
	}
	if gotBody != string(settings) {
		t.Errorf("body = %q, want %q", gotBody, settings)
	}
}

func TestBulk_EncodesActionBodyPairs(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":false,"items":[
			{"index":{"_id":"a","status":201}},
			{"delete":{"_id":"b","status":200}}
		]}`))
	})

	ops := []BulkOp{
		{Action: ActionIndex, Index: "live_news", ID: "a", Body: []byte(`{"title":"x"}`)},
		{Action: ActionDelete, Index: "live_news", ID: "b"},
	}
	result, err := client.Bulk(context.Background(), ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(gotBody, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("bulk body has %d lines, want 3:\n%s", len(lines), gotBody)
	}
	if !strings.Contains(lines[0], `"index"`) || !strings.Contains(lines[0], `"_id":"a"`) {
		t.Errorf("line 0 = %q, want index action for a", lines[0])
	}
	if lines[1] != `{"title":"x"}` {
		t.Errorf("line 1 = %q, want document body", lines[1])
	}
	if !strings.Contains(lines[2], `"delete"`) || !strings.Contains(lines[2], `"_id":"b"`) {
		t.Errorf("line 2 = %q, want delete action for b", lines[2])
	}

	if result.Errors {
		t.Error("Errors = true, want false")
	}
	if len(result.Items) != 2 || result.Items[0].ID != "a" || result.Items[1].ID != "b" {
		t.Errorf("items = %+v, want a then b", result.Items)
	}
}

func TestBulk_ItemLevelError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":true,"items":[
			{"index":{"_id":"a","status":201}},
			{"index":{"_id":"b","status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse"}}}
		]}`))
	})

	ops := []BulkOp{
		{Action: ActionIndex, Index: "live_news", ID: "a", Body: []byte(`{}`)},
		{Action: ActionIndex, Index: "live_news", ID: "b", Body: []byte(`{}`)},
	}
	result, err := client.Bulk(context.Background(), ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Errors {
		t.Error("Errors = false, want true")
	}
	if result.Items[0].Reason != "" {
		t.Errorf("item a reason = %q, want empty", result.Items[0].Reason)
	}
	if want := "mapper_parsing_exception: failed to parse"; result.Items[1].Reason != want {
		t.Errorf("item b reason = %q, want %q", result.Items[1].Reason, want)
	}
}

func TestBulk_IndexActionRequiresBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid ops")
	})

	_, err := client.Bulk(context.Background(), []BulkOp{{Action: ActionIndex, Index: "x", ID: "a"}})
	if err == nil {
		t.Fatal("expected error for index action without body")
	}
}

func TestSearch_ParsesHitsAndTotal(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":37},"hits":[
			{"_id":"a","_index":"live_news","_source":{"title":"x"}}
		]}}`))
	})

	result, err := client.Search(context.Background(), []string{"live_news"}, []byte(`{"query":{"match_all":{}}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(gotPath, "/live_news/") {
		t.Errorf("path = %q, want index-scoped search", gotPath)
	}
	if result.Total != 37 {
		t.Errorf("Total = %d, want 37", result.Total)
	}
	if len(result.Hits) != 1 || result.Hits[0].ID != "a" || result.Hits[0].Index != "live_news" {
		t.Errorf("hits = %+v", result.Hits)
	}
	if result.Hits[0].Source["title"] != "x" {
		t.Errorf("source = %+v", result.Hits[0].Source)
	}
}

func TestSearch_EngineErrorSurfacesReason(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"parsing_exception","reason":"unknown query"}}`))
	})

	_, err := client.Search(context.Background(), nil, []byte(`{}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unknown query") {
		t.Errorf("error = %v, want engine reason included", err)
	}
}

func TestDeleteByQuery_ReturnsDeletedCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"deleted":12}`))
	})

	n, err := client.DeleteByQuery(context.Background(), "live_news", []byte(`{"query":{"match_all":{}}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 12 {
		t.Errorf("deleted = %d, want 12", n)
	}
}
