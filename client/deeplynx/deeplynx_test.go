package deeplynx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"deeplynx-stats/config"
	"deeplynx-stats/utils"
)

func testServer(t *testing.T, envelope any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			if r.Header.Get("x-api-key") != "key" || r.Header.Get("x-api-secret") != "secret" {
				http.Error(w, "bad credentials", http.StatusUnauthorized)
				return
			}
			// Deep Lynx wraps the token in quotes.
			_, _ = w.Write([]byte(`"tok-123"`))
		case "/containers/c1/data":
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			var payload struct {
				Query string `json:"query"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Query == "" {
				http.Error(w, "bad payload", http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(envelope)
		default:
			http.NotFound(w, r)
		}
	}))
}

func testConfig(url string) *config.Config {
	return &config.Config{
		DeepLynxURL:    url,
		ContainerID:    "c1",
		APIKey:         "key",
		APISecret:      "secret",
		ShapeFilter:    6,
		CompFilter:     "N",
		MaxRetries:     1,
		HTTPTimeoutSec: 5,
	}
}

func TestQueryProducts(t *testing.T) {
	envelope := map[string]any{
		"data": map[string]any{
			"metatypes": map[string]any{
				"Product": []map[string]any{
					{"HasP": "L1", "HasD": "10"},
				},
			},
		},
	}
	srv := testServer(t, envelope)
	defer srv.Close()

	c := New(testConfig(srv.URL), utils.NewLogger())
	result, err := c.QueryProducts()
	if err != nil {
		t.Fatalf("QueryProducts: %v", err)
	}

	products := result.Entities("Product")
	if len(products) != 1 {
		t.Fatalf("got %d products, want 1", len(products))
	}
	if products[0]["HasP"] != "L1" {
		t.Errorf("HasP: got %v, want L1", products[0]["HasP"])
	}
}

func TestQueryDegradedEnvelope(t *testing.T) {
	srv := testServer(t, map[string]any{"data": map[string]any{}})
	defer srv.Close()

	c := New(testConfig(srv.URL), utils.NewLogger())
	result, err := c.Query(lotQuery("01-52"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got := result.Entities("Lot"); len(got) != 0 {
		t.Errorf("got %d lots from empty envelope, want 0", len(got))
	}
}

func TestQueryLotsSkipsFailedKeys(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			_, _ = w.Write([]byte("tok-123"))
			return
		}
		calls++
		if calls == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"metatypes":{"Lot":[{"hasP":"B"}]}}}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), utils.NewLogger())
	results := c.QueryLots([]string{"A", "B"})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (failed key skipped)", len(results))
	}
	if lots := results[0].Entities("Lot"); len(lots) != 1 || lots[0]["hasP"] != "B" {
		t.Errorf("unexpected surviving result: %v", lots)
	}
}
