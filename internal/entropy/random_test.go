package entropy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSeedNonZero(t *testing.T) {
	for i := 0; i < 100; i++ {
		if s := Seed(); s <= 0 {
			t.Fatalf("Seed() = %d, want positive", s)
		}
	}
}

func TestNilClientFallsBack(t *testing.T) {
	var c *Client
	if c.Enabled() {
		t.Fatal("nil client should not be enabled")
	}
	if NewClient("") != nil {
		t.Fatal("empty key should yield nil client")
	}
	if c.Seed() <= 0 {
		t.Fatal("nil client should still produce a seed")
	}
}

func TestClientUsesPool(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req struct {
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Method != "generateIntegers" {
			t.Errorf("unexpected request %+v, %v", req, err)
		}
		w.Write([]byte(`{"jsonrpc":"2.0","result":{"random":{"data":[11,0,22]}},"id":1}`))
	}))
	defer srv.Close()

	c := NewClient("key")
	c.endpoint = srv.URL
	if got := c.Seed(); got != 11 {
		t.Fatalf("first seed %d, want 11", got)
	}
	if got := c.Seed(); got != 22 {
		t.Fatalf("second seed %d, want 22 (zero skipped)", got)
	}
	if calls != 1 {
		t.Fatalf("%d calls, want 1", calls)
	}
}

func TestClientAPIErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","error":{"message":"bad key"},"id":1}`))
	}))
	defer srv.Close()

	c := NewClient("key")
	c.endpoint = srv.URL
	if c.Seed() <= 0 {
		t.Fatal("expected crypto fallback seed")
	}
}
