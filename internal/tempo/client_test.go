package tempo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWorklogs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("from"); got != "2026-01-11" {
			t.Errorf("from = %q", got)
		}
		fmt.Fprint(w, `{
			"results": [
				{"id": "1", "author": {"accountId": "u1", "displayName": "Alice"}, "timeSpentSeconds": 3600, "billableSeconds": 1800, "description": "ALPHA-1: work"}
			],
			"metadata": {}
		}`)
	}))
	defer server.Close()

	client := NewClient("token-123", server.URL, nil)

	got, err := client.Worklogs(context.Background(), "2026-01-11", "2026-01-17")
	if err != nil {
		t.Fatalf("Worklogs failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("worklogs = %d, want 1", len(got))
	}
	if got[0].Author.AccountID != "u1" || got[0].TimeSpentSeconds != 3600 {
		t.Errorf("unexpected worklog: %+v", got[0])
	}
}

func TestWorklogs_Pagination(t *testing.T) {
	page := 0
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page++
		next := ""
		if page == 1 {
			next = server.URL + "/worklogs?offset=1000"
		}
		resp := map[string]any{
			"results":  []map[string]any{{"id": fmt.Sprintf("%d", page), "timeSpentSeconds": 3600}},
			"metadata": map[string]any{"next": next},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("token", server.URL, nil)

	got, err := client.Worklogs(context.Background(), "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("Worklogs failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("worklogs = %d, want 2 across pages", len(got))
	}
}

func TestPlans_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"results": [{"id": "p1", "assignee": {"accountId": "u1"}, "totalPlannedSecondsInScope": 28800}], "metadata": {}}`)
	}))
	defer server.Close()

	client := NewClient("token", server.URL, nil)

	got, err := client.Plans(context.Background(), "2026-01-11", "2026-01-17")
	if err != nil {
		t.Fatalf("Plans failed after retry: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if len(got) != 1 || got[0].TotalPlannedSeconds != 28800 {
		t.Errorf("unexpected plans: %+v", got)
	}
}

func TestPlans_ClientErrorIsNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("bad-token", server.URL, nil)

	_, err := client.Plans(context.Background(), "2026-01-11", "2026-01-17")
	if err == nil {
		t.Fatal("expected an error for status 401")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (4xx is terminal)", attempts)
	}
}

func TestAccountMatching(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		userID  string
		want    bool
	}{
		{"accountId match", Account{AccountID: "u1"}, "u1", true},
		{"accountId mismatch", Account{AccountID: "u1"}, "u2", false},
		{"legacy id match", Account{ID: "old-1"}, "old-1", true},
		{"accountId preferred over legacy id", Account{AccountID: "u1", ID: "u2"}, "u2", false},
		{"empty account", Account{}, "u1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.account.Matches(tt.userID); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}
