package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"trainee_portal_backend/internal/config"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/repository"
	"trainee_portal_backend/internal/util"
)

func TestFilterFormula(t *testing.T) {
	tests := []struct {
		name string
		c    repository.Criteria
		want string
	}{
		{"empty", repository.Criteria{}, ""},
		{"single", repository.Criteria{Equals: map[string]interface{}{"trainee_slug": "krishna-patel"}},
			`{trainee_slug} = "krishna-patel"`},
		{"pair sorted by field", repository.Criteria{Equals: map[string]interface{}{"trainee_slug": "k", "exam_id": "e"}},
			`AND({exam_id} = "e", {trainee_slug} = "k")`},
		{"range", repository.Criteria{
			Equals: map[string]interface{}{"trainee_slug": "k"},
			Ranges: []repository.Range{{Field: "date", From: "2026-03-02", To: "2026-03-06"}},
		}, `AND({trainee_slug} = "k", {date} >= "2026-03-02", {date} <= "2026-03-06")`},
		{"quotes escaped", repository.Criteria{Equals: map[string]interface{}{"trainee_slug": `a"b`}},
			`{trainee_slug} = "a\"b"`},
		{"bool", repository.Criteria{Equals: map[string]interface{}{"passed": true}}, `{passed} = TRUE()`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.FilterFormula(tt.c); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

type fakeAirtable struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
	handler  func(w http.ResponseWriter, r *http.Request, body string)
}

func (f *fakeAirtable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.bodies = append(f.bodies, string(b))
	f.mu.Unlock()
	f.handler(w, r, string(b))
}

func newAirtable(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body string)) (*repository.AirtableStore, *fakeAirtable) {
	t.Helper()
	fake := &fakeAirtable{handler: handler}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	store := repository.NewAirtableStore(config.AirtableConfig{
		BaseURL: srv.URL, APIKey: "key123", BaseID: "appBase", ProgressTable: "Progress",
	}, 5*time.Second)
	return store, fake
}

func TestAirtableStore_FindFollowsOffset(t *testing.T) {
	store, fake := newAirtable(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		if r.URL.Query().Get("offset") == "" {
			io.WriteString(w, `{"records":[{"id":"rec1","createdTime":"2026-03-02T00:00:00.000Z","fields":{"date":"2026-03-02","calls":10}}],"offset":"itr1"}`)
			return
		}
		io.WriteString(w, `{"records":[{"id":"rec2","fields":{"date":"2026-03-03","calls":12}}]}`)
	})

	records, err := store.Find(context.Background(), "DailyActivity", repository.Criteria{
		Equals:    map[string]interface{}{"trainee_slug": "krishna-patel"},
		SortField: "date",
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(records) != 2 || records[1].ID != "rec2" {
		t.Fatalf("unexpected records %+v", records)
	}

	first := fake.requests[0]
	if first.URL.Path != "/appBase/DailyActivity" {
		t.Errorf("path = %s", first.URL.Path)
	}
	if got := first.Header.Get("Authorization"); got != "Bearer key123" {
		t.Errorf("authorization = %q", got)
	}
	if got := first.URL.Query().Get("filterByFormula"); got != `{trainee_slug} = "krishna-patel"` {
		t.Errorf("formula = %q", got)
	}
	if got := first.URL.Query().Get("sort[0][field]"); got != "date" {
		t.Errorf("sort field = %q", got)
	}
}

func TestAirtableStore_CreateAndUpdate(t *testing.T) {
	store, fake := newAirtable(t, func(w http.ResponseWriter, r *http.Request, body string) {
		io.WriteString(w, `{"id":"recNew","fields":{"trainee_slug":"krishna-patel"}}`)
	})
	ctx := context.Background()

	rec, err := store.Create(ctx, "Progress", map[string]interface{}{"trainee_slug": "krishna-patel"})
	if err != nil || rec.ID != "recNew" {
		t.Fatalf("Create: %v %+v", err, rec)
	}
	if _, err := store.Update(ctx, "Progress", "recNew", map[string]interface{}{"overall_progress": 40}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if fake.requests[0].Method != http.MethodPost || fake.requests[1].Method != http.MethodPatch {
		t.Errorf("methods = %s, %s", fake.requests[0].Method, fake.requests[1].Method)
	}
	if fake.requests[1].URL.Path != "/appBase/Progress/recNew" {
		t.Errorf("update path = %s", fake.requests[1].URL.Path)
	}
	var payload struct {
		Fields map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(fake.bodies[1]), &payload); err != nil || payload.Fields["overall_progress"] != float64(40) {
		t.Errorf("update body = %s", fake.bodies[1])
	}
}

func TestAirtableStore_ErrorStatusBecomesUpstream(t *testing.T) {
	store, _ := newAirtable(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"error":{"type":"INVALID_FILTER_BY_FORMULA"}}`)
	})

	_, err := store.Find(context.Background(), "Progress", repository.Criteria{})
	if err == nil || !strings.Contains(err.Error(), "INVALID_FILTER_BY_FORMULA") {
		t.Fatalf("expected API error, got %v", err)
	}

	repo := repository.NewProgressRepository(store, "Progress")
	if _, err := repo.Fetch(context.Background(), "krishna-patel"); !errors.Is(err, util.ErrUpstreamUnavailable) {
		t.Errorf("repository must translate to ErrUpstreamUnavailable, got %v", err)
	}
}

func TestAirtableStore_ProgressFieldsAreJSONStrings(t *testing.T) {
	store, fake := newAirtable(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		if r.Method == http.MethodGet {
			io.WriteString(w, `{"records":[]}`)
			return
		}
		io.WriteString(w, `{"id":"recP"}`)
	})
	repo := repository.NewProgressRepository(store, "Progress")
	snap := model.NewProgressSnapshot("krishna-patel", "Krishna Patel", time.Date(2026, 3, 2, 1, 2, 3, 456789000, time.UTC))
	snap.CheckedItems["m1-item1"] = true

	if err := repo.Push(context.Background(), snap); err != nil {
		t.Fatalf("Push: %v", err)
	}

	var payload struct {
		Fields map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(fake.bodies[1]), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Fields["checked_items"] != `{"m1-item1":true}` {
		t.Errorf("checked_items = %#v", payload.Fields["checked_items"])
	}
	if payload.Fields["last_updated"] != "2026-03-02T01:02:03.456Z" {
		t.Errorf("last_updated = %v", payload.Fields["last_updated"])
	}
}
