package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

// fakeProber succeeds for ids in ok and records call order.
type fakeProber struct {
	ok    map[string]bool
	calls []string
}

func (p *fakeProber) Probe(_ context.Context, id string) (Model, error) {
	p.calls = append(p.calls, id)
	if !p.ok[id] {
		return Model{}, fmt.Errorf("model %s: 404 not found", id)
	}
	return Model{ID: id, Name: strings.ToUpper(id)}, nil
}

func TestGeminiFetcherPartialProbes(t *testing.T) {
	prober := &fakeProber{ok: map[string]bool{
		"gemini-2.5-pro":        true,
		"gemini-2.5-flash-lite": true,
		"gemini-2.0-flash-lite": true,
	}}

	models, err := NewGeminiFetcher(prober, nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	var ids []string
	for _, m := range models {
		ids = append(ids, m.ID)
		if m.Description != geminiDefaultDescription {
			t.Errorf("%s: description = %q, want default", m.ID, m.Description)
		}
	}
	want := []string{"gemini-2.5-pro", "gemini-2.5-flash-lite", "gemini-2.0-flash-lite"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if !reflect.DeepEqual(prober.calls, GeminiCandidates) {
		t.Errorf("probe order = %v, want %v", prober.calls, GeminiCandidates)
	}
}

func TestGeminiFetcherNoneAvailable(t *testing.T) {
	models, err := NewGeminiFetcher(&fakeProber{}, nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("all probes failing must not be an error, got %v", err)
	}
	if models == nil || len(models) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", models)
	}
}

func TestGeminiFetcherCustomCandidates(t *testing.T) {
	prober := ProberFunc(func(_ context.Context, id string) (Model, error) {
		return Model{}, nil
	})
	models, err := NewGeminiFetcher(prober, []string{"gemini-exp", "gemini-exp"}).Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []Model{{ID: "gemini-exp", Name: "gemini-exp", Description: geminiDefaultDescription}}
	if !reflect.DeepEqual(models, want) {
		t.Errorf("got %+v, want %+v", models, want)
	}
}

func TestGeminiFetcherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGeminiFetcher(&fakeProber{}, nil).Fetch(ctx)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestGenaiProber(t *testing.T) {
	available := map[string]string{
		"gemini-2.5-flash": `{"name":"models/gemini-2.5-flash","displayName":"Gemini 2.5 Flash","description":"Fast and versatile"}`,
		"gemini-2.0-flash": `{"name":"models/gemini-2.0-flash","displayName":"Gemini 2.0 Flash"}`,
	}
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		i := strings.LastIndex(r.URL.Path, "/models/")
		if i >= 0 {
			if body, ok := available[r.URL.Path[i+len("/models/"):]]; ok {
				_, _ = w.Write([]byte(body))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"model not found","status":"NOT_FOUND"}}`))
	}))
	defer srv.Close()

	prober, err := NewGenaiProber(context.Background(), "test-key", srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewGenaiProber: %v", err)
	}

	models, err := NewGeminiFetcher(prober, nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := []Model{
		{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Description: "Fast and versatile"},
		{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Description: geminiDefaultDescription},
	}
	if !reflect.DeepEqual(models, want) {
		t.Errorf("models:\n got %+v\nwant %+v", models, want)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
}

func TestGenaiProberRequiresKey(t *testing.T) {
	if _, err := NewGenaiProber(context.Background(), "", "", time.Second); err == nil {
		t.Error("expected error for empty API key")
	}
}
