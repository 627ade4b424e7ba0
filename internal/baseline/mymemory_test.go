package baseline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/valpere/lingoval/internal/lang"
)

func spanish(t *testing.T) lang.Language {
	t.Helper()
	l, err := lang.Parse("Spanish")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return l
}

func TestMyMemory_Name(t *testing.T) {
	s := NewMyMemory("")
	if s.Name() != "mymemory" {
		t.Errorf("expected 'mymemory', got %q", s.Name())
	}
}

func TestMyMemory_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("langpair"); got != "en|es" {
			t.Errorf("expected langpair en|es, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"responseData":   map[string]any{"translatedText": "Hola mundo"},
			"responseStatus": 200,
		})
	}))
	defer server.Close()

	s := &MyMemory{baseURL: server.URL, client: server.Client()}

	got, err := s.Translate(context.Background(), "Hello world", spanish(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hola mundo" {
		t.Errorf("expected 'Hola mundo', got %q", got)
	}
}

func TestMyMemory_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"responseData":    map[string]any{"translatedText": ""},
			"responseStatus":  429,
			"responseDetails": "quota exceeded",
		})
	}))
	defer server.Close()

	s := &MyMemory{baseURL: server.URL, client: server.Client()}

	_, err := s.Translate(context.Background(), "Hello world", spanish(t))
	if err == nil {
		t.Fatal("expected error for API failure")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestMyMemory_EmptyTranslation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"responseData":   map[string]any{"translatedText": "  "},
			"responseStatus": 200,
		})
	}))
	defer server.Close()

	s := &MyMemory{baseURL: server.URL, client: server.Client()}

	_, err := s.Translate(context.Background(), "Hello world", spanish(t))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for empty result, got %v", err)
	}
}

func TestMyMemory_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	s := &MyMemory{baseURL: server.URL, client: http.DefaultClient}

	_, err := s.Translate(context.Background(), "Hello world", spanish(t))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for network failure, got %v", err)
	}
}

func TestMyMemory_ChunksLongText(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{
			"responseData":   map[string]any{"translatedText": "parte"},
			"responseStatus": 200,
		})
	}))
	defer server.Close()

	s := &MyMemory{baseURL: server.URL, client: server.Client()}

	long := ""
	for i := 0; i < 60; i++ {
		long += "this is a fairly long sentence. "
	}
	got, err := s.Translate(context.Background(), long, spanish(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls < 2 {
		t.Errorf("expected multiple chunked requests, got %d", calls)
	}
	if got == "" {
		t.Error("expected joined translation")
	}
}
