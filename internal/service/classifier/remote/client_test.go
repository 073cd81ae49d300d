package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"medi-response-service/internal/service/classifier"
)

func TestClient_Classify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req classifyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Kind != classifier.KindRole {
			t.Errorf("expected kind role, got %q", req.Kind)
		}
		label := []int{1, 0}
		if req.Text == "Thank you doctor." {
			label = []int{0, 1}
		}
		_ = json.NewEncoder(w).Encode(classifyResp{Label: label})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/"})

	got, err := c.Classify(context.Background(), classifier.KindRole, "Thank you doctor.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != classifier.Relative {
		t.Errorf("expected relative, got %v", got)
	}

	got, err = c.Classify(context.Background(), classifier.KindRole, "He is stable.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != classifier.Doctor {
		t.Errorf("expected doctor, got %v", got)
	}
}

func TestClient_Classify_MalformedLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"label":[0.3,0.7,1]}`))
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Classify(context.Background(), classifier.KindRole, "x")
	if err == nil {
		t.Fatal("expected error for malformed label")
	}
}

func TestClient_Classify_WrongArity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"label":[0,1,0]}`))
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Classify(context.Background(), classifier.KindRole, "x")
	if !errors.Is(err, classifier.ErrMalformedLabel) {
		t.Fatalf("expected ErrMalformedLabel, got %v", err)
	}
}

func TestClient_Classify_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Classify(context.Background(), classifier.KindRole, "x")
	if err == nil {
		t.Fatal("expected error for 503")
	}
}
