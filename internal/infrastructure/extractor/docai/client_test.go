package docai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/legallens/legal-lens/internal/core/domain"
	"github.com/legallens/legal-lens/internal/infrastructure/extractor/fallback"
)

func TestExtractRemoteAveragesTokenConfidences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/process" {
			http.NotFound(w, r)
			return
		}
		var req processRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ProcessorID != "proc-1" {
			t.Fatalf("unexpected processor id %q", req.ProcessorID)
		}
		_ = json.NewEncoder(w).Encode(processResponse{
			Text:             "This lease agreement binds landlord and tenant to the rent terms herein.",
			TokenConfidences: []float64{0.9, 0.8, 1.0},
		})
	}))
	defer server.Close()

	extractor := New(server.URL, "proc-1", "", time.Second, nil, fallback.New())
	result, err := extractor.Extract(context.Background(), []byte("raw"), "application/pdf")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Confidence < 0.899 || result.Confidence > 0.901 {
		t.Fatalf("expected averaged confidence 0.9, got %.3f", result.Confidence)
	}
	if result.DocumentType != domain.TypeLeaseAgreement {
		t.Fatalf("expected LEASE_AGREEMENT, got %s", result.DocumentType)
	}
}

func TestExtractRemoteDefaultConfidenceWithoutTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(processResponse{Text: "plain content"})
	}))
	defer server.Close()

	extractor := New(server.URL, "proc-1", "", time.Second, nil, fallback.New())
	result, err := extractor.Extract(context.Background(), []byte("raw"), "text/plain")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Confidence != defaultRemoteConfidence {
		t.Fatalf("expected default confidence %.2f, got %.2f", defaultRemoteConfidence, result.Confidence)
	}
}

func TestExtractDemotesToFallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "processor exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	extractor := New(server.URL, "proc-1", "", time.Second, nil, fallback.New())
	payload := []byte("This lease agreement binds landlord and tenant. Rent and deposit terms included in the contract.")
	result, err := extractor.Extract(context.Background(), payload, "text/plain")
	if err != nil {
		t.Fatalf("expected degradation not error, got %v", err)
	}
	if result.Confidence != 0.5 {
		t.Fatalf("expected fallback confidence 0.5, got %.2f", result.Confidence)
	}
	if result.Text != string(payload) {
		t.Fatalf("expected fallback passthrough text")
	}
}

func TestExtractUnconfiguredGoesStraightToFallback(t *testing.T) {
	extractor := New("", "", "", time.Second, nil, fallback.New())
	result, err := extractor.Extract(context.Background(), []byte("plain note about the weather"), "text/plain")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Confidence != 0.5 {
		t.Fatalf("expected fallback confidence, got %.2f", result.Confidence)
	}
}
