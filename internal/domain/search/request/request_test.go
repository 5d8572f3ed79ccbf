package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/circuitdex/internal/domain"
	"github.com/kailas-cloud/circuitdex/internal/domain/search/mode"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("counter", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "counter" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Mode() != mode.Hybrid {
		t.Errorf("Mode() = %q, want hybrid (default)", r.Mode())
	}
	if r.TopK() != DefaultTopK {
		t.Errorf("TopK() = %d, want %d", r.TopK(), DefaultTopK)
	}
}

func TestNew_EmptyQueryAllowed(t *testing.T) {
	r, err := New("", mode.Lexical, 5)
	if err != nil {
		t.Fatalf("empty query must be accepted: %v", err)
	}
	if r.Query() != "" || r.TopK() != 5 {
		t.Errorf("unexpected request %+v", r)
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("x", MaxQueryLength+1), mode.Hybrid, 10)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if !strings.Contains(err.Error(), "too long") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_QueryAtMaxLength(t *testing.T) {
	if _, err := New(strings.Repeat("x", MaxQueryLength), mode.Hybrid, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_InvalidMode(t *testing.T) {
	_, err := New("query", "semantic", 10)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid search mode") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_TopK(t *testing.T) {
	tests := []struct {
		name     string
		topK     int
		wantTopK int
		wantErr  bool
	}{
		{"negative", -1, 0, true},
		{"zero", 0, DefaultTopK, false},
		{"one", 1, 1, false},
		{"normal", 50, 50, false},
		{"api max", MaxTopK, MaxTopK, false},
		{"above api max is kept", 1000, 1000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New("q", mode.Hybrid, tt.topK)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidRequest) {
					t.Fatalf("expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.TopK() != tt.wantTopK {
				t.Errorf("TopK() = %d, want %d", r.TopK(), tt.wantTopK)
			}
		})
	}
}
