package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifyLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Latitude == 0 && req.Longitude == 0 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"state": "NJ"})
	}))
	defer srv.Close()
	t.Setenv("GEOCODE_URL", srv.URL)

	state, err := VerifyLocation(40.0, -74.5)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if state != "NJ" {
		t.Errorf("expected NJ, got %s", state)
	}

	if _, err := VerifyLocation(0, 0); !errors.Is(err, ErrRegionNotFound) {
		t.Errorf("expected ErrRegionNotFound, got %v", err)
	}
}

func TestVerifyLocationUnconfigured(t *testing.T) {
	t.Setenv("GEOCODE_URL", "")
	if _, err := VerifyLocation(1, 2); err == nil {
		t.Error("expected error when GEOCODE_URL is unset")
	}
}
