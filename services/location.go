package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type geocodeResponse struct {
	State string `json:"state"`
}

// VerifyLocation resolves a coordinate pair to a two-letter region code via
// the external geocoding API. Returns ErrRegionNotFound when the provider
// cannot place the coordinates in a supported region.
func VerifyLocation(latitude, longitude float64) (string, error) {
	url := os.Getenv("GEOCODE_URL")
	if url == "" {
		return "", fmt.Errorf("GEOCODE_URL is not configured")
	}

	payload := map[string]float64{
		"latitude":  latitude,
		"longitude": longitude,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %v", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrRegionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode provider returned status %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %v", err)
	}

	var geo geocodeResponse
	if err := json.Unmarshal(bodyBytes, &geo); err != nil {
		return "", fmt.Errorf("failed to parse response JSON: %v", err)
	}
	if geo.State == "" {
		return "", ErrRegionNotFound
	}
	return geo.State, nil
}
