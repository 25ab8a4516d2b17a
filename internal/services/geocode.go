package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// GeocodeResult is a normalized address with coordinates as returned by the
// geocoding collaborator.
type GeocodeResult struct {
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	Latitude  float64
	Longitude float64
}

// Geocoder resolves free-text addresses against a Nominatim-compatible
// endpoint. Consumed only at listing create/edit time.
type Geocoder struct {
	endpoint string
	client   *http.Client
}

func NewGeocoder() *Geocoder {
	endpoint := os.Getenv("GEOCODER_URL")
	if endpoint == "" {
		endpoint = "https://nominatim.openstreetmap.org/search"
	}
	return &Geocoder{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResult struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Address struct {
		HouseNumber string `json:"house_number"`
		Road        string `json:"road"`
		City        string `json:"city"`
		Town        string `json:"town"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
		Country     string `json:"country"`
	} `json:"address"`
}

// Geocode resolves a free-text address into normalized components plus
// coordinates.
func (g *Geocoder) Geocode(ctx context.Context, query string) (*GeocodeResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "parkshare-backend")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding request failed with status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %v", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no geocoding result for %q", query)
	}

	r := results[0]
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocoding response: %v", err)
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocoding response: %v", err)
	}

	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}
	street := strings.TrimSpace(r.Address.HouseNumber + " " + r.Address.Road)

	return &GeocodeResult{
		Street:    street,
		City:      city,
		State:     r.Address.State,
		ZipCode:   r.Address.Postcode,
		Country:   r.Address.Country,
		Latitude:  lat,
		Longitude: lng,
	}, nil
}
