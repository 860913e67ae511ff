package provider

import (
	"context"
	"fmt"
	"net/http"
)

// Place is the standardized row shape every provider normalizes into.
// Lat, Lng and PriceTier are pointers because providers may omit them;
// rows without coordinates or a name are skipped at upsert time.
type Place struct {
	Source       string   `json:"source"`
	ExternalID   string   `json:"external_id"`
	Name         string   `json:"name"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	PriceTier    *int     `json:"price_tier"`
	Halal        bool     `json:"halal"`
	Menu         string   `json:"menu"`
	Neighborhood string   `json:"neighborhood"`
	Description  string   `json:"description,omitempty"`
	Website      string   `json:"website,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	OpeningHours string   `json:"opening_hours,omitempty"`
}

// Query describes a place search around a point.
type Query struct {
	Lat        float64
	Lng        float64
	RadiusM    int
	Terms      []string
	Prices     []int
	Categories string
	Limit      int
}

// Provider is the interface every place adapter implements.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]Place, error)
}

// HTTPError is returned for non-2xx provider responses. It keeps the
// response headers so the ingestion layer can honor rate-limit hints.
type HTTPError struct {
	StatusCode int
	Header     http.Header
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("provider API status %d", e.StatusCode)
}
