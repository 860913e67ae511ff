package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	fsqBaseURL    = "https://places-api.foursquare.com"
	fsqAPIVersion = "2025-06-17"

	// 13065 is Foursquare's "Restaurants" category.
	fsqDefaultCategories = "13065"
)

// Foursquare searches the Foursquare Places API.
type Foursquare struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewFoursquare creates a Foursquare adapter. The API key is required;
// a missing key fails here rather than at first use.
func NewFoursquare(apiKey string) (*Foursquare, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("missing FOURSQUARE_API_KEY")
	}
	return &Foursquare{
		client:  &http.Client{Timeout: 20 * time.Second},
		apiKey:  apiKey,
		baseURL: fsqBaseURL,
	}, nil
}

func (f *Foursquare) Name() string { return "foursquare" }

func (f *Foursquare) Search(ctx context.Context, q Query) ([]Place, error) {
	radius := q.RadiusM
	if radius < 1 {
		radius = 1
	}
	if radius > 50000 {
		radius = 50000
	}
	limit := q.Limit
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}
	categories := q.Categories
	if categories == "" {
		categories = fsqDefaultCategories
	}

	params := url.Values{}
	params.Set("ll", fmt.Sprintf("%f,%f", q.Lat, q.Lng))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "RELEVANCE")
	params.Set("categories", categories)
	// Request explicit fields so geocodes are guaranteed in the payload.
	params.Set("fields", "fsq_id,name,geocodes,categories,price,location")

	query := strings.Join(q.Terms, " ")
	if query != "" {
		params.Set("query", query)
	}
	if len(q.Prices) > 0 {
		var prices []string
		for _, p := range q.Prices {
			prices = append(prices, strconv.Itoa(p))
		}
		params.Set("price", strings.Join(prices, ","))
	}

	reqURL := f.baseURL + "/places/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create foursquare request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Places-Api-Version", fsqAPIVersion)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch foursquare places: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Header: resp.Header}
	}

	var result fsqSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode foursquare response: %w", err)
	}

	var places []Place
	for _, b := range result.Results {
		lat, lng := b.coords()

		var cats []string
		for _, c := range b.Categories {
			if c.Name != "" {
				cats = append(cats, c.Name)
			}
		}

		halal := false
		for _, c := range cats {
			if strings.Contains(strings.ToLower(c), "halal") {
				halal = true
				break
			}
		}

		menu := query
		if len(cats) > 0 {
			if len(cats) > 8 {
				cats = cats[:8]
			}
			menu = strings.Join(cats, "|")
		}

		neighborhood := b.Location.Locality
		if neighborhood == "" {
			neighborhood = "DFW"
		}

		places = append(places, Place{
			Source:       "foursquare",
			ExternalID:   b.FsqID,
			Name:         b.Name,
			Lat:          lat,
			Lng:          lng,
			PriceTier:    b.Price,
			Halal:        halal,
			Menu:         menu,
			Neighborhood: neighborhood,
		})
	}

	return places, nil
}

type fsqSearchResult struct {
	Results []fsqPlace `json:"results"`
}

type fsqPlace struct {
	FsqID      string        `json:"fsq_id"`
	Name       string        `json:"name"`
	Geocodes   fsqGeocodes   `json:"geocodes"`
	Categories []fsqCategory `json:"categories"`
	Price      *int          `json:"price"`
	Location   fsqLocation   `json:"location"`
}

type fsqGeocodes struct {
	Main      *fsqPoint `json:"main"`
	Roof      *fsqPoint `json:"roof"`
	DropOff   *fsqPoint `json:"drop_off"`
	FrontDoor *fsqPoint `json:"front_door"`
	Road      *fsqPoint `json:"road"`
}

type fsqPoint struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type fsqCategory struct {
	Name string `json:"name"`
}

type fsqLocation struct {
	Locality  string   `json:"locality"`
	Lat       *float64 `json:"lat"`
	Latitude  *float64 `json:"latitude"`
	Lng       *float64 `json:"lng"`
	Longitude *float64 `json:"longitude"`
}

// coords tries the geocode sub-keys in priority order before falling
// back to a flat point under location (rare in practice).
func (b fsqPlace) coords() (*float64, *float64) {
	for _, g := range []*fsqPoint{
		b.Geocodes.Main, b.Geocodes.Roof, b.Geocodes.DropOff,
		b.Geocodes.FrontDoor, b.Geocodes.Road,
	} {
		if g != nil && g.Latitude != nil && g.Longitude != nil {
			return g.Latitude, g.Longitude
		}
	}

	lat := b.Location.Lat
	if lat == nil {
		lat = b.Location.Latitude
	}
	lng := b.Location.Lng
	if lng == nil {
		lng = b.Location.Longitude
	}
	if lat != nil && lng != nil {
		return lat, lng
	}
	return nil, nil
}
