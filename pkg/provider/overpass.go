package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	overpassURL       = "https://overpass-api.de/api/interpreter"
	overpassUserAgent = "forkfilter/0.1 (https://github.com/forkfilter/forkfilter)"

	overpassAmenities = "restaurant|fast_food|cafe|food_court|ice_cream|bar"
)

// Overpass searches OpenStreetMap through the Overpass API.
type Overpass struct {
	client  *http.Client
	baseURL string
}

// NewOverpass creates an Overpass adapter.
func NewOverpass() *Overpass {
	return &Overpass{
		client:  &http.Client{Timeout: 40 * time.Second},
		baseURL: overpassURL,
	}
}

func (o *Overpass) Name() string { return "osm" }

func (o *Overpass) Search(ctx context.Context, q Query) ([]Place, error) {
	ql := fmt.Sprintf(`
[out:json][timeout:25];
(
  node["amenity"~"%[1]s"](around:%[2]d,%[3]f,%[4]f);
  way["amenity"~"%[1]s"](around:%[2]d,%[3]f,%[4]f);
);
out center;
`, overpassAmenities, q.RadiusM, q.Lat, q.Lng)

	form := url.Values{"data": {ql}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", overpassUserAgent)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch overpass: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Header: resp.Header}
	}

	var result overpassResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	var terms []string
	for _, t := range q.Terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 80
	}

	var places []Place
	for _, el := range result.Elements {
		tags := el.Tags
		name := tags["name"]
		cuisine := tags["cuisine"]

		halalTag := tags["diet:halal"]
		if halalTag == "" {
			halalTag = tags["halal"]
		}
		halal := isYes(halalTag)

		var lat, lng *float64
		if el.Type == "node" {
			lat, lng = el.Lat, el.Lon
		} else if el.Center != nil {
			lat, lng = el.Center.Lat, el.Center.Lon
		}

		// Soft cuisine filter: keep rows whose name or cuisine tag
		// mentions at least one requested term.
		if len(terms) > 0 {
			blob := strings.ToLower(name + " " + cuisine)
			matched := false
			for _, t := range terms {
				if strings.Contains(blob, t) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}

		website := tags["website"]
		if website == "" {
			website = tags["contact:website"]
		}
		phone := tags["contact:phone"]
		if phone == "" {
			phone = tags["phone"]
		}

		desc := tags["description"]
		if desc == "" {
			desc = synthDescription(cuisine, halal, tags["opening_hours"])
		}

		if name == "" {
			name = "Unnamed"
		}

		places = append(places, Place{
			Source:       "osm",
			ExternalID:   fmt.Sprintf("osm:%s:%d", el.Type, el.ID),
			Name:         name,
			Lat:          lat,
			Lng:          lng,
			Halal:        halal,
			Menu:         cuisine,
			Neighborhood: "DFW",
			Description:  desc,
			Website:      website,
			Phone:        phone,
			OpeningHours: tags["opening_hours"],
		})
		if len(places) >= limit {
			break
		}
	}

	return places, nil
}

// synthDescription builds a short description from OSM tags when no
// explicit description tag exists.
func synthDescription(cuisine string, halal bool, openingHours string) string {
	var parts []string
	if cuisine != "" {
		parts = append(parts, strings.ReplaceAll(cuisine, ";", ", "))
	}
	if halal {
		parts = append(parts, "Halal-friendly")
	}
	if openingHours != "" {
		parts = append(parts, "Hours: "+openingHours)
	}
	return strings.Join(parts, " • ")
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true
	}
	return false
}

type overpassResult struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}
