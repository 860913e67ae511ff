package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/forkfilter/forkfilter/internal/store"
	"github.com/forkfilter/forkfilter/pkg/search"
)

// Dallas is the default search origin.
const (
	defaultLat      = 32.7767
	defaultLng      = -96.7970
	defaultRadiusKm = 5.0

	defaultEnrichLimit = 120

	clientCookie = "ff_client"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := parseFloat(q.Get("lat"), defaultLat)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lat")
		return
	}
	lng, err := parseFloat(q.Get("lng"), defaultLng)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lng")
		return
	}
	radiusKm, err := parseFloat(q.Get("radius_km"), defaultRadiusKm)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid radius_km")
		return
	}

	opts := search.Options{
		Lat:        lat,
		Lng:        lng,
		RadiusKm:   radiusKm,
		Terms:      search.ParseMenuTerms(q.Get("terms")),
		Prices:     search.ParsePrices(q.Get("prices")),
		HalalOnly:  search.Truthy(q.Get("halal")),
		BusyLevels: search.ParseBusyLevels(q.Get("busy")),
		Page:       intOr(q.Get("page"), 1),
		PerPage:    intOr(q.Get("per_page"), 0),
	}

	if search.Truthy(q.Get("enrich")) {
		opts.Enrich = true
		opts.EnrichLimit = intOr(q.Get("enrich_limit"), defaultEnrichLimit)
	}

	result, err := s.engine.Search(r.Context(), opts)
	if err != nil {
		s.log.Error().Err(err).Msg("search failed")
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":     result.Items,
		"count":    len(result.Items),
		"total":    result.Total,
		"page":     result.Page,
		"per_page": result.PerPage,
		"has_more": result.HasMore,
	})
}

func (s *Server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	rid, ok := restaurantID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "restaurant_id required")
		return
	}

	if _, err := s.store.GetRestaurant(r.Context(), rid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown restaurant")
			return
		}
		s.log.Error().Err(err).Int64("restaurant_id", rid).Msg("checkin lookup failed")
		writeError(w, http.StatusInternalServerError, "checkin failed")
		return
	}

	clientID := s.clientID(w, r)
	if ok, remaining := s.gate.Allow(clientID, rid); !ok {
		minutes := int(math.Ceil(remaining.Minutes()))
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"status":              "cooldown",
			"notice":              "already checked in here, try again in " + strconv.Itoa(minutes) + " minutes",
			"retry_after_minutes": minutes,
		})
		return
	}

	if err := s.store.AddCheckin(r.Context(), rid, time.Now()); err != nil {
		s.log.Error().Err(err).Int64("restaurant_id", rid).Msg("checkin insert failed")
		writeError(w, http.StatusInternalServerError, "checkin failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":        "ok",
		"restaurant_id": rid,
	})
}

// restaurantID pulls the target restaurant from the URL param, form
// body, or JSON body, in that order.
func restaurantID(r *http.Request) (int64, bool) {
	if v := chi.URLParam(r, "restaurant_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil
	}

	if v := r.FormValue("restaurant_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil
	}

	var body struct {
		RestaurantID int64 `json:"restaurant_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.RestaurantID > 0 {
		return body.RestaurantID, true
	}
	return 0, false
}

// clientID identifies the caller through an anonymous cookie, issuing
// one on first contact.
func (s *Server) clientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(clientCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     clientCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func parseFloat(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseFloat(s, 64)
}

func intOr(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
