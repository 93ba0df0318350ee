package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/bazi-api/internal/bazi"
	"github.com/zapponejosh/bazi-api/internal/calendar"
	"github.com/zapponejosh/bazi-api/internal/config"
	"github.com/zapponejosh/bazi-api/internal/database"
	"github.com/zapponejosh/bazi-api/internal/logger"
	"github.com/zapponejosh/bazi-api/internal/solartime"
)

// Listing limits for GET /api/v1/profiles.
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db  *database.DB
	cfg *config.Config
	now func() time.Time
}

// NewHandlers creates a new Handlers instance reading the wall clock.
func NewHandlers(db *database.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		db:  db,
		cfg: cfg,
		now: time.Now,
	}
}

// SetClock replaces the clock the cycles are projected against.
func (h *Handlers) SetClock(now func() time.Time) {
	h.now = now
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		logger.Warn(ctx, "health check failed", "error", err)
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
		"time":   h.now().UTC().Format(time.RFC3339),
	})
}

// =============================================================================
// Charts
// =============================================================================

// CalculateChart handles POST /api/v1/charts?at=YYYY-MM-DDTHH:MM
//
// The body is a profile; it is not stored. at overrides the moment the
// cycles are projected against and is read in the profile's timezone.
func (h *Handlers) CalculateChart(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decodeProfile(w, r)
	if !ok {
		return
	}
	h.writeChart(w, r, p)
}

// GetProfileChart handles GET /api/v1/profiles/{id}/chart?at=YYYY-MM-DDTHH:MM
func (h *Handlers) GetProfileChart(w http.ResponseWriter, r *http.Request) {
	p, ctx, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	h.writeChart(w, r.WithContext(ctx), *p)
}

func (h *Handlers) writeChart(w http.ResponseWriter, r *http.Request, p bazi.Profile) {
	ctx := r.Context()

	now, err := h.referenceTime(r, p.TimeZone)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	chart, err := bazi.Calculate(p, now, bazi.Options{ResolveTenGods: h.cfg.ResolveTenGods})
	if err != nil {
		if errors.Is(err, solartime.ErrUnknownZone) {
			WriteBadRequest(w, err.Error())
			return
		}
		logger.Error(ctx, "failed to calculate chart", err)
		WriteInternalError(w, "Failed to calculate chart")
		return
	}

	logger.Debug(ctx, "chart calculated",
		"day_pillar", chart.FourPillars.Day.Name(),
		"correction_minutes", chart.Correction.Minutes,
	)
	WriteSuccess(w, chart)
}

// referenceTime returns the clock reading, or the "at" query parameter
// interpreted in zoneID.
func (h *Handlers) referenceTime(r *http.Request, zoneID string) (time.Time, error) {
	at := r.URL.Query().Get("at")
	if at == "" {
		return h.now(), nil
	}

	civil, err := calendar.ParseDateTime(at)
	if err != nil {
		return time.Time{}, fmt.Errorf("at: %w", err)
	}
	zone, err := solartime.LoadZone(zoneID)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(civil.Year(), civil.Month(), civil.Day(),
		civil.Hour(), civil.Minute(), civil.Second(), 0, zone.Location), nil
}

// =============================================================================
// Calendar
// =============================================================================

// GetSolarTerms handles GET /api/v1/solar-terms/{year}?month=M
func (h *Handlers) GetSolarTerms(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9998 {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s. Use 1-9998", chi.URLParam(r, "year")))
		return
	}

	if m := r.URL.Query().Get("month"); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil || month < 1 || month > 12 {
			WriteBadRequest(w, fmt.Sprintf("Invalid month: %s. Use 1-12", m))
			return
		}
		WriteSuccess(w, map[string]interface{}{
			"year":  year,
			"month": month,
			"terms": calendar.TermsForMonth(year, month),
		})
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"year":  year,
		"terms": calendar.TermsForYear(year),
	})
}

// GetLunarDate handles GET /api/v1/lunar/{YYYY-MM-DD}
func (h *Handlers) GetLunarDate(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")

	date, err := calendar.ParseDate(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	lunar, ok := calendar.ToLunar(date.Year(), int(date.Month()), date.Day())
	if !ok {
		WriteBadRequest(w, fmt.Sprintf("Invalid date: %s", dateStr))
		return
	}

	term, isTerm := calendar.TermOn(date)
	resp := map[string]interface{}{
		"date":  calendar.FormatDate(date),
		"lunar": lunar,
	}
	if isTerm {
		resp["solar_term"] = term.String()
	}
	WriteSuccess(w, resp)
}

// =============================================================================
// Profiles
// =============================================================================

// ListProfiles handles GET /api/v1/profiles?category=&q=&limit=&offset=
func (h *Handlers) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := database.ProfileFilter{
		Category: bazi.Category(q.Get("category")),
		Search:   q.Get("q"),
		Limit:    defaultListLimit,
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		WriteBadRequest(w, fmt.Sprintf("Invalid category: %s", filter.Category))
		return
	}

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 || limit > maxListLimit {
			WriteBadRequest(w, fmt.Sprintf("limit must be between 1 and %d", maxListLimit))
			return
		}
		filter.Limit = limit
	}
	if s := q.Get("offset"); s != "" {
		offset, err := strconv.Atoi(s)
		if err != nil || offset < 0 {
			WriteBadRequest(w, "offset must be a non-negative integer")
			return
		}
		filter.Offset = offset
	}

	profiles, err := h.db.ListProfiles(ctx, filter)
	if err != nil {
		logger.Error(ctx, "failed to list profiles", err)
		WriteInternalError(w, "Failed to retrieve profiles")
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"profiles": profiles,
		"count":    len(profiles),
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// CountProfiles handles GET /api/v1/profiles/counts
func (h *Handlers) CountProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.db.CountProfiles(ctx)
	if err != nil {
		logger.Error(ctx, "failed to count profiles", err)
		WriteInternalError(w, "Failed to count profiles")
		return
	}

	total := 0
	byCategory := make(map[string]int, len(bazi.ValidCategories()))
	for _, c := range bazi.ValidCategories() {
		byCategory[string(c)] = counts[c]
		total += counts[c]
	}

	WriteSuccess(w, map[string]interface{}{
		"total":       total,
		"by_category": byCategory,
	})
}

// CreateProfile handles POST /api/v1/profiles
func (h *Handlers) CreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := h.decodeProfile(w, r)
	if !ok {
		return
	}

	if err := h.db.CreateProfile(ctx, &p); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			WriteConflict(w, "A profile with this nickname, birth time and timezone already exists")
			return
		}
		logger.Error(ctx, "failed to create profile", err)
		WriteInternalError(w, "Failed to create profile")
		return
	}

	logger.Info(logger.WithProfileID(ctx, p.ID), "profile created",
		"category", string(p.Category),
	)
	WriteCreated(w, p)
}

// GetProfile handles GET /api/v1/profiles/{id}
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, _, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, p)
}

// UpdateProfile handles PUT /api/v1/profiles/{id}
//
// The body replaces every editable field of the profile.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	ctx := logger.WithProfileID(r.Context(), id)

	p, ok := h.decodeProfile(w, r)
	if !ok {
		return
	}
	p.ID = id

	if err := h.db.UpdateProfile(ctx, &p); err != nil {
		switch {
		case database.IsNotFound(err):
			WriteNotFound(w, "Profile not found")
		case errors.Is(err, database.ErrDuplicate):
			WriteConflict(w, "A profile with this nickname, birth time and timezone already exists")
		default:
			logger.Error(ctx, "failed to update profile", err)
			WriteInternalError(w, "Failed to update profile")
		}
		return
	}

	logger.Info(ctx, "profile updated")
	WriteSuccess(w, p)
}

// DeleteProfile handles DELETE /api/v1/profiles/{id}
func (h *Handlers) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	ctx := logger.WithProfileID(r.Context(), id)

	if err := h.db.DeleteProfile(ctx, id); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Profile not found")
			return
		}
		logger.Error(ctx, "failed to delete profile", err)
		WriteInternalError(w, "Failed to delete profile")
		return
	}

	logger.Info(ctx, "profile deleted")
	WriteSuccess(w, map[string]string{"message": "Profile deleted"})
}

// SelectProfile handles POST /api/v1/profiles/{id}/select
func (h *Handlers) SelectProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	ctx := logger.WithProfileID(r.Context(), id)

	if err := h.db.SetLastSelectedProfile(ctx, id); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Profile not found")
			return
		}
		logger.Error(ctx, "failed to select profile", err)
		WriteInternalError(w, "Failed to select profile")
		return
	}

	p, err := h.db.GetProfile(ctx, id)
	if err != nil {
		logger.Error(ctx, "failed to reload selected profile", err)
		WriteInternalError(w, "Failed to retrieve profile")
		return
	}
	WriteSuccess(w, p)
}

// GetLastSelectedProfile handles GET /api/v1/profiles/last-selected
func (h *Handlers) GetLastSelectedProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.db.GetLastSelectedProfile(ctx)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "No profile has been selected")
			return
		}
		logger.Error(ctx, "failed to get last selected profile", err)
		WriteInternalError(w, "Failed to retrieve profile")
		return
	}
	WriteSuccess(w, p)
}

// =============================================================================
// Helpers
// =============================================================================

// loadProfile reads the {id} profile, writing the error response itself
// when it reports false. The returned context carries the profile ID.
func (h *Handlers) loadProfile(w http.ResponseWriter, r *http.Request) (*bazi.Profile, context.Context, bool) {
	id, ok := profileID(w, r)
	if !ok {
		return nil, nil, false
	}
	ctx := logger.WithProfileID(r.Context(), id)

	p, err := h.db.GetProfile(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Profile not found")
			return nil, nil, false
		}
		logger.Error(ctx, "failed to get profile", err)
		WriteInternalError(w, "Failed to retrieve profile")
		return nil, nil, false
	}
	return p, ctx, true
}

// decodeProfile reads a profile from the request body, fills the defaults
// and validates it. It writes a 400 response itself when it reports false.
func (h *Handlers) decodeProfile(w http.ResponseWriter, r *http.Request) (bazi.Profile, bool) {
	var p bazi.Profile
	if err := decodeJSON(w, r, &p); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return bazi.Profile{}, false
	}

	p.Nickname = strings.TrimSpace(p.Nickname)
	if p.TimeZone == "" {
		p.TimeZone = h.cfg.DefaultTimeZone
	}
	if p.Category == "" {
		p.Category = bazi.CategorySelf
	}

	if err := p.Validate(); err != nil {
		WriteBadRequest(w, err.Error())
		return bazi.Profile{}, false
	}
	return p, true
}

// profileID parses the {id} URL parameter. It writes a 400 response itself
// when it reports false.
func profileID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	s := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, fmt.Sprintf("Invalid profile ID: %s", s))
		return 0, false
	}
	return id, true
}

// decodeJSON decodes a JSON request body of at most maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
