package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zapponejosh/bazi-api/internal/bazi"
	"github.com/zapponejosh/bazi-api/internal/calendar"
)

// profileRow is the column layout of the profiles table.
type profileRow struct {
	ID               int64           `db:"id"`
	Nickname         string          `db:"nickname"`
	Gender           string          `db:"gender"`
	Category         string          `db:"category"`
	BirthDateTime    string          `db:"birth_date_time"`
	TimeZone         string          `db:"time_zone"`
	IsDaylightSaving bool            `db:"is_daylight_saving"`
	BirthPlace       string          `db:"birth_place"`
	BirthLatitude    float64         `db:"birth_latitude"`
	BirthLongitude   float64         `db:"birth_longitude"`
	CurrentPlace     sql.NullString  `db:"current_place"`
	CurrentLatitude  sql.NullFloat64 `db:"current_latitude"`
	CurrentLongitude sql.NullFloat64 `db:"current_longitude"`
	CreatedAt        string          `db:"created_at"`
	UpdatedAt        string          `db:"updated_at"`
	IsLastSelected   bool            `db:"is_last_selected"`
}

// profileColumns lists every column in profileRow order.
const profileColumns = `
	id, nickname, gender, category, birth_date_time, time_zone,
	is_daylight_saving, birth_place, birth_latitude, birth_longitude,
	current_place, current_latitude, current_longitude,
	created_at, updated_at, is_last_selected`

func newProfileRow(p *bazi.Profile) profileRow {
	category := p.Category
	if category == "" {
		category = bazi.CategorySelf
	}
	return profileRow{
		ID:               p.ID,
		Nickname:         p.Nickname,
		Gender:           string(p.Gender),
		Category:         string(category),
		BirthDateTime:    calendar.FormatDateTime(p.BirthDateTime),
		TimeZone:         p.TimeZone,
		IsDaylightSaving: p.IsDaylightSaving,
		BirthPlace:       p.BirthPlace,
		BirthLatitude:    p.BirthLatitude,
		BirthLongitude:   p.BirthLongitude,
		CurrentPlace:     nullString(p.CurrentPlace),
		CurrentLatitude:  nullFloat(p.CurrentLatitude),
		CurrentLongitude: nullFloat(p.CurrentLongitude),
	}
}

func (r profileRow) toProfile() (bazi.Profile, error) {
	birth, err := calendar.ParseDateTime(r.BirthDateTime)
	if err != nil {
		return bazi.Profile{}, fmt.Errorf("profile %d: birth_date_time: %w", r.ID, err)
	}
	p := bazi.Profile{
		ID:               r.ID,
		Nickname:         r.Nickname,
		Gender:           bazi.Gender(r.Gender),
		Category:         bazi.Category(r.Category),
		BirthDateTime:    birth,
		TimeZone:         r.TimeZone,
		IsDaylightSaving: r.IsDaylightSaving,
		BirthPlace:       r.BirthPlace,
		BirthLatitude:    r.BirthLatitude,
		BirthLongitude:   r.BirthLongitude,
		IsLastSelected:   r.IsLastSelected,
	}
	if r.CurrentPlace.Valid {
		p.CurrentPlace = &r.CurrentPlace.String
	}
	if r.CurrentLatitude.Valid {
		p.CurrentLatitude = &r.CurrentLatitude.Float64
	}
	if r.CurrentLongitude.Valid {
		p.CurrentLongitude = &r.CurrentLongitude.Float64
	}
	if t := parseTimestamp(r.CreatedAt); t != nil {
		p.CreatedAt = *t
	}
	if t := parseTimestamp(r.UpdatedAt); t != nil {
		p.UpdatedAt = *t
	}
	return p, nil
}

// ProfileFilter narrows ListProfiles.
type ProfileFilter struct {
	Category bazi.Category // Empty means all categories
	Search   string        // Case-insensitive nickname substring
	Limit    int           // Zero means no limit
	Offset   int
}

// =============================================================================
// Helper Functions
// =============================================================================

// timestampLayout matches strftime('%Y-%m-%dT%H:%M:%fZ'), the column default.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
