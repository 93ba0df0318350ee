package solartime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // embedded zoneinfo so IANA ids resolve on bare hosts
)

// ErrUnknownZone is returned when a timezone id is neither an IANA name nor
// a fixed UTC offset.
var ErrUnknownZone = errors.New("unknown timezone")

// DefaultMeridian is the standard meridian used for unrecognized zones
// (UTC+8, Asia/Shanghai).
const DefaultMeridian = 120.0

// Zone pairs the timezone id a profile was recorded with and the location it
// resolves to. The id is kept because the standard meridian is derived from it.
type Zone struct {
	ID       string
	Location *time.Location
}

// offsetPattern matches "+08:00", "-0530", "UTC+8", "GMT-05:00" and similar.
var offsetPattern = regexp.MustCompile(`^(?:UTC|GMT)?([+-])(\d{1,2})(?::?(\d{2}))?$`)

// LoadZone resolves a timezone id into a Zone.
//
// IANA names ("Asia/Shanghai") are loaded from the embedded zoneinfo.
// Fixed offsets ("+08:00", "UTC+8") become fixed zones.
func LoadZone(id string) (Zone, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Zone{}, fmt.Errorf("%w: empty id", ErrUnknownZone)
	}

	if seconds, ok := parseOffset(id); ok {
		return Zone{ID: id, Location: time.FixedZone(id, seconds)}, nil
	}

	loc, err := time.LoadLocation(id)
	if err != nil {
		return Zone{}, fmt.Errorf("%w: %q", ErrUnknownZone, id)
	}
	return Zone{ID: id, Location: loc}, nil
}

// MustLoadZone is LoadZone for ids known at compile time.
func MustLoadZone(id string) Zone {
	z, err := LoadZone(id)
	if err != nil {
		panic(err)
	}
	return z
}

// parseOffset returns the offset east of UTC in seconds.
func parseOffset(id string) (int, bool) {
	m := offsetPattern.FindStringSubmatch(strings.ToUpper(id))
	if m == nil {
		return 0, false
	}

	hours, err := strconv.Atoi(m[2])
	if err != nil || hours > 14 {
		return 0, false
	}
	minutes := 0
	if m[3] != "" {
		minutes, err = strconv.Atoi(m[3])
		if err != nil || minutes > 59 {
			return 0, false
		}
	}

	seconds := hours*3600 + minutes*60
	if m[1] == "-" {
		seconds = -seconds
	}
	return seconds, true
}

// knownMeridians maps common IANA ids to the central meridian of their
// standard (non-DST) offset.
var knownMeridians = map[string]float64{
	"Asia/Shanghai":       120,
	"Asia/Chongqing":      120,
	"Asia/Harbin":         120,
	"Asia/Urumqi":         120,
	"Asia/Hong_Kong":      120,
	"Asia/Macau":          120,
	"Asia/Taipei":         120,
	"Asia/Singapore":      120,
	"Asia/Kuala_Lumpur":   120,
	"Asia/Manila":         120,
	"Asia/Tokyo":          135,
	"Asia/Seoul":          135,
	"Asia/Bangkok":        105,
	"Asia/Ho_Chi_Minh":    105,
	"Asia/Jakarta":        105,
	"Asia/Kolkata":        82.5,
	"Australia/Sydney":    150,
	"Europe/London":       0,
	"Europe/Paris":        15,
	"Europe/Berlin":       15,
	"America/New_York":    -75,
	"America/Toronto":     -75,
	"America/Chicago":     -90,
	"America/Denver":      -105,
	"America/Los_Angeles": -120,
	"America/Vancouver":   -120,
	"UTC":                 0,
	"Etc/UTC":             0,
}

// StandardMeridian returns the nominal central meridian, in degrees east,
// for a timezone id. Fixed offsets map to hours×15; known IANA ids use the
// table above; anything else falls back to DefaultMeridian.
func StandardMeridian(id string) float64 {
	id = strings.TrimSpace(id)
	if seconds, ok := parseOffset(id); ok {
		return float64(seconds) / 3600 * 15
	}
	if m, ok := knownMeridians[id]; ok {
		return m
	}
	return DefaultMeridian
}
