package solartime

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func civil(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestCorrect(t *testing.T) {
	shanghai := MustLoadZone("Asia/Shanghai")

	tests := []struct {
		name      string
		local     time.Time
		longitude float64
		dst       bool
		want      time.Time
	}{
		{
			name:      "beijing new year 2000 lands on the next day",
			local:     civil(2000, time.January, 1, 8, 30),
			longitude: 116.4074,
			want:      time.Date(2000, time.January, 2, 8, 12, 0, 0, shanghai.Location),
		},
		{
			name:      "mid may small positive correction",
			local:     civil(2024, time.May, 14, 12, 0),
			longitude: 120,
			want:      time.Date(2024, time.May, 14, 12, 3, 0, 0, shanghai.Location),
		},
		{
			name:      "late july small negative correction",
			local:     civil(2024, time.July, 26, 12, 0),
			longitude: 120,
			want:      time.Date(2024, time.July, 26, 11, 54, 0, 0, shanghai.Location),
		},
		{
			name:      "mid february carries a full day",
			local:     civil(2024, time.February, 14, 12, 0),
			longitude: 120,
			want:      time.Date(2024, time.February, 15, 11, 45, 0, 0, shanghai.Location),
		},
		{
			name:      "early november carries a full day",
			local:     civil(2024, time.November, 3, 12, 0),
			longitude: 120,
			want:      time.Date(2024, time.November, 4, 12, 16, 0, 0, shanghai.Location),
		},
		{
			name:      "before j2000 the day goes backwards",
			local:     civil(1990, time.June, 15, 23, 50),
			longitude: 121.47,
			want:      time.Date(1990, time.June, 14, 23, 56, 0, 0, shanghai.Location),
		},
		{
			name:      "correction crosses midnight",
			local:     civil(1990, time.June, 15, 23, 58),
			longitude: 121.47,
			want:      time.Date(1990, time.June, 15, 0, 4, 0, 0, shanghai.Location),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Correct(tt.local, tt.longitude, shanghai, tt.dst)
			assert.True(t, tt.want.Equal(got), "Correct() = %v, want %v", got, tt.want)
			assert.Equal(t, shanghai.Location, got.Location())
		})
	}
}

func TestCorrect_DSTOnlyMovesJulianDay(t *testing.T) {
	zone := MustLoadZone("Asia/Shanghai")
	local := civil(2000, time.January, 1, 8, 30)

	plain, pc := CorrectDetailed(local, 116.4074, zone, false)
	summer, sc := CorrectDetailed(local, 116.4074, zone, true)

	// The DST hour only shifts the instant fed into the equation of time;
	// the correction is applied to the unadjusted wall clock.
	assert.NotEqual(t, pc.EquationOfTime, sc.EquationOfTime)
	assert.Equal(t, pc.Minutes, sc.Minutes)
	assert.True(t, plain.Equal(summer))
	assert.Equal(t, 8, summer.Hour())
}

func TestCorrect_IgnoresInputLocation(t *testing.T) {
	zone := MustLoadZone("Asia/Shanghai")
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	a := Correct(time.Date(2000, 1, 1, 8, 30, 0, 0, time.UTC), 116.4074, zone, false)
	b := Correct(time.Date(2000, 1, 1, 8, 30, 0, 0, ny), 116.4074, zone, false)
	assert.True(t, a.Equal(b))
}

func TestCorrect_UnknownMeridianFallsBack(t *testing.T) {
	// Europe/Moscow is not in the meridian table, so longitude is measured
	// against 120°E even though the clock is read in Moscow time.
	moscow := MustLoadZone("Europe/Moscow")
	_, c := CorrectDetailed(civil(2024, time.July, 26, 12, 0), 37.6, moscow, false)
	assert.InDelta(t, (37.6-120)*4, c.Longitude, 1e-9)
}

func TestEquationOfTime(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want float64
	}{
		{"2000-01-01", time.Date(2000, 1, 1, 0, 30, 0, 0, time.UTC), 1436.9244},
		{"2024-02-14", time.Date(2024, 2, 14, 4, 0, 0, 0, time.UTC), 1425.8271},
		{"2024-05-14", time.Date(2024, 5, 14, 4, 0, 0, 0, time.UTC), 3.6426},
		{"2024-07-26", time.Date(2024, 7, 26, 4, 0, 0, 0, time.UTC), -6.5595},
		{"2024-11-03", time.Date(2024, 11, 3, 4, 0, 0, 0, time.UTC), 1456.4486},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EquationOfTime(JulianDay(tt.at))
			assert.InDelta(t, tt.want, got, 1e-3)
			// Apart from whole days, within the physical envelope.
			rem := math.Remainder(got, 1440)
			assert.Less(t, rem, 17.0)
			assert.Greater(t, rem, -15.0)
		})
	}
}

func TestEquationOfTime_NotNormalized(t *testing.T) {
	// Late September the right ascension crosses 180° and the result jumps
	// by a whole day between consecutive noons.
	a := EquationOfTime(JulianDay(time.Date(2024, 9, 22, 4, 0, 0, 0, time.UTC)))
	b := EquationOfTime(JulianDay(time.Date(2024, 9, 23, 4, 0, 0, 0, time.UTC)))
	assert.InDelta(t, 7.3482, a, 1e-3)
	assert.InDelta(t, 1447.6997, b, 1e-3)
}

func TestJulianDay(t *testing.T) {
	assert.Equal(t, 2440587.5, JulianDay(time.Unix(0, 0)))
	assert.Equal(t, 2451545.0, JulianDay(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestStandardMeridian(t *testing.T) {
	tests := []struct {
		id   string
		want float64
	}{
		{"Asia/Shanghai", 120},
		{"+08:00", 120},
		{"UTC+08:00", 120},
		{"+09:00", 135},
		{"+07:00", 105},
		{"-05:00", -75},
		{"-08:00", -120},
		{"GMT+5:30", 82.5},
		{"Asia/Tokyo", 135},
		{"America/New_York", -75},
		{"UTC", 0},
		{"Mars/Olympus_Mons", DefaultMeridian},
		{"", DefaultMeridian},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StandardMeridian(tt.id), "StandardMeridian(%q)", tt.id)
	}
}

func TestLoadZone(t *testing.T) {
	z, err := LoadZone("Asia/Shanghai")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", z.ID)
	assert.Equal(t, "Asia/Shanghai", z.Location.String())

	z, err = LoadZone("+08:00")
	require.NoError(t, err)
	_, offset := time.Date(2000, 1, 1, 0, 0, 0, 0, z.Location).Zone()
	assert.Equal(t, 8*3600, offset)

	z, err = LoadZone("UTC-3")
	require.NoError(t, err)
	_, offset = time.Date(2000, 1, 1, 0, 0, 0, 0, z.Location).Zone()
	assert.Equal(t, -3*3600, offset)

	_, err = LoadZone("Not/AZone")
	assert.True(t, errors.Is(err, ErrUnknownZone))

	_, err = LoadZone("  ")
	assert.True(t, errors.Is(err, ErrUnknownZone))

	_, err = LoadZone("+25:00")
	assert.Error(t, err)
}
