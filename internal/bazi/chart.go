package bazi

import (
	"fmt"
	"time"

	"github.com/zapponejosh/bazi-api/internal/solartime"
)

// Chart is the full result of one calculation. It is built once and never
// modified afterwards.
type Chart struct {
	Profile     Profile              `json:"profile" yaml:"profile"`
	SolarTime   time.Time            `json:"solar_time" yaml:"solar_time"`
	Correction  solartime.Correction `json:"correction" yaml:"correction"`
	FourPillars FourPillars          `json:"four_pillars" yaml:"four_pillars"`
	Dayun       []Dayun              `json:"dayun" yaml:"dayun"`
	Liunian     []Liunian            `json:"liunian" yaml:"liunian"`
	Liuyue      []Liuyue             `json:"liuyue" yaml:"liuyue"`
}

// Options tunes a calculation.
type Options struct {
	// ResolveTenGods replaces the placeholder ten god of every pillar and
	// cycle entry with its relation to the day master.
	ResolveTenGods bool
}

// Calculate computes the chart of a profile. now is the reference moment
// for the cycles; it is read in the profile's timezone.
//
// The only error is an unresolvable TimeZone, reported as a wrapped
// solartime.ErrUnknownZone.
func Calculate(p Profile, now time.Time, opts Options) (Chart, error) {
	zone, err := solartime.LoadZone(p.TimeZone)
	if err != nil {
		return Chart{}, fmt.Errorf("calculate chart: %w", err)
	}

	solar, corr := solartime.CorrectDetailed(p.BirthDateTime, p.BirthLongitude, zone, p.IsDaylightSaving)
	pillars := ComputeFourPillars(solar)
	// Dayun start years count from the corrected birth year, the same time
	// the pillars are read from.
	cycles := Project(pillars, solar.Year(), now.In(zone.Location))

	chart := Chart{
		Profile:     p,
		SolarTime:   solar,
		Correction:  corr,
		FourPillars: pillars,
		Dayun:       cycles.Dayun,
		Liunian:     cycles.Liunian,
		Liuyue:      cycles.Liuyue,
	}
	if opts.ResolveTenGods {
		chart.resolveTenGods()
	}
	return chart, nil
}
