// Package bazi computes four-pillar (八字) birth charts and the dayun,
// liunian and liuyue cycles projected from them.
//
// Every function here is a pure function of its arguments. The moment used
// to flag "current" cycle entries is always passed in by the caller.
//
// The engine keeps several deliberate simplifications, each covered by tests:
//   - the year pillar changes on January 1, not at Lichun;
//   - month pillars follow calendar months, not solar-term months;
//   - the day pillar counts days from an arbitrary 1900-01-01 anchor and is
//     not aligned with almanac day pillars (years before 1900 count from
//     their own January 1);
//   - dayun always runs forward, whatever the gender and year-stem polarity;
//   - ten gods and twelve stages are placeholders unless
//     Options.ResolveTenGods is set.
package bazi

import (
	"time"

	"github.com/zapponejosh/bazi-api/internal/calendar"
	"github.com/zapponejosh/bazi-api/internal/sexagenary"
)

// DayCountEpoch is the year whose January 1 is day 1 of the day count.
const DayCountEpoch = 1900

// Pillar is one stem-branch pair with its derived labels.
type Pillar struct {
	Stem        sexagenary.Stem        `json:"stem" yaml:"stem"`
	Branch      sexagenary.Branch      `json:"branch" yaml:"branch"`
	HiddenStems []sexagenary.Stem      `json:"hidden_stems" yaml:"hidden_stems"`
	TenGods     []sexagenary.TenGod    `json:"ten_gods" yaml:"ten_gods"`
	Nayin       string                 `json:"nayin" yaml:"nayin"`
	Shensha     []string               `json:"shensha" yaml:"shensha"`
	TwelveStage sexagenary.TwelveStage `json:"twelve_stage" yaml:"twelve_stage"`
}

// NewPillar builds a pillar with hidden stems, Nayin and the placeholder
// ten god and twelve stage.
func NewPillar(s sexagenary.Stem, b sexagenary.Branch) Pillar {
	return Pillar{
		Stem:        s,
		Branch:      b,
		HiddenStems: b.HiddenStems(),
		TenGods:     []sexagenary.TenGod{sexagenary.BiJian},
		Nayin:       sexagenary.Nayin(s, b),
		Shensha:     []string{},
		TwelveStage: sexagenary.StageChangSheng,
	}
}

// Name returns the two-character name of the pillar, e.g. "庚辰".
func (p Pillar) Name() string {
	return sexagenary.CyclicName(p.Stem, p.Branch)
}

// FourPillars is the year, month, day and hour pillars of a chart.
type FourPillars struct {
	Year  Pillar `json:"year" yaml:"year"`
	Month Pillar `json:"month" yaml:"month"`
	Day   Pillar `json:"day" yaml:"day"`
	Hour  Pillar `json:"hour" yaml:"hour"`
}

// ComputeFourPillars derives the four pillars from the wall-clock fields of
// a corrected (true solar) time.
func ComputeFourPillars(t time.Time) FourPillars {
	year := YearPillar(t.Year())
	day := DayPillar(t.Year(), int(t.Month()), t.Day())
	return FourPillars{
		Year:  year,
		Month: MonthPillar(int(t.Month()), year.Stem),
		Day:   day,
		Hour:  HourPillar(t.Hour(), day.Stem),
	}
}

// YearPillar keys purely off the calendar year: (year−4) mod 10 / mod 12.
func YearPillar(year int) Pillar {
	return NewPillar(yearStem(year), yearBranch(year))
}

func yearStem(year int) sexagenary.Stem {
	return sexagenary.StemAt(year - 4)
}

func yearBranch(year int) sexagenary.Branch {
	return sexagenary.BranchAt(year - 4)
}

// MonthPillar uses the calendar month: branch (month+1) mod 12, stem
// (yearStem·2 + month − 1) mod 10.
func MonthPillar(month int, yearStem sexagenary.Stem) Pillar {
	return NewPillar(
		sexagenary.StemAt(yearStem.Index()*2+month-1),
		sexagenary.BranchAt(month+1),
	)
}

// DayPillar counts days from DayCountEpoch: stem (totalDays−1) mod 10,
// branch (totalDays−1) mod 12.
func DayPillar(year, month, day int) Pillar {
	n := TotalDays(year, month, day) - 1
	return NewPillar(sexagenary.StemAt(n), sexagenary.BranchAt(n))
}

// TotalDays returns the 1-based day count of a date from January 1 of
// DayCountEpoch: days in the full years since the epoch, plus days in the
// full months of year, plus day. Years before the epoch contribute no full
// years, so their count restarts from the year's own January 1. Month and
// day are not validated.
func TotalDays(year, month, day int) int {
	total := calendar.DaysBeforeMonth(year, month) + day
	if year > DayCountEpoch {
		total += calendar.DaysBeforeYear(DayCountEpoch, year)
	}
	return total
}

// HourBranch maps a clock hour to its two-hour branch. The Zi window spans
// midnight: hours 23 and 0 are both Zi, 1–2 Chou, and so on to 21–22 Hai.
// Hours outside 0–23 are not validated; they continue the same arithmetic.
func HourBranch(hour int) sexagenary.Branch {
	return sexagenary.BranchAt((hour + 1) / 2)
}

// HourPillar derives the hour stem from the day stem: (dayStem·2 + branch) mod 10.
func HourPillar(hour int, dayStem sexagenary.Stem) Pillar {
	b := HourBranch(hour)
	return NewPillar(sexagenary.StemAt(dayStem.Index()*2+b.Index()), b)
}

// IsLeapYear applies the Gregorian rule used by the day count.
func IsLeapYear(year int) bool {
	return calendar.IsLeapYear(year)
}

// withTenGods replaces the placeholder ten gods with the relation of each
// of the pillar's stems (visible first, then hidden) to the day master.
func (p Pillar) withTenGods(dayMaster sexagenary.Stem) Pillar {
	gods := make([]sexagenary.TenGod, 0, 1+len(p.HiddenStems))
	gods = append(gods, sexagenary.TenGodOf(dayMaster, p.Stem))
	for _, hs := range p.HiddenStems {
		gods = append(gods, sexagenary.TenGodOf(dayMaster, hs))
	}
	p.TenGods = gods
	return p
}
