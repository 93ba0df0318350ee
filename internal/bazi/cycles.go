package bazi

import (
	"fmt"
	"time"

	"github.com/zapponejosh/bazi-api/internal/calendar"
	"github.com/zapponejosh/bazi-api/internal/sexagenary"
)

const (
	dayunCount    = 10
	dayunFirstAge = 8
	dayunSpan     = 10
	liunianRadius = 5
	liuyueCount   = 12
)

// Dayun is a ten-year luck period.
type Dayun struct {
	StartAge  int               `json:"start_age" yaml:"start_age"`
	StartYear int               `json:"start_year" yaml:"start_year"`
	Stem      sexagenary.Stem   `json:"stem" yaml:"stem"`
	Branch    sexagenary.Branch `json:"branch" yaml:"branch"`
	TenGod    sexagenary.TenGod `json:"ten_god" yaml:"ten_god"`
	IsCurrent bool              `json:"is_current" yaml:"is_current"`
}

// Liunian is the pillar of one calendar year.
type Liunian struct {
	Year      int               `json:"year" yaml:"year"`
	Stem      sexagenary.Stem   `json:"stem" yaml:"stem"`
	Branch    sexagenary.Branch `json:"branch" yaml:"branch"`
	TenGod    sexagenary.TenGod `json:"ten_god" yaml:"ten_god"`
	IsCurrent bool              `json:"is_current" yaml:"is_current"`
}

// Liuyue is the pillar of one calendar month.
type Liuyue struct {
	Month         int               `json:"month" yaml:"month"`
	SolarTerm     string            `json:"solar_term" yaml:"solar_term"`
	GregorianDate string            `json:"gregorian_date" yaml:"gregorian_date"`
	Stem          sexagenary.Stem   `json:"stem" yaml:"stem"`
	Branch        sexagenary.Branch `json:"branch" yaml:"branch"`
	TenGod        sexagenary.TenGod `json:"ten_god" yaml:"ten_god"`
	IsCurrent     bool              `json:"is_current" yaml:"is_current"`
}

// Cycles groups the three projections of a chart.
type Cycles struct {
	Dayun   []Dayun
	Liunian []Liunian
	Liuyue  []Liuyue
}

// Project derives the dayun, liunian and liuyue cycles of a chart. now is
// the reference moment for IsCurrent and for the liunian window and liuyue
// year; only its wall-clock year and month are read.
func Project(p FourPillars, birthYear int, now time.Time) Cycles {
	return Cycles{
		Dayun:   ProjectDayun(p.Month, birthYear, now.Year()),
		Liunian: ProjectLiunian(now.Year()),
		Liuyue:  ProjectLiuyue(p.Day.Stem, int(now.Month())),
	}
}

// ProjectDayun returns ten periods starting at ages 8, 18, ..., 98. The
// pillars advance forward from the month pillar; the reverse direction for
// yin-year males and yang-year females is not applied.
func ProjectDayun(month Pillar, birthYear, currentYear int) []Dayun {
	out := make([]Dayun, dayunCount)
	for i := range out {
		age := dayunFirstAge + i*dayunSpan
		start := birthYear + age
		out[i] = Dayun{
			StartAge:  age,
			StartYear: start,
			Stem:      sexagenary.StemAt(month.Stem.Index() + i),
			Branch:    sexagenary.BranchAt(month.Branch.Index() + i),
			TenGod:    sexagenary.BiJian,
			IsCurrent: start <= currentYear && currentYear < start+dayunSpan,
		}
	}
	return out
}

// ProjectLiunian returns the eleven years centred on currentYear.
func ProjectLiunian(currentYear int) []Liunian {
	out := make([]Liunian, 0, 2*liunianRadius+1)
	for year := currentYear - liunianRadius; year <= currentYear+liunianRadius; year++ {
		out = append(out, Liunian{
			Year:      year,
			Stem:      yearStem(year),
			Branch:    yearBranch(year),
			TenGod:    sexagenary.BiJian,
			IsCurrent: year == currentYear,
		})
	}
	return out
}

// ProjectLiuyue returns the twelve calendar months. Stems count from the
// day stem, not the year stem. Each month is labelled with the jie (节) term
// that nominally opens it: Lichun for month 1, Jingzhe for month 2, and so
// on to Xiaohan for month 12.
func ProjectLiuyue(dayStem sexagenary.Stem, currentMonth int) []Liuyue {
	out := make([]Liuyue, liuyueCount)
	for i := range out {
		m := i + 1
		out[i] = Liuyue{
			Month:         m,
			SolarTerm:     calendar.SolarTerm(2 * i).String(),
			GregorianDate: fmt.Sprintf("%d月", m),
			Stem:          sexagenary.StemAt(dayStem.Index()*2 + m - 1),
			Branch:        sexagenary.BranchAt(m + 1),
			TenGod:        sexagenary.BiJian,
			IsCurrent:     m == currentMonth,
		}
	}
	return out
}

// resolveTenGods fills every ten-god field of the chart from the day master.
func (c *Chart) resolveTenGods() {
	dm := c.FourPillars.Day.Stem
	c.FourPillars.Year = c.FourPillars.Year.withTenGods(dm)
	c.FourPillars.Month = c.FourPillars.Month.withTenGods(dm)
	c.FourPillars.Day = c.FourPillars.Day.withTenGods(dm)
	c.FourPillars.Hour = c.FourPillars.Hour.withTenGods(dm)
	for i := range c.Dayun {
		c.Dayun[i].TenGod = sexagenary.TenGodOf(dm, c.Dayun[i].Stem)
	}
	for i := range c.Liunian {
		c.Liunian[i].TenGod = sexagenary.TenGodOf(dm, c.Liunian[i].Stem)
	}
	for i := range c.Liuyue {
		c.Liuyue[i].TenGod = sexagenary.TenGodOf(dm, c.Liuyue[i].Stem)
	}
}
