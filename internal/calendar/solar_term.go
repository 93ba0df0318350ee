package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloudeng.io/datetime"
)

// SolarTerm is one of the 24 solar terms (节气), numbered from Lichun.
type SolarTerm int

const (
	Lichun SolarTerm = iota
	Yushui
	Jingzhe
	Chunfen
	Qingming
	Guyu
	Lixia
	Xiaoman
	Mangzhong
	Xiazhi
	Xiaoshu
	Dashu
	Liqiu
	Chushu
	Bailu
	Qiufen
	Hanlu
	Shuangjiang
	Lidong
	Xiaoxue
	Daxue
	Dongzhi
	Xiaohan
	Dahan
)

// TermCount is the number of solar terms in a year.
const TermCount = 24

var termNames = [TermCount]string{
	"立春", "雨水", "惊蛰", "春分", "清明", "谷雨",
	"立夏", "小满", "芒种", "夏至", "小暑", "大暑",
	"立秋", "处暑", "白露", "秋分", "寒露", "霜降",
	"立冬", "小雪", "大雪", "冬至", "小寒", "大寒",
}

var termPinyin = [TermCount]string{
	"Lichun", "Yushui", "Jingzhe", "Chunfen", "Qingming", "Guyu",
	"Lixia", "Xiaoman", "Mangzhong", "Xiazhi", "Xiaoshu", "Dashu",
	"Liqiu", "Chushu", "Bailu", "Qiufen", "Hanlu", "Shuangjiang",
	"Lidong", "Xiaoxue", "Daxue", "Dongzhi", "Xiaohan", "Dahan",
}

// Terms returns all 24 terms in order, Lichun first.
func Terms() []SolarTerm {
	out := make([]SolarTerm, TermCount)
	for i := range out {
		out[i] = SolarTerm(i)
	}
	return out
}

// Valid reports whether t is one of the 24 terms.
func (t SolarTerm) Valid() bool {
	return t >= Lichun && t <= Dahan
}

// String returns the Chinese name of the term.
func (t SolarTerm) String() string {
	if !t.Valid() {
		return fmt.Sprintf("SolarTerm(%d)", int(t))
	}
	return termNames[t]
}

// Pinyin returns the romanized name of the term.
func (t SolarTerm) Pinyin() string {
	if !t.Valid() {
		return ""
	}
	return termPinyin[t]
}

// Longitude returns the nominal ecliptic longitude of the term in degrees
// (Lichun 315°, Chunfen 0°, ...). The tables below do not use it; it is the
// value a precise source would solve for.
func (t SolarTerm) Longitude() int {
	return (315 + 15*int(t)) % 360
}

// ParseSolarTerm accepts the Chinese or pinyin name of a term.
func ParseSolarTerm(name string) (SolarTerm, error) {
	for i := 0; i < TermCount; i++ {
		if termNames[i] == name || termPinyin[i] == name {
			return SolarTerm(i), nil
		}
	}
	return 0, fmt.Errorf("unknown solar term %q", name)
}

// TermDate is the date a term falls on.
type TermDate struct {
	Term SolarTerm
	Date datetime.CalendarDate
}

// Time returns midnight of the term date in loc.
func (td TermDate) Time(loc *time.Location) time.Time {
	return time.Date(td.Date.Year(), time.Month(td.Date.Month()), td.Date.Day(), 0, 0, 0, 0, loc)
}

// MarshalJSON renders the term as {"term", "pinyin", "date"}.
func (td TermDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Term   string `json:"term"`
		Pinyin string `json:"pinyin"`
		Date   string `json:"date"`
	}{
		Term:   td.Term.String(),
		Pinyin: td.Term.Pinyin(),
		Date:   fmt.Sprintf("%04d-%02d-%02d", td.Date.Year(), td.Date.Month(), td.Date.Day()),
	})
}

// MarshalYAML renders the term the same way as MarshalJSON.
func (td TermDate) MarshalYAML() (interface{}, error) {
	return map[string]string{
		"term":   td.Term.String(),
		"pinyin": td.Term.Pinyin(),
		"date":   fmt.Sprintf("%04d-%02d-%02d", td.Date.Year(), td.Date.Month(), td.Date.Day()),
	}, nil
}

// =============================================================================
// Sources
// =============================================================================

// Source yields the date of a term in a given year. Xiaohan and Dahan of
// year fall in January of year+1.
type Source interface {
	TermDate(year int, term SolarTerm) (datetime.CalendarDate, error)
}

// ErrUnsupportedYear is returned by a Source for years it cannot serve.
var ErrUnsupportedYear = errors.New("unsupported year")

// TableSource is a Source backed by a fixed month/day per term. It is an
// approximation: real term dates drift by a day or two between years.
type TableSource struct {
	Name  string
	Dates [TermCount]datetime.Date
	// MinYear and MaxYear bound the years served; zero means unbounded.
	MinYear, MaxYear int
}

// TermDate implements Source.
func (s *TableSource) TermDate(year int, term SolarTerm) (datetime.CalendarDate, error) {
	if !term.Valid() {
		return datetime.CalendarDate(0), fmt.Errorf("%s: invalid term %d", s.Name, int(term))
	}
	if (s.MinYear != 0 && year < s.MinYear) || (s.MaxYear != 0 && year > s.MaxYear) {
		return datetime.CalendarDate(0), fmt.Errorf("%s: %w: %d", s.Name, ErrUnsupportedYear, year)
	}

	d := s.Dates[term]
	y := year
	if d.Month() == 1 {
		y++
	}
	if !ValidDate(y, int(d.Month()), d.Day()) {
		return datetime.CalendarDate(0), fmt.Errorf("%s: invalid date %d-%02d-%02d", s.Name, y, d.Month(), d.Day())
	}
	return datetime.NewCalendarDate(y, d.Month(), d.Day()), nil
}

func md(month, day int) datetime.Date {
	return datetime.NewDate(datetime.Month(month), day)
}

// approximateDates are hand-tuned typical term dates.
var approximateDates = [TermCount]datetime.Date{
	md(2, 4), md(2, 19), md(3, 6), md(3, 21), md(4, 5), md(4, 20),
	md(5, 6), md(5, 21), md(6, 6), md(6, 21), md(7, 7), md(7, 23),
	md(8, 8), md(8, 23), md(9, 8), md(9, 23), md(10, 8), md(10, 23),
	md(11, 8), md(11, 22), md(12, 7), md(12, 22), md(1, 6), md(1, 20),
}

// Approximate is the primary source: the hand-tuned table, limited to the
// Gregorian years it was tuned against.
var Approximate Source = &TableSource{
	Name:    "approximate",
	Dates:   approximateDates,
	MinYear: 1583,
	MaxYear: 9998,
}

// Fixed is the fallback source: the same fixed dates with no year bounds.
var Fixed Source = &TableSource{
	Name:  "fixed",
	Dates: approximateDates,
}

// =============================================================================
// Approximator
// =============================================================================

// Approximator produces the 24 term dates of a year from a primary source,
// falling back to a secondary source when the primary fails for any term.
type Approximator struct {
	primary  Source
	fallback Source
}

// NewApproximator returns an Approximator. A nil fallback means Fixed.
func NewApproximator(primary, fallback Source) *Approximator {
	if fallback == nil {
		fallback = Fixed
	}
	return &Approximator{primary: primary, fallback: fallback}
}

var defaultApproximator = NewApproximator(Approximate, Fixed)

// TermsForYear returns the 24 terms of year in order. If the primary source
// fails the whole year comes from the fallback; fallback entries that fail
// are left out.
func (a *Approximator) TermsForYear(year int) []TermDate {
	if terms, err := termsFrom(a.primary, year); err == nil {
		return terms
	}

	out := make([]TermDate, 0, TermCount)
	for _, term := range Terms() {
		d, err := a.fallback.TermDate(year, term)
		if err != nil {
			continue
		}
		out = append(out, TermDate{Term: term, Date: d})
	}
	return out
}

func termsFrom(src Source, year int) ([]TermDate, error) {
	if src == nil {
		return nil, errors.New("no source")
	}
	out := make([]TermDate, 0, TermCount)
	for _, term := range Terms() {
		d, err := src.TermDate(year, term)
		if err != nil {
			return nil, err
		}
		out = append(out, TermDate{Term: term, Date: d})
	}
	return out, nil
}

// Term returns the date of a single term of year.
func (a *Approximator) Term(year int, term SolarTerm) (TermDate, bool) {
	for _, td := range a.TermsForYear(year) {
		if td.Term == term {
			return td, true
		}
	}
	return TermDate{}, false
}

// TermOn returns the term falling on the date of t, if any. January dates
// are matched against the previous year's Xiaohan and Dahan.
func (a *Approximator) TermOn(t time.Time) (SolarTerm, bool) {
	want := datetime.NewCalendarDate(t.Year(), datetime.Month(t.Month()), t.Day())
	for _, year := range []int{t.Year(), t.Year() - 1} {
		for _, td := range a.TermsForYear(year) {
			if td.Date == want {
				return td.Term, true
			}
		}
	}
	return 0, false
}

// TermsForMonth returns the terms whose dates fall in month of year, in
// date order.
func (a *Approximator) TermsForMonth(year, month int) []TermDate {
	var out []TermDate
	for _, y := range []int{year - 1, year} {
		for _, td := range a.TermsForYear(y) {
			if td.Date.Year() == year && int(td.Date.Month()) == month {
				out = append(out, td)
			}
		}
	}
	return out
}

// TermsForYear returns the 24 terms of year from the default sources.
func TermsForYear(year int) []TermDate {
	return defaultApproximator.TermsForYear(year)
}

// TermOn returns the term falling on the date of t from the default sources.
func TermOn(t time.Time) (SolarTerm, bool) {
	return defaultApproximator.TermOn(t)
}

// TermsForMonth returns the terms of a calendar month from the default sources.
func TermsForMonth(year, month int) []TermDate {
	return defaultApproximator.TermsForMonth(year, month)
}

// LichunDate returns the approximate start of spring for year.
func LichunDate(year int) (datetime.CalendarDate, bool) {
	td, ok := defaultApproximator.Term(year, Lichun)
	return td.Date, ok
}

// IsLichun reports whether t falls on the approximate start of spring.
func IsLichun(t time.Time) bool {
	term, ok := TermOn(t)
	return ok && term == Lichun
}
