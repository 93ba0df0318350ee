package calendar

import (
	"fmt"
	"time"

	"github.com/zapponejosh/bazi-api/internal/sexagenary"
)

// LunarDate is a lunar calendar date with its display labels.
//
// The converter below is a labelling pass, not an astronomical lunar
// calendar: the numeric fields are the Gregorian ones, there is no leap
// month detection, and IsLeapMonth is always false.
type LunarDate struct {
	Year        int    `json:"year" yaml:"year"`
	Month       int    `json:"month" yaml:"month"`
	Day         int    `json:"day" yaml:"day"`
	IsLeapMonth bool   `json:"is_leap_month" yaml:"is_leap_month"`
	YearName    string `json:"year_name" yaml:"year_name"`
	MonthName   string `json:"month_name" yaml:"month_name"`
	DayName     string `json:"day_name" yaml:"day_name"`
	CyclicYear  string `json:"cyclic_year" yaml:"cyclic_year"`
	Zodiac      string `json:"zodiac" yaml:"zodiac"`
}

// cycleAnchor is a Jiazi (甲子) year, the Rat year the cyclic names count from.
const cycleAnchor = 1984

var lunarMonthNames = [12]string{
	"正月", "二月", "三月", "四月", "五月", "六月",
	"七月", "八月", "九月", "十月", "冬月", "腊月",
}

var lunarDayNames = [30]string{
	"初一", "初二", "初三", "初四", "初五", "初六", "初七", "初八", "初九", "初十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
	"廿一", "廿二", "廿三", "廿四", "廿五", "廿六", "廿七", "廿八", "廿九", "三十",
}

// ToLunar converts a Gregorian year/month/day to a LunarDate. It reports
// false when the components do not name a real Gregorian date.
func ToLunar(year, month, day int) (LunarDate, bool) {
	if !ValidDate(year, month, day) {
		return LunarDate{}, false
	}
	return LunarDate{
		Year:        year,
		Month:       month,
		Day:         day,
		IsLeapMonth: false,
		YearName:    fmt.Sprintf("%d年", year),
		MonthName:   LunarMonthName(month, false),
		DayName:     LunarDayName(day),
		CyclicYear:  CyclicYear(year),
		Zodiac:      Zodiac(year),
	}, true
}

// LunarFromTime converts the civil date of t.
func LunarFromTime(t time.Time) LunarDate {
	ld, _ := ToLunar(t.Year(), int(t.Month()), t.Day())
	return ld
}

// ToGregorian maps a lunar date back to a Gregorian date at midnight UTC.
// It reports false when the components do not form a real date.
func ToGregorian(year, month, day int, leap bool) (time.Time, bool) {
	if !ValidDate(year, month, day) {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// HasLeapMonth reports whether a lunar year has a leap month. Leap months
// are not modelled, so it is always false.
func HasLeapMonth(year int) bool {
	return false
}

// LeapMonth returns the leap month of a lunar year; there never is one.
func LeapMonth(year int) (int, bool) {
	return 0, false
}

// CyclicYear returns the stem-branch name of year, counted from 1984 (甲子).
func CyclicYear(year int) string {
	offset := sexagenary.Mod(year-cycleAnchor, 60)
	return sexagenary.CyclicName(sexagenary.StemAt(offset), sexagenary.BranchAt(offset))
}

// Zodiac returns the zodiac animal of year, counted from 1984 (Rat).
func Zodiac(year int) string {
	return sexagenary.BranchAt(year - cycleAnchor).Zodiac()
}

// LunarMonthName returns the Chinese name of a lunar month, prefixed with
// 闰 for leap months.
func LunarMonthName(month int, leap bool) string {
	name := fmt.Sprintf("%d月", month)
	if month >= 1 && month <= 12 {
		name = lunarMonthNames[month-1]
	}
	if leap {
		return "闰" + name
	}
	return name
}

// LunarDayName returns the Chinese name of a lunar day (初一 … 三十).
func LunarDayName(day int) string {
	if day >= 1 && day <= 30 {
		return lunarDayNames[day-1]
	}
	return fmt.Sprintf("%d日", day)
}
