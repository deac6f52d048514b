// Package phenology classifies bird species into migration pattern
// categories and computes seasonal arrival, peak and departure timing
// from eBird weekly occurrence frequency data.
//
// eBird barchart data uses a 48-week calendar (4 weeks per month).
// Week indices form a ring: week 47 is followed by week 0.
package phenology

import "fmt"

const (
	// WeeksPerYear is the number of weeks in the eBird barchart calendar.
	WeeksPerYear  = 48
	WeeksPerMonth = 4
)

// Season boundaries on the 48-week ring. Winter wraps the year boundary.
// These are the lenient definitions: 12 weeks each side of the Dec-Jan
// boundary for winter, May through September for summer.
const (
	winterStartWeek = 40
	winterEndWeek   = 11
	summerStartWeek = 16
	summerEndWeek   = 35
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Day ranges for the four weeks of a month. The last week absorbs the
// remainder of the month.
var weekDayRanges = [WeeksPerMonth][2]int{
	{1, 7},
	{8, 14},
	{15, 21},
	{22, 28},
}

var weekInMonthLabels = [WeeksPerMonth]string{"early", "mid", "late", "late"}

// NormalizeWeek maps any week number onto [0, 47]. The result is always
// non-negative, also for negative inputs.
func NormalizeWeek(week int) int {
	w := week % WeeksPerYear
	if w < 0 {
		w += WeeksPerYear
	}
	return w
}

// WeekRange returns the ordered week indices from start (inclusive) to end
// (exclusive). If start >= end the range wraps through the year boundary;
// start == end yields all 48 weeks beginning at start. This full-wrap
// convention is deliberate: an empty range is never produced.
func WeekRange(start, end int) []int {
	start = NormalizeWeek(start)
	end = NormalizeWeek(end)

	if start < end {
		weeks := make([]int, 0, end-start)
		for w := start; w < end; w++ {
			weeks = append(weeks, w)
		}
		return weeks
	}

	weeks := make([]int, 0, WeeksPerYear-start+end)
	for w := start; w < WeeksPerYear; w++ {
		weeks = append(weeks, w)
	}
	for w := 0; w < end; w++ {
		weeks = append(weeks, w)
	}
	return weeks
}

// CircularWeekDistance returns the shortest distance between two weeks on
// the 48-week ring.
func CircularWeekDistance(a, b int) int {
	d := NormalizeWeek(a) - NormalizeWeek(b)
	if d < 0 {
		d = -d
	}
	if d > WeeksPerYear/2 {
		d = WeeksPerYear - d
	}
	return d
}

// IsWinterWeek reports whether a week falls in the winter window
// (early October through late March, wrapping the year boundary).
func IsWinterWeek(week int) bool {
	w := NormalizeWeek(week)
	return w >= winterStartWeek || w <= winterEndWeek
}

// IsSummerWeek reports whether a week falls in the summer window
// (May through September).
func IsSummerWeek(week int) bool {
	w := NormalizeWeek(week)
	return w >= summerStartWeek && w <= summerEndWeek
}

// WeekToDateRange converts a week index to a readable date range such as
// "May 1-7". Day boundaries are approximate; the fourth week of a month is
// reported as the 22nd through the 28th regardless of month length.
func WeekToDateRange(week int) string {
	w := NormalizeWeek(week)
	month := monthNames[w/WeeksPerMonth]
	days := weekDayRanges[w%WeeksPerMonth]
	return fmt.Sprintf("%s %d-%d", month, days[0], days[1])
}

// WeekLabel converts a week index to a shorthand label such as "early May".
func WeekLabel(week int) string {
	w := NormalizeWeek(week)
	return weekInMonthLabels[w%WeeksPerMonth] + " " + monthNames[w/WeeksPerMonth]
}
