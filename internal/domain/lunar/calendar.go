package lunar

import (
	"fmt"
	"time"

	"github.com/yanqian/lunar-calendar/pkg/util"
)

const (
	// MonthsPerYear is the column count of every grid.
	MonthsPerYear = 12
	// FirstSelectableYear is the oldest year offered by YearOptions.
	FirstSelectableYear = 1980
	// YearsAhead is how far past the current year YearOptions reaches.
	YearsAhead = 10
)

var monthLengths = [MonthsPerYear]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var monthLabels = [MonthsPerYear]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the length of a zero-based month, or 0 for an invalid month.
func DaysInMonth(year, month int) int {
	if month < 0 || month >= MonthsPerYear {
		return 0
	}
	if month == 1 && IsLeapYear(year) {
		return 29
	}
	return monthLengths[month]
}

// MaxDaysInYear is the longest month of the year, i.e. the grid row count.
func MaxDaysInYear(year int) int {
	longest := 0
	for month := 0; month < MonthsPerYear; month++ {
		longest = max(longest, DaysInMonth(year, month))
	}
	return longest
}

// MonthLabel returns the three-letter label of a zero-based month.
func MonthLabel(month int) string {
	if month < 0 || month >= MonthsPerYear {
		return ""
	}
	return monthLabels[month]
}

// MonthLabels returns a copy of the label table.
func MonthLabels() []string {
	out := make([]string, MonthsPerYear)
	copy(out, monthLabels[:])
	return out
}

// YearOptions lists FirstSelectableYear through the current year plus YearsAhead.
func YearOptions() []int {
	return YearOptionsAt(util.NowUTC())
}

// YearOptionsAt is YearOptions against a fixed clock.
func YearOptionsAt(now time.Time) []int {
	last := now.Year() + YearsAhead
	if last < FirstSelectableYear {
		return nil
	}
	years := make([]int, 0, last-FirstSelectableYear+1)
	for year := FirstSelectableYear; year <= last; year++ {
		years = append(years, year)
	}
	return years
}

// NewCalendarDate validates that the day exists in the given year and month.
func NewCalendarDate(year, month, day int) (CalendarDate, error) {
	if month < 0 || month >= MonthsPerYear {
		return CalendarDate{}, fmt.Errorf("%w: month %d outside [0, 11]", ErrImpossibleDate, month)
	}
	if days := DaysInMonth(year, month); day < 1 || day > days {
		return CalendarDate{}, fmt.Errorf("%w: %s %d has %d days, got day %d", ErrImpossibleDate, MonthLabel(month), year, days, day)
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// Time is 00:00 UTC of the date.
func (d CalendarDate) Time() time.Time {
	return util.MidnightUTC(d.Year, time.Month(d.Month+1), d.Day)
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month+1, d.Day)
}
