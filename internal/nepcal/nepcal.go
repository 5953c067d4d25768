// Package nepcal converts between the Bikram Sambat calendar and Gregorian
// dates, and implements the month-view math for the date picker.
package nepcal

import (
	"errors"
	"fmt"
	"time"
)

// Supported BS year range (bounds of the month-length table).
const (
	MinYear = 2000
	MaxYear = 2090
)

var ErrOutOfRange = errors.New("date outside supported Bikram Sambat range")

// epoch anchors the conversion: 1 Baisakh 2000 BS is 14 April 1943 AD.
var epoch = time.Date(1943, time.April, 14, 0, 0, 0, 0, time.UTC)

// Date is a Bikram Sambat calendar date. Month runs 1-12 (Baisakh-Chaitra).
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d BS", d.Year, d.Month, d.Day)
}

// Valid reports whether the date exists in the supported range.
func (d Date) Valid() bool {
	if d.Year < MinYear || d.Year > MaxYear || d.Month < 1 || d.Month > 12 {
		return false
	}
	return d.Day >= 1 && d.Day <= monthDays[d.Year][d.Month-1]
}

// DaysInMonth returns the length of month m in year y, or 0 outside the table.
func DaysInMonth(y, m int) int {
	if y < MinYear || y > MaxYear || m < 1 || m > 12 {
		return 0
	}
	return monthDays[y][m-1]
}

// ToGregorian converts a BS date to the corresponding Gregorian date (UTC
// midnight).
func ToGregorian(d Date) (time.Time, error) {
	if !d.Valid() {
		return time.Time{}, ErrOutOfRange
	}

	days := 0
	for y := MinYear; y < d.Year; y++ {
		for m := 0; m < 12; m++ {
			days += monthDays[y][m]
		}
	}
	for m := 1; m < d.Month; m++ {
		days += monthDays[d.Year][m-1]
	}
	days += d.Day - 1

	return epoch.AddDate(0, 0, days), nil
}

// FromGregorian converts a Gregorian date to BS.
func FromGregorian(t time.Time) (Date, error) {
	target := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(target.Sub(epoch).Hours() / 24)
	if days < 0 {
		return Date{}, ErrOutOfRange
	}

	for y := MinYear; y <= MaxYear; y++ {
		for m := 1; m <= 12; m++ {
			length := monthDays[y][m-1]
			if days < length {
				return Date{Year: y, Month: m, Day: days + 1}, nil
			}
			days -= length
		}
	}
	return Date{}, ErrOutOfRange
}

// Today returns the current date in BS.
func Today() Date {
	d, err := FromGregorian(time.Now())
	if err != nil {
		// Past the table's horizon; clamp to its last day.
		return Date{Year: MaxYear, Month: 12, Day: monthDays[MaxYear][11]}
	}
	return d
}

// Weekday returns the day of week (Sunday-first, as BS calendars render).
func (d Date) Weekday() (time.Weekday, error) {
	g, err := ToGregorian(d)
	if err != nil {
		return 0, err
	}
	return g.Weekday(), nil
}

// ISO renders the date's Gregorian equivalent as yyyy-mm-dd, the storage
// format the rest of the system uses.
func (d Date) ISO() (string, error) {
	g, err := ToGregorian(d)
	if err != nil {
		return "", err
	}
	return g.Format("2006-01-02"), nil
}

// ParseISO converts a stored yyyy-mm-dd Gregorian string to BS.
func ParseISO(iso string) (Date, error) {
	g, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return Date{}, err
	}
	return FromGregorian(g)
}
