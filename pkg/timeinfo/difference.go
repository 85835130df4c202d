package timeinfo

import "time"

// Unit moduli used when a field borrows from the next larger unit.
const (
	SecondsPerMinute = 60
	MinutesPerHour   = 60
	HoursPerDay      = 24
	MonthsPerYear    = 12
)

// monthLength holds the month lengths used for a day borrow. October has
// 30 days and November 31, unlike the calendar.
var monthLength = map[time.Month]int{
	time.January:   31,
	time.February:  28,
	time.March:     31,
	time.April:     30,
	time.May:       31,
	time.June:      30,
	time.July:      31,
	time.August:    31,
	time.September: 30,
	time.October:   30,
	time.November:  31,
	time.December:  31,
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the day-borrow length of month (1-12) in year.
// February follows the leap rule. Months outside 1-12 return 0.
func DaysInMonth(month, year int) int {
	if time.Month(month) == time.February && IsLeapYear(year) {
		return 29
	}
	return monthLength[time.Month(month)]
}

// Compute returns the interval elapsed from anniversary to current.
//
// Each field is subtracted smallest unit first; a negative result is wrapped
// by the unit's modulus and borrows one from the next field. A day borrow
// counts the days left in the anniversary's month plus the current day of
// month. Years are never wrapped.
func Compute(current, anniversary Sample) Elapsed {
	var e Elapsed
	borrow := 0

	e.Seconds, borrow = wrap(current.Seconds-anniversary.Seconds, SecondsPerMinute)
	e.Minutes, borrow = wrap(current.Minutes-anniversary.Minutes-borrow, MinutesPerHour)
	e.Hours, borrow = wrap(current.Hours-anniversary.Hours-borrow, HoursPerDay)

	if days := current.Days - anniversary.Days - borrow; days < 0 {
		remaining := DaysInMonth(anniversary.Months, anniversary.Years) - anniversary.Days
		e.Days, borrow = remaining+current.Days, 1
	} else {
		e.Days, borrow = days, 0
	}

	e.Months, borrow = wrap(current.Months-anniversary.Months-borrow, MonthsPerYear)
	e.Years = current.Years - anniversary.Years - borrow

	return e
}

// wrap adds modulus to a negative difference and reports the borrow.
func wrap(diff, modulus int) (int, int) {
	if diff < 0 {
		return diff + modulus, 1
	}
	return diff, 0
}

// AnniversaryMatch reports whether current falls in the anniversary minute:
// month, day, hour and minute are equal. Seconds are not compared.
func AnniversaryMatch(current, anniversary Sample) bool {
	return current.Months == anniversary.Months &&
		current.Days == anniversary.Days &&
		current.Hours == anniversary.Hours &&
		current.Minutes == anniversary.Minutes
}
