// Package timeinfo implements the calendar arithmetic behind the anniversary
// counter.
//
// A Sample is a six-field wall-clock reading as delivered by a real-time
// clock chip: seconds, minutes, hours, day of month, month (1-12) and a
// two-digit, century-relative year. Samples are never validated; values are
// trusted as delivered.
//
// # Elapsed Interval
//
// Compute subtracts an anniversary Sample from the current Sample field by
// field, from seconds up to years, wrapping each negative field by its
// modulus and borrowing one unit from the next larger field. The result is
// an Elapsed value: the same shape as a Sample, but each field counts units
// since the anniversary rather than naming a calendar date.
//
// When the day field borrows, the length of the anniversary's month is
// used, not the length of the month preceding the current date. Years are
// not wrapped and go negative when the current sample precedes the
// anniversary.
//
// # Anniversary Window
//
// AnniversaryMatch reports whether the current month, day, hour and minute
// equal the anniversary's. Seconds are ignored, so the window stays open for
// the whole minute.
package timeinfo
