// Package display renders the elapsed interval on a ten-digit
// seven-segment display.
//
// The digits share seven segment lines; ten select lines choose which digit
// the segment lines drive. The Scheduler multiplexes: it enables one select,
// writes that digit's segment pattern, holds it for a short dwell and
// disables the select again before moving on, so exactly one digit is lit
// at any instant and persistence of vision shows all ten.
//
// # Frame Order
//
// Each frame refreshes the shared clock state, then walks positions 0-9 in
// timeinfo.Digits order (years ones, years tens, months ones, ... minutes
// tens). The state lock is released before the first select is touched.
package display
