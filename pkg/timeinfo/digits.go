package timeinfo

// DigitCount is the number of display positions.
const DigitCount = 10

// Digits holds one decimal digit per display position.
//
// Positions pair up ones then tens for years, months, days, hours and
// minutes: position 0 is the ones digit of years, position 1 its tens digit,
// and so on up to position 9, the tens digit of minutes. Seconds are not
// shown.
type Digits [DigitCount]int

// DigitsOf splits the five displayed fields of e into digits.
//
// Values are not clamped. Negative fields produce negative digits and
// fields of 100 or more lose their hundreds.
func DigitsOf(e Elapsed) Digits {
	var d Digits
	for i, v := range [...]int{e.Years, e.Months, e.Days, e.Hours, e.Minutes} {
		d[2*i] = v % 10
		d[2*i+1] = (v / 10) % 10
	}
	return d
}
