package display

// SegmentCount is the number of segment lines.
const SegmentCount = 7

// Segments is a set of lit segments, one bit per segment line. Bit i drives
// segment line i.
type Segments uint8

// Segment line assignments, as wired on the display board.
const (
	SegG Segments = 1 << iota // line 0, middle
	SegA                      // line 1, top
	SegF                      // line 2, upper left
	SegB                      // line 3, upper right
	SegC                      // line 4, lower right
	SegE                      // line 5, lower left
	SegD                      // line 6, bottom

	// Blank lights nothing.
	Blank Segments = 0
)

// digitSegments maps each decimal digit to its pattern.
var digitSegments = map[int]Segments{
	0: SegA | SegB | SegC | SegD | SegE | SegF,
	1: SegB | SegC,
	2: SegA | SegB | SegG | SegE | SegD,
	3: SegA | SegB | SegG | SegC | SegD,
	4: SegF | SegG | SegB | SegC,
	5: SegA | SegF | SegG | SegC | SegD,
	6: SegF | SegG | SegC | SegD | SegE,
	7: SegA | SegB | SegC,
	8: SegA | SegB | SegC | SegD | SegE | SegF | SegG,
	9: SegA | SegB | SegC | SegF | SegG,
}

// SegmentsFor returns the pattern for digit. Anything outside 0-9, such as
// the negative digits of a negative year count, is Blank.
func SegmentsFor(digit int) Segments {
	return digitSegments[digit]
}

// Line reports whether segment line i is lit.
func (s Segments) Line(i int) bool {
	return s&(1<<i) != 0
}

// Digit returns the digit s displays, or -1 if s is not a digit pattern.
func (s Segments) Digit() int {
	for d, pattern := range digitSegments {
		if pattern == s {
			return d
		}
	}
	return -1
}

// Rune renders s as a digit character, or a space for anything else.
func (s Segments) Rune() rune {
	if d := s.Digit(); d >= 0 {
		return rune('0' + d)
	}
	return ' '
}
