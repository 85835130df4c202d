package indicator

import "time"

// LineCount is the number of indicator lines.
const LineCount = 5

// Reference dwell times.
const (
	DefaultNormalDwell      = 2000 * time.Millisecond
	DefaultCelebrationDwell = 750 * time.Millisecond
)

// Lines is a set of indicator lines, bit i for line i.
type Lines uint8

// Indicator lines.
const (
	Line0 Lines = 1 << iota
	Line1
	Line2
	Line3
	Line4

	AllLines = Line0 | Line1 | Line2 | Line3 | Line4
)

// Has reports whether line i is in the set.
func (l Lines) Has(i int) bool {
	return l&(1<<i) != 0
}

// String renders the set as one character per line, line 0 first, e.g.
// "10100" for lines 0 and 2.
func (l Lines) String() string {
	var b [LineCount]byte
	for i := range b {
		b[i] = '0'
		if l.Has(i) {
			b[i] = '1'
		}
	}
	return string(b[:])
}

// Phase is a state of the indicator state machine.
type Phase uint8

const (
	// PhaseNormal plays the normal waveform.
	PhaseNormal Phase = iota
	// PhaseCelebrationIntro plays the staged switch-on of a celebration.
	PhaseCelebrationIntro
	// PhaseCelebrationFlash1 is the first full flash.
	PhaseCelebrationFlash1
	// PhaseCelebrationFlash2 is the second full flash.
	PhaseCelebrationFlash2
	// PhaseCelebrationFlash3 is the third full flash.
	PhaseCelebrationFlash3
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNormal:
		return "NORMAL"
	case PhaseCelebrationIntro:
		return "CELEBRATION_INTRO"
	case PhaseCelebrationFlash1:
		return "CELEBRATION_FLASH_1"
	case PhaseCelebrationFlash2:
		return "CELEBRATION_FLASH_2"
	case PhaseCelebrationFlash3:
		return "CELEBRATION_FLASH_3"
	default:
		return "UNKNOWN"
	}
}

// Step switches lines on or off and then holds for Dwell.
// On is applied before Off; lines in neither set are left alone.
type Step struct {
	Phase Phase
	On    Lines
	Off   Lines
	Dwell time.Duration
}

// Waveform is a named sequence of steps played as one unit.
type Waveform struct {
	Name  string
	Steps []Step
}

// Duration returns the total dwell of the waveform.
func (w Waveform) Duration() time.Duration {
	var total time.Duration
	for _, s := range w.Steps {
		total += s.Dwell
	}
	return total
}

// Waveform names.
const (
	WaveformNormal      = "normal"
	WaveformCelebration = "celebration"
)

// flashPhases orders the celebration flash cycles.
var flashPhases = [...]Phase{PhaseCelebrationFlash1, PhaseCelebrationFlash2, PhaseCelebrationFlash3}

// staged returns the three-group switch-on followed by all off.
func staged(phase Phase, dwell time.Duration) []Step {
	return []Step{
		{Phase: phase, On: Line0, Dwell: dwell},
		{Phase: phase, On: Line1 | Line2, Dwell: dwell},
		{Phase: phase, On: Line3 | Line4, Dwell: dwell},
		{Phase: phase, Off: AllLines, Dwell: dwell},
	}
}

// NormalWaveform switches on line 0, then lines 1-2, then lines 3-4, then
// clears all, holding dwell after each step.
func NormalWaveform(dwell time.Duration) Waveform {
	return Waveform{Name: WaveformNormal, Steps: staged(PhaseNormal, dwell)}
}

// CelebrationWaveform plays the staged switch-on at dwell and then flashes
// all lines on and off three times at the same dwell.
func CelebrationWaveform(dwell time.Duration) Waveform {
	steps := staged(PhaseCelebrationIntro, dwell)
	for _, phase := range flashPhases {
		steps = append(steps,
			Step{Phase: phase, On: AllLines, Dwell: dwell},
			Step{Phase: phase, Off: AllLines, Dwell: dwell},
		)
	}
	return Waveform{Name: WaveformCelebration, Steps: steps}
}
