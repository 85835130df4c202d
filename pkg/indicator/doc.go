// Package indicator drives the five indicator LEDs.
//
// The Controller samples the anniversary match once, then plays one
// Waveform to the end: the normal waveform at a slow pace, or the
// celebration waveform (a faster intro followed by three full flashes)
// while the current minute matches the anniversary. A waveform in progress
// is never cut short, even if the match window closes mid-way or the
// context is cancelled; both are only looked at between waveforms.
package indicator
