// Package rtc provides time sources for the anniversary counter.
//
// A TimeSource returns one timeinfo.Sample per call. The appliance reads a
// DS3231 real-time clock over I2C; hosts without the chip use System, which
// converts the host clock into the same six-field shape.
//
// # DS3231 Registers
//
// The chip keeps time in a block of seven registers starting at 0x00, each
// holding two binary-coded-decimal digits: seconds, minutes, hours, weekday,
// day of month, month and year. The ones digit is always the low nibble; the
// bits carrying the tens digit differ per register (see DecodeRegisters).
// The weekday register is ignored.
//
// # Blocking
//
// Reads block until the bus transaction completes. There is no timeout
// unless the source is wrapped with WithTimeout.
package rtc
