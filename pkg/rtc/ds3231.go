package rtc

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/i2c"

	"github.com/timeheart/lumina/pkg/timeinfo"
)

// DS3231 bus constants.
const (
	// DefaultAddress is the DS3231 I2C address.
	DefaultAddress uint16 = 0x68

	// RegisterCount is the size of the timekeeping register block.
	RegisterCount = 7

	// regSeconds is the first timekeeping register.
	regSeconds byte = 0x00
)

// Register offsets within the timekeeping block.
const (
	RegSeconds = iota
	RegMinutes
	RegHours
	RegWeekday
	RegDay
	RegMonth
	RegYear
)

// Tens-digit masks per register.
const (
	tensSeconds byte = 0x70
	tensMinutes byte = 0x70
	tensHours   byte = 0x30
	tensDay     byte = 0x30
	tensMonth   byte = 0x10
	tensYear    byte = 0xF0
	onesMask    byte = 0x0F
)

// Conn is a device on an I2C bus. *i2c.Dev implements it.
type Conn interface {
	// Tx writes w then reads len(r) bytes in a single transaction.
	Tx(w, r []byte) error
}

// DS3231 reads and sets a DS3231 real-time clock.
type DS3231 struct {
	conn Conn
}

// NewDS3231 returns a DS3231 at addr on bus.
func NewDS3231(bus i2c.Bus, addr uint16) *DS3231 {
	return &DS3231{conn: &i2c.Dev{Bus: bus, Addr: addr}}
}

// NewDS3231Conn returns a DS3231 that talks through conn.
func NewDS3231Conn(conn Conn) *DS3231 {
	return &DS3231{conn: conn}
}

// Read points the chip at register 0x00 and reads the timekeeping block.
// The context is not consulted; the bus transaction blocks until done.
func (d *DS3231) Read(context.Context) (timeinfo.Sample, error) {
	var regs [RegisterCount]byte
	if err := d.conn.Tx([]byte{regSeconds}, regs[:]); err != nil {
		return timeinfo.Sample{}, fmt.Errorf("ds3231 read: %w", err)
	}
	return DecodeRegisters(regs), nil
}

// Set writes s into the timekeeping block. The weekday register is zeroed.
func (d *DS3231) Set(_ context.Context, s timeinfo.Sample) error {
	regs := EncodeRegisters(s)

	buf := make([]byte, 0, RegisterCount+1)
	buf = append(buf, regSeconds)
	buf = append(buf, regs[:]...)

	if err := d.conn.Tx(buf, nil); err != nil {
		return fmt.Errorf("ds3231 set: %w", err)
	}
	return nil
}

// DecodeRegisters converts a timekeeping block into a sample.
// Bits outside each register's digit fields (12-hour mode, century) are
// dropped.
func DecodeRegisters(regs [RegisterCount]byte) timeinfo.Sample {
	return timeinfo.Sample{
		Seconds: bcd(regs[RegSeconds], tensSeconds),
		Minutes: bcd(regs[RegMinutes], tensMinutes),
		Hours:   bcd(regs[RegHours], tensHours),
		Days:    bcd(regs[RegDay], tensDay),
		Months:  bcd(regs[RegMonth], tensMonth),
		Years:   bcd(regs[RegYear], tensYear),
	}
}

// EncodeRegisters converts s into a timekeeping block in 24-hour mode.
// The year is reduced modulo 100.
func EncodeRegisters(s timeinfo.Sample) [RegisterCount]byte {
	var regs [RegisterCount]byte
	regs[RegSeconds] = toBCD(s.Seconds)
	regs[RegMinutes] = toBCD(s.Minutes)
	regs[RegHours] = toBCD(s.Hours)
	regs[RegWeekday] = 0
	regs[RegDay] = toBCD(s.Days)
	regs[RegMonth] = toBCD(s.Months)
	regs[RegYear] = toBCD(s.Years % 100)
	return regs
}

func bcd(b, tens byte) int {
	return int(b&onesMask) + int((b&tens)>>4)*10
}

func toBCD(v int) byte {
	return byte((v/10)<<4 | v%10)
}

// Compile-time interface satisfaction checks.
var (
	_ TimeSource = (*DS3231)(nil)
	_ Conn       = (*i2c.Dev)(nil)
)
