package mock

import (
	"sync"
)

// Conn is a fake I2C device connection.
//
// Reads are served from Registers starting at the register pointer given
// by the first written byte. Writes longer than one byte store the remaining
// bytes into Registers.
type Conn struct {
	// Err, if set, is returned by every Tx.
	Err error

	mu        sync.Mutex
	Registers [32]byte
	writes    [][]byte
}

// NewConn creates a Conn whose registers start with regs.
func NewConn(regs ...byte) *Conn {
	c := &Conn{}
	copy(c.Registers[:], regs)
	return c
}

// Tx performs a write-then-read transaction.
func (c *Conn) Tx(w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writes = append(c.writes, append([]byte(nil), w...))
	if c.Err != nil {
		return c.Err
	}

	ptr := 0
	if len(w) > 0 {
		ptr = int(w[0])
		copy(c.Registers[ptr:], w[1:])
	}
	copy(r, c.Registers[ptr:])
	return nil
}

// Writes returns the recorded write buffers.
func (c *Conn) Writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([][]byte, len(c.writes))
	copy(result, c.writes)
	return result
}
