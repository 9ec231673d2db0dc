// Package slowio implements the paced read and write loops behind the
// slow_read and slow_write commands. The engines deliberately run one chunk
// at a time with a pause between operations to simulate a slow producer or
// consumer for I/O timing tests.
package slowio

import "time"

// Defaults for the loop parameters. The commands always run with these; the
// engines accept other values so tests can use small files and no delay.
const (
	DefaultChunkSize     = 10240
	DefaultReadInterval  = 250 * time.Millisecond
	DefaultWriteInterval = 100 * time.Millisecond
	DefaultWriteTotal    = 1 << 20

	// FillByte is the payload byte written by the Writer: the ASCII digit
	// zero, not the NUL byte.
	FillByte = '0'
)

// Diagnostic lines emitted on the output stream. External harnesses match
// on these literals, so they are part of the contract.
const (
	MsgReadEOF  = "read eof"
	MsgWriteEOF = "write eof"
	MsgClosing  = "closing file"
)
