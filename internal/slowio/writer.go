package slowio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"slowio/internal/pace"
)

// Writer fills File with Total bytes of the Fill character in chunks of at
// most ChunkSize bytes, pausing between writes. File must already be
// positioned at the target offset; the caller seeks before Run and closes
// afterwards.
//
// Zero-value fields fall back to the package defaults. A zero Fill means
// FillByte; writing NUL bytes is not supported.
type Writer struct {
	File      io.Writer
	Out       io.Writer
	ChunkSize int
	Total     int64
	Fill      byte
	Pacer     pace.Pacer
}

// Run writes until Total bytes have been written or a write error occurs.
// The final chunk is clamped so exactly Total bytes land in the file. A
// write error is reported on Out as MsgWriteEOF and ends the run early with
// the count short of Total; like the reader, this is not surfaced as a run
// failure. Run returns the number of bytes written, and an error only for
// context cancellation or a diagnostic-stream failure.
func (w *Writer) Run(ctx context.Context) (int64, error) {
	chunkSize := w.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	total := w.Total
	if total <= 0 {
		total = DefaultWriteTotal
	}
	fill := w.Fill
	if fill == 0 {
		fill = FillByte
	}
	pacer := w.Pacer
	if pacer == nil {
		pacer = pace.Interval(DefaultWriteInterval)
	}

	buf := bytes.Repeat([]byte{fill}, chunkSize)
	var written int64
	for written < total {
		if err := pacer.Wait(ctx); err != nil {
			return written, fmt.Errorf("slowio: pacing write loop: %w", err)
		}

		chunk := buf
		if remaining := total - written; remaining < int64(len(chunk)) {
			chunk = chunk[:remaining]
		}

		n, err := w.File.Write(chunk)
		written += int64(n)
		if err != nil {
			log.WithError(err).WithField("written", written).Debug("write failed, stopping early")
			if _, werr := fmt.Fprintln(w.Out, MsgWriteEOF); werr != nil {
				return written, fmt.Errorf("slowio: emit diagnostic: %w", werr)
			}
			return written, nil
		}
	}
	return written, nil
}
