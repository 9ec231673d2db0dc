package slowio

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"slowio/internal/pace"
)

// Reader copies File to Out in chunks of at most ChunkSize bytes, pausing
// between reads. Data chunks and the trailing MsgReadEOF diagnostic share
// the same output stream, in order.
//
// Zero-value fields fall back to the package defaults, so
// &Reader{File: f, Out: w} runs with the stock chunk size and interval.
type Reader struct {
	File      io.Reader
	Out       io.Writer
	ChunkSize int
	Pacer     pace.Pacer
}

// Run drains File until end-of-file or a read error. A read error is
// reported on Out exactly like end-of-file and does not fail the run; the
// harnesses that consume this output do not distinguish the two. Run only
// returns an error when the context is canceled or Out stops accepting
// data. The caller keeps ownership of File and closes it.
func (r *Reader) Run(ctx context.Context) error {
	chunkSize := r.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	pacer := r.Pacer
	if pacer == nil {
		pacer = pace.Interval(DefaultReadInterval)
	}

	buf := make([]byte, chunkSize)
	for {
		if err := pacer.Wait(ctx); err != nil {
			return fmt.Errorf("slowio: pacing read loop: %w", err)
		}

		n, err := r.File.Read(buf)
		if n > 0 {
			if _, werr := r.Out.Write(buf[:n]); werr != nil {
				return fmt.Errorf("slowio: emit chunk: %w", werr)
			}
		}
		if err != nil || n == 0 {
			if err != nil && !errors.Is(err, io.EOF) {
				log.WithError(err).Debug("read failed, reporting as eof")
			}
			if _, werr := fmt.Fprintln(r.Out, MsgReadEOF); werr != nil {
				return fmt.Errorf("slowio: emit diagnostic: %w", werr)
			}
			return nil
		}
	}
}
