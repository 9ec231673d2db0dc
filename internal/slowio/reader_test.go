package slowio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"testing/iotest"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slowio/internal/pace"
)

// chunkRecorder captures every Write call so tests can assert on chunk
// boundaries, not just on the concatenated output.
type chunkRecorder struct {
	buf   bytes.Buffer
	sizes []int
}

func (r *chunkRecorder) Write(p []byte) (int, error) {
	r.sizes = append(r.sizes, len(p))
	return r.buf.Write(p)
}

func patternBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + i%23)
	}
	return b
}

func TestReaderChunking(t *testing.T) {
	content := patternBytes(25000)

	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/data.bin", content, 0o644))
	f, err := fsys.Open("/data.bin")
	require.NoError(t, err)
	defer f.Close()

	out := &chunkRecorder{}
	r := &Reader{File: f, Out: out, Pacer: pace.Nop()}
	require.NoError(t, r.Run(context.Background()))

	want := append(append([]byte{}, content...), []byte(MsgReadEOF+"\n")...)
	assert.Equal(t, want, out.buf.Bytes())

	// 25000 bytes at the default chunk size: two full chunks, a short
	// tail, then the diagnostic line.
	assert.Equal(t, []int{10240, 10240, 4520, len(MsgReadEOF) + 1}, out.sizes)
}

func TestReaderEmptyFile(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/empty", nil, 0o644))
	f, err := fsys.Open("/empty")
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	r := &Reader{File: f, Out: &out, Pacer: pace.Nop()}
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, MsgReadEOF+"\n", out.String())
}

func TestReaderCustomChunkSize(t *testing.T) {
	content := patternBytes(100)

	out := &chunkRecorder{}
	r := &Reader{File: bytes.NewReader(content), Out: out, ChunkSize: 32, Pacer: pace.Nop()}
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []int{32, 32, 32, 4, len(MsgReadEOF) + 1}, out.sizes)
}

// A mid-stream read error is reported exactly like end-of-file and the run
// still succeeds. Quirk inherited from the tools this replaces; external
// harnesses rely on it.
func TestReaderErrorReportedAsEOF(t *testing.T) {
	content := patternBytes(40)
	src := io.MultiReader(
		bytes.NewReader(content),
		iotest.ErrReader(errors.New("disk on fire")),
	)

	var out bytes.Buffer
	r := &Reader{File: src, Out: &out, ChunkSize: 40, Pacer: pace.Nop()}
	require.NoError(t, r.Run(context.Background()))

	want := string(content) + MsgReadEOF + "\n"
	assert.Equal(t, want, out.String())
}

// Readers may return data and io.EOF from the same call; the data must be
// emitted before the diagnostic.
func TestReaderDataWithEOFSameCall(t *testing.T) {
	content := patternBytes(10)

	var out bytes.Buffer
	r := &Reader{
		File:  iotest.DataErrReader(bytes.NewReader(content)),
		Out:   &out,
		Pacer: pace.Nop(),
	}
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, string(content)+MsgReadEOF+"\n", out.String())
}

func TestReaderPacing(t *testing.T) {
	const interval = 10 * time.Millisecond
	content := patternBytes(50)

	var out bytes.Buffer
	r := &Reader{
		File:      bytes.NewReader(content),
		Out:       &out,
		ChunkSize: 10,
		Pacer:     pace.Interval(interval),
	}

	start := time.Now()
	require.NoError(t, r.Run(context.Background()))

	// Five data chunks plus the eof read: at least five paced gaps.
	assert.GreaterOrEqual(t, time.Since(start), 5*interval)
}

func TestReaderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	r := &Reader{File: bytes.NewReader(patternBytes(10)), Out: &out, Pacer: pace.Nop()}
	err := r.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestReaderOutputFailure(t *testing.T) {
	r := &Reader{
		File:  bytes.NewReader(patternBytes(10)),
		Out:   failingWriter{},
		Pacer: pace.Nop(),
	}
	assert.Error(t, r.Run(context.Background()))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}
