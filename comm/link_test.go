package comm

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillPipe writes into link until the kernel buffer refuses even a single
// byte. Small pipe writes are all-or-nothing, so large chunks alone can
// leave room for a frame.
func fillPipe(t *testing.T, link Link) {
	t.Helper()
	for _, size := range []int{4096, 1} {
		chunk := make([]byte, size)
		filled := false
		for i := 0; i < 1<<20 && !filled; i++ {
			if _, err := link.TryWrite(chunk); err != nil {
				require.ErrorIs(t, err, ErrWouldBlock)
				filled = true
			}
		}
		require.True(t, filled, "pipe never filled")
	}
}

func TestFileLinkReportsFullBuffer(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	link := NewFileLink(w)
	fillPipe(t, link)

	frame := Encode(NewStopCommand(Lift))
	n, err := link.TryWrite(frame[:])
	assert.ErrorIs(t, err, ErrWouldBlock)
	assert.Zero(t, n)
}

func TestFileLinkWritesFrame(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	frame := Encode(NewSetSpeedCommand(30000, Lift))
	n, err := NewFileLink(w).TryWrite(frame[:])
	require.NoError(t, err)
	assert.Equal(t, FrameSize, n)

	got := make([]byte, FrameSize)
	_, err = io.ReadFull(r, got)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x30, 0x75, 0x00}, got)
}

func TestDispatcherOverFullPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	link := NewFileLink(w)
	fillPipe(t, link)

	status := runDispatcher(t, link, NewSetSpeedCommand(1000, Bucket))
	assert.Equal(t, []string{"Serial error: " + ErrWouldBlock.Error()}, status.Drain())
}

func TestWriterLink(t *testing.T) {
	var buf bytes.Buffer
	status := runDispatcher(t, NewWriterLink(&buf), NewSetDirectionCommand(Backward, Bucket))
	assert.Equal(t, []byte{0x01, 0x01, 0x00, 0x01}, buf.Bytes())
	assert.Equal(t, []string{"Set direction to backward on Bucket"}, status.Drain())
}
