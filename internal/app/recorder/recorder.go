package recorder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

const defaultMIMEType = "video/webm"

// Recorder wraps the capture capability: it accumulates encoded chunks in
// arrival order while a recording is active and assembles them into a single
// payload at stop time. At most one recording may be active.
type Recorder struct {
	capture  ports.Capture
	mimeType string

	mu        sync.Mutex
	recording bool
	handle    ports.RecordingHandle
	chunks    [][]byte
	startedAt time.Time
}

func New(capture ports.Capture, mimeType string) *Recorder {
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	return &Recorder{capture: capture, mimeType: mimeType}
}

// Start begins a recording from the given source. It fails with
// domain.ErrCaptureUnavailable when no capture capability or source exists and
// with domain.ErrAlreadyRecording when a recording is already active.
func (r *Recorder) Start(ctx context.Context, src ports.FrameSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return domain.ErrAlreadyRecording
	}
	if r.capture == nil || src == nil {
		return domain.ErrCaptureUnavailable
	}

	handle, err := r.capture.StartRecording(ctx, src, r.appendChunk)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCaptureUnavailable, err)
	}

	r.handle = handle
	r.recording = true
	r.startedAt = time.Now()
	r.chunks = r.chunks[:0]
	return nil
}

// Recording reports whether a recording is currently active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Stop finalizes the active recording. It waits for the capture capability to
// confirm the recording is fully stopped before assembling the payload, so
// late chunks are never lost. Calling Stop when not recording is a no-op that
// returns (nil, nil).
func (r *Recorder) Stop(ctx context.Context) (*domain.Recording, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, nil
	}
	r.recording = false
	handle := r.handle
	r.mu.Unlock()

	if err := handle.Stop(ctx); err != nil {
		r.reset()
		return nil, fmt.Errorf("stop recording: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, c := range r.chunks {
		total += len(c)
	}
	data := make([]byte, 0, total)
	for _, c := range r.chunks {
		data = append(data, c...)
	}

	rec := &domain.Recording{
		ID:        uuid.New(),
		StartedAt: r.startedAt,
		Duration:  time.Since(r.startedAt),
		MIMEType:  r.mimeType,
		Data:      data,
	}
	r.chunks = nil
	r.handle = nil
	return rec, nil
}

// appendChunk buffers one encoded chunk. Chunks are accepted until the handle
// is released so nothing delivered during stop confirmation is dropped.
func (r *Recorder) appendChunk(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle == nil {
		return
	}
	r.chunks = append(r.chunks, buf)
}

func (r *Recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = nil
	r.handle = nil
}
