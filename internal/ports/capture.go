package ports

import (
	"context"

	"github.com/Siddhubn/VitalLens/internal/domain"
)

// FrameSource is a live video source read by both the face monitor and the
// capture capability. Both are read-only consumers of frames.
type FrameSource interface {
	// Ready reports whether the source has buffered enough frames to be
	// usable. Polling against a source that is not ready is a no-op.
	Ready() bool
	Frame(ctx context.Context) (domain.Frame, error)
}

// ChunkFunc receives encoded media chunks in arrival order.
type ChunkFunc func(chunk []byte)

// RecordingHandle controls one active recording. Stop blocks until the
// capture capability confirms the recording is fully stopped and every chunk
// has been delivered.
type RecordingHandle interface {
	Stop(ctx context.Context) error
}

// Capture is the opaque media-capture capability.
type Capture interface {
	StartRecording(ctx context.Context, src FrameSource, onChunk ChunkFunc) (RecordingHandle, error)
}
