package capture

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

const (
	defaultChunkInterval = 250 * time.Millisecond
	defaultChunkSize     = 64 << 10
	defaultWarmupFrames  = 10
)

// Config describes the replayed media file.
type Config struct {
	Path          string
	ChunkInterval time.Duration
	ChunkSize     int
	// WarmupFrames is how many frames must have been served before the
	// source reports Ready.
	WarmupFrames int
}

func (c *Config) applyDefaults() {
	if c.ChunkInterval <= 0 {
		c.ChunkInterval = defaultChunkInterval
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.WarmupFrames <= 0 {
		c.WarmupFrames = defaultWarmupFrames
	}
}

// FileCapture replays an encoded video file as both a live frame source and a
// recordable stream, standing in for camera hardware. The file is looped so
// recordings of any duration can be produced.
type FileCapture struct {
	cfg  Config
	data []byte

	mu     sync.Mutex
	frames int
}

func NewFileCapture(cfg Config) (*FileCapture, error) {
	cfg.applyDefaults()
	data, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("read capture source: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("capture source %s is empty", cfg.Path)
	}
	return &FileCapture{cfg: cfg, data: data}, nil
}

func (f *FileCapture) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames >= f.cfg.WarmupFrames
}

func (f *FileCapture) Frame(ctx context.Context) (domain.Frame, error) {
	f.mu.Lock()
	f.frames++
	n := f.frames
	f.mu.Unlock()

	// Serve a window into the file as a stand-in frame.
	off := (n * f.cfg.ChunkSize) % len(f.data)
	end := off + f.cfg.ChunkSize
	if end > len(f.data) {
		end = len(f.data)
	}
	return domain.Frame{Data: f.data[off:end], CapturedAt: time.Now()}, nil
}

func (f *FileCapture) StartRecording(ctx context.Context, src ports.FrameSource, onChunk ports.ChunkFunc) (ports.RecordingHandle, error) {
	if onChunk == nil {
		return nil, fmt.Errorf("chunk callback is required")
	}
	if src == nil {
		return nil, fmt.Errorf("frame source is required")
	}

	hctx, cancel := context.WithCancel(context.Background())
	h := &fileHandle{cancel: cancel, done: make(chan struct{})}
	go h.stream(hctx, f.data, f.cfg.ChunkInterval, f.cfg.ChunkSize, onChunk)
	return h, nil
}

type fileHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (h *fileHandle) stream(ctx context.Context, data []byte, interval time.Duration, size int, onChunk ports.ChunkFunc) {
	defer close(h.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	off := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if off >= len(data) {
				off = 0
			}
			end := off + size
			if end > len(data) {
				end = len(data)
			}
			onChunk(data[off:end])
			off = end
		}
	}
}

// Stop cancels the chunk stream and blocks until it has fully drained, so the
// payload is final when Stop returns.
func (h *fileHandle) Stop(ctx context.Context) error {
	h.cancel()
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var (
	_ ports.FrameSource = (*FileCapture)(nil)
	_ ports.Capture     = (*FileCapture)(nil)
)
